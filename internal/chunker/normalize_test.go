package chunker

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged",
			input: "hello world",
			want:  "hello world",
		},
		{
			name:  "nul bytes become spaces",
			input: "a\x00b",
			want:  "a b",
		},
		{
			name:  "space runs collapse",
			input: "a    b\t\tc \t d",
			want:  "a b c d",
		},
		{
			name:  "crlf becomes lf",
			input: "line1\r\nline2",
			want:  "line1\nline2",
		},
		{
			name:  "bare cr becomes lf",
			input: "line1\rline2",
			want:  "line1\nline2",
		},
		{
			name:  "two newlines kept",
			input: "para1\n\npara2",
			want:  "para1\n\npara2",
		},
		{
			name:  "three newlines collapse to two",
			input: "para1\n\n\npara2",
			want:  "para1\n\npara2",
		},
		{
			name:  "many newlines collapse to two",
			input: "para1\n\n\n\n\n\npara2",
			want:  "para1\n\npara2",
		},
		{
			name:  "crlf runs collapse",
			input: "para1\r\n\r\n\r\n\r\npara2",
			want:  "para1\n\npara2",
		},
		{
			name:  "leading and trailing whitespace trimmed",
			input: "  \n hello \n  ",
			want:  "hello",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: " \t\n\r\n ",
			want:  "",
		},
		{
			name:  "korean text preserved",
			input: "안녕하세요   세계\r\n\r\n\r\n질문입니다",
			want:  "안녕하세요 세계\n\n질문입니다",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"plain",
		"a\x00b   c\r\n\r\n\r\nd\te",
		"  padded  ",
		strings.Repeat("mixed \r\n content\n\n\n\n", 50),
		"한국어\r문서\t\t질의",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
