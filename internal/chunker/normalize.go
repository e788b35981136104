package chunker

import (
	"regexp"
	"strings"
)

var (
	spaceRuns   = regexp.MustCompile(`[ \t]+`)
	newlineRuns = regexp.MustCompile(`\n{3,}`)
)

// Normalize canonicalises extracted text: NUL bytes become spaces, runs
// of spaces and tabs collapse to a single space, line endings become
// "\n", runs of three or more newlines collapse to exactly two, and
// leading/trailing whitespace is trimmed. Normalize is idempotent.
func Normalize(text string) string {
	s := strings.ReplaceAll(text, "\x00", " ")
	s = spaceRuns.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = newlineRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
