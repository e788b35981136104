package domain

import (
	"regexp"
	"strconv"
)

var citationPattern = regexp.MustCompile(`\[C(\d+)\]`)

// ParseCitations collects the citation numbers appearing in an answer as
// [C1], [C2], ... markers. The result holds each number once, in order
// of first appearance. An answer without markers yields an empty slice.
func ParseCitations(answer string) []int {
	matches := citationPattern.FindAllStringSubmatch(answer, -1)
	seen := make(map[int]struct{}, len(matches))
	cited := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// Digits too long to fit an int; not a usable citation.
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		cited = append(cited, n)
	}
	return cited
}
