package finder

import (
	"sort"
	"strings"

	"github.com/meghashyamc/docsearch/db/searchdb"
)

// matchedLines returns each line of content holding at least one match,
// once, in the order the lines appear.
func matchedLines(content string, matches []searchdb.Match) []string {
	lineStarts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}

	seen := make(map[int]struct{})
	var lineNumbers []int
	for _, match := range matches {
		if match.Start >= uint64(len(content)) {
			continue
		}
		// index of the last line starting at or before the match
		line := sort.Search(len(lineStarts), func(i int) bool {
			return uint64(lineStarts[i]) > match.Start
		}) - 1
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		lineNumbers = append(lineNumbers, line)
	}
	sort.Ints(lineNumbers)

	lines := make([]string, 0, len(lineNumbers))
	for _, line := range lineNumbers {
		end := len(content)
		if line+1 < len(lineStarts) {
			end = lineStarts[line+1] - 1
		}
		lines = append(lines, strings.TrimSuffix(content[lineStarts[line]:end], "\r"))
	}

	return lines
}
