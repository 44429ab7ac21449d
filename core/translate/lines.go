package translate

import (
	"strings"
	"unicode/utf8"
)

// SplitLines splits s on line breaks, accepting both \n and \r\n. Blank
// lines around the text are dropped; blank lines inside it are kept.
func SplitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.Trim(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// FitLines returns exactly expected lines: got is padded with empty strings
// or truncated as needed. got is never modified.
func FitLines(expected int, got []string) []string {
	if expected <= 0 {
		return []string{}
	}
	out := make([]string, expected)
	copy(out, got)
	return out
}

// ChunkLines groups lines greedily into chunks whose text, joined with
// newlines, stays within maxChars characters. Chunks only break between
// lines; a single line longer than maxChars becomes a chunk of its own.
func ChunkLines(lines []string, maxChars int) [][]string {
	var chunks [][]string
	var current []string
	size := 0

	for _, line := range lines {
		n := utf8.RuneCountInString(line)
		added := n
		if len(current) > 0 {
			added++ // joining newline
		}
		if len(current) > 0 && size+added > maxChars {
			chunks = append(chunks, current)
			current, size, added = nil, 0, n
		}
		current = append(current, line)
		size += added
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}
