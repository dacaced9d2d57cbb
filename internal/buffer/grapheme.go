package buffer

import "github.com/rivo/uniseg"

// NextBoundary returns the end of the grapheme cluster starting at offset.
func NextBoundary(text []byte, offset int) int {
	if offset >= len(text) {
		return len(text)
	}
	cluster, _, _, _ := uniseg.Step(text[offset:], -1)
	return offset + len(cluster)
}

// PrevBoundary returns the start of the grapheme cluster ending at offset.
// Segmentation restarts at the beginning of the line, so "\r\n" counts as
// one cluster.
func PrevBoundary(text []byte, offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	lineStart := offset - 1
	for lineStart > 0 && text[lineStart-1] != '\n' {
		lineStart--
	}
	prev := lineStart
	rest := text[lineStart:offset]
	state := -1
	for len(rest) > 0 {
		var cluster []byte
		cluster, rest, _, state = uniseg.Step(rest, state)
		if len(rest) == 0 {
			break
		}
		prev += len(cluster)
	}
	return prev
}
