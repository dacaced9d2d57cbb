package buffer

import (
	"sort"

	"github.com/bethropolis/tidecore/internal/types"
	"github.com/rivo/uniseg"
)

// LineIndex holds the byte offset at which every line starts. Entry 0 is
// always 0 and entries are strictly increasing, so the line count is the
// number of newlines plus one.
type LineIndex struct {
	starts []int
	length int
}

// NewLineIndex builds an index for text.
func NewLineIndex(text []byte) *LineIndex {
	li := &LineIndex{}
	li.Rebuild(text)
	return li
}

// Rebuild recomputes the index from scratch.
func (li *LineIndex) Rebuild(text []byte) {
	starts := make([]int, 1, 1+len(text)/32)
	for i, b := range text {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	li.starts = starts
	li.length = len(text)
}

// Apply patches the index for the replacement of [start, end) with newText.
// Starts at or before start are kept, starts inside (start, end] belonged to
// deleted newlines and are removed, later starts shift by the length delta,
// and every newline in newText adds a start right after it.
func (li *LineIndex) Apply(start, end int, newText []byte) {
	start, end = clampRange(start, end, li.length)
	delta := len(newText) - (end - start)

	first := sort.SearchInts(li.starts, start+1) // first s > start
	tail := sort.SearchInts(li.starts, end+1)    // first s > end

	inserted := 0
	for _, b := range newText {
		if b == '\n' {
			inserted++
		}
	}

	next := make([]int, 0, first+inserted+len(li.starts)-tail)
	next = append(next, li.starts[:first]...)
	for i, b := range newText {
		if b == '\n' {
			next = append(next, start+i+1)
		}
	}
	for _, s := range li.starts[tail:] {
		next = append(next, s+delta)
	}

	li.starts = next
	li.length += delta
}

// LineCount returns the number of lines; an empty document has one.
func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

// Len is the document length the index was built for.
func (li *LineIndex) Len() int {
	return li.length
}

// OffsetToLine returns the line containing offset. Out-of-range offsets clamp.
func (li *LineIndex) OffsetToLine(offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset > li.length {
		offset = li.length
	}
	// Largest i with starts[i] <= offset.
	return sort.SearchInts(li.starts, offset+1) - 1
}

// LineToOffset returns the offset at which line starts.
func (li *LineIndex) LineToOffset(line int) int {
	return li.StartOfLine(line)
}

// StartOfLine returns the first offset of line. Out-of-range lines clamp.
func (li *LineIndex) StartOfLine(line int) int {
	return li.starts[li.clampLine(line)]
}

// EndOfLine returns the offset of the newline ending line, or the document
// length for the last line.
func (li *LineIndex) EndOfLine(line int) int {
	line = li.clampLine(line)
	if line+1 < len(li.starts) {
		return li.starts[line+1] - 1
	}
	return li.length
}

// Position converts an offset to a line and byte column.
func (li *LineIndex) Position(offset int) types.Position {
	offset = clamp(offset, 0, li.length)
	line := li.OffsetToLine(offset)
	return types.Position{Line: line, Col: offset - li.starts[line]}
}

// Offset converts a line/column position back to an offset, clamping the
// column to the line's extent.
func (li *LineIndex) Offset(pos types.Position) int {
	line := li.clampLine(pos.Line)
	start := li.starts[line]
	return start + clamp(pos.Col, 0, li.EndOfLine(line)-start)
}

// Starts returns a copy of the line start offsets.
func (li *LineIndex) Starts() []int {
	out := make([]int, len(li.starts))
	copy(out, li.starts)
	return out
}

// Equal reports whether both indexes describe the same line layout.
func (li *LineIndex) Equal(other *LineIndex) bool {
	if other == nil || li.length != other.length || len(li.starts) != len(other.starts) {
		return false
	}
	for i, s := range li.starts {
		if other.starts[i] != s {
			return false
		}
	}
	return true
}

func (li *LineIndex) clampLine(line int) int {
	return clamp(line, 0, len(li.starts)-1)
}

// DisplayColumn returns the screen column of byte column col within line,
// measuring grapheme clusters with uniseg and expanding tabs to the next
// multiple of tabWidth.
func DisplayColumn(line []byte, col, tabWidth int) int {
	if col <= 0 {
		return 0
	}
	if tabWidth <= 0 {
		tabWidth = 1
	}
	visual := 0
	gr := uniseg.NewGraphemes(string(line))
	for gr.Next() {
		from, _ := gr.Positions()
		if from >= col {
			break
		}
		if gr.Str() == "\t" {
			visual += tabWidth - visual%tabWidth
			continue
		}
		visual += gr.Width()
	}
	return visual
}

// ByteColumn is the inverse of DisplayColumn: the byte column of the first
// grapheme cluster whose display column reaches visual, or len(line).
func ByteColumn(line []byte, visual, tabWidth int) int {
	if visual <= 0 {
		return 0
	}
	if tabWidth <= 0 {
		tabWidth = 1
	}
	current := 0
	gr := uniseg.NewGraphemes(string(line))
	for gr.Next() {
		from, _ := gr.Positions()
		if current >= visual {
			return from
		}
		if gr.Str() == "\t" {
			current += tabWidth - current%tabWidth
		} else {
			current += gr.Width()
		}
	}
	return len(line)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampRange clamps both ends into [0, length] and orders them.
func clampRange(start, end, length int) (int, int) {
	start = clamp(start, 0, length)
	end = clamp(end, 0, length)
	if start > end {
		start, end = end, start
	}
	return start, end
}
