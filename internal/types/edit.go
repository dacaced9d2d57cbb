package types

import sitter "github.com/smacker/go-tree-sitter"

// EditInfo describes one committed replacement in both byte offsets and
// row/column points, the shape tree-sitter's incremental Edit expects.
type EditInfo struct {
	StartIndex     int          // Start byte of the edit
	OldEndIndex    int          // End byte of the replaced text
	NewEndIndex    int          // End byte of the inserted text
	StartPosition  sitter.Point // Start position (row, byte column)
	OldEndPosition sitter.Point
	NewEndPosition sitter.Point
}

// Delta is the change in document length caused by the edit.
func (e EditInfo) Delta() int {
	return e.NewEndIndex - e.OldEndIndex
}

// DeletedLen is the length of the replaced range.
func (e EditInfo) DeletedLen() int {
	return e.OldEndIndex - e.StartIndex
}

// InsertedLen is the length of the inserted text.
func (e EditInfo) InsertedLen() int {
	return e.NewEndIndex - e.StartIndex
}

// IsNoop reports an edit that neither deleted nor inserted anything.
func (e EditInfo) IsNoop() bool {
	return e.OldEndIndex == e.StartIndex && e.NewEndIndex == e.StartIndex
}

// InputEdit converts to the tree-sitter edit record.
func (e EditInfo) InputEdit() sitter.EditInput {
	return sitter.EditInput{
		StartIndex:  uint32(e.StartIndex),
		OldEndIndex: uint32(e.OldEndIndex),
		NewEndIndex: uint32(e.NewEndIndex),
		StartPoint:  e.StartPosition,
		OldEndPoint: e.OldEndPosition,
		NewEndPoint: e.NewEndPosition,
	}
}
