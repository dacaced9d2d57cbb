// internal/types/position.go
package types

import sitter "github.com/smacker/go-tree-sitter"

// Position is a line/column location in the buffer.
// Line is the 0-based line index; Col is the 0-based byte column within the line.
type Position struct {
	Line int
	Col  int
}

// Point converts to a tree-sitter point.
func (p Position) Point() sitter.Point {
	return sitter.Point{Row: uint32(p.Line), Column: uint32(p.Col)}
}
