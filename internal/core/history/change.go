// Package history provides undo/redo functionality via a pair of edit stacks.
package history

import "bytes"

// Mode tells the editor whether edits flowing through it are new user edits
// or replays issued by the history itself.
type Mode int

const (
	ModeNormal Mode = iota
	ModeUndoing
	ModeRedoing
)

func (m Mode) String() string {
	switch m {
	case ModeUndoing:
		return "undoing"
	case ModeRedoing:
		return "redoing"
	default:
		return "normal"
	}
}

// Record is the minimal description needed to invert or replay one
// replacement: OldText at Start became NewText.
type Record struct {
	Start   int
	OldText []byte
	NewText []byte

	// Truncated marks the bottom of a history whose older records were evicted.
	Truncated bool
}

// Size is the larger of the removed and inserted lengths.
func (r Record) Size() int {
	if len(r.OldText) > len(r.NewText) {
		return len(r.OldText)
	}
	return len(r.NewText)
}

func (r Record) isIdentity() bool {
	return bytes.Equal(r.OldText, r.NewText)
}

func truncatedSentinel() Record {
	return Record{Truncated: true}
}
