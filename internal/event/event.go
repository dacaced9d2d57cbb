// internal/event/event.go
package event

import (
	"fmt"

	"github.com/bethropolis/tidecore/internal/types"
)

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	TypeBufferModified     // Buffer content changed through the edit entry point
	TypeBufferLoaded       // Buffer content replaced wholesale
	TypeHistoryChanged     // Undo/redo availability changed
	TypeHighlightCompleted // A highlight generation was applied
	TypeSearchChanged      // Match list or current match changed
	TypeConfigChanged      // Editor settings were replaced
)

func (t Type) String() string {
	switch t {
	case TypeBufferModified:
		return "BufferModified"
	case TypeBufferLoaded:
		return "BufferLoaded"
	case TypeHistoryChanged:
		return "HistoryChanged"
	case TypeHighlightCompleted:
		return "HighlightCompleted"
	case TypeSearchChanged:
		return "SearchChanged"
	case TypeConfigChanged:
		return "ConfigChanged"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// BufferModifiedData describes a committed edit.
type BufferModifiedData struct {
	DocumentID string
	Edit       types.EditInfo
}

// BufferLoadedData is sent after a full load.
type BufferLoadedData struct {
	DocumentID string
	Length     int
}

// HistoryChangedData carries the new undo/redo availability.
type HistoryChangedData struct {
	CanUndo bool
	CanRedo bool
}

// HighlightCompletedData reports the generation that was just applied.
type HighlightCompletedData struct {
	Generation uint64
	SpanCount  int
}

// SearchChangedData reports the match count and the current index (-1 when none).
type SearchChangedData struct {
	Count   int
	Current int
}

// ConfigChangedData is sent after editor settings are replaced.
type ConfigChangedData struct {
	Source string
}
