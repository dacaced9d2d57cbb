package selection

import (
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/types"
)

// Manager handles text selection state and logic.
type Manager struct {
	editor EditorInterface

	selecting bool
	anchor    int
	end       int // Follows the cursor
}

// EditorInterface defines what the selection manager needs from editor.
type EditorInterface interface {
	GetCursor() int
}

// NewManager creates a new selection manager.
func NewManager(editor EditorInterface) *Manager {
	return &Manager{editor: editor}
}

// HasSelection reports whether a non-empty range is selected.
func (m *Manager) HasSelection() bool {
	return m.selecting && m.anchor != m.end
}

// GetSelection returns the ordered selection range. ok is false when
// nothing or an empty range is selected.
func (m *Manager) GetSelection() (start, end int, ok bool) {
	if !m.HasSelection() {
		return 0, 0, false
	}
	start, end = m.anchor, m.end
	if start > end {
		start, end = end, start
	}
	return start, end, true
}

// Select sets an explicit range.
func (m *Manager) Select(anchor, end int) {
	m.selecting = true
	m.anchor = anchor
	m.end = end
	logger.DebugTagf("core", "Selection Manager: Selected %d-%d", anchor, end)
}

// ClearSelection resets the selection state.
func (m *Manager) ClearSelection() {
	if m.selecting {
		logger.DebugTagf("core", "Selection Manager: Cleared")
	}
	m.selecting = false
	m.anchor, m.end = 0, 0
}

// StartOrUpdateSelection anchors a selection at the cursor if none is
// active, then moves its end to the cursor.
func (m *Manager) StartOrUpdateSelection() {
	cursor := m.editor.GetCursor()
	if !m.selecting {
		m.anchor = cursor
		m.selecting = true
		logger.DebugTagf("core", "Selection Manager: Started at %d", cursor)
	}
	m.end = cursor
}

// IsSelecting returns the raw selecting flag state.
func (m *Manager) IsSelecting() bool {
	return m.selecting
}

// Shift carries the selection across an edit. A selection the edit
// touches is cleared.
func (m *Manager) Shift(edit types.EditInfo) {
	if !m.selecting {
		return
	}
	start, end := m.anchor, m.end
	reversed := start > end
	if reversed {
		start, end = end, start
	}
	start, end, ok := types.ShiftRange(start, end, edit, false)
	if !ok {
		m.ClearSelection()
		return
	}
	if reversed {
		start, end = end, start
	}
	m.anchor, m.end = start, end
}
