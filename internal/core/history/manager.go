package history

import (
	"errors"

	"github.com/bethropolis/tidecore/internal/buffer"
	"github.com/bethropolis/tidecore/internal/event"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/types"
)

const (
	DefaultMaxHistory  = 100
	DefaultMaxEditSize = 1 << 20
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// EditorInterface defines the methods the history manager needs from the editor.
// ApplyEdit must route through the editor's single edit entry point so that
// replays update every overlay the same way user edits do.
type EditorInterface interface {
	GetBuffer() buffer.Buffer
	ApplyEdit(start, end int, text []byte) types.EditInfo
	SetCursor(offset int)
	GetEventManager() *event.Manager
}

type pendingChange struct {
	start   int
	oldText []byte
}

type pendingCorrection struct {
	unionStart int
	unionEnd   int // End of the union range before the correction
	count      int
	oldText    []byte
}

// Manager handles the undo and redo stacks. It is owned by a single
// goroutine and holds no lock: undo and redo call back into the editor,
// which in turn consults Recording.
type Manager struct {
	editor      EditorInterface
	undo        []Record
	redo        []Record
	maxHistory  int
	maxEditSize int
	mode        Mode
	merging     bool

	pending    *pendingChange
	correction *pendingCorrection
	preEvict   []Record // Undo stack before the last record's push evicted one

	lastCanUndo bool
	lastCanRedo bool
}

// NewManager creates a history manager. Non-positive limits select defaults.
func NewManager(editor EditorInterface, maxHistory, maxEditSize int) *Manager {
	m := &Manager{editor: editor}
	m.SetLimits(maxHistory, maxEditSize)
	return m
}

// SetLimits changes the depth bound and the oversized-edit threshold.
func (m *Manager) SetLimits(maxHistory, maxEditSize int) {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	if maxEditSize <= 0 {
		maxEditSize = DefaultMaxEditSize
	}
	m.maxHistory = maxHistory
	m.maxEditSize = maxEditSize
	m.undo, _ = m.bound(m.undo)
	m.preEvict = nil
	m.notify()
}

// Mode returns the current replay mode.
func (m *Manager) Mode() Mode {
	return m.mode
}

// Recording reports whether an edit arriving now should be recorded.
func (m *Manager) Recording() bool {
	return m.mode == ModeNormal && !m.merging
}

// BeginChange captures the count bytes at offset that the next edit will delete.
func (m *Manager) BeginChange(offset, count int) {
	if !m.Recording() {
		return
	}
	m.pending = &pendingChange{
		start:   offset,
		oldText: m.editor.GetBuffer().Slice(offset, offset+count),
	}
}

// CommitChange records the edit begun by BeginChange. An edit whose size
// reaches the configured maximum clears both stacks instead.
func (m *Manager) CommitChange(offset int, newText []byte) {
	p := m.pending
	m.pending = nil
	if p == nil || !m.Recording() {
		return
	}

	rec := Record{
		Start:   p.start,
		OldText: p.oldText,
		NewText: append([]byte(nil), newText...),
	}
	if len(rec.OldText) == 0 && len(rec.NewText) == 0 {
		return
	}
	if rec.Size() >= m.maxEditSize {
		logger.DebugTagf("history", "History: Edit of %d bytes at %d exceeds limit %d, clearing", rec.Size(), offset, m.maxEditSize)
		m.Clear()
		return
	}

	prev := m.undo
	stack, evicted := m.bound(append(m.undo, rec))
	m.undo = stack
	m.preEvict = nil
	if evicted {
		m.preEvict = prev
	}
	m.redo = m.redo[:0]
	logger.DebugTagf("history", "History: Recorded edit at %d (-%d/+%d). Undo: %d", rec.Start, len(rec.OldText), len(rec.NewText), len(m.undo))
	m.notify()
}

// BeginCorrection prepares to fold a companion edit replacing count bytes at
// offset into the most recent record.
func (m *Manager) BeginCorrection(offset, count int) {
	m.correction = nil
	m.merging = true
	if m.mode != ModeNormal || len(m.undo) == 0 {
		return
	}
	top := m.undo[len(m.undo)-1]
	if top.Truncated {
		return
	}

	buf := m.editor.GetBuffer()
	recEnd := top.Start + len(top.NewText)
	u0, u1 := top.Start, recEnd
	if offset < u0 {
		u0 = offset
	}
	if offset+count > u1 {
		u1 = offset + count
	}

	old := buf.Slice(u0, top.Start)
	old = append(old, top.OldText...)
	old = append(old, buf.Slice(recEnd, u1)...)

	m.correction = &pendingCorrection{
		unionStart: u0,
		unionEnd:   u1,
		count:      count,
		oldText:    old,
	}
}

// CommitCorrection completes BeginCorrection, rewriting the most recent
// record to span both edits. A merge that cancels out removes the record.
func (m *Manager) CommitCorrection(offset int, newText []byte) {
	c := m.correction
	m.correction = nil
	m.merging = false
	if c == nil || len(m.undo) == 0 {
		return
	}

	newEnd := c.unionEnd + len(newText) - c.count
	merged := Record{
		Start:   c.unionStart,
		OldText: c.oldText,
		NewText: m.editor.GetBuffer().Slice(c.unionStart, newEnd),
	}

	switch {
	case merged.isIdentity():
		if m.preEvict != nil {
			// Pushing the cancelled edit evicted an older record; put it back.
			m.undo = m.preEvict
		} else {
			m.undo = m.undo[:len(m.undo)-1]
		}
		logger.DebugTagf("history", "History: Correction at %d cancelled the previous edit", offset)
	case merged.Size() >= m.maxEditSize:
		m.Clear()
		return
	default:
		m.undo[len(m.undo)-1] = merged
		logger.DebugTagf("history", "History: Merged correction at %d into edit at %d", offset, merged.Start)
	}
	m.preEvict = nil
	m.notify()
}

// Undo reverts the most recent record.
func (m *Manager) Undo() error {
	if len(m.undo) == 0 {
		logger.DebugTagf("history", "History: Nothing to undo.")
		return ErrNothingToUndo
	}
	rec := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]

	m.preEvict = nil
	if rec.Truncated {
		// Older edits are gone; drop the sentinel but keep redo intact.
		logger.DebugTagf("history", "History: Reached truncated history.")
		m.undo = m.undo[:0]
		m.notify()
		return ErrNothingToUndo
	}

	m.mode = ModeUndoing
	m.editor.ApplyEdit(rec.Start, rec.Start+len(rec.NewText), rec.OldText)
	m.mode = ModeNormal
	m.editor.SetCursor(rec.Start + len(rec.OldText))

	m.redo = append(m.redo, rec)
	logger.DebugTagf("history", "History: Undid edit at %d. Undo: %d, Redo: %d", rec.Start, len(m.undo), len(m.redo))
	m.notify()
	return nil
}

// Redo reapplies the most recently undone record.
func (m *Manager) Redo() error {
	if len(m.redo) == 0 {
		logger.DebugTagf("history", "History: Nothing to redo.")
		return ErrNothingToRedo
	}
	rec := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]

	m.mode = ModeRedoing
	m.editor.ApplyEdit(rec.Start, rec.Start+len(rec.OldText), rec.NewText)
	m.mode = ModeNormal
	m.editor.SetCursor(rec.Start + len(rec.NewText))

	m.undo, _ = m.bound(append(m.undo, rec))
	m.preEvict = nil
	logger.DebugTagf("history", "History: Redid edit at %d. Undo: %d, Redo: %d", rec.Start, len(m.undo), len(m.redo))
	m.notify()
	return nil
}

// Clear resets both stacks. Call this on full document load.
func (m *Manager) Clear() {
	m.undo = m.undo[:0]
	m.redo = m.redo[:0]
	m.pending = nil
	m.correction = nil
	m.preEvict = nil
	logger.DebugTagf("history", "History: Cleared.")
	m.notify()
}

// CanUndo returns true if a real record is available to undo.
func (m *Manager) CanUndo() bool {
	return m.UndoDepth() > 0
}

// CanRedo returns true if there are changes that can be redone.
func (m *Manager) CanRedo() bool {
	return len(m.redo) > 0
}

// UndoDepth counts undoable records, excluding a truncation sentinel.
func (m *Manager) UndoDepth() int {
	n := len(m.undo)
	if n > 0 && m.undo[0].Truncated {
		n--
	}
	return n
}

// RedoDepth counts redoable records.
func (m *Manager) RedoDepth() int {
	return len(m.redo)
}

// Top returns the most recent undo record.
func (m *Manager) Top() (Record, bool) {
	if len(m.undo) == 0 {
		return Record{}, false
	}
	return m.undo[len(m.undo)-1], true
}

// bound evicts the oldest records beyond maxHistory and leaves a
// truncation sentinel at the bottom of a freshly allocated stack. It
// reports whether anything was evicted.
func (m *Manager) bound(stack []Record) ([]Record, bool) {
	n := len(stack)
	if n > 0 && stack[0].Truncated {
		n--
	}
	if n <= m.maxHistory {
		return stack, false
	}
	kept := stack[len(stack)-m.maxHistory:]
	out := make([]Record, 0, m.maxHistory+1)
	out = append(out, truncatedSentinel())
	return append(out, kept...), true
}

func (m *Manager) notify() {
	canUndo, canRedo := m.CanUndo(), m.CanRedo()
	if canUndo == m.lastCanUndo && canRedo == m.lastCanRedo {
		return
	}
	m.lastCanUndo, m.lastCanRedo = canUndo, canRedo
	if m.editor == nil {
		return
	}
	if em := m.editor.GetEventManager(); em != nil {
		em.Dispatch(event.TypeHistoryChanged, event.HistoryChangedData{CanUndo: canUndo, CanRedo: canRedo})
	}
}
