package find

import (
	"errors"
	"sync"

	"github.com/bethropolis/tidecore/internal/buffer"
	"github.com/bethropolis/tidecore/internal/event"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/types"
)

// EditorInterface defines methods the find manager needs from the editor.
type EditorInterface interface {
	GetBuffer() buffer.Buffer
	ApplyEdit(start, end int, text []byte) types.EditInfo
	SetCursor(offset int)
	GetEventManager() *event.Manager
}

// Manager holds the active search: its matcher, the ordered match list
// and the index of the current match (-1 when there is none).
type Manager struct {
	editor    EditorInterface
	mutex     sync.RWMutex // Protects the fields below
	matcher   *Matcher
	matches   []Match
	current   int
	replacing bool // Edits made by ReplaceCurrent/ReplaceAll are not shifted
}

// NewManager creates a find manager.
func NewManager(editor EditorInterface) *Manager {
	return &Manager{editor: editor, current: -1}
}

// Find compiles pattern and searches the whole buffer. An empty pattern
// stops the search. On a compile error the previous match set is left
// untouched and zero is returned with the error.
func (m *Manager) Find(pattern string, opts Options) (int, error) {
	matcher, err := Compile(pattern, opts)
	if errors.Is(err, ErrEmptyPattern) {
		m.Stop()
		return 0, nil
	}
	if err != nil {
		logger.Warnf("FindManager: %v", err)
		return 0, err
	}

	m.mutex.Lock()
	m.matcher = matcher
	m.mutex.Unlock()
	return m.Search(), nil
}

// Search recomputes the match list with the current matcher.
func (m *Manager) Search() int {
	m.mutex.Lock()
	if m.matcher == nil {
		m.mutex.Unlock()
		return 0
	}
	m.matches = m.matcher.FindAll(m.editor.GetBuffer().Bytes())
	m.current = -1
	if len(m.matches) > 0 {
		m.current = 0
	}
	count := len(m.matches)
	pattern := m.matcher.Pattern()
	m.mutex.Unlock()

	logger.Debugf("FindManager: Found %d matches for '%s'", count, pattern)
	m.notify()
	return count
}

// Next moves to the following match. At the last match it stays put.
func (m *Manager) Next() (Match, bool) {
	return m.step(1)
}

// Previous moves to the preceding match. At the first match it stays put.
func (m *Manager) Previous() (Match, bool) {
	return m.step(-1)
}

func (m *Manager) step(dir int) (Match, bool) {
	m.mutex.Lock()
	if m.current < 0 {
		m.mutex.Unlock()
		return Match{}, false
	}
	moved := false
	if next := m.current + dir; next >= 0 && next < len(m.matches) {
		m.current = next
		moved = true
	}
	match := m.matches[m.current]
	m.mutex.Unlock()

	if moved {
		m.editor.SetCursor(match.Start)
		m.notify()
	}
	return match, true
}

// Current returns the current match.
func (m *Manager) Current() (Match, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.current < 0 {
		return Match{}, false
	}
	return m.matches[m.current], true
}

// CurrentIndex is the index of the current match, or -1.
func (m *Manager) CurrentIndex() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.current
}

// Matches returns a copy of the match list.
func (m *Manager) Matches() []Match {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	out := make([]Match, len(m.matches))
	copy(out, m.matches)
	return out
}

// Count is the number of matches.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.matches)
}

// Active reports whether a search is in progress.
func (m *Manager) Active() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.matcher != nil
}

// ReplaceCurrent substitutes the current match with text and removes it
// from the list. Later matches move by the length difference.
func (m *Manager) ReplaceCurrent(text []byte) bool {
	m.mutex.Lock()
	if m.current < 0 {
		m.mutex.Unlock()
		return false
	}
	idx := m.current
	match := m.matches[idx]
	m.replacing = true
	m.mutex.Unlock()

	edit := m.editor.ApplyEdit(match.Start, match.End, text)

	m.mutex.Lock()
	m.replacing = false
	delta := edit.Delta()
	rest := m.matches[idx+1:]
	for i := range rest {
		rest[i].Start += delta
		rest[i].End += delta
	}
	m.matches = append(m.matches[:idx], rest...)
	if m.current >= len(m.matches) {
		m.current = len(m.matches) - 1
	}
	m.mutex.Unlock()

	m.editor.SetCursor(match.Start + len(text))
	logger.Debugf("FindManager: Replaced match at %d-%d", match.Start, match.End)
	m.notify()
	return true
}

// ReplaceAll substitutes every match, last to first so earlier offsets stay
// valid, and clears the match list. It returns the number of substitutions.
func (m *Manager) ReplaceAll(text []byte) int {
	m.mutex.Lock()
	matches := m.matches
	m.matches = nil
	m.current = -1
	m.replacing = true
	m.mutex.Unlock()

	for i := len(matches) - 1; i >= 0; i-- {
		m.editor.ApplyEdit(matches[i].Start, matches[i].End, text)
	}

	m.mutex.Lock()
	m.replacing = false
	m.mutex.Unlock()

	if len(matches) > 0 {
		m.editor.SetCursor(matches[0].Start + len(text))
	}
	logger.Debugf("FindManager: Replaced %d matches", len(matches))
	m.notify()
	return len(matches)
}

// Stop ends the search and clears the match list.
func (m *Manager) Stop() {
	m.mutex.Lock()
	had := m.matcher != nil || len(m.matches) > 0
	m.matcher = nil
	m.matches = nil
	m.current = -1
	m.mutex.Unlock()

	if had {
		logger.Debugf("FindManager: Search stopped")
		m.notify()
	}
}

// Shift carries the matches across an edit made outside the search.
// Matches touched by the edit, including insertions inside them, are dropped.
func (m *Manager) Shift(edit types.EditInfo) {
	m.mutex.Lock()
	if m.replacing || len(m.matches) == 0 {
		m.mutex.Unlock()
		return
	}

	kept := make([]Match, 0, len(m.matches))
	newCurrent := -1
	for i, match := range m.matches {
		start, end, ok := types.ShiftRange(match.Start, match.End, edit, false)
		if !ok {
			continue
		}
		if i <= m.current {
			newCurrent = len(kept)
		}
		kept = append(kept, Match{Start: start, End: end})
	}
	if newCurrent < 0 && len(kept) > 0 {
		newCurrent = 0
	}
	changed := len(kept) != len(m.matches) || newCurrent != m.current
	m.matches = kept
	m.current = newCurrent
	m.mutex.Unlock()

	if changed {
		m.notify()
	}
}

func (m *Manager) notify() {
	em := m.editor.GetEventManager()
	if em == nil {
		return
	}
	m.mutex.RLock()
	data := event.SearchChangedData{Count: len(m.matches), Current: m.current}
	m.mutex.RUnlock()
	em.Dispatch(event.TypeSearchChanged, data)
}
