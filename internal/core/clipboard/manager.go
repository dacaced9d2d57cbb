package clipboard

import (
	"fmt"

	sysclip "github.com/atotto/clipboard"
	"github.com/bethropolis/tidecore/internal/buffer"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/types"
)

// Manager handles clipboard operations. Text is always kept in an internal
// register; with the system clipboard enabled it is mirrored there too and
// pastes prefer the system contents.
type Manager struct {
	editor    EditorInterface
	clipboard []byte
	system    bool
}

// EditorInterface defines methods needed from editor
type EditorInterface interface {
	GetBuffer() buffer.Buffer
	GetCursor() int
	SetCursor(offset int)
	GetSelection() (start, end int, ok bool)
	ClearSelection()
	ApplyEdit(start, end int, text []byte) types.EditInfo
}

// NewManager creates a new clipboard manager
func NewManager(editor EditorInterface, useSystem bool) *Manager {
	m := &Manager{editor: editor}
	m.SetSystem(useSystem)
	return m
}

// SetSystem enables or disables mirroring to the system clipboard.
func (m *Manager) SetSystem(enabled bool) {
	if enabled && sysclip.Unsupported {
		logger.Warnf("ClipboardManager: System clipboard unsupported, using internal register")
		enabled = false
	}
	m.system = enabled
}

// Contents returns the internal register.
func (m *Manager) Contents() []byte {
	return append([]byte(nil), m.clipboard...)
}

// Copy stores the text of [start, end) without modifying the buffer.
func (m *Manager) Copy(start, end int) []byte {
	content := m.editor.GetBuffer().Slice(start, end)
	m.store(content)
	logger.Debugf("ClipboardManager: Copied %d bytes", len(content))
	return content
}

// Cut copies [start, end) and deletes it through the editor.
func (m *Manager) Cut(start, end int) []byte {
	content := m.Copy(start, end)
	if len(content) == 0 {
		return content
	}
	info := m.editor.ApplyEdit(start, end, nil)
	m.editor.SetCursor(info.StartIndex)
	return content
}

// YankSelection copies selected text to clipboard
func (m *Manager) YankSelection() bool {
	start, end, ok := m.editor.GetSelection()
	if !ok {
		return false
	}
	m.Copy(start, end)
	m.editor.ClearSelection()
	return true
}

// CutSelection copies and deletes the selected text.
func (m *Manager) CutSelection() bool {
	start, end, ok := m.editor.GetSelection()
	if !ok {
		return false
	}
	m.editor.ClearSelection()
	m.Cut(start, end)
	return true
}

// Paste inserts the clipboard at the cursor, replacing the selection if
// there is one, as a single edit.
func (m *Manager) Paste() (bool, error) {
	content, err := m.load()
	if len(content) == 0 {
		return false, err
	}

	start, end, ok := m.editor.GetSelection()
	if ok {
		m.editor.ClearSelection()
	} else {
		start = m.editor.GetCursor()
		end = start
	}

	info := m.editor.ApplyEdit(start, end, content)
	m.editor.SetCursor(info.NewEndIndex)
	logger.Debugf("ClipboardManager: Pasted %d bytes at %d", len(content), info.StartIndex)
	return true, err
}

func (m *Manager) store(content []byte) {
	m.clipboard = append(m.clipboard[:0], content...)
	if !m.system {
		return
	}
	if err := sysclip.WriteAll(string(content)); err != nil {
		logger.Warnf("ClipboardManager: System clipboard write failed: %v", err)
	}
}

// load prefers the system clipboard and falls back to the internal register.
// A system read error is returned alongside the fallback contents.
func (m *Manager) load() ([]byte, error) {
	if !m.system {
		return m.Contents(), nil
	}
	text, err := sysclip.ReadAll()
	if err != nil {
		logger.Warnf("ClipboardManager: System clipboard read failed: %v", err)
		return m.Contents(), fmt.Errorf("system clipboard: %w", err)
	}
	if text == "" {
		return m.Contents(), nil
	}
	return []byte(text), nil
}
