package cursor

import (
	"unicode/utf8"

	"github.com/bethropolis/tidecore/internal/buffer"
	"github.com/bethropolis/tidecore/internal/logger"
)

// Editor is the interface cursor manager expects from the editor
type Editor interface {
	GetBuffer() buffer.Buffer
	TabWidth() int
}

// Manager tracks the cursor as a byte offset and the viewport as a line
// range. Vertical moves keep a preferred display column.
type Manager struct {
	editor      Editor
	offset      int
	preferred   int // Display column kept across vertical moves, -1 when unset
	viewportTop int
	viewHeight  int
	scrollOff   int
}

// NewManager creates a new cursor manager
func NewManager(editor Editor) *Manager {
	return &Manager{editor: editor, preferred: -1}
}

// SetViewSize updates the number of visible lines and the scroll margin.
func (m *Manager) SetViewSize(height, scrollOff int) {
	m.viewHeight = height
	m.scrollOff = scrollOff
	m.ScrollToCursor()
}

// GetViewport returns the current viewport top line and height
func (m *Manager) GetViewport() (int, int) {
	return m.viewportTop, m.viewHeight
}

// VisibleRange returns the byte range covered by the viewport. Without a
// view size it covers the whole document.
func (m *Manager) VisibleRange() (int, int) {
	buf := m.editor.GetBuffer()
	lines := buf.Lines()
	if m.viewHeight <= 0 {
		return 0, buf.Len()
	}
	last := m.viewportTop + m.viewHeight - 1
	if last >= lines.LineCount() {
		last = lines.LineCount() - 1
	}
	return lines.StartOfLine(m.viewportTop), lines.EndOfLine(last)
}

// GetPosition returns the cursor offset.
func (m *Manager) GetPosition() int {
	return m.offset
}

// SetPosition moves the cursor to offset, clamped to the document and
// moved back onto a rune boundary.
func (m *Manager) SetPosition(offset int) {
	m.setPosition(offset)
	m.preferred = -1
}

func (m *Manager) setPosition(offset int) {
	text := m.editor.GetBuffer().Bytes()
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	for offset > 0 && offset < len(text) && !utf8.RuneStart(text[offset]) {
		offset--
	}
	m.offset = offset
	m.ScrollToCursor()
}

// Move moves the cursor by deltaLine lines and deltaCol grapheme clusters.
// Horizontal moves cross line boundaries; vertical moves keep the display
// column where possible.
func (m *Manager) Move(deltaLine, deltaCol int) {
	if deltaCol != 0 {
		m.SetPosition(stepGraphemes(m.editor.GetBuffer().Bytes(), m.offset, deltaCol))
	}
	if deltaLine != 0 {
		m.moveLines(deltaLine)
	}
}

func (m *Manager) moveLines(delta int) {
	buf := m.editor.GetBuffer()
	lines := buf.Lines()
	text := buf.Bytes()
	tabWidth := m.editor.TabWidth()

	line := lines.OffsetToLine(m.offset)
	start := lines.StartOfLine(line)
	if m.preferred < 0 {
		m.preferred = buffer.DisplayColumn(text[start:lines.EndOfLine(line)], m.offset-start, tabWidth)
	}

	target := line + delta
	if target < 0 {
		target = 0
	}
	if target >= lines.LineCount() {
		target = lines.LineCount() - 1
	}
	tStart, tEnd := lines.StartOfLine(target), lines.EndOfLine(target)
	col := buffer.ByteColumn(text[tStart:tEnd], m.preferred, tabWidth)

	logger.DebugTagf("cursor", "Cursor: Line %d -> %d at display column %d", line, target, m.preferred)
	m.setPosition(tStart + col)
}

// PageMove moves the cursor by whole viewport heights.
func (m *Manager) PageMove(deltaPages int) {
	if m.viewHeight <= 0 {
		return
	}
	m.moveLines(deltaPages * m.viewHeight)
}

// MoveToStartOfLine moves to the first non-blank byte of the current line.
func (m *Manager) MoveToStartOfLine() {
	buf := m.editor.GetBuffer()
	lines := buf.Lines()
	text := buf.Bytes()
	line := lines.OffsetToLine(m.offset)
	pos, end := lines.StartOfLine(line), lines.EndOfLine(line)
	for pos < end && (text[pos] == ' ' || text[pos] == '\t') {
		pos++
	}
	m.SetPosition(pos)
}

// MoveToEndOfLine moves to the end of the current line.
func (m *Manager) MoveToEndOfLine() {
	lines := m.editor.GetBuffer().Lines()
	m.SetPosition(lines.EndOfLine(lines.OffsetToLine(m.offset)))
}

// ScrollToCursor ensures the cursor line is inside the viewport, keeping
// scrollOff lines of margin where possible.
func (m *Manager) ScrollToCursor() {
	if m.viewHeight <= 0 {
		return
	}
	line := m.editor.GetBuffer().Lines().OffsetToLine(m.offset)
	scrollOff := m.scrollOff
	if scrollOff*2 >= m.viewHeight {
		scrollOff = (m.viewHeight - 1) / 2
	}

	if line < m.viewportTop+scrollOff {
		m.viewportTop = line - scrollOff
	} else if line >= m.viewportTop+m.viewHeight-scrollOff {
		m.viewportTop = line - m.viewHeight + scrollOff + 1
	}
	if m.viewportTop < 0 {
		m.viewportTop = 0
	}
}

// stepGraphemes moves n grapheme clusters from offset.
func stepGraphemes(text []byte, offset, n int) int {
	for ; n > 0 && offset < len(text); n-- {
		offset = buffer.NextBoundary(text, offset)
	}
	for ; n < 0 && offset > 0; n++ {
		offset = buffer.PrevBoundary(text, offset)
	}
	return offset
}
