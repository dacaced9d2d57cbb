// Package text implements typing and deletion on top of the editor's
// single edit entry point.
package text

import (
	"unicode/utf8"

	"github.com/bethropolis/tidecore/internal/buffer"
	"github.com/bethropolis/tidecore/internal/core/autoedit"
	"github.com/bethropolis/tidecore/internal/core/history"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/types"
)

// Operations handles text insertion/deletion
type Operations struct {
	editor EditorInterface
}

// EditorInterface defines editor methods needed
type EditorInterface interface {
	GetBuffer() buffer.Buffer
	GetCursor() int
	SetCursor(offset int)
	ApplyEdit(start, end int, text []byte) types.EditInfo
	GetHistoryManager() *history.Manager
	AutoEditConfig() autoedit.Config
	GetSelection() (start, end int, ok bool)
	ClearSelection()
}

// NewOperations creates a text operations manager
func NewOperations(editor EditorInterface) *Operations {
	return &Operations{
		editor: editor,
	}
}

// InsertRune types r at the cursor. A selection is replaced by r. Otherwise
// the auto-edit rules may add a companion edit, which is folded into the
// same undo record as the typed character.
func (o *Operations) InsertRune(r rune) {
	ch := []byte(string(r))

	if start, end, ok := o.editor.GetSelection(); ok {
		o.editor.ClearSelection()
		info := o.editor.ApplyEdit(start, end, ch)
		o.editor.SetCursor(info.NewEndIndex)
		return
	}

	offset := o.editor.GetCursor()
	d := autoedit.Decide(r, o.editor.GetBuffer().Bytes(), offset, o.editor.AutoEditConfig())

	info := o.editor.ApplyEdit(offset, offset, ch)
	offset, after := info.StartIndex, info.NewEndIndex

	switch d.Kind {
	case autoedit.SkipOver:
		o.correct(after, after+len(ch), nil)
		o.editor.SetCursor(after)
	case autoedit.AppendAfter:
		o.correct(after, after, []byte(d.Text))
		o.editor.SetCursor(after)
	case autoedit.NewlineContinuation:
		o.correct(after, after, []byte(d.Text))
		o.editor.SetCursor(after + d.CursorOffset)
	default:
		o.editor.SetCursor(after)
	}
	if d.Kind != autoedit.None {
		logger.DebugTagf("text", "Text: %s after %q at %d", d.Kind, r, offset)
	}
}

// InsertNewLine types a newline.
func (o *Operations) InsertNewLine() {
	o.InsertRune('\n')
}

// InsertTab inserts one indentation unit, replacing the selection if any.
func (o *Operations) InsertTab() {
	o.InsertText([]byte(autoedit.Unit(o.editor.AutoEditConfig())))
}

// InsertText inserts text verbatim at the cursor, replacing the selection
// if any. No auto-edit rules apply.
func (o *Operations) InsertText(text []byte) {
	start := o.editor.GetCursor()
	end := start
	if s, e, ok := o.editor.GetSelection(); ok {
		o.editor.ClearSelection()
		start, end = s, e
	}
	info := o.editor.ApplyEdit(start, end, text)
	o.editor.SetCursor(info.NewEndIndex)
}

// DeleteBackward deletes the selection, or the grapheme cluster before the cursor.
func (o *Operations) DeleteBackward() bool {
	if o.deleteSelection() {
		return true
	}
	offset := o.editor.GetCursor()
	if offset == 0 {
		return false
	}
	start := buffer.PrevBoundary(o.editor.GetBuffer().Bytes(), offset)
	info := o.editor.ApplyEdit(start, offset, nil)
	o.editor.SetCursor(info.StartIndex)
	return true
}

// DeleteForward deletes the selection, or the grapheme cluster after the cursor.
func (o *Operations) DeleteForward() bool {
	if o.deleteSelection() {
		return true
	}
	text := o.editor.GetBuffer().Bytes()
	offset := o.editor.GetCursor()
	if offset >= len(text) {
		return false
	}
	end := buffer.NextBoundary(text, offset)
	info := o.editor.ApplyEdit(offset, end, nil)
	o.editor.SetCursor(info.StartIndex)
	return true
}

// DeleteRune deletes the single code point before the cursor, leaving the
// rest of a combined cluster in place.
func (o *Operations) DeleteRune() bool {
	offset := o.editor.GetCursor()
	if offset == 0 {
		return false
	}
	_, size := utf8.DecodeLastRune(o.editor.GetBuffer().Slice(0, offset))
	info := o.editor.ApplyEdit(offset-size, offset, nil)
	o.editor.SetCursor(info.StartIndex)
	return true
}

func (o *Operations) deleteSelection() bool {
	start, end, ok := o.editor.GetSelection()
	if !ok {
		return false
	}
	o.editor.ClearSelection()
	info := o.editor.ApplyEdit(start, end, nil)
	o.editor.SetCursor(info.StartIndex)
	return true
}

// correct applies a companion edit as a correction of the last record.
func (o *Operations) correct(start, end int, text []byte) {
	hist := o.editor.GetHistoryManager()
	if hist == nil {
		o.editor.ApplyEdit(start, end, text)
		return
	}
	hist.BeginCorrection(start, end-start)
	o.editor.ApplyEdit(start, end, text)
	hist.CommitCorrection(start, text)
}
