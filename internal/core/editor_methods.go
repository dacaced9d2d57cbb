package core

import (
	"context"

	"github.com/bethropolis/tidecore/internal/core/find"
	"github.com/bethropolis/tidecore/internal/core/highlight"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/types"
)

// Text operation methods delegated to textOps

func (e *Editor) InsertRune(r rune) {
	e.textOps.InsertRune(r)
}

func (e *Editor) InsertNewLine() {
	e.textOps.InsertNewLine()
}

func (e *Editor) InsertTab() {
	e.textOps.InsertTab()
}

func (e *Editor) InsertText(text []byte) {
	e.textOps.InsertText(text)
}

// TypeString types each rune of s as if entered from the keyboard, so the
// auto-edit rules apply to every character.
func (e *Editor) TypeString(s string) {
	for _, r := range s {
		e.textOps.InsertRune(r)
	}
}

func (e *Editor) DeleteBackward() bool {
	return e.textOps.DeleteBackward()
}

func (e *Editor) DeleteForward() bool {
	return e.textOps.DeleteForward()
}

// DeleteRune removes one code point before the cursor, so a combining mark
// can be taken off its base character.
func (e *Editor) DeleteRune() bool {
	return e.textOps.DeleteRune()
}

// History

func (e *Editor) Undo() error {
	return e.historyManager.Undo()
}

func (e *Editor) Redo() error {
	return e.historyManager.Redo()
}

func (e *Editor) CanUndo() bool {
	return e.historyManager.CanUndo()
}

func (e *Editor) CanRedo() bool {
	return e.historyManager.CanRedo()
}

// Clipboard operations delegated to clipboardManager

func (e *Editor) Copy(start, end int) []byte {
	return e.clipboardManager.Copy(start, end)
}

func (e *Editor) Cut(start, end int) []byte {
	return e.clipboardManager.Cut(start, end)
}

func (e *Editor) YankSelection() bool {
	return e.clipboardManager.YankSelection()
}

func (e *Editor) CutSelection() bool {
	return e.clipboardManager.CutSelection()
}

func (e *Editor) Paste() (bool, error) {
	return e.clipboardManager.Paste()
}

// Selection

func (e *Editor) HasSelection() bool {
	return e.selectionManager.HasSelection()
}

func (e *Editor) GetSelection() (start, end int, ok bool) {
	return e.selectionManager.GetSelection()
}

func (e *Editor) Select(anchor, end int) {
	e.selectionManager.Select(anchor, end)
	e.SetCursor(end)
}

func (e *Editor) ClearSelection() {
	e.selectionManager.ClearSelection()
}

// Cursor operations delegated to cursorManager

// MoveCursor moves by lines and grapheme clusters. An active selection
// follows the cursor.
func (e *Editor) MoveCursor(deltaLine, deltaCol int) {
	e.cursorManager.Move(deltaLine, deltaCol)
	e.followSelection()
	logger.DebugTagf("core", "MoveCursor: Delta(%d,%d) → Offset %d", deltaLine, deltaCol, e.GetCursor())
}

// ExtendSelection anchors a selection at the cursor if needed and moves.
func (e *Editor) ExtendSelection(deltaLine, deltaCol int) {
	e.selectionManager.StartOrUpdateSelection()
	e.MoveCursor(deltaLine, deltaCol)
}

func (e *Editor) PageMove(deltaPages int) {
	e.cursorManager.PageMove(deltaPages)
	e.followSelection()
}

func (e *Editor) Home() {
	e.cursorManager.MoveToStartOfLine()
	e.followSelection()
}

func (e *Editor) End() {
	e.cursorManager.MoveToEndOfLine()
	e.followSelection()
}

func (e *Editor) followSelection() {
	if e.selectionManager.IsSelecting() {
		e.selectionManager.StartOrUpdateSelection()
	}
}

// SetViewSize sets the number of visible lines.
func (e *Editor) SetViewSize(height int) {
	e.cursorManager.SetViewSize(height, e.config.ScrollOff)
}

// GetViewport returns the top visible line and the view height.
func (e *Editor) GetViewport() (int, int) {
	return e.cursorManager.GetViewport()
}

// Find operations delegated to findManager

// Find searches the document and moves the cursor to the first match.
func (e *Editor) Find(pattern string, opts find.Options) (int, error) {
	n, err := e.findManager.Find(pattern, opts)
	if match, ok := e.findManager.Current(); err == nil && ok {
		e.SetCursor(match.Start)
	}
	return n, err
}

func (e *Editor) FindNext() (find.Match, bool) {
	return e.findManager.Next()
}

func (e *Editor) FindPrevious() (find.Match, bool) {
	return e.findManager.Previous()
}

func (e *Editor) ReplaceCurrent(text []byte) bool {
	return e.findManager.ReplaceCurrent(text)
}

func (e *Editor) ReplaceAll(text []byte) int {
	return e.findManager.ReplaceAll(text)
}

func (e *Editor) StopSearch() {
	e.findManager.Stop()
}

// Matches returns the ordered match list and the current index (-1 when none).
func (e *Editor) Matches() ([]find.Match, int) {
	return e.findManager.Matches(), e.findManager.CurrentIndex()
}

// Highlighting

// VisibleSpans returns the highlight spans intersecting [start, end).
func (e *Editor) VisibleSpans(start, end int) []highlight.Span {
	return e.highlightManager.VisibleSpans(start, end)
}

// ViewportSpans returns the spans covering the current viewport.
func (e *Editor) ViewportSpans() []highlight.Span {
	start, end := e.cursorManager.VisibleRange()
	return e.highlightManager.VisibleSpans(start, end)
}

// WaitForHighlight blocks until the latest requested pass has been applied.
// Hosts that supply a post function must keep draining it meanwhile.
func (e *Editor) WaitForHighlight(ctx context.Context) error {
	return e.highlightManager.WaitFor(ctx, e.highlightManager.Generation())
}

// Line queries

func (e *Editor) LineCount() int {
	return e.buffer.Lines().LineCount()
}

func (e *Editor) LineStart(line int) int {
	return e.buffer.Lines().StartOfLine(line)
}

// LineEnd is the offset of the line's terminating newline, or the document end.
func (e *Editor) LineEnd(line int) int {
	return e.buffer.Lines().EndOfLine(line)
}

func (e *Editor) OffsetToLine(offset int) int {
	return e.buffer.Lines().OffsetToLine(offset)
}

func (e *Editor) Position(offset int) types.Position {
	return e.buffer.Lines().Position(offset)
}

// Text returns the document content.
func (e *Editor) Text() string {
	return string(e.buffer.Bytes())
}
