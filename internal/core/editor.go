// internal/core/editor.go
package core

import (
	"time"

	"github.com/bethropolis/tidecore/internal/buffer"
	"github.com/bethropolis/tidecore/internal/config"
	"github.com/bethropolis/tidecore/internal/core/autoedit"
	"github.com/bethropolis/tidecore/internal/core/clipboard"
	"github.com/bethropolis/tidecore/internal/core/cursor"
	"github.com/bethropolis/tidecore/internal/core/find"
	"github.com/bethropolis/tidecore/internal/core/highlight"
	"github.com/bethropolis/tidecore/internal/core/history"
	"github.com/bethropolis/tidecore/internal/core/selection"
	"github.com/bethropolis/tidecore/internal/core/text"
	"github.com/bethropolis/tidecore/internal/event"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/theme"
	"github.com/bethropolis/tidecore/internal/types"
	"github.com/google/uuid"
)

// Editor owns one document and every overlay kept in step with it. All
// mutations go through ApplyEdit; the editor is driven by a single owner
// goroutine and is not safe for concurrent use, except that highlight
// passes run in the background and hand their results back through the
// post function given at construction.
type Editor struct {
	id           string
	buffer       buffer.Buffer
	config       config.EditorConfig
	eventManager *event.Manager

	cursorManager    *cursor.Manager
	selectionManager *selection.Manager
	historyManager   *history.Manager
	highlightManager *highlight.Manager
	findManager      *find.Manager
	clipboardManager *clipboard.Manager
	textOps          *text.Operations
}

// Option configures an Editor.
type Option func(*options)

type options struct {
	tokenizer highlight.Tokenizer
	palette   *theme.Palette
	post      func(func())
	events    *event.Manager
}

// WithTokenizer sets the tokenizer used for highlight passes.
func WithTokenizer(t highlight.Tokenizer) Option {
	return func(o *options) { o.tokenizer = t }
}

// WithPalette sets the style palette handed to the tokenizer.
func WithPalette(p *theme.Palette) Option {
	return func(o *options) { o.palette = p }
}

// WithPost routes finished highlight passes through post, which must run
// the function on the editor's owner goroutine. Span installation and the
// TypeHighlightCompleted dispatch both happen inside the posted function.
func WithPost(post func(func())) Option {
	return func(o *options) { o.post = post }
}

// WithEventManager shares an event bus with the host.
func WithEventManager(em *event.Manager) Option {
	return func(o *options) { o.events = em }
}

// NewEditor creates a new Editor instance with a given buffer.
//
// Hosts that subscribe to editor events from a single goroutine must pass
// WithPost. Without it highlight results are applied on the worker
// goroutine, and TypeHighlightCompleted handlers run there too.
func NewEditor(buf buffer.Buffer, cfg config.EditorConfig, opts ...Option) *Editor {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if buf == nil {
		buf = buffer.NewSliceBuffer()
	}
	if o.events == nil {
		o.events = event.NewManager()
	}

	e := &Editor{
		id:           uuid.NewString(),
		buffer:       buf,
		config:       cfg,
		eventManager: o.events,
	}

	hlOpts := []highlight.Option{
		highlight.WithEventManager(e.eventManager),
		highlight.WithDebounce(time.Duration(cfg.HighlightDebounceMs) * time.Millisecond),
	}
	if o.post != nil {
		hlOpts = append(hlOpts, highlight.WithPost(o.post))
	}

	e.cursorManager = cursor.NewManager(e)
	e.cursorManager.SetViewSize(0, cfg.ScrollOff)
	e.selectionManager = selection.NewManager(e)
	e.historyManager = history.NewManager(e, cfg.MaxUndoDepth, cfg.MaxEditSize)
	e.highlightManager = highlight.NewManager(o.tokenizer, o.palette, hlOpts...)
	e.findManager = find.NewManager(e)
	e.clipboardManager = clipboard.NewManager(e, cfg.SystemClipboard)
	e.textOps = text.NewOperations(e)

	e.highlightManager.Reset(e.buffer.Bytes())
	logger.Debugf("Editor: Created document %s (%d bytes)", e.id, e.buffer.Len())
	return e
}

// ID identifies the document in events and logs.
func (e *Editor) ID() string {
	return e.id
}

// ApplyEdit is the single mutation entry point. It replaces [start, end)
// with text, records the edit unless history is replaying, then carries
// highlight spans, search matches and the selection across it before
// notifying subscribers. Out-of-range offsets are clamped.
func (e *Editor) ApplyEdit(start, end int, text []byte) types.EditInfo {
	start, end = clampRange(start, end, e.buffer.Len())
	cursorBefore := e.cursorManager.GetPosition()

	record := e.historyManager.Recording()
	if record {
		e.historyManager.BeginChange(start, end-start)
	}
	info := e.buffer.Replace(start, end, text)
	if record {
		e.historyManager.CommitChange(start, text)
	}
	if info.IsNoop() {
		return info
	}

	e.highlightManager.OnEdit(info, e.buffer.Bytes())
	e.findManager.Shift(info)
	e.selectionManager.Shift(info)
	e.cursorManager.SetPosition(shiftOffset(cursorBefore, info))

	logger.DebugTagf("core", "Editor: Edit [%d,%d) -> %d bytes (mode %s)", info.StartIndex, info.OldEndIndex, info.InsertedLen(), e.historyManager.Mode())
	e.eventManager.Dispatch(event.TypeBufferModified, event.BufferModifiedData{DocumentID: e.id, Edit: info})
	return info
}

// HandleEdit applies a host edit given as (offset, deletedLength, insertedText).
func (e *Editor) HandleEdit(offset, deletedLen int, text []byte) types.EditInfo {
	return e.ApplyEdit(offset, offset+deletedLen, text)
}

// Load replaces the whole document. History, search and selection are
// reset and a fresh highlight pass is requested.
func (e *Editor) Load(text []byte) {
	e.buffer.SetText(text)
	e.historyManager.Clear()
	e.findManager.Stop()
	e.selectionManager.ClearSelection()
	e.cursorManager.SetPosition(0)
	e.highlightManager.Reset(e.buffer.Bytes())
	logger.Debugf("Editor: Loaded %d bytes into %s", e.buffer.Len(), e.id)
	e.eventManager.Dispatch(event.TypeBufferLoaded, event.BufferLoadedData{DocumentID: e.id, Length: e.buffer.Len()})
}

// LoadFile reads filePath into the buffer and resets the editor state.
func (e *Editor) LoadFile(filePath string) error {
	if err := e.buffer.Load(filePath); err != nil {
		return err
	}
	e.Load(e.buffer.Bytes())
	return nil
}

// SaveBuffer writes the buffer to filePath, or its current path when empty.
func (e *Editor) SaveBuffer(filePath string) error {
	return e.buffer.Save(filePath)
}

// ApplyConfig replaces the editor settings. History limits, clipboard mode,
// scroll margin and highlight debounce take effect immediately.
func (e *Editor) ApplyConfig(cfg config.EditorConfig, source string) {
	e.config = cfg
	e.historyManager.SetLimits(cfg.MaxUndoDepth, cfg.MaxEditSize)
	e.clipboardManager.SetSystem(cfg.SystemClipboard)
	e.highlightManager.SetDebounce(time.Duration(cfg.HighlightDebounceMs) * time.Millisecond)
	_, height := e.cursorManager.GetViewport()
	e.cursorManager.SetViewSize(height, cfg.ScrollOff)
	logger.Infof("Editor: Applied configuration from %s", source)
	e.eventManager.Dispatch(event.TypeConfigChanged, event.ConfigChangedData{Source: source})
}

// Config returns the current editor settings.
func (e *Editor) Config() config.EditorConfig {
	return e.config
}

// SetTokenizer swaps the highlighter and requests a new pass.
func (e *Editor) SetTokenizer(t highlight.Tokenizer) {
	e.highlightManager.SetTokenizer(t)
	e.highlightManager.Reset(e.buffer.Bytes())
}

// SetTheme rebuilds the style palette from t and requests a new pass.
func (e *Editor) SetTheme(t *theme.Theme) {
	e.highlightManager.SetPalette(theme.NewPalette(t))
	e.highlightManager.Reset(e.buffer.Bytes())
}

// Close cancels background work. The editor must not be used afterwards.
func (e *Editor) Close() {
	e.highlightManager.Shutdown()
	logger.Debugf("Editor: Closed %s", e.id)
}

// --- Accessors used by the collaborators ---

// GetBuffer returns the editor's buffer.
func (e *Editor) GetBuffer() buffer.Buffer {
	return e.buffer
}

// GetEventManager returns the event bus.
func (e *Editor) GetEventManager() *event.Manager {
	return e.eventManager
}

// GetHistoryManager returns the undo/redo history.
func (e *Editor) GetHistoryManager() *history.Manager {
	return e.historyManager
}

// GetHighlightManager returns the span overlay owner.
func (e *Editor) GetHighlightManager() *highlight.Manager {
	return e.highlightManager
}

// GetCursor returns the cursor byte offset.
func (e *Editor) GetCursor() int {
	return e.cursorManager.GetPosition()
}

// SetCursor moves the cursor, clamped to the document.
func (e *Editor) SetCursor(offset int) {
	e.cursorManager.SetPosition(offset)
	e.cursorManager.ScrollToCursor()
}

// TabWidth is the display width of a tab stop.
func (e *Editor) TabWidth() int {
	return e.config.TabWidth
}

// AutoEditConfig returns the active auto-edit rules.
func (e *Editor) AutoEditConfig() autoedit.Config {
	return e.config.AutoEdit()
}

// shiftOffset carries a single offset across an edit. Offsets inside the
// replaced range collapse to its start.
func shiftOffset(offset int, edit types.EditInfo) int {
	switch {
	case offset <= edit.StartIndex:
		return offset
	case offset >= edit.OldEndIndex:
		return offset + edit.Delta()
	default:
		return edit.StartIndex
	}
}

func clampRange(start, end, length int) (int, int) {
	if start > end {
		start, end = end, start
	}
	return clamp(start, length), clamp(end, length)
}

func clamp(v, length int) int {
	if v < 0 {
		return 0
	}
	if v > length {
		return length
	}
	return v
}
