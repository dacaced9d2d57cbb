package core

import (
	"context"
	"testing"
	"time"

	"github.com/bethropolis/tidecore/internal/buffer"
	"github.com/bethropolis/tidecore/internal/config"
	"github.com/bethropolis/tidecore/internal/core/find"
	"github.com/bethropolis/tidecore/internal/event"
	"github.com/bethropolis/tidecore/internal/highlighter"
)

func testConfig() config.EditorConfig {
	cfg := config.NewDefaultConfig().Editor
	cfg.SystemClipboard = false
	cfg.HighlightDebounceMs = 0
	return cfg
}

func newTestEditor(t *testing.T, text string, opts ...Option) *Editor {
	t.Helper()
	e := NewEditor(buffer.NewSliceBuffer(), testConfig(), opts...)
	e.Load([]byte(text))
	t.Cleanup(e.Close)
	return e
}

func TestTypingBracesUndoesInOneStep(t *testing.T) {
	e := newTestEditor(t, "")

	e.InsertRune('{')
	if e.Text() != "{}" || e.GetCursor() != 1 {
		t.Fatalf("after '{' text = %q cursor = %d", e.Text(), e.GetCursor())
	}
	e.InsertRune('}')
	if e.Text() != "{}" || e.GetCursor() != 2 {
		t.Fatalf("after '}' text = %q cursor = %d", e.Text(), e.GetCursor())
	}

	if err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if e.Text() != "" || e.CanUndo() {
		t.Fatalf("after undo text = %q CanUndo = %v", e.Text(), e.CanUndo())
	}
	if err := e.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if e.Text() != "{}" {
		t.Fatalf("after redo text = %q", e.Text())
	}
}

func TestNewlineBetweenBraces(t *testing.T) {
	e := newTestEditor(t, "func f() {}")
	e.SetCursor(10)
	e.InsertNewLine()

	if want := "func f() {\n\t\n}"; e.Text() != want {
		t.Fatalf("text = %q, want %q", e.Text(), want)
	}
	if e.GetCursor() != 12 {
		t.Fatalf("cursor = %d, want 12", e.GetCursor())
	}
	if e.LineCount() != 3 || e.LineStart(2) != 13 {
		t.Fatalf("lines = %d, start of line 2 = %d", e.LineCount(), e.LineStart(2))
	}

	e.Undo()
	if e.Text() != "func f() {}" {
		t.Fatalf("after undo text = %q", e.Text())
	}
}

func TestReplaceAllThroughEditor(t *testing.T) {
	text := "one two one two one"
	e := newTestEditor(t, text)

	n, err := e.Find("one", find.Options{})
	if err != nil || n != 3 {
		t.Fatalf("Find = %d, %v", n, err)
	}
	if got := e.ReplaceAll([]byte("1")); got != 3 {
		t.Fatalf("ReplaceAll = %d, want 3", got)
	}
	if want := len(text) - 3*3 + 3*1; len(e.Text()) != want {
		t.Fatalf("length = %d, want %d", len(e.Text()), want)
	}
	if matches, current := e.Matches(); len(matches) != 0 || current != -1 {
		t.Fatalf("matches after ReplaceAll = %v (current %d)", matches, current)
	}

	for i := 0; i < 3; i++ {
		if err := e.Undo(); err != nil {
			t.Fatalf("Undo %d: %v", i, err)
		}
	}
	if e.Text() != text {
		t.Fatalf("after undoing every replacement text = %q", e.Text())
	}
}

func TestMatchesShiftWhileTyping(t *testing.T) {
	e := newTestEditor(t, "cat and cat")
	e.Find("cat", find.Options{WholeWord: false})
	e.SetCursor(0)
	e.InsertText([]byte("x "))

	matches, current := e.Matches()
	if len(matches) != 2 || matches[0] != (find.Match{Start: 2, End: 5}) || matches[1] != (find.Match{Start: 10, End: 13}) {
		t.Fatalf("matches = %v", matches)
	}
	if current != 0 {
		t.Fatalf("current = %d, want 0", current)
	}
}

func TestOversizedPasteClearsHistory(t *testing.T) {
	cfg := testConfig()
	cfg.MaxEditSize = 8
	e := NewEditor(buffer.NewSliceBuffer(), cfg)
	defer e.Close()
	e.Load([]byte("0123456789"))

	e.SetCursor(10)
	e.InsertRune('x')
	if !e.CanUndo() {
		t.Fatalf("typed character not recorded")
	}

	e.Copy(0, 10)
	if ok, err := e.Paste(); !ok || err != nil {
		t.Fatalf("Paste = %v, %v", ok, err)
	}
	if e.Text() != "0123456789x0123456789" {
		t.Fatalf("text = %q", e.Text())
	}
	if e.CanUndo() || e.CanRedo() {
		t.Fatalf("history survived an oversized paste")
	}
}

func TestHandleEditClampsOffsets(t *testing.T) {
	e := newTestEditor(t, "abc")
	info := e.HandleEdit(100, 5, []byte("x"))
	if e.Text() != "abcx" || info.StartIndex != 3 {
		t.Fatalf("text = %q edit = %+v", e.Text(), info)
	}
	e.HandleEdit(-1, 2, nil)
	if e.Text() != "bcx" {
		t.Fatalf("text = %q", e.Text())
	}
}

func TestSelectionCutPaste(t *testing.T) {
	e := newTestEditor(t, "foo bar")
	e.SetCursor(0)
	e.ExtendSelection(0, 3)
	if start, end, ok := e.GetSelection(); !ok || start != 0 || end != 3 {
		t.Fatalf("selection = %d-%d (%v)", start, end, ok)
	}
	if !e.CutSelection() {
		t.Fatalf("CutSelection returned false")
	}
	e.End()
	e.Paste()
	if e.Text() != " barfoo" {
		t.Fatalf("text = %q", e.Text())
	}
}

func TestSelectionFollowsEdits(t *testing.T) {
	e := newTestEditor(t, "hello world")
	e.Select(6, 11)
	e.HandleEdit(0, 0, []byte(">> "))
	if start, end, ok := e.GetSelection(); !ok || start != 9 || end != 14 {
		t.Fatalf("selection = %d-%d (%v), want 9-14", start, end, ok)
	}
	e.HandleEdit(10, 1, nil)
	if e.HasSelection() {
		t.Fatalf("selection survived an edit inside it")
	}
}

func TestHistoryEvents(t *testing.T) {
	em := event.NewManager()
	var got []event.HistoryChangedData
	em.Subscribe(event.TypeHistoryChanged, func(ev event.Event) bool {
		got = append(got, ev.Data.(event.HistoryChangedData))
		return false
	})
	e := newTestEditor(t, "", WithEventManager(em))
	e.InsertRune('a')
	e.InsertRune('b')
	e.Undo()

	want := []event.HistoryChangedData{{CanUndo: true}, {CanUndo: true, CanRedo: true}}
	if len(got) != len(want) {
		t.Fatalf("events = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestApplyConfig(t *testing.T) {
	e := newTestEditor(t, "")
	changed := false
	e.GetEventManager().Subscribe(event.TypeConfigChanged, func(event.Event) bool {
		changed = true
		return false
	})

	cfg := testConfig()
	cfg.AutoCloseBrackets = false
	cfg.UseSpaces = true
	cfg.TabWidth = 2
	e.ApplyConfig(cfg, "test")

	e.InsertRune('(')
	e.InsertTab()
	if e.Text() != "(  " {
		t.Fatalf("text = %q", e.Text())
	}
	if !changed {
		t.Fatalf("no ConfigChanged event")
	}
}

func TestLoadResetsState(t *testing.T) {
	e := newTestEditor(t, "a a a")
	e.Find("a", find.Options{})
	e.InsertRune('x')
	e.Load([]byte("new"))

	if matches, _ := e.Matches(); len(matches) != 0 {
		t.Fatalf("matches survived load: %v", matches)
	}
	if e.CanUndo() || e.GetCursor() != 0 {
		t.Fatalf("CanUndo = %v cursor = %d after load", e.CanUndo(), e.GetCursor())
	}
}

func TestHighlightPass(t *testing.T) {
	e := newTestEditor(t, "package main\n", WithTokenizer(highlighter.ForFile("main.go")))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.WaitForHighlight(ctx); err != nil {
		t.Fatalf("WaitForHighlight: %v", err)
	}
	palette := e.GetHighlightManager().Palette()
	spans := e.VisibleSpans(0, 7)
	if len(spans) == 0 || palette.Name(spans[0].Style) != "keyword" {
		t.Fatalf("spans over 'package' = %+v", spans)
	}

	e.SetCursor(0)
	e.InsertText([]byte("// "))
	if err := e.WaitForHighlight(ctx); err != nil {
		t.Fatalf("WaitForHighlight after edit: %v", err)
	}
	spans = e.ViewportSpans()
	if len(spans) == 0 || spans[0].Start != 0 || palette.Name(spans[0].Style) != "comment" {
		t.Fatalf("spans after commenting out = %+v", spans)
	}
}

func TestSkipOverAtDepthBoundKeepsHistory(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUndoDepth = 2
	e := NewEditor(buffer.NewSliceBuffer(), cfg)
	defer e.Close()

	e.InsertText([]byte("x"))
	e.InsertRune('(')
	depth := e.GetHistoryManager().UndoDepth()
	e.InsertRune(')')

	if e.Text() != "x()" || e.GetCursor() != 3 {
		t.Fatalf("text = %q cursor = %d, want x() and 3", e.Text(), e.GetCursor())
	}
	if got := e.GetHistoryManager().UndoDepth(); got != depth {
		t.Fatalf("UndoDepth() = %d after skip-over, want %d", got, depth)
	}
	_ = e.Undo()
	_ = e.Undo()
	if e.Text() != "" {
		t.Fatalf("text after two undos = %q, want empty", e.Text())
	}
}

func TestHighlightCompletedRunsInsidePostedFunction(t *testing.T) {
	posts := make(chan func(), 4)
	e := NewEditor(buffer.NewSliceBuffer(), testConfig(),
		WithTokenizer(highlighter.ForFile("main.go")),
		WithPost(func(f func()) { posts <- f }))
	defer e.Close()

	completed := 0
	e.GetEventManager().Subscribe(event.TypeHighlightCompleted, func(event.Event) bool {
		completed++
		return false
	})
	e.Load([]byte("package main\n"))
	hl := e.GetHighlightManager()

	deadline := time.After(5 * time.Second)
	for hl.AppliedGeneration() < hl.Generation() {
		select {
		case f := <-posts:
			if hl.AppliedGeneration() < hl.Generation() && completed != 0 {
				t.Fatalf("TypeHighlightCompleted dispatched outside a posted function")
			}
			f()
		case <-deadline:
			t.Fatalf("generation %d never posted", hl.Generation())
		}
	}
	if completed == 0 {
		t.Fatalf("no TypeHighlightCompleted after the latest generation was applied")
	}
	if spans := e.VisibleSpans(0, 7); len(spans) == 0 {
		t.Fatalf("no spans after running the posted result")
	}
}
