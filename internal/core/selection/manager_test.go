package selection

import (
	"testing"

	"github.com/bethropolis/tidecore/internal/types"
)

type fakeEditor struct{ cursor int }

func (f *fakeEditor) GetCursor() int { return f.cursor }

func TestSelectionFollowsCursor(t *testing.T) {
	f := &fakeEditor{cursor: 5}
	m := NewManager(f)

	m.StartOrUpdateSelection()
	if m.HasSelection() {
		t.Fatalf("empty selection reported as active")
	}
	f.cursor = 2
	m.StartOrUpdateSelection()
	start, end, ok := m.GetSelection()
	if !ok || start != 2 || end != 5 {
		t.Fatalf("GetSelection() = %d,%d,%v, want 2,5,true", start, end, ok)
	}

	m.ClearSelection()
	if _, _, ok := m.GetSelection(); ok || m.IsSelecting() {
		t.Fatalf("selection survived ClearSelection")
	}
}

func TestSelectionShift(t *testing.T) {
	m := NewManager(&fakeEditor{})

	m.Select(8, 4)
	m.Shift(types.EditInfo{StartIndex: 0, OldEndIndex: 0, NewEndIndex: 3})
	if start, end, _ := m.GetSelection(); start != 7 || end != 11 {
		t.Fatalf("after insert before = %d,%d, want 7,11", start, end)
	}
	if m.anchor != 11 {
		t.Fatalf("anchor = %d, want 11 (direction kept)", m.anchor)
	}

	m.Shift(types.EditInfo{StartIndex: 20, OldEndIndex: 25, NewEndIndex: 20})
	if start, end, _ := m.GetSelection(); start != 7 || end != 11 {
		t.Fatalf("after edit past end = %d,%d, want 7,11", start, end)
	}

	m.Shift(types.EditInfo{StartIndex: 9, OldEndIndex: 9, NewEndIndex: 10})
	if m.IsSelecting() {
		t.Fatalf("selection touched by an edit was kept")
	}
}
