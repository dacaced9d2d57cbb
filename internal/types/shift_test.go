package types

import "testing"

func insertAt(offset, n int) EditInfo {
	return EditInfo{StartIndex: offset, OldEndIndex: offset, NewEndIndex: offset + n}
}

func deleteRange(start, end int) EditInfo {
	return EditInfo{StartIndex: start, OldEndIndex: end, NewEndIndex: start}
}

func TestShiftRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		edit       EditInfo
		grow       bool
		wantStart  int
		wantEnd    int
		wantOK     bool
	}{
		{"before insert", 0, 3, insertAt(5, 2), false, 0, 3, true},
		{"ends at insert", 2, 5, insertAt(5, 2), false, 2, 5, true},
		{"starts at insert", 5, 8, insertAt(5, 2), false, 7, 10, true},
		{"after insert", 9, 12, insertAt(5, 2), false, 11, 14, true},
		{"insert inside grows", 2, 8, insertAt(5, 2), true, 2, 10, true},
		{"insert inside drops", 2, 8, insertAt(5, 2), false, 0, 0, false},
		{"before delete", 0, 3, deleteRange(3, 6), false, 0, 3, true},
		{"after delete", 6, 9, deleteRange(3, 6), false, 3, 6, true},
		{"straddles delete start", 1, 4, deleteRange(3, 6), true, 0, 0, false},
		{"straddles delete end", 5, 9, deleteRange(3, 6), true, 0, 0, false},
		{"inside delete", 4, 5, deleteRange(3, 6), true, 0, 0, false},
		{"replacement overlap", 2, 8, EditInfo{StartIndex: 4, OldEndIndex: 5, NewEndIndex: 7}, true, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, e, ok := ShiftRange(tt.start, tt.end, tt.edit, tt.grow)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (s != tt.wantStart || e != tt.wantEnd) {
				t.Fatalf("range = [%d, %d), want [%d, %d)", s, e, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
