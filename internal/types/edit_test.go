package types

import "testing"

func TestEditInfoLengths(t *testing.T) {
	tests := []struct {
		name     string
		edit     EditInfo
		delta    int
		deleted  int
		inserted int
		noop     bool
	}{
		{"insert", EditInfo{StartIndex: 4, OldEndIndex: 4, NewEndIndex: 7}, 3, 0, 3, false},
		{"delete", EditInfo{StartIndex: 4, OldEndIndex: 9, NewEndIndex: 4}, -5, 5, 0, false},
		{"replace", EditInfo{StartIndex: 2, OldEndIndex: 5, NewEndIndex: 3}, -2, 3, 1, false},
		{"noop", EditInfo{StartIndex: 3, OldEndIndex: 3, NewEndIndex: 3}, 0, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.edit.Delta(); got != tt.delta {
				t.Fatalf("Delta() = %d, want %d", got, tt.delta)
			}
			if got := tt.edit.DeletedLen(); got != tt.deleted {
				t.Fatalf("DeletedLen() = %d, want %d", got, tt.deleted)
			}
			if got := tt.edit.InsertedLen(); got != tt.inserted {
				t.Fatalf("InsertedLen() = %d, want %d", got, tt.inserted)
			}
			if got := tt.edit.IsNoop(); got != tt.noop {
				t.Fatalf("IsNoop() = %v, want %v", got, tt.noop)
			}
		})
	}
}

func TestInputEdit(t *testing.T) {
	e := EditInfo{
		StartIndex:     1,
		OldEndIndex:    2,
		NewEndIndex:    5,
		StartPosition:  Position{Line: 0, Col: 1}.Point(),
		OldEndPosition: Position{Line: 0, Col: 2}.Point(),
		NewEndPosition: Position{Line: 1, Col: 0}.Point(),
	}
	in := e.InputEdit()
	if in.StartIndex != 1 || in.OldEndIndex != 2 || in.NewEndIndex != 5 {
		t.Fatalf("indices = %d/%d/%d, want 1/2/5", in.StartIndex, in.OldEndIndex, in.NewEndIndex)
	}
	if in.NewEndPoint.Row != 1 || in.NewEndPoint.Column != 0 {
		t.Fatalf("NewEndPoint = %+v, want {1 0}", in.NewEndPoint)
	}
}
