package buffer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReplaceEditInfo(t *testing.T) {
	sb := NewSliceBuffer()
	sb.SetText([]byte("ab\ncd\nef"))

	info := sb.Replace(4, 7, []byte("XY\nZ"))

	if got := sb.String(); got != "ab\ncXY\nZf" {
		t.Fatalf("text = %q, want %q", got, "ab\ncXY\nZf")
	}
	if info.StartIndex != 4 || info.OldEndIndex != 7 || info.NewEndIndex != 8 {
		t.Fatalf("indices = %d/%d/%d, want 4/7/8", info.StartIndex, info.OldEndIndex, info.NewEndIndex)
	}
	if info.StartPosition.Row != 1 || info.StartPosition.Column != 1 {
		t.Fatalf("StartPosition = %+v, want {1 1}", info.StartPosition)
	}
	if info.OldEndPosition.Row != 2 || info.OldEndPosition.Column != 1 {
		t.Fatalf("OldEndPosition = %+v, want {2 1}", info.OldEndPosition)
	}
	if info.NewEndPosition.Row != 2 || info.NewEndPosition.Column != 1 {
		t.Fatalf("NewEndPosition = %+v, want {2 1}", info.NewEndPosition)
	}
	if info.Delta() != 1 {
		t.Fatalf("Delta() = %d, want 1", info.Delta())
	}
	if !sb.IsModified() {
		t.Fatalf("IsModified() = false after Replace")
	}
}

func TestReplaceClampsAndSwaps(t *testing.T) {
	sb := NewSliceBuffer()
	sb.SetText([]byte("hello"))

	info := sb.Replace(10, 3, nil)
	if got := sb.String(); got != "hel" {
		t.Fatalf("text = %q, want %q", got, "hel")
	}
	if info.StartIndex != 3 || info.OldEndIndex != 5 {
		t.Fatalf("range = [%d, %d), want [3, 5)", info.StartIndex, info.OldEndIndex)
	}

	sb.Replace(-2, -1, []byte(">"))
	if got := sb.String(); got != ">hel" {
		t.Fatalf("text = %q, want %q", got, ">hel")
	}
}

func TestReplaceNoop(t *testing.T) {
	sb := NewSliceBuffer()
	sb.SetText([]byte("x"))
	info := sb.Replace(1, 1, nil)
	if !info.IsNoop() {
		t.Fatalf("IsNoop() = false for empty replace")
	}
	if sb.IsModified() {
		t.Fatalf("IsModified() = true after empty replace")
	}
}

func TestSliceAndBytesAreCopies(t *testing.T) {
	sb := NewSliceBuffer()
	sb.SetText([]byte("abcdef"))

	part := sb.Slice(4, 1)
	if string(part) != "bcd" {
		t.Fatalf("Slice(4, 1) = %q, want %q", part, "bcd")
	}
	part[0] = 'Z'
	all := sb.Bytes()
	all[0] = 'Z'
	if sb.String() != "abcdef" {
		t.Fatalf("buffer mutated through returned slice: %q", sb.String())
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("line1\nline2\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	sb := NewSliceBuffer()
	if err := sb.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sb.Lines().LineCount() != 3 {
		t.Fatalf("LineCount() = %d, want 3", sb.Lines().LineCount())
	}
	sb.Replace(0, 0, []byte(">"))
	if err := sb.Save(""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != ">line1\nline2\n" {
		t.Fatalf("saved = %q", data)
	}
	if sb.IsModified() {
		t.Fatalf("IsModified() = true after Save")
	}

	missing := NewSliceBuffer()
	if err := missing.Load(filepath.Join(dir, "nope.txt")); err != nil {
		t.Fatalf("Load(missing): %v", err)
	}
	if missing.Len() != 0 || missing.FilePath() == "" {
		t.Fatalf("missing file: Len = %d, FilePath = %q", missing.Len(), missing.FilePath())
	}
	if err := NewSliceBuffer().Save(""); err == nil {
		t.Fatalf("Save without a path succeeded")
	}
}
