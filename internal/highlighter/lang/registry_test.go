package lang

import (
	"testing"
	"testing/fstest"
)

func TestRegistryLookups(t *testing.T) {
	reset()
	defer reset()

	Register(&Language{Name: "Go", Extensions: []string{".go"}})
	Register(&Language{Name: "Python", Extensions: []string{".py", ".PYW"}})

	tests := []struct {
		path string
		want string
	}{
		{"main.go", "Go"},
		{"/tmp/Tool.PY", "Python"},
		{"script.pyw", "Python"},
		{"notes.txt", ""},
		{"Makefile", ""},
	}
	for _, tt := range tests {
		got := ""
		if l := GetForFile(tt.path); l != nil {
			got = l.Name
		}
		if got != tt.want {
			t.Fatalf("GetForFile(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}

	if l := GetByName("python"); l == nil || l.Name != "Python" {
		t.Fatalf("GetByName(python) = %v", l)
	}
	if n := len(GetAll()); n != 2 {
		t.Fatalf("len(GetAll()) = %d, want 2", n)
	}

	Register(&Language{Name: "Golang", Extensions: []string{".go"}})
	if l := GetForFile("x.go"); l.Name != "Golang" {
		t.Fatalf("later registration did not override: %q", l.Name)
	}
}

func TestGetQuery(t *testing.T) {
	old := QueryFS
	defer func() { QueryFS = old }()

	QueryFS = fstest.MapFS{
		"queries/go/highlights.scm": {Data: []byte("((comment) @comment)")},
	}

	q, err := (&Language{Name: "Go", QueryPath: "go"}).GetQuery()
	if err != nil {
		t.Fatalf("GetQuery: %v", err)
	}
	if string(q) != "((comment) @comment)" {
		t.Fatalf("GetQuery() = %q", q)
	}
	if _, err := (&Language{Name: "Lisp", QueryPath: "lisp"}).GetQuery(); err == nil {
		t.Fatalf("GetQuery for a missing file succeeded")
	}
	if _, err := (&Language{Name: "None"}).GetQuery(); err == nil {
		t.Fatalf("GetQuery without a path succeeded")
	}
}
