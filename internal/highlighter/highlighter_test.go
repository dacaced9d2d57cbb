package highlighter

import (
	"context"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/bethropolis/tidecore/internal/core/highlight"
	"github.com/bethropolis/tidecore/internal/theme"
)

// styleAt returns the style name of the span starting at offset.
func styleAt(p *theme.Palette, spans []highlight.Span, offset int) (string, int, bool) {
	for _, s := range spans {
		if s.Start == offset {
			return p.Name(s.Style), s.End, true
		}
	}
	return "", 0, false
}

func TestForFileSelection(t *testing.T) {
	tests := []struct {
		path     string
		wantKind string
	}{
		{"main.go", "treesitter"},
		{"script.py", "treesitter"},
		{"app.js", "treesitter"},
		{"lib.rs", "treesitter"},
		{"config.yaml", "chroma"},
		{"data.json", "chroma"},
		{"notes.unknownext", "none"},
	}
	for _, tt := range tests {
		kind := "none"
		switch ForFile(tt.path).(type) {
		case *TreeSitter:
			kind = "treesitter"
		case *Chroma:
			kind = "chroma"
		}
		if kind != tt.wantKind {
			t.Fatalf("ForFile(%q) kind = %s, want %s", tt.path, kind, tt.wantKind)
		}
	}
}

func TestForLanguage(t *testing.T) {
	if _, ok := ForLanguage("go").(*TreeSitter); !ok {
		t.Fatalf("ForLanguage(go) is not tree-sitter")
	}
	if _, ok := ForLanguage("bash").(*Chroma); !ok {
		t.Fatalf("ForLanguage(bash) is not chroma")
	}
	if tok := ForLanguage("no-such-language"); tok != nil {
		t.Fatalf("ForLanguage(no-such-language) = %T, want nil", tok)
	}
}

func TestTreeSitterGo(t *testing.T) {
	palette := theme.NewPalette(nil)
	src := []byte("package main\n\n// entry\nfunc main() {\n\ts := \"hi\"\n\t_ = len(s)\n}\n")

	tok, ok := ForFile("main.go").(*TreeSitter)
	if !ok {
		t.Fatalf("ForFile(main.go) is not tree-sitter")
	}
	spans, err := tok.Tokenize(context.Background(), src, palette)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	tests := []struct {
		offset  int
		wantEnd int
		want    string
	}{
		{0, 7, "keyword"},            // package
		{14, 22, "comment"},          // // entry
		{23, 27, "keyword"},          // func
		{28, 32, "function"},         // main
		{43, 47, "string"},           // "hi"
		{53, 56, "function.builtin"}, // len
	}
	for _, tt := range tests {
		name, end, found := styleAt(palette, spans, tt.offset)
		if !found {
			t.Fatalf("no span at offset %d (%q)", tt.offset, src[tt.offset:tt.wantEnd])
		}
		if name != tt.want || end != tt.wantEnd {
			t.Fatalf("span at %d = %s ending %d, want %s ending %d", tt.offset, name, end, tt.want, tt.wantEnd)
		}
	}

	for i := 1; i < len(spans); i++ {
		if spans[i].Start == spans[i-1].Start && spans[i].End == spans[i-1].End {
			t.Fatalf("duplicate span for range [%d,%d)", spans[i].Start, spans[i].End)
		}
	}
}

func TestTreeSitterCancelled(t *testing.T) {
	tok, ok := ForFile("main.go").(*TreeSitter)
	if !ok {
		t.Fatalf("ForFile(main.go) is not tree-sitter")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tok.Tokenize(ctx, []byte("package main\n"), theme.NewPalette(nil)); err == nil {
		t.Fatalf("Tokenize with a cancelled context succeeded")
	}
}

func TestChromaOffsets(t *testing.T) {
	palette := theme.NewPalette(nil)
	c := ChromaForName("go")
	if c == nil {
		t.Fatalf("ChromaForName(go) = nil")
	}
	src := []byte("package main\r\n// hi\r\nvar s = \"x\"")

	spans, err := c.Tokenize(context.Background(), src, palette)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if name, end, ok := styleAt(palette, spans, 0); !ok || name != "keyword" || end != 7 {
		t.Fatalf("span at 0 = %q ending %d, want keyword ending 7", name, end)
	}
	if name, _, ok := styleAt(palette, spans, 14); !ok || name != "comment" {
		t.Fatalf("span at 14 = %q, want comment", name)
	}
	if name, end, ok := styleAt(palette, spans, 29); !ok || name != "string" || end != 32 {
		t.Fatalf("span at 29 = %q ending %d, want string ending 32", name, end)
	}
	for _, s := range spans {
		if s.End > len(src) {
			t.Fatalf("span [%d,%d) past end of text (%d)", s.Start, s.End, len(src))
		}
	}
}

func TestChromaStyleName(t *testing.T) {
	tests := []struct {
		in   chroma.TokenType
		want string
	}{
		{chroma.KeywordType, "type.builtin"},
		{chroma.KeywordReserved, "keyword"},
		{chroma.NameFunction, "function"},
		{chroma.NameBuiltin, "function.builtin"},
		{chroma.LiteralStringDouble, "string"},
		{chroma.LiteralStringEscape, "string.escape"},
		{chroma.LiteralNumberInteger, "number"},
		{chroma.CommentSingle, "comment"},
		{chroma.Operator, "operator"},
		{chroma.Text, ""},
		{chroma.Name, ""},
	}
	for _, tt := range tests {
		if got := chromaStyleName(tt.in); got != tt.want {
			t.Fatalf("chromaStyleName(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCaptureNameToStyleName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"@keyword.control", "keyword.control"},
		{"string", "string"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := captureNameToStyleName(tt.in); got != tt.want {
			t.Fatalf("captureNameToStyleName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
