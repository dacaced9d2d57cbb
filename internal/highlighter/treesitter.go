package highlighter

import (
	"context"
	"fmt"

	"github.com/bethropolis/tidecore/internal/core/highlight"
	"github.com/bethropolis/tidecore/internal/highlighter/lang"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/theme"
	sitter "github.com/smacker/go-tree-sitter"
)

// ctxCheckInterval is how many query matches are processed between
// cancellation checks.
const ctxCheckInterval = 256

// TreeSitter tokenizes a whole document with a tree-sitter grammar and its
// highlight query. Each pass uses its own parser, so one value may serve
// overlapping passes.
type TreeSitter struct {
	language *lang.Language
	query    *sitter.Query
}

// NewTreeSitter compiles the highlight query of l.
func NewTreeSitter(l *lang.Language) (*TreeSitter, error) {
	if l == nil || l.TreeSitterLang == nil {
		return nil, fmt.Errorf("no language provided for highlighting")
	}
	src, err := l.GetQuery()
	if err != nil {
		return nil, err
	}
	query, err := sitter.NewQuery(src, l.TreeSitterLang)
	if err != nil {
		return nil, fmt.Errorf("query parse failed for %s: %w", l.Name, err)
	}
	return &TreeSitter{language: l, query: query}, nil
}

// Name is the language name.
func (ts *TreeSitter) Name() string { return ts.language.Name }

// Tokenize implements highlight.Tokenizer.
func (ts *TreeSitter) Tokenize(ctx context.Context, text []byte, palette *theme.Palette) ([]highlight.Span, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(ts.language.TreeSitterLang)

	tree, err := parser.ParseCtx(ctx, nil, text)
	if err != nil {
		return nil, fmt.Errorf("parsing failed: %w", err)
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(ts.query, tree.RootNode())

	// Captures arrive in document order, and for the same node in pattern
	// order. The first capture that survives its predicates wins.
	seen := make(map[[2]uint32]bool)
	var spans []highlight.Span
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		match, index, ok := qc.NextCapture()
		if !ok {
			break
		}
		if filtered := qc.FilterPredicates(match, text); filtered == nil || len(filtered.Captures) == 0 {
			continue
		}
		capture := match.Captures[index]
		node := capture.Node
		key := [2]uint32{node.StartByte(), node.EndByte()}
		if key[0] >= key[1] || seen[key] {
			continue
		}
		seen[key] = true

		style := palette.StyleID(captureNameToStyleName(ts.query.CaptureNameForId(capture.Index)))
		if style == theme.DefaultStyle {
			continue
		}
		spans = append(spans, highlight.Span{Start: int(key[0]), End: int(key[1]), Style: style})
	}

	logger.DebugTagf("highlight", "TreeSitter(%s): %d spans over %d bytes", ts.language.Name, len(spans), len(text))
	return spans, nil
}

// captureNameToStyleName maps a capture name such as @keyword.control to
// a theme style name. The palette resolves dotted names to their base.
func captureNameToStyleName(captureName string) string {
	if len(captureName) > 0 && captureName[0] == '@' {
		return captureName[1:]
	}
	return captureName
}
