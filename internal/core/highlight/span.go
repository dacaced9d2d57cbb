package highlight

import (
	"context"
	"sort"

	"github.com/bethropolis/tidecore/internal/theme"
	"github.com/bethropolis/tidecore/internal/types"
)

// Span is a styled half-open byte range of the document.
type Span struct {
	Start      int
	End        int
	Style      theme.StyleID
	Generation uint64 // Tokenization pass that produced the span
}

// Tokenizer produces spans for a full document snapshot. Implementations
// should return promptly once ctx is cancelled.
type Tokenizer interface {
	Tokenize(ctx context.Context, text []byte, palette *theme.Palette) ([]Span, error)
}

// TokenizerFunc adapts a function to the Tokenizer interface.
type TokenizerFunc func(ctx context.Context, text []byte, palette *theme.Palette) ([]Span, error)

func (f TokenizerFunc) Tokenize(ctx context.Context, text []byte, palette *theme.Palette) ([]Span, error) {
	return f(ctx, text, palette)
}

// shiftSpans carries spans across an edit into a new slice. Insertions
// strictly inside a span grow it.
func shiftSpans(spans []Span, edit types.EditInfo) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		start, end, ok := types.ShiftRange(s.Start, s.End, edit, true)
		if !ok {
			continue
		}
		s.Start, s.End = start, end
		out = append(out, s)
	}
	return out
}

// normalize drops empty or out-of-bounds spans, stamps the generation and
// orders by start offset.
func normalize(spans []Span, length int, gen uint64) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 || s.End > length || s.Start >= s.End {
			continue
		}
		s.Generation = gen
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
