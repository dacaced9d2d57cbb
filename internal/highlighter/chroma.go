package highlighter

import (
	"context"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/bethropolis/tidecore/internal/core/highlight"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/theme"
)

// Chroma tokenizes with a regex lexer for languages without a grammar.
type Chroma struct {
	lexer chroma.Lexer
}

// NewChroma wraps lexer, coalescing adjacent tokens of the same type.
func NewChroma(lexer chroma.Lexer) *Chroma {
	return &Chroma{lexer: chroma.Coalesce(lexer)}
}

// ChromaForFile matches a lexer by file name. It returns nil when none matches.
func ChromaForFile(filePath string) *Chroma {
	lexer := lexers.Match(filePath)
	if lexer == nil {
		return nil
	}
	return NewChroma(lexer)
}

// ChromaForName looks a lexer up by name or alias. It returns nil when none matches.
func ChromaForName(name string) *Chroma {
	lexer := lexers.Get(name)
	if lexer == nil {
		return nil
	}
	return NewChroma(lexer)
}

// Name is the lexer name.
func (c *Chroma) Name() string { return c.lexer.Config().Name }

// Tokenize implements highlight.Tokenizer.
func (c *Chroma) Tokenize(ctx context.Context, text []byte, palette *theme.Palette) ([]highlight.Span, error) {
	// EnsureLF would rewrite CRLF and shift every later offset.
	it, err := c.lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, string(text))
	if err != nil {
		return nil, fmt.Errorf("tokenise failed: %w", err)
	}

	var spans []highlight.Span
	offset := 0
	for n, tok := 0, it(); tok != chroma.EOF; n, tok = n+1, it() {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		start := offset
		offset += len(tok.Value)
		end := offset
		if end > len(text) {
			end = len(text)
		}
		name := chromaStyleName(tok.Type)
		if name == "" || start >= end {
			continue
		}
		if style := palette.StyleID(name); style != theme.DefaultStyle {
			spans = append(spans, highlight.Span{Start: start, End: end, Style: style})
		}
	}

	logger.DebugTagf("highlight", "Chroma(%s): %d spans over %d bytes", c.Name(), len(spans), len(text))
	return spans, nil
}

// chromaStyleName maps a chroma token type to a theme style name.
func chromaStyleName(t chroma.TokenType) string {
	switch {
	case t == chroma.KeywordType:
		return "type.builtin"
	case t == chroma.KeywordConstant:
		return "constant"
	case t.InCategory(chroma.Keyword):
		return "keyword"
	case t == chroma.NameFunction, t == chroma.NameFunctionMagic:
		return "function"
	case t == chroma.NameBuiltin:
		return "function.builtin"
	case t == chroma.NameClass, t == chroma.NameNamespace:
		return "type"
	case t == chroma.NameConstant:
		return "constant"
	case t == chroma.NameAttribute, t == chroma.NameDecorator:
		return "attribute"
	case t == chroma.LiteralStringEscape:
		return "string.escape"
	case t.InSubCategory(chroma.LiteralString):
		return "string"
	case t.InSubCategory(chroma.LiteralNumber):
		return "number"
	case t.InCategory(chroma.Comment):
		return "comment"
	case t.InCategory(chroma.Operator):
		return "operator"
	case t.InCategory(chroma.Punctuation):
		return "punctuation"
	}
	return ""
}
