// Package autoedit decides the companion edit that accompanies a typed
// character: closing brackets and quotes, skipping over an existing close
// character, and carrying indentation onto a new line.
package autoedit

import "strings"

// Config selects which rules are active.
type Config struct {
	AutoIndent        bool
	AutoCloseBrackets bool
	AutoCloseQuotes   bool
	TabWidth          int
	UseSpaces         bool
}

// Kind identifies the companion edit.
type Kind int

const (
	None                Kind = iota
	AppendAfter              // Insert Text right after the typed character
	SkipOver                 // Typed character overwrites the identical next character
	NewlineContinuation      // Insert Text after the newline, cursor at CursorOffset into it
)

func (k Kind) String() string {
	switch k {
	case AppendAfter:
		return "AppendAfter"
	case SkipOver:
		return "SkipOver"
	case NewlineContinuation:
		return "NewlineContinuation"
	default:
		return "None"
	}
}

// Decision is the outcome of Decide.
type Decision struct {
	Kind         Kind
	Text         string
	CursorOffset int
}

var closers = map[rune]rune{'{': '}', '[': ']', '(': ')'}

// Decide inspects text as it was before ch is inserted at offset. Rules are
// tried in order newline, quote, brace, bracket, parenthesis, and the first
// that applies wins.
func Decide(ch rune, text []byte, offset int, cfg Config) Decision {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}

	switch ch {
	case '\n':
		if cfg.AutoIndent {
			return newline(text, offset, cfg)
		}
	case '"', '\'', '`':
		if cfg.AutoCloseQuotes {
			if nextIs(text, offset, ch) {
				return Decision{Kind: SkipOver}
			}
			return Decision{Kind: AppendAfter, Text: string(ch)}
		}
	case '{', '[', '(':
		if cfg.AutoCloseBrackets {
			return Decision{Kind: AppendAfter, Text: string(closers[ch])}
		}
	case '}', ']', ')':
		if cfg.AutoCloseBrackets && nextIs(text, offset, ch) {
			return Decision{Kind: SkipOver}
		}
	}
	return Decision{Kind: None}
}

// newline carries the current line's leading whitespace, one level deeper
// after '{'. Between '{' and '}' the closing brace moves to its own line.
func newline(text []byte, offset int, cfg Config) Decision {
	base := leadingWhitespace(text, offset)
	indent := base
	opened := offset > 0 && text[offset-1] == '{'
	if opened {
		indent += Unit(cfg)
	}
	if indent == "" {
		return Decision{Kind: None}
	}
	if opened && nextIs(text, offset, '}') {
		return Decision{Kind: NewlineContinuation, Text: indent + "\n" + base, CursorOffset: len(indent)}
	}
	return Decision{Kind: NewlineContinuation, Text: indent, CursorOffset: len(indent)}
}

// Unit is one indentation level.
func Unit(cfg Config) string {
	if !cfg.UseSpaces {
		return "\t"
	}
	width := cfg.TabWidth
	if width <= 0 {
		width = 4
	}
	return strings.Repeat(" ", width)
}

// leadingWhitespace returns the spaces and tabs that start the line
// containing offset, stopping at offset.
func leadingWhitespace(text []byte, offset int) string {
	start := offset
	for start > 0 && text[start-1] != '\n' {
		start--
	}
	end := start
	for end < offset && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	return string(text[start:end])
}

func nextIs(text []byte, offset int, ch rune) bool {
	return offset < len(text) && rune(text[offset]) == ch
}
