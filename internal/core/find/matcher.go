package find

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"
)

var (
	ErrInvalidPattern = errors.New("invalid search pattern")
	ErrEmptyPattern   = errors.New("search pattern cannot be empty")
)

// Options controls how a pattern is interpreted.
type Options struct {
	Regex         bool // Pattern is a regular expression rather than a literal
	CaseSensitive bool
	WholeWord     bool // Match must be preceded and followed by whitespace
}

// Match is a half-open byte range of the document.
type Match struct {
	Start int
	End   int
}

// Len is the matched length in bytes.
func (m Match) Len() int { return m.End - m.Start }

// Matcher finds every occurrence of a compiled pattern.
type Matcher struct {
	pattern string
	opts    Options
	re      *regexp.Regexp
}

// Compile builds a matcher. Malformed regular expressions yield an error
// wrapping ErrInvalidPattern.
func Compile(pattern string, opts Options) (*Matcher, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}
	expr := pattern
	if !opts.Regex {
		expr = regexp.QuoteMeta(pattern)
	}
	if !opts.CaseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %v", ErrInvalidPattern, pattern, err)
	}
	return &Matcher{pattern: pattern, opts: opts, re: re}, nil
}

// Pattern returns the pattern as given to Compile.
func (m *Matcher) Pattern() string { return m.pattern }

// Options returns the options the matcher was compiled with.
func (m *Matcher) Options() Options { return m.opts }

// FindAll returns the non-empty matches in text ordered by start offset.
func (m *Matcher) FindAll(text []byte) []Match {
	if m.opts.WholeWord {
		return m.findWholeWords(text)
	}
	locs := m.re.FindAllIndex(text, -1)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		if loc[0] == loc[1] {
			continue
		}
		matches = append(matches, Match{Start: loc[0], End: loc[1]})
	}
	return matches
}

// findWholeWords scans for whitespace-delimited matches. A rejected
// candidate only consumes its first rune, so an occurrence overlapping it
// is still found.
func (m *Matcher) findWholeWords(text []byte) []Match {
	var matches []Match
	for pos := 0; pos < len(text); {
		loc := m.re.FindIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if start < end && spaceDelimited(text, start, end) {
			matches = append(matches, Match{Start: start, End: end})
			pos = end
			continue
		}
		_, size := utf8.DecodeRune(text[start:])
		if start == len(text) {
			size = 1
		}
		pos = start + size
	}
	return matches
}

// spaceDelimited reports whether text[start:end] has a whitespace rune on
// both sides. The start and end of the text do not count as whitespace.
func spaceDelimited(text []byte, start, end int) bool {
	if start == 0 || end >= len(text) {
		return false
	}
	before, _ := utf8.DecodeLastRune(text[:start])
	after, _ := utf8.DecodeRune(text[end:])
	return unicode.IsSpace(before) && unicode.IsSpace(after)
}
