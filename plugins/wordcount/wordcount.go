// plugins/wordcount/wordcount.go
package wordcount

import (
	"bytes"
	"fmt"

	"github.com/bethropolis/tidecore/internal/plugin"
	"github.com/rivo/uniseg"
)

// Ensure WordCount implements plugin.Plugin
var _ plugin.Plugin = (*WordCount)(nil)

// WordCount reports line, word, character and byte counts of the buffer
// or of the current selection.
type WordCount struct {
	api plugin.API
}

// New creates a new instance of the WordCount plugin.
func New() *WordCount {
	return &WordCount{}
}

func (p *WordCount) Name() string {
	return "wordcount"
}

// Initialize registers the wc command.
func (p *WordCount) Initialize(api plugin.API) error {
	p.api = api
	if err := api.RegisterCommand("wc", "", p.executeWordCount); err != nil {
		return fmt.Errorf("failed to register 'wc' command: %w", err)
	}
	return nil
}

func (p *WordCount) Shutdown() error {
	return nil
}

// Stats are the counts printed by wc.
type Stats struct {
	Lines int
	Words int
	Chars int // Grapheme clusters
	Bytes int
}

// Count computes Stats for text. Lines is newlines plus one, matching
// the editor's line index.
func Count(text []byte) Stats {
	return Stats{
		Lines: 1 + bytes.Count(text, []byte("\n")),
		Words: len(bytes.Fields(text)),
		Chars: uniseg.GraphemeClusterCount(string(text)),
		Bytes: len(text),
	}
}

func (p *WordCount) executeWordCount(args []string) error {
	if p.api == nil {
		return fmt.Errorf("wordcount plugin not initialized with API")
	}
	ed := p.api.Editor()
	text := ed.GetBuffer().Bytes()
	if start, end, ok := ed.GetSelection(); ok {
		text = ed.GetBuffer().Slice(start, end)
	}
	s := Count(text)
	fmt.Fprintf(p.api.Output(), "lines=%d words=%d chars=%d bytes=%d\n", s.Lines, s.Words, s.Chars, s.Bytes)
	return nil
}
