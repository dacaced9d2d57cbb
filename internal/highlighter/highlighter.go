// Package highlighter provides the tokenizers behind the highlight engine:
// tree-sitter grammars for the registered languages and chroma lexers for
// everything else.
package highlighter

import (
	"github.com/bethropolis/tidecore/internal/core/highlight"
	"github.com/bethropolis/tidecore/internal/highlighter/lang"
	"github.com/bethropolis/tidecore/internal/logger"
)

// ForFile picks a tokenizer for filePath: a tree-sitter grammar when one
// is registered for the extension, else a chroma lexer, else nil.
func ForFile(filePath string) highlight.Tokenizer {
	RegisterLanguages()

	if l := lang.GetForFile(filePath); l != nil {
		ts, err := NewTreeSitter(l)
		if err == nil {
			return ts
		}
		logger.Warnf("Highlighter: %v, falling back to chroma", err)
	}
	if c := ChromaForFile(filePath); c != nil {
		return c
	}
	logger.Debugf("Highlighter: No tokenizer for '%s'", filePath)
	return nil
}

// ForLanguage is ForFile keyed by language name instead of path.
func ForLanguage(name string) highlight.Tokenizer {
	RegisterLanguages()

	if l := lang.GetByName(name); l != nil {
		ts, err := NewTreeSitter(l)
		if err == nil {
			return ts
		}
		logger.Warnf("Highlighter: %v, falling back to chroma", err)
	}
	if c := ChromaForName(name); c != nil {
		return c
	}
	logger.Debugf("Highlighter: No tokenizer for language '%s'", name)
	return nil
}
