package lang

import (
	"fmt"
	"io/fs"

	"github.com/bethropolis/tidecore/internal/logger"
	sitter "github.com/smacker/go-tree-sitter"
)

// QueryFS is the filesystem the highlight queries are read from.
var QueryFS fs.FS

// Language describes a grammar and its highlight query.
type Language struct {
	// Name is the display name of the language
	Name string

	// TreeSitterLang is the tree-sitter grammar
	TreeSitterLang *sitter.Language

	// Extensions lists the file extensions mapped to this language
	Extensions []string

	// QueryPath is the directory under queries/ holding highlights.scm
	QueryPath string
}

// GetQuery loads the highlight query source for this language.
func (l *Language) GetQuery() ([]byte, error) {
	if QueryFS == nil {
		return nil, fmt.Errorf("query filesystem not set")
	}
	if l.QueryPath == "" {
		return nil, fmt.Errorf("no query path defined for language %s", l.Name)
	}

	queryPath := fmt.Sprintf("queries/%s/highlights.scm", l.QueryPath)
	query, err := fs.ReadFile(QueryFS, queryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load query for %s: %w", l.Name, err)
	}
	logger.DebugTagf("lang", "Loaded query from %s for %s (%d bytes)", queryPath, l.Name, len(query))
	return query, nil
}
