// internal/highlighter/languages.go
package highlighter

import (
	"embed"
	"sync"

	"github.com/bethropolis/tidecore/internal/highlighter/lang"
	"github.com/bethropolis/tidecore/internal/logger"

	gosrc "github.com/smacker/go-tree-sitter/golang"
	jssrc "github.com/smacker/go-tree-sitter/javascript"
	pythonsrc "github.com/smacker/go-tree-sitter/python"
	rustsrc "github.com/smacker/go-tree-sitter/rust"
)

//go:embed queries/*/*.scm
var embeddedQueries embed.FS

var registerOnce sync.Once

// RegisterLanguages installs the built-in grammars. Safe to call repeatedly.
func RegisterLanguages() {
	registerOnce.Do(func() {
		if lang.QueryFS == nil {
			lang.QueryFS = embeddedQueries
		}

		lang.Register(&lang.Language{
			Name:           "Go",
			TreeSitterLang: gosrc.GetLanguage(),
			Extensions:     []string{".go"},
			QueryPath:      "go",
		})
		lang.Register(&lang.Language{
			Name:           "Python",
			TreeSitterLang: pythonsrc.GetLanguage(),
			Extensions:     []string{".py", ".pyw"},
			QueryPath:      "python",
		})
		lang.Register(&lang.Language{
			Name:           "JavaScript",
			TreeSitterLang: jssrc.GetLanguage(),
			Extensions:     []string{".js", ".mjs", ".cjs"},
			QueryPath:      "javascript",
		})
		lang.Register(&lang.Language{
			Name:           "Rust",
			TreeSitterLang: rustsrc.GetLanguage(),
			Extensions:     []string{".rs"},
			QueryPath:      "rust",
		})

		logger.Debugf("Registration complete. Registered %d languages.", len(lang.GetAll()))
	})
}
