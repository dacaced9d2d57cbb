// internal/buffer/buffer.go
package buffer

import "github.com/bethropolis/tidecore/internal/types"

// Buffer defines the interface for text buffer operations. Replace is the
// only mutator after a load; it keeps the line index in step with the text.
type Buffer interface {
	Load(filePath string) error
	Save(filePath string) error
	SetText(text []byte)
	Replace(start, end int, text []byte) types.EditInfo
	Bytes() []byte
	Slice(start, end int) []byte
	Len() int
	Lines() *LineIndex
	FilePath() string
	IsModified() bool
}
