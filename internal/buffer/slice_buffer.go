// internal/buffer/slice_buffer.go
package buffer

import (
	"errors"
	"fmt"
	"os"

	"github.com/bethropolis/tidecore/internal/types"
)

// SliceBuffer stores the document as one contiguous byte slice plus its
// line index.
type SliceBuffer struct {
	text     []byte
	lines    *LineIndex
	filePath string
	modified bool
}

// NewSliceBuffer creates an empty SliceBuffer.
func NewSliceBuffer() *SliceBuffer {
	return &SliceBuffer{
		text:  []byte{},
		lines: NewLineIndex(nil),
	}
}

// Load reads a file into the buffer, replacing existing content. A missing
// file yields an empty buffer bound to that path.
func (sb *SliceBuffer) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sb.SetText(nil)
			sb.filePath = filePath
			return nil
		}
		return fmt.Errorf("failed to open file '%s': %w", filePath, err)
	}
	sb.SetText(data)
	sb.filePath = filePath
	return nil
}

// Save writes the buffer content to filePath, or to the stored path when empty.
func (sb *SliceBuffer) Save(filePath string) error {
	path := sb.filePath
	if filePath != "" {
		path = filePath
	}
	if path == "" {
		return errors.New("no file path specified for saving")
	}
	if err := os.WriteFile(path, sb.text, 0644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", path, err)
	}
	sb.filePath = path
	sb.modified = false
	return nil
}

// SetText replaces the whole content and rebuilds the line index.
func (sb *SliceBuffer) SetText(text []byte) {
	sb.text = append(sb.text[:0:0], text...)
	sb.lines.Rebuild(sb.text)
	sb.modified = false
}

// Replace substitutes [start, end) with text. Offsets are clamped to the
// document and swapped when reversed.
func (sb *SliceBuffer) Replace(start, end int, text []byte) types.EditInfo {
	start, end = clampRange(start, end, len(sb.text))

	info := types.EditInfo{
		StartIndex:     start,
		OldEndIndex:    end,
		NewEndIndex:    start + len(text),
		StartPosition:  sb.lines.Position(start).Point(),
		OldEndPosition: sb.lines.Position(end).Point(),
	}

	if start == end && len(text) == 0 {
		info.NewEndPosition = info.StartPosition
		return info
	}

	next := make([]byte, 0, len(sb.text)-(end-start)+len(text))
	next = append(next, sb.text[:start]...)
	next = append(next, text...)
	next = append(next, sb.text[end:]...)
	sb.text = next

	sb.lines.Apply(start, end, text)
	info.NewEndPosition = sb.lines.Position(info.NewEndIndex).Point()
	sb.modified = true
	return info
}

// Bytes returns a copy of the content.
func (sb *SliceBuffer) Bytes() []byte {
	out := make([]byte, len(sb.text))
	copy(out, sb.text)
	return out
}

// Slice returns a copy of [start, end), clamped.
func (sb *SliceBuffer) Slice(start, end int) []byte {
	start, end = clampRange(start, end, len(sb.text))
	out := make([]byte, end-start)
	copy(out, sb.text[start:end])
	return out
}

// String returns the content as a string.
func (sb *SliceBuffer) String() string {
	return string(sb.text)
}

// Len returns the content length in bytes.
func (sb *SliceBuffer) Len() int {
	return len(sb.text)
}

// Lines exposes the live line index. Callers must not mutate it.
func (sb *SliceBuffer) Lines() *LineIndex {
	return sb.lines
}

// IsModified returns true if the buffer has unsaved changes.
func (sb *SliceBuffer) IsModified() bool {
	return sb.modified
}

func (sb *SliceBuffer) FilePath() string {
	return sb.filePath
}

// Ensure SliceBuffer satisfies the Buffer interface
var _ Buffer = (*SliceBuffer)(nil)
