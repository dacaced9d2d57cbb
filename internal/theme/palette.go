package theme

import (
	"sort"

	"github.com/gdamore/tcell/v2"
)

// StyleID is a compact handle for a style name within a Palette.
// The zero value is the Default style.
type StyleID uint16

const DefaultStyle StyleID = 0

// Palette is an immutable numbering of a theme's styles. Tokenizers resolve
// capture or token names to ids once; renderers turn ids back into styles.
// A Palette is safe for concurrent reads.
type Palette struct {
	name   string
	names  []string
	ids    map[string]StyleID
	styles []tcell.Style
}

// NewPalette numbers the styles of t, Default first and the rest by name.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t = Default()
	}
	names := make([]string, 0, len(t.Styles))
	for name := range t.Styles {
		if name != DefaultStyleName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	names = append([]string{DefaultStyleName}, names...)

	p := &Palette{
		name:   t.Name,
		names:  names,
		ids:    make(map[string]StyleID, len(names)),
		styles: make([]tcell.Style, len(names)),
	}
	for i, name := range names {
		p.ids[name] = StyleID(i)
		p.styles[i] = t.GetStyle(name)
	}
	return p
}

// StyleID resolves name to an id: exact name, then base name, then Default.
func (p *Palette) StyleID(name string) StyleID {
	if id, ok := p.ids[name]; ok {
		return id
	}
	if id, ok := p.ids[baseName(name)]; ok {
		return id
	}
	return DefaultStyle
}

// Style returns the terminal style for id; unknown ids map to Default.
func (p *Palette) Style(id StyleID) tcell.Style {
	if int(id) >= len(p.styles) {
		return p.styles[DefaultStyle]
	}
	return p.styles[id]
}

// Name returns the style name for id.
func (p *Palette) Name(id StyleID) string {
	if int(id) >= len(p.names) {
		return DefaultStyleName
	}
	return p.names[id]
}

// Len is the number of styles in the palette.
func (p *Palette) Len() int {
	return len(p.names)
}

// ThemeName is the name of the theme the palette was built from.
func (p *Palette) ThemeName() string {
	return p.name
}
