// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// DefaultStyleName is the style every lookup falls back to.
const DefaultStyleName = "Default"

// Theme maps style names to terminal styles.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle returns the style for name, falling back to the base name (the
// part before the first dot) and then to Default.
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if base := baseName(name); base != name {
		if style, ok := t.Styles[base]; ok {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, using base '%s'", t.Name, name, base)
			return style
		}
	}

	if defStyle, ok := t.Styles[DefaultStyleName]; ok {
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

func baseName(name string) string {
	if dot := strings.IndexByte(name, '.'); dot != -1 {
		return name[:dot]
	}
	return name
}

// DevComfortDark is the built-in theme.
var DevComfortDark Theme

func init() {
	dcForeground := tcell.NewHexColor(0xc5cdd9)
	dcComment := tcell.NewHexColor(0x5c6370)
	dcOrange := tcell.NewHexColor(0xd19a66)
	dcYellow := tcell.NewHexColor(0xe5c07b)
	dcGreen := tcell.NewHexColor(0x98c379)
	dcCyan := tcell.NewHexColor(0x56b6c2)
	dcBlue := tcell.NewHexColor(0x61afef)
	dcMagenta := tcell.NewHexColor(0xc678dd)

	baseStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(dcForeground)

	DevComfortDark = Theme{
		Name:   "DevComfort Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			DefaultStyleName:  baseStyle,
			"SearchHighlight": tcell.StyleDefault.Background(tcell.ColorOrange).Foreground(tcell.ColorBlack),

			"keyword":     baseStyle.Foreground(dcBlue).Bold(true),
			"string":      baseStyle.Foreground(dcGreen),
			"comment":     baseStyle.Foreground(dcComment).Italic(true),
			"number":      baseStyle.Foreground(dcOrange),
			"type":        baseStyle.Foreground(dcCyan),
			"function":    baseStyle.Foreground(dcYellow),
			"constant":    baseStyle.Foreground(dcOrange),
			"variable":    baseStyle.Foreground(dcForeground),
			"operator":    baseStyle.Foreground(dcForeground),
			"namespace":   baseStyle.Foreground(dcCyan),
			"builtin":     baseStyle.Foreground(dcCyan),
			"field":       baseStyle.Foreground(dcForeground),
			"parameter":   baseStyle.Foreground(dcForeground).Italic(true),
			"attribute":   baseStyle.Foreground(dcMagenta),
			"punctuation": baseStyle.Foreground(dcComment),

			"string.escape":    baseStyle.Foreground(dcMagenta),
			"type.builtin":     baseStyle.Foreground(dcCyan).Bold(true),
			"function.builtin": baseStyle.Foreground(dcCyan).Italic(true),
			"function.method":  baseStyle.Foreground(dcYellow),
			"keyword.control":  baseStyle.Foreground(dcBlue).Bold(true),
		},
	}
}

// Default returns the built-in theme.
func Default() *Theme {
	return &DevComfortDark
}
