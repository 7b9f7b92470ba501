package formatter

import "github.com/charmbracelet/lipgloss"

// Palette is a simple stylesheet built with named [lipgloss.Style] fields.
//
// A nil *Palette renders text unchanged, so callers never branch on whether output is styled.
type Palette struct {
	title lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

// NewPalette builds a palette from foreground colors for titles, errors, warnings and help text.
func NewPalette(t, e, w, h string) *Palette {
	return &Palette{
		title: newStyle(t).Bold(true),
		err:   newStyle(e).Bold(true),
		warn:  newStyle(w),
		help:  newStyle(h).Italic(true),
	}
}

// DefaultPalette returns the terminal palette used by the CLI.
func DefaultPalette() *Palette {
	return NewPalette("#7D56F4", "#FF0000", "#FFA500", "#626262")
}

func newStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

// Title renders s in the title style.
func (p *Palette) Title(s string) string {
	if p == nil {
		return s
	}
	return p.title.Render(s)
}

func (p *Palette) Err(s string) string {
	if p == nil {
		return s
	}
	return p.err.Render(s)
}

func (p *Palette) Warn(s string) string {
	if p == nil {
		return s
	}
	return p.warn.Render(s)
}

func (p *Palette) Help(s string) string {
	if p == nil {
		return s
	}
	return p.help.Render(s)
}
