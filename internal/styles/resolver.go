package styles

import (
	"github.com/charmbracelet/lipgloss"

	"linklabel/internal/span"
)

// UnderlineKind selects the underline treatment for a span.
type UnderlineKind int

const (
	UnderlineNone UnderlineKind = iota
	UnderlineSingle
)

// Resolver is the per-span styling strategy. The three functions are
// supplied at configuration time; any nil function falls back to the
// default palette behavior.
type Resolver struct {
	// ColorFor resolves the foreground color of a span.
	ColorFor func(span.Span) lipgloss.TerminalColor

	// HighlightColorFor resolves the alternate color used while the
	// span is actively pressed. Returning nil selects the dimmed
	// variant of the resolved color.
	HighlightColorFor func(span.Span) lipgloss.TerminalColor

	// UnderlineFor resolves the underline treatment of a span.
	UnderlineFor func(span.Span) UnderlineKind
}

// DefaultResolver styles spans from the given palette: per-kind
// foreground, single underline, and the palette highlight color while
// pressed.
func DefaultResolver(p Palette) Resolver {
	return Resolver{
		ColorFor: func(s span.Span) lipgloss.TerminalColor {
			return p.ColorFor(s.Kind)
		},
		HighlightColorFor: func(s span.Span) lipgloss.TerminalColor {
			if c, ok := p[TokenHighlight]; ok {
				return c
			}
			return nil
		},
		UnderlineFor: func(s span.Span) UnderlineKind {
			return UnderlineSingle
		},
	}
}

func (r Resolver) color(s span.Span) lipgloss.TerminalColor {
	if r.ColorFor == nil {
		return nil
	}
	return r.ColorFor(s)
}

func (r Resolver) highlightColor(s span.Span) lipgloss.TerminalColor {
	if r.HighlightColorFor == nil {
		return nil
	}
	return r.HighlightColorFor(s)
}

func (r Resolver) underline(s span.Span) bool {
	if r.UnderlineFor == nil {
		return true
	}
	return r.UnderlineFor(s) != UnderlineNone
}
