package richtext

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Render produces the ANSI rendering of the buffer using the given
// lipgloss renderer (which carries the color profile). Newlines are kept
// out of styled segments so a style never bleeds across lines.
func Render(t *Text, r *lipgloss.Renderer) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	var b strings.Builder
	runes := t.runes
	for _, info := range t.Runs() {
		style := styleFor(r, info.Attrs)
		segment := string(runes[info.Start:info.End])
		for i, line := range strings.Split(segment, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line == "" {
				continue
			}
			b.WriteString(style.Render(line))
		}
	}
	return b.String()
}

// RenderSlice renders only the rune window [lo, hi), styled. The widget
// uses this to emit one visual line at a time when the layout wraps
// text at a width the source newlines don't know about.
func RenderSlice(t *Text, r *lipgloss.Renderer, lo, hi int) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	if lo < 0 {
		lo = 0
	}
	if hi > len(t.runes) {
		hi = len(t.runes)
	}
	if lo >= hi {
		return ""
	}

	var b strings.Builder
	for _, info := range t.Runs() {
		start, end := max(info.Start, lo), min(info.End, hi)
		if start >= end {
			continue
		}
		segment := string(t.runes[start:end])
		style := styleFor(r, info.Attrs)
		for i, line := range strings.Split(segment, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line == "" {
				continue
			}
			b.WriteString(style.Render(line))
		}
	}
	return b.String()
}

func styleFor(r *lipgloss.Renderer, a Attrs) lipgloss.Style {
	style := r.NewStyle()
	if a.Foreground != nil {
		style = style.Foreground(a.Foreground)
	}
	if a.Background != nil {
		style = style.Background(a.Background)
	}
	if a.Bold {
		style = style.Bold(true)
	}
	if a.Faint {
		style = style.Faint(true)
	}
	if a.Italic {
		style = style.Italic(true)
	}
	if a.Underline {
		style = style.Underline(true)
	}
	return style
}
