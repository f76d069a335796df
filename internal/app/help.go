package app

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpText = `# linklabel

A terminal playground for tappable text spans.

## Keys

| Key | Action |
|-----|--------|
| ` + "`?`" + ` | Toggle this help |
| ` + "`r`" + ` | Reload config from disk |
| ` + "`s`" + ` | Save the shown text as the config's demo text |
| ` + "`esc`" + ` | Close help |
| ` + "`q`" + ` | Quit |

## Mouse

Click a highlighted span to activate it. URLs, emails, @handles,
#hashtags and phone numbers are detected automatically; explicit links
fire their registered action. Scroll with the wheel.

## Config

Detection kinds, custom patterns, theme colors and tap history live in
` + "`~/.config/linklabel/config.yaml`" + `. Saved changes apply live when
auto_reload is on.
`

var helpFrameStyle = lipgloss.NewStyle().Padding(1, 2)

// helpStyleFor maps the configured theme mode onto a glamour style
// name; an unset mode follows the terminal background.
func helpStyleFor(mode string) string {
	switch mode {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// helpModel renders the markdown help overlay, caching the rendered
// output per width and style.
type helpModel struct {
	style    string
	rendered string
	width    int
}

func newHelpModel(style string) helpModel {
	return helpModel{style: style}
}

// SetStyle switches the glamour style, invalidating the cache.
func (h *helpModel) SetStyle(style string) {
	if style != h.style {
		h.style = style
		h.rendered = ""
	}
}

// View renders the help screen for the given frame size. Rendering is
// re-done only when the width or style changes.
func (h *helpModel) View(width, height int) string {
	if h.rendered == "" || h.width != width {
		h.rendered = renderHelp(width, h.style)
		h.width = width
	}
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, h.rendered)
}

func renderHelp(width int, style string) string {
	wrap := max(width-4, 20)
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return helpText
	}
	out, err := r.Render(helpText)
	if err != nil {
		return helpText
	}
	return helpFrameStyle.Render(out)
}
