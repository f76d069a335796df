// Package styles resolves visual attributes for detected spans: a
// themeable per-kind color palette, the injected resolver strategy, and
// the projector that applies span styles onto an attributed buffer.
package styles

import (
	"fmt"
	"regexp"

	"github.com/charmbracelet/lipgloss"

	"linklabel/internal/span"
)

// ColorToken names a themeable color. These are the keys users can
// override in their config.
type ColorToken string

const (
	TokenLinkExplicit ColorToken = "link.explicit"
	TokenLinkHandle   ColorToken = "link.handle"
	TokenLinkHashtag  ColorToken = "link.hashtag"
	TokenLinkURL      ColorToken = "link.url"
	TokenLinkEmail    ColorToken = "link.email"
	TokenLinkPhone    ColorToken = "link.phone"

	TokenHighlight ColorToken = "link.highlight"
	TokenText      ColorToken = "text.primary"
)

// kindTokens maps detection kinds to their palette tokens.
var kindTokens = map[span.Kind]ColorToken{
	span.KindExplicitLink: TokenLinkExplicit,
	span.KindUserHandle:   TokenLinkHandle,
	span.KindHashtag:      TokenLinkHashtag,
	span.KindURL:          TokenLinkURL,
	span.KindEmail:        TokenLinkEmail,
	span.KindPhoneNumber:  TokenLinkPhone,
}

// AllTokens returns every valid color token, for config validation.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenLinkExplicit, TokenLinkHandle, TokenLinkHashtag,
		TokenLinkURL, TokenLinkEmail, TokenLinkPhone,
		TokenHighlight, TokenText,
	}
}

// Palette holds the resolved color per token.
type Palette map[ColorToken]lipgloss.AdaptiveColor

// DefaultPalette is the stock color scheme.
func DefaultPalette() Palette {
	return Palette{
		TokenLinkExplicit: {Light: "#1A5276", Dark: "#54A0FF"},
		TokenLinkHandle:   {Light: "#43BF6D", Dark: "#73F59F"},
		TokenLinkHashtag:  {Light: "#874BFD", Dark: "#7D56F4"},
		TokenLinkURL:      {Light: "#1E66F5", Dark: "#89B4FA"},
		TokenLinkEmail:    {Light: "#179299", Dark: "#94E2D5"},
		TokenLinkPhone:    {Light: "#DF8E1D", Dark: "#F9E2AF"},
		TokenHighlight:    {Light: "#FECA57", Dark: "#FECA57"},
		TokenText:         {Light: "#333333", Dark: "#CCCCCC"},
	}
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Apply overlays hex overrides onto the palette. Unknown tokens and
// malformed colors are rejected so a typoed config fails at load time,
// not at render time.
func (p Palette) Apply(overrides map[string]string) error {
	valid := make(map[ColorToken]bool, len(AllTokens()))
	for _, tok := range AllTokens() {
		valid[tok] = true
	}
	for key, hex := range overrides {
		token := ColorToken(key)
		if !valid[token] {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !hexColorPattern.MatchString(hex) {
			return fmt.Errorf("invalid hex color for %s: %s", key, hex)
		}
		p[token] = lipgloss.AdaptiveColor{Light: hex, Dark: hex}
	}
	return nil
}

// ColorFor returns the palette color for a detection kind.
func (p Palette) ColorFor(kind span.Kind) lipgloss.TerminalColor {
	if token, ok := kindTokens[kind]; ok {
		if c, ok := p[token]; ok {
			return c
		}
	}
	return p[TokenText]
}
