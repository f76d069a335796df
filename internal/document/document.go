// Package document holds the annotated-document snapshot: the styled
// buffer plus its detected spans, rebuilt as a unit whenever the source
// text or detection configuration changes.
package document

import (
	"linklabel/internal/richtext"
	"linklabel/internal/span"
)

// Document is the current styled-text + span-set snapshot shown by the
// widget. Replaced atomically on every rebuild; the only in-place
// mutations ever made to a published document are the two highlight
// overlays applied during interaction.
type Document struct {
	// Styled is the annotated buffer. Its plain-text projection always
	// equals the source text the document was built from.
	Styled *richtext.Text

	// Spans are the detected spans, every range valid against Styled.
	Spans []span.Span

	// Meta is auxiliary key-value metadata carried alongside the
	// snapshot. The engine never interprets it.
	Meta map[string]any
}

// Plain returns the plain-text projection of the styled buffer.
func (d *Document) Plain() string {
	if d == nil || d.Styled == nil {
		return ""
	}
	return d.Styled.Plain()
}

// Len returns the rune length of the document text.
func (d *Document) Len() int {
	if d == nil || d.Styled == nil {
		return 0
	}
	return d.Styled.Len()
}
