package styles

import (
	"linklabel/internal/richtext"
	"linklabel/internal/span"
)

// Project returns a new attributed buffer with every span's style
// applied across its exact range. The base attributes (font treatment
// configured on the widget) are inherited; the resolver supplies
// foreground color and underline per span. Application is
// last-write-wins in span order, so when spans overlap the later span
// in the sequence owns the overlapping region.
func Project(base *richtext.Text, spans []span.Span, res Resolver, baseAttrs richtext.Attrs) *richtext.Text {
	out := base.Clone()
	for _, s := range spans {
		out.SetAttrs(s.Range, spanAttrs(s, res, baseAttrs, false))
	}
	return out
}

// Highlight applies the pressed style to one span, in place. Together
// with Unhighlight it is the only mutation ever made to a published
// document; everything else goes through a full rebuild.
func Highlight(doc *richtext.Text, s span.Span, res Resolver, baseAttrs richtext.Attrs) {
	doc.SetAttrs(s.Range, spanAttrs(s, res, baseAttrs, true))
}

// Unhighlight restores the unpressed style of one span, in place.
func Unhighlight(doc *richtext.Text, s span.Span, res Resolver, baseAttrs richtext.Attrs) {
	ApplySpan(doc, s, res, baseAttrs)
}

// ApplySpan projects one span's unpressed style onto the buffer in
// place. The incremental explicit-link append path uses this to style
// new spans without a full rebuild.
func ApplySpan(doc *richtext.Text, s span.Span, res Resolver, baseAttrs richtext.Attrs) {
	doc.SetAttrs(s.Range, spanAttrs(s, res, baseAttrs, false))
}

func spanAttrs(s span.Span, res Resolver, baseAttrs richtext.Attrs, pressed bool) richtext.Attrs {
	attrs := baseAttrs
	attrs.Foreground = res.color(s)
	attrs.Underline = res.underline(s)
	attrs.Faint = false

	// Carry the target as a link attribute so a later detector pass can
	// read it back from the buffer.
	switch s.Kind {
	case span.KindExplicitLink, span.KindURL, span.KindEmail:
		attrs.Link = s.Text
	}

	if pressed {
		if hc := res.highlightColor(s); hc != nil {
			attrs.Foreground = hc
		} else {
			// No highlight color configured: dim the resolved color.
			// Terminals have no alpha, so faint rendering stands in for
			// the half-opacity pressed state.
			attrs.Faint = true
		}
	}
	return attrs
}
