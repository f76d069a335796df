// Package hittest resolves a geometric point back to the span rendered
// at that point, via the layout collaborator.
package hittest

import (
	"linklabel/internal/document"
	"linklabel/internal/layout"
	"linklabel/internal/log"
	"linklabel/internal/span"
)

// Resolver maps points to spans. Stateless apart from the layout
// service, so a resolver can outlive any number of document rebuilds.
type Resolver struct {
	layout layout.Service
}

// New creates a resolver over the given layout service.
func New(l layout.Service) *Resolver {
	return &Resolver{layout: l}
}

// SetLayout swaps the layout service, e.g. after a width change.
func (r *Resolver) SetLayout(l layout.Service) {
	r.layout = l
}

// SpanAt resolves the span under p in the current document. Candidate
// spans are scanned in detection/append order and the first whose range
// contains the resolved offset and whose bounding rectangle contains p
// wins. Out-of-bounds offsets resolve to no span.
func (r *Resolver) SpanAt(doc *document.Document, p layout.Point) (span.Span, bool) {
	if doc == nil || r.layout == nil {
		return span.Span{}, false
	}

	offset, _ := r.layout.OffsetAt(p)
	if offset < 0 || offset >= doc.Len() {
		return span.Span{}, false
	}

	for _, s := range doc.Spans {
		if !s.Range.Contains(offset) {
			continue
		}
		rect, ok := r.layout.BoundingRect(s.Range)
		if !ok {
			continue
		}
		if rect.Contains(p) {
			log.Debug(log.CatHit, "span hit", "kind", s.Kind, "offset", offset)
			return s, true
		}
	}
	return span.Span{}, false
}
