package document

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"linklabel/internal/detect"
	"linklabel/internal/log"
	"linklabel/internal/richtext"
	"linklabel/internal/span"
	"linklabel/internal/styles"
)

// Cache owns the single current Document. Rebuilds run the detector and
// the style projector synchronously and publish a fresh snapshot;
// explicit-link addition is the one incremental path, appending spans
// and re-projecting onto the existing buffer in place.
type Cache struct {
	detector  *detect.Detector
	resolver  styles.Resolver
	baseAttrs richtext.Attrs
	tracer    trace.Tracer

	links   []*span.ExplicitLink
	current *Document
}

// NewCache creates an empty cache. The detector and resolver stay fixed
// until Reconfigure.
func NewCache(d *detect.Detector, res styles.Resolver, baseAttrs richtext.Attrs) *Cache {
	return &Cache{
		detector:  d,
		resolver:  res,
		baseAttrs: baseAttrs,
		tracer:    otel.Tracer("linklabel/document"),
	}
}

// Current returns the current document, nil before the first rebuild.
func (c *Cache) Current() *Document {
	return c.current
}

// Links returns the explicit links registered with the cache.
func (c *Cache) Links() []*span.ExplicitLink {
	return c.links
}

// Reconfigure swaps the detector and resolver. The caller rebuilds
// afterwards; the cache never does it implicitly.
func (c *Cache) Reconfigure(d *detect.Detector, res styles.Resolver, baseAttrs richtext.Attrs) {
	c.detector = d
	c.resolver = res
	c.baseAttrs = baseAttrs
}

// RebuildPlain builds a fresh document from plain text.
func (c *Cache) RebuildPlain(ctx context.Context, text string) *Document {
	return c.rebuild(ctx, richtext.NewStyled(text, c.baseAttrs))
}

// RebuildRich builds a fresh document from an already-attributed
// buffer. Existing attributes (including link attributes read by the
// detector) are preserved outside the projected span ranges.
func (c *Cache) RebuildRich(ctx context.Context, rich *richtext.Text) *Document {
	return c.rebuild(ctx, rich.Clone())
}

func (c *Cache) rebuild(ctx context.Context, base *richtext.Text) *Document {
	_, sp := c.tracer.Start(ctx, "document.rebuild",
		trace.WithAttributes(attribute.Int("text.runes", base.Len())))
	defer sp.End()

	plain := base.Plain()
	spans := c.detector.Detect(plain, base, c.links)
	styled := styles.Project(base, spans, c.resolver, c.baseAttrs)

	doc := &Document{
		Styled: styled,
		Spans:  spans,
		Meta:   map[string]any{},
	}
	c.current = doc

	sp.SetAttributes(attribute.Int("spans", len(spans)))
	log.Debug(log.CatDoc, "document rebuilt", "runes", doc.Len(), "spans", len(spans))
	return doc
}

// AppendExplicitLinks registers additional explicit links. When a
// document already exists their spans are appended and styles
// re-projected onto the existing buffer in place — automatic-detection
// spans are untouched. Before the first rebuild the links simply wait
// for it.
func (c *Cache) AppendExplicitLinks(ctx context.Context, links []*span.ExplicitLink) *Document {
	c.links = append(c.links, links...)
	if c.current == nil {
		return nil
	}

	_, sp := c.tracer.Start(ctx, "document.append_links",
		trace.WithAttributes(attribute.Int("links", len(links))))
	defer sp.End()

	doc := c.current
	added := c.detector.ExplicitSpans(doc.Plain(), links)
	for _, s := range added {
		styles.ApplySpan(doc.Styled, s, c.resolver, c.baseAttrs)
	}
	doc.Spans = append(doc.Spans, added...)

	sp.SetAttributes(attribute.Int("spans.added", len(added)))
	log.Debug(log.CatDoc, "explicit links appended", "links", len(links), "spans", len(added))
	return doc
}
