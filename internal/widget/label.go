// Package widget assembles the annotation engine into a Label: a styled
// text surface that detects spans, maps pointer events onto them, and
// publishes touch results for the embedding program to act on.
package widget

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"linklabel/internal/classify"
	"linklabel/internal/detect"
	"linklabel/internal/document"
	"linklabel/internal/hittest"
	"linklabel/internal/interaction"
	"linklabel/internal/layout"
	"linklabel/internal/log"
	"linklabel/internal/pubsub"
	"linklabel/internal/richtext"
	"linklabel/internal/span"
	"linklabel/internal/styles"
)

// Config controls detection, styling and layout for a Label. Zero-value
// fields fall back to sensible defaults: all kinds enabled, automatic
// detection on, the default palette, no wrapping.
type Config struct {
	// EnabledKinds restricts which span kinds are detected. Nil means
	// every kind.
	EnabledKinds []span.Kind

	// Automatic gates pattern- and data-detected spans. Explicit links
	// are matched regardless.
	Automatic bool

	// Patterns overrides the built-in regex for pattern-detected kinds.
	Patterns map[span.Kind]string

	// Classifier detects data kinds (URLs, phone numbers). Nil gets a
	// memoized regex classifier.
	Classifier classify.Classifier

	// Resolver maps spans to colors and underline. A zero Resolver gets
	// DefaultResolver over the default palette.
	Resolver styles.Resolver

	// BaseAttrs style the non-span text.
	BaseAttrs richtext.Attrs

	// Width is the hard-wrap width in cells. Zero or less disables
	// wrapping.
	Width int

	// Renderer carries the terminal color profile for View. Nil uses
	// the lipgloss default renderer.
	Renderer *lipgloss.Renderer
}

func (c Config) withDefaults() Config {
	if c.Classifier == nil {
		c.Classifier = classify.NewCachedClassifier(classify.NewRegexClassifier())
	}
	if c.Resolver.ColorFor == nil {
		c.Resolver = styles.DefaultResolver(styles.DefaultPalette())
	}
	return c
}

// Label is the engine's embeddable surface. It owns the document cache,
// the cell-grid layout, the hit-test resolver and the interaction
// machine, and keeps them consistent as text and configuration change.
//
// A Label is not safe for concurrent use; drive it from a single
// goroutine, typically a tea.Model's Update.
type Label struct {
	cfg      Config
	cache    *document.Cache
	grid     *layout.Grid
	hit      *hittest.Resolver
	machine  *interaction.Machine
	broker   *pubsub.Broker[interaction.TouchResult]
	renderer *lipgloss.Renderer

	srcRich   *richtext.Text
	srcPlain  string
	srcIsSet  bool
	srcIsRich bool
}

// New builds a Label with the given configuration and no text.
func New(cfg Config) *Label {
	cfg = cfg.withDefaults()

	l := &Label{
		cfg:      cfg,
		renderer: cfg.Renderer,
		grid:     layout.NewGrid("", cfg.Width),
		broker:   pubsub.NewBroker[interaction.TouchResult](),
	}
	l.cache = document.NewCache(detectorFor(cfg), cfg.Resolver, cfg.BaseAttrs)
	l.hit = hittest.New(l.grid)
	l.machine = interaction.NewMachine(interaction.Callbacks{
		Resolve:     l.resolve,
		Highlight:   l.highlight,
		Unhighlight: l.unhighlight,
	})
	return l
}

func detectorFor(cfg Config) *detect.Detector {
	return detect.New(detect.Config{
		EnabledKinds: cfg.EnabledKinds,
		Automatic:    cfg.Automatic,
		Patterns:     cfg.Patterns,
		Classifier:   cfg.Classifier,
	})
}

// Configure replaces the configuration and rebuilds the document from
// the last text set on the label.
func (l *Label) Configure(ctx context.Context, cfg Config) {
	cfg = cfg.withDefaults()
	l.cfg = cfg
	l.renderer = cfg.Renderer
	l.cache.Reconfigure(detectorFor(cfg), cfg.Resolver, cfg.BaseAttrs)
	l.rebuild(ctx)
}

// SetPlainText replaces the label's text with an unstyled string and
// rebuilds detection, styling and layout.
func (l *Label) SetPlainText(ctx context.Context, text string) {
	l.srcPlain, l.srcRich = text, nil
	l.srcIsSet, l.srcIsRich = true, false
	l.rebuild(ctx)
}

// SetRichText replaces the label's text with a pre-styled buffer. Spans
// are restyled on top of it; runs carrying a link attribute reclassify
// the covered text as a URL span.
func (l *Label) SetRichText(ctx context.Context, rich *richtext.Text) {
	l.srcRich, l.srcPlain = rich, ""
	l.srcIsSet, l.srcIsRich = true, true
	l.rebuild(ctx)
}

// AddExplicitLinks registers links and styles their occurrences onto
// the current document without re-running automatic detection. The
// layout is untouched since the text does not change.
func (l *Label) AddExplicitLinks(ctx context.Context, links ...*span.ExplicitLink) {
	l.cache.AppendExplicitLinks(ctx, links)
}

// HandlePointerEvent feeds one pointer event through the interaction
// machine. When a gesture phase yields a touch result it is returned
// and also published to subscribers of Events.
func (l *Label) HandlePointerEvent(ev interaction.PointerEvent) (interaction.TouchResult, bool) {
	res, ok := l.machine.Handle(ev)
	if ok {
		l.broker.Publish(pubsub.TouchEvent, res)
	}
	return res, ok
}

// Document returns the current immutable snapshot, or nil before any
// text has been set.
func (l *Label) Document() *document.Document {
	return l.cache.Current()
}

// Events exposes the broker touch results are published on.
func (l *Label) Events() *pubsub.Broker[interaction.TouchResult] {
	return l.broker
}

// SetWidth changes the wrap width and relays the text out. Detection is
// untouched: offsets are layout-independent.
func (l *Label) SetWidth(w int) {
	if w == l.cfg.Width {
		return
	}
	l.cfg.Width = w
	l.refreshGrid()
}

// Width returns the current wrap width.
func (l *Label) Width() int {
	return l.cfg.Width
}

// View renders the styled, wrapped text. Each visual line of the grid
// is rendered separately so wrap points introduced by the width show up
// as real newlines in the output.
func (l *Label) View() string {
	doc := l.cache.Current()
	if doc == nil || doc.Styled == nil {
		return ""
	}

	lines := make([]string, l.grid.Lines())
	for i := range lines {
		start, end := l.grid.LineRange(i)
		lines[i] = richtext.RenderSlice(doc.Styled, l.renderer, start, end)
	}
	return strings.Join(lines, "\n")
}

func (l *Label) rebuild(ctx context.Context) {
	if !l.srcIsSet {
		return
	}
	// A rebuild mid-gesture invalidates whatever span was pressed; the
	// machine drops the gesture without emitting a result.
	l.machine.Reset()

	if l.srcIsRich {
		l.cache.RebuildRich(ctx, l.srcRich)
	} else {
		l.cache.RebuildPlain(ctx, l.srcPlain)
	}
	l.refreshGrid()
	log.Debug(log.CatWidget, "label rebuilt", "runes", l.cache.Current().Len(), "spans", len(l.cache.Current().Spans))
}

func (l *Label) refreshGrid() {
	plain := ""
	if doc := l.cache.Current(); doc != nil {
		plain = doc.Plain()
	}
	l.grid = layout.NewGrid(plain, l.cfg.Width)
	l.hit.SetLayout(l.grid)
}

func (l *Label) resolve(p layout.Point) (span.Span, bool) {
	return l.hit.SpanAt(l.cache.Current(), p)
}

func (l *Label) highlight(s span.Span) {
	if doc := l.cache.Current(); doc != nil {
		styles.Highlight(doc.Styled, s, l.cfg.Resolver, l.cfg.BaseAttrs)
	}
}

func (l *Label) unhighlight(s span.Span) {
	if doc := l.cache.Current(); doc != nil {
		styles.Unhighlight(doc.Styled, s, l.cfg.Resolver, l.cfg.BaseAttrs)
	}
}
