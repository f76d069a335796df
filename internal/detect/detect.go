// Package detect implements the span detector: multi-pass pattern
// matching over a plain-text buffer producing link-like spans. Every
// failure mode degrades to "fewer spans" — a broken pattern or an
// unavailable classifier must never break the text display.
package detect

import (
	"regexp"
	"unicode/utf8"

	"linklabel/internal/classify"
	"linklabel/internal/log"
	"linklabel/internal/richtext"
	"linklabel/internal/span"
)

// DefaultPatterns returns the stock regular expressions for the
// pattern-based kinds. The marker must follow start-of-text or
// whitespace, and the token must contain at least one letter, so a bare
// "@" or "#" never matches. Group 1 is the reported span.
func DefaultPatterns() map[span.Kind]string {
	return map[span.Kind]string{
		span.KindUserHandle: `(?i)(?:^|\s)(@[\w&-]*[a-z][\w&-]*)`,
		span.KindHashtag:    `(?i)(?:^|\s)(#[\w&-]*[a-z][\w&-]*)`,
		span.KindEmail:      `(?i)[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`,
	}
}

// Config configures a Detector.
type Config struct {
	// EnabledKinds gates automatic detection per kind. Nil or empty
	// enables every kind. Explicit links are always scanned.
	EnabledKinds []span.Kind

	// Automatic enables the automatic detectors (pattern and
	// data-detector kinds) as a whole.
	Automatic bool

	// Patterns overrides the default pattern-kind expressions. A
	// pattern that fails to compile silences that kind only.
	Patterns map[span.Kind]string

	// Classifier supplies url and phone-number matches. Nil disables
	// the data-detector kinds.
	Classifier classify.Classifier
}

// Detector runs the configured pattern searches over a text buffer.
type Detector struct {
	enabled    map[span.Kind]bool
	automatic  bool
	patterns   map[span.Kind]*regexp.Regexp
	classifier classify.Classifier
}

// New compiles the detector's patterns. Malformed overrides are logged
// and their kind contributes no spans.
func New(cfg Config) *Detector {
	kinds := cfg.EnabledKinds
	if len(kinds) == 0 {
		kinds = span.AllKinds()
	}
	d := &Detector{
		enabled:    make(map[span.Kind]bool, len(kinds)),
		automatic:  cfg.Automatic,
		patterns:   make(map[span.Kind]*regexp.Regexp),
		classifier: cfg.Classifier,
	}
	for _, k := range kinds {
		d.enabled[k] = true
	}

	sources := DefaultPatterns()
	for k, expr := range cfg.Patterns {
		sources[k] = expr
	}
	for k, expr := range sources {
		re, err := regexp.Compile(expr)
		if err != nil {
			log.Warn(log.CatDetect, "pattern failed to compile, kind disabled",
				"kind", k, "error", err)
			continue
		}
		d.patterns[k] = re
	}
	return d
}

// Detect scans the plain-text view of a buffer and returns every span
// found. Spans come out in a deterministic order: pattern kinds, then
// data-detector kinds, then explicit links. rich may be nil; when
// present, an existing link attribute at a data-detector match wins
// over the raw matched substring.
func (d *Detector) Detect(plain string, rich *richtext.Text, links []*span.ExplicitLink) []span.Span {
	var spans []span.Span

	if d.automatic {
		spans = append(spans, d.patternSpans(plain)...)
		spans = append(spans, d.dataSpans(plain, rich)...)
	}
	spans = append(spans, d.ExplicitSpans(plain, links)...)

	log.Debug(log.CatDetect, "scan complete",
		"text_len", utf8.RuneCountInString(plain), "spans", len(spans))
	return spans
}

func (d *Detector) patternSpans(plain string) []span.Span {
	var out []span.Span
	for _, k := range []span.Kind{span.KindUserHandle, span.KindHashtag, span.KindEmail} {
		if !d.enabled[k] {
			continue
		}
		re := d.patterns[k]
		if re == nil {
			continue
		}
		for _, loc := range re.FindAllStringSubmatchIndex(plain, -1) {
			start, end := loc[0], loc[1]
			// Prefer group 1: the handle/hashtag patterns anchor on
			// leading whitespace that is not part of the span.
			if len(loc) >= 4 && loc[2] >= 0 {
				start, end = loc[2], loc[3]
			}
			text := plain[start:end]
			if utf8.RuneCountInString(text) <= 1 {
				continue
			}
			out = append(out, span.Span{
				Kind:  k,
				Range: byteToRuneRange(plain, start, end),
				Text:  text,
			})
		}
	}
	return out
}

func (d *Detector) dataSpans(plain string, rich *richtext.Text) []span.Span {
	if d.classifier == nil {
		return nil
	}
	var kinds []span.Kind
	for _, k := range []span.Kind{span.KindURL, span.KindPhoneNumber} {
		if d.enabled[k] {
			kinds = append(kinds, k)
		}
	}
	if len(kinds) == 0 {
		return nil
	}

	matches, err := d.classifier.Classify(plain, kinds)
	if err != nil {
		log.Warn(log.CatDetect, "classifier unavailable, data kinds skipped", "error", err)
		return nil
	}

	runes := []rune(plain)
	out := make([]span.Span, 0, len(matches))
	for _, m := range matches {
		if !m.Range.Within(len(runes)) {
			continue
		}
		text := string(runes[m.Range.Offset:m.Range.End()])
		// A link already styled onto the rich buffer overrides the raw
		// matched substring.
		if rich != nil {
			if target, ok := rich.LinkAt(m.Range.Offset); ok {
				text = target
			}
		}
		out = append(out, span.Span{Kind: m.Kind, Range: m.Range, Text: text})
	}
	return out
}

// byteToRuneRange converts regexp byte offsets into the rune coordinate
// space shared by all engine layers.
func byteToRuneRange(text string, startByte, endByte int) span.Range {
	start := utf8.RuneCountInString(text[:startByte])
	length := utf8.RuneCountInString(text[startByte:endByte])
	return span.Range{Offset: start, Length: length}
}
