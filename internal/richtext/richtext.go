// Package richtext implements the rich-text attribute store the
// annotation engine projects styles onto: a rune buffer plus contiguous
// attribute runs. Styling never alters the underlying characters, so the
// plain-text projection of a buffer always equals the text it was built
// from.
package richtext

import (
	"github.com/charmbracelet/lipgloss"

	"linklabel/internal/span"
)

// Attrs is the attribute set carried by a run. The zero value renders
// as unstyled text.
type Attrs struct {
	Foreground lipgloss.TerminalColor
	Background lipgloss.TerminalColor
	Bold       bool
	Faint      bool
	Italic     bool
	Underline  bool

	// Link is a named "link" attribute: the target associated with the
	// run, readable by the detector so an already-styled link overrides
	// detected text.
	Link string
}

// Text is an attributed rune buffer. Runs are contiguous, cover the
// whole buffer, and adjacent runs never carry equal attributes.
type Text struct {
	runes []rune
	runs  []run
}

type run struct {
	start, end int // rune offsets, half-open
	attrs      Attrs
}

// New builds an attributed buffer over plain text with zero attributes.
func New(plain string) *Text {
	return NewStyled(plain, Attrs{})
}

// NewStyled builds an attributed buffer with base applied to the whole text.
func NewStyled(plain string, base Attrs) *Text {
	runes := []rune(plain)
	t := &Text{runes: runes}
	if len(runes) > 0 {
		t.runs = []run{{start: 0, end: len(runes), attrs: base}}
	}
	return t
}

// Plain returns the unstyled text.
func (t *Text) Plain() string {
	return string(t.runes)
}

// Len returns the buffer length in runes.
func (t *Text) Len() int {
	return len(t.runes)
}

// AttrsAt returns the attributes at a rune offset. Out-of-bounds offsets
// yield the zero attribute set.
func (t *Text) AttrsAt(off int) Attrs {
	for _, r := range t.runs {
		if off >= r.start && off < r.end {
			return r.attrs
		}
	}
	return Attrs{}
}

// LinkAt reads the link attribute at a rune offset.
func (t *Text) LinkAt(off int) (string, bool) {
	a := t.AttrsAt(off)
	if a.Link == "" {
		return "", false
	}
	return a.Link, true
}

// SetAttrs replaces the attributes across r with a fresh set, splitting
// existing runs at the boundaries. The range is clamped to the buffer.
func (t *Text) SetAttrs(r span.Range, a Attrs) {
	r = r.Clamp(len(t.runes))
	if r.Length == 0 {
		return
	}
	lo, hi := r.Offset, r.End()

	out := make([]run, 0, len(t.runs)+2)
	for _, existing := range t.runs {
		// Portion before the edit survives unchanged.
		if existing.start < lo {
			end := min(existing.end, lo)
			out = append(out, run{start: existing.start, end: end, attrs: existing.attrs})
		}
		// Portion after the edit survives unchanged.
		if existing.end > hi {
			start := max(existing.start, hi)
			out = append(out, run{start: start, end: existing.end, attrs: existing.attrs})
		}
	}
	out = append(out, run{start: lo, end: hi, attrs: a})
	t.runs = normalize(out)
}

// Clone returns an independent copy of the buffer and its runs.
func (t *Text) Clone() *Text {
	c := &Text{
		runes: append([]rune(nil), t.runes...),
		runs:  append([]run(nil), t.runs...),
	}
	return c
}

// Runs returns the (start, end, attrs) tuples of the buffer in order.
// Exposed for rendering and tests.
func (t *Text) Runs() []RunInfo {
	out := make([]RunInfo, len(t.runs))
	for i, r := range t.runs {
		out[i] = RunInfo{Start: r.start, End: r.end, Attrs: r.attrs}
	}
	return out
}

// RunInfo is a read-only view of an attribute run.
type RunInfo struct {
	Start, End int
	Attrs      Attrs
}

// normalize sorts runs, drops empties, and merges adjacent runs with
// equal attributes.
func normalize(runs []run) []run {
	filtered := runs[:0]
	for _, r := range runs {
		if r.end > r.start {
			filtered = append(filtered, r)
		}
	}
	runs = filtered

	// Insertion sort; run counts are small.
	for i := 1; i < len(runs); i++ {
		for j := i; j > 0 && runs[j].start < runs[j-1].start; j-- {
			runs[j], runs[j-1] = runs[j-1], runs[j]
		}
	}

	out := runs[:0]
	for _, r := range runs {
		if n := len(out); n > 0 && out[n-1].end == r.start && out[n-1].attrs == r.attrs {
			out[n-1].end = r.end
			continue
		}
		out = append(out, r)
	}
	return out
}
