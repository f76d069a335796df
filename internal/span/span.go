// Package span defines the data model for link-like regions of text:
// detection kinds, text ranges, detected spans, and caller-declared
// explicit links.
package span

// Kind categorizes a detected span.
type Kind string

const (
	KindExplicitLink Kind = "explicit_link"
	KindUserHandle   Kind = "user_handle"
	KindHashtag      Kind = "hashtag"
	KindURL          Kind = "url"
	KindEmail        Kind = "email"
	KindPhoneNumber  Kind = "phone_number"
)

// AllKinds returns every detection kind in canonical order.
// Pattern kinds come first, data-detector kinds second, explicit links last;
// detectors emit spans in this order so styling conflicts resolve the same
// way on every rebuild.
func AllKinds() []Kind {
	return []Kind{
		KindUserHandle,
		KindHashtag,
		KindEmail,
		KindURL,
		KindPhoneNumber,
		KindExplicitLink,
	}
}

// Valid reports whether k is a known detection kind.
func (k Kind) Valid() bool {
	switch k {
	case KindExplicitLink, KindUserHandle, KindHashtag, KindURL, KindEmail, KindPhoneNumber:
		return true
	}
	return false
}

// Automatic reports whether the kind is produced by automatic detection.
// Explicit links are scanned regardless of the automatic-detection flag.
func (k Kind) Automatic() bool {
	return k != KindExplicitLink
}

// Range is a half-open region of text in rune offsets.
type Range struct {
	Offset int
	Length int
}

// End returns the rune offset one past the last rune of the range.
func (r Range) End() int {
	return r.Offset + r.Length
}

// Contains reports whether the rune at off falls inside the range.
func (r Range) Contains(off int) bool {
	return off >= r.Offset && off < r.End()
}

// Within reports whether the whole range fits a buffer of n runes.
func (r Range) Within(n int) bool {
	return r.Offset >= 0 && r.Length >= 0 && r.End() <= n
}

// Intersects reports whether two ranges share at least one rune.
func (r Range) Intersects(o Range) bool {
	return r.Offset < o.End() && o.Offset < r.End()
}

// Clamp restricts the range to a buffer of n runes.
func (r Range) Clamp(n int) Range {
	if r.Offset < 0 {
		r.Length += r.Offset
		r.Offset = 0
	}
	if r.Offset > n {
		return Range{Offset: n}
	}
	if r.End() > n {
		r.Length = n - r.Offset
	}
	if r.Length < 0 {
		r.Length = 0
	}
	return r
}

// Span is a detected or explicit link-like region. Immutable once created;
// the range is always within the bounds of the buffer it was detected in.
type Span struct {
	Kind  Kind
	Range Range

	// Text is the matched text, marker characters included. For
	// data-detector kinds it may instead carry a link target already
	// attached to the rich buffer at the match position.
	Text string

	// Link references the originating ExplicitLink for
	// KindExplicitLink spans, nil otherwise.
	Link *ExplicitLink
}

// Action returns the tap callback for the span, or nil when the span kind
// carries none.
func (s Span) Action() func() {
	if s.Link == nil {
		return nil
	}
	return s.Link.Action
}

// SameRegion reports whether two spans cover the identical range.
// The interaction layer uses this to decide whether a pointer moved
// from one span to another.
func (s Span) SameRegion(o Span) bool {
	return s.Range == o.Range
}
