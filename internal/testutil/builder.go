// Package testutil provides helpers for building attributed text
// fixtures and comparing rendered output in tests.
package testutil

import (
	"strings"

	"linklabel/internal/richtext"
	"linklabel/internal/span"
)

// segment is one fluent piece of a text fixture.
type segment struct {
	text  string
	attrs richtext.Attrs
	plain bool
}

// TextBuilder accumulates styled segments and produces a rich text
// buffer. Offsets are tracked in runes, so fixtures with emoji or wide
// characters come out right without hand-counting.
type TextBuilder struct {
	segments []segment
}

// Text starts a new fixture.
func Text() *TextBuilder {
	return &TextBuilder{}
}

// Plain appends unstyled text.
func (b *TextBuilder) Plain(s string) *TextBuilder {
	b.segments = append(b.segments, segment{text: s, plain: true})
	return b
}

// Styled appends text carrying the given attributes.
func (b *TextBuilder) Styled(s string, attrs richtext.Attrs) *TextBuilder {
	b.segments = append(b.segments, segment{text: s, attrs: attrs})
	return b
}

// Linked appends text whose attributes carry a link target, the shape a
// host produces when it hands the label pre-linked rich text.
func (b *TextBuilder) Linked(s, target string) *TextBuilder {
	return b.Styled(s, richtext.Attrs{Link: target, Underline: true})
}

// Build assembles the buffer.
func (b *TextBuilder) Build() *richtext.Text {
	var sb strings.Builder
	for _, seg := range b.segments {
		sb.WriteString(seg.text)
	}
	t := richtext.New(sb.String())

	offset := 0
	for _, seg := range b.segments {
		n := len([]rune(seg.text))
		if !seg.plain {
			t.SetAttrs(span.Range{Offset: offset, Length: n}, seg.attrs)
		}
		offset += n
	}
	return t
}

// RangeOf returns the rune range of the first occurrence of needle in
// haystack, for asserting span positions without counting by hand.
func RangeOf(haystack, needle string) span.Range {
	byteOff := strings.Index(haystack, needle)
	if byteOff < 0 {
		return span.Range{}
	}
	return span.Range{
		Offset: len([]rune(haystack[:byteOff])),
		Length: len([]rune(needle)),
	}
}
