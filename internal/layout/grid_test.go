package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linklabel/internal/span"
)

func TestGrid_SingleLineOffsets(t *testing.T) {
	g := NewGrid("hello #world", 0)

	require.Equal(t, 1, g.Lines())

	off, _ := g.OffsetAt(Point{X: 0, Y: 0})
	assert.Equal(t, 0, off)

	off, _ = g.OffsetAt(Point{X: 6, Y: 0})
	assert.Equal(t, 6, off)

	off, frac := g.OffsetAt(Point{X: 11, Y: 0})
	assert.Equal(t, 11, off)
	assert.InDelta(t, 0.5, frac, 0.01)
}

func TestGrid_PastEndOfLine(t *testing.T) {
	g := NewGrid("hi", 0)

	off, _ := g.OffsetAt(Point{X: 40, Y: 0})
	assert.Equal(t, 2, off, "past the last cell maps to line end")
}

func TestGrid_BelowLastLine(t *testing.T) {
	g := NewGrid("hi", 0)

	off, _ := g.OffsetAt(Point{X: 0, Y: 5})
	assert.Equal(t, 2, off, "below the text maps to buffer length")

	off, _ = g.OffsetAt(Point{X: -1, Y: 0})
	assert.Equal(t, 2, off, "negative coordinates map to buffer length")
}

func TestGrid_Newlines(t *testing.T) {
	g := NewGrid("ab\ncd", 0)

	require.Equal(t, 2, g.Lines())

	off, _ := g.OffsetAt(Point{X: 0, Y: 1})
	assert.Equal(t, 3, off, "second line starts after the newline rune")

	off, _ = g.OffsetAt(Point{X: 1, Y: 1})
	assert.Equal(t, 4, off)
}

func TestGrid_Wrapping(t *testing.T) {
	g := NewGrid("aaaa bbbb", 4)

	// Hard wrap at width 4: "aaaa", " bbb", "b".
	require.Equal(t, 3, g.Lines())

	off, _ := g.OffsetAt(Point{X: 0, Y: 1})
	assert.Equal(t, 4, off)

	off, _ = g.OffsetAt(Point{X: 0, Y: 2})
	assert.Equal(t, 8, off)
}

func TestGrid_WideRunes(t *testing.T) {
	g := NewGrid("日本語", 0)

	// Each ideograph is one rune occupying two columns.
	off, _ := g.OffsetAt(Point{X: 0, Y: 0})
	assert.Equal(t, 0, off)
	off, _ = g.OffsetAt(Point{X: 1, Y: 0})
	assert.Equal(t, 0, off, "second column of a wide rune is the same offset")
	off, _ = g.OffsetAt(Point{X: 2, Y: 0})
	assert.Equal(t, 1, off)

	rect, ok := g.BoundingRect(span.Range{Offset: 1, Length: 1})
	require.True(t, ok)
	assert.Equal(t, Rect{X: 2, Y: 0, W: 2, H: 1}, rect)
}

func TestGrid_BoundingRectSingleLine(t *testing.T) {
	g := NewGrid("hello #world and @bob", 0)

	rect, ok := g.BoundingRect(span.Range{Offset: 6, Length: 6})
	require.True(t, ok)
	assert.Equal(t, Rect{X: 6, Y: 0, W: 6, H: 1}, rect)
}

func TestGrid_BoundingRectAcrossWrap(t *testing.T) {
	g := NewGrid("aaaa bbbb", 4)

	// Range covering "a bb" spans the wrap boundary.
	rect, ok := g.BoundingRect(span.Range{Offset: 3, Length: 4})
	require.True(t, ok)
	assert.Equal(t, 0, rect.Y)
	assert.Equal(t, 2, rect.H, "rect unions both visual lines")
}

func TestGrid_BoundingRectOutOfBounds(t *testing.T) {
	g := NewGrid("short", 0)

	_, ok := g.BoundingRect(span.Range{Offset: 3, Length: 10})
	assert.False(t, ok)

	_, ok = g.BoundingRect(span.Range{Offset: 2, Length: 0})
	assert.False(t, ok)
}

func TestGrid_BoundingRectNewlineOnly(t *testing.T) {
	g := NewGrid("a\nb", 0)

	_, ok := g.BoundingRect(span.Range{Offset: 1, Length: 1})
	assert.False(t, ok, "a newline maps to no visible cells")
}

func TestGrid_RectContains(t *testing.T) {
	r := Rect{X: 2, Y: 1, W: 3, H: 1}

	assert.True(t, r.Contains(Point{X: 2, Y: 1}))
	assert.True(t, r.Contains(Point{X: 4, Y: 1}))
	assert.False(t, r.Contains(Point{X: 5, Y: 1}))
	assert.False(t, r.Contains(Point{X: 2, Y: 0}))
}

func TestGrid_Empty(t *testing.T) {
	g := NewGrid("", 10)

	off, _ := g.OffsetAt(Point{X: 0, Y: 0})
	assert.Equal(t, 0, off)

	_, ok := g.BoundingRect(span.Range{Offset: 0, Length: 1})
	assert.False(t, ok)
}
