// Package layout maps between screen geometry and text offsets. The
// engine consumes the Service interface; Grid is the bundled
// implementation for monospace cell grids (terminals).
package layout

import "linklabel/internal/span"

// Point is a position in cell coordinates, relative to the widget's
// content origin.
type Point struct {
	X, Y int
}

// Rect is a rectangle in cell coordinates.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p falls inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Service resolves points to character offsets and ranges to bounding
// rectangles within the widget's current content bounds.
type Service interface {
	// OffsetAt returns the rune offset nearest p plus the fractional
	// horizontal distance into that character's cell. Points past the
	// end of the text map to the buffer length.
	OffsetAt(p Point) (offset int, fraction float64)

	// BoundingRect returns the smallest rectangle covering the glyphs
	// of r, and false when the range maps to no visible cells.
	BoundingRect(r span.Range) (Rect, bool)
}
