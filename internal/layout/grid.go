package layout

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"linklabel/internal/span"
)

// Grid lays plain text onto a monospace cell grid, hard-wrapping at a
// fixed width. Cells are grapheme clusters: a wide rune occupies two
// columns, combining marks stay glued to their base character.
type Grid struct {
	width   int
	textLen int // rune count of the source text
	lines   []gridLine
}

type gridLine struct {
	start, end int // rune offsets of the line's content, half-open
	cells      []gridCell
}

type gridCell struct {
	offset int // rune offset of the cluster start
	runes  int // runes in the cluster
	x, w   int // column position and width
}

var _ Service = (*Grid)(nil)

// NewGrid builds the grid for text at the given wrap width. A width of
// zero or less disables wrapping; lines then break only at newlines.
func NewGrid(text string, width int) *Grid {
	g := &Grid{width: width}

	line := gridLine{}
	x := 0
	offset := 0
	flush := func(nextStart int) {
		line.end = offset
		g.lines = append(g.lines, line)
		line = gridLine{start: nextStart}
		x = 0
	}

	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Str()
		n := len(gr.Runes())

		if cluster == "\n" || cluster == "\r\n" {
			flush(offset + n)
			offset += n
			continue
		}

		w := runewidth.StringWidth(cluster)
		if g.width > 0 && x+w > g.width && x > 0 {
			flush(offset)
		}
		if w > 0 {
			line.cells = append(line.cells, gridCell{offset: offset, runes: n, x: x, w: w})
			x += w
		}
		offset += n
	}
	line.end = offset
	g.lines = append(g.lines, line)
	g.textLen = offset
	return g
}

// Width returns the wrap width the grid was built with.
func (g *Grid) Width() int {
	return g.width
}

// Lines returns the number of visual lines.
func (g *Grid) Lines() int {
	return len(g.lines)
}

// LineRange returns the half-open rune range [start, end) covered by
// visual line i. Line-break runes that produced the wrap are excluded.
func (g *Grid) LineRange(i int) (int, int) {
	if i < 0 || i >= len(g.lines) {
		return g.textLen, g.textLen
	}
	return g.lines[i].start, g.lines[i].end
}

// OffsetAt maps a point to the nearest rune offset. Points below the
// last line (or on an empty grid) map to the text length, which callers
// treat as "no character here".
func (g *Grid) OffsetAt(p Point) (int, float64) {
	if len(g.lines) == 0 || p.Y < 0 || p.X < 0 {
		return g.textLen, 0
	}
	if p.Y >= len(g.lines) {
		return g.textLen, 0
	}

	line := g.lines[p.Y]
	if len(line.cells) == 0 {
		return line.start, 0
	}
	if p.X < line.cells[0].x {
		return line.cells[0].offset, 0
	}
	for _, c := range line.cells {
		if p.X < c.x+c.w {
			fraction := (float64(p.X-c.x) + 0.5) / float64(c.w)
			return c.offset, fraction
		}
	}
	// Past the last cell: nearest offset is the end of the line.
	return line.end, 0
}

// BoundingRect returns the union rectangle of the cells covered by r.
func (g *Grid) BoundingRect(r span.Range) (Rect, bool) {
	if !r.Within(g.textLen) || r.Length == 0 {
		return Rect{}, false
	}

	minX, minY := -1, -1
	maxX, maxY := 0, 0
	for y, line := range g.lines {
		for _, c := range line.cells {
			if c.offset >= r.End() || c.offset+c.runes <= r.Offset {
				continue
			}
			if minY < 0 {
				minY = y
			}
			maxY = y
			if minX < 0 || c.x < minX {
				minX = c.x
			}
			if c.x+c.w > maxX {
				maxX = c.x + c.w
			}
		}
	}
	if minY < 0 {
		return Rect{}, false
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY + 1}, true
}
