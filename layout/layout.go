// Package layout breaks logical lines into visually-wrapped fragments and
// answers fragment-level geometry queries. Widths are terminal cells
// (go-runewidth); wrap units are grapheme clusters (uniseg), so a
// multi-scalar glyph never splits across rows.
package layout

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"textnav/buffer"
	"textnav/lineindex"
)

// Point is a position in cells, relative to whatever origin the caller uses.
type Point struct {
	X int
	Y int
}

// Fragment is one wrapped row of a line. Location and Length are line-local
// rune offsets; the last fragment of a line absorbs the delimiter so the
// fragments together cover [0, TotalLength).
type Fragment struct {
	Index    int
	Location int
	Length   int
}

func (f Fragment) End() int {
	return f.Location + f.Length
}

// Cell is one grapheme cluster of a line's content with its column geometry.
// Offset and Runes are line-local rune coordinates; Column and Width are in
// terminal cells.
type Cell struct {
	Offset int
	Runes  int
	Column int
	Width  int
}

// LineFragments is the wrapped form of a single line.
type LineFragments struct {
	Line      lineindex.Line
	fragments []Fragment
	cells     []Cell
}

// Layout is the fragment provider for a buffer: it wraps lines at Width
// cells and caches the result per row until invalidated.
type Layout struct {
	buf     *buffer.Buffer
	Width   int
	TabSize int

	cache map[int]*LineFragments
}

func New(buf *buffer.Buffer, width, tabSize int) *Layout {
	if tabSize <= 0 {
		tabSize = 4
	}
	return &Layout{
		buf:     buf,
		Width:   width,
		TabSize: tabSize,
		cache:   make(map[int]*LineFragments),
	}
}

// Invalidate drops all cached fragments; call after any edit or resize.
func (l *Layout) Invalidate() {
	l.cache = make(map[int]*LineFragments)
}

// HeightOf is the number of wrapped rows the line occupies.
func (l *Layout) HeightOf(line lineindex.Line) int {
	return l.FragmentsFor(line).Count()
}

// FragmentsFor wraps the line, reusing the cache when possible.
func (l *Layout) FragmentsFor(line lineindex.Line) *LineFragments {
	if cached, ok := l.cache[line.Row]; ok && cached.Line == line {
		return cached
	}
	lf := l.wrap(line)
	l.cache[line.Row] = lf
	return lf
}

func (l *Layout) wrap(line lineindex.Line) *LineFragments {
	content, _ := l.buf.Substring(buffer.Range{Location: line.Location, Length: line.ContentLength()})
	cells := splitCells(content, l.TabSize)

	lf := &LineFragments{Line: line, cells: cells}

	width := l.Width
	if width <= 0 {
		width = int(^uint(0) >> 1) // no wrapping
	}

	start := 0
	for start < len(cells) {
		end := start
		used := 0
		for end < len(cells) {
			w := cells[end].Width
			if w < 1 {
				w = 1
			}
			if end > start && used+w > width {
				break
			}
			used += w
			end++
		}
		if end < len(cells) {
			// Prefer breaking after the last whitespace run in the window.
			if br := lastBreakAfterSpace(content, cells, start, end); br > start {
				end = br
			}
		}
		lf.fragments = append(lf.fragments, Fragment{
			Index:    len(lf.fragments),
			Location: cells[start].Offset,
			Length:   cells[end-1].Offset + cells[end-1].Runes - cells[start].Offset,
		})
		start = end
	}

	if len(lf.fragments) == 0 {
		lf.fragments = append(lf.fragments, Fragment{})
	}
	// The delimiter belongs to the last fragment.
	lf.fragments[len(lf.fragments)-1].Length += line.DelimiterLength
	return lf
}

// splitCells segments content into grapheme clusters with column geometry.
func splitCells(content string, tabSize int) []Cell {
	var cells []Cell
	offset := 0
	column := 0
	state := -1
	rest := content
	for len(rest) > 0 {
		cluster, tail, _, nextState := uniseg.StepString(rest, state)
		w := runewidth.StringWidth(cluster)
		if cluster == "\t" {
			w = tabSize - column%tabSize
		}
		cells = append(cells, Cell{
			Offset: offset,
			Runes:  len([]rune(cluster)),
			Column: column,
			Width:  w,
		})
		offset += len([]rune(cluster))
		column += w
		rest = tail
		state = nextState
	}
	return cells
}

// lastBreakAfterSpace finds the cell index just past the last whitespace run
// in (start, end), or start when the window has no break opportunity.
func lastBreakAfterSpace(content string, cells []Cell, start, end int) int {
	runes := []rune(content)
	br := start
	for i := start; i < end; i++ {
		r := runes[cells[i].Offset]
		if (r == ' ' || r == '\t') && i+1 < end {
			br = i + 1
		}
	}
	return br
}

func (lf *LineFragments) Count() int {
	return len(lf.fragments)
}

// FragmentContaining resolves the fragment holding the line-local offset.
// The line's one-past-end offset resolves to the last fragment.
func (lf *LineFragments) FragmentContaining(local int) (Fragment, bool) {
	if local < 0 || local > lf.Line.TotalLength {
		return Fragment{}, false
	}
	if local == lf.Line.TotalLength {
		return lf.fragments[len(lf.fragments)-1], true
	}
	for _, f := range lf.fragments {
		if local >= f.Location && local < f.End() {
			return f, true
		}
	}
	// Zero-length fragment of an empty line.
	return lf.fragments[len(lf.fragments)-1], true
}

// ClosestOffset maps a point local to the line (x in cells, y in rows below
// the line's top) to the nearest caret position. The result never lands
// inside the delimiter or a grapheme cluster.
func (lf *LineFragments) ClosestOffset(p Point) int {
	fi := p.Y
	if fi < 0 {
		fi = 0
	}
	if fi >= len(lf.fragments) {
		fi = len(lf.fragments) - 1
	}
	frag := lf.fragments[fi]

	upper := frag.End()
	if content := lf.Line.ContentLength(); upper > content {
		upper = content
	}
	if p.X <= 0 {
		return frag.Location
	}

	var startColumn int
	for _, c := range lf.cells {
		if c.Offset == frag.Location {
			startColumn = c.Column
			break
		}
	}

	best := frag.Location
	for _, c := range lf.cells {
		if c.Offset < frag.Location || c.Offset >= upper {
			continue
		}
		// Caret goes after the cluster once the point passes its midpoint.
		if p.X >= c.Column-startColumn+(c.Width+1)/2 {
			best = c.Offset + c.Runes
		}
	}
	if best > upper {
		best = upper
	}
	return best
}

// Cells exposes the line's grapheme-cluster geometry for rendering.
func (lf *LineFragments) Cells() []Cell {
	return lf.cells
}

// Fragments returns the wrapped rows in index order.
func (lf *LineFragments) Fragments() []Fragment {
	return lf.fragments
}

// Position maps a line-local caret offset to its visual position within the
// line: X in cells from the fragment's left edge, Y the fragment index.
func (lf *LineFragments) Position(local int) Point {
	frag, ok := lf.FragmentContaining(local)
	if !ok {
		return Point{}
	}
	x := 0
	var startColumn int
	for _, c := range lf.cells {
		if c.Offset == frag.Location {
			startColumn = c.Column
			break
		}
	}
	for _, c := range lf.cells {
		if c.Offset < frag.Location || c.Offset >= local {
			continue
		}
		if end := c.Column + c.Width - startColumn; end > x {
			x = end
		}
	}
	return Point{X: x, Y: frag.Index}
}
