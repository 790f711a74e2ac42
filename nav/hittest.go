package nav

import (
	"textnav/buffer"
	"textnav/layout"
	"textnav/lineindex"
)

// HitTester maps a 2D point to the closest valid character offset. It never
// fails: a pointer event must always resolve to some caret position, so
// pathological input degrades to a boundary offset instead of an error.
type HitTester struct {
	buf    *buffer.Buffer
	index  *lineindex.Index
	layout *layout.Layout
	// Inset is the layout margin subtracted from incoming points, e.g. the
	// gutter width in the demo frontend.
	Inset layout.Point
}

func NewHitTester(buf *buffer.Buffer, index *lineindex.Index, lay *layout.Layout) *HitTester {
	return &HitTester{buf: buf, index: index, layout: lay}
}

// Location returns the offset closest to p. p is in cells relative to the
// text container's origin, inset included.
func (h *HitTester) Location(p layout.Point) int {
	p.X -= h.Inset.X
	p.Y -= h.Inset.Y

	if line, ok := h.index.LineContainingY(p.Y); ok {
		return h.closestIn(line, p)
	}
	if p.Y <= 0 && h.index.Count() > 0 {
		return h.closestIn(h.index.FirstLine(), p)
	}
	if h.index.Count() > 0 {
		if last := h.index.LastLine(); p.Y >= last.YPosition {
			return h.closestIn(last, p)
		}
	}
	return h.buf.Length()
}

func (h *HitTester) closestIn(line lineindex.Line, p layout.Point) int {
	lf := h.layout.FragmentsFor(line)
	local := lf.ClosestOffset(layout.Point{X: p.X, Y: p.Y - line.YPosition})
	return line.Location + local
}
