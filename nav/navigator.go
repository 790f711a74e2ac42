// Package nav answers caret-navigation queries over an indexed, wrapped
// buffer: boundary detection per granularity and point-to-offset hit testing.
package nav

import (
	"unicode"

	"textnav/buffer"
	"textnav/layout"
	"textnav/lineindex"
)

// Granularity selects the unit of boundary semantics.
type Granularity int

const (
	Line Granularity = iota
	Paragraph
	Word
)

type Direction int

const (
	Forward Direction = iota
	Backward
)

// Navigator resolves boundary queries. It only reads its collaborators; the
// caller keeps the index and layout consistent with the buffer.
type Navigator struct {
	buf    *buffer.Buffer
	index  *lineindex.Index
	layout *layout.Layout
}

func NewNavigator(buf *buffer.Buffer, index *lineindex.Index, lay *layout.Layout) *Navigator {
	return &Navigator{buf: buf, index: index, layout: lay}
}

// IsBoundary reports whether offset sits on a boundary of the granularity
// unit in the given direction. Unresolvable offsets report false.
func (n *Navigator) IsBoundary(offset int, granularity Granularity, direction Direction) bool {
	switch granularity {
	case Line:
		return n.isLineBoundary(offset, direction)
	case Paragraph:
		// Reporting any paragraph boundary as true makes host caret logic
		// misbehave on paragraph motions; unconditionally false is the
		// validated behavior, not a stub.
		return false
	case Word:
		return n.isWordBoundary(offset, direction)
	}
	return false
}

// Boundary computes the nearest boundary offset from the given offset in the
// given direction. ok is false only when the offset cannot be resolved to a
// line or a character that should be readable is not.
func (n *Navigator) Boundary(offset int, granularity Granularity, direction Direction) (int, bool) {
	switch granularity {
	case Line:
		return n.lineBoundary(offset, direction)
	case Paragraph:
		return n.paragraphBoundary(offset, direction)
	case Word:
		return n.wordBoundary(offset, direction)
	}
	return 0, false
}

func (n *Navigator) resolveFragment(offset int) (lineindex.Line, layout.Fragment, *layout.LineFragments, bool) {
	line, ok := n.index.LineContaining(offset)
	if !ok {
		return lineindex.Line{}, layout.Fragment{}, nil, false
	}
	lf := n.layout.FragmentsFor(line)
	frag, ok := lf.FragmentContaining(offset - line.Location)
	if !ok {
		return lineindex.Line{}, layout.Fragment{}, nil, false
	}
	return line, frag, lf, true
}

func (n *Navigator) isLineBoundary(offset int, direction Direction) bool {
	line, frag, lf, ok := n.resolveFragment(offset)
	if !ok {
		return false
	}
	local := offset - line.Location
	if direction == Backward {
		return local == frag.Location
	}
	upper := frag.End()
	if frag.Index == lf.Count()-1 {
		// On the final fragment the boundary sits before the delimiter.
		upper -= line.DelimiterLength
	}
	return local == upper
}

func (n *Navigator) lineBoundary(offset int, direction Direction) (int, bool) {
	if direction == Backward {
		if offset == 0 {
			return 0, true
		}
		line, frag, _, ok := n.resolveFragment(offset)
		if !ok {
			return 0, false
		}
		return line.Location + frag.Location, true
	}

	if offset == n.buf.Length() {
		return offset, true
	}
	line, frag, _, ok := n.resolveFragment(offset)
	if !ok {
		return 0, false
	}
	upper := frag.End()
	if upper == line.TotalLength {
		return line.Location + upper - line.DelimiterLength, true
	}
	// The fragment ends mid-wrap. Land the caret before the fragment's final
	// composed character sequence so it stays on this visual row instead of
	// wrapping onto the next one.
	seq := n.buf.ComposedSequenceRange(line.Location + upper - 1)
	return seq.Location, true
}

func (n *Navigator) paragraphBoundary(offset int, direction Direction) (int, bool) {
	length := n.buf.Length()
	if offset < 0 || offset > length {
		return 0, false
	}

	if direction == Forward {
		if offset == length {
			return offset, true
		}
		i := offset
		for i < length {
			r, ok := n.buf.CharacterAt(i)
			if !ok {
				return 0, false
			}
			if r == '\n' || r == '\r' {
				break
			}
			i++
		}
		return i, true
	}

	if offset == 0 {
		return 0, true
	}
	i := offset - 1
	for {
		r, ok := n.buf.CharacterAt(i)
		if !ok {
			return 0, false
		}
		if r == '\n' || r == '\r' {
			return i + 1, true
		}
		if i == 0 {
			return 0, true
		}
		i--
	}
}

func (n *Navigator) isWordBoundary(offset int, direction Direction) bool {
	length := n.buf.Length()
	if offset < 0 || offset > length {
		return false
	}

	if direction == Forward {
		if offset == 0 {
			return false
		}
		prev, ok := n.buf.CharacterAt(offset - 1)
		if !ok {
			return false
		}
		if offset == length {
			return isAlphanumeric(prev)
		}
		cur, ok := n.buf.CharacterAt(offset)
		if !ok {
			return false
		}
		return isAlphanumeric(prev) && !isAlphanumeric(cur)
	}

	if offset == length {
		return false
	}
	cur, ok := n.buf.CharacterAt(offset)
	if !ok {
		return false
	}
	if offset == 0 {
		return isAlphanumeric(cur)
	}
	prev, ok := n.buf.CharacterAt(offset - 1)
	if !ok {
		return false
	}
	return isAlphanumeric(cur) && !isAlphanumeric(prev)
}

func (n *Navigator) wordBoundary(offset int, direction Direction) (int, bool) {
	length := n.buf.Length()
	if offset < 0 || offset > length {
		return 0, false
	}

	if direction == Forward {
		if offset == length {
			return offset, true
		}
		ref, ok := n.buf.CharacterAt(offset)
		if !ok {
			return 0, false
		}
		refClass := isAlphanumeric(ref)
		i := offset + 1
		for i < length {
			r, ok := n.buf.CharacterAt(i)
			if !ok {
				return 0, false
			}
			if isAlphanumeric(r) != refClass {
				break
			}
			i++
		}
		return i, true
	}

	if offset == 0 {
		return 0, true
	}
	ref, ok := n.buf.CharacterAt(offset - 1)
	if !ok {
		return 0, false
	}
	refClass := isAlphanumeric(ref)
	i := offset - 1
	for {
		r, ok := n.buf.CharacterAt(i)
		if !ok {
			return 0, false
		}
		if isAlphanumeric(r) != refClass {
			return i + 1, true
		}
		if i == 0 {
			return 0, true
		}
		i--
	}
}

// isAlphanumeric classifies a character for word-boundary purposes:
// Unicode letters and digits count, everything else does not.
func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
