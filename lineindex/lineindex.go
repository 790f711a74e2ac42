// Package lineindex maintains the mapping between character offsets and
// logical lines. Lines are contiguous, cover the whole buffer, and only the
// final line may lack a delimiter.
package lineindex

import (
	"sort"

	"textnav/buffer"
)

// Line is one logical line. TotalLength includes the delimiter;
// DelimiterLength is 0 (final line), 1 (LF or CR), or 2 (CRLF).
// YPosition and Height are in layout rows.
type Line struct {
	Location        int
	TotalLength     int
	DelimiterLength int
	Row             int
	YPosition       int
	Height          int
}

// Range spans the whole line, delimiter included.
func (l Line) Range() buffer.Range {
	return buffer.Range{Location: l.Location, Length: l.TotalLength}
}

// ContentLength is the line length without its delimiter.
func (l Line) ContentLength() int {
	return l.TotalLength - l.DelimiterLength
}

// Index is the line table for a buffer. It is rebuilt from the full text
// after each edit; only the query contract matters to its callers, so the
// flat-slice representation can be swapped out without touching them.
type Index struct {
	lines  []Line
	length int
}

func New(text string) *Index {
	ix := &Index{}
	ix.Reload(text)
	return ix
}

// Reload reparses the text into lines. Every line gets height 1 until the
// layout pushes in wrapped heights via SetHeights.
func (ix *Index) Reload(text string) {
	runes := []rune(text)
	ix.length = len(runes)
	ix.lines = ix.lines[:0]

	start := 0
	i := 0
	for i < len(runes) {
		delim := 0
		switch runes[i] {
		case '\n':
			delim = 1
		case '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				delim = 2
			} else {
				delim = 1
			}
		}
		if delim == 0 {
			i++
			continue
		}
		ix.appendLine(start, i+delim-start, delim)
		i += delim
		start = i
	}
	// The final line exists even when empty, so a trailing delimiter yields
	// an empty last line and an empty buffer yields one empty line.
	ix.appendLine(start, len(runes)-start, 0)
}

func (ix *Index) appendLine(location, totalLength, delimiterLength int) {
	row := len(ix.lines)
	ix.lines = append(ix.lines, Line{
		Location:        location,
		TotalLength:     totalLength,
		DelimiterLength: delimiterLength,
		Row:             row,
		YPosition:       row,
		Height:          1,
	})
}

// SetHeights recomputes vertical positions from per-line heights, typically
// the layout's fragment counts.
func (ix *Index) SetHeights(heightOf func(Line) int) {
	y := 0
	for i := range ix.lines {
		h := heightOf(ix.lines[i])
		if h < 1 {
			h = 1
		}
		ix.lines[i].YPosition = y
		ix.lines[i].Height = h
		y += h
	}
}

// Length is the character length of the indexed text.
func (ix *Index) Length() int { return ix.length }

func (ix *Index) Count() int { return len(ix.lines) }

func (ix *Index) FirstLine() Line { return ix.lines[0] }

func (ix *Index) LastLine() Line { return ix.lines[len(ix.lines)-1] }

func (ix *Index) LineAtRow(row int) (Line, bool) {
	if row < 0 || row >= len(ix.lines) {
		return Line{}, false
	}
	return ix.lines[row], true
}

// LineContaining resolves the line holding offset. The one-past-end offset
// resolves to the last line.
func (ix *Index) LineContaining(offset int) (Line, bool) {
	if offset < 0 || offset > ix.length {
		return Line{}, false
	}
	if offset == ix.length {
		return ix.LastLine(), true
	}
	row := sort.Search(len(ix.lines), func(i int) bool {
		return ix.lines[i].Location+ix.lines[i].TotalLength > offset
	})
	return ix.lines[row], true
}

// LinesIntersecting returns, in row order, every line overlapping r. An empty
// range resolves to the single line containing its location.
func (ix *Index) LinesIntersecting(r buffer.Range) []Line {
	first, ok := ix.LineContaining(r.Location)
	if !ok {
		return nil
	}
	if r.Length <= 0 {
		return []Line{first}
	}
	last, ok := ix.LineContaining(r.End() - 1)
	if !ok {
		// A selection can outgrow the buffer by a delimiter after a tail
		// move; an overhanging end still means "through the last line".
		last = ix.LastLine()
	}
	out := make([]Line, 0, last.Row-first.Row+1)
	for row := first.Row; row <= last.Row; row++ {
		out = append(out, ix.lines[row])
	}
	return out
}

// LineContainingY resolves the line whose vertical span contains y.
func (ix *Index) LineContainingY(y int) (Line, bool) {
	if len(ix.lines) == 0 || y < 0 {
		return Line{}, false
	}
	row := sort.Search(len(ix.lines), func(i int) bool {
		return ix.lines[i].YPosition+ix.lines[i].Height > y
	})
	if row >= len(ix.lines) {
		return Line{}, false
	}
	return ix.lines[row], true
}
