package layout

import (
	"testing"

	"textnav/buffer"
	"textnav/lineindex"
)

func setup(text string, width int) (*Layout, *lineindex.Index) {
	buf := buffer.New(text)
	ix := lineindex.New(text)
	return New(buf, width, 4), ix
}

func TestFragmentsCoverLineIncludingDelimiter(t *testing.T) {
	lay, ix := setup("hello world\nbye", 5)
	for row := 0; row < ix.Count(); row++ {
		line, _ := ix.LineAtRow(row)
		lf := lay.FragmentsFor(line)
		offset := 0
		for i, f := range lf.Fragments() {
			if f.Index != i {
				t.Fatalf("row %d: fragment %d has index %d", row, i, f.Index)
			}
			if f.Location != offset {
				t.Fatalf("row %d fragment %d: location %d, want %d", row, i, f.Location, offset)
			}
			offset = f.End()
		}
		if offset != line.TotalLength {
			t.Fatalf("row %d: fragments cover %d of %d", row, offset, line.TotalLength)
		}
	}
}

func TestWrapBreaksAfterWhitespace(t *testing.T) {
	lay, ix := setup("hello world", 8)
	lf := lay.FragmentsFor(ix.FirstLine())
	frags := lf.Fragments()
	if len(frags) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(frags))
	}
	// "hello " / "world": the break lands after the space.
	if frags[0].Length != 6 || frags[1].Location != 6 {
		t.Fatalf("unexpected break: %+v", frags)
	}
}

func TestNoWrapWhenWidthZero(t *testing.T) {
	lay, ix := setup("hello world, this is a long line", 0)
	if got := lay.FragmentsFor(ix.FirstLine()).Count(); got != 1 {
		t.Fatalf("expected a single fragment, got %d", got)
	}
}

func TestEmptyLineHasOneFragment(t *testing.T) {
	lay, ix := setup("\nabc", 10)
	lf := lay.FragmentsFor(ix.FirstLine())
	if lf.Count() != 1 {
		t.Fatalf("expected 1 fragment, got %d", lf.Count())
	}
	f, ok := lf.FragmentContaining(0)
	if !ok || f.Length != 1 {
		t.Fatalf("expected delimiter-only fragment, got %+v ok=%v", f, ok)
	}
}

func TestFragmentContainingBounds(t *testing.T) {
	lay, ix := setup("abcdef\nx", 3)
	line := ix.FirstLine() // "abcdef\n", wraps as abc/def+delim
	lf := lay.FragmentsFor(line)

	if f, ok := lf.FragmentContaining(2); !ok || f.Index != 0 {
		t.Fatalf("offset 2: got %+v ok=%v", f, ok)
	}
	if f, ok := lf.FragmentContaining(3); !ok || f.Index != 1 {
		t.Fatalf("offset 3: got %+v ok=%v", f, ok)
	}
	// One-past-end of the line resolves to the last fragment.
	if f, ok := lf.FragmentContaining(line.TotalLength); !ok || f.Index != lf.Count()-1 {
		t.Fatalf("offset %d: got %+v ok=%v", line.TotalLength, f, ok)
	}
	if _, ok := lf.FragmentContaining(line.TotalLength + 1); ok {
		t.Fatalf("expected miss past the line end")
	}
	if _, ok := lf.FragmentContaining(-1); ok {
		t.Fatalf("expected miss for negative local offset")
	}
}

func TestClosestOffsetWithinFragment(t *testing.T) {
	lay, ix := setup("abcdef", 20)
	lf := lay.FragmentsFor(ix.FirstLine())

	cases := []struct {
		x, y int
		want int
	}{
		{-3, 0, 0},
		{0, 0, 0},
		{1, 0, 1},
		{3, 0, 3},
		{50, 0, 6},  // past the content clamps to line end
		{2, 9, 2},   // y clamps into the only fragment
		{2, -2, 2},
	}
	for _, tc := range cases {
		if got := lf.ClosestOffset(Point{X: tc.x, Y: tc.y}); got != tc.want {
			t.Errorf("ClosestOffset(%d,%d) = %d, want %d", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestClosestOffsetExcludesDelimiter(t *testing.T) {
	lay, ix := setup("ab\ncd", 20)
	lf := lay.FragmentsFor(ix.FirstLine())
	if got := lf.ClosestOffset(Point{X: 99, Y: 0}); got != 2 {
		t.Fatalf("expected caret before the delimiter, got %d", got)
	}
}

func TestClosestOffsetPicksFragmentByRow(t *testing.T) {
	lay, ix := setup("abcdef", 3) // abc / def
	lf := lay.FragmentsFor(ix.FirstLine())
	if got := lf.ClosestOffset(Point{X: 0, Y: 1}); got != 3 {
		t.Fatalf("expected second fragment start, got %d", got)
	}
	if got := lf.ClosestOffset(Point{X: 99, Y: 1}); got != 6 {
		t.Fatalf("expected second fragment end, got %d", got)
	}
}

func TestClosestOffsetNeverSplitsCluster(t *testing.T) {
	// Decomposed é: two scalars, one cluster at offsets 1-2.
	lay, ix := setup("ae\u0301b", 20)
	lf := lay.FragmentsFor(ix.FirstLine())
	for x := -1; x < 6; x++ {
		got := lf.ClosestOffset(Point{X: x, Y: 0})
		if got == 2 {
			t.Fatalf("x=%d: caret landed inside the cluster", x)
		}
	}
}

func TestTabWidthAdvancesToTabStop(t *testing.T) {
	lay, ix := setup("\tx", 20)
	lf := lay.FragmentsFor(ix.FirstLine())
	cells := lf.Cells()
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	if cells[0].Width != 4 {
		t.Fatalf("expected tab width 4, got %d", cells[0].Width)
	}
	if cells[1].Column != 4 {
		t.Fatalf("expected x at column 4, got %d", cells[1].Column)
	}
}

func TestPositionMapsCaretToFragmentRow(t *testing.T) {
	lay, ix := setup("abcdef", 3) // abc / def
	lf := lay.FragmentsFor(ix.FirstLine())

	cases := []struct {
		local int
		want  Point
	}{
		{0, Point{X: 0, Y: 0}},
		{2, Point{X: 2, Y: 0}},
		{3, Point{X: 0, Y: 1}},
		{5, Point{X: 2, Y: 1}},
		{6, Point{X: 3, Y: 1}},
	}
	for _, tc := range cases {
		if got := lf.Position(tc.local); got != tc.want {
			t.Errorf("Position(%d) = %+v, want %+v", tc.local, got, tc.want)
		}
	}
}

func TestHeightOfMatchesFragmentCount(t *testing.T) {
	lay, ix := setup("abcdef\nx", 3)
	if got := lay.HeightOf(ix.FirstLine()); got != 2 {
		t.Fatalf("expected height 2, got %d", got)
	}
	last := ix.LastLine()
	if got := lay.HeightOf(last); got != 1 {
		t.Fatalf("expected height 1, got %d", got)
	}
}
