package editor

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"textnav/buffer"
)

func newSession(text string) *Session {
	return NewSession(buffer.New(text), 0, 4)
}

func TestMoveLineDownPastLastLine(t *testing.T) {
	s := newSession("aaa\nbbb\nccc")
	s.Buf.Selection = buffer.Range{Location: 4, Length: 4} // "bbb\n"

	s.MoveSelectedLinesDown()

	if got := s.Buf.String(); got != "aaa\nccc\nbbb" {
		t.Fatalf("expected %q, got %q", "aaa\nccc\nbbb", got)
	}
	// The moved block is now the buffer tail; the selection tracks it,
	// delimiter adjustment included.
	if s.Buf.Selection != (buffer.Range{Location: 8, Length: 4}) {
		t.Fatalf("unexpected selection %+v", s.Buf.Selection)
	}
}

func TestMoveLineUpFromTail(t *testing.T) {
	s := newSession("aaa\nbbb")
	s.Buf.Selection = buffer.Range{Location: 4, Length: 3} // "bbb"

	s.MoveSelectedLinesUp()

	if got := s.Buf.String(); got != "bbb\naaa" {
		t.Fatalf("expected %q, got %q", "bbb\naaa", got)
	}
	if s.Buf.Selection != (buffer.Range{Location: 0, Length: 3}) {
		t.Fatalf("unexpected selection %+v", s.Buf.Selection)
	}
}

func TestMoveMidBufferKeepsDelimiters(t *testing.T) {
	s := newSession("aaa\nbbb\nccc\nddd\n")
	s.Buf.Selection = buffer.Range{Location: 4, Length: 4} // "bbb\n"

	s.MoveSelectedLinesDown()
	if got := s.Buf.String(); got != "aaa\nccc\nbbb\nddd\n" {
		t.Fatalf("expected %q, got %q", "aaa\nccc\nbbb\nddd\n", got)
	}
	if s.Buf.Selection != (buffer.Range{Location: 8, Length: 4}) {
		t.Fatalf("unexpected selection %+v", s.Buf.Selection)
	}

	s.MoveSelectedLinesUp()
	if got := s.Buf.String(); got != "aaa\nbbb\nccc\nddd\n" {
		t.Fatalf("expected restore, got %q", got)
	}
	if s.Buf.Selection != (buffer.Range{Location: 4, Length: 4}) {
		t.Fatalf("unexpected selection %+v", s.Buf.Selection)
	}
}

func TestMoveFirstLineUpIsNoop(t *testing.T) {
	s := newSession("aaa\nbbb")
	s.Buf.Selection = buffer.Range{Location: 1}

	s.MoveSelectedLinesUp()

	if got := s.Buf.String(); got != "aaa\nbbb" {
		t.Fatalf("expected unchanged buffer, got %q", got)
	}
	if s.Buf.Selection != (buffer.Range{Location: 1}) {
		t.Fatalf("expected unchanged selection, got %+v", s.Buf.Selection)
	}
	if s.Buf.Undo.CanUndo() {
		t.Fatalf("no-op must not record undo state")
	}
}

func TestMoveLastLineDownIsNoop(t *testing.T) {
	s := newSession("aaa\nbbb")
	s.Buf.Selection = buffer.Range{Location: 5}

	s.MoveSelectedLinesDown()

	if got := s.Buf.String(); got != "aaa\nbbb" {
		t.Fatalf("expected unchanged buffer, got %q", got)
	}
	if s.Buf.Undo.CanUndo() {
		t.Fatalf("no-op must not record undo state")
	}
}

func TestMoveMultiLineBlock(t *testing.T) {
	s := newSession("aaa\nbbb\nccc\nddd")
	s.Buf.Selection = buffer.Range{Location: 5, Length: 4} // spans bbb and ccc

	s.MoveSelectedLinesDown()
	if got := s.Buf.String(); got != "aaa\nddd\nbbb\nccc" {
		t.Fatalf("expected %q, got %q", "aaa\nddd\nbbb\nccc", got)
	}

	s.MoveSelectedLinesUp()
	if got := s.Buf.String(); got != "aaa\nbbb\nccc\nddd" {
		t.Fatalf("expected restore, got %q", got)
	}
}

func TestMoveCaretOnlyMovesItsLine(t *testing.T) {
	s := newSession("aaa\nbbb\nccc")
	s.Buf.Selection = buffer.Range{Location: 5} // caret inside "bbb"

	s.MoveSelectedLinesUp()
	if got := s.Buf.String(); got != "bbb\naaa\nccc" {
		t.Fatalf("expected %q, got %q", "bbb\naaa\nccc", got)
	}
	if s.Buf.Selection != (buffer.Range{Location: 1}) {
		t.Fatalf("expected caret to follow its line, got %+v", s.Buf.Selection)
	}
}

func TestMoveDownPreservesCRLF(t *testing.T) {
	s := newSession("aaa\r\nbbb\r\nccc")
	s.Buf.Selection = buffer.Range{Location: 5, Length: 5} // "bbb\r\n"

	s.MoveSelectedLinesDown()
	if got := s.Buf.String(); got != "aaa\r\nccc\r\nbbb" {
		t.Fatalf("expected %q, got %q", "aaa\r\nccc\r\nbbb", got)
	}

	s.MoveSelectedLinesUp()
	if got := s.Buf.String(); got != "aaa\r\nbbb\r\nccc" {
		t.Fatalf("expected restore, got %q", got)
	}
}

func TestMoveUndoesAsOneTransaction(t *testing.T) {
	s := newSession("aaa\nbbb\nccc")
	s.Buf.Selection = buffer.Range{Location: 4, Length: 4}

	s.MoveSelectedLinesDown()
	if got := s.Buf.String(); got != "aaa\nccc\nbbb" {
		t.Fatalf("expected move applied, got %q", got)
	}

	if !s.Undo() {
		t.Fatalf("expected undo")
	}
	if got := s.Buf.String(); got != "aaa\nbbb\nccc" {
		t.Fatalf("single undo must revert the whole move, got %q", got)
	}
	if s.Buf.Selection != (buffer.Range{Location: 4, Length: 4}) {
		t.Fatalf("undo must restore the selection, got %+v", s.Buf.Selection)
	}

	if !s.Redo() {
		t.Fatalf("expected redo")
	}
	if got := s.Buf.String(); got != "aaa\nccc\nbbb" {
		t.Fatalf("single redo must reapply the whole move, got %q", got)
	}
}

func TestMoveEmptyTailLineUp(t *testing.T) {
	s := newSession("aaa\nbbb\n")
	s.Buf.Selection = buffer.Range{Location: 8} // caret on the empty final line

	s.MoveSelectedLinesUp()
	if got := s.Buf.String(); got != "aaa\n\nbbb" {
		t.Fatalf("expected %q, got %q", "aaa\n\nbbb", got)
	}
}

func TestMoveRoundTripConservesDelimiters(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lines := rapid.IntRange(1, 6).Draw(rt, "lines")
		delim := rapid.SampledFrom([]string{"\n", "\r\n", "\r"}).Draw(rt, "delim")
		var b strings.Builder
		for i := 0; i < lines; i++ {
			b.WriteString(rapid.StringMatching(`[a-c]{0,3}`).Draw(rt, "line"))
			if i < lines-1 {
				b.WriteString(delim)
			}
		}
		text := b.String()

		s := newSession(text)
		loc := rapid.IntRange(0, s.Buf.Length()).Draw(rt, "loc")
		length := rapid.IntRange(0, s.Buf.Length()-loc).Draw(rt, "len")
		s.Buf.Selection = buffer.Range{Location: loc, Length: length}

		down := rapid.Bool().Draw(rt, "down")
		if down {
			s.MoveSelectedLinesDown()
		} else {
			s.MoveSelectedLinesUp()
		}
		if s.Buf.String() == text {
			return // no-op at a buffer edge
		}
		if down {
			s.MoveSelectedLinesUp()
		} else {
			s.MoveSelectedLinesDown()
		}
		if got := s.Buf.String(); got != text {
			rt.Fatalf("round trip changed content: %q -> %q", text, got)
		}
	})
}
