package editor

import "textnav/buffer"

// MoveSelectedLinesUp relocates the block of lines intersecting the selection
// one row up. No-op when the block already touches the top.
func (s *Session) MoveSelectedLinesUp() {
	s.moveLines(-1)
}

// MoveSelectedLinesDown relocates the block one row down. No-op when the
// block already touches the bottom.
func (s *Session) MoveSelectedLinesDown() {
	s.moveLines(1)
}

// moveLines moves the selected line block by rowOffset (±1) whole rows.
// The removal and insertion are two replace-range edits inside one undo
// group, with the insertion location computed in pre-removal coordinates, and
// delimiters repaired at the seams: a block landing after the buffer's final
// line carries its delimiter in front instead of behind, and a block leaving
// the buffer's tail takes a delimiter with it while the now-redundant one
// above is excised.
func (s *Session) moveLines(rowOffset int) {
	sel := s.Buf.Selection
	lines := s.Index.LinesIntersecting(sel)
	if len(lines) == 0 {
		return
	}
	first := lines[0]
	last := lines[len(lines)-1]

	targetRow := first.Row + rowOffset
	if rowOffset > 0 {
		targetRow += len(lines) - 1
	}
	targetLine, ok := s.Index.LineAtRow(targetRow)
	if !ok {
		return
	}

	removeRange := buffer.Range{
		Location: first.Location,
		Length:   last.Location + last.TotalLength - first.Location,
	}
	insertLocation := targetLine.Location
	if rowOffset > 0 {
		// The removal happens before the insertion, so pre-shift the target
		// by how much the removal pulls it back.
		insertLocation += targetLine.TotalLength - removeRange.Length
	}

	text, ok := s.Buf.Substring(removeRange)
	if !ok {
		return
	}

	symbol := s.Buf.LineEnding.Symbol()
	selectionAdjust := 0
	switch {
	case rowOffset > 0 && targetLine.DelimiterLength == 0:
		// The block becomes the buffer's new tail: its delimiter moves from
		// behind the block to in front of it.
		if last.DelimiterLength > 0 {
			// Delimiters are ASCII, so byte slicing is safe here.
			text = text[:len(text)-last.DelimiterLength]
		}
		text = symbol + text
		selectionAdjust = len(symbol)
	case rowOffset < 0 && last.DelimiterLength == 0:
		// The block leaves the buffer's tail: it needs a delimiter of its
		// own, and the delimiter of the line it moves above is now redundant.
		text += symbol
		if targetLine.DelimiterLength > 0 {
			removeRange.Location -= targetLine.DelimiterLength
			removeRange.Length += targetLine.DelimiterLength
		}
	}

	s.Buf.BeginGroup()
	s.Buf.Replace(removeRange, "")
	s.Buf.Replace(buffer.Range{Location: insertLocation}, text)
	location := sel.Location + (insertLocation - first.Location) + selectionAdjust
	if location > s.Buf.Length() {
		// A caret that sat inside a stripped delimiter would otherwise land
		// past the end and become unaddressable.
		location = s.Buf.Length()
	}
	s.Buf.Selection = buffer.Range{Location: location, Length: sel.Length}
	s.Buf.EndGroup()
	s.sync()
}
