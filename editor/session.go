// Package editor ties the buffer, line index, and layout into one editing
// session and implements the structural commands built on them.
package editor

import (
	"textnav/buffer"
	"textnav/layout"
	"textnav/lineindex"
	"textnav/nav"
)

// Session owns the shared editing state. All mutation goes through it so the
// line index and layout never lag behind the buffer within a command.
type Session struct {
	Buf    *buffer.Buffer
	Index  *lineindex.Index
	Layout *layout.Layout
	Nav    *nav.Navigator
	Hit    *nav.HitTester
}

func NewSession(buf *buffer.Buffer, wrapWidth, tabSize int) *Session {
	s := &Session{
		Buf:    buf,
		Index:  lineindex.New(buf.String()),
		Layout: nil,
	}
	s.Layout = layout.New(buf, wrapWidth, tabSize)
	s.Nav = nav.NewNavigator(buf, s.Index, s.Layout)
	s.Hit = nav.NewHitTester(buf, s.Index, s.Layout)
	s.sync()
	return s
}

// sync re-derives the line index and layout from the buffer.
func (s *Session) sync() {
	s.Index.Reload(s.Buf.String())
	s.Layout.Invalidate()
	s.Index.SetHeights(s.Layout.HeightOf)
}

// Replace runs one replace-range edit and keeps the derived state current.
func (s *Session) Replace(r buffer.Range, text string) bool {
	if !s.Buf.Replace(r, text) {
		return false
	}
	s.sync()
	return true
}

// SetWrapWidth rewraps the layout, e.g. after a terminal resize.
func (s *Session) SetWrapWidth(width int) {
	if s.Layout.Width == width {
		return
	}
	s.Layout.Width = width
	s.Layout.Invalidate()
	s.Index.SetHeights(s.Layout.HeightOf)
}

func (s *Session) Undo() bool {
	if !s.Buf.ApplyUndo() {
		return false
	}
	s.sync()
	s.clampSelection()
	return true
}

func (s *Session) Redo() bool {
	if !s.Buf.ApplyRedo() {
		return false
	}
	s.sync()
	s.clampSelection()
	return true
}

func (s *Session) clampSelection() {
	sel := s.Buf.Selection
	length := s.Buf.Length()
	if sel.Location > length {
		sel.Location = length
	}
	if sel.End() > length {
		sel.Length = length - sel.Location
	}
	s.Buf.Selection = sel
}
