package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"textnav/buffer"
	"textnav/highlight"
)

var (
	statusStyle = tcell.StyleDefault.Reverse(true)
	errorStyle  = tcell.StyleDefault.Background(tcell.ColorDarkRed).Foreground(tcell.ColorWhite)
)

func (a *App) gutterStyle() tcell.Style {
	return tcell.StyleDefault.Foreground(a.theme.Gutter)
}

func (a *App) selectionStyle() tcell.Style {
	return tcell.StyleDefault.Background(a.theme.Selection)
}

func (a *App) render() {
	s := a.session
	screen := a.screen
	screen.Clear()

	w, h := screen.Size()
	viewH := h - 1 // last row is the status bar
	if viewH < 1 {
		screen.Show()
		return
	}

	sel := s.Buf.Selection
	gutterStyle := a.gutterStyle()
	selectionStyle := a.selectionStyle()
	styledLines := a.hl.Highlight(s.Buf.String())

	for row := 0; row < s.Index.Count(); row++ {
		line, _ := s.Index.LineAtRow(row)
		if line.YPosition+line.Height <= a.scrollY {
			continue
		}
		if line.YPosition >= a.scrollY+viewH {
			break
		}

		lf := s.Layout.FragmentsFor(line)
		content, _ := s.Buf.Substring(buffer.Range{Location: line.Location, Length: line.ContentLength()})
		runes := []rune(content)
		styles := expandStyles(styledLines, row, len(runes))
		cells := lf.Cells()

		for _, frag := range lf.Fragments() {
			sy := line.YPosition + frag.Index - a.scrollY
			if sy < 0 || sy >= viewH {
				continue
			}

			if frag.Index == 0 {
				num := fmt.Sprint(row + 1)
				for i, r := range num {
					screen.SetContent(a.gutterW-1-len(num)+i, sy, r, nil, gutterStyle)
				}
			}

			startColumn := -1
			for _, c := range cells {
				if c.Offset < frag.Location || c.Offset >= frag.End() {
					continue
				}
				if startColumn < 0 {
					startColumn = c.Column
				}
				sx := a.gutterW + c.Column - startColumn
				if sx >= w {
					break
				}

				style := tcell.StyleDefault
				if c.Offset < len(styles) {
					style = styles[c.Offset]
				}
				abs := line.Location + c.Offset
				if sel.Contains(abs) {
					style = selectionStyle
				}

				cluster := runes[c.Offset : c.Offset+c.Runes]
				if cluster[0] == '\t' {
					for i := 0; i < c.Width && sx+i < w; i++ {
						screen.SetContent(sx+i, sy, ' ', nil, style)
					}
					continue
				}
				screen.SetContent(sx, sy, cluster[0], cluster[1:], style)
			}

			// A selected delimiter shows as one highlighted cell past the
			// content, so full-line selections are visible.
			if line.DelimiterLength > 0 && sel.Contains(line.Location+line.ContentLength()) &&
				frag.Index == lf.Count()-1 {
				sx := a.gutterW
				if len(cells) > 0 && startColumn >= 0 {
					last := cells[len(cells)-1]
					sx += last.Column + last.Width - startColumn
				}
				if sx < w {
					screen.SetContent(sx, sy, ' ', nil, selectionStyle)
				}
			}
		}
	}

	a.renderStatus(w, h)
	a.renderCaret(viewH)
	screen.Show()
}

func (a *App) renderCaret(viewH int) {
	s := a.session
	line, ok := s.Index.LineContaining(a.caret)
	if !ok {
		a.screen.HideCursor()
		return
	}
	pos := s.Layout.FragmentsFor(line).Position(a.caret - line.Location)
	sy := line.YPosition + pos.Y - a.scrollY
	if sy < 0 || sy >= viewH {
		a.screen.HideCursor()
		return
	}
	a.screen.ShowCursor(a.gutterW+pos.X, sy)
}

func (a *App) renderStatus(w, h int) {
	s := a.session
	buf := s.Buf

	name := buf.Path
	if name == "" {
		name = "[No Name]"
	}
	dirty := ""
	if buf.Dirty {
		dirty = " *"
	}
	line, _ := s.Index.LineContaining(a.caret)
	left := fmt.Sprintf(" %s%s  %s  %s", name, dirty, a.hl.Language(), buf.LineEnding)
	right := fmt.Sprintf("%d:%d ", line.Row+1, a.caret-line.Location+1)

	style := statusStyle
	if a.status != "" && time.Since(a.statusTime) < 3*time.Second {
		left = " " + a.status
		if a.statusIsError {
			style = errorStyle
		}
	}

	text := left
	if pad := w - len([]rune(left)) - len([]rune(right)); pad > 0 {
		text += strings.Repeat(" ", pad) + right
	}
	col := 0
	for _, r := range text {
		if col >= w {
			break
		}
		a.screen.SetContent(col, h-1, r, nil, style)
		col++
	}
	for ; col < w; col++ {
		a.screen.SetContent(col, h-1, ' ', nil, style)
	}
}

// expandStyles flattens a line's highlight spans into one style per rune.
func expandStyles(lines []highlight.StyledLine, row, length int) []tcell.Style {
	styles := make([]tcell.Style, length)
	for i := range styles {
		styles[i] = tcell.StyleDefault
	}
	if row >= len(lines) {
		return styles
	}
	i := 0
	for _, span := range lines[row].Spans {
		for range span.Text {
			if i >= length {
				return styles
			}
			styles[i] = span.Style
			i++
		}
	}
	return styles
}
