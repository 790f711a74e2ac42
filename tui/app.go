// Package tui is a small tcell frontend proving the navigation core end to
// end: clicks go through the hit tester, word/line/paragraph motions through
// the boundary navigator, and Alt-Up/Down through the line block mover.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"textnav/buffer"
	"textnav/clipboardx"
	"textnav/config"
	"textnav/editor"
	"textnav/highlight"
	"textnav/layout"
	"textnav/nav"
)

type App struct {
	screen  tcell.Screen
	cfg     *config.Config
	theme   *config.ColorScheme
	session *editor.Session
	hl      *highlight.Highlighter
	watcher *editor.Watcher
	backups *editor.BackupStore

	caret    int
	anchor   int
	dragging bool

	scrollY int
	gutterW int

	status        string
	statusIsError bool
	statusTime    time.Time

	quit bool
}

// watchNotice carries a file-watch event into the tcell event loop.
type watchNotice struct {
	tcell.EventTime
	ev editor.WatchEvent
}

func Run(path string, cfg *config.Config) error {
	var buf *buffer.Buffer
	var err error
	if path == "" {
		buf = buffer.New("")
	} else if buf, err = buffer.NewFromFile(path); err != nil {
		return err
	}
	if style, ok := buffer.ParseLineEnding(cfg.LineEnding); ok {
		buf.LineEnding = style
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.SetStyle(tcell.StyleDefault)

	theme := cfg.GetTheme()
	app := &App{
		screen: screen,
		cfg:    cfg,
		theme:  theme,
		hl:     highlight.New(path, theme),
	}
	app.gutterW = gutterWidth(1)
	app.session = editor.NewSession(buf, app.wrapWidth(), cfg.TabSize)
	app.session.Hit.Inset = layout.Point{X: app.gutterW}

	workDir, _ := os.Getwd()
	app.backups = editor.NewBackupStore(editor.DefaultBackupDir(), workDir)
	app.noticePendingBackup(path)
	app.startBackupTimer()

	if path != "" {
		if w, err := editor.NewWatcher(path); err == nil {
			app.watcher = w
			go func() {
				for ev := range w.Start() {
					notice := &watchNotice{ev: ev}
					notice.SetEventNow()
					screen.PostEvent(notice)
				}
			}()
			defer w.Close()
		}
	}

	for !app.quit {
		app.render()
		app.handleEvent(screen.PollEvent())
	}
	app.backups.Clean(buf.Path)
	return nil
}

// noticePendingBackup warns when a crash backup exists for the opened file.
func (a *App) noticePendingBackup(path string) {
	if path == "" {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for _, info := range a.backups.Pending() {
		if info.OriginalPath == abs || info.OriginalPath == path {
			a.setStatus("Unsaved backup from "+info.Timestamp+" at "+a.backups.PathFor(info.OriginalPath), true)
			return
		}
	}
}

func (a *App) startBackupTimer() {
	go func() {
		ticker := time.NewTicker(editor.BackupInterval)
		defer ticker.Stop()
		for range ticker.C {
			if a.quit {
				return
			}
			a.backups.Save(a.session.Buf)
		}
	}()
}

func gutterWidth(lineCount int) int {
	return len(fmt.Sprint(lineCount)) + 1
}

func (a *App) wrapWidth() int {
	if !a.cfg.WordWrap {
		return 0
	}
	w, _ := a.screen.Size()
	if w <= a.gutterW {
		return 0
	}
	return w - a.gutterW
}

func (a *App) refreshGeometry() {
	gw := gutterWidth(a.session.Index.Count())
	if gw != a.gutterW {
		a.gutterW = gw
		a.session.Hit.Inset = layout.Point{X: gw}
	}
	a.session.SetWrapWidth(a.wrapWidth())
}

func (a *App) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.refreshGeometry()
		a.screen.Sync()
	case *tcell.EventKey:
		a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *watchNotice:
		a.handleWatch(ev.ev)
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	s := a.session
	buf := s.Buf

	switch {
	case ev.Key() == tcell.KeyCtrlQ:
		a.quit = true
	case ev.Key() == tcell.KeyCtrlS:
		if err := buf.Save(); err != nil {
			a.setStatus("Error: "+err.Error(), true)
		} else {
			a.backups.Clean(buf.Path)
			a.setStatus("Saved "+buf.Path, false)
		}
	case ev.Key() == tcell.KeyCtrlZ:
		if s.Undo() {
			a.caret = buf.Selection.End()
		}
	case ev.Key() == tcell.KeyCtrlY:
		if s.Redo() {
			a.caret = buf.Selection.End()
		}
	case ev.Key() == tcell.KeyCtrlC:
		if text, ok := buf.Substring(buf.Selection); ok && text != "" {
			clipboardx.Write(text)
			a.setStatus("Copied", false)
		}
	case ev.Key() == tcell.KeyCtrlA:
		buf.Selection = buffer.Range{Length: buf.Length()}
		a.caret = buf.Length()

	case ev.Key() == tcell.KeyUp && ev.Modifiers()&tcell.ModAlt != 0:
		s.MoveSelectedLinesUp()
		a.caret = buf.Selection.End()
		a.refreshGeometry()
	case ev.Key() == tcell.KeyDown && ev.Modifiers()&tcell.ModAlt != 0:
		s.MoveSelectedLinesDown()
		a.caret = buf.Selection.End()
		a.refreshGeometry()

	case ev.Key() == tcell.KeyUp && ev.Modifiers()&tcell.ModCtrl != 0:
		a.moveTo(s.Nav.Boundary(a.caret, nav.Paragraph, nav.Backward))
	case ev.Key() == tcell.KeyDown && ev.Modifiers()&tcell.ModCtrl != 0:
		a.moveTo(s.Nav.Boundary(a.caret, nav.Paragraph, nav.Forward))
	case ev.Key() == tcell.KeyLeft && ev.Modifiers()&tcell.ModCtrl != 0:
		a.moveTo(s.Nav.Boundary(a.caret, nav.Word, nav.Backward))
	case ev.Key() == tcell.KeyRight && ev.Modifiers()&tcell.ModCtrl != 0:
		a.moveTo(s.Nav.Boundary(a.caret, nav.Word, nav.Forward))
	case ev.Key() == tcell.KeyHome:
		a.moveTo(s.Nav.Boundary(a.caret, nav.Line, nav.Backward))
	case ev.Key() == tcell.KeyEnd:
		a.moveTo(s.Nav.Boundary(a.caret, nav.Line, nav.Forward))

	case ev.Key() == tcell.KeyLeft:
		if a.caret > 0 {
			a.moveTo(buf.ComposedSequenceRange(a.caret-1).Location, true)
		}
	case ev.Key() == tcell.KeyRight:
		if a.caret < buf.Length() {
			seq := buf.ComposedSequenceRange(a.caret)
			a.moveTo(seq.End(), true)
		}
	case ev.Key() == tcell.KeyUp:
		a.moveVertical(-1)
	case ev.Key() == tcell.KeyDown:
		a.moveVertical(1)

	case ev.Key() == tcell.KeyEnter:
		a.insert(buf.LineEnding.Symbol())
	case ev.Key() == tcell.KeyTab:
		a.insert("\t")
	case ev.Key() == tcell.KeyBackspace || ev.Key() == tcell.KeyBackspace2:
		a.deleteBackward()
	case ev.Key() == tcell.KeyDelete:
		a.deleteForward()
	case ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0:
		a.insert(string(ev.Rune()))
	}
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		a.scrollBy(-3)
	case ev.Buttons()&tcell.WheelDown != 0:
		a.scrollBy(3)
	case ev.Buttons()&tcell.Button1 != 0:
		offset := a.session.Hit.Location(layout.Point{X: x, Y: y + a.scrollY})
		if !a.dragging {
			a.dragging = true
			a.anchor = offset
		}
		a.caret = offset
		a.session.Buf.Selection = buffer.RangeBetween(a.anchor, a.caret)
	default:
		a.dragging = false
	}
}

func (a *App) handleWatch(ev editor.WatchEvent) {
	buf := a.session.Buf
	if ev.Removed {
		a.setStatus("Warning: file was deleted externally", true)
		return
	}
	if buf.Dirty {
		a.setStatus("Warning: file changed on disk; buffer has unsaved changes", true)
		return
	}
	reloaded, err := buffer.NewFromFile(buf.Path)
	if err != nil {
		a.setStatus("Error: "+err.Error(), true)
		return
	}
	if style, ok := buffer.ParseLineEnding(a.cfg.LineEnding); ok {
		reloaded.LineEnding = style
	}
	*a.session = *editor.NewSession(reloaded, a.wrapWidth(), a.cfg.TabSize)
	a.session.Hit.Inset = layout.Point{X: a.gutterW}
	a.caret = 0
	a.refreshGeometry()
	a.setStatus("Reloaded from disk", false)
}

// moveTo places the caret from a boundary query; a failed query leaves the
// caret where it is.
func (a *App) moveTo(offset int, ok bool) {
	if !ok {
		return
	}
	a.caret = offset
	a.session.Buf.Selection = buffer.Range{Location: offset}
	a.ensureCaretVisible()
}

// moveVertical moves the caret one visual row, reusing the hit tester so the
// caret tracks columns across wrapped fragments.
func (a *App) moveVertical(dy int) {
	s := a.session
	line, ok := s.Index.LineContaining(a.caret)
	if !ok {
		return
	}
	pos := s.Layout.FragmentsFor(line).Position(a.caret - line.Location)
	y := line.YPosition + pos.Y + dy
	if y < 0 {
		return
	}
	offset := s.Hit.Location(layout.Point{X: pos.X + a.gutterW, Y: y})
	a.moveTo(offset, true)
}

func (a *App) insert(text string) {
	s := a.session
	target := s.Buf.Selection
	if target.Empty() {
		target = buffer.Range{Location: a.caret}
	}
	if s.Replace(target, text) {
		a.caret = target.Location + len([]rune(text))
		s.Buf.Selection = buffer.Range{Location: a.caret}
		a.refreshGeometry()
		a.ensureCaretVisible()
	}
}

func (a *App) deleteBackward() {
	s := a.session
	target := s.Buf.Selection
	if target.Empty() {
		if a.caret == 0 {
			return
		}
		target = s.Buf.ComposedSequenceRange(a.caret - 1)
	}
	if s.Replace(target, "") {
		a.caret = target.Location
		s.Buf.Selection = buffer.Range{Location: a.caret}
		a.refreshGeometry()
		a.ensureCaretVisible()
	}
}

func (a *App) deleteForward() {
	s := a.session
	target := s.Buf.Selection
	if target.Empty() {
		if a.caret >= s.Buf.Length() {
			return
		}
		target = s.Buf.ComposedSequenceRange(a.caret)
	}
	if s.Replace(target, "") {
		a.caret = target.Location
		s.Buf.Selection = buffer.Range{Location: a.caret}
		a.refreshGeometry()
	}
}

func (a *App) scrollBy(dy int) {
	a.scrollY += dy
	a.clampScroll()
}

func (a *App) totalHeight() int {
	last := a.session.Index.LastLine()
	return last.YPosition + last.Height
}

func (a *App) clampScroll() {
	_, h := a.screen.Size()
	maxScroll := a.totalHeight() - (h - 1)
	if maxScroll < 0 {
		maxScroll = 0
	}
	if a.scrollY > maxScroll {
		a.scrollY = maxScroll
	}
	if a.scrollY < 0 {
		a.scrollY = 0
	}
}

func (a *App) ensureCaretVisible() {
	s := a.session
	line, ok := s.Index.LineContaining(a.caret)
	if !ok {
		return
	}
	pos := s.Layout.FragmentsFor(line).Position(a.caret - line.Location)
	y := line.YPosition + pos.Y
	_, h := a.screen.Size()
	if y < a.scrollY {
		a.scrollY = y
	}
	if y >= a.scrollY+h-1 {
		a.scrollY = y - (h - 2)
	}
	a.clampScroll()
}

func (a *App) setStatus(msg string, isError bool) {
	a.status = msg
	a.statusIsError = isError
	a.statusTime = time.Now()
}
