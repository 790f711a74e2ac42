package buffer

import (
	"fmt"
	"os"

	"github.com/rivo/uniseg"
)

// Buffer is offset-addressed text storage. Offsets count runes; line
// delimiters (LF, CR, CRLF) are kept in the content exactly as loaded, since
// structural edits depend on per-line delimiter lengths.
type Buffer struct {
	content []rune
	Path    string
	Dirty   bool
	// Selection is the active selection, [Location, Location+Length).
	// A caret is an empty selection.
	Selection  Range
	LineEnding LineEnding
	Undo       *UndoStack
	ReadOnly   bool

	savedSnapshot string
}

func New(text string) *Buffer {
	return &Buffer{
		content:       []rune(text),
		LineEnding:    DetectLineEnding(text),
		Undo:          NewUndoStack(),
		savedSnapshot: text,
	}
}

func NewFromFile(path string) (*Buffer, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			b := New("")
			b.Path = path
			return b, nil
		}
		return nil, err
	}

	if info.Size() > 100*1024*1024 { // 100MB
		return nil, fmt.Errorf("file too large (%d MB), max supported is 100 MB", info.Size()/(1024*1024))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Binary file detection: check first 8KB for null bytes.
	checkLen := len(data)
	if checkLen > 8192 {
		checkLen = 8192
	}
	isBinary := false
	for i := 0; i < checkLen; i++ {
		if data[i] == 0 {
			isBinary = true
			break
		}
	}

	b := New(string(data))
	b.Path = path
	b.ReadOnly = isBinary
	return b, nil
}

func (b *Buffer) Save() error {
	if b.Path == "" || b.ReadOnly {
		return nil
	}
	content := string(b.content)
	if err := os.WriteFile(b.Path, []byte(content), 0644); err != nil {
		return err
	}
	b.savedSnapshot = content
	b.Dirty = false
	return nil
}

func (b *Buffer) String() string {
	return string(b.content)
}

// Length is the number of character offsets in the buffer. Length itself is a
// valid one-past-end offset.
func (b *Buffer) Length() int {
	return len(b.content)
}

func (b *Buffer) CharacterAt(offset int) (rune, bool) {
	if offset < 0 || offset >= len(b.content) {
		return 0, false
	}
	return b.content[offset], true
}

func (b *Buffer) Substring(r Range) (string, bool) {
	if r.Location < 0 || r.Length < 0 || r.End() > len(b.content) {
		return "", false
	}
	return string(b.content[r.Location:r.End()]), true
}

// ComposedSequenceRange resolves the grapheme cluster containing offset, so
// callers never land a caret inside a multi-scalar sequence. offset == Length
// yields an empty range at the end of the buffer.
func (b *Buffer) ComposedSequenceRange(offset int) Range {
	if offset < 0 {
		return Range{}
	}
	if offset >= len(b.content) {
		return Range{Location: len(b.content)}
	}

	// CRLF is itself a single cluster.
	if b.content[offset] == '\n' && offset > 0 && b.content[offset-1] == '\r' {
		return Range{Location: offset - 1, Length: 2}
	}
	if b.content[offset] == '\r' && offset+1 < len(b.content) && b.content[offset+1] == '\n' {
		return Range{Location: offset, Length: 2}
	}

	// Clusters never span a line delimiter, so scanning from the start of the
	// containing line is sufficient.
	start := offset
	for start > 0 && b.content[start-1] != '\n' && b.content[start-1] != '\r' {
		start--
	}

	rest := string(b.content[start:])
	state := -1
	pos := start
	for len(rest) > 0 {
		cluster, tail, _, nextState := uniseg.StepString(rest, state)
		clusterLen := len([]rune(cluster))
		if offset < pos+clusterLen {
			return Range{Location: pos, Length: clusterLen}
		}
		pos += clusterLen
		rest = tail
		state = nextState
	}
	return Range{Location: offset, Length: 1}
}

// Replace substitutes the characters in r with text, recording the edit on
// the undo stack. A removal and an insertion at the same spot are grouped so
// they undo together.
func (b *Buffer) Replace(r Range, text string) bool {
	if b.ReadOnly || r.Location < 0 || r.Length < 0 || r.End() > len(b.content) {
		return false
	}
	if r.Length == 0 && text == "" {
		return true
	}

	if r.Length > 0 && text != "" {
		b.Undo.BeginGroup()
		defer b.Undo.EndGroup()
	}

	if r.Length > 0 {
		removed := string(b.content[r.Location:r.End()])
		b.Undo.Push(Operation{Type: OpDelete, Pos: r.Location, Text: removed, Selection: b.Selection})
		b.splice(r, nil)
	}
	if text != "" {
		b.Undo.Push(Operation{Type: OpInsert, Pos: r.Location, Text: text, Selection: b.Selection})
		b.splice(Range{Location: r.Location}, []rune(text))
	}
	b.Dirty = b.String() != b.savedSnapshot
	return true
}

// BeginGroup opens an undo transaction; pair with EndGroup. Calls nest.
func (b *Buffer) BeginGroup() { b.Undo.BeginGroup() }
func (b *Buffer) EndGroup()   { b.Undo.EndGroup() }

// splice replaces the runes in r with replacement, without touching undo state.
func (b *Buffer) splice(r Range, replacement []rune) {
	next := make([]rune, 0, len(b.content)-r.Length+len(replacement))
	next = append(next, b.content[:r.Location]...)
	next = append(next, replacement...)
	next = append(next, b.content[r.End():]...)
	b.content = next
}

// ApplyUndo reverts the most recent operation group. Returns false when there
// is nothing to undo.
func (b *Buffer) ApplyUndo() bool {
	ops := b.Undo.PopUndo()
	if len(ops) == 0 {
		return false
	}
	for _, op := range ops {
		switch op.Type {
		case OpInsert:
			b.splice(Range{Location: op.Pos, Length: len([]rune(op.Text))}, nil)
		case OpDelete:
			b.splice(Range{Location: op.Pos}, []rune(op.Text))
		}
	}
	b.Selection = ops[len(ops)-1].Selection
	b.Dirty = b.String() != b.savedSnapshot
	return true
}

// ApplyRedo reapplies the most recently undone operation group.
func (b *Buffer) ApplyRedo() bool {
	ops := b.Undo.PopRedo()
	if len(ops) == 0 {
		return false
	}
	for _, op := range ops {
		switch op.Type {
		case OpInsert:
			b.splice(Range{Location: op.Pos}, []rune(op.Text))
		case OpDelete:
			b.splice(Range{Location: op.Pos, Length: len([]rune(op.Text))}, nil)
		}
	}
	b.Dirty = b.String() != b.savedSnapshot
	return true
}
