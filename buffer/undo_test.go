package buffer

import (
	"testing"
	"time"
)

func TestUndoGroupsRapidSingleCharInserts(t *testing.T) {
	b := New("")
	for i, ch := range "block" {
		b.Replace(Range{Location: i}, string(ch))
	}
	if got := b.String(); got != "block" {
		t.Fatalf("expected block, got %q", got)
	}

	b.ApplyUndo()
	if got := b.String(); got != "" {
		t.Fatalf("expected rapid typing to undo as one word, got %q", got)
	}

	b.ApplyRedo()
	if got := b.String(); got != "block" {
		t.Fatalf("expected block after redo, got %q", got)
	}
}

func TestUndoGroupBreaksOnTimeWindow(t *testing.T) {
	b := New("")
	for i, ch := range "ab" {
		b.Replace(Range{Location: i}, string(ch))
	}
	// Force a group boundary before the next insert burst.
	b.Undo.undos[len(b.Undo.undos)-1].Time = time.Now().Add(-undoGroupInterval - time.Millisecond)
	b.Replace(Range{Location: 2}, "c")

	b.ApplyUndo()
	if got := b.String(); got != "ab" {
		t.Fatalf("expected only the late insert undone, got %q", got)
	}
}

func TestUndoGroupBreaksOnWhitespace(t *testing.T) {
	b := New("")
	b.Replace(Range{Location: 0}, "a")
	b.Replace(Range{Location: 1}, " ")
	b.Replace(Range{Location: 2}, "b")

	b.ApplyUndo()
	if got := b.String(); got != "a " {
		t.Fatalf("expected space to break the undo group, got %q", got)
	}
}

func TestPushClearsRedos(t *testing.T) {
	b := New("")
	b.Replace(Range{}, "x")
	b.ApplyUndo()
	if !b.Undo.CanRedo() {
		t.Fatalf("expected a redo after undo")
	}
	b.Replace(Range{}, "y")
	if b.Undo.CanRedo() {
		t.Fatalf("expected new edit to clear redos")
	}
}
