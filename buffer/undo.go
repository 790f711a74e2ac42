package buffer

import "time"

type OpType int

const (
	OpInsert OpType = iota
	OpDelete
)

// Operation is one primitive edit in undo coordinates: an insertion or
// removal of Text at character offset Pos.
type Operation struct {
	Type      OpType
	Pos       int
	Text      string
	Selection Range     // selection before the op, restored on undo
	Time      time.Time // when the operation was recorded
	Group     int       // group ID for batched undo (0 = ungrouped)
}

// UndoStack records operations and replays them in grouped units.
// BeginGroup/EndGroup bracket a transaction: the calls nest, and every
// operation pushed while the depth is nonzero shares one group ID, so the
// whole transaction undoes and redoes atomically.
type UndoStack struct {
	undos      []Operation
	redos      []Operation
	nextGroup  int
	groupDepth int
	groupID    int // active group while groupDepth > 0
}

const undoGroupInterval = 300 * time.Millisecond

func NewUndoStack() *UndoStack {
	return &UndoStack{nextGroup: 1}
}

func (u *UndoStack) BeginGroup() {
	u.groupDepth++
	if u.groupDepth == 1 {
		u.groupID = u.nextGroup
		u.nextGroup++
	}
}

func (u *UndoStack) EndGroup() {
	if u.groupDepth > 0 {
		u.groupDepth--
	}
	if u.groupDepth == 0 {
		u.groupID = 0
	}
}

func (u *UndoStack) Push(op Operation) {
	op.Time = time.Now()

	if u.groupDepth > 0 {
		op.Group = u.groupID
	} else if len(u.undos) > 0 {
		// Auto-group sequential single-character inserts/deletes within the
		// time window, so typing a word undoes as one unit.
		prev := &u.undos[len(u.undos)-1]
		if prev.Type == op.Type && len(op.Text) == 1 && len(prev.Text) == 1 &&
			op.Time.Sub(prev.Time) < undoGroupInterval &&
			!isGroupBreak(prev, &op) {
			if prev.Group == 0 {
				prev.Group = u.nextGroup
				u.nextGroup++
			}
			op.Group = prev.Group
		}
	}

	u.undos = append(u.undos, op)
	u.redos = u.redos[:0]
}

// isGroupBreak returns true if consecutive ops should NOT be grouped
// (whitespace breaks a word group, as do non-adjacent positions).
func isGroupBreak(prev, cur *Operation) bool {
	ch := cur.Text[0]
	if ch == ' ' || ch == '\n' || ch == '\r' || ch == '\t' {
		return true
	}
	prevCh := prev.Text[0]
	if prevCh == ' ' || prevCh == '\n' || prevCh == '\r' || prevCh == '\t' {
		return true
	}
	if cur.Type == OpInsert {
		return cur.Pos != prev.Pos+1
	}
	return false
}

func (u *UndoStack) CanUndo() bool { return len(u.undos) > 0 }
func (u *UndoStack) CanRedo() bool { return len(u.redos) > 0 }

// PopUndo pops the top operation and all others in the same group,
// most recent first.
func (u *UndoStack) PopUndo() []Operation {
	if len(u.undos) == 0 {
		return nil
	}
	ops := []Operation{u.undos[len(u.undos)-1]}
	u.undos = u.undos[:len(u.undos)-1]

	if group := ops[0].Group; group != 0 {
		for len(u.undos) > 0 && u.undos[len(u.undos)-1].Group == group {
			ops = append(ops, u.undos[len(u.undos)-1])
			u.undos = u.undos[:len(u.undos)-1]
		}
	}
	u.redos = append(u.redos, ops...)
	return ops
}

// PopRedo pops the top redo operation and all others in the same group,
// in original application order.
func (u *UndoStack) PopRedo() []Operation {
	if len(u.redos) == 0 {
		return nil
	}
	ops := []Operation{u.redos[len(u.redos)-1]}
	u.redos = u.redos[:len(u.redos)-1]

	if group := ops[0].Group; group != 0 {
		for len(u.redos) > 0 && u.redos[len(u.redos)-1].Group == group {
			ops = append(ops, u.redos[len(u.redos)-1])
			u.redos = u.redos[:len(u.redos)-1]
		}
	}
	u.undos = append(u.undos, ops...)
	return ops
}
