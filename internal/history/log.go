package history

import (
	"log/slog"

	"github.com/liveboard/liveboard/internal/document"
)

// RedoCapacity bounds the number of undone actions kept for redo. Beyond it
// the oldest undone entries are dropped silently. This is a memory valve:
// after undoing more than RedoCapacity actions, only the most recent
// RedoCapacity of them can be redone.
const RedoCapacity = 50

// Log is a linear undo/redo history. It is not safe for concurrent use; the
// engine mutates it from the same call stack that mutates the scene.
type Log struct {
	undo []Action
	redo []Action
}

func NewLog() *Log {
	return &Log{}
}

// Push records a fresh user action. Any pending redo history is discarded.
func (l *Log) Push(a Action) {
	l.undo = append(l.undo, a)
	clear(l.redo)
	l.redo = l.redo[:0]
}

// Undo reverts the most recent action. It reports false when there was
// nothing to undo.
func (l *Log) Undo(scene *document.Scene) bool {
	if len(l.undo) == 0 {
		return false
	}
	a := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]

	a = undoHandlers[a.Kind](scene, a)
	l.pushRedo(a)
	return true
}

// Redo re-applies the most recently undone action. It reports false when
// the redo stack is empty, which is always the case after a fresh Push.
func (l *Log) Redo(scene *document.Scene) bool {
	if len(l.redo) == 0 {
		return false
	}
	a := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]

	a = redoHandlers[a.Kind](scene, a)
	l.undo = append(l.undo, a)
	return true
}

func (l *Log) pushRedo(a Action) {
	l.redo = append(l.redo, a)
	if over := len(l.redo) - RedoCapacity; over > 0 {
		slog.Debug("redo history full, dropping oldest", "dropped", over)
		l.redo = append(l.redo[:0], l.redo[over:]...)
	}
}

func (l *Log) CanUndo() bool { return len(l.undo) > 0 }
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// Len returns the sizes of the undo and redo stacks.
func (l *Log) Len() (undo, redo int) {
	return len(l.undo), len(l.redo)
}

// Reset drops all history, e.g. after loading a different scene.
func (l *Log) Reset() {
	l.undo = nil
	l.redo = nil
}

// Peek returns the most recent undoable action.
func (l *Log) Peek() (Action, bool) {
	if len(l.undo) == 0 {
		return Action{}, false
	}
	return l.undo[len(l.undo)-1], true
}

// handler applies one direction of an action and returns the action to put
// on the opposite stack, possibly with a refreshed payload.
type handler func(scene *document.Scene, a Action) Action

var undoHandlers = map[Kind]handler{
	KindDraw: func(scene *document.Scene, a Action) Action {
		// The stroke may have grown since it was recorded at pointer-down.
		if shape, ok := scene.RemoveShape(a.Shape.ID); ok {
			a.Shape = shape.Clone()
		}
		return a
	},
	KindErase: func(scene *document.Scene, a Action) Action {
		scene.AddShape(a.Shape.Clone())
		return a
	},
	KindAddText: func(scene *document.Scene, a Action) Action {
		if t, ok := scene.RemoveText(a.Text.ID); ok {
			t.IsEditing = false
			a.Text = t
		}
		return a
	},
	KindEditText: func(scene *document.Scene, a Action) Action {
		scene.UpdateText(a.ID, a.FromText)
		return a
	},
	KindRemoveText: func(scene *document.Scene, a Action) Action {
		scene.AddText(a.Text)
		return a
	},
	KindAddSticky: func(scene *document.Scene, a Action) Action {
		if n, ok := scene.RemoveSticky(a.After.ID); ok {
			n.Editing = document.StickyFieldNone
			a.After = n
		}
		return a
	},
	KindEditSticky: func(scene *document.Scene, a Action) Action {
		scene.UpdateSticky(a.ID, contentPatch(a.Before))
		return a
	},
	KindMoveSticky: func(scene *document.Scene, a Action) Action {
		scene.UpdateSticky(a.ID, positionPatch(a.Before))
		return a
	},
	KindResizeSticky: func(scene *document.Scene, a Action) Action {
		scene.UpdateSticky(a.ID, sizePatch(a.Before))
		return a
	},
	KindRemoveSticky: func(scene *document.Scene, a Action) Action {
		scene.AddSticky(a.After)
		return a
	},
	KindClear: func(scene *document.Scene, a Action) Action {
		if a.Cleared != nil {
			restored := a.Cleared.Clone()
			scene.Shapes = restored.Shapes
			scene.Texts = restored.Texts
			scene.Stickies = restored.Stickies
		}
		return a
	},
}

var redoHandlers = map[Kind]handler{
	KindDraw: func(scene *document.Scene, a Action) Action {
		scene.AddShape(a.Shape.Clone())
		return a
	},
	KindErase: func(scene *document.Scene, a Action) Action {
		scene.RemoveShape(a.Shape.ID)
		return a
	},
	KindAddText: func(scene *document.Scene, a Action) Action {
		scene.AddText(a.Text)
		return a
	},
	KindEditText: func(scene *document.Scene, a Action) Action {
		scene.UpdateText(a.ID, a.ToText)
		return a
	},
	KindRemoveText: func(scene *document.Scene, a Action) Action {
		scene.RemoveText(a.Text.ID)
		return a
	},
	KindAddSticky: func(scene *document.Scene, a Action) Action {
		scene.AddSticky(a.After)
		return a
	},
	KindEditSticky: func(scene *document.Scene, a Action) Action {
		scene.UpdateSticky(a.ID, contentPatch(a.After))
		return a
	},
	KindMoveSticky: func(scene *document.Scene, a Action) Action {
		scene.UpdateSticky(a.ID, positionPatch(a.After))
		return a
	},
	KindResizeSticky: func(scene *document.Scene, a Action) Action {
		scene.UpdateSticky(a.ID, sizePatch(a.After))
		return a
	},
	KindRemoveSticky: func(scene *document.Scene, a Action) Action {
		scene.RemoveSticky(a.After.ID)
		return a
	},
	KindClear: func(scene *document.Scene, a Action) Action {
		a.Cleared = scene.Clone()
		scene.Clear()
		return a
	},
}

func contentPatch(n document.StickyNote) document.StickyPatch {
	return document.StickyPatch{Title: &n.Title, Content: &n.Content, Color: &n.Color}
}

func positionPatch(n document.StickyNote) document.StickyPatch {
	return document.StickyPatch{X: &n.X, Y: &n.Y}
}

func sizePatch(n document.StickyNote) document.StickyPatch {
	return document.StickyPatch{Width: &n.Width, Height: &n.Height}
}
