// Package history is the undo/redo log for scene mutations.
//
// Every entry is an Action: a kind tag plus the payload that kind needs.
// Undo and redo dispatch on the kind to one handler each, so an entry
// always carries everything required to replay it in either direction.
package history

import "github.com/liveboard/liveboard/internal/document"

type Kind string

const (
	KindDraw         Kind = "draw"
	KindErase        Kind = "erase"
	KindAddText      Kind = "addText"
	KindEditText     Kind = "editText"
	KindRemoveText   Kind = "removeText"
	KindAddSticky    Kind = "addSticky"
	KindEditSticky   Kind = "editSticky"
	KindMoveSticky   Kind = "moveSticky"
	KindResizeSticky Kind = "resizeSticky"
	KindRemoveSticky Kind = "removeSticky"
	KindClear        Kind = "clear"
)

// Action is one undoable scene mutation.
type Action struct {
	Kind Kind

	// Draw, Erase
	Shape document.Shape

	// AddText, RemoveText
	Text document.TextAnnotation

	// EditText
	ID       string
	FromText string
	ToText   string

	// AddSticky, RemoveSticky use After; Edit/Move/ResizeSticky use both.
	Before document.StickyNote
	After  document.StickyNote

	// Clear
	Cleared *document.Scene
}

func Draw(shape document.Shape) Action {
	return Action{Kind: KindDraw, Shape: shape.Clone()}
}

func Erase(shape document.Shape) Action {
	return Action{Kind: KindErase, Shape: shape.Clone()}
}

func AddText(t document.TextAnnotation) Action {
	t.IsEditing = false
	return Action{Kind: KindAddText, Text: t}
}

func EditText(id, from, to string) Action {
	return Action{Kind: KindEditText, ID: id, FromText: from, ToText: to}
}

func RemoveText(t document.TextAnnotation) Action {
	t.IsEditing = false
	return Action{Kind: KindRemoveText, Text: t}
}

func AddSticky(n document.StickyNote) Action {
	n.Editing = document.StickyFieldNone
	return Action{Kind: KindAddSticky, After: n}
}

func EditSticky(before, after document.StickyNote) Action {
	return stickyChange(KindEditSticky, before, after)
}

func MoveSticky(before, after document.StickyNote) Action {
	return stickyChange(KindMoveSticky, before, after)
}

func ResizeSticky(before, after document.StickyNote) Action {
	return stickyChange(KindResizeSticky, before, after)
}

func RemoveSticky(n document.StickyNote) Action {
	n.Editing = document.StickyFieldNone
	return Action{Kind: KindRemoveSticky, After: n}
}

// Clear records a whole-scene wipe; scene is the content before the wipe.
func Clear(scene *document.Scene) Action {
	return Action{Kind: KindClear, Cleared: scene.Clone()}
}

func stickyChange(kind Kind, before, after document.StickyNote) Action {
	before.Editing = document.StickyFieldNone
	after.Editing = document.StickyFieldNone
	return Action{Kind: kind, ID: after.ID, Before: before, After: after}
}
