package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liveboard/liveboard/internal/document"
	"github.com/liveboard/liveboard/internal/geom"
	"github.com/liveboard/liveboard/internal/viewport"
)

func withNote(e *Engine) {
	e.scene.AddSticky(document.StickyNote{ID: "n", X: 100, Y: 100, Width: 200, Height: 150, Color: "#fff59d"})
}

func note(t *testing.T, e *Engine) document.StickyNote {
	t.Helper()
	n, ok := e.scene.Sticky("n")
	require.True(t, ok)
	return n
}

func TestDragStickyIsUndoable(t *testing.T) {
	e, _ := newTestEngine(t)
	withNote(e)
	pen := tool(ToolPen)

	e.PointerDown(at(150, 150), pen)
	assert.Equal(t, StateDraggingSticky, e.State())
	e.PointerMove(at(170, 140), pen)
	e.PointerUp(at(170, 140), pen)

	n := note(t, e)
	assert.Equal(t, geom.Pt(120, 90), geom.Pt(n.X, n.Y))
	assert.Empty(t, e.scene.Shapes, "dragging a note does not draw")

	e.Undo()
	n = note(t, e)
	assert.Equal(t, geom.Pt(100, 100), geom.Pt(n.X, n.Y))
}

func TestClickWithoutMoveRecordsNothing(t *testing.T) {
	e, _ := newTestEngine(t)
	withNote(e)
	drag(e, tool(ToolPen), geom.Pt(150, 150))
	assert.False(t, e.CanUndo())
}

func TestResizeHandleUsesScreenPixels(t *testing.T) {
	e, _ := newTestEngine(t)
	withNote(e)
	e.scene.Viewport = viewport.Viewport{Scale: 0.5}
	pen := tool(ToolPen)

	// Bottom-right corner (300, 250) is at screen (150, 125).
	e.PointerDown(at(145, 120), pen)
	assert.Equal(t, StateResizingSticky, e.State())
	e.PointerMove(at(95, 90), pen)
	e.PointerUp(at(95, 90), pen)

	n := note(t, e)
	assert.Equal(t, 100.0, n.Width)
	assert.Equal(t, 90.0, n.Height)

	e.Undo()
	n = note(t, e)
	assert.Equal(t, 200.0, n.Width)
	assert.Equal(t, 150.0, n.Height)
}

func TestResizeClampsToMinimum(t *testing.T) {
	e, _ := newTestEngine(t)
	withNote(e)
	drag(e, tool(ToolPen), geom.Pt(295, 245), geom.Pt(0, 0))

	n := note(t, e)
	assert.Equal(t, document.MinStickyWidth, n.Width)
	assert.Equal(t, document.MinStickyHeight, n.Height)
}

func TestLockedStickyDoesNotMove(t *testing.T) {
	e, _ := newTestEngine(t)
	withNote(e)
	e.LockSticky("n", true)
	assert.False(t, e.CanUndo(), "locking is not an undoable action")

	drag(e, tool(ToolPen), geom.Pt(150, 150), geom.Pt(400, 400))
	assert.Equal(t, 100.0, note(t, e).X)
	assert.Empty(t, e.scene.Shapes)

	_, ok := e.BeginStickyEdit("n", document.StickyFieldBody)
	assert.False(t, ok)

	e.LockSticky("n", false)
	drag(e, tool(ToolPen), geom.Pt(150, 150), geom.Pt(160, 150))
	assert.Equal(t, 110.0, note(t, e).X)
}

func TestEraserPassesOverStickies(t *testing.T) {
	e, _ := newTestEngine(t)
	withNote(e)
	e.scene.AddStroke(document.Shape{ID: "s", Points: []float64{100, 200, 300, 200}})
	drag(e, tool(ToolEraser), geom.Pt(200, 200))

	assert.Empty(t, e.scene.Shapes)
	assert.Len(t, e.scene.Stickies, 1)
}

func TestDeleteAndRecolorSticky(t *testing.T) {
	e, _ := newTestEngine(t)
	withNote(e)
	e.SetStickyColor("n", "#b3e5fc")
	assert.Equal(t, "#b3e5fc", note(t, e).Color)
	e.SetStickyColor("n", "#b3e5fc")

	e.DeleteSticky("n")
	assert.Empty(t, e.scene.Stickies)
	e.DeleteSticky("missing")

	undo, _ := e.log.Len()
	assert.Equal(t, 2, undo)

	e.Undo()
	assert.Equal(t, "#b3e5fc", note(t, e).Color)
	e.Undo()
	assert.Equal(t, "#fff59d", note(t, e).Color)
}

func TestDeleteTextWhileEditing(t *testing.T) {
	e, _ := newTestEngine(t)
	withTexts(e)
	e.BeginTextEdit("a")
	e.SetEditText("alpha2")
	e.DeleteText("a")

	_, ok := e.scene.Text("a")
	assert.False(t, ok)
	_, _, _, editing := e.EditFocus()
	assert.False(t, editing)

	e.Undo()
	ta, ok := e.scene.Text("a")
	require.True(t, ok)
	assert.Equal(t, "alpha2", ta.Text)
	e.Undo()
	ta, _ = e.scene.Text("a")
	assert.Equal(t, "alpha", ta.Text)
}

func TestHitStickyTopmostFirst(t *testing.T) {
	scene := document.NewScene()
	scene.AddSticky(document.StickyNote{ID: "below", Width: 100, Height: 100})
	scene.AddSticky(document.StickyNote{ID: "above", X: 50, Y: 50, Width: 100, Height: 100})

	n, ok := HitSticky(scene, geom.Pt(75, 75))
	require.True(t, ok)
	assert.Equal(t, "above", n.ID)
	n, _ = HitSticky(scene, geom.Pt(10, 10))
	assert.Equal(t, "below", n.ID)
	_, ok = HitSticky(scene, geom.Pt(500, 500))
	assert.False(t, ok)
}

func TestUndoMidDragRestoresNote(t *testing.T) {
	e, _ := newTestEngine(t)
	withNote(e)
	s := tool(ToolPen)
	e.PointerDown(at(150, 150), s)
	e.PointerMove(at(170, 180), s)
	require.Equal(t, StateDraggingSticky, e.State())

	require.True(t, e.Undo())
	assert.Equal(t, StateIdle, e.State())
	n := note(t, e)
	assert.Equal(t, 100.0, n.X)
	assert.Equal(t, 100.0, n.Y)

	e.PointerMove(at(300, 300), s)
	assert.Equal(t, 100.0, note(t, e).X)
	require.True(t, e.Redo())
	assert.Equal(t, 120.0, note(t, e).X)
}

func TestRecolorDuringEditKeepsBothUndoable(t *testing.T) {
	e, _ := newTestEngine(t)
	withNote(e)
	e.scene.UpdateSticky("n", document.StickyPatch{Content: document.Ref("A")})

	_, ok := e.BeginStickyEdit("n", document.StickyFieldBody)
	require.True(t, ok)
	e.SetEditSticky("AB")
	e.SetStickyColor("n", "#ef9a9a")
	e.CommitEdit()

	n := note(t, e)
	assert.Equal(t, "AB", n.Content)
	assert.Equal(t, "#ef9a9a", n.Color)

	for e.Undo() {
	}
	n = note(t, e)
	assert.Equal(t, "A", n.Content)
	assert.Equal(t, "#fff59d", n.Color)

	for e.Redo() {
	}
	n = note(t, e)
	assert.Equal(t, "AB", n.Content)
	assert.Equal(t, "#ef9a9a", n.Color)
}
