package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liveboard/liveboard/internal/document"
	"github.com/liveboard/liveboard/internal/geom"
	"github.com/liveboard/liveboard/internal/history"
	"github.com/liveboard/liveboard/internal/theme"
	"github.com/liveboard/liveboard/internal/viewport"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestEngine(t *testing.T) (*Engine, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(nil, Options{Debug: true, Now: clock.Now}), clock
}

func tool(t Tool) Settings {
	s := DefaultSettings()
	s.Tool = t
	return s
}

func at(x, y float64) PointerEvent {
	return PointerEvent{PointerID: 1, X: x, Y: y}
}

func drag(e *Engine, s Settings, pts ...geom.Point) {
	e.PointerDown(at(pts[0].X, pts[0].Y), s)
	for _, p := range pts[1:] {
		e.PointerMove(at(p.X, p.Y), s)
	}
	last := pts[len(pts)-1]
	e.PointerUp(at(last.X, last.Y), s)
}

func shapeTypes(scene *document.Scene) []document.ShapeType {
	out := []document.ShapeType{}
	for _, s := range scene.Shapes {
		out = append(out, s.Type)
	}
	return out
}

func TestPenDrawsStrokeInWorldSpace(t *testing.T) {
	e, _ := newTestEngine(t)
	e.scene.Viewport = viewport.Viewport{Scale: 2, OffsetX: 10, OffsetY: 10}
	pen := tool(ToolPen)

	e.PointerDown(at(10, 10), pen)
	assert.Equal(t, StateDrawing, e.State())
	assert.Equal(t, ToolPen, e.Status().Tool)
	e.PointerMove(at(30, 10), pen)
	e.PointerMove(at(30, 10), pen)
	e.PointerUp(at(30, 10), pen)

	assert.Equal(t, StateIdle, e.State())
	require.Len(t, e.scene.Shapes, 1)
	assert.Equal(t, []float64{0, 0, 10, 0, 10, 0}, e.scene.Shapes[0].Points)
	assert.Equal(t, "#000000", e.scene.Shapes[0].Color)

	require.True(t, e.Undo())
	assert.Empty(t, e.scene.Shapes)
	require.True(t, e.Redo())
	require.Len(t, e.scene.Shapes, 1)
	assert.Len(t, e.scene.Shapes[0].Points, 6)
}

func TestEraserRadiusScalesWithZoom(t *testing.T) {
	line := document.Shape{Type: document.ShapeStroke, Points: []float64{0, 0, 100, 0}}
	assert.True(t, IsStrokeErased(line, geom.Pt(50, 0), 1))
	assert.False(t, IsStrokeErased(line, geom.Pt(50, 10), 1))

	dot := document.Shape{Type: document.ShapeStroke, Points: []float64{5, 5}}
	assert.True(t, IsStrokeErased(dot, geom.Pt(5, 5.5), 1))
	assert.False(t, IsStrokeErased(dot, geom.Pt(5, 7), 1))

	tests := []struct {
		name   string
		worldY float64
		erased bool
	}{
		{"inside half radius", 0.4, true},
		{"outside half radius", 0.6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t)
			e.scene.Viewport = viewport.Viewport{Scale: 2}
			e.scene.AddStroke(line.Clone())
			s := tool(ToolEraser)
			s.EraserRadius = 1

			p := e.scene.Viewport.WorldToScreen(geom.Pt(50, tt.worldY))
			drag(e, s, p)
			assert.Equal(t, !tt.erased, len(e.scene.Shapes) == 1)
		})
	}
}

func TestContinuousEraseRecordsOneActionPerShape(t *testing.T) {
	e, _ := newTestEngine(t)
	for _, y := range []float64{0, 20, 40} {
		e.scene.AddStroke(document.Shape{ID: "s", Points: []float64{0, y, 100, y}})
	}
	s := tool(ToolEraser)
	s.EraserRadius = 2
	drag(e, s, geom.Pt(50, -5), geom.Pt(50, 0), geom.Pt(50, 20), geom.Pt(50, 40))

	assert.Empty(t, e.scene.Shapes)
	undo, _ := e.log.Len()
	assert.Equal(t, 3, undo)

	e.Undo()
	require.Len(t, e.scene.Shapes, 1)
	assert.Equal(t, 40.0, e.scene.Shapes[0].Points[1])
}

func TestEraserRemovesAnchoredShapesByOutline(t *testing.T) {
	e, _ := newTestEngine(t)
	e.scene.AddShape(document.Shape{ID: "r", Type: document.ShapeRectangle, X1: 0, Y1: 0, X2: 100, Y2: 100})
	s := tool(ToolEraser)
	s.EraserRadius = 3

	drag(e, s, geom.Pt(50, 50))
	assert.Len(t, e.scene.Shapes, 1, "the inside of a rectangle is not its outline")

	drag(e, s, geom.Pt(50, 101))
	assert.Empty(t, e.scene.Shapes)
}

func TestDrawRectEraseStrokeUndoTwiceLeavesStroke(t *testing.T) {
	e, _ := newTestEngine(t)
	drag(e, tool(ToolPen), geom.Pt(0, 0), geom.Pt(100, 0))
	drag(e, tool(ToolShape), geom.Pt(200, 200), geom.Pt(300, 300))
	require.Equal(t, []document.ShapeType{document.ShapeStroke, document.ShapeRectangle}, shapeTypes(e.scene))

	drag(e, tool(ToolEraser), geom.Pt(50, 0))
	require.Equal(t, []document.ShapeType{document.ShapeRectangle}, shapeTypes(e.scene))

	e.Undo()
	e.Undo()
	assert.Equal(t, []document.ShapeType{document.ShapeStroke}, shapeTypes(e.scene))
	assert.Equal(t, []float64{0, 0, 100, 0}, e.scene.Shapes[0].Points)
}

func TestShapePreview(t *testing.T) {
	e, _ := newTestEngine(t)
	s := tool(ToolShape)
	s.ShapeType = document.ShapeEllipse

	e.PointerDown(at(10, 10), s)
	assert.Equal(t, StatePreviewingShape, e.State())
	e.PointerMove(PointerEvent{PointerID: 1, X: 50, Y: 30, Modifiers: Modifiers{Shift: true}}, s)

	preview, ok := e.Preview()
	require.True(t, ok)
	assert.Equal(t, 50.0, preview.X2)
	assert.Equal(t, 50.0, preview.Y2)
	assert.Empty(t, e.scene.Shapes, "preview is not committed")

	e.PointerUp(at(50, 30), s)
	_, ok = e.Preview()
	assert.False(t, ok)
	require.Len(t, e.scene.Shapes, 1)
	assert.Equal(t, document.ShapeEllipse, e.scene.Shapes[0].Type)
	assert.True(t, e.CanUndo())
}

func TestZeroExtentPreviewIsDiscarded(t *testing.T) {
	e, _ := newTestEngine(t)
	drag(e, tool(ToolShape), geom.Pt(10, 10))
	assert.Empty(t, e.scene.Shapes)
	assert.False(t, e.CanUndo())
}

func TestNewActionInvalidatesRedo(t *testing.T) {
	e, _ := newTestEngine(t)
	drag(e, tool(ToolPen), geom.Pt(0, 0), geom.Pt(1, 1))
	drag(e, tool(ToolPen), geom.Pt(5, 5), geom.Pt(6, 6))
	e.Undo()
	require.True(t, e.CanRedo())

	drag(e, tool(ToolPen), geom.Pt(9, 9))
	assert.False(t, e.Redo())
	assert.Len(t, e.scene.Shapes, 2)
}

func TestPanWithModifierOrSecondaryButton(t *testing.T) {
	tests := []struct {
		name string
		ev   PointerEvent
	}{
		{"ctrl", PointerEvent{PointerID: 1, Modifiers: Modifiers{Ctrl: true}}},
		{"meta", PointerEvent{PointerID: 1, Modifiers: Modifiers{Meta: true}}},
		{"alt", PointerEvent{PointerID: 1, Modifiers: Modifiers{Alt: true}}},
		{"secondary", PointerEvent{PointerID: 1, Button: ButtonSecondary}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t)
			e.PointerDown(tt.ev, tool(ToolPen))
			assert.Equal(t, StatePanning, e.State())

			move := tt.ev
			move.X, move.Y = 15, -5
			e.PointerMove(move, tool(ToolPen))
			e.PointerUp(move, tool(ToolPen))

			assert.Equal(t, StateIdle, e.State())
			assert.Equal(t, geom.Pt(15, -5), e.Viewport().Offset())
			assert.Empty(t, e.scene.Shapes)
			assert.False(t, e.CanUndo())
		})
	}
}

func TestOnlyCapturedPointerEndsOperation(t *testing.T) {
	e, _ := newTestEngine(t)
	pen := tool(ToolPen)
	e.PointerDown(at(0, 0), pen)

	other := PointerEvent{PointerID: 2, X: 50, Y: 50}
	e.PointerDown(other, pen)
	e.PointerMove(other, pen)
	e.PointerUp(other, pen)
	e.PointerLeave(other, pen)
	assert.Equal(t, StateDrawing, e.State())
	require.Len(t, e.scene.Shapes, 1)
	assert.Len(t, e.scene.Shapes[0].Points, 2)

	e.PointerLeave(at(5, 5), pen)
	assert.Equal(t, StateIdle, e.State())

	e.PointerMove(at(10, 10), pen)
	assert.Len(t, e.scene.Shapes[0].Points, 2, "moves after leave are ignored")
}

func TestWheelZoomIgnoredWhileDrawing(t *testing.T) {
	e, _ := newTestEngine(t)
	e.PointerDown(at(0, 0), tool(ToolPen))
	e.Wheel(WheelEvent{X: 10, Y: 10, DeltaY: -1})
	assert.Equal(t, 1.0, e.Viewport().Scale)
	e.PointerUp(at(0, 0), tool(ToolPen))

	e.Wheel(WheelEvent{X: 10, Y: 10, DeltaY: -1})
	assert.InDelta(t, viewport.ScaleBy, e.Viewport().Scale, 1e-12)
	assert.Equal(t, StateIdle, e.State())
}

func TestPinchSuspendsPointerOperation(t *testing.T) {
	e, _ := newTestEngine(t)
	pen := tool(ToolPen)
	e.PointerDown(at(0, 0), pen)

	e.TouchStart([]Touch{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 100, Y: 0}})
	assert.Equal(t, StatePinchZooming, e.State())
	e.PointerMove(at(40, 40), pen)
	assert.Len(t, e.scene.Shapes[0].Points, 2)

	e.TouchMove([]Touch{{ID: 1, X: -50, Y: 0}, {ID: 2, X: 150, Y: 0}})
	assert.InDelta(t, 2.0, e.Viewport().Scale, 1e-9)
	// The start center stays under the current center.
	assert.InDelta(t, 50, e.Viewport().WorldToScreen(geom.Pt(50, 0)).X, 1e-9)

	e.TouchEnd([]Touch{{ID: 2, X: 150, Y: 0}})
	assert.Equal(t, StateIdle, e.State())
	e.PointerDown(at(0, 0), pen)
	assert.Equal(t, StateDrawing, e.State())
}

func TestAppendWithoutStrokePanicsInDebug(t *testing.T) {
	e, _ := newTestEngine(t)
	e.PointerDown(at(0, 0), tool(ToolPen))
	e.scene.AddShape(document.Shape{ID: "r", Type: document.ShapeRectangle, X2: 1, Y2: 1})
	assert.Panics(t, func() { e.PointerMove(at(1, 1), tool(ToolPen)) })

	quiet := New(nil, Options{})
	quiet.PointerDown(at(0, 0), tool(ToolPen))
	quiet.scene.Shapes = nil
	assert.NotPanics(t, func() { quiet.PointerMove(at(1, 1), tool(ToolPen)) })
}

func TestOnChange(t *testing.T) {
	e, _ := newTestEngine(t)
	var changes []Change
	e.OnChange(func(c Change) { changes = append(changes, c) })

	drag(e, tool(ToolPen), geom.Pt(0, 0), geom.Pt(1, 1))
	e.Wheel(WheelEvent{DeltaY: 1})

	require.Len(t, changes, 3)
	assert.True(t, changes[0].Scene)
	assert.True(t, changes[2].Viewport)
	assert.True(t, changes[2].Persist())
	assert.False(t, Change{Overlay: true}.Persist())
}

func TestClearAllIsUndoable(t *testing.T) {
	e, _ := newTestEngine(t)
	e.LoadSample()
	before := e.Scene().Clone()

	e.ClearAll()
	assert.True(t, e.Scene().IsEmpty())
	e.ClearAll()
	undo, _ := e.log.Len()
	assert.Equal(t, 1, undo, "clearing an empty board records nothing")

	e.Undo()
	assert.Equal(t, before.Shapes, e.Scene().Shapes)
	assert.Equal(t, before.Texts, e.Scene().Texts)
}

func TestLoadResetsHistory(t *testing.T) {
	e, _ := newTestEngine(t)
	drag(e, tool(ToolPen), geom.Pt(0, 0))
	e.LoadSnapshot(nil)
	assert.False(t, e.CanUndo())
	assert.True(t, e.Scene().IsEmpty())
}

func TestRender(t *testing.T) {
	e, _ := newTestEngine(t)
	drag(e, tool(ToolPen), geom.Pt(0, 0), geom.Pt(10, 0))
	e.scene.AddText(document.TextAnnotation{ID: "t", Text: "hi", Color: "#000000", FontSize: 12})
	e.PointerDown(at(0, 0), tool(ToolShape))
	e.PointerMove(at(20, 20), tool(ToolShape))

	cmds := e.Render(theme.Dark)
	require.Len(t, cmds, 4)
	assert.Equal(t, "clear", cmds[0].Op)
	assert.Equal(t, "#ffffff", cmds[1].Stroke, "black ink is remapped in dark theme")
	assert.True(t, cmds[2].Preview)
	assert.Equal(t, "text", cmds[3].Op)
	assert.Equal(t, "#000000", e.scene.Texts[0].Color, "stored colors are untouched")

	assert.Contains(t, e.RenderJSON(theme.Light), `"op":"path"`)
}

func TestHitTestAndBounds(t *testing.T) {
	e, _ := newTestEngine(t)
	e.scene.AddStroke(document.Shape{ID: "s", Points: []float64{0, 0, 100, 0}, StrokeWidth: 2})
	e.scene.AddSticky(document.StickyNote{ID: "n", X: 200, Y: 200, Width: 100, Height: 100})

	assert.Equal(t, "s", e.HitTest(50, 2, 2))
	assert.Equal(t, "n", e.HitTest(250, 250, 2))
	assert.Equal(t, "", e.HitTest(50, 50, 2))
	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 300, Height: 300}, e.Bounds())
}

func TestActionKindsRecorded(t *testing.T) {
	e, _ := newTestEngine(t)
	drag(e, tool(ToolShape), geom.Pt(0, 0), geom.Pt(10, 10))
	a, ok := e.log.Peek()
	require.True(t, ok)
	assert.Equal(t, history.KindDraw, a.Kind)
	assert.Equal(t, document.ShapeRectangle, a.Shape.Type)
}

func TestUndoMidStrokeLeavesCommittedStrokesAlone(t *testing.T) {
	e, _ := newTestEngine(t)
	pen := tool(ToolPen)
	drag(e, pen, geom.Pt(0, 0), geom.Pt(10, 0))

	e.PointerDown(at(500, 500), pen)
	require.True(t, e.Undo())
	assert.Equal(t, StateIdle, e.State())

	e.PointerMove(at(600, 600), pen)
	e.PointerUp(at(600, 600), pen)

	require.Len(t, e.scene.Shapes, 1)
	assert.Equal(t, []float64{0, 0, 10, 0}, e.scene.Shapes[0].Points)

	require.True(t, e.Redo())
	require.Len(t, e.scene.Shapes, 2)
	assert.Equal(t, []float64{500, 500}, e.scene.Shapes[1].Points)
}

func TestClearAllMidStrokeEndsTheStroke(t *testing.T) {
	e, _ := newTestEngine(t)
	pen := tool(ToolPen)
	e.PointerDown(at(1, 1), pen)
	e.PointerMove(at(2, 2), pen)

	e.ClearAll()
	assert.Equal(t, StateIdle, e.State())
	assert.NotPanics(t, func() { e.PointerMove(at(3, 3), pen) })
	assert.True(t, e.Scene().IsEmpty())

	require.True(t, e.Undo())
	require.Len(t, e.scene.Shapes, 1)
	assert.Equal(t, []float64{1, 1, 2, 2}, e.scene.Shapes[0].Points)
}

func TestStrokeGrowsByIDNotPosition(t *testing.T) {
	e, _ := newTestEngine(t)
	pen := tool(ToolPen)
	e.PointerDown(at(0, 0), pen)
	e.scene.AddShape(document.Shape{ID: "r", Type: document.ShapeRectangle, X2: 5, Y2: 5})

	e.PointerMove(at(4, 4), pen)
	e.PointerUp(at(4, 4), pen)

	require.Len(t, e.scene.Shapes, 2)
	assert.Equal(t, []float64{0, 0, 4, 4}, e.scene.Shapes[0].Points)
}
