package engine

import (
	"github.com/liveboard/liveboard/internal/document"
	"github.com/liveboard/liveboard/internal/geom"
	"github.com/liveboard/liveboard/internal/history"
	"github.com/liveboard/liveboard/internal/typeid"
)

// State is the pointer state machine state.
type State string

const (
	StateIdle            State = "idle"
	StatePanning         State = "panning"
	StateDrawing         State = "drawing"
	StatePreviewingShape State = "previewingShape"
	StateEditingText     State = "editingText"
	StateDraggingSticky  State = "draggingSticky"
	StateResizingSticky  State = "resizingSticky"
	StatePinchZooming    State = "pinchZooming"
)

// Tool is the active toolbar tool.
type Tool string

const (
	ToolPen    Tool = "pen"
	ToolEraser Tool = "eraser"
	ToolShape  Tool = "shape"
	ToolText   Tool = "text"
	ToolSticky Tool = "sticky"
	ToolPan    Tool = "pan"
)

// Pointer buttons, numbered like DOM MouseEvent.button.
const (
	ButtonPrimary   = 0
	ButtonMiddle    = 1
	ButtonSecondary = 2
)

const (
	DefaultStickyWidth  = 200.0
	DefaultStickyHeight = 150.0
)

// Settings is the toolbar state the host passes with every input event.
type Settings struct {
	Tool         Tool               `json:"tool" toml:"tool"`
	PenColor     string             `json:"penColor" toml:"pen_color"`
	PenWidth     float64            `json:"penWidth" toml:"pen_width"`
	ShapeType    document.ShapeType `json:"shapeType" toml:"shape_type"`
	FontSize     float64            `json:"fontSize" toml:"font_size"`
	EraserRadius float64            `json:"eraserRadius" toml:"eraser_radius"`
	StickyColor  string             `json:"stickyColor" toml:"sticky_color"`
}

// DefaultSettings returns the toolbar defaults.
func DefaultSettings() Settings {
	return Settings{
		Tool:         ToolPen,
		PenColor:     "#000000",
		PenWidth:     3,
		ShapeType:    document.ShapeRectangle,
		FontSize:     24,
		EraserRadius: 12,
		StickyColor:  "#fff59d",
	}
}

type Modifiers struct {
	Ctrl  bool `json:"ctrl"`
	Meta  bool `json:"meta"`
	Alt   bool `json:"alt"`
	Shift bool `json:"shift"`
}

// PointerEvent is a mouse, pen or touch pointer event in screen space.
type PointerEvent struct {
	PointerID int       `json:"pointerId"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Button    int       `json:"button"`
	Modifiers Modifiers `json:"modifiers"`
}

func (ev PointerEvent) point() geom.Point {
	return geom.Pt(ev.X, ev.Y)
}

// wantsPan reports whether the event asks for a pan regardless of tool.
func (ev PointerEvent) wantsPan() bool {
	return ev.Modifiers.Ctrl || ev.Modifiers.Meta || ev.Modifiers.Alt || ev.Button == ButtonSecondary
}

// Touch is one active touch point in screen space.
type Touch struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type WheelEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY"`
}

// stickyDrag is the in-flight move or resize of a note.
type stickyDrag struct {
	before document.StickyNote
	start  geom.Point // world
}

// State returns the current state. An idle engine with an active edit focus
// reports StateEditingText.
func (e *Engine) State() State {
	if e.state == StateIdle && e.edit != nil {
		return StateEditingText
	}
	return e.state
}

func (e *Engine) resetPointer() {
	e.state = StateIdle
	e.drawTool = ""
	e.strokeID = ""
	e.captured = false
	e.preview = nil
}

func (e *Engine) capture(id int, screen geom.Point, state State) {
	e.captured = true
	e.pointerID = id
	e.lastScreen = screen
	e.state = state
}

func (e *Engine) owns(ev PointerEvent) bool {
	return e.captured && ev.PointerID == e.pointerID
}

// PointerDown starts an operation for the active tool. While another pointer
// owns an operation, or during a pinch, the event is ignored.
func (e *Engine) PointerDown(ev PointerEvent, s Settings) {
	if e.captured || e.state == StatePinchZooming {
		return
	}
	screen := ev.point()
	world := e.scene.Viewport.ScreenToWorld(screen)

	if ev.wantsPan() || s.Tool == ToolPan {
		e.CommitEdit()
		e.capture(ev.PointerID, screen, StatePanning)
		return
	}

	if s.Tool != ToolEraser {
		if note, ok := HitSticky(e.scene, world); ok {
			e.pointerDownOnSticky(ev, note, screen, world)
			return
		}
	}

	switch s.Tool {
	case ToolPen:
		e.CommitEdit()
		stroke := document.Shape{
			ID:          typeid.NewShapeID(),
			Type:        document.ShapeStroke,
			Points:      []float64{world.X, world.Y},
			Color:       s.PenColor,
			StrokeWidth: s.PenWidth,
		}
		e.scene.AddStroke(stroke)
		e.log.Push(history.Draw(stroke))
		e.capture(ev.PointerID, screen, StateDrawing)
		e.drawTool = ToolPen
		e.strokeID = stroke.ID
		e.notify(Change{Scene: true})

	case ToolEraser:
		e.CommitEdit()
		e.capture(ev.PointerID, screen, StateDrawing)
		e.drawTool = ToolEraser
		e.eraseAt(world, s.EraserRadius)

	case ToolShape:
		e.CommitEdit()
		typ := s.ShapeType
		if typ == "" || typ == document.ShapeStroke {
			typ = document.ShapeRectangle
		}
		e.preview = &document.Shape{
			ID:          typeid.NewShapeID(),
			Type:        typ,
			X1:          world.X,
			Y1:          world.Y,
			X2:          world.X,
			Y2:          world.Y,
			Color:       s.PenColor,
			StrokeWidth: s.PenWidth,
		}
		e.capture(ev.PointerID, screen, StatePreviewingShape)
		e.notify(Change{Overlay: true})

	case ToolText:
		if t, ok := HitText(e.scene, world); ok {
			e.BeginTextEdit(t.ID)
			return
		}
		e.CommitEdit()
		e.addText(world, s)

	case ToolSticky:
		e.CommitEdit()
		e.addSticky(world, s)
	}
}

func (e *Engine) pointerDownOnSticky(ev PointerEvent, note document.StickyNote, screen, world geom.Point) {
	if e.edit != nil && e.edit.kind == editSticky && e.edit.id == note.ID {
		// The host's text widget owns clicks inside the note being edited.
		return
	}
	e.CommitEdit()
	if note.Locked {
		return
	}
	state := StateDraggingSticky
	if HitStickyResizeHandle(note, e.scene.Viewport, screen) {
		state = StateResizingSticky
	}
	e.drag = stickyDrag{before: note, start: world}
	e.capture(ev.PointerID, screen, state)
}

func (e *Engine) addText(world geom.Point, s Settings) {
	t := document.TextAnnotation{
		ID:       typeid.NewTextID(),
		X:        world.X,
		Y:        world.Y,
		FontSize: s.FontSize,
		Color:    s.PenColor,
	}
	e.scene.AddText(t)
	e.startEdit(editText, t.ID, document.StickyFieldNone, "", true)
	e.scene.SetTextEditing(t.ID, true)
	e.notify(Change{Scene: true})
}

func (e *Engine) addSticky(world geom.Point, s Settings) {
	n := document.StickyNote{
		ID:     typeid.NewStickyID(),
		X:      world.X,
		Y:      world.Y,
		Width:  DefaultStickyWidth,
		Height: DefaultStickyHeight,
		Color:  s.StickyColor,
	}
	e.scene.AddSticky(n)
	e.log.Push(history.AddSticky(n))
	e.startEdit(editSticky, n.ID, document.StickyFieldBody, "", false)
	e.scene.UpdateSticky(n.ID, document.StickyPatch{Editing: document.Ref(document.StickyFieldBody)})
	e.notify(Change{Scene: true})
}

// PointerMove advances the operation owned by the event's pointer.
func (e *Engine) PointerMove(ev PointerEvent, s Settings) {
	if !e.owns(ev) {
		return
	}
	screen := ev.point()
	world := e.scene.Viewport.ScreenToWorld(screen)

	switch e.state {
	case StatePanning:
		e.scene.Viewport.PanBy(screen.X-e.lastScreen.X, screen.Y-e.lastScreen.Y)
		e.lastScreen = screen
		e.notify(Change{Viewport: true})

	case StateDrawing:
		if e.drawTool == ToolEraser {
			e.eraseAt(world, s.EraserRadius)
			return
		}
		if err := e.scene.AppendPoint(e.strokeID, world.X, world.Y); err != nil {
			e.bug("append point", err)
			return
		}
		e.notify(Change{Scene: true})

	case StatePreviewingShape:
		x2, y2 := world.X, world.Y
		if ev.Modifiers.Shift && e.preview.Type.Constrainable() {
			x2, y2 = geom.ConstrainSquare(e.preview.X1, e.preview.Y1, x2, y2)
		}
		e.preview.X2, e.preview.Y2 = x2, y2
		e.notify(Change{Overlay: true})

	case StateDraggingSticky:
		d := world.Sub(e.drag.start)
		x, y := e.drag.before.X+d.X, e.drag.before.Y+d.Y
		e.scene.UpdateSticky(e.drag.before.ID, document.StickyPatch{X: &x, Y: &y})
		e.notify(Change{Scene: true})

	case StateResizingSticky:
		d := world.Sub(e.drag.start)
		w, h := e.drag.before.Width+d.X, e.drag.before.Height+d.Y
		e.scene.UpdateSticky(e.drag.before.ID, document.StickyPatch{Width: &w, Height: &h})
		e.notify(Change{Scene: true})
	}
}

// PointerUp ends the operation owned by the event's pointer.
func (e *Engine) PointerUp(ev PointerEvent, s Settings) {
	if !e.owns(ev) {
		return
	}
	e.finish()
}

// PointerLeave behaves exactly like PointerUp so that a pointer released
// outside the canvas does not leave an operation stuck.
func (e *Engine) PointerLeave(ev PointerEvent, s Settings) {
	e.PointerUp(ev, s)
}

// finish commits whatever the captured pointer was doing and returns to idle.
func (e *Engine) finish() {
	switch e.state {
	case StatePreviewingShape:
		shape := *e.preview
		e.preview = nil
		if shape.IsDegenerate() {
			e.notify(Change{Overlay: true})
			break
		}
		e.scene.AddShape(shape)
		e.log.Push(history.Draw(shape))
		e.notify(Change{Scene: true, Overlay: true})

	case StateDraggingSticky:
		if after, ok := e.scene.Sticky(e.drag.before.ID); ok &&
			(after.X != e.drag.before.X || after.Y != e.drag.before.Y) {
			e.log.Push(history.MoveSticky(e.drag.before, after))
		}

	case StateResizingSticky:
		if after, ok := e.scene.Sticky(e.drag.before.ID); ok &&
			(after.Width != e.drag.before.Width || after.Height != e.drag.before.Height) {
			e.log.Push(history.ResizeSticky(e.drag.before, after))
		}
	}
	e.drag = stickyDrag{}
	e.resetPointer()
}

// TouchStart receives the full list of active touches. A second finger
// starts a pinch and terminates any pointer operation in progress.
func (e *Engine) TouchStart(touches []Touch) {
	if len(touches) < 2 || e.state == StatePinchZooming {
		return
	}
	if e.captured {
		e.finish()
	}
	e.pinch = e.scene.Viewport.BeginPinch(touchPoint(touches[0]), touchPoint(touches[1]))
	e.state = StatePinchZooming
}

// TouchMove updates an active pinch from the first two touches.
func (e *Engine) TouchMove(touches []Touch) {
	if e.state != StatePinchZooming || len(touches) < 2 {
		return
	}
	p0, p1 := touchPoint(touches[0]), touchPoint(touches[1])
	e.scene.Viewport.PinchZoom(e.pinch, p0.Distance(p1), geom.Midpoint(p0, p1))
	e.notify(Change{Viewport: true})
}

// TouchEnd receives the touches that remain active.
func (e *Engine) TouchEnd(remaining []Touch) {
	if e.state == StatePinchZooming && len(remaining) < 2 {
		e.state = StateIdle
	}
}

func touchPoint(t Touch) geom.Point {
	return geom.Pt(t.X, t.Y)
}

// Wheel zooms around the pointer. It is ignored while a stroke or shape is
// being drawn.
func (e *Engine) Wheel(ev WheelEvent) {
	if e.state == StateDrawing || e.state == StatePreviewingShape {
		return
	}
	if ev.DeltaY == 0 {
		return
	}
	e.scene.Viewport.Wheel(geom.Pt(ev.X, ev.Y), ev.DeltaY)
	e.notify(Change{Viewport: true})
}
