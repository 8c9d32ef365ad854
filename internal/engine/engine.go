package engine

import (
	"log/slog"
	"time"

	"github.com/liveboard/liveboard/internal/document"
	"github.com/liveboard/liveboard/internal/geom"
	"github.com/liveboard/liveboard/internal/history"
	"github.com/liveboard/liveboard/internal/viewport"
)

// DefaultBlurGrace is how long after an edit session starts a blur is
// ignored. Hosts tend to emit a spurious blur right after focusing the
// text widget that opened the session.
const DefaultBlurGrace = 200 * time.Millisecond

// Options configures an Engine.
type Options struct {
	// Debug turns caller bugs (appending to a missing stroke) into panics
	// instead of log lines.
	Debug bool

	// BlurGrace overrides DefaultBlurGrace. Zero means default.
	BlurGrace time.Duration

	// Now is the clock used for blur suppression. Defaults to time.Now.
	Now func() time.Time
}

// Change describes what a mutation touched.
type Change struct {
	Scene    bool `json:"scene"`
	Viewport bool `json:"viewport"`
	// Overlay is set for transient visuals such as the shape preview; it
	// never needs persisting.
	Overlay bool `json:"overlay"`
}

// Persist reports whether the change should be saved.
func (c Change) Persist() bool {
	return c.Scene || c.Viewport
}

// Engine owns the scene, its history and the pointer state machine. It is
// not safe for concurrent use: every call must come from the same event
// loop that delivers input.
type Engine struct {
	scene *document.Scene
	log   *history.Log
	opts  Options

	// Pointer state machine
	state      State
	drawTool   Tool
	strokeID   string
	pointerID  int
	captured   bool
	lastScreen geom.Point
	preview    *document.Shape
	drag       stickyDrag
	pinch      viewport.Pinch

	// Edit focus
	edit      *editSession
	lastToken EditToken

	onChange func(Change)
}

// New creates an engine around scene. A nil scene starts empty.
func New(scene *document.Scene, opts Options) *Engine {
	if scene == nil {
		scene = document.NewScene()
	}
	if opts.BlurGrace <= 0 {
		opts.BlurGrace = DefaultBlurGrace
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		scene: scene,
		log:   history.NewLog(),
		opts:  opts,
		state: StateIdle,
	}
}

// OnChange registers the callback fired after every change. It replaces any
// previous callback.
func (e *Engine) OnChange(fn func(Change)) {
	e.onChange = fn
}

func (e *Engine) notify(c Change) {
	if e.onChange != nil {
		e.onChange(c)
	}
}

// bug reports a caller bug. In debug builds it panics so tests catch it.
func (e *Engine) bug(op string, err error) {
	if e.opts.Debug {
		panic(op + ": " + err.Error())
	}
	slog.Error("engine invariant violated", "op", op, "error", err)
}

// --- Commands ---

// Load replaces the scene. History, edit focus and any in-flight pointer
// operation are dropped.
func (e *Engine) Load(scene *document.Scene) {
	if scene == nil {
		scene = document.NewScene()
	}
	e.scene = scene
	e.log.Reset()
	e.edit = nil
	e.resetPointer()
	e.notify(Change{Scene: true, Viewport: true})
}

// LoadSnapshot replaces the scene with a deserialized one.
func (e *Engine) LoadSnapshot(snap *document.Snapshot) {
	e.Load(document.FromSnapshot(snap))
}

// LoadSample replaces the scene with the welcome board.
func (e *Engine) LoadSample() {
	e.Load(document.NewSampleScene())
}

// Undo reverts the most recent action. A captured pointer operation is
// finished and a pending edit committed first, so either becomes the action
// being undone.
func (e *Engine) Undo() bool {
	e.endGesture()
	e.CommitEdit()
	if !e.log.Undo(e.scene) {
		return false
	}
	e.notify(Change{Scene: true})
	return true
}

// Redo re-applies the most recently undone action.
func (e *Engine) Redo() bool {
	e.endGesture()
	e.CommitEdit()
	if !e.log.Redo(e.scene) {
		return false
	}
	e.notify(Change{Scene: true})
	return true
}

// ClearAll removes all content as a single undoable action.
func (e *Engine) ClearAll() {
	e.endGesture()
	e.CommitEdit()
	if e.scene.IsEmpty() {
		return
	}
	e.log.Push(history.Clear(e.scene))
	e.scene.Clear()
	e.notify(Change{Scene: true})
}

// endGesture completes the captured pointer operation, as a pointer-up
// would, so history commands never act under a live stroke or drag.
func (e *Engine) endGesture() {
	if e.captured {
		e.finish()
	}
}

// ResetView restores the identity viewport.
func (e *Engine) ResetView() {
	e.scene.Viewport = viewport.New()
	e.notify(Change{Viewport: true})
}

// --- Queries ---

// Scene returns the live scene. Callers must not mutate it.
func (e *Engine) Scene() *document.Scene {
	return e.scene
}

// Snapshot serializes the current scene.
func (e *Engine) Snapshot() *document.Snapshot {
	return e.scene.Snapshot()
}

// Viewport returns the current camera.
func (e *Engine) Viewport() viewport.Viewport {
	return e.scene.Viewport
}

// Preview returns the uncommitted shape being dragged out, if any.
func (e *Engine) Preview() (document.Shape, bool) {
	if e.preview == nil {
		return document.Shape{}, false
	}
	return *e.preview, true
}

func (e *Engine) CanUndo() bool { return e.log.CanUndo() }
func (e *Engine) CanRedo() bool { return e.log.CanRedo() }

// Status is a host-facing summary of the engine state.
type Status struct {
	State    State             `json:"state"`
	Tool     Tool              `json:"tool,omitempty"`
	EditID   string            `json:"editId,omitempty"`
	CanUndo  bool              `json:"canUndo"`
	CanRedo  bool              `json:"canRedo"`
	Viewport viewport.Viewport `json:"viewport"`
}

func (e *Engine) Status() Status {
	s := Status{
		State:    e.State(),
		CanUndo:  e.log.CanUndo(),
		CanRedo:  e.log.CanRedo(),
		Viewport: e.scene.Viewport,
	}
	if e.state == StateDrawing {
		s.Tool = e.drawTool
	}
	if e.edit != nil {
		s.EditID = e.edit.id
	}
	return s
}
