package engine

import (
	"encoding/json"
	"math"
	"slices"

	"github.com/liveboard/liveboard/internal/document"
	"github.com/liveboard/liveboard/internal/geom"
	"github.com/liveboard/liveboard/internal/theme"
)

// DrawCommand is a single drawing operation for the host renderer. Geometry
// is in world space; Transform maps it to the screen.
type DrawCommand struct {
	Op          string        `json:"op"`                    // "clear", "path", "text", "sticky"
	ObjectID    string        `json:"objectId,omitempty"`    // For hit correlation
	Transform   []float64     `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Path        []PathCommand `json:"path,omitempty"`        // Path data for "path" ops
	Fill        string        `json:"fill,omitempty"`        // Fill color
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Stroke width
	Preview     bool          `json:"preview,omitempty"`     // Uncommitted shape

	// Text and sticky payload
	X        float64              `json:"x,omitempty"`
	Y        float64              `json:"y,omitempty"`
	Width    float64              `json:"width,omitempty"`
	Height   float64              `json:"height,omitempty"`
	Text     string               `json:"text,omitempty"`
	Title    string               `json:"title,omitempty"`
	FontSize float64              `json:"fontSize,omitempty"`
	Editing  document.StickyField `json:"editing,omitempty"`
	Locked   bool                 `json:"locked,omitempty"`
}

// PathCommand is a single path segment, matching Canvas2D:
// ["M", x, y], ["L", x, y], ["Z"] and ["E", cx, cy, rx, ry] for ellipses.
type PathCommand []any

// Arrow heads scale with the stroke width, down to a minimum length.
const (
	arrowHeadLength = 4.0
	arrowHeadMin    = 10.0
	arrowHeadAngle  = math.Pi / 6
)

// Render compiles the scene into draw commands in painter's order: shapes,
// then the preview, then text, then sticky notes.
func (e *Engine) Render(t theme.Theme) []DrawCommand {
	cmds := CompileDrawCommands(e.scene, t)
	if e.preview != nil {
		cmd := shapeCommand(*e.preview, t, e.scene.Viewport.Matrix().ToSlice())
		cmd.Preview = true
		// Preview goes above committed shapes but below text and notes.
		cmds = slices.Insert(cmds, 1+len(e.scene.Shapes), cmd)
	}
	return cmds
}

// RenderJSON is Render serialized for hosts that exchange strings.
func (e *Engine) RenderJSON(t theme.Theme) string {
	result, _ := DrawCommandsToJSON(e.Render(t))
	return result
}

// CompileDrawCommands generates the draw command buffer for a scene.
func CompileDrawCommands(scene *document.Scene, t theme.Theme) []DrawCommand {
	transform := scene.Viewport.Matrix().ToSlice()
	commands := make([]DrawCommand, 0, 1+len(scene.Shapes)+len(scene.Texts)+len(scene.Stickies))
	commands = append(commands, DrawCommand{Op: "clear", Fill: t.Background()})

	for _, shape := range scene.Shapes {
		commands = append(commands, shapeCommand(shape, t, transform))
	}
	for _, text := range scene.Texts {
		commands = append(commands, DrawCommand{
			Op:        "text",
			ObjectID:  text.ID,
			Transform: transform,
			Fill:      theme.Remap(text.Color, t),
			X:         text.X,
			Y:         text.Y,
			Text:      text.Text,
			FontSize:  text.FontSize,
			Editing:   editingFlag(text.IsEditing),
		})
	}
	for _, note := range scene.Stickies {
		commands = append(commands, DrawCommand{
			Op:        "sticky",
			ObjectID:  note.ID,
			Transform: transform,
			Fill:      note.Color,
			X:         note.X,
			Y:         note.Y,
			Width:     note.Width,
			Height:    note.Height,
			Title:     note.Title,
			Text:      note.Content,
			Editing:   note.Editing,
			Locked:    note.Locked,
		})
	}
	return commands
}

func editingFlag(editing bool) document.StickyField {
	if editing {
		return document.StickyFieldBody
	}
	return document.StickyFieldNone
}

func shapeCommand(shape document.Shape, t theme.Theme, transform []float64) DrawCommand {
	return DrawCommand{
		Op:          "path",
		ObjectID:    shape.ID,
		Transform:   transform,
		Path:        shapePath(shape),
		Stroke:      theme.Remap(shape.Color, t),
		StrokeWidth: shape.StrokeWidth,
	}
}

func shapePath(shape document.Shape) []PathCommand {
	switch shape.Type {
	case document.ShapeEllipse:
		r := geom.RectFromCorners(shape.X1, shape.Y1, shape.X2, shape.Y2)
		cx, cy := r.Center()
		return []PathCommand{{"E", cx, cy, r.Width / 2, r.Height / 2}}
	case document.ShapeRectangle:
		path := polylinePath(shape.Polyline())
		return append(path[:len(path)-1], PathCommand{"Z"})
	case document.ShapeArrow:
		return append(polylinePath(shape.Polyline()), arrowHead(shape)...)
	}
	pts := shape.Polyline()
	if len(pts) == 1 {
		// A dot: zero-length segment drawn with a round cap.
		pts = append(pts, pts[0])
	}
	return polylinePath(pts)
}

func polylinePath(pts []geom.Point) []PathCommand {
	path := make([]PathCommand, 0, len(pts))
	for i, p := range pts {
		op := "L"
		if i == 0 {
			op = "M"
		}
		path = append(path, PathCommand{op, p.X, p.Y})
	}
	return path
}

func arrowHead(shape document.Shape) []PathCommand {
	angle := math.Atan2(shape.Y2-shape.Y1, shape.X2-shape.X1)
	length := max(shape.StrokeWidth*arrowHeadLength, arrowHeadMin)
	wing := func(a float64) PathCommand {
		return PathCommand{"L", shape.X2 - length*math.Cos(a), shape.Y2 - length*math.Sin(a)}
	}
	return []PathCommand{
		{"M", shape.X2, shape.Y2},
		wing(angle - arrowHeadAngle),
		{"M", shape.X2, shape.Y2},
		wing(angle + arrowHeadAngle),
	}
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// HitTest returns the id of the topmost entity at the screen point: notes
// first, then text, then shapes within tolerance pixels.
func (e *Engine) HitTest(x, y, tolerance float64) string {
	world := e.scene.Viewport.ScreenToWorld(geom.Pt(x, y))
	if n, ok := HitSticky(e.scene, world); ok {
		return n.ID
	}
	if t, ok := HitText(e.scene, world); ok {
		return t.ID
	}
	radius := e.scene.Viewport.ScreenToWorldDistance(tolerance)
	for i := len(e.scene.Shapes) - 1; i >= 0; i-- {
		s := e.scene.Shapes[i]
		if IsStrokeErased(s, world, radius+s.StrokeWidth/2) {
			return s.ID
		}
	}
	return ""
}

// Bounds returns the world-space box around all content.
func (e *Engine) Bounds() geom.Rect {
	return SceneBounds(e.scene)
}

// SceneBounds returns the world-space box around all content of a scene.
// Flat shapes such as a horizontal line still count.
func SceneBounds(scene *document.Scene) geom.Rect {
	var corners []geom.Point
	add := func(r geom.Rect) {
		corners = append(corners, geom.Pt(r.X, r.Y), geom.Pt(r.X+r.Width, r.Y+r.Height))
	}
	for _, s := range scene.Shapes {
		add(s.Bounds())
	}
	for _, t := range scene.Texts {
		add(t.Bounds())
	}
	for _, n := range scene.Stickies {
		add(n.Bounds())
	}
	return geom.BoundsOf(corners)
}
