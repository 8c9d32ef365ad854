package document

import (
	"github.com/liveboard/liveboard/internal/geom"
	"github.com/liveboard/liveboard/internal/viewport"
)

const (
	MinStickyWidth  = 80.0
	MinStickyHeight = 60.0

	// ellipseSegments is the outline resolution used for ellipse hit testing.
	ellipseSegments = 32
)

// Scene is the whole single-user document: everything that is persisted.
// Shapes are kept in append order, which is also z-order.
type Scene struct {
	Shapes   []Shape           `json:"shapes"`
	Texts    []TextAnnotation  `json:"textAnnotations"`
	Stickies []StickyNote      `json:"stickyNotes"`
	Viewport viewport.Viewport `json:"viewport"`
}

type ShapeType string

const (
	ShapeStroke    ShapeType = "stroke"
	ShapeLine      ShapeType = "line"
	ShapeArrow     ShapeType = "arrow"
	ShapeRectangle ShapeType = "rectangle"
	ShapeEllipse   ShapeType = "ellipse"
)

// Constrainable reports whether shift-drag snaps this type to a square/circle.
func (t ShapeType) Constrainable() bool {
	return t == ShapeRectangle || t == ShapeEllipse
}

// Shape is either a freehand stroke (Points, flattened world x,y pairs) or
// an anchored shape spanning the diagonal (X1,Y1)-(X2,Y2).
type Shape struct {
	ID          string    `json:"id"`
	Type        ShapeType `json:"type"`
	Points      []float64 `json:"points,omitempty"`
	X1          float64   `json:"x1,omitempty"`
	Y1          float64   `json:"y1,omitempty"`
	X2          float64   `json:"x2,omitempty"`
	Y2          float64   `json:"y2,omitempty"`
	Color       string    `json:"color"`
	StrokeWidth float64   `json:"strokeWidth"`
}

// IsStroke reports whether the shape is a freehand pen path.
func (s Shape) IsStroke() bool {
	return s.Type == ShapeStroke
}

// Polyline returns the world-space outline used for hit testing.
func (s Shape) Polyline() []geom.Point {
	switch s.Type {
	case ShapeStroke:
		return geom.PointsFromFlat(s.Points)
	case ShapeLine, ShapeArrow:
		return []geom.Point{geom.Pt(s.X1, s.Y1), geom.Pt(s.X2, s.Y2)}
	case ShapeRectangle:
		return geom.RectFromCorners(s.X1, s.Y1, s.X2, s.Y2).Corners()
	case ShapeEllipse:
		return geom.EllipsePolyline(geom.RectFromCorners(s.X1, s.Y1, s.X2, s.Y2), ellipseSegments)
	}
	return nil
}

// Bounds returns the world-space bounding box of the shape.
func (s Shape) Bounds() geom.Rect {
	if s.Type == ShapeStroke {
		return geom.BoundsOf(s.Polyline())
	}
	return geom.RectFromCorners(s.X1, s.Y1, s.X2, s.Y2)
}

// IsDegenerate reports whether an anchored shape has no extent.
func (s Shape) IsDegenerate() bool {
	if s.Type == ShapeStroke {
		return len(s.Points) < 2
	}
	return s.X1 == s.X2 && s.Y1 == s.Y2
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	if s.Points != nil {
		s.Points = append([]float64(nil), s.Points...)
	}
	return s
}

// TextAnnotation is a single-line label anchored baseline-left at (X, Y).
type TextAnnotation struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Text      string  `json:"text"`
	FontSize  float64 `json:"fontSize"`
	Color     string  `json:"color"`
	IsEditing bool    `json:"isEditing"`
}

// Bounds estimates the world-space box of the label. Glyph metrics belong to
// the host, so the width uses an average advance of 0.6em and an empty label
// still gets a one-em target.
func (t TextAnnotation) Bounds() geom.Rect {
	width := max(float64(len([]rune(t.Text)))*t.FontSize*0.6, t.FontSize)
	return geom.Rect{X: t.X, Y: t.Y - t.FontSize, Width: width, Height: t.FontSize * 1.25}
}

type StickyField string

const (
	StickyFieldNone  StickyField = ""
	StickyFieldTitle StickyField = "title"
	StickyFieldBody  StickyField = "body"
)

// StickyNote is a movable world-space box with a title and a markdown body.
type StickyNote struct {
	ID      string      `json:"id"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	Color   string      `json:"color"`
	Title   string      `json:"title"`
	Content string      `json:"content"`
	Editing StickyField `json:"editing,omitempty"`
	Locked  bool        `json:"locked"`
}

// Bounds returns the world-space box of the note.
func (n StickyNote) Bounds() geom.Rect {
	return geom.Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// clampSize enforces the minimum note size.
func (n *StickyNote) clampSize() {
	n.Width = max(n.Width, MinStickyWidth)
	n.Height = max(n.Height, MinStickyHeight)
}

// StickyPatch is a partial update; nil fields are left unchanged.
type StickyPatch struct {
	X       *float64
	Y       *float64
	Width   *float64
	Height  *float64
	Color   *string
	Title   *string
	Content *string
	Editing *StickyField
	Locked  *bool
}

func (p StickyPatch) apply(n *StickyNote) {
	if p.X != nil {
		n.X = *p.X
	}
	if p.Y != nil {
		n.Y = *p.Y
	}
	if p.Width != nil {
		n.Width = *p.Width
	}
	if p.Height != nil {
		n.Height = *p.Height
	}
	if p.Color != nil {
		n.Color = *p.Color
	}
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Editing != nil {
		n.Editing = *p.Editing
	}
	if p.Locked != nil {
		n.Locked = *p.Locked
	}
	n.clampSize()
}
