// Package viewport implements the pan/zoom camera that maps world space
// (where the document lives) to screen space (canvas pixels).
package viewport

import (
	"math"

	"github.com/liveboard/liveboard/internal/geom"
)

const (
	// ScaleBy is the zoom factor applied per wheel notch.
	ScaleBy = 1.05

	// MinPinchScale and MaxPinchScale bound the scale during pinch gestures.
	// Wheel zoom is not clamped.
	MinPinchScale = 0.2
	MaxPinchScale = 5.0
)

// Viewport is the camera transform: screen = world*Scale + Offset.
type Viewport struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// New returns the identity viewport.
func New() Viewport {
	return Viewport{Scale: 1}
}

// Offset returns the translation component as a point.
func (v Viewport) Offset() geom.Point {
	return geom.Pt(v.OffsetX, v.OffsetY)
}

// ScreenToWorld maps a screen point into world space.
func (v Viewport) ScreenToWorld(s geom.Point) geom.Point {
	return s.Sub(v.Offset()).Div(v.Scale)
}

// WorldToScreen maps a world point into screen space.
func (v Viewport) WorldToScreen(w geom.Point) geom.Point {
	return w.Mul(v.Scale).Add(v.Offset())
}

// ScreenToWorldDistance converts a screen-pixel length into world units.
func (v Viewport) ScreenToWorldDistance(d float64) float64 {
	return d / v.Scale
}

// Matrix returns the world-to-screen affine matrix.
func (v Viewport) Matrix() geom.Matrix2D {
	return geom.Translate(v.OffsetX, v.OffsetY).Multiply(geom.Scale(v.Scale, v.Scale))
}

// PanBy translates the viewport by a raw screen-pixel delta.
func (v *Viewport) PanBy(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// ZoomAt multiplies the scale by factor while keeping the world point under
// screenPoint fixed on screen.
func (v *Viewport) ZoomAt(screenPoint geom.Point, factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	anchor := v.ScreenToWorld(screenPoint)
	v.Scale *= factor
	v.anchor(anchor, screenPoint)
}

// Wheel applies one wheel notch at screenPoint. Scrolling down (deltaY > 0)
// zooms out, scrolling up zooms in.
func (v *Viewport) Wheel(screenPoint geom.Point, deltaY float64) {
	switch {
	case deltaY > 0:
		v.ZoomAt(screenPoint, 1/ScaleBy)
	case deltaY < 0:
		v.ZoomAt(screenPoint, ScaleBy)
	}
}

// anchor recomputes the offset so that world point w projects to screen point s.
func (v *Viewport) anchor(w, s geom.Point) {
	v.OffsetX = s.X - w.X*v.Scale
	v.OffsetY = s.Y - w.Y*v.Scale
}

// Pinch is the snapshot taken when a two-finger gesture begins. Every pinch
// frame is computed from it rather than from the previous frame so the
// gesture does not drift.
type Pinch struct {
	Start         Viewport
	StartDistance float64
	StartCenter   geom.Point
}

// BeginPinch snapshots the viewport for a gesture between two screen points.
func (v Viewport) BeginPinch(p0, p1 geom.Point) Pinch {
	return Pinch{
		Start:         v,
		StartDistance: p0.Distance(p1),
		StartCenter:   geom.Midpoint(p0, p1),
	}
}

// PinchZoom sets the viewport for the current finger distance and center.
// The world point that was under the starting center follows the current
// center, and the scale is clamped to [MinPinchScale, MaxPinchScale].
func (v *Viewport) PinchZoom(p Pinch, currentDistance float64, currentCenter geom.Point) {
	if p.StartDistance <= 0 || p.Start.Scale <= 0 {
		return
	}
	scale := p.Start.Scale * currentDistance / p.StartDistance
	scale = max(MinPinchScale, min(MaxPinchScale, scale))

	anchor := p.Start.ScreenToWorld(p.StartCenter)
	v.Scale = scale
	v.anchor(anchor, currentCenter)
}

// VisibleWorldRect returns the world-space rect covered by a screen of the
// given pixel size.
func (v Viewport) VisibleWorldRect(width, height float64) geom.Rect {
	tl := v.ScreenToWorld(geom.Pt(0, 0))
	br := v.ScreenToWorld(geom.Pt(width, height))
	return geom.RectFromCorners(tl.X, tl.Y, br.X, br.Y)
}

// GridSpacing returns the world spacing for a background dot grid: base is
// doubled until it covers at least minScreen pixels at the current scale.
func (v Viewport) GridSpacing(base, minScreen float64) float64 {
	if base <= 0 || v.Scale <= 0 {
		return base
	}
	spacing := base
	for spacing*v.Scale < minScreen {
		spacing *= 2
	}
	return spacing
}
