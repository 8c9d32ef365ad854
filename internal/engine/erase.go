package engine

import (
	"github.com/liveboard/liveboard/internal/document"
	"github.com/liveboard/liveboard/internal/geom"
	"github.com/liveboard/liveboard/internal/history"
)

// IsStrokeErased reports whether an eraser at p with the given world radius
// touches the shape's outline. Strokes are tested segment by segment; a
// single-point stroke is tested as a point.
func IsStrokeErased(shape document.Shape, p geom.Point, radius float64) bool {
	pts := shape.Polyline()
	switch len(pts) {
	case 0:
		return false
	case 1:
		return p.Distance(pts[0]) < radius
	}
	for i := 1; i < len(pts); i++ {
		if geom.DistanceToSegment(p, pts[i-1], pts[i]) < radius {
			return true
		}
	}
	return false
}

// eraseAt removes every shape under the eraser. radiusScreen is converted
// to world units so the eraser keeps its on-screen size at any zoom. Each
// removed shape gets its own Erase entry, in removal order.
func (e *Engine) eraseAt(world geom.Point, radiusScreen float64) {
	radius := e.scene.Viewport.ScreenToWorldDistance(radiusScreen)
	removed := e.scene.RemoveShapes(func(s document.Shape) bool {
		return IsStrokeErased(s, world, radius)
	})
	if len(removed) == 0 {
		return
	}
	for _, shape := range removed {
		e.log.Push(history.Erase(shape))
	}
	e.notify(Change{Scene: true})
}
