package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceToSegment(t *testing.T) {
	v, w := Pt(0, 0), Pt(100, 0)

	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"on segment", Pt(50, 0), 0},
		{"above middle", Pt(50, 10), 10},
		{"before start", Pt(-3, 4), 5},
		{"past end", Pt(103, 4), 5},
		{"at endpoint", Pt(100, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DistanceToSegment(tt.p, v, w), 1e-12)
		})
	}
}

func TestDistanceToSegmentDegenerate(t *testing.T) {
	assert.Equal(t, 5.0, DistanceToSegment(Pt(3, 4), Pt(0, 0), Pt(0, 0)))
}

func TestDistanceToSegmentDiagonal(t *testing.T) {
	d := DistanceToSegment(Pt(0, 10), Pt(0, 0), Pt(10, 10))
	assert.InDelta(t, 10/math.Sqrt2, d, 1e-12)
}

func TestConstrainSquare(t *testing.T) {
	x, y := ConstrainSquare(10, 10, 40, 20)
	assert.Equal(t, 40.0, x)
	assert.Equal(t, 40.0, y)

	x, y = ConstrainSquare(0, 0, -5, 12)
	assert.Equal(t, -12.0, x)
	assert.Equal(t, 12.0, y)
}

func TestPointsFromFlat(t *testing.T) {
	pts := PointsFromFlat([]float64{1, 2, 3, 4, 5})
	assert.Equal(t, []Point{{1, 2}, {3, 4}}, pts)
}

func TestRectFromCornersNormalizes(t *testing.T) {
	r := RectFromCorners(10, 20, 0, 5)
	assert.Equal(t, Rect{X: 0, Y: 5, Width: 10, Height: 15}, r)
	assert.True(t, r.Contains(Pt(5, 10)))
	assert.False(t, r.Contains(Pt(11, 10)))
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: -5, Width: 10, Height: 10}
	assert.Equal(t, Rect{X: 0, Y: -5, Width: 15, Height: 15}, a.Union(b))
	assert.Equal(t, a, Rect{}.Union(a))
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Translate(30, -12).Multiply(Scale(2.5, 2.5))
	p := Pt(7, 9)
	back := m.Invert().TransformPoint(m.TransformPoint(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
	assert.True(t, m.Multiply(m.Invert()).IsIdentity())
}

func TestEllipsePolylineStaysOnEllipse(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 20, Height: 10}
	pts := EllipsePolyline(r, 16)
	assert.Len(t, pts, 17)
	assert.InDelta(t, pts[0].X, pts[len(pts)-1].X, 1e-9)
	assert.InDelta(t, pts[0].Y, pts[len(pts)-1].Y, 1e-9)
	for _, p := range pts {
		v := math.Pow((p.X-10)/10, 2) + math.Pow((p.Y-5)/5, 2)
		assert.InDelta(t, 1.0, v, 1e-9)
	}
}
