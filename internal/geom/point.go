package geom

import "math"

// Point is a 2D coordinate. Whether it lives in world or screen space is
// up to the caller.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(s float64) Point { return Point{p.X * s, p.Y * s} }
func (p Point) Div(s float64) Point { return Point{p.X / s, p.Y / s} }
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }
func (p Point) Distance(q Point) float64 { return p.Sub(q).Len() }

// Midpoint returns the point halfway between p and q.
func Midpoint(p, q Point) Point {
	return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2}
}

// DistanceToSegment returns the exact distance from p to the segment v-w.
// The projection parameter is clamped to the segment; a degenerate segment
// (v == w) falls back to the point distance.
func DistanceToSegment(p, v, w Point) float64 {
	d := w.Sub(v)
	l2 := d.Dot(d)
	if l2 == 0 {
		return p.Distance(v)
	}
	t := p.Sub(v).Dot(d) / l2
	t = max(0, min(1, t))
	return p.Distance(v.Add(d.Mul(t)))
}

// PointsFromFlat converts a flattened [x0, y0, x1, y1, ...] slice into points.
// A trailing odd coordinate is ignored.
func PointsFromFlat(flat []float64) []Point {
	pts := make([]Point, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		pts = append(pts, Point{flat[i], flat[i+1]})
	}
	return pts
}

// ConstrainSquare snaps (x2, y2) so that |dx| == |dy|, using the larger of the
// two magnitudes and keeping the drag direction of each axis.
func ConstrainSquare(x1, y1, x2, y2 float64) (float64, float64) {
	dx, dy := x2-x1, y2-y1
	size := max(math.Abs(dx), math.Abs(dy))
	return x1 + math.Copysign(size, dx), y1 + math.Copysign(size, dy)
}

// EllipsePolyline approximates the ellipse inscribed in r with a closed
// polyline of n segments. The first point is repeated at the end.
func EllipsePolyline(r Rect, n int) []Point {
	if n < 3 {
		n = 3
	}
	cx, cy := r.Center()
	rx, ry := r.Width/2, r.Height/2
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, Point{cx + rx*math.Cos(a), cy + ry*math.Sin(a)})
	}
	return pts
}
