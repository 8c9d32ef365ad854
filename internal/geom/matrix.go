package geom

import "math"

// Matrix2D is an affine transform in canvas order [a, b, c, d, e, f]:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Matrix2D [6]float64

func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// Multiply returns m * n, the transform that applies n first.
func (m Matrix2D) Multiply(n Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*n[0] + m[2]*n[1],
		m[1]*n[0] + m[3]*n[1],
		m[0]*n[2] + m[2]*n[3],
		m[1]*n[2] + m[3]*n[3],
		m[0]*n[4] + m[2]*n[5] + m[4],
		m[1]*n[4] + m[3]*n[5] + m[5],
	}
}

func (m Matrix2D) TransformPoint(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Invert returns the inverse transform. A singular matrix inverts to the
// identity.
func (m Matrix2D) Invert() Matrix2D {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return Identity()
	}
	k := 1 / det
	return Matrix2D{
		m[3] * k,
		-m[1] * k,
		-m[2] * k,
		m[0] * k,
		(m[2]*m[5] - m[3]*m[4]) * k,
		(m[1]*m[4] - m[0]*m[5]) * k,
	}
}

// ToSlice is the JSON form handed to canvas setTransform.
func (m Matrix2D) ToSlice() []float64 {
	return m[:]
}

func (m Matrix2D) IsIdentity() bool {
	const eps = 1e-10
	id := Identity()
	for i := range m {
		if math.Abs(m[i]-id[i]) >= eps {
			return false
		}
	}
	return true
}
