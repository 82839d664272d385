// Package geom implements the 2D affine matrix used throughout the
// interpreter as the current transformation matrix (CTM), matching
// spec.md §3's "Matrix" invariants and the classic PostScript
// [m00 m01 m10 m11 m20 m21] representation.
package geom

import "math"

const degreesToRadians = math.Pi / 180.0

// Matrix is a 2D affine transform stored as the six non-trivial entries of
// a row-major 3x3 matrix:
//
//	| m00 m01 0 |
//	| m10 m11 0 |
//	| m20 m21 1 |
type Matrix struct {
	M00, M01, M10, M11, M20, M21 float64
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{M00: 1, M11: 1}
}

// NewMatrix builds a matrix from the six components in PostScript's
// operand order: a b c d tx ty.
func NewMatrix(a, b, c, d, tx, ty float64) Matrix {
	return Matrix{M00: a, M01: b, M10: c, M11: d, M20: tx, M21: ty}
}

// Determinant computes m00*m11 - m01*m10.
func (m Matrix) Determinant() float64 {
	return m.M00*m.M11 - m.M01*m.M10
}

// Invert returns the inverse of m and true, or the zero Matrix and false if
// m is singular (determinant == 0).
func (m Matrix) Invert() (Matrix, bool) {
	d := m.Determinant()
	if d == 0 {
		return Matrix{}, false
	}
	t00 := m.M11 / d
	t01 := -m.M01 / d
	t10 := -m.M10 / d
	t11 := m.M00 / d
	t20 := -(m.M20*t00 + m.M21*t10)
	t21 := -(m.M20*t01 + m.M21*t11)
	return Matrix{M00: t00, M01: t01, M10: t10, M11: t11, M20: t20, M21: t21}, true
}

// PreMultiply returns other * m (other applied first), matching the
// original's preMultiply: building up a CTM where each new operator
// (translate, scale, rotate) composes in front of the existing transform.
func (m Matrix) PreMultiply(other Matrix) Matrix {
	a := other.M00*m.M00 + other.M01*m.M10
	b := other.M00*m.M01 + other.M01*m.M11
	c := other.M10*m.M00 + other.M11*m.M10
	d := other.M10*m.M01 + other.M11*m.M11
	tx := other.M20*m.M00 + other.M21*m.M10 + m.M20
	ty := other.M20*m.M01 + other.M21*m.M11 + m.M21
	return Matrix{M00: a, M01: b, M10: c, M11: d, M20: tx, M21: ty}
}

// Multiply returns m concatenated with other in PostScript's concat order
// (other's transform is applied in the space defined by m): equivalent to
// other.PreMultiply(m) but named for the "concatmatrix" operator's operand
// order (m2 m1 m3 concatmatrix computes m3 = m2 x m1 in matrix form).
func (m Matrix) Multiply(other Matrix) Matrix {
	a := m.M00*other.M00 + m.M01*other.M10
	b := m.M00*other.M01 + m.M01*other.M11
	c := m.M10*other.M00 + m.M11*other.M10
	d := m.M10*other.M01 + m.M11*other.M11
	tx := m.M20*other.M00 + m.M21*other.M10 + other.M20
	ty := m.M20*other.M01 + m.M21*other.M11 + other.M21
	return Matrix{M00: a, M01: b, M10: c, M11: d, M20: tx, M21: ty}
}

// Translation returns a pure translation matrix.
func Translation(tx, ty float64) Matrix {
	return Matrix{M00: 1, M11: 1, M20: tx, M21: ty}
}

// Scaling returns a pure scale matrix.
func Scaling(sx, sy float64) Matrix {
	return Matrix{M00: sx, M11: sy}
}

// Rotation returns a pure rotation matrix for angleDegrees, counterclockwise.
func Rotation(angleDegrees float64) Matrix {
	rad := angleDegrees * degreesToRadians
	c, s := math.Cos(rad), math.Sin(rad)
	return Matrix{M00: c, M01: s, M10: -s, M11: c}
}

// Translate composes a translation in front of m.
func (m Matrix) Translate(tx, ty float64) Matrix { return m.PreMultiply(Translation(tx, ty)) }

// Scale composes a scale in front of m.
func (m Matrix) Scale(sx, sy float64) Matrix { return m.PreMultiply(Scaling(sx, sy)) }

// Rotate composes a rotation in front of m.
func (m Matrix) Rotate(angleDegrees float64) Matrix { return m.PreMultiply(Rotation(angleDegrees)) }

// TransformPoint maps (x,y) from the space m is defined over into the
// enclosing space (the "transform" operator).
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.M00*x + m.M10*y + m.M20, m.M01*x + m.M11*y + m.M21
}

// DTransformPoint maps a vector (x,y), ignoring translation (the
// "dtransform" operator).
func (m Matrix) DTransformPoint(x, y float64) (float64, float64) {
	return m.M00*x + m.M10*y, m.M01*x + m.M11*y
}

// Array returns the six components in PostScript's a b c d tx ty order.
func (m Matrix) Array() [6]float64 {
	return [6]float64{m.M00, m.M01, m.M10, m.M11, m.M20, m.M21}
}
