package math

import (
	"errors"
	"fmt"
)

// ErrSingularMatrix is returned when inverting a matrix with zero determinant.
var ErrSingularMatrix = errors.New("singular matrix")

// Mat3 is a 3x3 matrix in column-major order, matching GLSL mat3.
type Mat3 [9]float32

// Mat3FromColumns builds a matrix whose columns are a, b and c.
func Mat3FromColumns(a, b, c Vec3) Mat3 {
	return Mat3{
		a.X, a.Y, a.Z,
		b.X, b.Y, b.Z,
		c.X, c.Y, c.Z,
	}
}

// Column returns column i (0..2).
func (m Mat3) Column(i int) Vec3 {
	return Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}

// MulVec3 returns m * v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Inverse returns the inverse of m, or ErrSingularMatrix.
func (m Mat3) Inverse() (Mat3, error) {
	ti, err := m.transposeInverse()
	if err != nil {
		return Mat3{}, err
	}
	return ti.Transpose(), nil
}

// transposeInverse uses the fact that the rows of inverse(m) are the
// pairwise cross products of m's columns divided by det(m). Stored as
// columns, those rows give transpose(inverse(m)) directly.
func (m Mat3) transposeInverse() (Mat3, error) {
	a, b, c := m.Column(0), m.Column(1), m.Column(2)
	bc := b.Cross(c)
	det := a.Dot(bc)
	if det == 0 {
		return Mat3{}, fmt.Errorf("invert %v: %w", m, ErrSingularMatrix)
	}
	inv := 1 / det
	return Mat3FromColumns(bc.Scale(inv), c.Cross(a).Scale(inv), a.Cross(b).Scale(inv)), nil
}

// TransposeInverse3x3 returns the normal matrix of m: the transpose of the
// inverse of its upper-left 3x3 block. Normals transformed by it stay
// perpendicular to surfaces under non-uniform scale.
func TransposeInverse3x3(m Mat4) (Mat3, error) {
	return m.Mat3x3().transposeInverse()
}

// ApproxEqual reports whether every element of m and other differs by at
// most eps.
func (m Mat3) ApproxEqual(other Mat3, eps float32) bool {
	for i := range m {
		d := m[i] - other[i]
		if d > eps || d < -eps {
			return false
		}
	}
	return true
}
