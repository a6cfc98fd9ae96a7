// Package math provides the vector and matrix types used by the render pipeline.
//
// Matrices are column-major and act on column vectors, so a transform
// chain reads right to left: P.Mul(V).Mul(M) applies M first.
package math

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateVector is returned when a zero-length (or non-finite) vector
// is normalized.
var ErrDegenerateVector = errors.New("degenerate vector")

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Mul returns the component-wise product.
func (v Vec3) Mul(other Vec3) Vec3 {
	return Vec3{v.X * other.X, v.Y * other.Y, v.Z * other.Z}
}

// Negate returns -v.
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(v.length64())
}

// length64 sums the squares in float64, which cannot overflow or
// underflow for any finite float32 components.
func (v Vec3) length64() float64 {
	x, y, z := float64(v.X), float64(v.Y), float64(v.Z)
	return math.Sqrt(x*x + y*y + z*z)
}

// Normalize returns a unit vector pointing the same way as v.
// A zero-length or non-finite v yields ErrDegenerateVector.
func (v Vec3) Normalize() (Vec3, error) {
	l := v.length64()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec3{}, fmt.Errorf("normalize %v: %w", v, ErrDegenerateVector)
	}
	return Vec3{
		float32(float64(v.X) / l),
		float32(float64(v.Y) / l),
		float32(float64(v.Z) / l),
	}, nil
}

// MustNormalize is Normalize for vectors known to be non-zero, such as
// constants. It panics on a degenerate vector.
func (v Vec3) MustNormalize() Vec3 {
	n, err := v.Normalize()
	if err != nil {
		panic(err)
	}
	return n
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// Array returns the components as a [3]float32, the layout GL uniforms take.
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// Vec3FromArray converts a [3]float32 (as found in config and vertex data).
func Vec3FromArray(a [3]float32) Vec3 {
	return Vec3{a[0], a[1], a[2]}
}

// ApproxEqual reports whether every component differs by at most eps.
func (v Vec3) ApproxEqual(other Vec3, eps float32) bool {
	d := v.Sub(other)
	return d.X <= eps && d.X >= -eps &&
		d.Y <= eps && d.Y >= -eps &&
		d.Z <= eps && d.Z >= -eps
}
