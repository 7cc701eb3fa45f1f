package math3d

import (
	"errors"
	"math"
)

// ErrDegenerate is returned when a homogeneous point cannot be normalized
// because its w coordinate is zero.
var ErrDegenerate = errors.New("degenerate geometry: homogeneous coordinate is zero")

// Vec4 is a homogeneous 3D point. Points may carry any w; Homogenize brings
// them back to Euclidean coordinates.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// P3 creates a point at (x, y, z) with w = 1.
func P3(x, y, z float64) Vec4 {
	return Vec4{x, y, z, 1}
}

// P2 creates a point at (x, y) on the z = 0 plane.
func P2(x, y float64) Vec4 {
	return Vec4{x, y, 0, 1}
}

// Vec3 returns the x, y, z portion (ignoring W).
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// Homogenize divides x, y and z by w.
func (v Vec4) Homogenize() (Vec4, error) {
	if v.W == 0 {
		return v, ErrDegenerate
	}
	return Vec4{v.X / v.W, v.Y / v.W, v.Z / v.W, 1}, nil
}

// HomogenizeXY divides only x and y by w. Polygon vertices go through this
// after the view transform so z keeps the canonical view volume depth the
// z-buffer interpolates.
func (v Vec4) HomogenizeXY() (Vec4, error) {
	if v.W == 0 {
		return v, ErrDegenerate
	}
	return Vec4{v.X / v.W, v.Y / v.W, v.Z, 1}, nil
}

// Add returns the component-wise sum.
//
//nolint:st1016 // a+b naming convention is clearer for vector operations
func (a Vec4) Add(b Vec4) Vec4 {
	return Vec4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W}
}

// Sub returns the component-wise difference.
//
//nolint:st1016 // a-b naming convention is clearer for vector operations
func (a Vec4) Sub(b Vec4) Vec4 {
	return Vec4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W}
}

// Scale returns the scalar product.
func (v Vec4) Scale(s float64) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Mid returns the midpoint of a and b, all four coordinates included.
//
//nolint:st1016 // a,b naming convention is clearer for interpolation
func (a Vec4) Mid(b Vec4) Vec4 {
	return Vec4{
		(a.X + b.X) / 2,
		(a.Y + b.Y) / 2,
		(a.Z + b.Z) / 2,
		(a.W + b.W) / 2,
	}
}

// Lerp returns linear interpolation.
//
//nolint:st1016 // a,b naming convention is clearer for interpolation
func (a Vec4) Lerp(b Vec4, t float64) Vec4 {
	return Vec4{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
		a.W + (b.W-a.W)*t,
	}
}

// ApproxEqual reports whether every coordinate of a and b is within eps.
//
//nolint:st1016 // a,b naming convention is clearer for comparisons
func (a Vec4) ApproxEqual(b Vec4, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps &&
		math.Abs(a.Y-b.Y) <= eps &&
		math.Abs(a.Z-b.Z) <= eps &&
		math.Abs(a.W-b.W) <= eps
}
