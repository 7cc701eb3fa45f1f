package math3d

import "math"

// Mat4 is a 4x4 homogeneous transform stored in column-major order.
// Points are column vectors, so composing "apply A, then B" is B.Mul(A).
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// The zero matrix is not a usable operator. Scene code treats it as a
// no-op marker (see IsZero).
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat4 {
	return rotateZCS(math.Cos(angle), math.Sin(angle))
}

func rotateZCS(c, s float64) Mat4 {
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Rotate creates a rotation matrix around an arbitrary axis.
func Rotate(axis Vec3, angle float64) Mat4 {
	axis = axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Basis returns the rotation whose rows are u, v and w. Applied to a point
// it yields the point's coordinates in the (u, v, w) frame, so an
// orthonormal basis maps u onto the x axis, v onto y and w onto z.
func Basis(u, v, w Vec3) Mat4 {
	return Mat4{
		u.X, v.X, w.X, 0,
		u.Y, v.Y, w.Y, 0,
		u.Z, v.Z, w.Z, 0,
		0, 0, 0, 1,
	}
}

// Shear2D shears x by shx·y and y by shy·x.
func Shear2D(shx, shy float64) Mat4 {
	m := Identity()
	m.Set(0, 1, shx)
	m.Set(1, 0, shy)
	return m
}

// ShearZ shears x and y in proportion to z.
func ShearZ(shx, shy float64) Mat4 {
	m := Identity()
	m.Set(0, 2, shx)
	m.Set(1, 2, shy)
	return m
}

// PerspectiveDepth projects onto the plane z = d with the center of
// projection at the origin: after the divide by w = z/d, x and y are scaled
// by d/z.
func PerspectiveDepth(d float64) Mat4 {
	m := Identity()
	m.Set(3, 2, 1/d)
	m.Set(3, 3, 0)
	return m
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// Multiply stores a * b in dst. The product is built in a temporary first,
// so dst may be the same matrix as a or b.
func Multiply(dst, a, b *Mat4) {
	tmp := a.Mul(*b)
	*dst = tmp
}

// Premul replaces m with t * m, i.e. applies t after everything m already
// does.
func (m *Mat4) Premul(t Mat4) {
	Multiply(m, &t, m)
}

// MulVec3Dir transforms a Vec3 as a direction (no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// MulVec4 transforms a homogeneous point.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// IsZero reports whether every element is zero.
func (m Mat4) IsZero() bool {
	return m == Mat4{}
}

// IsFinite reports whether no element is NaN or infinite.
func (m Mat4) IsFinite() bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ApproxEqual reports whether every element of a and b is within eps.
//
//nolint:st1016 // a,b naming convention is clearer for comparisons
func (a Mat4) ApproxEqual(b Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row+col*4] = val
}
