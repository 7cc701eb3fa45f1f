// Package bezier subdivides cubic Bezier curves and bicubic patches with de
// Casteljau's construction.
package bezier

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

const (
	// DefaultTolerance is the control-polygon extent, in pixels, below which
	// Flatten stops subdividing.
	DefaultTolerance = 10.0

	// MaxDepth bounds adaptive subdivision. A curve is never split into more
	// than 2^MaxDepth pieces.
	MaxDepth = 16
)

// Curve is a cubic Bezier curve.
type Curve struct {
	P       [4]math3d.Vec4
	ZBuffer bool
}

// NewCurve returns a depth-tested curve with the given control points.
func NewCurve(p0, p1, p2, p3 math3d.Vec4) Curve {
	return Curve{P: [4]math3d.Vec4{p0, p1, p2, p3}, ZBuffer: true}
}

// UnitCurve returns the straight curve from (0,0,0) to (1,0,0).
func UnitCurve() Curve {
	var c Curve
	for i := range c.P {
		c.P[i] = math3d.P3(float64(i)/3, 0, 0)
	}
	c.ZBuffer = true
	return c
}

// split returns the seven points of one de Casteljau step at t = 1/2: the
// left child is [0:4] and the right child is [3:7].
func split(p [4]math3d.Vec4) [7]math3d.Vec4 {
	m01, m12, m23 := p[0].Mid(p[1]), p[1].Mid(p[2]), p[2].Mid(p[3])
	a, b := m01.Mid(m12), m12.Mid(m23)
	center := a.Mid(b)
	return [7]math3d.Vec4{p[0], m01, a, center, b, m23, p[3]}
}

// Subdivide splits the curve at t = 1/2. The children share the center
// point exactly.
func (c Curve) Subdivide() (left, right Curve) {
	s := split(c.P)
	left = Curve{P: [4]math3d.Vec4{s[0], s[1], s[2], s[3]}, ZBuffer: c.ZBuffer}
	right = Curve{P: [4]math3d.Vec4{s[3], s[4], s[5], s[6]}, ZBuffer: c.ZBuffer}
	return left, right
}

// Eval evaluates the curve at t with the Bernstein form.
func (c Curve) Eval(t float64) math3d.Vec4 {
	mt := 1 - t
	b0 := mt * mt * mt
	b1 := 3 * mt * mt * t
	b2 := 3 * mt * t * t
	b3 := t * t * t
	return c.P[0].Scale(b0).
		Add(c.P[1].Scale(b1)).
		Add(c.P[2].Scale(b2)).
		Add(c.P[3].Scale(b3))
}

// Extent returns the largest dimension of the x/y bounding box of the
// control points.
func (c Curve) Extent() float64 {
	minX, maxX := c.P[0].X, c.P[0].X
	minY, maxY := c.P[0].Y, c.P[0].Y
	for _, p := range c.P[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return math.Max(maxX-minX, maxY-minY)
}

// Flatten approximates the curve with a polyline. A piece whose Extent is
// at most tolerance, or that is MaxDepth splits deep, contributes its
// control polygon. The returned points start at P[0] and end at P[3].
func (c Curve) Flatten(tolerance float64) []math3d.Vec4 {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	type piece struct {
		c     Curve
		depth int
	}
	points := []math3d.Vec4{c.P[0]}
	stack := []piece{{c, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.depth >= MaxDepth || top.c.Extent() <= tolerance {
			points = append(points, top.c.P[1], top.c.P[2], top.c.P[3])
			continue
		}
		left, right := top.c.Subdivide()
		// Right first so the left piece is emitted first.
		stack = append(stack, piece{right, top.depth + 1}, piece{left, top.depth + 1})
	}
	return points
}

// Draw draws the curve, given in screen coordinates, as an adaptive
// polyline.
func (c Curve) Draw(r *render.Rasterizer, color render.Color) {
	r.DrawPolyline(c.Flatten(DefaultTolerance), color)
}

// Surface is a bicubic Bezier patch. P is row-major: P[row*4+col].
type Surface struct {
	P       [16]math3d.Vec4
	ZBuffer bool
}

// NewSurface returns a depth-tested patch with the given control points.
func NewSurface(p [16]math3d.Vec4) Surface {
	return Surface{P: p, ZBuffer: true}
}

// UnitSurface returns the flat patch covering x and z in [0, 1].
func UnitSurface() Surface {
	var s Surface
	for i := range 4 {
		for j := range 4 {
			s.P[i*4+j] = math3d.P3(float64(i)/3, 0, float64(j)/3)
		}
	}
	s.ZBuffer = true
	return s
}

// Row returns row i as a curve.
func (s Surface) Row(i int) Curve {
	return Curve{P: [4]math3d.Vec4{s.P[i*4], s.P[i*4+1], s.P[i*4+2], s.P[i*4+3]}, ZBuffer: s.ZBuffer}
}

// Column returns column j as a curve.
func (s Surface) Column(j int) Curve {
	return Curve{P: [4]math3d.Vec4{s.P[j], s.P[4+j], s.P[8+j], s.P[12+j]}, ZBuffer: s.ZBuffer}
}

// Corners returns the four corner control points, which lie on the patch.
func (s Surface) Corners() [4]math3d.Vec4 {
	return [4]math3d.Vec4{s.P[0], s.P[3], s.P[12], s.P[15]}
}

// Eval evaluates the patch at (u, v), u running along rows and v down
// columns.
func (s Surface) Eval(u, v float64) math3d.Vec4 {
	var col Curve
	for i := range 4 {
		col.P[i] = s.Row(i).Eval(u)
	}
	return col.Eval(v)
}

// Subdivide splits the patch at u = v = 1/2 into four children ordered
// top-left, top-right, bottom-left, bottom-right. Neighbouring children
// share their boundary points exactly.
func (s Surface) Subdivide() [4]Surface {
	// Split every row, then every column of the result, giving a 7×7 grid.
	var rows [4][7]math3d.Vec4
	for i := range 4 {
		rows[i] = split(s.Row(i).P)
	}
	var grid [7][7]math3d.Vec4
	for j := range 7 {
		col := split([4]math3d.Vec4{rows[0][j], rows[1][j], rows[2][j], rows[3][j]})
		for i := range 7 {
			grid[i][j] = col[i]
		}
	}

	var out [4]Surface
	for q := range 4 {
		r0, c0 := (q/2)*3, (q%2)*3
		out[q].ZBuffer = s.ZBuffer
		for i := range 4 {
			for j := range 4 {
				out[q].P[i*4+j] = grid[r0+i][c0+j]
			}
		}
	}
	return out
}
