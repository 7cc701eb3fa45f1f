package scene

import (
	"github.com/taigrr/scanline/pkg/bezier"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// maxSurfaceDivisions caps BezierSurface; each level multiplies the
// element count by four.
const maxSurfaceDivisions = 8

// BezierCurve subdivides c divisions times and appends the control polygon
// of every piece: 3·2^divisions lines. divisions is clamped to
// [0, bezier.MaxDepth].
func (m *Module) BezierCurve(c bezier.Curve, divisions int) {
	divisions = min(max(divisions, 0), bezier.MaxDepth)
	if divisions == 0 {
		for i := range 3 {
			m.AddLine(c.P[i], c.P[i+1])
		}
		return
	}
	left, right := c.Subdivide()
	m.BezierCurve(left, divisions-1)
	m.BezierCurve(right, divisions-1)
}

// BezierSurface subdivides s divisions times. Each resulting patch adds
// either its control grid as 24 lines or, when solid, 18 two-sided
// triangles with face normals. divisions is clamped to [0, 8].
func (m *Module) BezierSurface(s bezier.Surface, divisions int, solid bool) {
	divisions = min(max(divisions, 0), maxSurfaceDivisions)
	if divisions > 0 {
		for _, child := range s.Subdivide() {
			m.BezierSurface(child, divisions-1, solid)
		}
		return
	}

	if !solid {
		for j := range 4 {
			for i := range 3 {
				m.AddLine(s.P[j*4+i], s.P[j*4+i+1])
				m.AddLine(s.P[i*4+j], s.P[(i+1)*4+j])
			}
		}
		return
	}

	for j := range 3 {
		for i := range 3 {
			a := s.P[j*4+i]
			b := s.P[j*4+i+1]
			c := s.P[(j+1)*4+i+1]
			d := s.P[(j+1)*4+i]
			m.addPatchTriangle(a, b, c, s.ZBuffer)
			m.addPatchTriangle(a, c, d, s.ZBuffer)
		}
	}
}

func (m *Module) addPatchTriangle(a, b, c math3d.Vec4, zbuffer bool) {
	p := render.NewPolygon(a, b, c)
	p.ZBuffer = zbuffer
	p.SetNormals(p.FaceNormal())
	m.AddPolygon(p)
}
