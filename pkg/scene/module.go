package scene

import (
	"github.com/taigrr/scanline/pkg/lighting"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// Module is an ordered, append-only display list.
type Module struct {
	Name     string
	elements []Element
}

// New creates an empty module.
func New(name string) *Module {
	return &Module{Name: name}
}

// Clear removes every element. Modules referenced by Sub elements are left
// untouched.
func (m *Module) Clear() {
	clear(m.elements)
	m.elements = m.elements[:0]
}

// Len returns the number of elements.
func (m *Module) Len() int {
	return len(m.elements)
}

// Elements returns the element list. The slice must not be modified.
func (m *Module) Elements() []Element {
	return m.elements
}

// Append adds e to the end of the list, copying any geometry it carries.
func (m *Module) Append(e Element) {
	m.elements = append(m.elements, own(e))
}

// AddModule appends a reference to sub. sub is drawn with the transform and
// attributes in effect at this point.
func (m *Module) AddModule(sub *Module) {
	m.Append(Sub{Module: sub})
}

// AddPoint appends a point.
func (m *Module) AddPoint(p math3d.Vec4) {
	m.Append(Point{P: p})
}

// AddLine appends a line segment.
func (m *Module) AddLine(a, b math3d.Vec4) {
	m.Append(Line{A: a, B: b})
}

// AddPolyline appends a polyline through points.
func (m *Module) AddPolyline(points ...math3d.Vec4) {
	m.Append(Polyline{Points: points})
}

// AddPolygon appends a copy of p.
func (m *Module) AddPolygon(p render.Polygon) {
	m.Append(PolygonElement{Polygon: p})
}

// AddPolygons appends polys as produced by mesh ingestion. When colors
// holds a color for a polygon, the foreground and body colors are set to
// it first.
func (m *Module) AddPolygons(polys []render.Polygon, colors []render.Color) {
	for i, p := range polys {
		if i < len(colors) {
			m.Color(colors[i])
			m.BodyColor(colors[i])
		}
		m.AddPolygon(p)
	}
}

// Identity resets the local transform.
func (m *Module) Identity() {
	m.Append(Identity{})
}

// Transform appends a matrix operator.
func (m *Module) Transform(t math3d.Mat4) {
	m.Append(Transform{M: t})
}

// Translate appends a 3D translation.
func (m *Module) Translate(x, y, z float64) {
	m.Transform(math3d.Translate(math3d.V3(x, y, z)))
}

// Scale appends a 3D scale about the origin.
func (m *Module) Scale(x, y, z float64) {
	m.Transform(math3d.Scale(math3d.V3(x, y, z)))
}

// RotateX appends a rotation of angle radians about the x axis.
func (m *Module) RotateX(angle float64) {
	m.Transform(math3d.RotateX(angle))
}

// RotateY appends a rotation of angle radians about the y axis.
func (m *Module) RotateY(angle float64) {
	m.Transform(math3d.RotateY(angle))
}

// RotateZ appends a rotation of angle radians about the z axis.
func (m *Module) RotateZ(angle float64) {
	m.Transform(math3d.RotateZ(angle))
}

// RotateXYZ appends the rotation taking the orthonormal axes u, v, w onto
// x, y, z.
func (m *Module) RotateXYZ(u, v, w math3d.Vec3) {
	m.Transform(math3d.Basis(u, v, w))
}

// Translate2D appends a translation in the xy plane.
func (m *Module) Translate2D(x, y float64) {
	m.Translate(x, y, 0)
}

// Scale2D appends a scale in the xy plane.
func (m *Module) Scale2D(x, y float64) {
	m.Scale(x, y, 1)
}

// Shear2D appends a shear of x by shx·y and y by shy·x.
func (m *Module) Shear2D(shx, shy float64) {
	m.Transform(math3d.Shear2D(shx, shy))
}

// ShearZ appends a shear of x and y in proportion to z.
func (m *Module) ShearZ(shx, shy float64) {
	m.Transform(math3d.ShearZ(shx, shy))
}

// Color sets the foreground color for the rest of the module.
func (m *Module) Color(c render.Color) {
	m.Append(ForegroundColor{Color: c})
}

// BodyColor sets the diffuse reflectance.
func (m *Module) BodyColor(c render.Color) {
	m.Append(BodyColor{Color: c})
}

// SurfaceColor sets the specular reflectance.
func (m *Module) SurfaceColor(c render.Color) {
	m.Append(SurfaceColor{Color: c})
}

// SurfaceCoeff sets the specular exponent.
func (m *Module) SurfaceCoeff(coeff float64) {
	m.Append(SurfaceCoeff{Coeff: coeff})
}

// AddLight appends a light. It is positioned by the transform in effect at
// this point and lights the whole module and its sub-modules.
func (m *Module) AddLight(l lighting.Light) {
	m.Append(LightSource{Light: l})
}
