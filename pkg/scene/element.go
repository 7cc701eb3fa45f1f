// Package scene holds the display list: Modules of Elements that are
// traversed depth first to draw a hierarchical scene.
package scene

import (
	"slices"

	"github.com/taigrr/scanline/pkg/lighting"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// Element is one entry of a Module. The set of implementations is closed.
//
// Every element except Sub owns its payload: the Add methods of Module copy
// geometry before storing it. Sub only refers to another Module, which may
// be referenced from many parents and is never modified through the
// reference.
type Element interface {
	element()
}

// Sub draws another module with the current transform and attributes.
type Sub struct {
	Module *Module
}

// Point is a single point drawn in the foreground color.
type Point struct {
	P math3d.Vec4
}

// Line is a segment drawn in the foreground color.
type Line struct {
	A, B math3d.Vec4
}

// Polyline is a connected sequence of segments.
type Polyline struct {
	Points []math3d.Vec4
}

// PolygonElement is a polygon drawn with the current shade mode.
type PolygonElement struct {
	Polygon render.Polygon
}

// Transform premultiplies the local transform. The zero matrix is skipped.
type Transform struct {
	M math3d.Mat4
}

// Identity resets the local transform to identity.
type Identity struct{}

// ForegroundColor sets the color for lines, points and Constant fills.
type ForegroundColor struct {
	Color render.Color
}

// BodyColor sets the diffuse reflectance.
type BodyColor struct {
	Color render.Color
}

// SurfaceColor sets the specular reflectance.
type SurfaceColor struct {
	Color render.Color
}

// SurfaceCoeff sets the specular exponent.
type SurfaceCoeff struct {
	Coeff float64
}

// LightSource adds a light, positioned by the transform in effect where it
// appears, to the module and everything below it.
type LightSource struct {
	Light lighting.Light
}

func (Sub) element()             {}
func (Point) element()           {}
func (Line) element()            {}
func (Polyline) element()        {}
func (PolygonElement) element()  {}
func (Transform) element()       {}
func (Identity) element()        {}
func (ForegroundColor) element() {}
func (BodyColor) element()       {}
func (SurfaceColor) element()    {}
func (SurfaceCoeff) element()    {}
func (LightSource) element()     {}

// own returns e with every slice payload copied, so the stored element
// shares nothing with the caller.
func own(e Element) Element {
	switch e := e.(type) {
	case Polyline:
		return Polyline{Points: slices.Clone(e.Points)}
	case PolygonElement:
		return PolygonElement{Polygon: e.Polygon.Clone()}
	}
	return e
}
