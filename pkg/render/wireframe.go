package render

import (
	"github.com/taigrr/scanline/pkg/math3d"
)

// Line and point drawing for Frame shading and for the point, line and
// polyline scene elements. Coordinates are screen space; nothing here is
// depth tested.

// DrawPoint sets the pixel nearest to p, which must already be in screen
// coordinates.
func (r *Rasterizer) DrawPoint(p math3d.Vec4, c Color) {
	r.fb.SetPixel(round(p.X), round(p.Y), c)
}

// DrawLine draws a screen-space line without depth testing.
func (r *Rasterizer) DrawLine(a, b math3d.Vec4, c Color) {
	r.fb.DrawLine(round(a.X), round(a.Y), round(b.X), round(b.Y), c)
}

// DrawPolygonFrame draws the outline of a screen-space polygon.
func (r *Rasterizer) DrawPolygonFrame(p *Polygon, c Color) {
	n := len(p.Vertices)
	if n < 2 {
		return
	}
	for i := range n {
		r.DrawLine(p.Vertices[i], p.Vertices[(i+1)%n], c)
	}
}

// DrawPolyline draws connected screen-space segments.
func (r *Rasterizer) DrawPolyline(points []math3d.Vec4, c Color) {
	if len(points) == 1 {
		r.DrawPoint(points[0], c)
		return
	}
	for i := 1; i < len(points); i++ {
		r.DrawLine(points[i-1], points[i], c)
	}
}
