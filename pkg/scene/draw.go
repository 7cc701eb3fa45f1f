package scene

import (
	"errors"

	"github.com/taigrr/scanline/pkg/lighting"
	"github.com/taigrr/scanline/pkg/log"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// MaxDepth is the deepest sub-module nesting Draw follows. It also stops
// modules that reference themselves.
const MaxDepth = 64

var defaultLogger = log.New("scene")

// Stats summarizes one Draw call.
type Stats struct {
	Modules       int // Modules entered
	Polygons      int // Polygons handed to the rasterizer
	Lines         int // Lines and polyline segments drawn
	Points        int
	Lights        int // Light elements collected
	LightsDropped int // Lights past the lighting capacity
	Skipped       int // Primitives with degenerate coordinates
	Abandoned     int // Polygon fills stopped by the rasterizer
	DepthLimited  int // Sub-modules not entered because of MaxDepth
}

// Renderer draws modules through a view transform into a rasterizer.
type Renderer struct {
	Raster *render.Rasterizer
	VTM    math3d.Mat4
	Log    log.Logger // Defaults to the "scene" logger
}

// NewRenderer creates a renderer drawing into r through vtm.
func NewRenderer(r *render.Rasterizer, vtm math3d.Mat4) *Renderer {
	return &Renderer{Raster: r, VTM: vtm, Log: defaultLogger}
}

func (r *Renderer) logger() log.Logger {
	if r.Log == nil {
		return defaultLogger
	}
	return r.Log
}

// Draw traverses m depth first and rasterizes its geometry. gtm places m in
// the world; ds is the initial attribute state and lights the lights that
// apply before any LightSource element is seen (nil for none). Neither ds
// nor lights is modified. Problems with individual primitives are logged
// and counted; they never stop the traversal.
func (r *Renderer) Draw(m *Module, gtm math3d.Mat4, ds render.DrawState, lights *lighting.Lighting) Stats {
	var st Stats
	if lights == nil {
		lights = lighting.New()
	}
	r.draw(m, gtm, ds, lights, 0, &st)
	return st
}

// collectLights returns the set of lights for m: inherited plus every
// LightSource of m itself, placed by the transform in effect where it
// appears. inherited is returned unchanged when m adds nothing.
func (r *Renderer) collectLights(m *Module, gtm math3d.Mat4, inherited *lighting.Lighting, st *Stats) *lighting.Lighting {
	lights := inherited
	ltm := math3d.Identity()
	for _, e := range m.elements {
		switch e := e.(type) {
		case Transform:
			if !e.M.IsZero() {
				ltm.Premul(e.M)
			}
		case Identity:
			ltm = math3d.Identity()
		case LightSource:
			if lights == inherited {
				lights = inherited.Clone()
			}
			st.Lights++
			if !lights.Add(e.Light.Transform(gtm.Mul(ltm))) {
				st.LightsDropped++
				r.logger().Debugf("module %q: dropping %s light, %d lights already set", m.Name, e.Light.Type, lighting.MaxLights)
			}
		}
	}
	return lights
}

// draw is called with ds by value: attribute elements change this frame's
// copy, which later siblings see, and each sub-module gets its own copy.
func (r *Renderer) draw(m *Module, gtm math3d.Mat4, ds render.DrawState, inherited *lighting.Lighting, depth int, st *Stats) {
	if m == nil {
		return
	}
	if depth >= MaxDepth {
		st.DepthLimited++
		r.logger().Warningf("module %q: nesting deeper than %d, not drawn", m.Name, MaxDepth)
		return
	}
	st.Modules++

	lights := r.collectLights(m, gtm, inherited, st)
	ltm := math3d.Identity()

	for _, e := range m.elements {
		switch e := e.(type) {
		case Sub:
			r.draw(e.Module, gtm.Mul(ltm), ds, lights, depth+1, st)
		case Transform:
			if !e.M.IsZero() {
				ltm.Premul(e.M)
			}
		case Identity:
			ltm = math3d.Identity()
		case ForegroundColor:
			ds.Color = e.Color
		case BodyColor:
			ds.Body = e.Color
		case SurfaceColor:
			ds.Surface = e.Color
		case SurfaceCoeff:
			ds.SurfaceCoeff = e.Coeff
		case LightSource:
			// Collected before drawing.
		case Point:
			if p, ok := r.project(m, gtm.Mul(ltm), e.P, st); ok {
				r.Raster.DrawPoint(p, ds.Color)
				st.Points++
			}
		case Line:
			world := gtm.Mul(ltm)
			a, okA := r.project(m, world, e.A, st)
			b, okB := r.project(m, world, e.B, st)
			if okA && okB {
				r.Raster.DrawLine(a, b, ds.Color)
				st.Lines++
			}
		case Polyline:
			r.drawPolyline(m, gtm.Mul(ltm), e.Points, ds.Color, st)
		case PolygonElement:
			r.drawPolygon(m, gtm.Mul(ltm), e.Polygon, ds, lights, st)
		default:
			r.logger().Warningf("module %q: unknown element %T", m.Name, e)
		}
	}
}

// project takes a point through world and the view transform to screen
// coordinates.
func (r *Renderer) project(m *Module, world math3d.Mat4, p math3d.Vec4, st *Stats) (math3d.Vec4, bool) {
	q, err := r.VTM.MulVec4(world.MulVec4(p)).Homogenize()
	if err != nil {
		st.Skipped++
		r.logger().Warningf("module %q: skipping point %v: %v", m.Name, p, err)
		return q, false
	}
	return q, true
}

func (r *Renderer) drawPolyline(m *Module, world math3d.Mat4, points []math3d.Vec4, c render.Color, st *Stats) {
	screen := make([]math3d.Vec4, 0, len(points))
	for _, p := range points {
		q, ok := r.project(m, world, p, st)
		if !ok {
			return
		}
		screen = append(screen, q)
	}
	r.Raster.DrawPolyline(screen, c)
	st.Lines += max(len(screen)-1, 0)
}

func (r *Renderer) drawPolygon(m *Module, world math3d.Mat4, src render.Polygon, ds render.DrawState, lights *lighting.Lighting, st *Stats) {
	p := src.Clone()
	p.Transform(world)

	if ds.Shade.Lit() {
		lights.ShadePolygon(&p, &ds)
		if ds.Shade == render.ShadeFlat && len(p.Colors) > 0 {
			ds.FlatColor = p.Colors[0]
		}
	}

	p.Transform(r.VTM)
	if err := p.HomogenizeXY(); err != nil {
		st.Skipped++
		r.logger().Warningf("module %q: skipping polygon: %v", m.Name, err)
		return
	}

	err := r.Raster.FillPolygon(&p, &ds)
	switch {
	case err == nil:
		st.Polygons++
	case errors.Is(err, render.ErrOddEdgeCount):
		st.Abandoned++
		r.logger().Warningf("module %q: polygon fill abandoned: %v", m.Name, err)
	default:
		st.Skipped++
		r.logger().Warningf("module %q: skipping polygon: %v", m.Name, err)
	}
}
