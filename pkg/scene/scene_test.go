package scene

import (
	"bytes"
	"math"
	"testing"

	"github.com/taigrr/scanline/pkg/bezier"
	"github.com/taigrr/scanline/pkg/lighting"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// screenRenderer draws with an identity view, so world coordinates are
// pixel coordinates.
func screenRenderer(width, height int) (*Renderer, *render.Framebuffer) {
	fb := render.NewFramebuffer(width, height)
	return NewRenderer(render.NewRasterizer(fb), math3d.Identity()), fb
}

func square(x0, y0, x1, y1, z float64) render.Polygon {
	p := render.NewPolygon(
		math3d.P3(x0, y0, z),
		math3d.P3(x1, y0, z),
		math3d.P3(x1, y1, z),
		math3d.P3(x0, y1, z),
	)
	p.SetNormals(math3d.V3(0, 0, -1))
	return p
}

func TestAppendCopiesGeometry(t *testing.T) {
	m := New("m")
	p := square(0, 0, 1, 1, 0.5)
	m.AddPolygon(p)
	pts := []math3d.Vec4{math3d.P3(0, 0, 0), math3d.P3(1, 1, 0)}
	m.AddPolyline(pts...)

	p.Vertices[0] = math3d.P3(9, 9, 9)
	pts[0] = math3d.P3(9, 9, 9)

	stored := m.Elements()[0].(PolygonElement).Polygon
	if stored.Vertices[0] != math3d.P3(0, 0, 0.5) {
		t.Errorf("stored polygon changed with the caller's copy: %v", stored.Vertices[0])
	}
	line := m.Elements()[1].(Polyline)
	if line.Points[0] != math3d.P3(0, 0, 0) {
		t.Errorf("stored polyline changed with the caller's copy: %v", line.Points[0])
	}
}

func TestClearKeepsSubModules(t *testing.T) {
	sub := New("sub")
	sub.AddPoint(math3d.P3(1, 1, 0))

	m := New("m")
	m.AddModule(sub)
	m.AddPoint(math3d.P3(0, 0, 0))
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}

	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Len() after Clear = %d", m.Len())
	}
	if sub.Len() != 1 {
		t.Errorf("Clear reached into a referenced module: Len() = %d", sub.Len())
	}
}

func TestTransformOrder(t *testing.T) {
	tests := []struct {
		name  string
		build func(m *Module)
		want  [2]int
	}{
		{
			name: "later transforms apply last",
			build: func(m *Module) {
				m.Translate(1, 0, 0)
				m.Scale(2, 2, 2)
				m.AddPoint(math3d.P3(1, 1, 0))
			},
			want: [2]int{4, 2},
		},
		{
			name: "zero matrix is skipped",
			build: func(m *Module) {
				m.Transform(math3d.Mat4{})
				m.AddPoint(math3d.P3(3, 3, 0))
			},
			want: [2]int{3, 3},
		},
		{
			name: "identity resets",
			build: func(m *Module) {
				m.Translate(5, 0, 0)
				m.Identity()
				m.AddPoint(math3d.P3(1, 2, 0))
			},
			want: [2]int{1, 2},
		},
		{
			name: "2D operators",
			build: func(m *Module) {
				m.Scale2D(2, 3)
				m.Translate2D(1, 1)
				m.AddPoint(math3d.P2(2, 1))
			},
			want: [2]int{5, 4},
		},
		{
			name: "shear",
			build: func(m *Module) {
				m.Shear2D(1, 0)
				m.AddPoint(math3d.P2(1, 3))
			},
			want: [2]int{4, 3},
		},
		{
			name: "sub-module inherits the transform",
			build: func(m *Module) {
				sub := New("sub")
				sub.Translate(0, 1, 0)
				sub.AddPoint(math3d.P3(1, 1, 0))
				m.Translate(2, 0, 0)
				m.AddModule(sub)
			},
			want: [2]int{3, 2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := screenRenderer(10, 10)
			m := New(tc.name)
			tc.build(m)
			ds := render.NewDrawState()
			ds.Color = render.ColorRed

			st := r.Draw(m, math3d.Identity(), ds, nil)
			if st.Points != 1 {
				t.Fatalf("Points = %d, want 1", st.Points)
			}
			if got := fb.GetPixel(tc.want[0], tc.want[1]); got != render.ColorRed {
				t.Errorf("pixel %v = %v, want the point", tc.want, got)
			}
		})
	}
}

func TestAttributeState(t *testing.T) {
	r, fb := screenRenderer(10, 10)

	sub := New("sub")
	sub.Color(render.ColorBlue)
	sub.AddPoint(math3d.P3(1, 1, 0))

	m := New("m")
	m.Color(render.ColorRed)
	m.AddPoint(math3d.P3(0, 0, 0))
	m.AddModule(sub)
	m.AddPoint(math3d.P3(2, 2, 0))
	m.Color(render.ColorGreen)
	m.AddPoint(math3d.P3(3, 3, 0))

	r.Draw(m, math3d.Identity(), render.NewDrawState(), nil)

	want := map[[2]int]render.Color{
		{0, 0}: render.ColorRed,
		{1, 1}: render.ColorBlue,
		{2, 2}: render.ColorRed, // the sub-module's color stays in the sub-module
		{3, 3}: render.ColorGreen,
	}
	for p, c := range want {
		if got := fb.GetPixel(p[0], p[1]); got != c {
			t.Errorf("pixel %v = %v, want %v", p, got, c)
		}
	}
}

func TestDrawLeavesCallerStateAlone(t *testing.T) {
	r, _ := screenRenderer(10, 10)
	m := New("m")
	m.Color(render.ColorBlue)
	m.AddLight(lighting.Ambient(render.ColorWhite))

	ds := render.NewDrawState()
	lights := lighting.New()
	r.Draw(m, math3d.Identity(), ds, lights)

	if ds.Color != render.ColorWhite {
		t.Errorf("caller draw state changed: %v", ds.Color)
	}
	if lights.Len() != 0 {
		t.Errorf("caller lighting grew to %d", lights.Len())
	}
}

func flatState() render.DrawState {
	ds := render.NewDrawState()
	ds.Shade = render.ShadeFlat
	ds.Body = render.ColorWhite
	ds.Surface = render.Color{}
	ds.Viewer = math3d.P3(10, 10, -100)
	return ds
}

func TestLightScoping(t *testing.T) {
	r, fb := screenRenderer(30, 10)
	light := lighting.Direct(render.ColorWhite, math3d.V3(0, 0, -1))

	lit := New("lit")
	lit.AddPolygon(square(1, 1, 9, 9, 0.5))
	lit.AddLight(light) // after the polygon: lights apply to the whole module

	sibling := New("sibling")
	sibling.AddPolygon(square(11, 1, 19, 9, 0.5))

	m := New("root")
	m.AddModule(lit)
	m.AddModule(sibling)
	m.AddPolygon(square(21, 1, 29, 9, 0.5))

	st := r.Draw(m, math3d.Identity(), flatState(), nil)
	if st.Polygons != 3 {
		t.Fatalf("Polygons = %d, want 3", st.Polygons)
	}
	if st.Lights != 1 {
		t.Errorf("Lights = %d, want 1", st.Lights)
	}

	if got := fb.GetPixel(5, 5); got.R < 0.99 {
		t.Errorf("module with the light: %v, want lit", got)
	}
	if got := fb.GetPixel(15, 5); got != render.ColorBlack {
		t.Errorf("sibling saw the light: %v", got)
	}
	if got := fb.GetPixel(25, 5); got != render.ColorBlack {
		t.Errorf("parent saw the light: %v", got)
	}
}

func TestLightsReachSubModules(t *testing.T) {
	r, fb := screenRenderer(10, 10)

	child := New("child")
	child.AddPolygon(square(1, 1, 9, 9, 0.5))

	m := New("root")
	m.AddLight(lighting.Ambient(render.RGB(0.5, 0.5, 0.5)))
	m.AddModule(child)

	r.Draw(m, math3d.Identity(), flatState(), nil)
	want := render.RGB(0.5, 0.5, 0.5)
	if got := fb.GetPixel(5, 5); !got.ApproxEqual(want, 1e-12) {
		t.Errorf("child pixel = %v, want %v", got, want)
	}
}

func TestLightIsTransformed(t *testing.T) {
	r, fb := screenRenderer(10, 10)

	// A point light at the origin, moved in front of the square by the
	// module transform.
	m := New("m")
	m.Translate(5, 5, -10)
	m.AddLight(lighting.Point(render.ColorWhite, math3d.P3(0, 0, 0)))
	m.Identity()
	m.AddPolygon(square(1, 1, 9, 9, 0.5))

	ds := flatState()
	ds.Viewer = math3d.P3(5, 5, -10)
	r.Draw(m, math3d.Identity(), ds, nil)

	// Flat shading uses the first vertex, (1, 1, 0.5): L = (4, 4, -10.5).
	want := 10.5 / math.Sqrt(4*4+4*4+10.5*10.5)
	if got := fb.GetPixel(5, 5); math.Abs(got.R-want) > 1e-9 {
		t.Errorf("pixel = %v, want %v", got.R, want)
	}
}

func TestCallerLightsSeedTheSet(t *testing.T) {
	r, fb := screenRenderer(10, 10)
	m := New("m")
	m.AddPolygon(square(1, 1, 9, 9, 0.5))

	lights := lighting.New(lighting.Ambient(render.RGB(0.25, 0.25, 0.25)))
	r.Draw(m, math3d.Identity(), flatState(), lights)

	want := render.RGB(0.25, 0.25, 0.25)
	if got := fb.GetPixel(5, 5); !got.ApproxEqual(want, 1e-12) {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestLightCapacity(t *testing.T) {
	r, _ := screenRenderer(4, 4)
	m := New("m")
	for range lighting.MaxLights + 5 {
		m.AddLight(lighting.Ambient(render.ColorWhite))
	}
	st := r.Draw(m, math3d.Identity(), render.NewDrawState(), nil)
	if st.LightsDropped != 5 {
		t.Errorf("LightsDropped = %d, want 5", st.LightsDropped)
	}
}

func TestSelfReferenceStops(t *testing.T) {
	r, _ := screenRenderer(4, 4)
	m := New("loop")
	m.AddPoint(math3d.P3(1, 1, 0))
	m.AddModule(m)

	st := r.Draw(m, math3d.Identity(), render.NewDrawState(), nil)
	if st.DepthLimited != 1 {
		t.Errorf("DepthLimited = %d, want 1", st.DepthLimited)
	}
	if st.Modules != MaxDepth {
		t.Errorf("Modules = %d, want %d", st.Modules, MaxDepth)
	}
}

func TestDegenerateGeometryIsSkipped(t *testing.T) {
	r, fb := screenRenderer(10, 10)
	m := New("m")
	m.AddPoint(math3d.V4(1, 1, 0, 0))
	m.AddPolygon(render.NewPolygon(math3d.P3(0, 0, 0.5), math3d.V4(5, 0, 0.5, 0), math3d.P3(5, 5, 0.5)))
	m.AddPolygon(render.NewPolygon(math3d.P3(0, 0, 0.5), math3d.P3(5, 5, 0.5)))
	m.AddPoint(math3d.P3(7, 7, 0))

	st := r.Draw(m, math3d.Identity(), render.NewDrawState(), nil)
	if st.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", st.Skipped)
	}
	if got := fb.GetPixel(7, 7); got != render.ColorWhite {
		t.Error("traversal stopped at a degenerate primitive")
	}
}

func TestBezierInsertion(t *testing.T) {
	tests := []struct {
		name  string
		build func(m *Module)
		want  int
	}{
		{"curve 0", func(m *Module) { m.BezierCurve(bezier.UnitCurve(), 0) }, 3},
		{"curve 3", func(m *Module) { m.BezierCurve(bezier.UnitCurve(), 3) }, 24},
		{"curve negative", func(m *Module) { m.BezierCurve(bezier.UnitCurve(), -2) }, 3},
		{"surface lines 0", func(m *Module) { m.BezierSurface(bezier.UnitSurface(), 0, false) }, 24},
		{"surface lines 1", func(m *Module) { m.BezierSurface(bezier.UnitSurface(), 1, false) }, 96},
		{"surface solid 2", func(m *Module) { m.BezierSurface(bezier.UnitSurface(), 2, true) }, 18 * 16},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := New(tc.name)
			tc.build(m)
			if m.Len() != tc.want {
				t.Errorf("Len() = %d, want %d", m.Len(), tc.want)
			}
		})
	}
}

func TestBezierCurveEndpoints(t *testing.T) {
	c := bezier.NewCurve(math3d.P3(0, 0, 0), math3d.P3(1, 2, 0), math3d.P3(3, 2, 0), math3d.P3(4, 0, 0))
	m := New("curve")
	m.BezierCurve(c, 2)

	els := m.Elements()
	first, last := els[0].(Line), els[len(els)-1].(Line)
	if first.A != c.P[0] || last.B != c.P[3] {
		t.Errorf("lines run from %v to %v", first.A, last.B)
	}
	for i := 1; i < len(els); i++ {
		if els[i-1].(Line).B != els[i].(Line).A {
			t.Errorf("gap between line %d and %d", i-1, i)
		}
	}
}

func TestBezierSurfaceNormals(t *testing.T) {
	m := New("patch")
	m.BezierSurface(bezier.UnitSurface(), 0, true)

	for i, e := range m.Elements() {
		p := e.(PolygonElement).Polygon
		if p.OneSided {
			t.Errorf("triangle %d is one-sided", i)
		}
		if len(p.Normals) != 3 {
			t.Fatalf("triangle %d has %d normals", i, len(p.Normals))
		}
		// Flat patch in the xz plane: every normal is vertical and all
		// triangles agree.
		if n := p.Normals[0]; !n.ApproxEqual(m.Elements()[0].(PolygonElement).Polygon.Normals[0], 1e-12) || n.Y == 0 {
			t.Errorf("triangle %d normal %v", i, n)
		}
	}
}

func TestShapes(t *testing.T) {
	tests := []struct {
		name  string
		build func(m *Module)
		want  int
	}{
		{"cylinder", func(m *Module) { m.Cylinder(8) }, 24},
		{"cylinder clamps sides", func(m *Module) { m.Cylinder(1) }, 9},
		{"cone", func(m *Module) { m.Cone(8) }, 16},
		{"sphere", func(m *Module) { m.Sphere(8, 4) }, 64},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := New(tc.name)
			tc.build(m)
			if m.Len() != tc.want {
				t.Errorf("Len() = %d, want %d", m.Len(), tc.want)
			}
		})
	}
}

func TestCube(t *testing.T) {
	for _, solid := range []bool{true, false} {
		m := New("m")
		m.Cube(solid)
		if m.Len() != 1 {
			t.Fatalf("Cube added %d elements, want one sub-module", m.Len())
		}
		sub := m.Elements()[0].(Sub).Module
		want := 12
		if solid {
			want = 6
		}
		if sub.Len() != want {
			t.Errorf("solid=%v: cube has %d elements, want %d", solid, sub.Len(), want)
		}
	}

	m := New("m")
	m.Cube(true)
	for _, e := range m.Elements()[0].(Sub).Module.Elements() {
		p := e.(PolygonElement).Polygon
		if !p.OneSided {
			t.Error("cube face is two-sided")
		}
		// The stored normal points out of the face.
		center := p.Vertices[0].Add(p.Vertices[2]).Scale(0.5).Vec3()
		if center.Dot(p.Normals[0]) <= 0 {
			t.Errorf("normal %v points into the cube", p.Normals[0])
		}
	}
}

func cubeScene() (*Module, math3d.View3D) {
	view := math3d.View3D{
		VRP:     math3d.P3(2, 1.5, -3),
		VPN:     math3d.V3(-2, -1.5, 3),
		VUP:     math3d.V3(0, 1, 0),
		D:       2,
		DU:      1.6,
		DV:      1.2,
		B:       30,
		ScreenX: 160,
		ScreenY: 120,
	}

	m := New("scene")
	m.AddLight(lighting.Point(render.ColorWhite, view.VRP))
	m.BodyColor(render.RGB(0.8, 0.5, 0.3))
	m.SurfaceColor(render.RGB(0.2, 0.2, 0.2))
	m.SurfaceCoeff(16)
	m.Cube(true)
	return m, view
}

func renderCube(t *testing.T) *render.Framebuffer {
	t.Helper()
	m, view := cubeScene()
	vtm, err := view.Matrix()
	if err != nil {
		t.Fatal(err)
	}

	fb := render.NewFramebuffer(view.ScreenX, view.ScreenY)
	r := NewRenderer(render.NewRasterizer(fb), vtm)
	ds := render.NewDrawState()
	ds.Shade = render.ShadeGouraud
	ds.Viewer = view.VRP

	st := r.Draw(m, math3d.Identity(), ds, nil)
	if st.Polygons != 6 || st.Abandoned != 0 || st.Skipped != 0 {
		t.Fatalf("stats = %+v", st)
	}
	return fb
}

func TestCubeRenderIsDeterministic(t *testing.T) {
	var images [2]bytes.Buffer
	for i := range images {
		if err := renderCube(t).WritePPM(&images[i]); err != nil {
			t.Fatal(err)
		}
	}
	if !bytes.Equal(images[0].Bytes(), images[1].Bytes()) {
		t.Error("two renders of the same scene differ")
	}
}

func TestCubeRenderCoversCenter(t *testing.T) {
	fb := renderCube(t)
	if got := fb.GetPixel(80, 60); got == render.ColorBlack {
		t.Error("the cube should cover the image center")
	}
	if got := fb.GetPixel(2, 2); got != render.ColorBlack {
		t.Errorf("corner pixel = %v, want background", got)
	}
}

func BenchmarkDrawCube(b *testing.B) {
	m, view := cubeScene()
	vtm, _ := view.Matrix()
	fb := render.NewFramebuffer(view.ScreenX, view.ScreenY)
	raster := render.NewRasterizer(fb)
	r := NewRenderer(raster, vtm)
	ds := render.NewDrawState()
	ds.Shade = render.ShadeGouraud
	ds.Viewer = view.VRP

	for b.Loop() {
		fb.Clear(render.ColorBlack)
		raster.ClearDepth()
		r.Draw(m, math3d.Identity(), ds, nil)
	}
}
