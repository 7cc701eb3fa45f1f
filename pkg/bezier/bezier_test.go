package bezier

import (
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

func sampleCurve() Curve {
	return NewCurve(
		math3d.P3(10, 20, 0),
		math3d.P3(60, 180, 1),
		math3d.P3(150, -40, 2),
		math3d.P3(200, 90, 3),
	)
}

func sampleSurface() Surface {
	var p [16]math3d.Vec4
	for i := range 4 {
		for j := range 4 {
			h := float64((i*7+j*3)%5) - 2
			p[i*4+j] = math3d.P3(float64(j), h, float64(i))
		}
	}
	return NewSurface(p)
}

func TestSubdivideEndpoints(t *testing.T) {
	c := sampleCurve()
	left, right := c.Subdivide()

	if left.P[0] != c.P[0] {
		t.Errorf("left start = %v, want %v", left.P[0], c.P[0])
	}
	if right.P[3] != c.P[3] {
		t.Errorf("right end = %v, want %v", right.P[3], c.P[3])
	}
	if left.P[3] != right.P[0] {
		t.Errorf("children do not share the center: %v != %v", left.P[3], right.P[0])
	}
	if !left.P[3].ApproxEqual(c.Eval(0.5), 1e-12) {
		t.Errorf("center = %v, want Eval(0.5) = %v", left.P[3], c.Eval(0.5))
	}
}

func TestSubdivideReparameterizes(t *testing.T) {
	c := sampleCurve()
	left, right := c.Subdivide()

	for _, tt := range []float64{0, 0.2, 0.5, 0.9, 1} {
		if got, want := left.Eval(tt), c.Eval(tt/2); !got.ApproxEqual(want, 1e-9) {
			t.Errorf("left.Eval(%v) = %v, want %v", tt, got, want)
		}
		if got, want := right.Eval(tt), c.Eval(0.5+tt/2); !got.ApproxEqual(want, 1e-9) {
			t.Errorf("right.Eval(%v) = %v, want %v", tt, got, want)
		}
	}
}

func TestEvalEndpoints(t *testing.T) {
	c := sampleCurve()
	if c.Eval(0) != c.P[0] {
		t.Errorf("Eval(0) = %v", c.Eval(0))
	}
	if !c.Eval(1).ApproxEqual(c.P[3], 1e-12) {
		t.Errorf("Eval(1) = %v", c.Eval(1))
	}
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name      string
		c         Curve
		tolerance float64
		wantLen   int
	}{
		{
			name: "already flat",
			c: NewCurve(
				math3d.P3(0, 0, 0), math3d.P3(2, 1, 0),
				math3d.P3(4, 1, 0), math3d.P3(6, 0, 0),
			),
			tolerance: 10,
			wantLen:   4,
		},
		{
			name:      "large curve subdivides",
			c:         sampleCurve(),
			tolerance: 10,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pts := tc.c.Flatten(tc.tolerance)
			if tc.wantLen > 0 && len(pts) != tc.wantLen {
				t.Errorf("len = %d, want %d", len(pts), tc.wantLen)
			}
			if (len(pts)-1)%3 != 0 {
				t.Errorf("len = %d, not 1 + 3k", len(pts))
			}
			if pts[0] != tc.c.P[0] || pts[len(pts)-1] != tc.c.P[3] {
				t.Errorf("polyline does not span the curve endpoints")
			}
			// Leaf boundaries lie on the curve and appear in order of x.
			for i := 3; i < len(pts); i += 3 {
				if pts[i].X < pts[i-3].X {
					t.Errorf("points out of order at %d", i)
				}
			}
		})
	}
}

func TestFlattenDepthLimit(t *testing.T) {
	// A tolerance below float resolution of the curve would recurse
	// forever without the depth limit.
	c := sampleCurve()
	pts := c.Flatten(1e-300)
	if want := 1 + 3*(1<<MaxDepth); len(pts) != want {
		t.Errorf("len = %d, want %d", len(pts), want)
	}
}

func TestCurveDraw(t *testing.T) {
	fb := render.NewFramebuffer(220, 200)
	r := render.NewRasterizer(fb)
	sampleCurve().Draw(r, render.ColorRed)

	if got := fb.GetPixel(10, 20); got != render.ColorRed {
		t.Errorf("start pixel = %v, want red", got)
	}
	if got := fb.GetPixel(200, 90); got != render.ColorRed {
		t.Errorf("end pixel = %v, want red", got)
	}
}

func TestSurfaceSubdivide(t *testing.T) {
	s := sampleSurface()
	kids := s.Subdivide()

	corners := []struct {
		kid, idx int
		want     math3d.Vec4
	}{
		{0, 0, s.P[0]},
		{1, 3, s.P[3]},
		{2, 12, s.P[12]},
		{3, 15, s.P[15]},
	}
	for _, c := range corners {
		if got := kids[c.kid].P[c.idx]; got != c.want {
			t.Errorf("child %d corner = %v, want %v", c.kid, got, c.want)
		}
	}

	center := s.Eval(0.5, 0.5)
	for q, k := range []int{15, 12, 3, 0} {
		if got := kids[q].P[k]; !got.ApproxEqual(center, 1e-12) {
			t.Errorf("child %d center corner = %v, want %v", q, got, center)
		}
	}

	// Each child reproduces its quarter of the parent.
	for q, kid := range kids {
		u0, v0 := float64(q%2)/2, float64(q/2)/2
		for _, uv := range [][2]float64{{0.25, 0.5}, {0.7, 0.1}, {1, 1}} {
			got := kid.Eval(uv[0], uv[1])
			want := s.Eval(u0+uv[0]/2, v0+uv[1]/2)
			if !got.ApproxEqual(want, 1e-9) {
				t.Errorf("child %d Eval%v = %v, want %v", q, uv, got, want)
			}
		}
	}
}

func TestUnitShapes(t *testing.T) {
	c := UnitCurve()
	if !c.Eval(1).ApproxEqual(math3d.P3(1, 0, 0), 1e-12) {
		t.Errorf("unit curve ends at %v", c.Eval(1))
	}
	s := UnitSurface()
	if !s.Eval(1, 1).ApproxEqual(math3d.P3(1, 0, 1), 1e-12) {
		t.Errorf("unit surface far corner %v", s.Eval(1, 1))
	}
	if got := s.Corners()[3]; !got.ApproxEqual(math3d.P3(1, 0, 1), 1e-12) {
		t.Errorf("Corners()[3] = %v", got)
	}
	if got := s.Column(3).Eval(1); !got.ApproxEqual(math3d.P3(1, 0, 1), 1e-12) {
		t.Errorf("Column(3) ends at %v", got)
	}
}

func BenchmarkFlatten(b *testing.B) {
	c := sampleCurve()
	for b.Loop() {
		c.Flatten(DefaultTolerance)
	}
}
