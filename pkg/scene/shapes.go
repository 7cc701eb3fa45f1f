package scene

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// Unit cube corners, centered on the origin.
var cubeCorners = [8]math3d.Vec4{
	math3d.P3(-0.5, -0.5, -0.5),
	math3d.P3(0.5, -0.5, -0.5),
	math3d.P3(0.5, 0.5, -0.5),
	math3d.P3(-0.5, 0.5, -0.5),
	math3d.P3(-0.5, -0.5, 0.5),
	math3d.P3(0.5, -0.5, 0.5),
	math3d.P3(0.5, 0.5, 0.5),
	math3d.P3(-0.5, 0.5, 0.5),
}

var cubeFaces = []struct {
	corners [4]int
	normal  math3d.Vec3
}{
	{[4]int{0, 1, 2, 3}, math3d.V3(0, 0, -1)}, // front
	{[4]int{4, 5, 6, 7}, math3d.V3(0, 0, 1)},  // back
	{[4]int{2, 3, 7, 6}, math3d.V3(0, 1, 0)},  // top
	{[4]int{0, 1, 5, 4}, math3d.V3(0, -1, 0)}, // bottom
	{[4]int{0, 3, 7, 4}, math3d.V3(-1, 0, 0)}, // left
	{[4]int{1, 2, 6, 5}, math3d.V3(1, 0, 0)},  // right
}

var cubeEdges = [12][2]int{
	{0, 1}, {0, 3}, {0, 4}, {1, 2}, {1, 5}, {2, 3},
	{2, 6}, {3, 7}, {4, 5}, {4, 7}, {5, 6}, {6, 7},
}

// Cube appends a unit cube centered on the origin as a sub-module: six
// one-sided faces with normals when solid, twelve edges otherwise.
func (m *Module) Cube(solid bool) {
	cube := New("cube")
	if solid {
		for _, f := range cubeFaces {
			p := render.NewPolygon(
				cubeCorners[f.corners[0]],
				cubeCorners[f.corners[1]],
				cubeCorners[f.corners[2]],
				cubeCorners[f.corners[3]],
			)
			p.OneSided = true
			p.SetNormals(f.normal)
			cube.AddPolygon(p)
		}
	} else {
		for _, e := range cubeEdges {
			cube.AddLine(cubeCorners[e[0]], cubeCorners[e[1]])
		}
	}
	m.AddModule(cube)
}

// ring returns the point at step i of n around the unit circle in the xz
// plane.
func ring(i, n int) (x, z float64) {
	a := float64(i%n) * 2 * math.Pi / float64(n)
	return math.Cos(a), math.Sin(a)
}

// Cylinder appends a unit cylinder of radius 1 from y = 0 to y = 1 with the
// given number of sides (at least 3): top and bottom fans and side quads.
func (m *Module) Cylinder(sides int) {
	sides = max(sides, 3)
	up, down := math3d.V3(0, 1, 0), math3d.V3(0, -1, 0)

	for i := range sides {
		x1, z1 := ring(i, sides)
		x2, z2 := ring(i+1, sides)

		top := render.NewPolygon(math3d.P3(0, 1, 0), math3d.P3(x1, 1, z1), math3d.P3(x2, 1, z2))
		top.OneSided = true
		top.SetNormals(up)
		m.AddPolygon(top)

		bottom := render.NewPolygon(math3d.P3(0, 0, 0), math3d.P3(x1, 0, z1), math3d.P3(x2, 0, z2))
		bottom.OneSided = true
		bottom.SetNormals(down)
		m.AddPolygon(bottom)

		side := render.NewPolygon(
			math3d.P3(x1, 0, z1),
			math3d.P3(x2, 0, z2),
			math3d.P3(x2, 1, z2),
			math3d.P3(x1, 1, z1),
		)
		side.OneSided = true
		side.Normals = []math3d.Vec3{
			math3d.V3(x1, 0, z1),
			math3d.V3(x2, 0, z2),
			math3d.V3(x2, 0, z2),
			math3d.V3(x1, 0, z1),
		}
		m.AddPolygon(side)
	}
}

// Cone appends a unit cone with its base of radius 1 at y = 0 and its apex
// at (0, 1, 0).
func (m *Module) Cone(sides int) {
	sides = max(sides, 3)
	down := math3d.V3(0, -1, 0)

	for i := range sides {
		x1, z1 := ring(i, sides)
		x2, z2 := ring(i+1, sides)

		bottom := render.NewPolygon(math3d.P3(0, 0, 0), math3d.P3(x1, 0, z1), math3d.P3(x2, 0, z2))
		bottom.SetNormals(down)
		m.AddPolygon(bottom)

		side := render.NewPolygon(math3d.P3(0, 1, 0), math3d.P3(x1, 0, z1), math3d.P3(x2, 0, z2))
		side.Normals = []math3d.Vec3{
			math3d.V3(x1, 0.5, z1),
			math3d.V3(x1, 0.5, z1),
			math3d.V3(x2, 0.5, z2),
		}
		m.AddPolygon(side)
	}
}

// Sphere appends a unit sphere centered on the origin, two triangles per
// slice and stack. Normals are the vertex positions.
func (m *Module) Sphere(slices, stacks int) {
	slices, stacks = max(slices, 3), max(stacks, 2)

	at := func(phi, theta float64) (math3d.Vec4, math3d.Vec3) {
		n := math3d.V3(math.Cos(phi)*math.Cos(theta), math.Sin(phi), math.Cos(phi)*math.Sin(theta))
		return n.Point(), n
	}

	for i := range stacks {
		phi1 := math.Pi * (-0.5 + float64(i)/float64(stacks))
		phi2 := math.Pi * (-0.5 + float64(i+1)/float64(stacks))
		for j := range slices {
			theta1 := 2 * math.Pi * float64(j) / float64(slices)
			theta2 := 2 * math.Pi * float64(j+1) / float64(slices)

			p0, n0 := at(phi1, theta1)
			p1, n1 := at(phi1, theta2)
			p2, n2 := at(phi2, theta2)
			p3, n3 := at(phi2, theta1)

			lower := render.NewPolygon(p0, p1, p2)
			lower.Normals = []math3d.Vec3{n0, n1, n2}
			m.AddPolygon(lower)

			upper := render.NewPolygon(p0, p3, p2)
			upper.Normals = []math3d.Vec3{n0, n3, n2}
			m.AddPolygon(upper)
		}
	}
}
