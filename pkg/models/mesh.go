// Package models provides triangle meshes and turns them into scene
// polygons.
package models

import (
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
	"github.com/taigrr/scanline/pkg/scene"
)

// Mesh is an indexed triangle mesh with per-face materials.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Vertex holds the attributes the renderer uses.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3 // Zero when the source has none
}

// Face is a triangle with vertex indices and a material reference.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is the subset of a PBR material that maps onto the body color.
type Material struct {
	Name        string
	BaseColor   [4]float64 // RGBA in 0-1 range
	Metallic    float64
	Roughness   float64
	DoubleSided bool
}

// Color returns the base color without alpha.
func (m Material) Color() render.Color {
	return render.RGB(m.BaseColor[0], m.BaseColor[1], m.BaseColor[2])
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Vec3{}, math3d.Vec3{}
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// CalculateNormals assigns each face's normal to its vertices. Vertices
// shared between faces keep the normal of the last face.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		n := m.faceNormal(f).Normalize()
		for _, i := range f.V {
			m.Vertices[i].Normal = n
		}
	}
}

// CalculateSmoothNormals averages area-weighted face normals per vertex.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Vec3{}
	}

	for _, f := range m.Faces {
		n := m.faceNormal(f) // Don't normalize yet
		for _, i := range f.V {
			m.Vertices[i].Normal = m.Vertices[i].Normal.Add(n)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// HasNormals reports whether any vertex carries a normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.Len() > 0.001 {
			return true
		}
	}
	return false
}

// Transform applies mat to every vertex. Normals go through the same matrix
// as directions, which is exact for rotations and uniform scales.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i, v := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec4(v.Position.Point()).Vec3()
		m.Vertices[i].Normal = mat.MulVec3Dir(v.Normal).Normalize()
	}
	m.CalculateBounds()
}

// Normalize centers the mesh on the origin and scales it so its largest
// dimension is 1. An empty or flat-to-a-point mesh is only centered.
func (m *Mesh) Normalize() {
	m.CalculateBounds()
	fit := math3d.Translate(m.Center().Negate())
	size := m.Size()
	if extent := max(size.X, size.Y, size.Z); extent > 0 {
		fit.Premul(math3d.ScaleUniform(1 / extent))
	}
	m.Transform(fit)
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := *m
	clone.Vertices = append([]Vertex(nil), m.Vertices...)
	clone.Faces = append([]Face(nil), m.Faces...)
	clone.Materials = append([]Material(nil), m.Materials...)
	return &clone
}

// GetFaceMaterial returns the material index for face i.
// Returns -1 if no material assigned.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

func (m *Mesh) validFace(f Face) bool {
	for _, i := range f.V {
		if i < 0 || i >= len(m.Vertices) {
			return false
		}
	}
	return true
}

// Polygons converts every face into a polygon with per-vertex normals. A
// vertex without a normal uses the face normal. Faces whose material is not
// double sided become one-sided.
//
// colors holds one color per polygon, the material base color or white,
// and is nil when the mesh has no materials so the module's own colors
// apply. Faces referencing missing vertices are dropped.
func (m *Mesh) Polygons() (polys []render.Polygon, colors []render.Color) {
	polys = make([]render.Polygon, 0, len(m.Faces))
	if len(m.Materials) > 0 {
		colors = make([]render.Color, 0, len(m.Faces))
	}

	for _, f := range m.Faces {
		if !m.validFace(f) {
			continue
		}
		p := render.NewPolygon(
			m.Vertices[f.V[0]].Position.Point(),
			m.Vertices[f.V[1]].Position.Point(),
			m.Vertices[f.V[2]].Position.Point(),
		)

		face := m.faceNormal(f).Normalize()
		p.Normals = make([]math3d.Vec3, 3)
		for k, i := range f.V {
			p.Normals[k] = m.Vertices[i].Normal
			if p.Normals[k].Len() < 0.001 {
				p.Normals[k] = face
			}
		}

		mat := m.GetMaterial(f.Material)
		p.OneSided = mat != nil && !mat.DoubleSided
		polys = append(polys, p)

		if colors != nil {
			if mat != nil {
				colors = append(colors, mat.Color())
			} else {
				colors = append(colors, render.ColorWhite)
			}
		}
	}
	return polys, colors
}

// Module returns a scene module holding the mesh's polygons.
func (m *Mesh) Module() *scene.Module {
	mod := scene.New(m.Name)
	mod.AddPolygons(m.Polygons())
	return mod
}
