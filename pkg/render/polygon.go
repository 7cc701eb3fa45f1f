package render

import (
	"errors"
	"fmt"
	"image"
	"slices"
	"strings"

	"github.com/taigrr/scanline/pkg/math3d"
)

// ErrTooFewVertices is returned when a polygon has fewer than three vertices.
var ErrTooFewVertices = errors.New("polygon needs at least three vertices")

// ShadeMode selects how polygons are drawn.
type ShadeMode int

const (
	ShadeFrame    ShadeMode = iota // Outline only
	ShadeConstant                  // Foreground color, no depth interpolation
	ShadeFlat                      // One lit color per polygon
	ShadeDepth                     // Gray level from depth
	ShadeGouraud                   // Lit per vertex, interpolated
	ShadePhong                     // Not implemented per pixel; drawn like Gouraud
)

var shadeNames = []string{"frame", "constant", "flat", "depth", "gouraud", "phong"}

func (m ShadeMode) String() string {
	if m < 0 || int(m) >= len(shadeNames) {
		return fmt.Sprintf("ShadeMode(%d)", int(m))
	}
	return shadeNames[m]
}

// ParseShadeMode parses a shade mode name such as "gouraud".
func ParseShadeMode(s string) (ShadeMode, error) {
	i := slices.Index(shadeNames, strings.ToLower(s))
	if i < 0 {
		return 0, fmt.Errorf("unknown shade mode %q (want one of %s)", s, strings.Join(shadeNames, ", "))
	}
	return ShadeMode(i), nil
}

// Lit reports whether the mode needs per-vertex lighting before projection.
func (m ShadeMode) Lit() bool {
	return m == ShadeFlat || m == ShadeGouraud || m == ShadePhong
}

// DrawState is the attribute state polygons are drawn with.
type DrawState struct {
	Color        Color       // Foreground color for lines, points and Constant fills
	FlatColor    Color       // Fill color for Flat shading, set from lighting
	Body         Color       // Diffuse reflectance
	Surface      Color       // Specular reflectance
	SurfaceCoeff float64     // Specular exponent
	Shade        ShadeMode
	ZBuffer      bool        // Depth test enabled
	Viewer       math3d.Vec4 // Eye position for lighting, world coordinates
	Texture      image.Image // Carried for scene authors; never sampled
}

// NewDrawState returns the default draw state: white foreground and body,
// dark gray surface, frame shading with the z-buffer on.
func NewDrawState() DrawState {
	return DrawState{
		Color:     ColorWhite,
		FlatColor: ColorWhite,
		Body:      ColorWhite,
		Surface:   Color{0.1, 0.1, 0.1},
		Shade:     ShadeFrame,
		ZBuffer:   true,
		Viewer:    math3d.P3(0, 0, 0),
	}
}

// Polygon is a closed planar vertex loop with optional per-vertex colors
// and normals.
type Polygon struct {
	Vertices []math3d.Vec4
	Colors   []Color       // Optional, one per vertex
	Normals  []math3d.Vec3 // Optional, one per vertex
	OneSided bool
	ZBuffer  bool
}

// NewPolygon creates a two-sided, depth-tested polygon from vertices.
func NewPolygon(vertices ...math3d.Vec4) Polygon {
	return Polygon{
		Vertices: slices.Clone(vertices),
		ZBuffer:  true,
	}
}

// Clone returns a deep copy.
func (p Polygon) Clone() Polygon {
	p.Vertices = slices.Clone(p.Vertices)
	p.Colors = slices.Clone(p.Colors)
	p.Normals = slices.Clone(p.Normals)
	return p
}

// SetNormals gives every vertex the same normal.
func (p *Polygon) SetNormals(n math3d.Vec3) {
	p.Normals = make([]math3d.Vec3, len(p.Vertices))
	for i := range p.Normals {
		p.Normals[i] = n
	}
}

// Transform applies m to every vertex and, as directions, to every normal.
func (p *Polygon) Transform(m math3d.Mat4) {
	for i, v := range p.Vertices {
		p.Vertices[i] = m.MulVec4(v)
	}
	for i, n := range p.Normals {
		p.Normals[i] = m.MulVec3Dir(n)
	}
}

// HomogenizeXY divides x and y of every vertex by w and keeps z.
func (p *Polygon) HomogenizeXY() error {
	for i, v := range p.Vertices {
		h, err := v.HomogenizeXY()
		if err != nil {
			return fmt.Errorf("vertex %d: %w", i, err)
		}
		p.Vertices[i] = h
	}
	return nil
}

// FaceNormal returns the unit normal of the vertex loop computed with
// Newell's method, or the zero vector for a degenerate loop.
func (p Polygon) FaceNormal() math3d.Vec3 {
	var n math3d.Vec3
	for i, cur := range p.Vertices {
		next := p.Vertices[(i+1)%len(p.Vertices)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n.Normalize()
}
