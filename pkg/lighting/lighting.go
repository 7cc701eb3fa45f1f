// Package lighting evaluates the local reflection model: ambient,
// directional, point and spot lights with a diffuse body term and a
// Blinn-Phong surface term.
package lighting

import (
	"fmt"
	"math"
	"slices"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// MaxLights is the capacity of a Lighting set. Lights added past it are
// dropped.
const MaxLights = 64

// LightType selects how a light contributes.
type LightType int

const (
	LightNone LightType = iota
	LightAmbient
	LightDirect
	LightPoint
	LightSpot
)

var lightNames = []string{"none", "ambient", "direct", "point", "spot"}

func (t LightType) String() string {
	if t < 0 || int(t) >= len(lightNames) {
		return fmt.Sprintf("LightType(%d)", int(t))
	}
	return lightNames[t]
}

// Light is one light source. Direction is used by directional lights and as
// the axis of spot lights; Position by point and spot lights.
type Light struct {
	Type      LightType
	Color     render.Color
	Direction math3d.Vec3
	Position  math3d.Vec4
	CutoffCos float64 // Cosine of the spot cone half-angle
	Sharpness float64 // Exponent of the spot falloff
}

// Ambient returns an ambient light.
func Ambient(c render.Color) Light {
	return Light{Type: LightAmbient, Color: c}
}

// Direct returns a directional light shining from direction, i.e. direction
// points from the surface toward the light.
func Direct(c render.Color, direction math3d.Vec3) Light {
	return Light{Type: LightDirect, Color: c, Direction: direction}
}

// Point returns a point light at position.
func Point(c render.Color, position math3d.Vec4) Light {
	return Light{Type: LightPoint, Color: c, Position: position}
}

// Spot returns a spot light at position aimed along axis. cutoff is the cone
// half-angle in radians.
func Spot(c render.Color, position math3d.Vec4, axis math3d.Vec3, cutoff, sharpness float64) Light {
	return Light{
		Type:      LightSpot,
		Color:     c,
		Position:  position,
		Direction: axis,
		CutoffCos: math.Cos(cutoff),
		Sharpness: sharpness,
	}
}

// Transform returns the light moved by m: the position as a point and the
// direction as a vector.
func (l Light) Transform(m math3d.Mat4) Light {
	l.Position = m.MulVec4(l.Position)
	l.Direction = m.MulVec3Dir(l.Direction)
	return l
}

// Lighting is a bounded set of lights whose contributions add.
type Lighting struct {
	lights []Light
}

// New returns a lighting set holding lights, truncated to MaxLights.
func New(lights ...Light) *Lighting {
	l := &Lighting{lights: make([]Light, 0, min(len(lights), MaxLights))}
	for _, light := range lights {
		l.Add(light)
	}
	return l
}

// Add appends a light and reports whether it fit.
func (l *Lighting) Add(light Light) bool {
	if len(l.lights) >= MaxLights {
		return false
	}
	l.lights = append(l.lights, light)
	return true
}

// Len returns the number of lights.
func (l *Lighting) Len() int {
	return len(l.lights)
}

// Lights returns the lights in insertion order. The slice must not be
// modified.
func (l *Lighting) Lights() []Light {
	return l.lights
}

// Clear removes every light.
func (l *Lighting) Clear() {
	l.lights = l.lights[:0]
}

// Clone returns an independent copy.
func (l *Lighting) Clone() *Lighting {
	return &Lighting{lights: slices.Clone(l.lights)}
}

// Shade returns the color reflected toward the viewer from point p with
// normal n. v points from p to the viewer. body and surface are the diffuse
// and specular reflectances and shininess the specular exponent. The sum is
// not clamped.
func (l *Lighting) Shade(n, v math3d.Vec3, p math3d.Vec4, body, surface render.Color, shininess float64, oneSided bool) render.Color {
	n = n.Normalize()
	v = v.Normalize()
	dotNV := n.Dot(v)
	pos := p.Vec3()

	var result render.Color
	for _, light := range l.lights {
		var dir math3d.Vec3
		switch light.Type {
		case LightAmbient:
			result = result.Add(light.Color.Mul(body))
			continue
		case LightDirect:
			dir = light.Direction
		case LightPoint, LightSpot:
			lp, err := light.Position.Homogenize()
			if err != nil {
				continue
			}
			dir = lp.Vec3().Sub(pos)
		default:
			continue
		}

		dir = dir.Normalize()
		dotNL := n.Dot(dir)
		if oneSided && dotNL < 0 {
			continue
		}
		// Light and viewer on opposite sides of the surface.
		if (dotNL < 0 && dotNV > 0) || (dotNL > 0 && dotNV < 0) {
			continue
		}

		falloff := 1.0
		if light.Type == LightSpot {
			dotDL := light.Direction.Normalize().Dot(dir.Negate())
			if dotDL < light.CutoffCos {
				continue
			}
			falloff = math.Pow(dotDL, light.Sharpness)
		}

		h := dir.Add(v).Scale(0.5).Normalize()
		dotNH := n.Dot(h)
		if dotNL < 0 {
			dotNL, dotNH = -dotNL, -dotNH
		}
		specular := math.Pow(math.Max(dotNH, 0), shininess)

		lit := light.Color.Scale(falloff)
		result = result.
			Add(lit.Mul(body).Scale(dotNL)).
			Add(lit.Mul(surface).Scale(specular))
	}
	return result
}

// ShadePolygon computes a color for every vertex of p from the body,
// surface and viewer of ds. Vertex normals are used when present, otherwise
// the face normal. p must be in world coordinates.
func (l *Lighting) ShadePolygon(p *render.Polygon, ds *render.DrawState) {
	viewer, err := ds.Viewer.Homogenize()
	if err != nil {
		viewer = ds.Viewer
	}

	var face math3d.Vec3
	if len(p.Normals) < len(p.Vertices) {
		face = p.FaceNormal()
	}

	p.Colors = slices.Grow(p.Colors[:0], len(p.Vertices))[:len(p.Vertices)]
	for i, vertex := range p.Vertices {
		pt, err := vertex.Homogenize()
		if err != nil {
			p.Colors[i] = render.ColorBlack
			continue
		}
		n := face
		if i < len(p.Normals) {
			n = p.Normals[i]
		}
		v := viewer.Vec3().Sub(pt.Vec3())
		p.Colors[i] = l.Shade(n, v, pt, ds.Body, ds.Surface, ds.SurfaceCoeff, p.OneSided)
	}
}
