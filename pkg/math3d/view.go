package math3d

import (
	"errors"
	"math"
)

// ErrDegenerateView is returned when view parameters cannot produce an
// invertible pipeline.
var ErrDegenerateView = errors.New("degenerate view parameters")

// View2D describes an orthographic window onto the z = 0 plane.
type View2D struct {
	VRP     Vec3    // Center of the view window in world coordinates
	X       Vec3    // Direction of the window's x axis
	DU      float64 // Window width in world units
	ScreenX int     // Image columns
	ScreenY int     // Image rows
}

// Matrix builds the 2D viewing transform. The window height is derived from
// the screen aspect ratio and the y axis is flipped so world-up is
// raster-up.
func (v View2D) Matrix() (Mat4, error) {
	if v.DU <= 0 || v.ScreenX <= 0 || v.ScreenY <= 0 {
		return Mat4{}, ErrDegenerateView
	}
	x := V3(v.X.X, v.X.Y, 0).Normalize()
	if x.Len() == 0 {
		return Mat4{}, ErrDegenerateView
	}

	sx, sy := float64(v.ScreenX), float64(v.ScreenY)
	dv := v.DU * sy / sx

	vtm := Translate(v.VRP.Negate())
	vtm.Premul(rotateZCS(x.X, -x.Y))
	vtm.Premul(Scale(V3(sx/v.DU, -sy/dv, 1)))
	vtm.Premul(Translate(V3(sx/2, sy/2, 0)))
	return vtm, nil
}

// View3D describes a perspective camera.
type View3D struct {
	VRP     Vec4    // View reference point
	VPN     Vec3    // View plane normal, the viewing direction
	VUP     Vec3    // Approximate up direction, re-orthogonalized
	D       float64 // Distance from the center of projection to the view plane
	DU      float64 // View window width
	DV      float64 // View window height
	F       float64 // Front clip distance
	B       float64 // Back clip distance
	ScreenX int
	ScreenY int
}

// Basis returns the orthonormal camera frame. u is vup × w, and v is
// recomputed from w and u so the frame stays orthogonal when vup is not
// perpendicular to the view plane normal.
func (v View3D) Basis() (u, vv, w Vec3, err error) {
	w = v.VPN.Normalize()
	if w.Len() == 0 {
		return u, vv, w, ErrDegenerateView
	}
	u = v.VUP.Cross(w)
	if u.Len() < 1e-12 {
		return u, vv, w, ErrDegenerateView
	}
	u = u.Normalize()
	vv = w.Cross(u)
	return u, vv, w, nil
}

// Matrix builds the 3D viewing transform: world coordinates to image
// pixels, with z left in the canonical view volume (0 at the center of
// projection, 1 at the back clip plane).
func (v View3D) Matrix() (Mat4, error) {
	if v.D <= 0 || v.DU <= 0 || v.DV <= 0 || v.ScreenX <= 0 || v.ScreenY <= 0 {
		return Mat4{}, ErrDegenerateView
	}
	if v.B+v.D <= 0 {
		return Mat4{}, ErrDegenerateView
	}
	u, vv, w, err := v.Basis()
	if err != nil {
		return Mat4{}, err
	}
	vrp, err := v.VRP.Homogenize()
	if err != nil {
		return Mat4{}, ErrDegenerateView
	}

	sx, sy := float64(v.ScreenX), float64(v.ScreenY)
	back := v.B + v.D
	d := v.D / back

	vtm := Translate(vrp.Vec3().Negate())
	vtm.Premul(Basis(u, vv, w))
	vtm.Premul(Translate(V3(0, 0, v.D)))
	vtm.Premul(Scale(V3(2*v.D/(back*v.DU), 2*v.D/(back*v.DV), 1/back)))
	vtm.Premul(PerspectiveDepth(d))
	vtm.Premul(Scale(V3(-sx/(2*d), -sy/(2*d), 1)))
	vtm.Premul(Translate(V3(sx/2, sy/2, 0)))

	if !vtm.IsFinite() {
		return Mat4{}, ErrDegenerateView
	}
	return vtm, nil
}

// Orbit returns a copy of v with the view reference point rotated by angle
// radians around the vertical axis through target, looking at target.
func (v View3D) Orbit(target Vec3, angle float64) View3D {
	vrp, err := v.VRP.Homogenize()
	if err != nil {
		return v
	}
	offset := vrp.Vec3().Sub(target)
	c, s := math.Cos(angle), math.Sin(angle)
	rotated := V3(offset.X*c+offset.Z*s, offset.Y, -offset.X*s+offset.Z*c)

	out := v
	out.VRP = target.Add(rotated).Point()
	out.VPN = rotated.Negate()
	return out
}
