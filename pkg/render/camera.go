package render

import (
	"github.com/taigrr/scanline/pkg/math3d"
)

// Camera wraps a perspective view and caches its viewing transform.
type Camera struct {
	view math3d.View3D

	// Cached matrix (computed on demand)
	vtm   math3d.Mat4
	err   error
	dirty bool
}

// NewCamera creates a camera for view.
func NewCamera(view math3d.View3D) *Camera {
	return &Camera{view: view, dirty: true}
}

// View returns the current view parameters.
func (c *Camera) View() math3d.View3D {
	return c.view
}

// SetView replaces the view parameters.
func (c *Camera) SetView(view math3d.View3D) {
	c.view = view
	c.dirty = true
}

// SetScreen sets the image size the camera projects onto.
func (c *Camera) SetScreen(width, height int) {
	c.view.ScreenX = width
	c.view.ScreenY = height
	c.dirty = true
}

// Orbit moves the camera around target by angle radians, keeping its
// distance and looking at target.
func (c *Camera) Orbit(target math3d.Vec3, angle float64) {
	c.view = c.view.Orbit(target, angle)
	c.dirty = true
}

// Viewer returns the eye position used for lighting.
func (c *Camera) Viewer() math3d.Vec4 {
	return c.view.VRP
}

// ViewMatrix returns the world to screen transform.
func (c *Camera) ViewMatrix() (math3d.Mat4, error) {
	if c.dirty {
		c.vtm, c.err = c.view.Matrix()
		c.dirty = false
	}
	return c.vtm, c.err
}

// WorldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible); depth is in the canonical view
// volume and visible is false for points behind the center of projection or
// the back clip plane.
func (c *Camera) WorldToScreen(p math3d.Vec3) (x, y, depth float64, visible bool) {
	vtm, err := c.ViewMatrix()
	if err != nil {
		return 0, 0, 0, false
	}

	clip := vtm.MulVec4(p.Point())
	if clip.W <= 0 {
		return 0, 0, 0, false
	}
	s, _ := clip.HomogenizeXY()
	return s.X, s.Y, s.Z, s.Z > 0 && s.Z <= 1
}
