// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package camera implements a perspective camera and
// orbit controls for it.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/orrery/linear"
)

// Default camera parameters.
const (
	DefaultFOV  = 75
	DefaultNear = 0.1
	DefaultFar  = 1000
)

// DefaultPosition is the initial position of the camera.
var DefaultPosition = linear.V3{0, 30, 180}

// Camera is a perspective camera.
type Camera struct {
	Position linear.V3
	Target   linear.V3
	Up       linear.V3
	// FOV is the vertical field of view in degrees.
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32
}

// New creates a camera with default parameters
// looking at the origin.
func New() *Camera {
	return &Camera{
		Position: DefaultPosition,
		Up:       linear.V3{0, 1, 0},
		FOV:      DefaultFOV,
		Aspect:   1,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
}

// SetPosition moves the camera to p.
// It does not change the target.
func (c *Camera) SetPosition(p linear.V3) { c.Position = p }

// LookAt points the camera at p.
func (c *Camera) LookAt(p linear.V3) { c.Target = p }

// SetAspect updates the aspect ratio from the given
// viewport dimensions.
// Non-positive dimensions are ignored.
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// View returns the view matrix.
func (c *Camera) View() (m linear.M4) {
	m.LookAt(&c.Position, &c.Target, &c.Up)
	return
}

// Projection returns the projection matrix.
func (c *Camera) Projection() (m linear.M4) {
	m.Perspective(c.FOV*math32.Pi/180, c.Aspect, c.Near, c.Far)
	return
}

// ViewProjection returns Projection() ⋅ View().
func (c *Camera) ViewProjection() (m linear.M4) {
	v := c.View()
	m = c.Projection()
	m.Mul(&m, &v)
	return
}

// Basis returns the camera's right, up and forward
// unit vectors in world space.
func (c *Camera) Basis() (right, up, fwd linear.V3) {
	fwd.Sub(&c.Target, &c.Position)
	fwd.Norm(&fwd)
	right.Cross(&fwd, &c.Up)
	right.Norm(&right)
	up.Cross(&right, &fwd)
	return
}

// Distance returns the distance from the camera to p.
func (c *Camera) Distance(p linear.V3) float32 {
	var d linear.V3
	d.Sub(&p, &c.Position)
	return d.Len()
}
