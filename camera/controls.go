// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package camera

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/orrery/linear"
)

// Default control parameters.
const (
	DefaultDamping     = 0.25
	DefaultMinDistance = 1
	DefaultMaxDistance = 900
)

// minPolar keeps the camera away from the poles, where
// the view basis degenerates.
const minPolar = 1e-3

// Controls rotates and zooms a camera about a target.
// Input accumulates into deltas that are applied,
// damped, on each call to Update.
type Controls struct {
	Target      linear.V3
	Damping     float32
	MinDistance float32
	MaxDistance float32
	ZoomEnabled bool

	dAzimuth float32
	dPolar   float32
	scale    float32
}

// NewControls creates controls targeting the origin.
func NewControls() *Controls {
	return &Controls{
		Damping:     DefaultDamping,
		MinDistance: DefaultMinDistance,
		MaxDistance: DefaultMaxDistance,
		ZoomEnabled: true,
		scale:       1,
	}
}

// Rotate requests a rotation by the given angles,
// in radians.
func (o *Controls) Rotate(dAzimuth, dPolar float32) {
	o.dAzimuth += dAzimuth
	o.dPolar += dPolar
}

// Zoom requests the distance to the target to be
// multiplied by s. Values of s below one zoom in.
func (o *Controls) Zoom(s float32) {
	if !o.ZoomEnabled || s <= 0 {
		return
	}
	o.scale *= s
}

// Pending reports whether Update would move the camera
// even in the absence of new input.
func (o *Controls) Pending() bool {
	const eps = 1e-6
	return math32.Abs(o.dAzimuth) > eps || math32.Abs(o.dPolar) > eps || o.scale != 1
}

// Sync discards pending input so that the next Update
// resumes from the camera's current pose.
func (o *Controls) Sync(*Camera) {
	o.dAzimuth = 0
	o.dPolar = 0
	o.scale = 1
}

// Update applies pending input to cam and points it at
// the target.
func (o *Controls) Update(cam *Camera) {
	var off linear.V3
	off.Sub(&cam.Position, &o.Target)
	r := off.Len()
	if r == 0 {
		r = o.MinDistance
		off = linear.V3{0, 0, r}
	}
	theta := math32.Atan2(off[0], off[2])
	phi := math32.Acos(clamp(off[1]/r, -1, 1))

	damp := o.Damping
	if damp <= 0 || damp > 1 {
		damp = 1
	}
	theta += o.dAzimuth * damp
	phi = clamp(phi+o.dPolar*damp, minPolar, math32.Pi-minPolar)
	r = clamp(r*o.scale, o.MinDistance, o.MaxDistance)

	sp, cp := math32.Sincos(phi)
	st, ct := math32.Sincos(theta)
	off = linear.V3{r * sp * st, r * cp, r * sp * ct}
	var pos linear.V3
	pos.Add(&o.Target, &off)
	cam.SetPosition(pos)
	cam.LookAt(o.Target)

	o.dAzimuth *= 1 - damp
	o.dPolar *= 1 - damp
	o.scale = 1
}

func clamp(x, lo, hi float32) float32 { return max(lo, min(hi, x)) }
