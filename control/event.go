// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package control

import (
	"fmt"
)

// Event is a request to change the animation or the
// free camera.
type Event interface {
	fmt.Stringer
	event()
}

// OrbitSpeed sets the orbital speed factor, or adds to
// it if Relative is set.
type OrbitSpeed struct {
	Value    float64
	Relative bool
}

// RotationSpeed sets the rotation speed increment, or
// adds to it if Relative is set.
type RotationSpeed struct {
	Value    float64
	Relative bool
}

// Focus focuses the named body.
type Focus struct{ Name string }

// FocusCycle moves the focus through the bodies.
type FocusCycle struct{ Delta int }

// CameraRotate rotates the free camera.
type CameraRotate struct{ Azimuth, Polar float32 }

// CameraZoom scales the free camera's distance to its
// target.
type CameraZoom struct{ Scale float32 }

// Quit requests the application to stop.
type Quit struct{}

func (OrbitSpeed) event()    {}
func (RotationSpeed) event() {}
func (Focus) event()         {}
func (FocusCycle) event()    {}
func (CameraRotate) event()  {}
func (CameraZoom) event()    {}
func (Quit) event()          {}

func (e OrbitSpeed) String() string    { return speedString("orbit speed", e.Value, e.Relative) }
func (e RotationSpeed) String() string { return speedString("rotation speed", e.Value, e.Relative) }
func (e Focus) String() string         { return "focus " + e.Name }
func (e FocusCycle) String() string    { return fmt.Sprintf("focus cycle %+d", e.Delta) }
func (e CameraRotate) String() string  { return fmt.Sprintf("camera rotate %g %g", e.Azimuth, e.Polar) }
func (e CameraZoom) String() string    { return fmt.Sprintf("camera zoom %g", e.Scale) }
func (Quit) String() string            { return "quit" }

func speedString(what string, v float64, rel bool) string {
	if rel {
		return fmt.Sprintf("%s %+g", what, v)
	}
	return fmt.Sprintf("%s = %g", what, v)
}
