// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package control implements the user-facing controls of
// the animation.
// Every change goes through a Queue that the frame loop
// drains between animation steps, so a step never
// observes a partial update.
package control

import (
	"log/slog"

	"github.com/gviegas/orrery/anim"
	"github.com/gviegas/orrery/body"
	"github.com/gviegas/orrery/camera"
)

// NoFocus is the focus name that selects the free camera.
const NoFocus = "none"

// Surface modifies the animation state.
// It performs no validation: any speed is accepted,
// including zero and negative values.
type Surface struct {
	state *anim.State
	reg   *body.Registry
	ctl   *camera.Controls
	log   *slog.Logger
}

// NewSurface creates a surface that modifies st.
// Focus names are looked up in reg. ctl, if not nil,
// receives the camera events.
func NewSurface(st *anim.State, reg *body.Registry, ctl *camera.Controls, log *slog.Logger) *Surface {
	if log == nil {
		log = slog.Default()
	}
	return &Surface{
		state: st,
		reg:   reg,
		ctl:   ctl,
		log:   log.With("component", "control"),
	}
}

// SetOrbitSpeed sets the orbital speed factor.
func (s *Surface) SetOrbitSpeed(v float64) { s.state.OrbitSpeed = v }

// SetRotationSpeed sets the rotation speed increment.
func (s *Surface) SetRotationSpeed(v float64) { s.state.RotationSpeed = v }

// SetFocus focuses the body with the given name.
// NoFocus and the empty string select the free camera,
// as does a name that matches no body.
func (s *Surface) SetFocus(name string) {
	if name == NoFocus || name == "" {
		s.state.Focus = nil
		return
	}
	b, ok := s.reg.Lookup(name)
	if !ok {
		s.log.Debug("unknown focus, using free camera", "focus", name)
		s.state.Focus = nil
		return
	}
	s.state.Focus = b
}

// Focus returns the name of the focused body, or
// NoFocus.
func (s *Surface) Focus() string {
	if s.state.Focus == nil {
		return NoFocus
	}
	return s.state.Focus.Name
}

// CycleFocus moves the focus by delta positions in the
// registry order. The free camera sits between the last
// and the first body.
func (s *Surface) CycleFocus(delta int) {
	n := s.reg.Len() + 1
	// A focus outside the registry counts as none.
	i := s.reg.Index(s.state.Focus) + 1
	i = ((i+delta)%n + n) % n
	if i == 0 {
		s.state.Focus = nil
	} else {
		s.state.Focus = s.reg.Bodies()[i-1]
	}
}

// Apply applies ev. Events that Surface does not handle,
// such as Quit, are ignored.
func (s *Surface) Apply(ev Event) {
	switch ev := ev.(type) {
	case OrbitSpeed:
		if ev.Relative {
			s.SetOrbitSpeed(s.state.OrbitSpeed + ev.Value)
		} else {
			s.SetOrbitSpeed(ev.Value)
		}
	case RotationSpeed:
		if ev.Relative {
			s.SetRotationSpeed(s.state.RotationSpeed + ev.Value)
		} else {
			s.SetRotationSpeed(ev.Value)
		}
	case Focus:
		s.SetFocus(ev.Name)
	case FocusCycle:
		s.CycleFocus(ev.Delta)
	case CameraRotate:
		if s.ctl != nil {
			s.ctl.Rotate(ev.Azimuth, ev.Polar)
		}
	case CameraZoom:
		if s.ctl != nil {
			s.ctl.Zoom(ev.Scale)
		}
	}
}
