// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package anim implements the per-frame animation step
// that moves bodies along their orbits and frames the
// camera on a focused body.
package anim

import (
	"math"
	"time"

	"github.com/gviegas/orrery/body"
	"github.com/gviegas/orrery/linear"
	"github.com/gviegas/orrery/node"
	"github.com/gviegas/orrery/orbit"
)

// Camera placement while focused.
const (
	// FocusOffset is the distance outside the focused
	// body's orbit at which the camera is placed.
	FocusOffset = 20
	// FocusHeight is the camera's fixed height above
	// the orbital plane.
	FocusHeight = 10
)

// Default speed factors.
const (
	DefaultOrbitSpeed    = 0.01
	DefaultRotationSpeed = 0.01
)

// State is the user-controlled animation state.
// It is read once per step; writes between steps take
// effect on the next one.
type State struct {
	// OrbitSpeed scales every body's angular speed.
	OrbitSpeed float64
	// RotationSpeed is added to every body's rotation
	// about the vertical axis on each step.
	RotationSpeed float64
	// Focus is the body the camera follows, or nil
	// for free camera control.
	Focus *body.Body

	// spin is the accumulated rotation of each body
	// about the vertical axis. Only Step changes it.
	spin map[*body.Body]float64
}

// Rotation returns the accumulated rotation of b about
// the vertical axis, in radians.
// It is zero until Step first rotates b.
func (st *State) Rotation(b *body.Body) float64 { return st.spin[b] }

// NewState returns a State with default factors and
// no focus.
func NewState() *State {
	return &State{
		OrbitSpeed:    DefaultOrbitSpeed,
		RotationSpeed: DefaultRotationSpeed,
	}
}

// Transforms maps bodies to the scene nodes that
// represent them.
type Transforms map[*body.Body]*node.Node

// Camera is the part of a camera that Step drives.
type Camera interface {
	SetPosition(linear.V3)
	LookAt(linear.V3)
}

// Result describes the outcome of a step.
type Result struct {
	// Focused is set when the camera was framed on
	// a focused body.
	Focused bool
	// Camera and Target are the camera position and
	// look-at point, valid only if Focused is set.
	Camera linear.V3
	Target linear.V3
}

// Millis returns t as milliseconds since the Unix epoch.
func Millis(t time.Time) float64 {
	ns := t.Nanosecond() % int(time.Millisecond)
	return float64(t.UnixMilli()) + float64(ns)/float64(time.Millisecond)
}

// Step advances the animation to time now.
// Every body in tab that has a node in tr is placed on
// its orbit and rotated by st.RotationSpeed. The rotation
// accumulates in st; the node receives it modulo 2π. If st.Focus
// resolves to an entry of tab, cam is framed on it;
// otherwise cam is left untouched.
func Step(now time.Time, st *State, tab *orbit.Table, tr Transforms, cam Camera) (res Result) {
	ms := Millis(now)
	entries := tab.Entries()
	for i := range entries {
		e := &entries[i]
		n := tr[e.Body]
		if n == nil {
			continue
		}
		p := e.Position(e.Angle(ms, st.OrbitSpeed))
		n.Transform.Position[0] = p[0]
		n.Transform.Position[2] = p[2]
	}
	if st.spin == nil {
		st.spin = make(map[*body.Body]float64, len(entries))
	}
	for i := range entries {
		b := entries[i].Body
		n := tr[b]
		if n == nil {
			continue
		}
		r, ok := st.spin[b]
		if !ok {
			r = float64(n.Transform.Rotation[1])
		}
		r += st.RotationSpeed
		st.spin[b] = r
		// The node only needs the angle modulo 2π.
		n.Transform.Rotation[1] = float32(math.Mod(r, 2*math.Pi))
	}

	if st.Focus == nil {
		return
	}
	e, ok := tab.Lookup(st.Focus)
	if !ok {
		return
	}
	a := e.Angle(ms, st.OrbitSpeed)
	s, c := math.Sincos(a)
	r := e.Radius + FocusOffset
	res = Result{
		Focused: true,
		Camera:  linear.V3{float32(r * c), FocusHeight, float32(r * s)},
		Target:  e.Position(a),
	}
	if n := tr[e.Body]; n != nil {
		res.Target = n.Transform.Position
	}
	cam.SetPosition(res.Camera)
	cam.LookAt(res.Target)
	return
}
