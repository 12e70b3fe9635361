// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package body defines the celestial bodies that take
// part in the visualization.
package body

import (
	"errors"
	"fmt"
)

const prefix = "body: "

func newErr(s string) error { return errors.New(prefix + s) }

var (
	// ErrNil means that a body is nil.
	ErrNil = newErr("nil body")
	// ErrName means that a body has an empty name.
	ErrName = newErr("empty name")
	// ErrSize means that a body has a non-positive size.
	ErrSize = newErr("non-positive size")
	// ErrDup means that two bodies share the same name.
	ErrDup = newErr("duplicate name")
)

// Body is a celestial body.
// Its identity is the pointer; a Body must not be
// modified after creation.
type Body struct {
	// Name is unique within a Registry.
	Name string
	// Size is the visual radius.
	Size float32
	// Texture refers to the body's surface texture.
	Texture string
	// Ring indicates that the body carries a ring
	// attachment.
	Ring bool
}

// RingTexture is the texture used by ring attachments.
const RingTexture = "saturn_ring.png"

// Registry is an ordered set of bodies with unique
// names.
type Registry struct {
	bodies []*Body
	names  map[string]*Body
}

// NewRegistry creates a registry containing bodies,
// in the given order.
func NewRegistry(bodies ...*Body) (*Registry, error) {
	r := &Registry{
		bodies: make([]*Body, 0, len(bodies)),
		names:  make(map[string]*Body, len(bodies)),
	}
	for _, b := range bodies {
		switch {
		case b == nil:
			return nil, ErrNil
		case b.Name == "":
			return nil, ErrName
		case b.Size <= 0:
			return nil, fmt.Errorf("%w: %s (%v)", ErrSize, b.Name, b.Size)
		}
		if _, ok := r.names[b.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDup, b.Name)
		}
		r.names[b.Name] = b
		r.bodies = append(r.bodies, b)
	}
	return r, nil
}

// Lookup returns the body named name.
func (r *Registry) Lookup(name string) (*Body, bool) {
	b, ok := r.names[name]
	return b, ok
}

// Bodies returns the bodies of r in order.
// The returned slice must not be modified.
func (r *Registry) Bodies() []*Body { return r.bodies }

// Len returns the number of bodies in r.
func (r *Registry) Len() int { return len(r.bodies) }

// Index returns the position of b in r, or -1 if b
// is not in r.
func (r *Registry) Index(b *Body) int {
	for i := range r.bodies {
		if r.bodies[i] == b {
			return i
		}
	}
	return -1
}

// Sun returns the central, light-emitting body.
// It is not part of Default since it does not orbit.
func Sun() *Body { return &Body{Name: "sun", Size: 8, Texture: "sun.jpg"} }

// Default returns a registry holding the eight planets.
func Default() *Registry {
	r, err := NewRegistry(
		&Body{Name: "mercury", Size: 2, Texture: "mercury.jpg"},
		&Body{Name: "venus", Size: 3.8, Texture: "venus.jpg"},
		&Body{Name: "earth", Size: 4, Texture: "earth.jpg"},
		&Body{Name: "mars", Size: 2, Texture: "mars.jpg"},
		&Body{Name: "jupiter", Size: 12, Texture: "jupiter.jpg"},
		&Body{Name: "saturn", Size: 10, Texture: "saturn.jpg", Ring: true},
		&Body{Name: "uranus", Size: 7, Texture: "uranus.jpg"},
		&Body{Name: "neptune", Size: 6.5, Texture: "neptune.jpg"},
	)
	if err != nil {
		panic(err)
	}
	return r
}
