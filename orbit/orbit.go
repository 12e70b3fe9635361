// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package orbit maps celestial bodies to circular orbits
// about the origin.
package orbit

import (
	"errors"
	"fmt"
	"math"

	"github.com/gviegas/orrery/body"
	"github.com/gviegas/orrery/linear"
)

const prefix = "orbit: "

var (
	// ErrDup means that a body appears in more than
	// one entry.
	ErrDup = errors.New(prefix + "duplicate body")
	// ErrNil means that an entry has no body.
	ErrNil = errors.New(prefix + "nil body")
	// ErrMissing means that a body has no known orbit.
	ErrMissing = errors.New(prefix + "no orbit for body")
)

// Entry describes the orbit of a single body.
type Entry struct {
	Body *body.Body
	// Radius is the distance from the origin.
	Radius float64
	// Speed is the angular speed in radians per
	// millisecond, before user scaling.
	Speed float64
}

// Angle returns the orbital angle at ms milliseconds
// scaled by factor.
// The angle is not wrapped.
func (e *Entry) Angle(ms, factor float64) float64 { return ms * e.Speed * factor }

// Position returns the position on the orbit at angle.
// The orbital plane is y = 0.
func (e *Entry) Position(angle float64) linear.V3 {
	s, c := math.Sincos(angle)
	return linear.V3{float32(e.Radius * c), 0, float32(e.Radius * s)}
}

// Table is the set of orbits, one per body.
type Table struct {
	entries []Entry
	index   map[*body.Body]int
}

// NewTable creates a table from entries, in order.
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[*body.Body]int, len(entries)),
	}
	for _, e := range entries {
		if e.Body == nil {
			return nil, ErrNil
		}
		if _, ok := t.index[e.Body]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDup, e.Body.Name)
		}
		t.index[e.Body] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t, nil
}

// Lookup returns the entry of b.
// It compares bodies by identity.
func (t *Table) Lookup(b *body.Body) (*Entry, bool) {
	i, ok := t.index[b]
	if !ok {
		return nil, false
	}
	return &t.entries[i], true
}

// Entries returns the entries of t in order.
// The returned slice must not be modified.
func (t *Table) Entries() []Entry { return t.entries }

// Len returns the number of entries in t.
func (t *Table) Len() int { return len(t.entries) }

var defaultOrbits = map[string][2]float64{
	"mercury": {20, 0.04},
	"venus":   {30, 0.02},
	"earth":   {40, 0.01},
	"mars":    {50, 0.008},
	"jupiter": {65, 0.005},
	"saturn":  {95, 0.003},
	"uranus":  {120, 0.002},
	"neptune": {140, 0.001},
}

// Default creates a table for the bodies of reg using
// the default radii and speeds.
// Every body in reg must be one of the default planets.
func Default(reg *body.Registry) (*Table, error) {
	entries := make([]Entry, 0, reg.Len())
	for _, b := range reg.Bodies() {
		o, ok := defaultOrbits[b.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissing, b.Name)
		}
		entries = append(entries, Entry{Body: b, Radius: o[0], Speed: o[1]})
	}
	return NewTable(entries...)
}
