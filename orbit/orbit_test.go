// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package orbit

import (
	"errors"
	"math"
	"testing"

	"github.com/gviegas/orrery/body"
)

func TestDefault(t *testing.T) {
	reg := body.Default()
	tab, err := Default(reg)
	if err != nil {
		t.Fatalf("Default: unexpected error: %v", err)
	}
	if tab.Len() != reg.Len() {
		t.Fatalf("Default: Len\nhave %d\nwant %d", tab.Len(), reg.Len())
	}
	prev := Entry{Radius: 0, Speed: math.Inf(1)}
	for i, b := range reg.Bodies() {
		e, ok := tab.Lookup(b)
		if !ok || e.Body != b {
			t.Fatalf("Lookup(%s)\nhave %v, %t\nwant entry, true", b.Name, e, ok)
		}
		if e != &tab.Entries()[i] {
			t.Fatalf("Lookup(%s): entry order mismatch", b.Name)
		}
		// Sample data: speed decreases as radius grows.
		if e.Radius <= prev.Radius || e.Speed >= prev.Speed {
			t.Fatalf("Default: %s\nhave R=%v S=%v\nafter R=%v S=%v", b.Name, e.Radius, e.Speed, prev.Radius, prev.Speed)
		}
		prev = *e
	}

	// Identity lookup: a body with the same name is
	// a different body.
	if _, ok := tab.Lookup(&body.Body{Name: "earth", Size: 4}); ok {
		t.Fatal("Lookup(copy of earth)\nhave true\nwant false")
	}

	_, err = Default(mustRegistry(t, &body.Body{Name: "pluto", Size: 1}))
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("Default(pluto): err\nhave %v\nwant %v", err, ErrMissing)
	}
}

func TestNewTable(t *testing.T) {
	b := &body.Body{Name: "b", Size: 1}
	if _, err := NewTable(Entry{Body: b}, Entry{Body: b}); !errors.Is(err, ErrDup) {
		t.Fatalf("NewTable: err\nhave %v\nwant %v", err, ErrDup)
	}
	if _, err := NewTable(Entry{}); !errors.Is(err, ErrNil) {
		t.Fatalf("NewTable: err\nhave %v\nwant %v", err, ErrNil)
	}
}

func TestPosition(t *testing.T) {
	e := Entry{Radius: 40, Speed: 0.01}

	if a := e.Angle(0, 0.01); a != 0 {
		t.Fatalf("Angle(0, 0.01)\nhave %v\nwant 0", a)
	}
	p := e.Position(0)
	if p[0] != 40 || p[1] != 0 || p[2] != 0 {
		t.Fatalf("Position(0)\nhave %v\nwant [40 0 0]", p)
	}
	ms := math.Pi / 2 / (e.Speed * 0.01)
	p = e.Position(e.Angle(ms, 0.01))
	if math.Abs(float64(p[0])) > 1e-4 || math.Abs(float64(p[2])-40) > 1e-4 {
		t.Fatalf("Position(π/2)\nhave %v\nwant [0 0 40]", p)
	}

	for _, f := range [...]float64{-3, -0.01, 0, 0.01, 1, 250} {
		for _, ms := range [...]float64{0, 1, 16.6, 1e6, 1.7e12} {
			p := e.Position(e.Angle(ms, f))
			r2 := float64(p[0])*float64(p[0]) + float64(p[2])*float64(p[2])
			if math.Abs(r2-e.Radius*e.Radius) > 1e-3 {
				t.Fatalf("Position: x²+z² (ms=%v f=%v)\nhave %v\nwant %v", ms, f, r2, e.Radius*e.Radius)
			}
		}
	}
}

func mustRegistry(t *testing.T, bodies ...*body.Body) *body.Registry {
	r, err := body.NewRegistry(bodies...)
	if err != nil {
		t.Fatal(err)
	}
	return r
}
