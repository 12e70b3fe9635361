// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package camera

import (
	"math"
	"testing"

	"github.com/gviegas/orrery/linear"
)

func near(a, b, eps float32) bool { return math.Abs(float64(a-b)) <= float64(eps) }

func TestCamera(t *testing.T) {
	c := New()
	if c.Position != DefaultPosition || c.Target != (linear.V3{}) {
		t.Fatalf("New: pose\nhave %v -> %v\nwant %v -> [0 0 0]", c.Position, c.Target, DefaultPosition)
	}

	c.SetAspect(1920, 1080)
	if !near(c.Aspect, 16.0/9, 1e-6) {
		t.Fatalf("SetAspect(1920, 1080)\nhave %v\nwant %v", c.Aspect, 16.0/9)
	}
	c.SetAspect(0, 100)
	if !near(c.Aspect, 16.0/9, 1e-6) {
		t.Fatalf("SetAspect(0, 100): aspect changed to %v", c.Aspect)
	}

	// The target projects onto the center of the view.
	c.SetPosition(linear.V3{60, 10, 0})
	c.LookAt(linear.V3{40, 0, 0})
	m := c.ViewProjection()
	v := c.Target.Point()
	v.Mul(&m, &v)
	if !near(v[0]/v[3], 0, 1e-5) || !near(v[1]/v[3], 0, 1e-5) {
		t.Fatalf("ViewProjection(target)\nhave %v\nwant center", v)
	}
	if v[3] <= 0 {
		t.Fatalf("ViewProjection(target): w\nhave %v\nwant > 0", v[3])
	}

	right, up, fwd := c.Basis()
	if d := right.Dot(&fwd); !near(d, 0, 1e-6) {
		t.Fatalf("Basis: right⋅fwd\nhave %v\nwant 0", d)
	}
	if d := up.Dot(&fwd); !near(d, 0, 1e-6) {
		t.Fatalf("Basis: up⋅fwd\nhave %v\nwant 0", d)
	}
	if up[1] <= 0 {
		t.Fatalf("Basis: up\nhave %v\nwant positive y", up)
	}
	if d := c.Distance(c.Target); !near(d, float32(math.Sqrt(500)), 1e-4) {
		t.Fatalf("Distance\nhave %v\nwant %v", d, math.Sqrt(500))
	}
}

func TestControls(t *testing.T) {
	c := New()
	o := NewControls()
	start := c.Distance(o.Target)

	// Without input, Update keeps the pose.
	o.Update(c)
	if !near(c.Distance(o.Target), start, 1e-3) {
		t.Fatalf("Update: distance\nhave %v\nwant %v", c.Distance(o.Target), start)
	}
	if !near(c.Position[0], 0, 1e-3) || !near(c.Position[1], 30, 1e-3) || !near(c.Position[2], 180, 1e-3) {
		t.Fatalf("Update: position\nhave %v\nwant %v", c.Position, DefaultPosition)
	}
	if o.Pending() {
		t.Fatal("Pending\nhave true\nwant false")
	}

	// Input is applied gradually.
	o.Rotate(1, 0)
	if !o.Pending() {
		t.Fatal("Pending after Rotate\nhave false\nwant true")
	}
	var total float32
	prev := float32(math.Atan2(float64(c.Position[0]), float64(c.Position[2])))
	for i := 0; i < 100; i++ {
		o.Update(c)
		az := float32(math.Atan2(float64(c.Position[0]), float64(c.Position[2])))
		step := az - prev
		if i == 0 && !near(step, DefaultDamping, 1e-4) {
			t.Fatalf("Update: first step\nhave %v\nwant %v", step, DefaultDamping)
		}
		total += step
		prev = az
	}
	if !near(total, 1, 1e-3) {
		t.Fatalf("Update: total rotation\nhave %v\nwant 1", total)
	}
	if !near(c.Distance(o.Target), start, 1e-2) {
		t.Fatalf("Update: rotation changed distance\nhave %v\nwant %v", c.Distance(o.Target), start)
	}

	o.Zoom(0.5)
	o.Update(c)
	if !near(c.Distance(o.Target), start/2, 1e-2) {
		t.Fatalf("Zoom(0.5)\nhave %v\nwant %v", c.Distance(o.Target), start/2)
	}
	o.Zoom(1e-6)
	o.Update(c)
	if !near(c.Distance(o.Target), o.MinDistance, 1e-3) {
		t.Fatalf("Zoom: min distance\nhave %v\nwant %v", c.Distance(o.Target), o.MinDistance)
	}
	o.ZoomEnabled = false
	d := c.Distance(o.Target)
	o.Zoom(10)
	o.Update(c)
	if !near(c.Distance(o.Target), d, 1e-3) {
		t.Fatalf("Zoom disabled\nhave %v\nwant %v", c.Distance(o.Target), d)
	}

	// The polar angle never reaches the pole.
	o.Rotate(0, -100)
	for i := 0; i < 50; i++ {
		o.Update(c)
	}
	if c.Position[0] == 0 && c.Position[2] == 0 {
		t.Fatalf("Update: camera at pole %v", c.Position)
	}

	// Sync drops pending input.
	o.Rotate(3, 0)
	o.Sync(c)
	if o.Pending() {
		t.Fatal("Pending after Sync\nhave true\nwant false")
	}
	pos := c.Position
	o.Update(c)
	for i := range pos {
		if !near(pos[i], c.Position[i], 1e-3) {
			t.Fatalf("Update after Sync\nhave %v\nwant %v", c.Position, pos)
		}
	}
}
