// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gviegas/orrery/body"
	"github.com/gviegas/orrery/node"
	"github.com/gviegas/orrery/orbit"
	"github.com/gviegas/orrery/texture"
)

func pngData(t *testing.T, c color.Color) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		img.Set(i%2, i/2, c)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func build(t *testing.T, fsys fstest.MapFS) (*Scene, *body.Registry, *orbit.Table) {
	reg := body.Default()
	tab, err := orbit.Default(reg)
	if err != nil {
		t.Fatal(err)
	}
	s, err := Build(reg, body.Sun(), tab, &texture.Loader{FS: fsys}, nil)
	if err != nil {
		t.Fatalf("Build: unexpected error: %v", err)
	}
	return s, reg, tab
}

func TestBuild(t *testing.T) {
	s, reg, tab := build(t, fstest.MapFS{})

	if n := len(s.Transforms()); n != reg.Len() {
		t.Fatalf("Build: len(Transforms())\nhave %d\nwant %d", n, reg.Len())
	}
	for _, b := range reg.Bodies() {
		n := s.Node(b)
		if n == nil || n.Name != b.Name {
			t.Fatalf("Build: Node(%s)\nhave %v\nwant node named %s", b.Name, n, b.Name)
		}
		if p := n.Parent(); p != s.Root {
			t.Fatalf("Build: %s parent\nhave %v\nwant root", b.Name, p)
		}
		m := n.Data.(*Mesh)
		if m.Body != b || m.Material.Kind != Lambert {
			t.Fatalf("Build: %s mesh\nhave %+v", b.Name, m)
		}
		if g := m.Geometry.(Sphere); g.Radius != b.Size || g.Segments != SphereSegments {
			t.Fatalf("Build: %s sphere\nhave %+v\nwant radius %v", b.Name, g, b.Size)
		}
		if s.Root.Find(b.Name) != n {
			t.Fatalf("Build: Root.Find(%s) mismatch", b.Name)
		}
	}

	sun := s.Sun.Data.(*Mesh)
	if sun.Material.Kind != Basic || sun.Geometry.(Sphere).Radius != 8 {
		t.Fatalf("Build: sun mesh\nhave %+v", sun)
	}

	if n := len(s.Rings()); n != 1 {
		t.Fatalf("Build: len(Rings())\nhave %d\nwant 1", n)
	}
	ring := s.Rings()[0]
	saturn, _ := reg.Lookup("saturn")
	if ring.Parent() != s.Node(saturn) {
		t.Fatal("Build: ring is not attached to saturn")
	}
	rg := ring.Data.(*Mesh).Geometry.(Ring)
	if rg.Inner != 11 || rg.Outer != 15 {
		t.Fatalf("Build: ring radii\nhave %v, %v\nwant 11, 15", rg.Inner, rg.Outer)
	}
	if ring.Transform.Rotation[0] != math.Pi/2 {
		t.Fatalf("Build: ring rotation\nhave %v\nwant π/2", ring.Transform.Rotation)
	}
	if m := ring.Data.(*Mesh).Material; m.Opacity != 0.8 || !m.DoubleSided {
		t.Fatalf("Build: ring material\nhave %+v", m)
	}

	if n := len(s.Guides()); n != tab.Len() {
		t.Fatalf("Build: len(Guides())\nhave %d\nwant %d", n, tab.Len())
	}
	for i, g := range s.Guides() {
		e := tab.Entries()[i]
		gg := g.Data.(*Mesh).Geometry.(Ring)
		if math.Abs(float64(gg.Inner)-(e.Radius-GuideWidth)) > 1e-5 ||
			math.Abs(float64(gg.Outer)-(e.Radius+GuideWidth)) > 1e-5 {
			t.Fatalf("Build: guide %d\nhave %+v\nwant around %v", i, gg, e.Radius)
		}
		if o := g.Data.(*Mesh).Material.Opacity; o != 0.3 {
			t.Fatalf("Build: guide opacity\nhave %v\nwant 0.3", o)
		}
	}

	if s.Light.Intensity != 2 || s.Light.Range != 1000 {
		t.Fatalf("Build: point light\nhave %+v", s.Light)
	}
	if s.Light.Node.WorldPosition() != [3]float32{} {
		t.Fatal("Build: point light is not at the origin")
	}
	if s.Ambient.Intensity != 0.5 {
		t.Fatalf("Build: hemisphere light\nhave %+v", s.Ambient)
	}

	var meshes int
	s.Meshes(func(*node.Node, *Mesh) { meshes++ })
	// Sun, planets, ring and guides.
	if want := 1 + reg.Len() + 1 + tab.Len(); meshes != want {
		t.Fatalf("Meshes: count\nhave %d\nwant %d", meshes, want)
	}
}

func TestPoll(t *testing.T) {
	fsys := fstest.MapFS{
		"earth.jpg": {Data: pngData(t, color.NRGBA{0, 0, 255, 255})},
		"stars.jpg": {Data: pngData(t, color.NRGBA{255, 255, 255, 255})},
	}
	s, reg, _ := build(t, fsys)
	earth, _ := reg.Lookup("earth")
	slot := s.Node(earth).Data.(*Mesh).Material.Texture

	deadline := time.Now().Add(5 * time.Second)
	var replaced int
	for !s.Loaded() {
		if time.Now().After(deadline) {
			t.Fatal("Poll: timed out")
		}
		replaced += s.Poll()
		time.Sleep(time.Millisecond)
	}
	// Only two of the textures exist; the others keep
	// their placeholders.
	if replaced != 2 {
		t.Fatalf("Poll: replaced\nhave %d\nwant 2", replaced)
	}
	if !slot.Loaded() || slot.Texture().Ref != "earth.jpg" {
		t.Fatalf("Poll: earth texture\nhave %v loaded=%t", slot.Texture().Ref, slot.Loaded())
	}
	if !s.Background.Loaded() {
		t.Fatal("Poll: background not loaded")
	}
	mars, _ := reg.Lookup("mars")
	if s.Node(mars).Data.(*Mesh).Material.Texture.Loaded() {
		t.Fatal("Poll: mars texture should keep its placeholder")
	}
}

func TestBuildNil(t *testing.T) {
	if _, err := Build(nil, nil, nil, nil, nil); err == nil {
		t.Fatal("Build(nil...): err\nhave nil\nwant non-nil")
	}
}
