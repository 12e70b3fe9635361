// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package scene builds the solar system's scene graph.
package scene

import (
	"errors"
	"image/color"
	"log/slog"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gviegas/orrery/anim"
	"github.com/gviegas/orrery/body"
	"github.com/gviegas/orrery/node"
	"github.com/gviegas/orrery/orbit"
	"github.com/gviegas/orrery/texture"
)

const prefix = "scene: "

func newErr(s string) error { return errors.New(prefix + s) }

// Scene geometry parameters.
const (
	SphereSegments = 32
	RingSegments   = 32
	GuideSegments  = 64
	// GuideWidth is half the width of an orbit guide.
	GuideWidth = 0.05
	// RingInner and RingOuter are added to a body's size
	// to obtain the radii of its ring attachment.
	RingInner = 1
	RingOuter = 5
)

// BackgroundTexture is the texture drawn behind the scene.
const BackgroundTexture = "stars.jpg"

// MaterialKind is the type of shading a material
// receives.
type MaterialKind int

// Material kinds.
const (
	// Basic materials are unlit.
	Basic MaterialKind = iota
	// Lambert materials are diffusely lit.
	Lambert
)

// Material defines how a mesh is shaded.
type Material struct {
	Kind MaterialKind
	// Color multiplies the texture, or is used alone
	// when Texture is nil.
	Color   colorful.Color
	Texture *texture.Slot
	// Opacity is in [0, 1]; values below one are
	// blended with what is behind.
	Opacity     float64
	DoubleSided bool
}

// Sphere is a sphere centered at its node's origin.
type Sphere struct {
	Radius   float32
	Segments int
}

// Ring is a flat annulus on its node's xy plane.
type Ring struct {
	Inner    float32
	Outer    float32
	Segments int
}

// Mesh is the value that scene nodes carry in
// node.Node.Data.
type Mesh struct {
	// Geometry is either Sphere or Ring.
	Geometry any
	Material Material
	// Body is the body the mesh represents, if any.
	Body *body.Body
}

// PointLight emits light in all directions from its
// position.
type PointLight struct {
	Color     colorful.Color
	Intensity float64
	// Range is the distance at which the light's
	// contribution falls to zero.
	Range float64
	Node  *node.Node
}

// HemisphereLight is an ambient light that blends
// between a sky and a ground color depending on the
// surface orientation.
type HemisphereLight struct {
	Sky       colorful.Color
	Ground    colorful.Color
	Intensity float64
}

// Loader starts texture loads.
type Loader interface {
	Load(ref string) *texture.Future
}

// Scene is the solar system's scene graph.
type Scene struct {
	Root       *node.Node
	Sun        *node.Node
	Light      PointLight
	Ambient    HemisphereLight
	Background *texture.Slot

	bodies anim.Transforms
	rings  []*node.Node
	guides []*node.Node
	slots  []*texture.Slot
}

// Build creates the scene for the bodies of reg, which
// orbit sun as described by tab.
// Textures are requested from ld and replaced in the
// scene as Poll observes them.
func Build(reg *body.Registry, sun *body.Body, tab *orbit.Table, ld Loader, log *slog.Logger) (*Scene, error) {
	if reg == nil || sun == nil || tab == nil || ld == nil {
		return nil, newErr("nil argument in call to Build")
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "scene")

	s := &Scene{
		Root:   node.New("scene"),
		bodies: make(anim.Transforms, reg.Len()),
	}
	slot := func(ref string, ph color.Color) *texture.Slot {
		sl := texture.NewSlot(ld.Load(ref), texture.Solid(ref, ph), log)
		s.slots = append(s.slots, sl)
		return sl
	}

	s.Background = slot(BackgroundTexture, color.Black)

	s.Sun = node.New(sun.Name)
	s.Sun.Data = &Mesh{
		Geometry: Sphere{Radius: sun.Size, Segments: SphereSegments},
		Material: Material{
			Kind:    Basic,
			Color:   colorful.Color{R: 1, G: 1, B: 1},
			Texture: slot(sun.Texture, color.RGBA{255, 200, 64, 255}),
			Opacity: 1,
		},
		Body: sun,
	}
	s.Root.Insert(s.Sun)

	for i, b := range reg.Bodies() {
		n := node.New(b.Name)
		n.Data = &Mesh{
			Geometry: Sphere{Radius: b.Size, Segments: SphereSegments},
			Material: Material{
				Kind:    Lambert,
				Color:   colorful.Color{R: 1, G: 1, B: 1},
				Texture: slot(b.Texture, placeholder(i, reg.Len())),
				Opacity: 1,
			},
			Body: b,
		}
		if b.Ring {
			r := node.New(b.Name + ".ring")
			r.Transform.Rotation[0] = math.Pi / 2
			r.Data = &Mesh{
				Geometry: Ring{Inner: b.Size + RingInner, Outer: b.Size + RingOuter, Segments: RingSegments},
				Material: Material{
					Kind:        Basic,
					Color:       colorful.Color{R: 1, G: 1, B: 1},
					Texture:     slot(body.RingTexture, color.RGBA{200, 180, 140, 255}),
					Opacity:     0.8,
					DoubleSided: true,
				},
			}
			n.Insert(r)
			s.rings = append(s.rings, r)
		}
		s.Root.Insert(n)
		s.bodies[b] = n
	}

	for _, e := range tab.Entries() {
		if _, ok := s.bodies[e.Body]; !ok {
			log.Warn("orbit for body not in registry", "body", e.Body.Name)
		}
		g := node.New(e.Body.Name + ".orbit")
		g.Transform.Rotation[0] = math.Pi / 2
		g.Data = &Mesh{
			Geometry: Ring{
				Inner:    float32(e.Radius - GuideWidth),
				Outer:    float32(e.Radius + GuideWidth),
				Segments: GuideSegments,
			},
			Material: Material{
				Kind:        Basic,
				Color:       colorful.Color{R: 1, G: 1, B: 1},
				Opacity:     0.3,
				DoubleSided: true,
			},
		}
		s.Root.Insert(g)
		s.guides = append(s.guides, g)
	}

	light := node.New("light")
	s.Root.Insert(light)
	s.Light = PointLight{
		Color:     colorful.Color{R: 1, G: 1, B: 1},
		Intensity: 2,
		Range:     1000,
		Node:      light,
	}
	s.Ambient = HemisphereLight{
		Sky:       colorful.Color{R: 0xaa / 255.0, G: 0xaa / 255.0, B: 0xaa / 255.0},
		Ground:    colorful.Color{},
		Intensity: 0.5,
	}

	log.Debug("scene built", "bodies", reg.Len(), "orbits", tab.Len(), "textures", len(s.slots))
	return s, nil
}

// placeholder returns a distinct flat color for the
// i-th of n bodies.
func placeholder(i, n int) color.Color {
	return colorful.Hcl(float64(i)*360/float64(max(n, 1)), 0.4, 0.6).Clamped()
}

// Transforms returns the nodes of the orbiting bodies.
func (s *Scene) Transforms() anim.Transforms { return s.bodies }

// Node returns the node of b, or nil.
func (s *Scene) Node(b *body.Body) *node.Node { return s.bodies[b] }

// Rings returns the ring attachment nodes.
func (s *Scene) Rings() []*node.Node { return s.rings }

// Guides returns the orbit guide nodes.
func (s *Scene) Guides() []*node.Node { return s.guides }

// Poll replaces the placeholders of completed texture
// loads. It returns the number of textures replaced.
// It never blocks.
func (s *Scene) Poll() (n int) {
	for _, sl := range s.slots {
		if sl.Poll() {
			n++
		}
	}
	return
}

// Loaded reports whether no texture load is pending.
// Failed loads count as completed.
func (s *Scene) Loaded() bool {
	for _, sl := range s.slots {
		if sl.Pending() {
			return false
		}
	}
	return true
}

// Meshes calls f for every node that carries a mesh.
// Ancestors are visited before their descendants.
func (s *Scene) Meshes(f func(*node.Node, *Mesh)) {
	s.Root.ForEach(func(n *node.Node) bool {
		if m, ok := n.Data.(*Mesh); ok {
			f(n, m)
		}
		return true
	})
}
