// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package render

import (
	"github.com/chewxy/math32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/gviegas/orrery/camera"
	"github.com/gviegas/orrery/linear"
	"github.com/gviegas/orrery/node"
	"github.com/gviegas/orrery/scene"
	"github.com/gviegas/orrery/texture"
)

// frame is a color and depth buffer of square pixels.
type frame struct {
	width  int
	height int
	pix    []colorful.Color
	depth  []float32
}

func (f *frame) resize(width, height int) {
	f.width = max(width, 0)
	f.height = max(height, 0)
	n := f.width * f.height
	if cap(f.pix) < n {
		f.pix = make([]colorful.Color, n)
		f.depth = make([]float32, n)
	}
	f.pix = f.pix[:n]
	f.depth = f.depth[:n]
}

// clear fills the frame with bg stretched over the
// whole viewport and resets the depth buffer.
func (f *frame) clear(bg *texture.Texture) {
	inf := math32.Inf(1)
	for y := 0; y < f.height; y++ {
		v := (float64(y) + 0.5) / float64(f.height)
		for x := 0; x < f.width; x++ {
			i := y*f.width + x
			if bg != nil {
				f.pix[i] = bg.Sample((float64(x)+0.5)/float64(f.width), v).C
			} else {
				f.pix[i] = colorful.Color{}
			}
			f.depth[i] = inf
		}
	}
}

// view holds the per-frame camera data used to cast
// rays and to project points.
type view struct {
	eye        linear.V3
	right, up  linear.V3
	fwd        linear.V3
	tanY, tanX float32
	near, far  float32
	vp         linear.M4
	width      int
	height     int
}

func newView(cam *camera.Camera, width, height int) *view {
	v := &view{
		eye:    cam.Position,
		tanY:   math32.Tan(cam.FOV * math32.Pi / 360),
		near:   cam.Near,
		far:    cam.Far,
		vp:     cam.ViewProjection(),
		width:  width,
		height: height,
	}
	v.right, v.up, v.fwd = cam.Basis()
	v.tanX = v.tanY * cam.Aspect
	return v
}

// ray returns the direction through the center of pixel
// x, y. Its component along the forward axis is one, so
// that ray parameters are view depths.
func (v *view) ray(x, y int) (d linear.V3) {
	sx := (2*(float32(x)+0.5)/float32(v.width) - 1) * v.tanX
	sy := (1 - 2*(float32(y)+0.5)/float32(v.height)) * v.tanY
	var r, u linear.V3
	r.Scale(sx, &v.right)
	u.Scale(sy, &v.up)
	d.Add(&v.fwd, &r)
	d.Add(&d, &u)
	return
}

// project returns the pixel coordinates and view depth
// of p. ok is false if p is not in front of the near
// plane.
func (v *view) project(p linear.V3) (x, y, depth float32, ok bool) {
	var c linear.V4
	q := p.Point()
	c.Mul(&v.vp, &q)
	if c[3] < v.near {
		return 0, 0, c[3], false
	}
	x = (c[0]/c[3] + 1) / 2 * float32(v.width)
	y = (1 - c[1]/c[3]) / 2 * float32(v.height)
	return x, y, c[3], true
}

// depthOf returns the view depth of p.
func (v *view) depthOf(p linear.V3) float32 {
	var d linear.V3
	d.Sub(&p, &v.eye)
	return d.Dot(&v.fwd)
}

// footprint returns the world-space size of a pixel at
// the given view depth.
func (v *view) footprint(depth float32) float32 {
	return 2 * depth * v.tanY / float32(v.height)
}

// bounds returns the pixel rectangle that contains the
// projection of pts. If any point is not in front of the
// near plane, the whole viewport is returned.
func (v *view) bounds(pts []linear.V3) (x0, y0, x1, y1 int) {
	minX, minY := math32.Inf(1), math32.Inf(1)
	maxX, maxY := math32.Inf(-1), math32.Inf(-1)
	for _, p := range pts {
		x, y, _, ok := v.project(p)
		if !ok {
			return 0, 0, v.width, v.height
		}
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	x0 = max(int(math32.Floor(minX))-1, 0)
	y0 = max(int(math32.Floor(minY))-1, 0)
	x1 = min(int(math32.Ceil(maxX))+1, v.width)
	y1 = min(int(math32.Ceil(maxY))+1, v.height)
	return
}

// lighting is the per-frame light data.
type lighting struct {
	pos       linear.V3
	color     colorful.Color
	intensity float64
	rng       float64
	sky       colorful.Color
	ground    colorful.Color
	ambient   float64
}

func newLighting(s *scene.Scene) *lighting {
	l := &lighting{
		color:     s.Light.Color,
		intensity: s.Light.Intensity,
		rng:       s.Light.Range,
		sky:       s.Ambient.Sky,
		ground:    s.Ambient.Ground,
		ambient:   s.Ambient.Intensity,
	}
	if s.Light.Node != nil {
		l.pos = s.Light.Node.WorldPosition()
	}
	return l
}

// shade returns the Lambert-shaded color of albedo at
// point p with unit normal n.
// Lighting is computed in linear RGB.
func (l *lighting) shade(albedo colorful.Color, p, n linear.V3) colorful.Color {
	var ld linear.V3
	ld.Sub(&l.pos, &p)
	dist := float64(ld.Len())
	var diffuse float64
	if dist > 0 {
		ld.Scale(1/float32(dist), &ld)
		ndl := float64(max(n.Dot(&ld), 0))
		atten := 1.0
		if l.rng > 0 {
			atten = max(1-dist/l.rng, 0)
		}
		diffuse = l.intensity * atten * ndl
	}
	w := 0.5*float64(n[1]) + 0.5
	ar, ag, ab := l.ground.BlendRgb(l.sky, w).LinearRgb()
	lr, lg, lb := l.color.LinearRgb()
	r, g, b := albedo.LinearRgb()
	return colorful.LinearRgb(
		r*(lr*diffuse+ar*l.ambient),
		g*(lg*diffuse+ag*l.ambient),
		b*(lb*diffuse+ab*l.ambient),
	).Clamped()
}

// modulate multiplies two colors component-wise.
func modulate(a, b colorful.Color) colorful.Color {
	return colorful.Color{R: a.R * b.R, G: a.G * b.G, B: a.B * b.B}
}

// albedo returns the color and alpha of mat at u, v.
func albedo(mat *scene.Material, u, v float64) (colorful.Color, float64) {
	if mat.Texture == nil {
		return mat.Color, mat.Opacity
	}
	t := mat.Texture.Texture().Sample(u, v)
	return modulate(mat.Color, t.C), mat.Opacity * t.A
}

// worldScale returns the length of the first basis
// vector of m.
func worldScale(m *linear.M4) float32 {
	v := m[0].XYZ()
	return v.Len()
}

// transform returns m ⋅ p for a point p.
func transform(m *linear.M4, p linear.V3) linear.V3 {
	var q linear.V4
	w := p.Point()
	q.Mul(m, &w)
	return q.XYZ()
}

// sphere draws an opaque sphere mesh.
func (f *frame) sphere(vw *view, lt *lighting, nd *node.Node, mesh *scene.Mesh, geom scene.Sphere) {
	world := nd.World()
	var inv linear.M4
	inv.Invert(&world)
	c := world[3].XYZ()
	r := geom.Radius * worldScale(&world)
	if r <= 0 {
		return
	}
	var corners [8]linear.V3
	for i := range corners {
		for j := 0; j < 3; j++ {
			if i&(1<<j) != 0 {
				corners[i][j] = c[j] + r
			} else {
				corners[i][j] = c[j] - r
			}
		}
	}
	x0, y0, x1, y1 := vw.bounds(corners[:])

	var oc linear.V3
	oc.Sub(&vw.eye, &c)
	cc := oc.Dot(&oc) - r*r
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			d := vw.ray(x, y)
			a := d.Dot(&d)
			b := oc.Dot(&d)
			disc := b*b - a*cc
			if disc < 0 {
				continue
			}
			sq := math32.Sqrt(disc)
			t := (-b - sq) / a
			if t < vw.near {
				t = (-b + sq) / a
			}
			i := y*f.width + x
			if t < vw.near || t > vw.far || t >= f.depth[i] {
				continue
			}
			var p, n linear.V3
			p.Scale(t, &d)
			p.Add(&p, &vw.eye)
			n.Sub(&p, &c)
			n.Scale(1/r, &n)

			lp := transform(&inv, p)
			lp.Norm(&lp)
			u := float64(math32.Atan2(lp[2], -lp[0]) / (2 * math32.Pi))
			v := float64(math32.Acos(max(-1, min(1, lp[1]))) / math32.Pi)
			col, alpha := albedo(&mesh.Material, u, v)
			if mesh.Material.Kind == scene.Lambert {
				col = lt.shade(col, p, n)
			}
			if alpha < 1 {
				col = f.pix[i].BlendRgb(col, alpha)
			}
			f.pix[i] = col.Clamped()
			f.depth[i] = t
		}
	}
}

// ring draws a transparent ring mesh. Rings narrower
// than a pixel are drawn as a closed polyline along
// their mid radius.
func (f *frame) ring(vw *view, nd *node.Node, mesh *scene.Mesh, geom scene.Ring) {
	world := nd.World()
	scale := worldScale(&world)
	c := world[3].XYZ()
	if depth := vw.depthOf(c); depth > 0 && (geom.Outer-geom.Inner)*scale < vw.footprint(depth) {
		f.ringLine(vw, &world, mesh, geom)
		return
	}
	var inv linear.M4
	inv.Invert(&world)
	normal := world[2].XYZ()
	normal.Norm(&normal)

	var corners [4]linear.V3
	for i, q := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
		corners[i] = transform(&world, linear.V3{q[0] * geom.Outer, q[1] * geom.Outer, 0})
	}
	x0, y0, x1, y1 := vw.bounds(corners[:])

	var pc linear.V3
	pc.Sub(&c, &vw.eye)
	num := pc.Dot(&normal)
	width := geom.Outer - geom.Inner
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			d := vw.ray(x, y)
			den := d.Dot(&normal)
			if math32.Abs(den) < 1e-6 || !mesh.Material.DoubleSided && den > 0 {
				continue
			}
			t := num / den
			i := y*f.width + x
			if t < vw.near || t > vw.far || t >= f.depth[i] {
				continue
			}
			var p linear.V3
			p.Scale(t, &d)
			p.Add(&p, &vw.eye)
			lp := transform(&inv, p)
			rho := math32.Sqrt(lp[0]*lp[0] + lp[1]*lp[1])
			if rho < geom.Inner || rho > geom.Outer {
				continue
			}
			u := 0.5
			if width > 0 {
				u = float64((rho - geom.Inner) / width)
			}
			col, alpha := albedo(&mesh.Material, u, 0.5)
			f.pix[i] = f.pix[i].BlendRgb(col, alpha).Clamped()
		}
	}
}

func (f *frame) ringLine(vw *view, world *linear.M4, mesh *scene.Mesh, geom scene.Ring) {
	n := max(geom.Segments, 3)
	r := (geom.Inner + geom.Outer) / 2
	col, alpha := albedo(&mesh.Material, 0.5, 0.5)
	point := func(i int) linear.V3 {
		s, c := math32.Sincos(2 * math32.Pi * float32(i%n) / float32(n))
		return transform(world, linear.V3{r * c, r * s, 0})
	}
	prev := point(0)
	for i := 1; i <= n; i++ {
		p := point(i)
		f.line(vw, prev, p, col, alpha)
		prev = p
	}
}

// line blends a depth-tested line segment from a to b.
// The segment is clipped against the near plane.
func (f *frame) line(vw *view, a, b linear.V3, col colorful.Color, alpha float64) {
	da, db := vw.depthOf(a), vw.depthOf(b)
	if da < vw.near && db < vw.near {
		return
	}
	if da < vw.near || db < vw.near {
		var q linear.V3
		q.Lerp(&a, &b, (vw.near-da)/(db-da))
		if da < vw.near {
			a = q
		} else {
			b = q
		}
	}
	ax, ay, az, ok1 := vw.project(a)
	bx, by, bz, ok2 := vw.project(b)
	if !ok1 || !ok2 {
		return
	}
	steps := int(math32.Ceil(max(math32.Abs(bx-ax), math32.Abs(by-ay))))
	// The last pixel is drawn by the next segment.
	for s := 0; s < max(steps, 1); s++ {
		t := float32(s) / float32(max(steps, 1))
		x := int(math32.Floor(ax + (bx-ax)*t))
		y := int(math32.Floor(ay + (by-ay)*t))
		if x < 0 || y < 0 || x >= f.width || y >= f.height {
			continue
		}
		i := y*f.width + x
		if z := az + (bz-az)*t; z > vw.far || z >= f.depth[i] {
			continue
		}
		f.pix[i] = f.pix[i].BlendRgb(col, alpha).Clamped()
	}
}

// draw rasterizes s as seen by cam.
// Opaque meshes are drawn before transparent ones.
func (f *frame) draw(s *scene.Scene, cam *camera.Camera) {
	var bg *texture.Texture
	if s.Background != nil {
		bg = s.Background.Texture()
	}
	f.clear(bg)
	if f.width == 0 || f.height == 0 {
		return
	}
	vw := newView(cam, f.width, f.height)
	lt := newLighting(s)
	type item struct {
		nd   *node.Node
		mesh *scene.Mesh
		ring scene.Ring
	}
	var rings []item
	s.Meshes(func(nd *node.Node, m *scene.Mesh) {
		switch g := m.Geometry.(type) {
		case scene.Sphere:
			if m.Material.Opacity >= 1 {
				f.sphere(vw, lt, nd, m, g)
			}
		case scene.Ring:
			rings = append(rings, item{nd, m, g})
		}
	})
	for _, r := range rings {
		f.ring(vw, r.nd, r.mesh, r.ring)
	}
}
