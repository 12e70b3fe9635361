// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package texture decodes surface textures and loads
// them asynchronously.
package texture

import (
	"errors"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const prefix = "texture: "

func newErr(s string) error { return errors.New(prefix + s) }

var errEmpty = newErr("empty image")

// Texel is a single texture element.
// C is not premultiplied by A.
type Texel struct {
	C colorful.Color
	A float64
}

// Texture is a decoded texture.
// It is immutable and safe for concurrent use.
type Texture struct {
	// Ref identifies the texture's source.
	Ref string
	// Mean is the average color of the opaque texels.
	Mean colorful.Color

	w, h   int
	texels []Texel
}

// Decode reads an image from r and converts it into a
// texture no larger than maxW × maxH texels.
// Larger images are downsampled.
func Decode(r io.Reader, ref string, maxW, maxH int) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromImage(img, ref, maxW, maxH)
}

// FromImage converts img into a texture no larger than
// maxW × maxH texels.
func FromImage(img image.Image, ref string, maxW, maxH int) (*Texture, error) {
	sr := img.Bounds()
	if sr.Empty() {
		return nil, errEmpty
	}
	w, h := sr.Dx(), sr.Dy()
	if maxW > 0 && w > maxW {
		w = maxW
	}
	if maxH > 0 && h > maxH {
		h = maxH
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == sr.Dx() && h == sr.Dy() {
		draw.Copy(dst, image.Point{}, img, sr, draw.Src, nil)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, sr, draw.Src, nil)
	}

	t := &Texture{Ref: ref, w: w, h: h, texels: make([]Texel, w*h)}
	var lr, lg, lb, n float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := dst.NRGBAAt(x, y)
			tx := Texel{
				C: colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255},
				A: float64(c.A) / 255,
			}
			t.texels[y*w+x] = tx
			if c.A > 0 {
				r, g, b := tx.C.LinearRgb()
				lr += r * tx.A
				lg += g * tx.A
				lb += b * tx.A
				n += tx.A
			}
		}
	}
	if n > 0 {
		t.Mean = colorful.LinearRgb(lr/n, lg/n, lb/n).Clamped()
	}
	return t, nil
}

// Solid creates a 1 × 1 texture of color c.
func Solid(ref string, c color.Color) *Texture {
	cc, ok := colorful.MakeColor(c)
	_, _, _, a := c.RGBA()
	t := &Texture{Ref: ref, w: 1, h: 1, texels: []Texel{{C: cc, A: float64(a) / 0xffff}}}
	if ok {
		t.Mean = cc
	}
	return t
}

// Width returns the width of t in texels.
func (t *Texture) Width() int { return t.w }

// Height returns the height of t in texels.
func (t *Texture) Height() int { return t.h }

// At returns the texel at x, y.
func (t *Texture) At(x, y int) Texel { return t.texels[y*t.w+x] }

// Sample returns the texel nearest to the texture
// coordinates u, v. u wraps around and v is clamped
// to [0, 1]; v = 0 is the top row.
func (t *Texture) Sample(u, v float64) Texel {
	u -= math.Floor(u)
	v = math.Max(0, math.Min(1, v))
	x := min(int(u*float64(t.w)), t.w-1)
	y := min(int(v*float64(t.h)), t.h-1)
	return t.texels[y*t.w+x]
}
