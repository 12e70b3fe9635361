// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package render presents the scene.
package render

import (
	"errors"
	"fmt"

	"github.com/gviegas/orrery/camera"
	"github.com/gviegas/orrery/scene"
)

const prefix = "render: "

func newErr(s string) error { return errors.New(prefix + s) }

// ErrClosed means that the renderer was closed.
var ErrClosed = newErr("renderer closed")

// HUD is the status information drawn over the scene.
type HUD struct {
	OrbitSpeed    float64
	RotationSpeed float64
	Focus         string
	// Loading is set while textures are being loaded.
	Loading bool
	// FPS is the measured frame rate, if known.
	FPS float64
}

// String returns the text of the HUD line.
func (h HUD) String() string {
	s := fmt.Sprintf("orbit %.3f  rotation %.3f  focus %s", h.OrbitSpeed, h.RotationSpeed, h.Focus)
	if h.FPS > 0 {
		s += fmt.Sprintf("  %.0f fps", h.FPS)
	}
	if h.Loading {
		s += "  loading textures"
	}
	return s
}

// Renderer is the interface that presents frames.
type Renderer interface {
	// Render draws a frame of s as seen by cam.
	Render(s *scene.Scene, cam *camera.Camera, hud HUD) error

	// Resize changes the size of the output, in the
	// units of the underlying window.
	Resize(width, height int)

	// Viewport returns the size of the frame, in
	// pixels.
	Viewport() (width, height int)

	// Aspect returns the aspect ratio of the frame.
	Aspect() float32

	// Close releases the renderer's resources.
	Close() error
}

// Discard is a Renderer that draws nothing.
type Discard struct {
	// Frames is the number of frames rendered.
	Frames int
	// Last is the HUD of the last frame.
	Last   HUD
	width  int
	height int
	closed bool
}

// NewDiscard creates a headless renderer of the given
// size.
func NewDiscard(width, height int) *Discard {
	d := &Discard{}
	d.Resize(width, height)
	return d
}

// Render implements Renderer.
func (d *Discard) Render(s *scene.Scene, cam *camera.Camera, hud HUD) error {
	if d.closed {
		return ErrClosed
	}
	if s == nil || cam == nil {
		return newErr("nil argument in call to Render")
	}
	d.Frames++
	d.Last = hud
	return nil
}

// Resize implements Renderer.
func (d *Discard) Resize(width, height int) {
	d.width = max(width, 1)
	d.height = max(height, 1)
}

// Viewport implements Renderer.
func (d *Discard) Viewport() (int, int) { return d.width, d.height }

// Aspect implements Renderer.
func (d *Discard) Aspect() float32 { return float32(d.width) / float32(d.height) }

// Close implements Renderer.
func (d *Discard) Close() error {
	d.closed = true
	return nil
}
