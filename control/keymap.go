// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package control

import (
	"log/slog"

	"github.com/gviegas/orrery/body"
	"github.com/gviegas/orrery/config"
	"github.com/gviegas/orrery/wsi"
)

// Keymap translates key presses into events and posts
// them to a queue.
// It implements wsi.KeyboardHandler.
//
//	=  -    increase/decrease orbit speed
//	]  [    increase/decrease rotation speed
//	0       free camera
//	1-9     focus the n-th body
//	Tab     focus the next body
//	arrows  rotate the free camera
//	z  x    zoom in/out
//	q  Esc  quit
type Keymap struct {
	OrbitStep    float64
	RotationStep float64
	RotateStep   float32
	ZoomStep     float32

	reg   *body.Registry
	queue *Queue
	log   *slog.Logger
}

// NewKeymap creates a keymap with the step sizes of cfg.
// Digit keys select bodies of reg.
// Key presses dropped by a full q are logged to log
// (slog.Default() if nil).
func NewKeymap(cfg config.ControlsConfig, reg *body.Registry, q *Queue, log *slog.Logger) *Keymap {
	if log == nil {
		log = slog.Default()
	}
	return &Keymap{
		OrbitStep:    cfg.OrbitStep,
		RotationStep: cfg.RotationStep,
		RotateStep:   cfg.RotateStep,
		ZoomStep:     cfg.ZoomStep,
		reg:          reg,
		queue:        q,
		log:          log.With("component", "control"),
	}
}

var digits = [...]wsi.Key{wsi.Key1, wsi.Key2, wsi.Key3, wsi.Key4, wsi.Key5, wsi.Key6, wsi.Key7, wsi.Key8, wsi.Key9}

// Event returns the event bound to key, if any.
// Modifiers are ignored, so that "+" and "=" are the
// same key.
func (k *Keymap) Event(key wsi.Key, _ wsi.Modifier) (Event, bool) {
	switch key {
	case wsi.KeyEqual:
		return OrbitSpeed{k.OrbitStep, true}, true
	case wsi.KeyMinus:
		return OrbitSpeed{-k.OrbitStep, true}, true
	case wsi.KeyRBracket:
		return RotationSpeed{k.RotationStep, true}, true
	case wsi.KeyLBracket:
		return RotationSpeed{-k.RotationStep, true}, true
	case wsi.Key0:
		return Focus{NoFocus}, true
	case wsi.KeyTab:
		return FocusCycle{1}, true
	case wsi.KeyLeft:
		return CameraRotate{Azimuth: -k.RotateStep}, true
	case wsi.KeyRight:
		return CameraRotate{Azimuth: k.RotateStep}, true
	case wsi.KeyUp:
		return CameraRotate{Polar: -k.RotateStep}, true
	case wsi.KeyDown:
		return CameraRotate{Polar: k.RotateStep}, true
	case wsi.KeyZ:
		return CameraZoom{1 / k.ZoomStep}, true
	case wsi.KeyX:
		return CameraZoom{k.ZoomStep}, true
	case wsi.KeyQ, wsi.KeyEsc:
		return Quit{}, true
	}
	for i, d := range digits {
		if key == d {
			if k.reg == nil || i >= k.reg.Len() {
				return nil, false
			}
			return Focus{k.reg.Bodies()[i].Name}, true
		}
	}
	return nil, false
}

// KeyboardKey implements wsi.KeyboardHandler.
func (k *Keymap) KeyboardKey(key wsi.Key, pressed bool, modMask wsi.Modifier) {
	if !pressed {
		return
	}
	if ev, ok := k.Event(key, modMask); ok {
		if !k.queue.Post(ev) {
			k.log.Warn("event queue full, key dropped", "event", ev.String())
		}
	}
}
