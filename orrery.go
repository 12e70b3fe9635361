// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package orrery animates a model of the solar system.
//
// An App ties together the scene graph, the animation
// step, the controls and a renderer, and runs them at
// the display rate until canceled.
package orrery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/gviegas/orrery/anim"
	"github.com/gviegas/orrery/body"
	"github.com/gviegas/orrery/camera"
	"github.com/gviegas/orrery/config"
	"github.com/gviegas/orrery/control"
	"github.com/gviegas/orrery/loop"
	"github.com/gviegas/orrery/orbit"
	"github.com/gviegas/orrery/render"
	"github.com/gviegas/orrery/scene"
	"github.com/gviegas/orrery/texture"
	"github.com/gviegas/orrery/wsi"
)

const prefix = "orrery: "

// Title is the window title.
const Title = "orrery"

// Options are optional App dependencies.
// Zero values select the defaults implied by the
// configuration.
type Options struct {
	// Renderer replaces the renderer named by the
	// configuration.
	Renderer render.Renderer
	// Textures is where textures are read from.
	// Default is the configured texture directory.
	Textures fs.FS
	// Logger default is slog.Default().
	Logger *slog.Logger
	// Clock default is time.Now.
	Clock func() time.Time
}

// App is the solar system application.
type App struct {
	cfg   *config.Config
	log   *slog.Logger
	reg   *body.Registry
	tab   *orbit.Table
	state *anim.State
	scene *scene.Scene
	cam   *camera.Camera
	ctl   *camera.Controls

	queue   *control.Queue
	surface *control.Surface
	keymap  *control.Keymap
	watcher *control.Watcher

	win  wsi.Window
	rend render.Renderer
	loop *loop.Loop

	stop     bool
	frames   int
	fps      float64
	fpsStart time.Time
	fpsCount int
	last     anim.Result
}

// New creates an App as described by cfg.
// cfg must be valid.
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New(prefix + "nil configuration")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	a := &App{
		cfg:   cfg,
		log:   log.With("component", "app"),
		state: &anim.State{OrbitSpeed: cfg.Animation.OrbitSpeed, RotationSpeed: cfg.Animation.RotationSpeed},
		queue: control.NewQueue(0),
	}
	if err := a.init(opts, log); err != nil {
		a.Close()
		return nil, err
	}
	a.log.Info("app created",
		"bodies", a.reg.Len(),
		"renderer", cfg.Render.Renderer,
		"fps", cfg.Render.FPS,
		"focus", a.surface.Focus(),
		"wsi", wsi.PlatformInUse().String(),
	)
	return a, nil
}

func (a *App) init(opts Options, log *slog.Logger) (err error) {
	cfg := a.cfg
	if a.reg, a.tab, err = cfg.Tables(); err != nil {
		return fmt.Errorf(prefix+"%w", err)
	}

	textures := opts.Textures
	if textures == nil {
		textures = os.DirFS(cfg.Render.TextureDir)
	}
	ld := &texture.Loader{FS: textures, MaxWidth: cfg.Render.TextureWidth, MaxHeight: cfg.Render.TextureHeight}
	if a.scene, err = scene.Build(a.reg, body.Sun(), a.tab, ld, log); err != nil {
		return fmt.Errorf(prefix+"%w", err)
	}

	a.cam = camera.New()
	a.cam.FOV = cfg.Camera.FOV
	a.cam.Near = cfg.Camera.Near
	a.cam.Far = cfg.Camera.Far
	a.cam.SetPosition(cfg.Camera.Position)
	a.ctl = camera.NewControls()
	a.ctl.Damping = cfg.Camera.Damping
	a.ctl.MinDistance = cfg.Camera.MinDistance
	a.ctl.MaxDistance = cfg.Camera.MaxDistance

	a.surface = control.NewSurface(a.state, a.reg, a.ctl, log)
	a.surface.SetFocus(cfg.Animation.Focus)
	a.keymap = control.NewKeymap(cfg.Controls, a.reg, a.queue, log)

	if a.rend = opts.Renderer; a.rend == nil {
		if a.rend, err = a.newRenderer(); err != nil {
			return err
		}
	}
	a.cam.SetAspect(a.rend.Viewport())

	if cfg.Controls.File != "" {
		if a.watcher, err = control.NewWatcher(cfg.Controls.File, a.queue, log); err != nil {
			return fmt.Errorf(prefix+"%w", err)
		}
	}

	a.loop = loop.New(cfg.Render.FPS)
	a.loop.Clock = opts.Clock
	wsi.SetWindowHandler(a)
	wsi.SetKeyboardHandler(a.keymap)
	return nil
}

// newRenderer creates the configured renderer and, for
// the terminal renderer, the window it draws into.
func (a *App) newRenderer() (render.Renderer, error) {
	switch a.cfg.Render.Renderer {
	case "none":
		return render.NewDiscard(160, 90), nil
	case "term":
		win, err := wsi.NewWindow(0, 0, Title)
		if err != nil {
			return nil, fmt.Errorf(prefix+"terminal renderer: %w", err)
		}
		a.win = win
		t := render.NewTerm(os.Stdout, win.Width(), win.Height())
		t.HUD = a.cfg.Render.HUD
		t.Splash = render.Splash{
			Message:  a.cfg.Render.SplashMessage,
			Duration: a.cfg.Render.SplashDuration.Std(),
			Fade:     a.cfg.Render.SplashFade.Std(),
		}
		return t, nil
	default:
		return nil, fmt.Errorf(prefix+"unknown renderer %q", a.cfg.Render.Renderer)
	}
}

// Run runs the App until ctx is done, the window is
// closed or a quit key is pressed.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if w := a.watcher; w != nil {
		go func() {
			if err := w.Run(ctx); err != nil {
				a.log.Error("control file watcher stopped", "error", err)
			}
		}()
	}
	a.log.Info("running")
	err := a.loop.Run(ctx, a.Frame)
	a.log.Info("stopped", "frames", a.frames, "error", err)
	return err
}

// Frame advances the App by one frame.
// It returns loop.ErrStop once a stop was requested.
func (a *App) Frame(now time.Time) error {
	wsi.Dispatch()
	a.queue.Drain(a.apply)
	if a.stop {
		return loop.ErrStop
	}
	if n := a.scene.Poll(); n > 0 {
		a.log.Debug("textures replaced", "count", n, "loaded", a.scene.Loaded())
	}

	a.last = anim.Step(now, a.state, a.tab, a.scene.Transforms(), a.cam)
	if a.last.Focused {
		a.ctl.Sync(a.cam)
	} else {
		a.ctl.Update(a.cam)
	}

	a.measure(now)
	hud := render.HUD{
		OrbitSpeed:    a.state.OrbitSpeed,
		RotationSpeed: a.state.RotationSpeed,
		Focus:         a.surface.Focus(),
		Loading:       !a.scene.Loaded(),
		FPS:           a.fps,
	}
	if err := a.rend.Render(a.scene, a.cam, hud); err != nil {
		return fmt.Errorf(prefix+"%w", err)
	}
	a.frames++
	return nil
}

func (a *App) apply(ev control.Event) {
	a.log.Debug("control", "event", ev.String())
	if _, ok := ev.(control.Quit); ok {
		a.stop = true
		return
	}
	a.surface.Apply(ev)
}

// measure updates the frame rate once per second.
func (a *App) measure(now time.Time) {
	if a.fpsStart.IsZero() {
		a.fpsStart = now
	}
	a.fpsCount++
	if d := now.Sub(a.fpsStart); d >= time.Second {
		a.fps = float64(a.fpsCount) / d.Seconds()
		a.fpsStart = now
		a.fpsCount = 0
	}
}

// WindowClose implements wsi.WindowHandler.
func (a *App) WindowClose(wsi.Window) { a.stop = true }

// WindowResize implements wsi.WindowHandler.
func (a *App) WindowResize(_ wsi.Window, width, height int) {
	a.rend.Resize(width, height)
	a.cam.SetAspect(a.rend.Viewport())
	a.log.Debug("resized", "width", width, "height", height)
}

// Post enqueues a control event. It can be called from
// any goroutine.
func (a *App) Post(ev control.Event) bool { return a.queue.Post(ev) }

// State returns the animation state.
// It must not be modified while Run executes.
func (a *App) State() *anim.State { return a.state }

// Scene returns the scene.
func (a *App) Scene() *scene.Scene { return a.scene }

// Camera returns the camera.
func (a *App) Camera() *camera.Camera { return a.cam }

// Frames returns the number of frames rendered.
func (a *App) Frames() int { return a.frames }

// Close releases the App's resources.
// The terminal is restored to its previous state.
func (a *App) Close() error {
	var err error
	if a.rend != nil {
		err = a.rend.Close()
		a.rend = nil
	}
	if a.win != nil {
		a.win.Close()
		a.win = nil
	}
	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
	wsi.SetWindowHandler(nil)
	wsi.SetKeyboardHandler(nil)
	return err
}
