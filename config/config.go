// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package config loads the application configuration from
// a TOML or YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gviegas/orrery/anim"
	"github.com/gviegas/orrery/body"
	"github.com/gviegas/orrery/camera"
	"github.com/gviegas/orrery/orbit"
)

const prefix = "config: "

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New(prefix + "invalid configuration")

// ErrFormat means that the file extension is not
// supported.
var ErrFormat = errors.New(prefix + "unsupported file format")

// Config is the application configuration.
type Config struct {
	Animation AnimationConfig `toml:"animation" yaml:"animation"`
	Camera    CameraConfig    `toml:"camera" yaml:"camera"`
	Controls  ControlsConfig  `toml:"controls" yaml:"controls"`
	Render    RenderConfig    `toml:"render" yaml:"render"`
	Logging   LoggingConfig   `toml:"logging" yaml:"logging"`
	// Bodies, if not empty, replaces the default body
	// and orbit tables.
	Bodies []BodyConfig `toml:"bodies" yaml:"bodies"`
}

// AnimationConfig holds the initial animation state.
type AnimationConfig struct {
	OrbitSpeed    float64 `toml:"orbit_speed" yaml:"orbit_speed"`
	RotationSpeed float64 `toml:"rotation_speed" yaml:"rotation_speed"`
	// Focus names the initially focused body.
	// "none" or "" means free camera.
	Focus string `toml:"focus" yaml:"focus"`
}

// CameraConfig holds camera and orbit control parameters.
type CameraConfig struct {
	FOV         float32    `toml:"fov" yaml:"fov"`
	Near        float32    `toml:"near" yaml:"near"`
	Far         float32    `toml:"far" yaml:"far"`
	Position    [3]float32 `toml:"position" yaml:"position"`
	Damping     float32    `toml:"damping" yaml:"damping"`
	MinDistance float32    `toml:"min_distance" yaml:"min_distance"`
	MaxDistance float32    `toml:"max_distance" yaml:"max_distance"`
}

// ControlsConfig holds input step sizes.
type ControlsConfig struct {
	// OrbitStep and RotationStep are the amounts added or
	// subtracted by a single key press.
	OrbitStep    float64 `toml:"orbit_step" yaml:"orbit_step"`
	RotationStep float64 `toml:"rotation_step" yaml:"rotation_step"`
	// RotateStep is the free camera rotation per key
	// press, in radians.
	RotateStep float32 `toml:"rotate_step" yaml:"rotate_step"`
	// ZoomStep is the distance factor per zoom-out key
	// press; zooming in uses its reciprocal.
	ZoomStep float32 `toml:"zoom_step" yaml:"zoom_step"`
	// File is a control file to watch, if any.
	File string `toml:"file" yaml:"file"`
}

// RenderConfig holds presentation parameters.
type RenderConfig struct {
	// Renderer is either "term" or "none".
	Renderer       string   `toml:"renderer" yaml:"renderer"`
	FPS            float64  `toml:"fps" yaml:"fps"`
	SplashDuration Duration `toml:"splash_duration" yaml:"splash_duration"`
	SplashFade     Duration `toml:"splash_fade" yaml:"splash_fade"`
	SplashMessage  string   `toml:"splash_message" yaml:"splash_message"`
	TextureDir     string   `toml:"texture_dir" yaml:"texture_dir"`
	TextureWidth   int      `toml:"texture_width" yaml:"texture_width"`
	TextureHeight  int      `toml:"texture_height" yaml:"texture_height"`
	HUD            bool     `toml:"hud" yaml:"hud"`
}

// LoggingConfig holds logger parameters.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
	JSON  bool   `toml:"json" yaml:"json"`
	// File receives log output when set.
	// Otherwise logs go to standard error.
	File string `toml:"file" yaml:"file"`
}

// BodyConfig describes a body and its orbit.
type BodyConfig struct {
	Name    string  `toml:"name" yaml:"name"`
	Size    float32 `toml:"size" yaml:"size"`
	Texture string  `toml:"texture" yaml:"texture"`
	Ring    bool    `toml:"ring" yaml:"ring"`
	Radius  float64 `toml:"radius" yaml:"radius"`
	Speed   float64 `toml:"speed" yaml:"speed"`
}

// Duration is a time.Duration written as a string
// such as "3s" in configuration files.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	x, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(x)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error { return d.UnmarshalText([]byte(n.Value)) }

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Animation: AnimationConfig{
			OrbitSpeed:    anim.DefaultOrbitSpeed,
			RotationSpeed: anim.DefaultRotationSpeed,
			Focus:         "none",
		},
		Camera: CameraConfig{
			FOV:         camera.DefaultFOV,
			Near:        camera.DefaultNear,
			Far:         camera.DefaultFar,
			Position:    camera.DefaultPosition,
			Damping:     camera.DefaultDamping,
			MinDistance: camera.DefaultMinDistance,
			MaxDistance: camera.DefaultMaxDistance,
		},
		Controls: ControlsConfig{
			OrbitStep:    0.001,
			RotationStep: 0.005,
			RotateStep:   0.1,
			ZoomStep:     1.1,
		},
		Render: RenderConfig{
			Renderer:       "term",
			FPS:            60,
			SplashDuration: Duration(3 * time.Second),
			SplashFade:     Duration(time.Second),
			SplashMessage:  "3D Solar System Simulation",
			TextureDir:     "textures",
			TextureWidth:   128,
			TextureHeight:  64,
			HUD:            true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load returns the default configuration updated by
// the file at path, if path is not empty, and then by
// the environment.
// An optional .env file in the working directory is
// loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}
	cfg := Default()
	if path != "" {
		if err := cfg.ReadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads the given .env files (".env" if none)
// into the environment. Missing files are ignored.
// Variables already set are not overridden.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf(prefix+"loading %s: %w", f, err)
		}
	}
	return nil
}

// ReadFile updates c from the file at path.
// The format is chosen by the file extension.
func (c *Config) ReadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf(prefix+"%w", err)
	}
	if err := c.Decode(b, filepath.Ext(path)); err != nil {
		return fmt.Errorf(prefix+"%s: %w", path, err)
	}
	return nil
}

// Decode updates c from b, which is in the format
// identified by ext (".toml", ".yaml" or ".yml").
func (c *Config) Decode(b []byte, ext string) error {
	switch strings.ToLower(ext) {
	case ".toml":
		return toml.Unmarshal(b, c)
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, c)
	default:
		return fmt.Errorf("%w: %q", ErrFormat, ext)
	}
}

// Environment variables read by ApplyEnv.
const (
	EnvOrbitSpeed    = "ORRERY_ORBIT_SPEED"
	EnvRotationSpeed = "ORRERY_ROTATION_SPEED"
	EnvFocus         = "ORRERY_FOCUS"
	EnvRenderer      = "ORRERY_RENDERER"
	EnvFPS           = "ORRERY_FPS"
	EnvTextureDir    = "ORRERY_TEXTURE_DIR"
	EnvControlFile   = "ORRERY_CONTROL_FILE"
	EnvLogLevel      = "ORRERY_LOG_LEVEL"
	EnvLogJSON       = "ORRERY_LOG_JSON"
	EnvLogFile       = "ORRERY_LOG_FILE"
)

// ApplyEnv updates c from the variables that lookup
// reports as set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, x := range [...]struct {
		key string
		dst any
	}{
		{EnvOrbitSpeed, &c.Animation.OrbitSpeed},
		{EnvRotationSpeed, &c.Animation.RotationSpeed},
		{EnvFocus, &c.Animation.Focus},
		{EnvRenderer, &c.Render.Renderer},
		{EnvFPS, &c.Render.FPS},
		{EnvTextureDir, &c.Render.TextureDir},
		{EnvControlFile, &c.Controls.File},
		{EnvLogLevel, &c.Logging.Level},
		{EnvLogJSON, &c.Logging.JSON},
		{EnvLogFile, &c.Logging.File},
	} {
		s, ok := lookup(x.key)
		if !ok {
			continue
		}
		var err error
		switch dst := x.dst.(type) {
		case *string:
			*dst = s
		case *float64:
			*dst, err = strconv.ParseFloat(s, 64)
		case *bool:
			*dst, err = strconv.ParseBool(s)
		}
		if err != nil {
			return fmt.Errorf(prefix+"%s: %w", x.key, err)
		}
	}
	return nil
}

// Validate checks that c can be used to run the
// application.
// Speed factors are not checked; any value is valid.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}
	check(c.Render.FPS > 0, "render.fps must be positive (%v)", c.Render.FPS)
	check(c.Render.Renderer == "term" || c.Render.Renderer == "none",
		"render.renderer must be \"term\" or \"none\" (%q)", c.Render.Renderer)
	check(c.Render.SplashDuration >= 0 && c.Render.SplashFade >= 0, "splash durations must not be negative")
	check(c.Render.TextureWidth > 0 && c.Render.TextureHeight > 0,
		"texture size must be positive (%dx%d)", c.Render.TextureWidth, c.Render.TextureHeight)
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov must be in (0, 180) (%v)", c.Camera.FOV)
	check(c.Camera.Near > 0 && c.Camera.Near < c.Camera.Far,
		"camera.near must be in (0, far) (%v, %v)", c.Camera.Near, c.Camera.Far)
	check(c.Camera.MinDistance > 0 && c.Camera.MinDistance <= c.Camera.MaxDistance,
		"camera distance range is empty (%v, %v)", c.Camera.MinDistance, c.Camera.MaxDistance)
	check(c.Camera.Damping > 0 && c.Camera.Damping <= 1, "camera.damping must be in (0, 1] (%v)", c.Camera.Damping)
	check(c.Controls.ZoomStep > 0, "controls.zoom_step must be positive (%v)", c.Controls.ZoomStep)
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		check(false, "logging.level must be debug, info, warn or error (%q)", c.Logging.Level)
	}
	return errors.Join(errs...)
}

// Tables creates the body registry and orbit table
// that c describes.
func (c *Config) Tables() (*body.Registry, *orbit.Table, error) {
	if len(c.Bodies) == 0 {
		reg := body.Default()
		tab, err := orbit.Default(reg)
		return reg, tab, err
	}
	bodies := make([]*body.Body, len(c.Bodies))
	for i, b := range c.Bodies {
		tex := b.Texture
		if tex == "" {
			tex = b.Name + ".jpg"
		}
		bodies[i] = &body.Body{Name: b.Name, Size: b.Size, Texture: tex, Ring: b.Ring}
	}
	reg, err := body.NewRegistry(bodies...)
	if err != nil {
		return nil, nil, err
	}
	entries := make([]orbit.Entry, len(bodies))
	for i, b := range bodies {
		entries[i] = orbit.Entry{Body: b, Radius: c.Bodies[i].Radius, Speed: c.Bodies[i].Speed}
	}
	tab, err := orbit.NewTable(entries...)
	if err != nil {
		return nil, nil, err
	}
	return reg, tab, nil
}
