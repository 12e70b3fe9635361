// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Orrery draws an animated model of the solar system in
// the terminal.
//
// Usage:
//
//	orrery [flags]
//
// Keys: = and - change the orbit speed, ] and [ change
// the rotation speed, 1-8 focus a planet, 0 frees the
// camera, Tab cycles the focus, the arrow keys and z/x
// move the free camera, q or Esc quits.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/gviegas/orrery"
	"github.com/gviegas/orrery/config"
	"github.com/gviegas/orrery/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "orrery:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fset := flag.NewFlagSet("orrery", flag.ContinueOnError)
	var (
		cfgPath  = fset.String("config", "", "configuration `file` (.toml or .yaml)")
		control  = fset.String("control", "", "control `file` to watch for speed and focus changes")
		textures = fset.String("textures", "", "texture `directory`")
		renderer = fset.String("renderer", "", "renderer: term or none")
		fps      = fset.Float64("fps", 0, "frames per second")
		level    = fset.String("log-level", "", "log level: debug, info, warn or error")
	)
	if err := fset.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "control":
			cfg.Controls.File = *control
		case "textures":
			cfg.Render.TextureDir = *textures
		case "renderer":
			cfg.Render.Renderer = *renderer
		case "fps":
			cfg.Render.FPS = *fps
		case "log-level":
			cfg.Logging.Level = *level
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The terminal renderer owns the screen: logs meant
	// for the same terminal are held until it is restored.
	var held bytes.Buffer
	var w io.Writer = os.Stderr
	if cfg.Render.Renderer == "term" && cfg.Logging.File == "" && isatty.IsTerminal(os.Stderr.Fd()) {
		w = &held
	}
	defer func() {
		if held.Len() > 0 {
			os.Stderr.Write(held.Bytes())
		}
	}()
	log, closer, err := logger.New(cfg.Logging, w)
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(log)
	log.Debug("configuration loaded", "file", *cfgPath, "renderer", cfg.Render.Renderer,
		"fps", strconv.FormatFloat(cfg.Render.FPS, 'g', -1, 64))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := orrery.New(cfg, orrery.Options{Logger: log})
	if err != nil {
		return err
	}
	err = app.Run(ctx)
	if cerr := app.Close(); err == nil {
		err = cerr
	}
	return err
}
