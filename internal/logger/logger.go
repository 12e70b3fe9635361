// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package logger builds the application's slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/gviegas/orrery/config"
)

// New creates a logger as described by cfg.
// If cfg.File is set, output is appended to that file,
// which the returned closer closes; otherwise output
// goes to w.
func New(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, io.Closer, error) {
	var c io.Closer = nopCloser{}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w, c = f, f
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h), c, nil
}

// ParseLevel converts a level name to a slog.Level.
// Unknown names map to slog.LevelInfo.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
