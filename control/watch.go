// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package control

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const prefix = "control: "

// File is the content of a control file.
// Absent fields are left unchanged.
//
//	orbit_speed = 0.02
//	rotation_speed = 0.005
//	focus = "earth"
type File struct {
	OrbitSpeed    *float64 `toml:"orbit_speed" yaml:"orbit_speed"`
	RotationSpeed *float64 `toml:"rotation_speed" yaml:"rotation_speed"`
	Focus         *string  `toml:"focus" yaml:"focus"`
}

// ParseFile decodes a control file in the format
// identified by ext (".toml", ".yaml" or ".yml").
func ParseFile(b []byte, ext string) (f File, err error) {
	switch strings.ToLower(ext) {
	case ".toml":
		err = toml.Unmarshal(b, &f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &f)
	default:
		err = fmt.Errorf("unsupported control file format: %q", ext)
	}
	return
}

// Events returns the events that f describes.
func (f File) Events() (evs []Event) {
	if f.OrbitSpeed != nil {
		evs = append(evs, OrbitSpeed{Value: *f.OrbitSpeed})
	}
	if f.RotationSpeed != nil {
		evs = append(evs, RotationSpeed{Value: *f.RotationSpeed})
	}
	if f.Focus != nil {
		evs = append(evs, Focus{*f.Focus})
	}
	return
}

// Watcher posts the content of a control file whenever
// the file is written.
type Watcher struct {
	path  string
	queue *Queue
	log   *slog.Logger
	w     *fsnotify.Watcher
}

// NewWatcher creates a watcher for the file at path.
// The file need not exist yet. The directory that will
// contain it is watched, so that editors that replace
// files on save are supported.
func NewWatcher(path string, q *Queue, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf(prefix+"%w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf(prefix+"%w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf(prefix+"watching %s: %w", path, err)
	}
	return &Watcher{
		path:  abs,
		queue: q,
		log:   log.With("component", "control", "file", path),
		w:     w,
	}, nil
}

// Load reads the file and posts its events.
// A missing file is not an error.
func (w *Watcher) Load() error {
	b, err := os.ReadFile(w.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf(prefix+"%w", err)
	}
	f, err := ParseFile(b, filepath.Ext(w.path))
	if err != nil {
		return fmt.Errorf(prefix+"%s: %w", w.path, err)
	}
	for _, ev := range f.Events() {
		if !w.queue.Post(ev) {
			w.log.Warn("event queue full, control dropped", "event", ev.String())
		}
	}
	return nil
}

// Run loads the file and then reloads it on every change
// until ctx is done. Malformed content is logged and
// otherwise ignored. Run closes the watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.w.Close()
	if err := w.Load(); err != nil {
		w.log.Warn("control file not applied", "error", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.log.Debug("control file changed", "op", ev.Op.String())
			if err := w.Load(); err != nil {
				w.log.Warn("control file not applied", "error", err)
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf(prefix+"%w", err)
		}
	}
}

// Close stops watching. It need not be called after Run
// returns.
func (w *Watcher) Close() error { return w.w.Close() }
