// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package texture

import (
	"fmt"
	"io/fs"
	"log/slog"
)

// Future is the pending result of a Load.
type Future struct {
	ref  string
	done chan struct{}
	tex  *Texture
	err  error
}

// Done returns a channel that is closed when the load
// completes.
func (f *Future) Done() <-chan struct{} { return f.done }

// Ready reports whether the load has completed.
func (f *Future) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result waits for the load to complete and returns
// its outcome.
func (f *Future) Result() (*Texture, error) {
	<-f.done
	return f.tex, f.err
}

// Ref returns the texture reference being loaded.
func (f *Future) Ref() string { return f.ref }

// Loader loads textures from a file system.
type Loader struct {
	FS fs.FS
	// MaxWidth and MaxHeight bound the size of
	// loaded textures.
	MaxWidth  int
	MaxHeight int
}

// Load starts loading the texture ref in the
// background.
func (l *Loader) Load(ref string) *Future {
	f := &Future{ref: ref, done: make(chan struct{})}
	go func() {
		defer close(f.done)
		if l.FS == nil {
			f.err = fmt.Errorf(prefix+"%s: no file system", ref)
			return
		}
		file, err := l.FS.Open(ref)
		if err != nil {
			f.err = fmt.Errorf(prefix+"%w", err)
			return
		}
		defer file.Close()
		f.tex, f.err = Decode(file, ref, l.MaxWidth, l.MaxHeight)
		if f.err != nil {
			f.err = fmt.Errorf(prefix+"%s: %w", ref, f.err)
		}
	}()
	return f
}

// Slot holds a texture that is replaced once a pending
// load succeeds. Until then, and forever if the load
// fails, the slot holds its placeholder.
// A Slot must only be used by a single goroutine.
type Slot struct {
	tex     *Texture
	pending *Future
	loaded  bool
	log     *slog.Logger
}

// NewSlot creates a slot that holds placeholder until
// f completes.
func NewSlot(f *Future, placeholder *Texture, log *slog.Logger) *Slot {
	if log == nil {
		log = slog.Default()
	}
	return &Slot{tex: placeholder, pending: f, log: log}
}

// Texture returns the current texture.
func (s *Slot) Texture() *Texture { return s.tex }

// Loaded reports whether the placeholder was replaced.
func (s *Slot) Loaded() bool { return s.loaded }

// Pending reports whether the load has not been
// observed to complete yet.
func (s *Slot) Pending() bool { return s.pending != nil }

// Poll checks whether the pending load completed.
// It returns true if the texture was replaced.
// It never blocks.
func (s *Slot) Poll() bool {
	if s.pending == nil || !s.pending.Ready() {
		return false
	}
	f := s.pending
	s.pending = nil
	tex, err := f.Result()
	if err != nil {
		s.log.Warn("texture load failed, keeping placeholder", "ref", f.Ref(), "error", err)
		return false
	}
	s.tex = tex
	s.loaded = true
	s.log.Debug("texture loaded", "ref", f.Ref(), "width", tex.Width(), "height", tex.Height())
	return true
}
