// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package loop schedules frames at the display rate.
package loop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Loop calls a frame function repeatedly.
type Loop struct {
	// Limiter paces the frames. A nil Limiter runs
	// frames back to back.
	Limiter *rate.Limiter
	// Clock returns the time passed to each frame.
	// It defaults to time.Now.
	Clock func() time.Time
}

// New creates a loop that runs at most fps frames per
// second.
func New(fps float64) *Loop {
	return &Loop{Limiter: rate.NewLimiter(rate.Limit(fps), 1)}
}

// Run calls frame until ctx is done or frame fails.
// Calls to frame never overlap. Run returns nil when
// ctx is done; otherwise it returns the frame's error.
func (l *Loop) Run(ctx context.Context, frame func(now time.Time) error) error {
	clock := l.Clock
	if clock == nil {
		clock = time.Now
	}
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if l.Limiter != nil {
			if err := l.Limiter.Wait(ctx); err != nil {
				if _, ok := ctx.Deadline(); ok && ctx.Err() == nil {
					// The next frame is due after the deadline.
					<-ctx.Done()
				}
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("loop: %w", err)
			}
		}
		if err := frame(clock()); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return fmt.Errorf("loop: frame %d: %w", n, err)
		}
	}
}

// ErrStop can be returned by a frame function to stop
// the loop without error.
var ErrStop = errors.New("loop: stop")
