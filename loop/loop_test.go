// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package loop

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRunStop(t *testing.T) {
	var l Loop
	n := 0
	err := l.Run(context.Background(), func(time.Time) error {
		n++
		if n == 5 {
			return ErrStop
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestRunError(t *testing.T) {
	var l Loop
	errFrame := errors.New("frame failed")
	n := 0
	err := l.Run(context.Background(), func(time.Time) error {
		n++
		if n == 3 {
			return errFrame
		}
		return nil
	})
	require.ErrorIs(t, err, errFrame)
	assert.Contains(t, err.Error(), "frame 2")
	assert.Equal(t, 3, n)
}

func TestRunCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := New(1000)
	n := 0
	err := l.Run(ctx, func(time.Time) error {
		n++
		if n == 10 {
			cancel()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	// Already canceled.
	n = 0
	require.NoError(t, l.Run(ctx, func(time.Time) error { n++; return nil }))
	assert.Zero(t, n)
}

func TestRunCancelWhileWaiting(t *testing.T) {
	// One frame per hour: the second frame is never due.
	l := &Loop{Limiter: rate.NewLimiter(rate.Every(time.Hour), 1)}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	var n atomic.Int32
	require.NoError(t, l.Run(ctx, func(time.Time) error { n.Add(1); return nil }))
	assert.EqualValues(t, 1, n.Load())
}

func TestClock(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	i := 0
	l := Loop{Clock: func() time.Time {
		i++
		return t0.Add(time.Duration(i) * time.Second)
	}}
	var seen []time.Time
	l.Run(context.Background(), func(now time.Time) error {
		seen = append(seen, now)
		if len(seen) == 2 {
			return ErrStop
		}
		return nil
	})
	assert.Equal(t, []time.Time{t0.Add(time.Second), t0.Add(2 * time.Second)}, seen)
}

func TestPacing(t *testing.T) {
	l := New(100)
	start := time.Now()
	n := 0
	l.Run(context.Background(), func(time.Time) error {
		n++
		if n == 11 {
			return ErrStop
		}
		return nil
	})
	// Ten intervals of 10ms after the initial burst.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}
