// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package wsi

import (
	"reflect"
	"testing"
)

func TestDeliver(t *testing.T) {
	e := &E{}
	SetWindowHandler(e)
	SetKeyboardHandler(e)
	defer SetWindowHandler(nil)
	defer SetKeyboardHandler(nil)
	w := &termWindow{}
	w.deliver([]byte("1\x1b[C\x03"))
	if want := []keyEvent{{Key1, 0}, {KeyRight, 0}}; !reflect.DeepEqual(e.keys, want) {
		t.Fatalf("KeyboardKey\nhave %v\nwant %v", e.keys, want)
	}
	if e.closed != 1 {
		t.Fatalf("WindowClose\nhave %d call(s)\nwant 1", e.closed)
	}
}
