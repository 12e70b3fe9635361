// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wsi

import (
	"reflect"
	"testing"
)

type E struct {
	closed  int
	resized int
	keys    []keyEvent
}

func (e *E) WindowClose(Window)            { e.closed++ }
func (e *E) WindowResize(Window, int, int) { e.resized++ }
func (e *E) KeyboardKey(key Key, pressed bool, mod Modifier) {
	if pressed {
		e.keys = append(e.keys, keyEvent{key, mod})
	}
}

func TestWSI(t *testing.T) {
	e := &E{}
	SetWindowHandler(e)
	SetKeyboardHandler(e)
	defer SetWindowHandler(nil)
	defer SetKeyboardHandler(nil)
	switch PlatformInUse() {
	case None:
		win, err := NewWindow(480, 360, "Will fail")
		if win != nil || err != errMissing {
			t.Fatalf("NewWindow: win, err\nhave %v, %v\nwant nil, %v", win, err, errMissing)
		}
		if n := len(Windows()); n != 0 {
			t.Fatalf("len(Windows())\nhave %v\nwant 0", n)
		}
		// Dummy Dispatch does nothing.
		Dispatch()
	default:
		win, err := NewWindow(0, 0, "My window")
		if err != nil {
			t.Logf("NewWindow (error): %v", err)
			return
		}
		defer win.Close()
		if n := len(Windows()); n != 1 {
			t.Fatalf("len(Windows())\nhave %v\nwant 1", n)
		}
		if win.Width() <= 0 || win.Height() <= 0 {
			t.Fatalf("win.Width/Height\nhave %d, %d\nwant > 0", win.Width(), win.Height())
		}
		if s := win.Title(); s != "My window" {
			t.Fatalf("win.Title\nhave %s\nwant My window", s)
		}
		if _, err := NewWindow(0, 0, "Too many"); err == nil {
			t.Fatal("NewWindow: unexpected nil error")
		}
		Dispatch()
		win.Close()
		if n := len(Windows()); n != 0 {
			t.Fatalf("len(Windows())\nhave %v\nwant 0", n)
		}
	}
}

func TestPlatform(t *testing.T) {
	for _, x := range [...]struct {
		p Platform
		s string
	}{
		{None, "none"},
		{Terminal, "terminal"},
		{Platform(-1), "unknown"},
	} {
		if s := x.p.String(); s != x.s {
			t.Fatalf("Platform.String\nhave %s\nwant %s", s, x.s)
		}
	}
}

func TestDecodeKeys(t *testing.T) {
	for _, x := range [...]struct {
		in    string
		evs   []keyEvent
		close bool
	}{
		{"", nil, false},
		{"a", []keyEvent{{KeyA, 0}}, false},
		{"Q", []keyEvent{{KeyQ, ModShift}}, false},
		{"=-", []keyEvent{{KeyEqual, 0}, {KeyMinus, 0}}, false},
		{"+_", []keyEvent{{KeyEqual, ModShift}, {KeyMinus, ModShift}}, false},
		{"[]", []keyEvent{{KeyLBracket, 0}, {KeyRBracket, 0}}, false},
		{"0123456789", []keyEvent{
			{Key0, 0}, {Key1, 0}, {Key2, 0}, {Key3, 0}, {Key4, 0},
			{Key5, 0}, {Key6, 0}, {Key7, 0}, {Key8, 0}, {Key9, 0},
		}, false},
		{"\t\r ", []keyEvent{{KeyTab, 0}, {KeyReturn, 0}, {KeySpace, 0}}, false},
		{"\x1b[A\x1b[B\x1b[C\x1b[D", []keyEvent{{KeyUp, 0}, {KeyDown, 0}, {KeyRight, 0}, {KeyLeft, 0}}, false},
		{"\x1bOA", []keyEvent{{KeyUp, 0}}, false},
		{"\x1b[5~\x1b[6~", []keyEvent{{KeyPageUp, 0}, {KeyPageDown, 0}}, false},
		{"\x1b[H\x1b[4~", []keyEvent{{KeyHome, 0}, {KeyEnd, 0}}, false},
		{"\x1b", []keyEvent{{KeyEsc, 0}}, false},
		{"\x1bx", []keyEvent{{KeyX, ModAlt}}, false},
		{"\x1b\x1b", []keyEvent{{KeyEsc, 0}, {KeyEsc, 0}}, false},
		{"\x03", nil, true},
		{"z\x03x", []keyEvent{{KeyZ, 0}, {KeyX, 0}}, true},
		{"\x1a", []keyEvent{{KeyZ, ModCtrl}}, false},
		{"\x7f", []keyEvent{{KeyBackspace, 0}}, false},
		{"\x80é", nil, false},
	} {
		evs, closeReq := decodeKeys([]byte(x.in))
		if !reflect.DeepEqual(evs, x.evs) || closeReq != x.close {
			t.Fatalf("decodeKeys(%q)\nhave %v, %t\nwant %v, %t", x.in, evs, closeReq, x.evs, x.close)
		}
	}
}
