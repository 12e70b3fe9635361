// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package wsi provides window system integration (WSI).
// Because a system need not have a window system, WSI
// is conditionally supported. The only window system
// currently implemented is the terminal, where a window
// covers the whole terminal screen.
package wsi

import (
	"errors"
)

// Window is the interface that defines a drawable window.
// The purpose of a window is to provide a surface into
// which a renderer can draw.
type Window interface {
	// SetTitle sets the window's title.
	SetTitle(title string) error

	// Close closes the window.
	Close()

	// Width returns the window's width.
	Width() int

	// Height returns the window's height.
	Height() int

	// Title returns the window's title.
	Title() string
}

// NewWindow creates a new window.
// Platforms that cannot honor width and height use
// their own dimensions instead.
func NewWindow(width, height int, title string) (Window, error) {
	if windowCount >= MaxWindows {
		return nil, errors.New("too many windows")
	}
	win, err := newWindow(width, height, title)
	if err != nil {
		return nil, err
	}
	for i := range createdWindows {
		if createdWindows[i] == nil {
			createdWindows[i] = win
			windowCount++
			break
		}
	}
	return win, nil
}

var newWindow func(int, int, string) (Window, error)

// The maximum number of windows that can exist at any
// given time.
const MaxWindows = 1

// Windows returns all created windows.
// The returned value becomes out of date after calls to
// NewWindow and Window.Close.
func Windows() []Window {
	if windowCount == 0 {
		return nil
	}
	wins := make([]Window, 0, windowCount)
	for i := range createdWindows {
		if createdWindows[i] != nil {
			wins = append(wins, createdWindows[i])
		}
	}
	return wins
}

// closeWindow removes win from createdWindows and
// decrements windowCount.
// It must be called by implementations on win.Close.
// Note that win must be comparable.
func closeWindow(win Window) {
	for i := range createdWindows {
		if createdWindows[i] == win {
			createdWindows[i] = nil
			windowCount--
			return
		}
	}
}

var (
	windowCount    int
	createdWindows [MaxWindows]Window
)

// Modifier is the type of modifier flags.
type Modifier int

// Modifier flags.
const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// WindowHandler is the interface that defines the methods
// for handling window events.
type WindowHandler interface {
	// WindowClose is called when a window is asked
	// to close.
	WindowClose(win Window)

	// WindowResize is called when a window is resized.
	WindowResize(win Window, newWidth, newHeight int)
}

// SetWindowHandler sets the global WindowHandler.
func SetWindowHandler(wh WindowHandler) {
	windowHandler = wh
}

var windowHandler WindowHandler

// KeyboardHandler is the interface that defines the methods
// for handling keyboard events.
type KeyboardHandler interface {
	// KeyboardKey is called when a key is pressed/released.
	// Platforms that do not report releases only call it
	// with pressed set to true.
	KeyboardKey(key Key, pressed bool, modMask Modifier)
}

// SetKeyboardHandler sets the global KeyboardHandler.
func SetKeyboardHandler(kh KeyboardHandler) {
	keyboardHandler = kh
}

var keyboardHandler KeyboardHandler

// Dispatch dispatches queued events.
// Handlers are called on the calling goroutine.
// It never blocks.
func Dispatch() {
	dispatch()
}

var dispatch func()

// Platform identifies an underlying platform used to
// implement wsi.
type Platform int

// Platforms.
const (
	// None means that wsi is not available.
	// In this case, calls to NewWindow will
	// always fail, and calls to Dispatch
	// will do nothing.
	None Platform = iota
	Terminal
)

// String implements fmt.Stringer.
func (p Platform) String() string {
	switch p {
	case None:
		return "none"
	case Terminal:
		return "terminal"
	}
	return "unknown"
}

// PlatformInUse identifies the underlying platform which
// wsi is using.
func PlatformInUse() Platform {
	return platform
}

var platform Platform

// EnvPlatform names the environment variable that, when
// set to "none", disables every window system.
const EnvPlatform = "ORRERY_WSI"
