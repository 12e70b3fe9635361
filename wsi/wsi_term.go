// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package wsi

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// initTerm initializes the terminal platform.
// It fails if either stdin or stdout is not a terminal.
func initTerm() error {
	for _, fd := range [2]int{int(os.Stdin.Fd()), int(os.Stdout.Fd())} {
		if _, err := unix.IoctlGetTermios(fd, ioctlGetTermios); err != nil {
			return err
		}
	}
	newWindow = newWindowTerm
	dispatch = dispatchTerm
	platform = Terminal
	return nil
}

// termWindow implements Window using the controlling
// terminal. Its size is measured in character cells.
type termWindow struct {
	in, out *os.File
	old     unix.Termios
	width   int
	height  int
	title   string
	keys    chan []byte
	winch   chan os.Signal
	done    chan struct{}
	closed  bool
}

// pollTimeout is how long, in milliseconds, the input
// reader waits before checking whether the window was
// closed.
const pollTimeout = 100

// newWindowTerm puts the terminal in raw mode and starts
// reading its input.
// The width and height arguments are ignored.
func newWindowTerm(_, _ int, title string) (Window, error) {
	win := &termWindow{
		in:    os.Stdin,
		out:   os.Stdout,
		keys:  make(chan []byte, 64),
		winch: make(chan os.Signal, 1),
		done:  make(chan struct{}),
	}
	fd := int(win.in.Fd())
	old, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, err
	}
	win.old = *old
	raw := *old
	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &raw); err != nil {
		return nil, err
	}
	if err := win.querySize(); err != nil {
		unix.IoctlSetTermios(fd, ioctlSetTermios, &win.old)
		return nil, err
	}
	if err := win.SetTitle(title); err != nil {
		unix.IoctlSetTermios(fd, ioctlSetTermios, &win.old)
		return nil, err
	}
	signal.Notify(win.winch, syscall.SIGWINCH)
	go win.read()
	return win, nil
}

// querySize updates the window's size from the terminal.
func (w *termWindow) querySize() error {
	ws, err := unix.IoctlGetWinsize(int(w.out.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return err
	}
	if ws.Col == 0 || ws.Row == 0 {
		return errors.New("terminal reports zero size")
	}
	w.width = int(ws.Col)
	w.height = int(ws.Row)
	return nil
}

// read forwards the terminal input to w.keys until w is
// closed.
func (w *termWindow) read() {
	fd := int(w.in.Fd())
	buf := make([]byte, 256)
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		select {
		case <-w.done:
			return
		default:
		}
		n, err := unix.Poll(fds, pollTimeout)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}
		if n == 0 || fds[0].Revents&unix.POLLIN == 0 {
			continue
		}
		n, err = unix.Read(fd, buf)
		if err != nil || n == 0 {
			return
		}
		b := make([]byte, n)
		copy(b, buf[:n])
		select {
		case w.keys <- b:
		case <-w.done:
			return
		}
	}
}

// SetTitle sets the terminal's title using an OSC
// sequence.
func (w *termWindow) SetTitle(title string) error {
	if _, err := fmt.Fprintf(w.out, "\x1b]2;%s\x07", title); err != nil {
		return err
	}
	w.title = title
	return nil
}

// Close restores the terminal to the state it had when
// w was created.
func (w *termWindow) Close() {
	if w.closed {
		return
	}
	w.closed = true
	close(w.done)
	signal.Stop(w.winch)
	unix.IoctlSetTermios(int(w.in.Fd()), ioctlSetTermios, &w.old)
	closeWindow(w)
}

func (w *termWindow) Width() int    { return w.width }
func (w *termWindow) Height() int   { return w.height }
func (w *termWindow) Title() string { return w.title }

// dispatchTerm delivers queued input and resize events
// of every terminal window.
func dispatchTerm() {
	for _, win := range Windows() {
		w, ok := win.(*termWindow)
		if !ok {
			continue
		}
		w.dispatch()
	}
}

func (w *termWindow) dispatch() {
	for {
		select {
		case <-w.winch:
			if err := w.querySize(); err == nil && windowHandler != nil {
				windowHandler.WindowResize(w, w.width, w.height)
			}
		case b := <-w.keys:
			w.deliver(b)
		default:
			return
		}
		if w.closed {
			return
		}
	}
}

// deliver decodes b and calls the handlers.
func (w *termWindow) deliver(b []byte) {
	evs, closeReq := decodeKeys(b)
	if keyboardHandler != nil {
		for _, e := range evs {
			keyboardHandler.KeyboardKey(e.key, true, e.mod)
		}
	}
	if closeReq && windowHandler != nil {
		windowHandler.WindowClose(w)
	}
}
