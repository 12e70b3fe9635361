// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/gviegas/orrery/camera"
	"github.com/gviegas/orrery/internal/bitvec"
	"github.com/gviegas/orrery/scene"
)

// upperHalf is drawn in every cell that holds two
// pixels: the foreground color paints the upper pixel
// and the background color paints the lower one.
const upperHalf = "▀"

// Splash describes the title card shown while the
// application starts.
type Splash struct {
	Message string
	// Duration is how long the card is shown.
	Duration time.Duration
	// Fade is the final part of Duration during which
	// the card fades out.
	Fade time.Duration
}

// Alpha returns the opacity of the card after elapsed
// time.
func (s Splash) Alpha(elapsed time.Duration) float64 {
	switch {
	case elapsed >= s.Duration:
		return 0
	case s.Fade <= 0 || elapsed <= s.Duration-s.Fade:
		return 1
	default:
		return float64(s.Duration-elapsed) / float64(s.Fade)
	}
}

var (
	textColor = colorful.Color{R: 1, G: 1, B: 1}
	hudColor  = colorful.Color{R: 0.8, G: 0.8, B: 0.8}
	hudBack   = colorful.Color{R: 0.05, G: 0.05, B: 0.1}
)

// Term is a Renderer that draws to a terminal.
// Each character cell holds two vertically stacked
// pixels, so the frame is twice as tall as the
// terminal.
type Term struct {
	Splash Splash
	// HUD enables the status line.
	HUD bool
	// Clock returns the time used to time the splash.
	// It defaults to time.Now.
	Clock func() time.Time

	out    *termenv.Output
	cols   int
	rows   int
	fb     frame
	text   [][]rune
	buf    bytes.Buffer
	row    bytes.Buffer
	// prev holds the bytes last written for each row.
	// Rows in dirty are written even if unchanged.
	prev   [][]byte
	dirty  bitvec.V[uint64]
	start  time.Time
	frames int
	closed bool
}

// NewTerm creates a renderer that writes to w, which
// should be a terminal of cols × rows cells.
// It switches the terminal to the alternate screen and
// hides the cursor until Close is called.
func NewTerm(w io.Writer, cols, rows int, opts ...termenv.OutputOption) *Term {
	t := &Term{
		HUD: true,
		out: termenv.NewOutput(w, opts...),
	}
	t.out.AltScreen()
	t.out.HideCursor()
	t.Resize(cols, rows)
	return t
}

// Resize implements Renderer. The size is in cells.
func (t *Term) Resize(cols, rows int) {
	t.cols = max(cols, 1)
	t.rows = max(rows, 1)
	t.fb.resize(t.cols, 2*t.rows)
	t.text = make([][]rune, t.rows)
	t.prev = make([][]byte, t.rows)
	t.dirty.Resize(t.rows)
	t.Redraw()
}

// Redraw causes the next frame to be written in full,
// including rows that did not change.
func (t *Term) Redraw() {
	t.out.ClearScreen()
	t.dirty.SetAll()
}

// Viewport implements Renderer.
func (t *Term) Viewport() (int, int) { return t.fb.width, t.fb.height }

// Aspect implements Renderer.
func (t *Term) Aspect() float32 { return float32(t.fb.width) / float32(t.fb.height) }

// Frames returns the number of frames rendered.
func (t *Term) Frames() int { return t.frames }

// Render implements Renderer.
func (t *Term) Render(s *scene.Scene, cam *camera.Camera, hud HUD) error {
	if t.closed {
		return ErrClosed
	}
	if s == nil || cam == nil {
		return newErr("nil argument in call to Render")
	}
	now := time.Now()
	if t.Clock != nil {
		now = t.Clock()
	}
	if t.frames == 0 {
		t.start = now
	}
	t.frames++

	for i := range t.text {
		t.text[i] = t.text[i][:0]
	}
	alpha := t.Splash.Alpha(now.Sub(t.start))
	if alpha < 1 {
		t.fb.draw(s, cam)
	}
	if alpha > 0 {
		for i := range t.fb.pix {
			t.fb.pix[i] = t.fb.pix[i].BlendRgb(colorful.Color{}, alpha)
		}
		t.print(t.rows/2, (t.cols-utf8.RuneCountInString(t.Splash.Message))/2, t.Splash.Message)
	} else if t.HUD {
		t.print(t.rows-1, 0, hud.String())
	}
	return t.flush(alpha)
}

// print places s on the text overlay of row, starting at
// column col. Text that does not fit is cut.
func (t *Term) print(row, col int, s string) {
	if row < 0 || row >= t.rows {
		return
	}
	col = max(col, 0)
	line := t.text[row]
	for len(line) < col {
		line = append(line, 0)
	}
	for _, r := range s {
		if len(line) >= t.cols {
			break
		}
		line = append(line, r)
	}
	t.text[row] = line
}

// flush writes the rows of the frame that changed since
// the last flush to the terminal.
// alpha is the opacity of the splash text.
func (t *Term) flush(alpha float64) error {
	t.buf.Reset()
	var fg, bg string
	set := func(c colorful.Color, back bool) {
		seq := t.out.Color(c.Clamped().Hex()).Sequence(back)
		if seq == "" {
			return
		}
		if back {
			if seq == bg {
				return
			}
			bg = seq
		} else {
			if seq == fg {
				return
			}
			fg = seq
		}
		t.row.WriteString(termenv.CSI + seq + "m")
	}
	w := t.fb.width
	for row := 0; row < t.rows; row++ {
		t.row.Reset()
		fg, bg = "", ""
		text := t.text[row]
		for col := 0; col < t.cols; col++ {
			up := t.fb.pix[2*row*w+col]
			lo := t.fb.pix[(2*row+1)*w+col]
			if col < len(text) && text[col] != 0 {
				fore, back := hudColor, hudBack
				if alpha > 0 {
					back = up.BlendRgb(lo, 0.5)
					fore = textColor.BlendRgb(back, 1-alpha)
				}
				set(fore, false)
				set(back, true)
				t.row.WriteRune(text[col])
				continue
			}
			set(up, false)
			set(lo, true)
			t.row.WriteString(upperHalf)
		}
		t.row.WriteString(termenv.CSI + termenv.ResetSeq + "m")
		if !t.dirty.IsSet(row) && bytes.Equal(t.row.Bytes(), t.prev[row]) {
			continue
		}
		t.dirty.Unset(row)
		t.prev[row] = append(t.prev[row][:0], t.row.Bytes()...)
		fmt.Fprintf(&t.buf, termenv.CSI+termenv.CursorPositionSeq, row+1, 1)
		t.buf.Write(t.row.Bytes())
	}
	if t.buf.Len() == 0 {
		return nil
	}
	_, err := t.out.Write(t.buf.Bytes())
	return err
}

// Close implements Renderer.
// It restores the terminal's main screen and cursor.
func (t *Term) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.out.Reset()
	t.out.ShowCursor()
	t.out.ExitAltScreen()
	return nil
}
