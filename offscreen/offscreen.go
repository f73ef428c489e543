// Package offscreen provides a single surface host without a window. Frames
// advance only when Step is called, which makes it suitable for recording
// and for scripted runs.
package offscreen

import (
	"errors"
	"fmt"
	"image"

	"github.com/richinsley/gobackdrop/graphics"
	"golang.org/x/image/draw"
)

// Accelerator is a GL device that can read back what it drew.
type Accelerator interface {
	graphics.Device
	// ReadPixels returns the framebuffer with rows bottom-up.
	ReadPixels(width, height int) *image.RGBA
}

// AcceleratorFunc creates the accelerated device for a surface of the given
// size. A nil AcceleratorFunc means the surface has no accelerated context.
type AcceleratorFunc func(width, height int) (Accelerator, error)

// ErrNoAccelerator is returned by Accelerated when the host was built without
// an AcceleratorFunc.
var ErrNoAccelerator = errors.New("offscreen: no accelerated device configured")

// Host exposes one surface under a fixed id.
type Host struct {
	id      string
	surface *Surface
}

// New returns a host with a single width x height surface registered as id.
func New(id string, width, height int, accel AcceleratorFunc) *Host {
	return &Host{
		id: id,
		surface: &Surface{
			width:  width,
			height: height,
			accel:  accel,
		},
	}
}

func (h *Host) Surface(id string) (graphics.Surface, bool) {
	if id != h.id {
		return nil, false
	}
	return h.surface, true
}

// Offscreen returns the surface with its driving methods.
func (h *Host) Offscreen() *Surface { return h.surface }

// Surface is an offscreen graphics.Surface.
type Surface struct {
	width, height int

	accel  AcceleratorFunc
	device Accelerator
	canvas *Canvas

	pending  []func()
	onResize []func()
	onMove   []func(x, y float64)
	frames   uint64
}

func (s *Surface) Size() (int, int) { return s.width, s.height }

func (s *Surface) Accelerated() (graphics.Device, error) {
	if s.device != nil {
		return s.device, nil
	}
	if s.accel == nil {
		return nil, ErrNoAccelerator
	}
	dev, err := s.accel(s.width, s.height)
	if err != nil {
		return nil, err
	}
	s.device = dev
	return dev, nil
}

func (s *Surface) Canvas() (graphics.Canvas, error) {
	if s.canvas == nil {
		s.canvas = &Canvas{}
	}
	return s.canvas, nil
}

func (s *Surface) OnResize(f func()) { s.onResize = append(s.onResize, f) }

func (s *Surface) OnPointerMove(f func(x, y float64)) { s.onMove = append(s.onMove, f) }

func (s *Surface) RequestFrame(f func()) { s.pending = append(s.pending, f) }

// Step runs the callbacks scheduled for one frame and reports whether any
// were pending.
func (s *Surface) Step() bool {
	if len(s.pending) == 0 {
		return false
	}
	run := s.pending
	s.pending = nil
	for _, f := range run {
		f()
	}
	s.frames++
	return true
}

// Frames returns the number of steps that ran callbacks.
func (s *Surface) Frames() uint64 { return s.frames }

// Resize changes the reported size and notifies resize handlers.
func (s *Surface) Resize(width, height int) {
	s.width, s.height = width, height
	for _, f := range s.onResize {
		f()
	}
}

// MovePointer delivers a pointer position in pixels from the top-left.
func (s *Surface) MovePointer(x, y float64) {
	for _, f := range s.onMove {
		f(x, y)
	}
}

// Capture returns the last frame with rows top-down. Frames from the
// accelerated device are read back and flipped; frames presented on the
// canvas are copied.
func (s *Surface) Capture() (*image.RGBA, error) {
	switch {
	case s.device != nil:
		img := s.device.ReadPixels(s.width, s.height)
		flipRows(img)
		return img, nil
	case s.canvas != nil && s.canvas.last != nil:
		return s.canvas.Snapshot(), nil
	default:
		return nil, fmt.Errorf("offscreen: nothing has been drawn")
	}
}

func flipRows(img *image.RGBA) {
	h := img.Rect.Dy()
	row := img.Rect.Dx() * 4
	tmp := make([]byte, row)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : y*img.Stride+row]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-1-y)*img.Stride+row]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}

// Canvas keeps the last presented frame in memory.
type Canvas struct {
	last     *image.RGBA
	presents uint64
}

func (c *Canvas) Present(img image.Image) error {
	b := img.Bounds()
	if c.last == nil || c.last.Rect.Size() != b.Size() {
		c.last = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Draw(c.last, c.last.Rect, img, b.Min, draw.Src)
	c.presents++
	return nil
}

// Presents returns the number of frames presented.
func (c *Canvas) Presents() uint64 { return c.presents }

// Snapshot returns a copy of the last presented frame, or nil.
func (c *Canvas) Snapshot() *image.RGBA {
	if c.last == nil {
		return nil
	}
	out := image.NewRGBA(c.last.Rect)
	copy(out.Pix, c.last.Pix)
	return out
}
