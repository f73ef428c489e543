// Package fallback draws the simplified background used when no accelerated
// pipeline can be built: a slowly accumulating radial gradient in the palette
// of the shader, painted on the CPU and presented through a 2D canvas.
package fallback

import (
	"log/slog"
	"math"

	"github.com/gogpu/gg"
	"github.com/richinsley/gobackdrop/graphics"
)

// Gradient stops approximating the accelerated palette.
var (
	StopCenter = gg.RGBA2(244.0/255, 196.0/255, 48.0/255, 0.1)
	StopMiddle = gg.RGBA2(106.0/255, 84.0/255, 194.0/255, 0.05)
	StopEdge   = gg.RGBA2(10.0/255, 14.0/255, 26.0/255, 0)
)

// Renderer is the perpetual 2D gradient loop bound to one surface.
type Renderer struct {
	surface graphics.Surface
	canvas  graphics.Canvas
	logger  *slog.Logger

	dc     *gg.Context
	width  int
	height int
	frames uint64
}

// Gradient returns the brush painted over a width x height surface: centered
// on the midpoint, reaching max(width, height).
func Gradient(width, height int) *gg.RadialGradientBrush {
	cx, cy := float64(width)/2, float64(height)/2
	radius := math.Max(float64(width), float64(height))
	return gg.NewRadialGradientBrush(cx, cy, 0, radius).
		AddColorStop(0, StopCenter).
		AddColorStop(0.5, StopMiddle).
		AddColorStop(1, StopEdge)
}

// Start reads the viewport size, paints the first frame and keeps painting
// once per scheduled frame for the lifetime of the surface.
func Start(surface graphics.Surface, canvas graphics.Canvas, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Renderer{
		surface: surface,
		canvas:  canvas,
		logger:  logger,
	}
	r.resize()
	surface.OnResize(r.resize)
	r.frame()
	return r
}

// Size returns the dimensions the renderer currently paints at.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Frames returns the number of frames presented so far.
func (r *Renderer) Frames() uint64 {
	return r.frames
}

func (r *Renderer) resize() {
	w, h := r.surface.Size()
	if w <= 0 || h <= 0 {
		return
	}
	if r.dc == nil {
		r.dc = gg.NewContext(w, h)
	} else if err := r.dc.Resize(w, h); err != nil {
		r.logger.Warn("fallback: resize failed", "width", w, "height", h, "err", err)
		return
	}
	r.width, r.height = w, h
}

// Paint composites one gradient pass over the previous contents; nothing is
// cleared between frames.
func (r *Renderer) paint() error {
	r.dc.SetFillBrush(Gradient(r.width, r.height))
	r.dc.DrawRectangle(0, 0, float64(r.width), float64(r.height))
	return r.dc.Fill()
}

func (r *Renderer) frame() {
	if r.dc != nil {
		if err := r.paint(); err != nil {
			r.logger.Warn("fallback: fill failed", "err", err)
		} else if err := r.canvas.Present(r.dc.Image()); err != nil {
			r.logger.Warn("fallback: present failed", "err", err)
		} else {
			r.frames++
		}
	}
	r.surface.RequestFrame(r.frame)
}
