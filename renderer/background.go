// Package renderer acquires a rendering surface, builds the accelerated
// background pipeline on it and drives the per-frame animation. When the
// accelerated path cannot be built the surface is handed to the 2D gradient
// renderer in package fallback for the rest of its lifetime.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/richinsley/gobackdrop/fallback"
	"github.com/richinsley/gobackdrop/graphics"
	"github.com/richinsley/gobackdrop/shader"
)

// Mode is the rendering path selected for a surface at construction.
type Mode int

const (
	ModeAccelerated Mode = iota
	ModeFallback
	// ModeInert means neither path could draw: the 2D canvas was unavailable too.
	ModeInert
)

func (m Mode) String() string {
	switch m {
	case ModeAccelerated:
		return "accelerated"
	case ModeFallback:
		return "fallback"
	case ModeInert:
		return "inert"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Background is the animated background bound to one surface. Exactly one of
// its paths is live and the choice is never revisited.
type Background struct {
	mode  Mode
	cause error

	driver   *driver
	fallback *fallback.Renderer
}

// Mode reports which path was selected.
func (b *Background) Mode() Mode { return b.mode }

// Cause returns the error that diverted the background away from the
// accelerated path, or nil.
func (b *Background) Cause() error { return b.cause }

// State returns a copy of the animation state. It is the zero value unless
// the background is accelerated.
func (b *Background) State() RenderState {
	if b.driver == nil {
		return RenderState{}
	}
	return b.driver.state
}

// Dimensions returns the viewport size last read from the surface.
func (b *Background) Dimensions() Dimensions {
	switch {
	case b.driver != nil:
		return b.driver.dims
	case b.fallback != nil:
		w, h := b.fallback.Size()
		return Dimensions{Width: w, Height: h}
	default:
		return Dimensions{}
	}
}

// Pipeline returns the accelerated pipeline, or nil.
func (b *Background) Pipeline() *Pipeline {
	if b.driver == nil {
		return nil
	}
	return b.driver.pipeline
}

// Fallback returns the gradient renderer, or nil.
func (b *Background) Fallback() *fallback.Renderer { return b.fallback }

// Start looks up the surface id on host and starts the background on it.
//
// An unknown id returns ErrSurfaceUnavailable without logging or scheduling
// anything. Every other failure is recovered: the background falls back to
// the gradient renderer and the returned error is nil.
func Start(host graphics.Host, id string, opts ...Option) (*Background, error) {
	surface, ok := host.Surface(id)
	if !ok {
		return nil, ErrSurfaceUnavailable
	}
	cfg := newConfig(opts)
	log := cfg.logger.With("surface", id)

	d, err := startAccelerated(surface, cfg)
	if err == nil {
		log.Info("renderer: accelerated pipeline ready",
			"shader", shader.Version, "width", d.dims.Width, "height", d.dims.Height)
		return &Background{mode: ModeAccelerated, driver: d}, nil
	}

	logFailure(log, err)
	return startFallback(surface, log, err), nil
}

func startAccelerated(surface graphics.Surface, cfg *config) (*driver, error) {
	dev, err := surface.Accelerated()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextUnavailable, err)
	}
	if dev == nil {
		return nil, ErrContextUnavailable
	}
	src, err := prepareSources(dev, cfg)
	if err != nil {
		return nil, err
	}
	p, err := BuildPipeline(dev, src)
	if err != nil {
		return nil, err
	}
	return newDriver(surface, dev, p), nil
}

func startFallback(surface graphics.Surface, log *slog.Logger, cause error) *Background {
	canvas, err := surface.Canvas()
	if err != nil || canvas == nil {
		log.Warn("renderer: no 2D canvas, background disabled", "err", err)
		return &Background{mode: ModeInert, cause: cause}
	}
	log.Info("renderer: using gradient fallback")
	return &Background{
		mode:     ModeFallback,
		cause:    cause,
		fallback: fallback.Start(surface, canvas, log),
	}
}

func logFailure(log *slog.Logger, err error) {
	var ce *StageCompileError
	var le *LinkError
	switch {
	case errors.As(err, &ce):
		log.Error("renderer: shader compile failed", "stage", ce.Stage.String(), "log", ce.Log)
	case errors.As(err, &le):
		log.Error("renderer: program link failed", "log", le.Log)
	case errors.Is(err, ErrContextUnavailable):
		log.Warn("renderer: accelerated context unavailable", "err", err)
	default:
		log.Error("renderer: pipeline construction failed", "err", err)
	}
}
