package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gobackdrop/options"
	"github.com/richinsley/gobackdrop/pattern"
	"github.com/richinsley/gobackdrop/renderer"
	"github.com/richinsley/gobackdrop/shader"
	"golang.org/x/image/draw"
)

// snapshotUniforms returns the uniforms of the frame after the given number
// of ticks. A scripted pointer is treated as fully settled.
func snapshotUniforms(width, height, ticks int, pointer *[2]float64) pattern.Uniforms {
	state := renderer.NewRenderState()
	if pointer != nil {
		state.SetTarget(pointer[0], pointer[1], renderer.Dimensions{Width: width, Height: height})
		state.Pointer = state.Target
	}
	for i := 0; i < ticks; i++ {
		state.Advance()
	}
	return pattern.Uniforms{
		Time:       float32(state.Time),
		Resolution: mgl32.Vec2{float32(width), float32(height)},
		Mouse:      mgl32.Vec2{float32(state.Pointer[0]), float32(state.Pointer[1])},
	}
}

// renderSnapshot evaluates the pattern at scale and upscales the result to
// width x height.
func renderSnapshot(ctx context.Context, width, height int, scale float64, u pattern.Uniforms) (*image.RGBA, error) {
	sw := max(1, int(float64(width)*scale))
	sh := max(1, int(float64(height)*scale))
	small := image.NewRGBA(image.Rect(0, 0, sw, sh))
	su := u
	su.Resolution = mgl32.Vec2{float32(sw), float32(sh)}
	if err := pattern.Render(ctx, small, su); err != nil {
		return nil, err
	}
	if sw == width && sh == height {
		return small, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), small, small.Bounds(), draw.Src, nil)
	return dst, nil
}

func runSnapshot(ctx context.Context, opts *options.BackgroundOptions) error {
	var pointer *[2]float64
	x, y, ok, err := opts.PointerPos()
	if err != nil {
		return err
	}
	if ok {
		pointer = &[2]float64{x, y}
	}

	u := snapshotUniforms(*opts.Width, *opts.Height, opts.Frames(), pointer)
	img, err := renderSnapshot(ctx, *opts.Width, *opts.Height, *opts.Scale, u)
	if err != nil {
		return fmt.Errorf("failed to render snapshot: %w", err)
	}

	out := opts.OutputPath()
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("Wrote snapshot (%s) at t=%.3f to %s", shader.Version, u.Time, out)
	return nil
}
