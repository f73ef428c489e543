package pattern

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

// Render evaluates every pixel of dst on the CPU. Rows are shaded in parallel;
// row 0 of dst is the top of the surface, so fragment coordinates are flipped
// to match a GPU framebuffer.
func Render(ctx context.Context, dst *image.RGBA, u Uniforms) error {
	b := dst.Bounds()
	if b.Empty() {
		return fmt.Errorf("cannot render into empty image %v", b)
	}
	if u.Resolution[0] == 0 || u.Resolution[1] == 0 {
		u.Resolution = mgl32.Vec2{float32(b.Dx()), float32(b.Dy())}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	height := b.Dy()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fy := float32(height-1-(y-b.Min.Y)) + 0.5
			for x := b.Min.X; x < b.Max.X; x++ {
				fx := float32(x-b.Min.X) + 0.5
				dst.SetRGBA(x, y, ToRGBA(ColorAt(mgl32.Vec2{fx, fy}, u)))
			}
			return nil
		})
	}
	return g.Wait()
}

// ToRGBA quantizes a shaded color the way a UNORM8 framebuffer does.
func ToRGBA(c mgl32.Vec4) color.RGBA {
	q := func(v float32) uint8 {
		return uint8(clamp01(v)*255 + 0.5)
	}
	return color.RGBA{R: q(c[0]), G: q(c[1]), B: q(c[2]), A: q(c[3])}
}
