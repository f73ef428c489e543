package main

import (
	"context"
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gobackdrop/pattern"
	"github.com/richinsley/gobackdrop/renderer"
)

func TestSnapshotUniforms(t *testing.T) {
	u := snapshotUniforms(800, 600, 100, nil)
	if want := float32(100 * renderer.TimeStep); u.Time != want {
		t.Errorf("Time = %v, want %v", u.Time, want)
	}
	if u.Mouse != (mgl32.Vec2{0.5, 0.5}) {
		t.Errorf("Mouse = %v, want centered", u.Mouse)
	}
	if u.Resolution != (mgl32.Vec2{800, 600}) {
		t.Errorf("Resolution = %v", u.Resolution)
	}

	u = snapshotUniforms(800, 600, 0, &[2]float64{200, 150})
	if u.Mouse != (mgl32.Vec2{0.25, 0.75}) {
		t.Errorf("Mouse = %v, want [0.25 0.75]", u.Mouse)
	}
	if u.Time != 0 {
		t.Errorf("Time = %v, want 0", u.Time)
	}
}

func TestRenderSnapshot(t *testing.T) {
	u := snapshotUniforms(64, 48, 10, nil)
	img, err := renderSnapshot(context.Background(), 64, 48, 0.5, u)
	if err != nil {
		t.Fatalf("renderSnapshot: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 64, 48) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	for _, p := range []image.Point{{0, 0}, {32, 24}, {63, 47}} {
		if a := img.RGBAAt(p.X, p.Y).A; a < 250 {
			t.Errorf("alpha at %v = %d, want opaque", p, a)
		}
	}
}

func TestRenderSnapshotFullScale(t *testing.T) {
	u := snapshotUniforms(16, 16, 0, nil)
	img, err := renderSnapshot(context.Background(), 16, 16, 1, u)
	if err != nil {
		t.Fatalf("renderSnapshot: %v", err)
	}
	want := image.NewRGBA(image.Rect(0, 0, 16, 16))
	if err := pattern.Render(context.Background(), want, u); err != nil {
		t.Fatal(err)
	}
	for i := range want.Pix {
		if img.Pix[i] != want.Pix[i] {
			t.Fatalf("pixel byte %d = %d, want %d", i, img.Pix[i], want.Pix[i])
		}
	}
}
