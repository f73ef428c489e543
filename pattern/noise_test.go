package pattern

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const goldenTolerance = 1e-4

func near(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func TestSnoiseGolden(t *testing.T) {
	tests := []struct {
		in   mgl32.Vec2
		want float32
	}{
		{mgl32.Vec2{0, 0}, 0},
		{mgl32.Vec2{0, 0.5}, 0.64754003},
		{mgl32.Vec2{1.3, -2.7}, -0.30233145},
		{mgl32.Vec2{10.25, 3.75}, 0.51820898},
		{mgl32.Vec2{-4.1, 0.33}, 0.35603285},
	}
	for _, tt := range tests {
		if got := Snoise(tt.in); !near(got, tt.want, goldenTolerance) {
			t.Errorf("Snoise(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSnoiseRange(t *testing.T) {
	for y := -20; y <= 20; y++ {
		for x := -20; x <= 20; x++ {
			v := mgl32.Vec2{float32(x) * 0.173, float32(y) * 0.291}
			n := Snoise(v)
			if n < -1.05 || n > 1.05 {
				t.Fatalf("Snoise(%v) = %v, outside [-1, 1]", v, n)
			}
		}
	}
}

func TestSnoiseContinuous(t *testing.T) {
	const step = 1e-3
	for i := 0; i < 500; i++ {
		v := mgl32.Vec2{float32(i) * 0.037, float32(i) * -0.021}
		a := Snoise(v)
		b := Snoise(v.Add(mgl32.Vec2{step, 0}))
		if !near(a, b, 0.05) {
			t.Fatalf("Snoise jumps between %v (%v) and +%v (%v)", v, a, step, b)
		}
	}
}

func TestMod289(t *testing.T) {
	tests := []struct{ in, want float32 }{
		{0, 0},
		{288, 288},
		{290, 1},
		{-1, 288},
		{578 + 5, 5},
	}
	for _, tt := range tests {
		if got := mod289(tt.in); got != tt.want {
			t.Errorf("mod289(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
