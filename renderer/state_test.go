package renderer

import (
	"math"
	"testing"
)

func TestAdvanceTimeHasNoDrift(t *testing.T) {
	for _, n := range []int{0, 1, 2, 60, 1000, 100000} {
		s := NewRenderState()
		for i := 0; i < n; i++ {
			s.Advance()
		}
		if want := float64(n) * TimeStep; s.Time != want {
			t.Errorf("after %d ticks Time = %v, want %v", n, s.Time, want)
		}
		if s.Ticks() != uint64(n) {
			t.Errorf("Ticks() = %d, want %d", s.Ticks(), n)
		}
	}
}

func TestAdvanceSmoothingStep(t *testing.T) {
	tests := []struct {
		name    string
		current [2]float64
		target  [2]float64
	}{
		{"toward corner", [2]float64{0.5, 0.5}, [2]float64{1, 1}},
		{"toward origin", [2]float64{0.5, 0.5}, [2]float64{0, 0}},
		{"mixed", [2]float64{0.2, 0.9}, [2]float64{0.7, 0.1}},
		{"at rest", [2]float64{0.3, 0.3}, [2]float64{0.3, 0.3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := RenderState{Pointer: tt.current, Target: tt.target}
			s.Advance()
			for i := 0; i < 2; i++ {
				want := tt.current[i] + PointerSmoothing*(tt.target[i]-tt.current[i])
				if math.Abs(s.Pointer[i]-want) > 1e-15 {
					t.Errorf("Pointer[%d] = %v, want %v", i, s.Pointer[i], want)
				}
			}
		})
	}
}

func TestSmoothingConvergesMonotonically(t *testing.T) {
	s := RenderState{Pointer: [2]float64{0.1, 0.95}, Target: [2]float64{0.8, 0.2}}
	prev := s.Pointer
	for i := 0; i < 500; i++ {
		s.Advance()
		if s.Pointer[0] < prev[0] || s.Pointer[0] > s.Target[0] {
			t.Fatalf("tick %d: x %v left [%v, %v]", i, s.Pointer[0], prev[0], s.Target[0])
		}
		if s.Pointer[1] > prev[1] || s.Pointer[1] < s.Target[1] {
			t.Fatalf("tick %d: y %v left [%v, %v]", i, s.Pointer[1], s.Target[1], prev[1])
		}
		prev = s.Pointer
	}
	if math.Abs(s.Pointer[0]-0.8) > 1e-9 || math.Abs(s.Pointer[1]-0.2) > 1e-9 {
		t.Errorf("Pointer = %v after 500 ticks, want ~(0.8, 0.2)", s.Pointer)
	}
}

func TestSetTarget(t *testing.T) {
	d := Dimensions{Width: 800, Height: 600}
	tests := []struct {
		name string
		x, y float64
		want [2]float64
	}{
		{"top-left", 0, 0, [2]float64{0, 1}},
		{"bottom-right", 800, 600, [2]float64{1, 0}},
		{"center", 400, 300, [2]float64{0.5, 0.5}},
		{"quarter", 200, 450, [2]float64{0.25, 0.25}},
		{"outside clamps", -20, 900, [2]float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewRenderState()
			s.SetTarget(tt.x, tt.y, d)
			if s.Target != tt.want {
				t.Errorf("Target = %v, want %v", s.Target, tt.want)
			}
			if s.Pointer != [2]float64{0.5, 0.5} {
				t.Errorf("SetTarget moved Pointer to %v", s.Pointer)
			}
		})
	}
}

func TestSetTargetZeroSize(t *testing.T) {
	s := NewRenderState()
	s.SetTarget(10, 10, Dimensions{})
	if s.Target != [2]float64{0.5, 0.5} {
		t.Errorf("Target = %v, want unchanged", s.Target)
	}
}

func TestTicksOnReturnedValue(t *testing.T) {
	if got := NewRenderState().Ticks(); got != 0 {
		t.Errorf("fresh state Ticks() = %d, want 0", got)
	}
	if got := (&Background{}).State().Ticks(); got != 0 {
		t.Errorf("inert background Ticks() = %d, want 0", got)
	}
}
