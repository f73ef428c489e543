package renderer

const (
	// TimeStep is added to the elapsed time on every tick regardless of the
	// real interval between frames.
	TimeStep = 0.016

	// PointerSmoothing is the fraction of the remaining distance to the
	// target the pointer covers per tick.
	PointerSmoothing = 0.05
)

// Dimensions is the viewport size in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// RenderState holds the animation variables advanced by the driver.
// Pointer coordinates are normalized to [0,1] with the origin at the
// bottom-left of the surface.
type RenderState struct {
	Time    float64
	Pointer [2]float64
	Target  [2]float64

	ticks uint64
}

// NewRenderState returns the state of a freshly constructed background: no
// elapsed time, pointer and target at the center.
func NewRenderState() RenderState {
	return RenderState{
		Pointer: [2]float64{0.5, 0.5},
		Target:  [2]float64{0.5, 0.5},
	}
}

// Advance moves the state forward by one tick. Time is derived from the tick
// count so it does not drift with repeated addition.
func (s *RenderState) Advance() {
	s.ticks++
	s.Time = float64(s.ticks) * TimeStep
	s.Pointer[0] += (s.Target[0] - s.Pointer[0]) * PointerSmoothing
	s.Pointer[1] += (s.Target[1] - s.Pointer[1]) * PointerSmoothing
}

// Ticks returns the number of ticks applied.
func (s RenderState) Ticks() uint64 {
	return s.ticks
}

// SetTarget points the state at the absolute viewport position (x, y), given
// in pixels from the top-left of a viewport of size d. Positions outside the
// viewport are clamped to its edge.
func (s *RenderState) SetTarget(x, y float64, d Dimensions) {
	if d.Width <= 0 || d.Height <= 0 {
		return
	}
	s.Target[0] = clamp01(x / float64(d.Width))
	s.Target[1] = clamp01(1 - y/float64(d.Height))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
