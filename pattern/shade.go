package pattern

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Palette of the background, linear RGB.
var (
	NavyDark = mgl32.Vec3{0.04, 0.06, 0.1}
	Navy     = mgl32.Vec3{0.06, 0.08, 0.16}
	Gold     = mgl32.Vec3{0.96, 0.77, 0.19}
	Purple   = mgl32.Vec3{0.66, 0.33, 0.97}
)

// Weights of the color field. The fragment stage uses the same literals.
const (
	TimeScale      = 0.2
	MouseInfluence = 0.5

	Noise1Freq   = 2.0
	Noise2Freq   = 3.0
	Noise3Freq   = 1.5
	Noise2Weight = 0.5
	Noise3Weight = 0.3

	GoldDim      = 0.15
	PatternBlend = 0.3
	PurpleWeight = 0.08
	GlowWeight   = 0.1
	GlowEdge     = 1.5

	VignetteOuter = 1.0
	VignetteInner = 0.3
)

// Uniforms carries the per-frame inputs of the evaluator.
type Uniforms struct {
	Time       float32
	Resolution mgl32.Vec2
	Mouse      mgl32.Vec2
}

// Sample holds the intermediate noise values of one evaluation alongside the
// final color. Alpha is always 1.
type Sample struct {
	Noise1, Noise2, Noise3 float32
	Pattern                float32
	Color                  mgl32.Vec4
}

func mix(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

func clamp01(x float32) float32 {
	return mgl32.Clamp(x, 0, 1)
}

func smoothstep(edge0, edge1, x float32) float32 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Shade evaluates the background at fragCoord, a pixel coordinate with the
// origin at the bottom-left. It is a pure function of its inputs.
func Shade(fragCoord mgl32.Vec2, u Uniforms) Sample {
	st := mgl32.Vec2{fragCoord[0] / u.Resolution[0], fragCoord[1] / u.Resolution[1]}
	pos := mgl32.Vec2{st[0]*2 - 1, st[1]*2 - 1}
	pos[0] *= u.Resolution[0] / u.Resolution[1]

	t := u.Time * TimeScale
	mi := mgl32.Vec2{(u.Mouse[0] - 0.5) * MouseInfluence, (u.Mouse[1] - 0.5) * MouseInfluence}

	n1 := Snoise(pos.Mul(Noise1Freq).Add(mgl32.Vec2{t, t * 0.5}).Add(mi))
	n2 := Snoise(pos.Mul(Noise2Freq).Sub(mgl32.Vec2{t * 0.7, t * 0.3}).Sub(mi.Mul(0.5)))
	sin := float32(math.Sin(float64(t)))
	cos := float32(math.Cos(float64(t)))
	n3 := Snoise(pos.Mul(Noise3Freq).Add(mgl32.Vec2{sin * 0.5, cos * 0.5}))

	pat := (n1+n2*Noise2Weight+n3*Noise3Weight)*0.5 + 0.5

	c := mix(NavyDark, Navy, st[1])
	c = mix(c, Gold.Mul(GoldDim), pat*PatternBlend)
	w := n2*0.5 + 0.5
	c = c.Add(Purple.Mul(PurpleWeight).Mul(w * w))

	dist := pos.Len()
	radial := 1 - smoothstep(0, GlowEdge, dist)
	c = c.Add(Gold.Mul(radial).Mul(GlowWeight))

	vignette := smoothstep(VignetteOuter, VignetteInner, dist)
	c = c.Mul(0.5 + 0.5*vignette)

	return Sample{
		Noise1:  n1,
		Noise2:  n2,
		Noise3:  n3,
		Pattern: pat,
		Color:   c.Vec4(1),
	}
}

// ColorAt is Shade reduced to the final color.
func ColorAt(fragCoord mgl32.Vec2, u Uniforms) mgl32.Vec4 {
	return Shade(fragCoord, u).Color
}
