package pattern

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Simplex grid constants, as written in the fragment stage.
const (
	SkewC0 = 0.211324865405187  // (3 - sqrt(3)) / 6
	SkewC1 = 0.366025403784439  // (sqrt(3) - 1) / 2
	SkewC2 = -0.577350269189626 // -1 + 2*SkewC0
	SkewC3 = 0.024390243902439  // 1 / 41

	GradNormA = 1.79284291400159
	GradNormB = 0.85373472095314

	NoiseScale = 130.0
)

func floor(x float32) float32 { return float32(math.Floor(float64(x))) }

func fract(x float32) float32 { return x - floor(x) }

func mod289(x float32) float32 {
	return x - floor(x*(1.0/289.0))*289.0
}

func permute(x float32) float32 {
	return mod289((x*34.0 + 1.0) * x)
}

// Snoise evaluates 2D simplex gradient noise at v. The result lies roughly in
// [-1, 1] and is continuous everywhere. It mirrors the fragment stage
// operation for operation in float32.
func Snoise(v mgl32.Vec2) float32 {
	d := v.Dot(mgl32.Vec2{SkewC1, SkewC1})
	i := mgl32.Vec2{floor(v[0] + d), floor(v[1] + d)}
	d = i.Dot(mgl32.Vec2{SkewC0, SkewC0})
	x0 := mgl32.Vec2{v[0] - i[0] + d, v[1] - i[1] + d}

	// Pick the middle corner of the simplex the point falls into.
	i1 := mgl32.Vec2{0, 1}
	if x0[0] > x0[1] {
		i1 = mgl32.Vec2{1, 0}
	}
	x1 := mgl32.Vec2{x0[0] + SkewC0 - i1[0], x0[1] + SkewC0 - i1[1]}
	x2 := mgl32.Vec2{x0[0] + SkewC2, x0[1] + SkewC2}

	i = mgl32.Vec2{mod289(i[0]), mod289(i[1])}
	p := mgl32.Vec3{
		permute(permute(i[1]+0) + i[0] + 0),
		permute(permute(i[1]+i1[1]) + i[0] + i1[0]),
		permute(permute(i[1]+1) + i[0] + 1),
	}

	corners := [3]mgl32.Vec2{x0, x1, x2}
	var sum float32
	for k, c := range corners {
		m := 0.5 - c.Dot(c)
		if m < 0 {
			m = 0
		}
		m *= m
		m *= m

		x := 2.0*fract(p[k]*SkewC3) - 1.0
		h := float32(math.Abs(float64(x))) - 0.5
		a0 := x - floor(x+0.5)
		m *= GradNormA - GradNormB*(a0*a0+h*h)

		sum += m * (a0*c[0] + h*c[1])
	}
	return NoiseScale * sum
}
