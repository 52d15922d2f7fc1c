package raymarch

import "github.com/go-gl/mathgl/mgl32"

// EarlyOutAlpha stops a march once the remaining transmittance can change
// any channel by at most 1e-3.
const EarlyOutAlpha = 0.999

// Accumulator is the running front-to-back state of one ray. Color is
// premultiplied by coverage.
type Accumulator struct {
	Color mgl32.Vec3
	Alpha float32
}

// Composite blends one sample behind acc:
//
//	color += (1-alpha)*a*c
//	alpha += (1-alpha)*a
//
// Both results are clamped to [0,1].
func Composite(acc Accumulator, c mgl32.Vec3, a float32) Accumulator {
	w := (1 - acc.Alpha) * a
	return Accumulator{
		Color: clampVec(acc.Color.Add(c.Mul(w))),
		Alpha: clamp01(acc.Alpha + w),
	}
}

// Opaque reports whether further samples are negligible.
func (a Accumulator) Opaque() bool {
	return a.Alpha >= EarlyOutAlpha
}

// Over returns the displayed colour of a over an opaque background.
func (a Accumulator) Over(bg mgl32.Vec3) mgl32.Vec3 {
	return clampVec(a.Color.Add(bg.Mul(1 - a.Alpha)))
}
