// Package raymarch integrates a density field along camera rays.
//
// The Compositor is the reference implementation of the per-pixel
// procedure; the GLSL program in internal/engine/shader mirrors it step for
// step and receives its inputs through BindUniforms.
package raymarch

import "github.com/go-gl/mathgl/mgl32"

// Params are the user-tunable march and lighting settings.
type Params struct {
	StepSize  float32 // world units per march step
	Density   float32 // multiplier applied to every sample
	Threshold float32 // samples at or below are skipped
	MaxSteps  int

	EnableLighting  bool
	AbsorptionCoeff float32
	ScatteringCoeff float32
	// LightDir is the direction light travels, from the light into the volume.
	LightDir mgl32.Vec3

	EnableJittering bool

	MSAASamples int
	MSAARadius  float32 // sub-ray offset radius in pixels

	EnableMultipleScattering bool
	MultiScatterSteps        int
	MultiScatterStrength     float32

	// Translucency in [0,1] drives the Derived lighting terms.
	Translucency float32
}

// DefaultParams returns the stock settings.
func DefaultParams() Params {
	return Params{
		StepSize:                 0.01,
		Density:                  1.0,
		Threshold:                0.1,
		MaxSteps:                 256,
		EnableLighting:           true,
		AbsorptionCoeff:          1.0,
		ScatteringCoeff:          0.5,
		LightDir:                 mgl32.Vec3{0.3, -0.8, 0.5},
		EnableJittering:          true,
		MSAASamples:              2,
		MSAARadius:               0.3,
		EnableMultipleScattering: false,
		MultiScatterSteps:        4,
		MultiScatterStrength:     0.35,
		Translucency:             0.8,
	}
}

// Derived holds the lighting terms computed from Translucency.
type Derived struct {
	AlphaScale        float32
	ShadowMin         float32
	ShadowAttenuation float32
}

// Derived maps translucency t (clamped to [0,1]) to
// alphaScale=lerp(0.9,0.6,t), shadowMin=lerp(0.88,0.95,t) and
// shadowAttenuation=lerp(1.0,0.75,t).
func (p Params) Derived() Derived {
	t := clamp01(p.Translucency)
	return Derived{
		AlphaScale:        lerp(0.9, 0.6, t),
		ShadowMin:         lerp(0.88, 0.95, t),
		ShadowAttenuation: lerp(1.0, 0.75, t),
	}
}

// Sanitized returns a copy safe to march with: positive step, at least one
// step and one sample, non-negative coefficients and a unit light direction.
func (p Params) Sanitized() Params {
	def := DefaultParams()
	if !(p.StepSize > 0) {
		p.StepSize = def.StepSize
	}
	if p.MaxSteps < 1 {
		p.MaxSteps = 1
	}
	if p.MSAASamples < 1 {
		p.MSAASamples = 1
	}
	if p.MultiScatterSteps < 0 {
		p.MultiScatterSteps = 0
	}
	p.Density = max(p.Density, 0)
	p.AbsorptionCoeff = max(p.AbsorptionCoeff, 0)
	p.ScatteringCoeff = max(p.ScatteringCoeff, 0)
	p.MSAARadius = max(p.MSAARadius, 0)
	p.MultiScatterStrength = clamp01(p.MultiScatterStrength)
	p.Translucency = clamp01(p.Translucency)

	if p.LightDir.Len() < 1e-6 {
		p.LightDir = def.LightDir
	}
	p.LightDir = p.LightDir.Normalize()
	return p
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func clamp01(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampVec(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{clamp01(v[0]), clamp01(v[1]), clamp01(v[2])}
}
