package raymarch

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/nimbus/internal/transfer"
	"github.com/Faultbox/nimbus/internal/view"
	"github.com/Faultbox/nimbus/internal/volume"
)

// The field occupies the axis-aligned cube [-0.5,0.5]^3 in world space.
var (
	boxMin = mgl32.Vec3{-0.5, -0.5, -0.5}
	boxMax = mgl32.Vec3{0.5, 0.5, 0.5}
)

// ClearColor is shown where rays accumulate nothing.
var ClearColor = mgl32.Vec3{0.1, 0.1, 0.1}

const (
	// referenceStep is the step size the transfer function opacities are
	// authored for; other step sizes get an opacity correction.
	referenceStep = 0.01

	shadowSteps = 16
	shadowStep  = 0.05
	// opticalDepth converts density*distance into extinction along light rays.
	opticalDepth = 4.0

	scatterGain = 0.25

	multiScatterStride     = 2.0
	multiScatterExtinction = 0.25

	goldenAngle = 2.39996323
)

// Frame is everything needed to render one image.
type Frame struct {
	Field    *volume.DensityField
	Transfer *transfer.TransferFunction
	Params   Params
	View     view.State
	// Time seeds the per-frame jitter.
	Time          float32
	Width, Height int
}

// Compositor shades pixels of one frame. It is read-only after
// construction and safe for concurrent use.
type Compositor struct {
	field   *volume.DensityField
	tf      *transfer.TransferFunction
	p       Params
	d       Derived
	toLight mgl32.Vec3
	view    view.State
	time    float32
	width   int
	height  int
	msaa    []mgl32.Vec2
}

// NewCompositor prepares a frame for shading.
func NewCompositor(f Frame) *Compositor {
	p := f.Params.Sanitized()
	c := &Compositor{
		field:   f.Field,
		tf:      f.Transfer,
		p:       p,
		d:       p.Derived(),
		toLight: p.LightDir.Mul(-1),
		view:    f.View,
		time:    f.Time,
		width:   f.Width,
		height:  f.Height,
	}
	if p.MSAASamples > 1 {
		c.msaa = vogelDisk(p.MSAASamples)
	}
	return c
}

// Params returns the sanitized parameters in use.
func (c *Compositor) Params() Params { return c.p }

// vogelDisk spreads n points over the unit disk.
func vogelDisk(n int) []mgl32.Vec2 {
	out := make([]mgl32.Vec2, n)
	for i := range out {
		r := float32(math.Sqrt((float64(i) + 0.5) / float64(n)))
		th := float64(i) * goldenAngle
		out[i] = mgl32.Vec2{r * float32(math.Cos(th)), r * float32(math.Sin(th))}
	}
	return out
}

// counters tallies work for Stats.
type counters struct {
	rays, samples, earlyOuts, misses uint64
}

// Shade returns the accumulated colour and opacity of pixel (px,py).
func (c *Compositor) Shade(px, py int) Accumulator {
	var n counters
	return c.shade(px, py, &n)
}

func (c *Compositor) shade(px, py int, n *counters) Accumulator {
	seed := pixelSeed(px, py)

	if len(c.msaa) == 0 {
		x, y := view.PixelNDC(float32(px), float32(py), c.width, c.height)
		o, d := c.view.Ray(x, y)
		return c.march(o, d, jitterSeed(seed, 0, c.time), n)
	}

	// Rotate the pattern per pixel so neighbouring pixels do not alias.
	rot := float64(unit(seed)) * 2 * math.Pi
	sin, cos := float32(math.Sin(rot)), float32(math.Cos(rot))

	var sum Accumulator
	for i, o := range c.msaa {
		ox := (o[0]*cos - o[1]*sin) * c.p.MSAARadius
		oy := (o[0]*sin + o[1]*cos) * c.p.MSAARadius
		x, y := view.PixelNDC(float32(px)+ox, float32(py)+oy, c.width, c.height)
		origin, dir := c.view.Ray(x, y)
		r := c.march(origin, dir, jitterSeed(seed, i, c.time), n)
		sum.Color = sum.Color.Add(r.Color)
		sum.Alpha += r.Alpha
	}
	inv := 1 / float32(len(c.msaa))
	return Accumulator{Color: clampVec(sum.Color.Mul(inv)), Alpha: clamp01(sum.Alpha * inv)}
}

// March integrates one ray. seed drives the first-step jitter.
func (c *Compositor) March(origin, dir mgl32.Vec3, seed uint32) Accumulator {
	var n counters
	return c.march(origin, dir, seed, &n)
}

func (c *Compositor) march(origin, dir mgl32.Vec3, seed uint32, n *counters) Accumulator {
	n.rays++

	tNear, tFar, hit := intersectBox(origin, dir)
	if !hit {
		n.misses++
		return Accumulator{}
	}

	step := c.p.StepSize
	t := tNear
	if c.p.EnableJittering {
		t += unit(seed) * step
	}

	var acc Accumulator
	for i := 0; i < c.p.MaxSteps && t < tFar; i++ {
		pos := origin.Add(dir.Mul(t))
		t += step

		d := clamp01(c.sample(pos) * c.p.Density)
		if d <= c.p.Threshold {
			continue
		}

		color, base := c.tf.Lookup(d)
		a := c.opacity(base)
		if a <= 0 {
			continue
		}
		n.samples++

		if c.p.EnableLighting {
			color = c.light(pos, color, d)
		}

		acc = Composite(acc, color, a)
		if acc.Opaque() {
			n.earlyOuts++
			break
		}
	}
	return acc
}

// opacity scales a table opacity by alphaScale and corrects it for the
// march step.
func (c *Compositor) opacity(base float32) float32 {
	a := clamp01(base * c.d.AlphaScale)
	if c.p.StepSize != referenceStep && a < 1 {
		a = 1 - float32(math.Pow(float64(1-a), float64(c.p.StepSize/referenceStep)))
	}
	return clamp01(a)
}

func (c *Compositor) sample(pos mgl32.Vec3) float32 {
	return c.field.SampleUVW(pos[0]+0.5, pos[1]+0.5, pos[2]+0.5)
}

// light applies the shadow ray and, when enabled, the multiple-scattering
// estimate to a sample colour.
func (c *Compositor) light(pos, color mgl32.Vec3, density float32) mgl32.Vec3 {
	tr := c.transmittance(pos, shadowSteps, shadowStep, c.p.AbsorptionCoeff*opticalDepth)

	atten := 1 - (1-tr)*c.d.ShadowAttenuation
	atten = max(atten, c.d.ShadowMin)

	// Thin, well-lit regions scatter extra light towards the eye.
	scatter := c.p.ScatteringCoeff * tr * (1 - density) * scatterGain
	lit := clampVec(color.Mul(atten + scatter))

	if c.p.EnableMultipleScattering && c.p.MultiScatterSteps > 0 {
		est := c.transmittance(pos, c.p.MultiScatterSteps, shadowStep*multiScatterStride,
			c.p.AbsorptionCoeff*opticalDepth*multiScatterExtinction)
		lit = clampVec(lit.Add(color.Mul(est * c.p.MultiScatterStrength * (1 - atten))))
	}
	return lit
}

// transmittance marches from pos towards the light and returns
// exp(-extinction * accumulated density * distance).
func (c *Compositor) transmittance(pos mgl32.Vec3, steps int, step, extinction float32) float32 {
	var depth float32
	p := pos
	for i := 0; i < steps; i++ {
		p = p.Add(c.toLight.Mul(step))
		if !inside(p) {
			break
		}
		depth += clamp01(c.sample(p)*c.p.Density) * step
	}
	return float32(math.Exp(float64(-depth * extinction)))
}

func inside(p mgl32.Vec3) bool {
	return p[0] >= boxMin[0] && p[0] <= boxMax[0] &&
		p[1] >= boxMin[1] && p[1] <= boxMax[1] &&
		p[2] >= boxMin[2] && p[2] <= boxMax[2]
}

// intersectBox is the slab test against the unit volume. tNear is clamped
// to zero when the origin is inside.
func intersectBox(origin, dir mgl32.Vec3) (float32, float32, bool) {
	tNear := float32(math.Inf(-1))
	tFar := float32(math.Inf(1))
	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if origin[i] < boxMin[i] || origin[i] > boxMax[i] {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t0 := (boxMin[i] - origin[i]) * inv
		t1 := (boxMax[i] - origin[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tNear = max(tNear, t0)
		tFar = min(tFar, t1)
	}
	tNear = max(tNear, 0)
	return tNear, tFar, tFar > tNear
}
