package synth

import "math"

// hash3 scrambles an integer lattice coordinate.
func hash3(x, y, z int32) uint32 {
	h := uint32(x)*73856093 ^ uint32(y)*19349663 ^ uint32(z)*83492791
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	return h
}

// rand01 maps a lattice coordinate to [0,1].
func rand01(x, y, z int32) float32 {
	return float32(hash3(x, y, z)&0xFFFF) / 65535
}

type vec3 struct{ x, y, z float32 }

func (v vec3) scale(s float32) vec3 { return vec3{v.x * s, v.y * s, v.z * s} }

func floor(v float32) float32 { return float32(math.Floor(float64(v))) }

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func smoothstep(e0, e1, x float32) float32 {
	t := clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

func pow(x, y float32) float32 { return float32(math.Pow(float64(x), float64(y))) }

// valueNoise interpolates lattice randoms with smoothstep-eased weights.
func valueNoise(p vec3) float32 {
	fx, fy, fz := floor(p.x), floor(p.y), floor(p.z)
	xi, yi, zi := int32(fx), int32(fy), int32(fz)

	tx := ease(p.x - fx)
	ty := ease(p.y - fy)
	tz := ease(p.z - fz)

	c000 := rand01(xi, yi, zi)
	c100 := rand01(xi+1, yi, zi)
	c010 := rand01(xi, yi+1, zi)
	c110 := rand01(xi+1, yi+1, zi)
	c001 := rand01(xi, yi, zi+1)
	c101 := rand01(xi+1, yi, zi+1)
	c011 := rand01(xi, yi+1, zi+1)
	c111 := rand01(xi+1, yi+1, zi+1)

	x00 := lerp(c000, c100, tx)
	x10 := lerp(c010, c110, tx)
	x01 := lerp(c001, c101, tx)
	x11 := lerp(c011, c111, tx)

	return lerp(lerp(x00, x10, ty), lerp(x01, x11, ty), tz)
}

func ease(t float32) float32 { return t * t * (3 - 2*t) }

const octaves = 4

// fbm sums octaves of value noise, amplitude 0.5 and frequency 1 at the
// first octave, doubling frequency and halving amplitude each step.
func fbm(p vec3) float32 {
	var sum float32
	amp, freq := float32(0.5), float32(1)
	for i := 0; i < octaves; i++ {
		sum += amp * valueNoise(p.scale(freq))
		freq *= 2
		amp *= 0.5
	}
	return sum
}

// Per-axis lattice offsets that decorrelate the three jitter components of
// a Worley feature point.
var worleyOffsets = [3][3]int32{
	{0, 0, 0},
	{17, 59, 113},
	{131, 7, 43},
}

var sqrt3 = float32(math.Sqrt(3))

// worley returns 1 - d/sqrt(3) (in cell units, clamped) where d is the
// distance to the nearest jittered feature point among the 27 cells around p.
func worley(p vec3, freq float32) float32 {
	q := p.scale(freq)
	cx, cy, cz := int32(floor(q.x)), int32(floor(q.y)), int32(floor(q.z))

	best := float32(math.MaxFloat32)
	for dz := int32(-1); dz <= 1; dz++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dx := int32(-1); dx <= 1; dx++ {
				x, y, z := cx+dx, cy+dy, cz+dz
				fx := float32(x) + rand01(x+worleyOffsets[0][0], y+worleyOffsets[0][1], z+worleyOffsets[0][2])
				fy := float32(y) + rand01(x+worleyOffsets[1][0], y+worleyOffsets[1][1], z+worleyOffsets[1][2])
				fz := float32(z) + rand01(x+worleyOffsets[2][0], y+worleyOffsets[2][1], z+worleyOffsets[2][2])

				ddx, ddy, ddz := fx-q.x, fy-q.y, fz-q.z
				d := ddx*ddx + ddy*ddy + ddz*ddz
				if d < best {
					best = d
				}
			}
		}
	}

	ratio := float32(math.Sqrt(float64(best))) / sqrt3
	if ratio > 1 {
		ratio = 1
	}
	return 1 - ratio
}
