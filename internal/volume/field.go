// Package volume holds the normalized density grid and its loaders.
package volume

import (
	"fmt"
	"math"
)

// degenerateRange is the smallest max-min span treated as a real range.
// Narrower inputs normalize to all zeros.
const degenerateRange = 1e-6

// Dims is a grid size in voxels.
type Dims struct {
	Width, Height, Depth int
}

// MaxVoxels caps a grid at 1024³ samples.
const MaxVoxels = 1 << 30

// Count returns the number of voxels. Only meaningful when d is Valid.
func (d Dims) Count() int {
	return d.Width * d.Height * d.Depth
}

// Valid reports whether every axis is positive and the voxel count stays
// within MaxVoxels. The checks divide so oversized axes cannot overflow.
func (d Dims) Valid() bool {
	if d.Width <= 0 || d.Height <= 0 || d.Depth <= 0 {
		return false
	}
	if d.Width > MaxVoxels/d.Height {
		return false
	}
	return d.Width*d.Height <= MaxVoxels/d.Depth
}

func (d Dims) String() string {
	return fmt.Sprintf("%dx%dx%d", d.Width, d.Height, d.Depth)
}

// RawSample is an unnormalized scalar grid as read from disk.
type RawSample struct {
	Dims
	Samples []float32
}

// DensityField is a dense grid of densities in [0,1], x fastest then y then z.
// A field is never mutated after construction; reloads build a new one.
type DensityField struct {
	Dims
	Samples []float32
}

// New wraps samples that are already densities. Values are clamped to
// [0,1]; the slice is retained.
func New(dims Dims, samples []float32) (*DensityField, error) {
	if err := checkCount(len(samples), dims); err != nil {
		return nil, err
	}
	for i, v := range samples {
		samples[i] = clamp01(v)
	}
	return &DensityField{Dims: dims, Samples: samples}, nil
}

// LoadNormalized builds a field from arbitrary-range samples by min/max
// normalization. A constant input maps to all zeros.
func LoadNormalized(raw []float32, dims Dims) (*DensityField, error) {
	if err := checkCount(len(raw), dims); err != nil {
		return nil, err
	}

	lo, hi := float32(math.Inf(1)), float32(math.Inf(-1))
	for _, v := range raw {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi-lo < degenerateRange {
		hi = lo + 1
	}

	span := hi - lo
	out := make([]float32, len(raw))
	for i, v := range raw {
		out[i] = clamp01((v - lo) / span)
	}
	return &DensityField{Dims: dims, Samples: out}, nil
}

// LoadDiscrete builds a field from 8-bit samples, mapping 0..255 to 0..1.
func LoadDiscrete(raw []byte, dims Dims) (*DensityField, error) {
	if err := checkCount(len(raw), dims); err != nil {
		return nil, err
	}
	out := make([]float32, len(raw))
	for i, b := range raw {
		out[i] = float32(b) / 255
	}
	return &DensityField{Dims: dims, Samples: out}, nil
}

// Normalize converts a RawSample into a field.
func (r *RawSample) Normalize() (*DensityField, error) {
	return LoadNormalized(r.Samples, r.Dims)
}

func checkCount(n int, dims Dims) error {
	if !dims.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidDimensions, dims)
	}
	if n != dims.Count() {
		return fmt.Errorf("%w: got %d samples, %s needs %d", ErrDimensionMismatch, n, dims, dims.Count())
	}
	return nil
}

// Index returns the flat index of voxel (x,y,z).
func (f *DensityField) Index(x, y, z int) int {
	return x + f.Width*(y+f.Height*z)
}

// At returns the stored density of voxel (x,y,z).
func (f *DensityField) At(x, y, z int) float32 {
	return f.Samples[f.Index(x, y, z)]
}

// Sample trilinearly interpolates at voxel-index coordinates. Lattice
// points return the stored value exactly; coordinates outside the grid are
// clamped to the nearest edge.
func (f *DensityField) Sample(x, y, z float32) float32 {
	x0, x1, tx := axis(x, f.Width)
	y0, y1, ty := axis(y, f.Height)
	z0, z1, tz := axis(z, f.Depth)

	c00 := lerp(f.At(x0, y0, z0), f.At(x1, y0, z0), tx)
	c10 := lerp(f.At(x0, y1, z0), f.At(x1, y1, z0), tx)
	c01 := lerp(f.At(x0, y0, z1), f.At(x1, y0, z1), tx)
	c11 := lerp(f.At(x0, y1, z1), f.At(x1, y1, z1), tx)

	return lerp(lerp(c00, c10, ty), lerp(c01, c11, ty), tz)
}

// SampleUVW samples with texture addressing: [0,1] spans the grid and texel
// centres sit at (i+0.5)/dim, the same convention as a linear, edge-clamped
// 3D texture.
func (f *DensityField) SampleUVW(u, v, w float32) float32 {
	return f.Sample(
		u*float32(f.Width)-0.5,
		v*float32(f.Height)-0.5,
		w*float32(f.Depth)-0.5,
	)
}

// axis clamps c into [0,n-1] and returns the bracketing lattice indices and
// the fractional weight.
func axis(c float32, n int) (int, int, float32) {
	hi := float32(n - 1)
	if !(c > 0) { // also catches NaN
		c = 0
	}
	if c > hi {
		c = hi
	}
	i0 := int(c)
	i1 := i0 + 1
	if i1 > n-1 {
		i1 = n - 1
	}
	return i0, i1, c - float32(i0)
}

func lerp(a, b, t float32) float32 {
	if t == 0 {
		return a
	}
	return a + (b-a)*t
}

func clamp01(v float32) float32 {
	if !(v > 0) { // NaN from a zero span lands here too
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Stats summarizes a field.
type Stats struct {
	Min, Max, Mean float32
	// Occupancy is the fraction of voxels with a density above zero.
	Occupancy float64
}

// Stats computes a summary over all voxels.
func (f *DensityField) Stats() Stats {
	if len(f.Samples) == 0 {
		return Stats{}
	}
	s := Stats{Min: f.Samples[0], Max: f.Samples[0]}
	var sum float64
	var occupied int
	for _, v := range f.Samples {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		if v > 0 {
			occupied++
		}
		sum += float64(v)
	}
	s.Mean = float32(sum / float64(len(f.Samples)))
	s.Occupancy = float64(occupied) / float64(len(f.Samples))
	return s
}
