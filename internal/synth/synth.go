// Package synth generates a deterministic procedural cloud volume.
//
// Every voxel is a pure function of its grid position and the grid size,
// so two runs with the same dimensions produce bit-identical fields.
package synth

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/Faultbox/nimbus/internal/volume"
)

// DefaultSize is the edge length of the cube generated at startup.
const DefaultSize = 128

// cutoff removes faint haze.
const cutoff = 0.01

// Generate builds a w×h×d cloud field.
func Generate(w, h, d int) (*volume.DensityField, error) {
	dims := volume.Dims{Width: w, Height: h, Depth: d}
	if !dims.Valid() {
		return nil, fmt.Errorf("%w: %s", volume.ErrInvalidDimensions, dims)
	}
	out := make([]float32, dims.Count())

	slices := make(chan int, d)
	for z := 0; z < d; z++ {
		slices <- z
	}
	close(slices)

	workers := runtime.NumCPU()
	if workers > d {
		workers = d
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for z := range slices {
				fillSlice(out, dims, z)
			}
		}()
	}
	wg.Wait()

	return volume.New(dims, out)
}

// GenerateCube is Generate(n, n, n).
func GenerateCube(n int) (*volume.DensityField, error) {
	return Generate(n, n, n)
}

func fillSlice(out []float32, dims volume.Dims, z int) {
	nz := (float32(z) + 0.5) / float32(dims.Depth)
	for y := 0; y < dims.Height; y++ {
		ny := (float32(y) + 0.5) / float32(dims.Height)
		row := dims.Width * (y + dims.Height*z)
		for x := 0; x < dims.Width; x++ {
			nx := (float32(x) + 0.5) / float32(dims.Width)
			out[row+x] = Density(nx, ny, nz)
		}
	}
}

// Density evaluates the cloud at normalized voxel-centre coordinates.
func Density(nx, ny, nz float32) float32 {
	return density(vec3{nx, ny, nz}, true)
}

func density(p vec3, edgeFade bool) float32 {
	// Two-pass domain warp.
	warp1 := fbm(p.scale(1.6)) * 0.30
	warp2 := fbm(p.scale(4.0)) * 0.14
	w := vec3{
		p.x + warp1 + 0.60*warp2,
		p.y + 0.60*warp1 + 0.35*warp2,
		p.z + 0.80*warp1 + 0.45*warp2,
	}

	perlinBase := smoothstep(0.2, 0.8, fbm(w.scale(1.8)))
	cellular := pow(worley(w, 5.5), 1.1)
	base := 0.7*perlinBase + 0.3*cellular

	detailLow := fbm(w.scale(2.5))
	detailHigh := fbm(w.scale(8.0))
	dens := smoothstep(0.15, 0.90, base+0.38*detailLow-0.48*detailHigh)

	dens *= pow(clamp((p.y-0.02)/0.95, 0, 1), 1.05)

	if edgeFade {
		dens *= fade(p.x) * fade(p.y) * fade(p.z)
	}

	if dens < cutoff {
		return 0
	}
	return dens
}

// fade falls from 1 to 0 over the outer 7.5% of the unit interval.
func fade(a float32) float32 {
	return 1 - smoothstep(0.85, 1.0, float32(math.Abs(float64(a-0.5)))*2)
}
