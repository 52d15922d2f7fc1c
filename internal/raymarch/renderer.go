package raymarch

import (
	"image"
	"image/color"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/logger"
)

// DefaultTileSize is the edge of a square work unit in pixels.
const DefaultTileSize = 32

// FrameBuffer holds per-pixel accumulated colour and opacity, row-major
// with y=0 at the top.
type FrameBuffer struct {
	Width, Height int
	Pixels        []Accumulator
}

// NewFrameBuffer allocates a cleared buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	return &FrameBuffer{Width: w, Height: h, Pixels: make([]Accumulator, w*h)}
}

// At returns the accumulator of pixel (x,y).
func (fb *FrameBuffer) At(x, y int) Accumulator {
	return fb.Pixels[y*fb.Width+x]
}

// RGBA composites the buffer over bg. Opacity is not carried into the
// image; every pixel is opaque.
func (fb *FrameBuffer) RGBA(bg mgl32.Vec3) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, acc := range fb.Pixels {
		c := acc.Over(bg)
		img.SetRGBA(i%fb.Width, i/fb.Width, color.RGBA{
			R: toByte(c[0]),
			G: toByte(c[1]),
			B: toByte(c[2]),
			A: 255,
		})
	}
	return img
}

func toByte(v float32) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

// Stats describes one rendered frame.
type Stats struct {
	Width, Height int
	Workers       int
	Tiles         int
	Rays          uint64
	Samples       uint64
	EarlyOuts     uint64
	Misses        uint64
	Elapsed       time.Duration
}

// RaysPerSecond returns the ray throughput.
func (s Stats) RaysPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Rays) / s.Elapsed.Seconds()
}

// Renderer shades frames on a pool of goroutines, one tile at a time.
// Pixels are independent, so the result does not depend on Workers or
// TileSize.
type Renderer struct {
	Workers  int
	TileSize int
}

// NewRenderer returns a renderer; non-positive arguments pick defaults.
func NewRenderer(workers, tileSize int) *Renderer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	return &Renderer{Workers: workers, TileSize: tileSize}
}

type tile struct {
	x0, y0, x1, y1 int
}

// Render shades every pixel of f. A frame always runs to completion.
func (r *Renderer) Render(f Frame) (*FrameBuffer, Stats) {
	start := time.Now()
	comp := NewCompositor(f)
	fb := NewFrameBuffer(f.Width, f.Height)

	size := r.TileSize
	if size <= 0 {
		size = DefaultTileSize
	}
	var all []tile
	for y := 0; y < f.Height; y += size {
		for x := 0; x < f.Width; x += size {
			all = append(all, tile{x, y, min(x+size, f.Width), min(y+size, f.Height)})
		}
	}

	workers := max(1, min(r.Workers, len(all)))
	tiles := make(chan tile, len(all))
	for _, t := range all {
		tiles <- t
	}
	close(tiles)

	var rays, samples, earlyOuts, misses atomic.Uint64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var n counters
			for t := range tiles {
				for y := t.y0; y < t.y1; y++ {
					row := y * f.Width
					for x := t.x0; x < t.x1; x++ {
						fb.Pixels[row+x] = comp.shade(x, y, &n)
					}
				}
			}
			rays.Add(n.rays)
			samples.Add(n.samples)
			earlyOuts.Add(n.earlyOuts)
			misses.Add(n.misses)
		}()
	}
	wg.Wait()

	st := Stats{
		Width:     f.Width,
		Height:    f.Height,
		Workers:   workers,
		Tiles:     len(all),
		Rays:      rays.Load(),
		Samples:   samples.Load(),
		EarlyOuts: earlyOuts.Load(),
		Misses:    misses.Load(),
		Elapsed:   time.Since(start),
	}
	logger.Log.Debug("frame rendered",
		zap.Int("width", st.Width),
		zap.Int("height", st.Height),
		zap.Int("tiles", st.Tiles),
		zap.Uint64("rays", st.Rays),
		zap.Duration("elapsed", st.Elapsed))
	return fb, st
}
