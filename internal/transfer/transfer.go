// Package transfer maps normalized density to colour and opacity.
package transfer

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrEmptyTable is returned when a table with no entries is supplied.
var ErrEmptyTable = errors.New("transfer: empty table")

// DefaultEntries is the size of the built-in table.
const DefaultEntries = 256

var (
	// Low-density tint, a cool pale blue.
	defaultLow = colorful.Color{R: 0.82, G: 0.86, B: 0.95}
	// High-density tint, near white.
	defaultHigh = colorful.Color{R: 0.98, G: 0.99, B: 1.0}
)

// Entry is one row of the table.
type Entry struct {
	Color   colorful.Color
	Opacity float64
}

type texel struct {
	rgb mgl32.Vec3
	a   float32
}

// TransferFunction is an ordered table of entries spread evenly over [0,1].
// It is safe for concurrent Lookup as long as nobody calls SetEntries;
// shared tables are replaced wholesale instead.
type TransferFunction struct {
	entries []Entry
	texels  []texel
}

// New builds a table from entries.
func New(entries []Entry) (*TransferFunction, error) {
	tf := &TransferFunction{}
	if err := tf.SetEntries(entries); err != nil {
		return nil, err
	}
	return tf, nil
}

// SetEntries replaces the whole table.
func (tf *TransferFunction) SetEntries(entries []Entry) error {
	if len(entries) == 0 {
		return ErrEmptyTable
	}
	tf.entries = append([]Entry(nil), entries...)
	tf.texels = make([]texel, len(entries))
	for i, e := range entries {
		c := e.Color.Clamped()
		tf.texels[i] = texel{
			rgb: mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)},
			a:   float32(clamp01(e.Opacity)),
		}
	}
	return nil
}

// Len returns the number of entries.
func (tf *TransferFunction) Len() int { return len(tf.texels) }

// Entries returns a copy of the table.
func (tf *TransferFunction) Entries() []Entry {
	return append([]Entry(nil), tf.entries...)
}

// Lookup returns the interpolated colour and opacity for a density.
// Density is clamped to [0,1]; 0 and 1 hit the first and last entries
// exactly.
func (tf *TransferFunction) Lookup(density float32) (mgl32.Vec3, float32) {
	n := len(tf.texels)
	if n == 1 || !(density > 0) {
		return tf.texels[0].rgb, tf.texels[0].a
	}
	if density >= 1 {
		return tf.texels[n-1].rgb, tf.texels[n-1].a
	}

	x := density * float32(n-1)
	i := int(x)
	if i >= n-1 {
		return tf.texels[n-1].rgb, tf.texels[n-1].a
	}
	f := x - float32(i)
	a, b := tf.texels[i], tf.texels[i+1]
	return a.rgb.Add(b.rgb.Sub(a.rgb).Mul(f)), a.a + (b.a-a.a)*f
}

// RGBA flattens the table to r,g,b,a quadruples for a 1D texture upload.
func (tf *TransferFunction) RGBA() []float32 {
	out := make([]float32, 0, len(tf.texels)*4)
	for _, t := range tf.texels {
		out = append(out, t.rgb[0], t.rgb[1], t.rgb[2], t.a)
	}
	return out
}

// Default returns the built-in cloud table: opacity t^0.85*0.7 and a colour
// ramp from a pale blue to near white.
func Default() *TransferFunction {
	entries := make([]Entry, DefaultEntries)
	for i := range entries {
		t := float64(i) / float64(DefaultEntries-1)
		entries[i] = Entry{
			Color:   defaultLow.BlendRgb(defaultHigh, t),
			Opacity: math.Pow(t, 0.85) * 0.7,
		}
	}
	tf, _ := New(entries)
	return tf
}

// Stop is a control point for FromStops.
type Stop struct {
	At      float64
	Color   colorful.Color
	Opacity float64
}

// ParseStop builds a stop from a "#rrggbb" colour.
func ParseStop(at float64, hex string, opacity float64) (Stop, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Stop{}, fmt.Errorf("transfer: stop colour %q: %w", hex, err)
	}
	return Stop{At: at, Color: c, Opacity: opacity}, nil
}

// FromStops resamples piecewise-linear control points into an n-entry table.
// Positions outside the first/last stop take the end stop's value.
func FromStops(stops []Stop, n int) (*TransferFunction, error) {
	if len(stops) == 0 || n <= 0 {
		return nil, ErrEmptyTable
	}
	sorted := append([]Stop(nil), stops...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })

	entries := make([]Entry, n)
	for i := range entries {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		entries[i] = sampleStops(sorted, t)
	}
	return New(entries)
}

func sampleStops(stops []Stop, t float64) Entry {
	first, last := stops[0], stops[len(stops)-1]
	if t <= first.At {
		return Entry{Color: first.Color, Opacity: first.Opacity}
	}
	if t >= last.At {
		return Entry{Color: last.Color, Opacity: last.Opacity}
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t > b.At {
			continue
		}
		span := b.At - a.At
		if span <= 0 {
			return Entry{Color: b.Color, Opacity: b.Opacity}
		}
		f := (t - a.At) / span
		return Entry{
			Color:   a.Color.BlendRgb(b.Color, f),
			Opacity: a.Opacity + (b.Opacity-a.Opacity)*f,
		}
	}
	return Entry{Color: last.Color, Opacity: last.Opacity}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
