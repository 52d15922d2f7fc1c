package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadNormalizedDimensionMismatch(t *testing.T) {
	_, err := LoadNormalized(make([]float32, 63), Dims{4, 4, 4})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = LoadDiscrete(make([]byte, 65), Dims{4, 4, 4})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestLoadInvalidDimensions(t *testing.T) {
	_, err := LoadNormalized(nil, Dims{0, 4, 4})
	require.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestLoadNormalizedRange(t *testing.T) {
	raw := []float32{-3, 1, 5, 2, 0, -1, 4, 5}
	f, err := LoadNormalized(raw, Dims{2, 2, 2})
	require.NoError(t, err)

	assert.Equal(t, float32(0), f.Samples[0], "min maps to 0")
	assert.Equal(t, float32(1), f.Samples[2], "max maps to 1")
	assert.Equal(t, float32(1), f.Samples[7])
	assert.InDelta(t, 0.5, f.Samples[1], 1e-6)
	for i, v := range f.Samples {
		assert.GreaterOrEqual(t, v, float32(0), "sample %d", i)
		assert.LessOrEqual(t, v, float32(1), "sample %d", i)
	}
}

func TestLoadNormalizedConstant(t *testing.T) {
	raw := make([]float32, 27)
	for i := range raw {
		raw[i] = 7.25
	}
	f, err := LoadNormalized(raw, Dims{3, 3, 3})
	require.NoError(t, err)
	for _, v := range f.Samples {
		assert.Equal(t, float32(0), v)
	}
}

func TestLoadDiscrete(t *testing.T) {
	f, err := LoadDiscrete([]byte{0, 255, 51, 102}, Dims{4, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0.2, 0.4}, f.Samples)
}

func ramp(t *testing.T, dims Dims) *DensityField {
	t.Helper()
	raw := make([]float32, dims.Count())
	for i := range raw {
		raw[i] = float32(i)
	}
	f, err := LoadNormalized(raw, dims)
	require.NoError(t, err)
	return f
}

func TestSampleLatticeExact(t *testing.T) {
	f := ramp(t, Dims{3, 4, 5})
	for z := 0; z < 5; z++ {
		for y := 0; y < 4; y++ {
			for x := 0; x < 3; x++ {
				got := f.Sample(float32(x), float32(y), float32(z))
				assert.Equal(t, f.At(x, y, z), got, "voxel (%d,%d,%d)", x, y, z)
			}
		}
	}
}

func TestSampleInterpolatesAndClamps(t *testing.T) {
	f, err := LoadDiscrete([]byte{0, 255}, Dims{2, 1, 1})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, f.Sample(0.5, 0, 0), 1e-6)
	assert.InDelta(t, 0.25, f.Sample(0.25, 0, 0), 1e-6)

	tests := []struct {
		name    string
		x, y, z float32
		want    float32
	}{
		{"below x", -4, 0, 0, 0},
		{"above x", 9, 0, 0, 1},
		{"outside y and z", 1, 5, -2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Sample(tt.x, tt.y, tt.z))
		})
	}
}

func TestSampleUVWTexelCentres(t *testing.T) {
	f := ramp(t, Dims{4, 4, 4})
	u := (2 + 0.5) / float32(4)
	v := (1 + 0.5) / float32(4)
	w := (3 + 0.5) / float32(4)
	assert.InDelta(t, f.At(2, 1, 3), f.SampleUVW(u, v, w), 1e-6)

	assert.Equal(t, f.At(0, 0, 0), f.SampleUVW(0, 0, 0))
	assert.Equal(t, f.At(3, 3, 3), f.SampleUVW(1, 1, 1))
}

func TestStats(t *testing.T) {
	f, err := LoadDiscrete([]byte{0, 0, 255, 255}, Dims{2, 2, 1})
	require.NoError(t, err)

	s := f.Stats()
	assert.Equal(t, float32(0), s.Min)
	assert.Equal(t, float32(1), s.Max)
	assert.InDelta(t, 0.5, s.Mean, 1e-6)
	assert.InDelta(t, 0.5, s.Occupancy, 1e-9)
}
