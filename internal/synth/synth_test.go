package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/nimbus/internal/volume"
)

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(24, 16, 20)
	require.NoError(t, err)
	b, err := Generate(24, 16, 20)
	require.NoError(t, err)

	require.Len(t, a.Samples, 24*16*20)
	assert.Equal(t, a.Samples, b.Samples)
}

func TestGenerateRange(t *testing.T) {
	f, err := GenerateCube(32)
	require.NoError(t, err)

	for i, v := range f.Samples {
		if v != 0 && v < cutoff {
			t.Fatalf("sample %d = %v is below the cutoff but not zero", i, v)
		}
		if v < 0 || v > 1 {
			t.Fatalf("sample %d = %v outside [0,1]", i, v)
		}
	}
	assert.Greater(t, f.Stats().Occupancy, 0.0, "field should not be empty")
}

func TestGenerateBottomLayerEmpty(t *testing.T) {
	f, err := GenerateCube(16)
	require.NoError(t, err)
	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			assert.Equal(t, float32(0), f.At(x, 0, z), "voxel (%d,0,%d)", x, z)
		}
	}
}

func TestEdgeFadeDampens(t *testing.T) {
	const n = 24
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				if !nearFace(x, y, z, n, 2) {
					continue
				}
				p := vec3{
					(float32(x) + 0.5) / n,
					(float32(y) + 0.5) / n,
					(float32(z) + 0.5) / n,
				}
				faded := density(p, true)
				unfaded := density(p, false)
				if faded > unfaded {
					t.Fatalf("voxel (%d,%d,%d): faded %v > unfaded %v", x, y, z, faded, unfaded)
				}
			}
		}
	}
}

func nearFace(x, y, z, n, k int) bool {
	return x < k || y < k || z < k || x >= n-k || y >= n-k || z >= n-k
}

func TestGenerateInvalidDims(t *testing.T) {
	_, err := Generate(0, 8, 8)
	require.ErrorIs(t, err, volume.ErrInvalidDimensions)
}

func TestNoiseRanges(t *testing.T) {
	for i := int32(-50); i < 50; i++ {
		r := rand01(i, i*3, -i*7)
		assert.True(t, r >= 0 && r <= 1, "rand01 = %v", r)
	}

	for i := 0; i < 200; i++ {
		p := vec3{float32(i) * 0.173, float32(i) * 0.311, float32(i) * 0.057}
		v := fbm(p)
		assert.True(t, v >= 0 && v <= 0.9375, "fbm = %v", v)
		wv := worley(p, 5.5)
		assert.True(t, wv >= 0 && wv <= 1, "worley = %v", wv)
	}
}

func TestValueNoiseLattice(t *testing.T) {
	for _, c := range [][3]int32{{0, 0, 0}, {3, -2, 7}, {-5, 11, 1}} {
		p := vec3{float32(c[0]), float32(c[1]), float32(c[2])}
		assert.Equal(t, rand01(c[0], c[1], c[2]), valueNoise(p))
	}
}

func TestFade(t *testing.T) {
	assert.Equal(t, float32(1), fade(0.5))
	assert.Equal(t, float32(1), fade(0.9))
	assert.Equal(t, float32(0), fade(1))
	assert.Equal(t, float32(0), fade(0))
}
