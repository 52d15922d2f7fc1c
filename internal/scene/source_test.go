package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/nimbus/internal/assets"
	"github.com/Faultbox/nimbus/internal/raymarch"
	"github.com/Faultbox/nimbus/internal/volume"
)

func TestProceduralSource(t *testing.T) {
	f, err := Procedural(8).Load(nil)
	require.NoError(t, err)
	assert.Equal(t, volume.Dims{Width: 8, Height: 8, Depth: 8}, f.Dims)
	assert.Equal(t, "procedural", Procedural(8).String())
}

func TestFileSourceReload(t *testing.T) {
	dir := t.TempDir()
	data := make([]byte, 8)
	for i := range data {
		data[i] = 255
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cube.raw"), data, 0o644))

	files := assets.NewManager(dir)
	defer files.Close()

	s, err := NewStore(field(t, 2), nil, raymarch.DefaultParams())
	require.NoError(t, err)

	src := FromFile(volume.Source{
		Path:   "cube.raw",
		Format: volume.FormatRaw8,
		Dims:   volume.Dims{Width: 2, Height: 2, Depth: 2},
	})
	require.NoError(t, s.Reload(src.Loader(files)))
	snap := s.Load()
	assert.Equal(t, uint64(2), snap.FieldGeneration)
	assert.Equal(t, float32(1), snap.Field.At(1, 1, 1))

	missing := FromFile(volume.Source{Path: "nope.raw", Format: volume.FormatRaw8, Dims: volume.Dims{Width: 2, Height: 2, Depth: 2}})
	require.Error(t, s.Reload(missing.Loader(files)))
	assert.Same(t, snap.Field, s.Load().Field)
}
