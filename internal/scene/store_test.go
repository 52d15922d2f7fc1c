package scene

import (
	"errors"
	"sync"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/nimbus/internal/raymarch"
	"github.com/Faultbox/nimbus/internal/transfer"
	"github.com/Faultbox/nimbus/internal/view"
	"github.com/Faultbox/nimbus/internal/volume"
)

func field(t *testing.T, n int) *volume.DensityField {
	t.Helper()
	dims := volume.Dims{Width: n, Height: n, Depth: n}
	f, err := volume.LoadDiscrete(make([]byte, dims.Count()), dims)
	require.NoError(t, err)
	return f
}

func TestNewStoreDefaults(t *testing.T) {
	_, err := NewStore(nil, nil, raymarch.DefaultParams())
	require.Error(t, err)

	s, err := NewStore(field(t, 2), nil, raymarch.DefaultParams())
	require.NoError(t, err)
	snap := s.Load()
	assert.Equal(t, transfer.DefaultEntries, snap.Transfer.Len())
	assert.Equal(t, uint64(1), snap.Generation)
}

func TestReloadFailureKeepsField(t *testing.T) {
	orig := field(t, 2)
	s, err := NewStore(orig, nil, raymarch.DefaultParams())
	require.NoError(t, err)

	boom := errors.New("disk on fire")
	err = s.Reload(func() (*volume.DensityField, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.Same(t, orig, s.Load().Field)
	assert.Equal(t, uint64(1), s.Load().FieldGeneration)

	next := field(t, 3)
	require.NoError(t, s.Reload(func() (*volume.DensityField, error) { return next, nil }))
	assert.Same(t, next, s.Load().Field)
	assert.Equal(t, uint64(2), s.Load().FieldGeneration)
}

func TestReloadPanicKeepsField(t *testing.T) {
	orig := field(t, 2)
	s, err := NewStore(orig, nil, raymarch.DefaultParams())
	require.NoError(t, err)

	err = s.Reload(func() (*volume.DensityField, error) {
		var samples []float32
		_ = samples[3]
		return nil, nil
	})
	require.Error(t, err)
	assert.Same(t, orig, s.Load().Field)
	assert.Equal(t, uint64(1), s.Load().FieldGeneration)
}

func TestSnapshotsAreImmutable(t *testing.T) {
	s, err := NewStore(field(t, 2), nil, raymarch.DefaultParams())
	require.NoError(t, err)

	before := s.Load()
	s.UpdateParams(func(p *raymarch.Params) { p.Density = 4 })

	assert.Equal(t, float32(1), before.Params.Density)
	assert.Equal(t, float32(4), s.Load().Params.Density)
	assert.Equal(t, before.FieldGeneration, s.Load().FieldGeneration)
}

func TestEmptyTransferUpdateIsNoop(t *testing.T) {
	s, err := NewStore(field(t, 2), nil, raymarch.DefaultParams())
	require.NoError(t, err)
	before := s.Load()

	require.NoError(t, s.SetTransferEntries(nil))
	assert.Same(t, before, s.Load())

	require.NoError(t, s.SetTransferEntries([]transfer.Entry{
		{Color: colorful.Color{R: 1}, Opacity: 0.2},
		{Color: colorful.Color{G: 1}, Opacity: 0.9},
	}))
	assert.Equal(t, 2, s.Load().Transfer.Len())
	assert.Equal(t, uint64(2), s.Load().TransferGeneration)
}

func TestConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	s, err := NewStore(field(t, 2), nil, raymarch.DefaultParams())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				snap := s.Load()
				// Writers always set Density and Threshold together.
				if snap.Generation > 1 && snap.Params.Density != snap.Params.Threshold {
					t.Errorf("torn snapshot: density %v threshold %v", snap.Params.Density, snap.Params.Threshold)
					return
				}
			}
		}()
	}
	for j := 1; j <= 200; j++ {
		v := float32(j)
		s.UpdateParams(func(p *raymarch.Params) {
			p.Density = v
			p.Threshold = v
		})
	}
	wg.Wait()
}

func TestSnapshotFrame(t *testing.T) {
	s, err := NewStore(field(t, 2), nil, raymarch.DefaultParams())
	require.NoError(t, err)

	vs := view.NewCamera().State()
	f := s.Load().Frame(vs, 3, 64, 48)
	assert.Equal(t, 64, f.Width)
	assert.Equal(t, float32(3), f.Time)
	assert.Same(t, s.Load().Field, f.Field)
}
