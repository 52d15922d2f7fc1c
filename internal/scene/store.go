// Package scene publishes the render inputs as immutable snapshots.
//
// Frames call Load once and render from that snapshot, so a reload or a
// parameter edit is never observed half-applied.
package scene

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/logger"
	"github.com/Faultbox/nimbus/internal/raymarch"
	"github.com/Faultbox/nimbus/internal/transfer"
	"github.com/Faultbox/nimbus/internal/view"
	"github.com/Faultbox/nimbus/internal/volume"
)

// Snapshot is one consistent set of render inputs. Never mutate it.
type Snapshot struct {
	Field    *volume.DensityField
	Transfer *transfer.TransferFunction
	Params   raymarch.Params

	// Generation increases on every publish.
	Generation uint64
	// FieldGeneration and TransferGeneration only move when that input
	// changes, so GPU uploads can be skipped otherwise.
	FieldGeneration    uint64
	TransferGeneration uint64
}

// Store is a single-writer, many-reader holder of the current Snapshot.
type Store struct {
	cur atomic.Pointer[Snapshot]
	mu  sync.Mutex // serializes writers
	log *zap.Logger
}

// NewStore publishes the initial snapshot.
func NewStore(field *volume.DensityField, tf *transfer.TransferFunction, p raymarch.Params) (*Store, error) {
	if field == nil {
		return nil, fmt.Errorf("scene: nil density field")
	}
	if tf == nil {
		tf = transfer.Default()
	}
	s := &Store{log: logger.Named("scene")}
	s.cur.Store(&Snapshot{
		Field:              field,
		Transfer:           tf,
		Params:             p,
		Generation:         1,
		FieldGeneration:    1,
		TransferGeneration: 1,
	})
	return s, nil
}

// Load returns the current snapshot.
func (s *Store) Load() *Snapshot {
	return s.cur.Load()
}

// update copies the current snapshot, lets fn edit the copy and publishes it.
func (s *Store) update(fn func(*Snapshot)) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.cur.Load()
	fn(&next)
	next.Generation++
	s.cur.Store(&next)
	return &next
}

// ReplaceField swaps in a new density field.
func (s *Store) ReplaceField(f *volume.DensityField) {
	if f == nil {
		return
	}
	snap := s.update(func(n *Snapshot) {
		n.Field = f
		n.FieldGeneration++
	})
	s.log.Info("density field replaced",
		zap.Stringer("dims", f.Dims),
		zap.Uint64("generation", snap.Generation))
}

// Reload runs load and publishes its field. On failure the previous field
// stays active and the error is returned; a panicking loader counts as a
// failure.
func (s *Store) Reload(load func() (*volume.DensityField, error)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scene: reload panicked: %v", r)
			s.log.Error("reload panicked, keeping previous field", zap.Any("panic", r))
		}
	}()

	f, err := load()
	if err != nil {
		s.log.Warn("reload failed, keeping previous field", zap.Error(err))
		return err
	}
	s.ReplaceField(f)
	return nil
}

// SetParams publishes new render parameters.
func (s *Store) SetParams(p raymarch.Params) {
	s.update(func(n *Snapshot) { n.Params = p })
}

// UpdateParams applies fn to a copy of the current parameters and
// publishes the result atomically with respect to other writers.
func (s *Store) UpdateParams(fn func(*raymarch.Params)) raymarch.Params {
	snap := s.update(func(n *Snapshot) { fn(&n.Params) })
	return snap.Params
}

// SetTransferEntries rebuilds the transfer function. An empty slice leaves
// the current table untouched.
func (s *Store) SetTransferEntries(entries []transfer.Entry) error {
	if len(entries) == 0 {
		s.log.Debug("empty transfer update ignored")
		return nil
	}
	tf, err := transfer.New(entries)
	if err != nil {
		return err
	}
	s.SetTransfer(tf)
	return nil
}

// SetTransfer publishes a prebuilt transfer function.
func (s *Store) SetTransfer(tf *transfer.TransferFunction) {
	if tf == nil {
		return
	}
	s.update(func(n *Snapshot) {
		n.Transfer = tf
		n.TransferGeneration++
	})
}

// Frame builds a raymarch frame from the snapshot.
func (sn *Snapshot) Frame(v view.State, t float32, width, height int) raymarch.Frame {
	return raymarch.Frame{
		Field:    sn.Field,
		Transfer: sn.Transfer,
		Params:   sn.Params,
		View:     v,
		Time:     t,
		Width:    width,
		Height:   height,
	}
}
