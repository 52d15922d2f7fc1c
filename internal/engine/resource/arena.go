// Package resource tracks GPU objects by opaque ID so their release is
// explicit and auditable.
package resource

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/logger"
)

// ErrUnknownResource is returned for IDs the arena does not hold.
var ErrUnknownResource = errors.New("resource: unknown id")

// ID names one arena entry. The zero value never refers to a resource.
type ID uuid.UUID

// Nil is the zero ID.
var Nil = ID(uuid.Nil)

func (id ID) String() string { return uuid.UUID(id).String() }

// Kind labels what an entry holds.
type Kind string

const (
	KindProgram     Kind = "program"
	KindTexture3D   Kind = "texture3d"
	KindTexture1D   Kind = "texture1d"
	KindTexture2D   Kind = "texture2d"
	KindFramebuffer Kind = "framebuffer"
	KindVertexArray Kind = "vertex_array"
	KindBuffer      Kind = "buffer"
)

type entry struct {
	kind    Kind
	handle  uint32
	release func()
}

// Arena owns released-on-demand handles.
type Arena struct {
	mu      sync.Mutex
	entries map[ID]entry
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{entries: make(map[ID]entry)}
}

// Acquire registers a handle and the function that frees it.
func (a *Arena) Acquire(kind Kind, handle uint32, release func()) ID {
	id := ID(uuid.New())
	a.mu.Lock()
	a.entries[id] = entry{kind: kind, handle: handle, release: release}
	a.mu.Unlock()

	logger.Log.Debug("gpu resource acquired",
		zap.String("kind", string(kind)),
		zap.Uint32("handle", handle),
		zap.Stringer("id", id))
	return id
}

// Handle returns the raw handle behind id.
func (a *Arena) Handle(id ID) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.entries[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownResource, id)
	}
	return e.handle, nil
}

// Release frees one entry.
func (a *Arena) Release(id ID) error {
	a.mu.Lock()
	e, ok := a.entries[id]
	if ok {
		delete(a.entries, id)
	}
	a.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownResource, id)
	}
	if e.release != nil {
		e.release()
	}
	logger.Log.Debug("gpu resource released",
		zap.String("kind", string(e.kind)),
		zap.Uint32("handle", e.handle))
	return nil
}

// Replace releases old (if held) and then runs create. The old resource is
// always gone before the new one exists. On failure Nil is returned and
// nothing is held.
func (a *Arena) Replace(old ID, kind Kind, create func() (uint32, func(), error)) (ID, error) {
	if old != Nil {
		if err := a.Release(old); err != nil && !errors.Is(err, ErrUnknownResource) {
			return Nil, err
		}
	}
	handle, release, err := create()
	if err != nil {
		return Nil, err
	}
	return a.Acquire(kind, handle, release), nil
}

// Len returns the number of live entries.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// CountKind returns the number of live entries of a kind.
func (a *Arena) CountKind(kind Kind) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, e := range a.entries {
		if e.kind == kind {
			n++
		}
	}
	return n
}

// ReleaseAll frees everything. Used at shutdown.
func (a *Arena) ReleaseAll() {
	a.mu.Lock()
	entries := a.entries
	a.entries = make(map[ID]entry)
	a.mu.Unlock()

	for _, e := range entries {
		if e.release != nil {
			e.release()
		}
	}
}
