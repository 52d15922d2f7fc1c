// Package assets resolves shader sources and volume files against a list
// of search roots.
package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// ErrResourceMissing is returned when no search root holds the requested file.
var ErrResourceMissing = errors.New("assets: resource missing")

// Manager handles file lookup across search roots.
type Manager struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a manager searching the given roots.
func NewManager(roots ...string) *Manager {
	m := &Manager{cache: NewCache()}
	for _, r := range roots {
		m.AddRoot(r)
	}
	return m
}

// AddRoot adds a search directory.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddRoot(dir string) {
	if dir == "" {
		return
	}
	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()
}

// Resolve returns the on-disk path for name. Absolute names and names that
// exist relative to the working directory are returned as-is.
func (m *Manager) Resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrResourceMissing)
	}
	if filepath.IsAbs(name) {
		if fileExists(name) {
			return name, nil
		}
		return "", fmt.Errorf("%w: %s", ErrResourceMissing, name)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		p := filepath.Join(m.roots[i], name)
		if fileExists(p) {
			return p, nil
		}
	}
	if fileExists(name) {
		return name, nil
	}
	return "", fmt.Errorf("%w: %s", ErrResourceMissing, name)
}

// Load reads a whole file, caching the bytes. Used for small text
// resources such as shader overrides and .meta sidecars.
func (m *Manager) Load(name string) ([]byte, error) {
	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	path, err := m.Resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m.cache.Set(name, data)
	return data, nil
}

// Open opens a file for streaming and reports its size in bytes.
// Volume payloads go through here and are never cached.
func (m *Manager) Open(name string) (io.ReadCloser, int64, error) {
	path, err := m.Resolve(name)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return f, info.Size(), nil
}

// Invalidate drops a cached entry so the next Load re-reads the file.
func (m *Manager) Invalidate(name string) {
	m.cache.Delete(name)
}

// Close releases cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	m.roots = nil
	m.mu.Unlock()
	m.cache.Clear()
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
