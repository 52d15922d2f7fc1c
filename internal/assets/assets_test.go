package assets

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestResolvePriority(t *testing.T) {
	low := t.TempDir()
	high := t.TempDir()
	writeFile(t, low, "raymarching.frag", "low")
	writeFile(t, high, "raymarching.frag", "high")

	m := NewManager(low, high)
	data, err := m.Load("raymarching.frag")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != "high" {
		t.Errorf("got %q, want the last added root to win", data)
	}
}

func TestMissingResource(t *testing.T) {
	m := NewManager(t.TempDir())

	if _, err := m.Load("nope.raw"); !errors.Is(err, ErrResourceMissing) {
		t.Errorf("Load error = %v, want ErrResourceMissing", err)
	}
	if _, _, err := m.Open("nope.raw"); !errors.Is(err, ErrResourceMissing) {
		t.Errorf("Open error = %v, want ErrResourceMissing", err)
	}
	if _, err := m.Resolve(""); !errors.Is(err, ErrResourceMissing) {
		t.Errorf("Resolve(\"\") error = %v, want ErrResourceMissing", err)
	}
}

func TestOpenReportsSize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cloud.raw", "abcdefgh")

	m := NewManager(dir)
	rc, size, err := m.Open("cloud.raw")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()

	if size != 8 {
		t.Errorf("size = %d, want 8", size)
	}
	b, _ := io.ReadAll(rc)
	if string(b) != "abcdefgh" {
		t.Errorf("content = %q", b)
	}
}

func TestCacheAndInvalidate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.meta", "4 4 4")

	m := NewManager(dir)
	if _, err := m.Load("a.meta"); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "a.meta", "8 8 8")

	data, _ := m.Load("a.meta")
	if string(data) != "4 4 4" {
		t.Errorf("expected cached content, got %q", data)
	}
	hits, misses := m.cache.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d/%d, want 1/1", hits, misses)
	}

	m.Invalidate("a.meta")
	data, _ = m.Load("a.meta")
	if string(data) != "8 8 8" {
		t.Errorf("expected fresh content after invalidate, got %q", data)
	}
}
