package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestLoadPriority(t *testing.T) {
	m := NewManager()
	m.AddFS(fstest.MapFS{
		"models/room.obj": {Data: []byte("base")},
		"textures/a.png":  {Data: []byte("a")},
	})
	m.AddFS(fstest.MapFS{
		"models/room.obj": {Data: []byte("override")},
	})

	data, err := m.Load("models/room.obj")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "override" {
		t.Errorf("expected last root to win, got %q", data)
	}

	data, err = m.Load("./textures/a.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "a" {
		t.Errorf("expected fallback to first root, got %q", data)
	}
}

func TestLoadMissing(t *testing.T) {
	m := NewManager()
	m.AddFS(fstest.MapFS{})

	_, err := m.Load("nope.obj")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadCaches(t *testing.T) {
	m := NewManager()
	m.AddFS(fstest.MapFS{"a.mtl": {Data: []byte("newmtl a")}})

	for i := 0; i < 3; i++ {
		if _, err := m.Load("a.mtl"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	hits, misses := m.cache.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("expected 2 hits and 1 miss, got %d and %d", hits, misses)
	}
}

func TestAddDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cube.obj"), []byte("v 0 0 0"), 0644); err != nil {
		t.Fatalf("failed to write asset: %v", err)
	}

	m := NewManager()
	if err := m.AddDir(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := m.Load("cube.obj")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "v 0 0 0" {
		t.Errorf("unexpected content %q", data)
	}

	// Absolute paths outside the roots are read from disk.
	other := filepath.Join(t.TempDir(), "x.mtl")
	if err := os.WriteFile(other, []byte("newmtl x"), 0644); err != nil {
		t.Fatalf("failed to write asset: %v", err)
	}
	if _, err := m.Load(other); err != nil {
		t.Errorf("expected absolute path to load, got %v", err)
	}

	if err := m.AddDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing dir")
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"./a/b.png", "a/b.png"},
		{"a\\b\\c.png", "a/b/c.png"},
		{"/abs/x.obj", "abs/x.obj"},
		{"a/../b.obj", "b.obj"},
		{".", ""},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
