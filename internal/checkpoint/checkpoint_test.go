package checkpoint

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWithoutCheckpoint(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "var", "last_processed_tweet"))

	id, ok, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ok || id != 0 {
		t.Errorf("Load() = (%d, %v), want (0, false)", id, ok)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "var", "last_processed_tweet")
	if err := NewFileStore(path).Save(1290000000000000105); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// A fresh store simulates a process restart.
	id, ok, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !ok || id != 1290000000000000105 {
		t.Errorf("Load() = (%d, %v), want (1290000000000000105, true)", id, ok)
	}
}

func TestSaveOverwritesAndKeepsFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "last_processed_tweet")
	s := NewFileStore(path)

	for _, id := range []int64{105, 7} {
		if err := s.Save(id); err != nil {
			t.Fatalf("Save(%d) error = %v", id, err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "7" {
		t.Errorf("file content = %q, want %q", b, "7")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the checkpoint file", len(entries))
	}
}

func TestLoadToleratesTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp")
	if err := os.WriteFile(path, []byte("42\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	id, ok, err := NewFileStore(path).Load()
	if err != nil || !ok || id != 42 {
		t.Errorf("Load() = (%d, %v, %v), want (42, true, nil)", id, ok, err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp")
	if err := os.WriteFile(path, []byte("not-a-number"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := NewFileStore(path).Load(); err == nil {
		t.Error("Load() expected error for corrupt checkpoint")
	}
}
