package icloud

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReady(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	full := filepath.Join(dir, "full.json")
	if err := os.WriteFile(full, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if !Ready(full) {
		t.Error("Ready() = false for a file with content")
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if Ready(empty) {
		t.Error("Ready() = true for a zero-byte placeholder")
	}

	if Ready(filepath.Join(dir, "missing.json")) {
		t.Error("Ready() = true for a missing file")
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")
	want := []byte(`{"data":{"metrics":[]}}`)
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("ReadFile() = %q, want %q", got, want)
	}
}

func TestReadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile() error = %v, want os.ErrNotExist", err)
	}
}
