package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestPutGet(t *testing.T) {
	t.Parallel()

	c, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	want := payload{Name: "workouts", Count: 42}
	if err := c.Put("hevy_workouts", want, ""); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	var got payload
	if !c.Get("hevy_workouts", &got) {
		t.Fatal("Get() missed a fresh entry")
	}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestGetMiss(t *testing.T) {
	t.Parallel()

	c, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	var got payload
	if c.Get("absent", &got) {
		t.Error("Get() hit on an absent key")
	}
	if c.Stats().Misses != 1 {
		t.Errorf("stats = %+v", c.Stats())
	}
}

func TestGetExpired(t *testing.T) {
	t.Parallel()

	c, err := New(t.TempDir(), time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put("k", payload{Name: "x"}, ""); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	var got payload
	if c.Get("k", &got) {
		t.Error("Get() hit on an expired entry")
	}
	if c.Stats().Invalidations != 1 {
		t.Errorf("stats = %+v", c.Stats())
	}
}

func TestGetWithSourceInvalidation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "export.json")
	if err := os.WriteFile(source, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := New(filepath.Join(dir, "cache"), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put("k", payload{Name: "v1"}, source); err != nil {
		t.Fatal(err)
	}

	var got payload
	if !c.GetWithSource("k", source, &got) {
		t.Fatal("GetWithSource() missed with unchanged source")
	}

	// Bump the source mtime past the cached one.
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(source, future, future); err != nil {
		t.Fatal(err)
	}
	if c.GetWithSource("k", source, &got) {
		t.Error("GetWithSource() hit after source changed")
	}
}

func TestDistinctKeysDoNotCollide(t *testing.T) {
	t.Parallel()

	c, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	// Same sanitized name, different raw keys.
	if err := c.Put("a/b", payload{Name: "slash"}, ""); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("a.b", payload{Name: "dot"}, ""); err != nil {
		t.Fatal(err)
	}

	var got payload
	if !c.Get("a/b", &got) || got.Name != "slash" {
		t.Errorf("a/b = %+v", got)
	}
	if !c.Get("a.b", &got) || got.Name != "dot" {
		t.Errorf("a.b = %+v", got)
	}
}

func TestInvalidate(t *testing.T) {
	t.Parallel()

	c, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put("k", payload{}, ""); err != nil {
		t.Fatal(err)
	}
	c.Invalidate("k")

	var got payload
	if c.Get("k", &got) {
		t.Error("Get() hit after Invalidate()")
	}
}
