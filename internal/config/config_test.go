package config

import (
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HEALTH_DATA_PATH", "")
	t.Setenv("DASHBOARD_DATA_PATH", "")
	t.Setenv("HEALTH_ANALYTICS_CACHE_DIR", "")
	t.Setenv("HEVY_API", "")
	t.Setenv("HEVY_BASE_URL", "")

	cfg := Load()

	if filepath.Base(cfg.ExportDir) != "data" {
		t.Errorf("ExportDir = %q, want a path ending in data", cfg.ExportDir)
	}
	if filepath.Base(cfg.DashboardDir) != "dashboard" {
		t.Errorf("DashboardDir = %q, want a path ending in dashboard", cfg.DashboardDir)
	}
	if cfg.HevyBaseURL != DefaultHevyBaseURL {
		t.Errorf("HevyBaseURL = %q, want %q", cfg.HevyBaseURL, DefaultHevyBaseURL)
	}
	if cfg.HevyAPIKey != "" {
		t.Errorf("HevyAPIKey = %q, want empty", cfg.HevyAPIKey)
	}
	if cfg.Goals.Steps != 10000 || cfg.Goals.ExerciseMinutes != 30 || cfg.Goals.StandHours != 12 {
		t.Errorf("unexpected default goals: %+v", cfg.Goals)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("HEALTH_DATA_PATH", "/srv/exports")
	t.Setenv("DASHBOARD_DATA_PATH", "/srv/site")
	t.Setenv("HEALTH_ANALYTICS_CACHE_DIR", "/tmp/hc")
	t.Setenv("HEVY_API", "secret-key")
	t.Setenv("HEVY_BASE_URL", "http://localhost:9999")

	cfg := Load()

	if cfg.ExportDir != "/srv/exports" {
		t.Errorf("ExportDir = %q", cfg.ExportDir)
	}
	if cfg.DashboardDir != "/srv/site" {
		t.Errorf("DashboardDir = %q", cfg.DashboardDir)
	}
	if got := cfg.DataDir(); got != filepath.Join("/srv/site", "data") {
		t.Errorf("DataDir() = %q", got)
	}
	if cfg.CacheDir != "/tmp/hc" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.HevyAPIKey != "secret-key" {
		t.Errorf("HevyAPIKey = %q", cfg.HevyAPIKey)
	}
	if cfg.HevyBaseURL != "http://localhost:9999" {
		t.Errorf("HevyBaseURL = %q", cfg.HevyBaseURL)
	}
}
