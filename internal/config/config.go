// Package config resolves runtime settings from environment variables
// and optional .env files into an explicit value object that the rest
// of the application receives by injection.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Default goal thresholds used for goal-progress tracking.
const (
	DefaultStepGoal     = 10000
	DefaultExerciseGoal = 30
	DefaultStandGoal    = 12
)

// DefaultHevyBaseURL is the production Hevy API endpoint.
const DefaultHevyBaseURL = "https://api.hevyapp.com"

// Goals holds the daily activity targets used by goal-progress
// artifacts and the health score.
type Goals struct {
	Steps           int
	ExerciseMinutes int
	StandHours      int
}

// Config carries every runtime setting. It is constructed once in the
// command layer and passed down explicitly.
type Config struct {
	// ExportDir is the directory containing HealthAutoExport-YYYY-MM-DD.json files.
	ExportDir string
	// DashboardDir is the static dashboard root. Artifacts are written to
	// DashboardDir/data.
	DashboardDir string
	// CacheDir holds cached upstream responses.
	CacheDir string

	// HevyAPIKey authenticates against the Hevy API. Empty disables
	// workout ingestion.
	HevyAPIKey string
	// HevyBaseURL allows pointing the client at a test server.
	HevyBaseURL string

	Goals Goals

	// HTTPTimeout bounds individual upstream requests.
	HTTPTimeout time.Duration
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment
// variables take precedence over .env entries.
func Load() Config {
	// godotenv never overrides variables already set in the environment.
	_ = godotenv.Load()

	root, err := os.Getwd()
	if err != nil {
		root = "."
	}

	cfg := Config{
		ExportDir:    envOr("HEALTH_DATA_PATH", filepath.Join(root, "data")),
		DashboardDir: envOr("DASHBOARD_DATA_PATH", filepath.Join(root, "dashboard")),
		CacheDir:     envOr("HEALTH_ANALYTICS_CACHE_DIR", filepath.Join(root, ".cache")),
		HevyAPIKey:   os.Getenv("HEVY_API"),
		HevyBaseURL:  envOr("HEVY_BASE_URL", DefaultHevyBaseURL),
		Goals: Goals{
			Steps:           DefaultStepGoal,
			ExerciseMinutes: DefaultExerciseGoal,
			StandHours:      DefaultStandGoal,
		},
		HTTPTimeout: 30 * time.Second,
	}
	return cfg
}

// DataDir returns the directory dashboard artifacts are written to.
func (c Config) DataDir() string {
	return filepath.Join(c.DashboardDir, "data")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
