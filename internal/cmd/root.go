package cmd

import (
	"fmt"
	"os"

	"github.com/solstice035/health-analytics/internal/cache"
	"github.com/solstice035/health-analytics/internal/config"
	"github.com/solstice035/health-analytics/internal/dashboard"
	"github.com/solstice035/health-analytics/internal/hevy"
	"github.com/solstice035/health-analytics/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbosity    int
	exportDir    string
	dashboardDir string
	cacheDir     string
	days         int
)

var rootCmd = &cobra.Command{
	Use:   "health-analytics",
	Short: "Health analytics - turn Apple Health exports and Hevy workouts into dashboard data",
	Long: `Health analytics reads daily Apple Health export files (HealthAutoExport
format) and workouts from the Hevy API, derives trends, streaks, records,
correlations, and a composite health score, and writes the results as
JSON artifacts for a static dashboard.

Configuration comes from the environment (a .env file is read if present):
- HEALTH_DATA_PATH: directory holding HealthAutoExport-YYYY-MM-DD.json files
- DASHBOARD_DATA_PATH: dashboard root, artifacts land in its data/ directory
- HEVY_API: Hevy API key, workout commands are skipped without it

Flags override the environment for a single invocation.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set up logging based on verbosity before any command runs
		logging.Setup(logging.Level(verbosity))
	},
}

func init() {
	// Logging verbosity
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v for debug, -vv for trace with HTTP headers)")

	// Path overrides
	rootCmd.PersistentFlags().StringVar(&exportDir, "export-dir", "", "directory with HealthAutoExport files (overrides HEALTH_DATA_PATH)")
	rootCmd.PersistentFlags().StringVar(&dashboardDir, "dashboard-dir", "", "dashboard root directory (overrides DASHBOARD_DATA_PATH)")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "workout cache directory (overrides HEALTH_ANALYTICS_CACHE_DIR)")

	rootCmd.PersistentFlags().IntVar(&days, "days", 30, "number of days ending yesterday to analyze")
}

// loadConfig builds the runtime configuration from the environment with
// CLI flag overrides applied.
func loadConfig() config.Config {
	cfg := config.Load()
	if exportDir != "" {
		cfg.ExportDir = exportDir
	}
	if dashboardDir != "" {
		cfg.DashboardDir = dashboardDir
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}
	return cfg
}

// newGenerator wires the artifact generator from config. The workout
// source and cache stay nil when no API key is configured.
func newGenerator(cfg config.Config) *dashboard.Generator {
	var source dashboard.WorkoutSource
	var store *cache.Cache
	if cfg.HevyAPIKey != "" {
		source = hevy.NewClientWithBaseURL(cfg.HevyAPIKey, cfg.HevyBaseURL)
		var err error
		store, err = cache.New(cfg.CacheDir, cache.DefaultMaxAge)
		if err != nil {
			logging.Warn("Workout cache unavailable, fetching fresh every run", "error", err)
		}
	}
	return dashboard.NewGenerator(cfg, source, store)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
