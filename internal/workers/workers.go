package workers

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/solstice035/health-analytics/internal/dashboard"
	"github.com/solstice035/health-analytics/internal/logging"
)

// ArtifactRefresher periodically regenerates the dashboard artifacts so
// a long-running server picks up new health exports and workouts.
type ArtifactRefresher struct {
	generator *dashboard.Generator
	interval  time.Duration
	days      int
}

// NewArtifactRefresher creates a new artifact refresh worker
func NewArtifactRefresher(generator *dashboard.Generator, interval time.Duration, days int) *ArtifactRefresher {
	return &ArtifactRefresher{
		generator: generator,
		interval:  interval,
		days:      days,
	}
}

// Run starts the artifact refresh worker
func (a *ArtifactRefresher) Run(ctx context.Context) {
	log := logging.Logger
	log.Info().Dur("interval", a.interval).Int("days", a.days).Msg("artifact refresher started")

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	// Do an initial refresh
	a.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("artifact refresher stopped")
			return
		case <-ticker.C:
			a.refresh(ctx)
		}
	}
}

func (a *ArtifactRefresher) refresh(ctx context.Context) {
	log := logging.Logger
	log.Debug().Msg("refreshing dashboard artifacts")

	start := time.Now()
	if err := a.generator.GenerateAll(ctx, a.days); err != nil {
		if ctx.Err() != nil {
			log.Info().Msg("artifact refresh cancelled")
			return
		}
		log.Error().Err(err).Msg("artifact refresh failed")
		return
	}

	log.Info().
		Dur("elapsed", time.Since(start).Round(time.Millisecond)).
		Msg("artifact refresh completed")
}

// LogExportStats logs what health export files are available on disk
func LogExportStats(exportDir string) {
	log := logging.Logger

	dates, err := listExportDates(exportDir)
	if err != nil {
		log.Warn().Str("dir", exportDir).Err(err).Msg("failed to read export directory")
		return
	}

	if len(dates) == 0 {
		log.Info().Str("dir", exportDir).Int("export_files", 0).Msg("export statistics")
		return
	}

	log.Info().
		Str("dir", exportDir).
		Int("export_files", len(dates)).
		Str("oldest", dates[0]).
		Str("newest", dates[len(dates)-1]).
		Msg("export statistics")
}

// listExportDates returns the sorted dates of the export files in dir.
func listExportDates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		if !strings.HasPrefix(name, "HealthAutoExport-") {
			continue
		}
		dates = append(dates, strings.TrimSuffix(strings.TrimPrefix(name, "HealthAutoExport-"), ".json"))
	}
	sort.Strings(dates)
	return dates, nil
}
