package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/solstice035/health-analytics/internal/analytics"
	"github.com/solstice035/health-analytics/internal/cache"
	"github.com/solstice035/health-analytics/internal/config"
	"github.com/solstice035/health-analytics/internal/health"
	"github.com/solstice035/health-analytics/internal/hevy"
	"github.com/solstice035/health-analytics/internal/logging"
)

// Artifact file names under the dashboard data directory.
const (
	FileDailyTrends      = "daily_trends.json"
	FileWeeklyComparison = "weekly_comparison.json"
	FileGoalsProgress    = "goals_progress.json"
	FileSummaryStats     = "summary_stats.json"
	FileHRDistribution   = "hr_distribution.json"
	FileHealthScore      = "health_score.json"
	FileInsights         = "insights.json"
	FilePersonalRecords  = "personal_records.json"
	FileMetadata         = "metadata.json"
	FileDeepAnalysis     = "deep_analysis.json"
	FileDeepInsights     = "deep_insights.json"
	FileMonthlyProgress  = "monthly_progression.json"
	FileWeeklyPatterns   = "weekly_patterns.json"
	FileAllRecords       = "all_personal_records.json"
	FileCorrelations     = "correlations.json"
	FileWorkoutTrends    = "workout_trends.json"
	FileWorkoutSummary   = "workout_summary.json"
	FileMuscleGroups     = "muscle_groups.json"
	FileExercisePRs      = "exercise_prs.json"
	FileWorkoutInsights  = "workout_insights.json"
)

const workoutsCacheKey = "hevy_workouts"
const templatesCacheKey = "hevy_exercise_templates"

// WorkoutSource fetches raw workout payloads. *hevy.Client satisfies
// it; tests substitute a fake.
type WorkoutSource interface {
	FetchWorkouts(ctx context.Context, progress hevy.ProgressCallback) ([]json.RawMessage, error)
	FetchExerciseTemplates(ctx context.Context) (map[string]hevy.Template, error)
}

type cachedWorkouts struct {
	Workouts []json.RawMessage `json:"workouts"`
}

// Generator turns raw exports and workout payloads into the full
// artifact set.
type Generator struct {
	cfg        config.Config
	loader     *health.Loader
	deepLoader *health.Loader
	source     WorkoutSource
	store      *cache.Cache
	now        func() time.Time
}

// NewGenerator builds a generator for the given configuration. A nil
// source disables workout artifacts.
func NewGenerator(cfg config.Config, source WorkoutSource, store *cache.Cache) *Generator {
	return &Generator{
		cfg:        cfg,
		loader:     health.NewLoader(cfg.ExportDir, health.RestingHRLast),
		deepLoader: health.NewLoader(cfg.ExportDir, health.RestingHRFirst),
		source:     source,
		store:      store,
		now:        time.Now,
	}
}

// WithClock overrides the generator's clock (for testing).
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// GenerateHealth writes the core health artifacts from the trailing
// window of daily exports, ending yesterday.
func (g *Generator) GenerateHealth(ctx context.Context, days int) error {
	end := g.now().AddDate(0, 0, -1)
	loaded, err := g.loader.LoadRange(ctx, end, days)
	if err != nil {
		return fmt.Errorf("load health data: %w", err)
	}
	logging.Info("Generating health artifacts", "days_loaded", len(loaded), "output_dir", g.cfg.DataDir())

	records := analytics.BuildRecords(loaded)
	now := g.now()
	artifacts := map[string]any{
		FileDailyTrends:      BuildDailyTrends(loaded),
		FileWeeklyComparison: BuildWeeklyComparison(loaded),
		FileGoalsProgress:    BuildGoalsProgress(loaded, g.cfg.Goals),
		FileSummaryStats:     BuildSummaryStats(loaded, g.cfg.Goals),
		FileHRDistribution:   BuildHRDistribution(loaded),
		FileHealthScore:      BuildHealthScore(loaded, g.cfg.Goals),
		FileInsights:         BuildInsights(loaded, g.cfg.Goals),
		FilePersonalRecords:  BuildDashboardRecords(records),
		FileMetadata:         BuildMetadata(loaded, now),
	}
	for name, artifact := range artifacts {
		if err := g.writeJSON(name, artifact); err != nil {
			return err
		}
	}
	return nil
}

// GenerateDeep writes the full analytical report over the trailing
// window. It uses the first-reading resting heart rate policy so
// morning readings drive the long-term trends.
func (g *Generator) GenerateDeep(ctx context.Context, days int) error {
	end := g.now().AddDate(0, 0, -1)
	loaded, err := g.deepLoader.LoadRange(ctx, end, days)
	if err != nil {
		return fmt.Errorf("load health data: %w", err)
	}
	logging.Info("Generating deep analysis", "days_loaded", len(loaded))

	report := analytics.BuildReport(loaded, analytics.ScoreGoals{
		Steps:           g.cfg.Goals.Steps,
		ExerciseMinutes: g.cfg.Goals.ExerciseMinutes,
		StandHours:      g.cfg.Goals.StandHours,
	})

	// The full report plus standalone extracts the dashboard reads
	// without loading the whole document.
	artifacts := map[string]any{
		FileDeepAnalysis:    report,
		FileDeepInsights:    report.Insights,
		FileMonthlyProgress: report.MonthlyProgression,
		FileWeeklyPatterns:  report.WeeklyPatterns,
		FileAllRecords:      report.PersonalRecords,
		FileCorrelations:    report.Correlations,
	}
	for name, artifact := range artifacts {
		if err := g.writeJSON(name, artifact); err != nil {
			return err
		}
	}
	return nil
}

// GenerateWorkouts fetches (or re-reads cached) workout payloads and
// writes the training artifacts.
func (g *Generator) GenerateWorkouts(ctx context.Context) error {
	if g.source == nil {
		return hevy.ErrMissingAPIKey
	}

	workouts, err := g.loadWorkouts(ctx)
	if err != nil {
		return err
	}
	logging.Info("Generating workout artifacts", "workouts", len(workouts))

	now := g.now()
	artifacts := map[string]any{
		FileWorkoutTrends:   BuildWorkoutTrends(workouts, now),
		FileWorkoutSummary:  BuildWorkoutSummary(workouts, workoutTrendDays, now),
		FileMuscleGroups:    BuildMuscleGroups(workouts, now),
		FileExercisePRs:     BuildExercisePRs(workouts, now),
		FileWorkoutInsights: BuildWorkoutInsights(workouts, workoutTrendDays, now),
	}
	for name, artifact := range artifacts {
		if err := g.writeJSON(name, artifact); err != nil {
			return err
		}
	}
	return nil
}

// GenerateAll runs every generation step. Workout artifacts are
// skipped quietly when no API key is configured.
func (g *Generator) GenerateAll(ctx context.Context, days int) error {
	if err := g.GenerateHealth(ctx, days); err != nil {
		return err
	}
	if err := g.GenerateDeep(ctx, days); err != nil {
		return err
	}
	if err := g.GenerateWorkouts(ctx); err != nil {
		if errors.Is(err, hevy.ErrMissingAPIKey) {
			logging.Warn("Skipping workout artifacts, no API key configured")
			return nil
		}
		return err
	}
	return nil
}

// LoadDaily exposes the dashboard-policy loader for callers that need
// raw aggregates (the MCP server, ad hoc analysis).
func (g *Generator) LoadDaily(ctx context.Context, days int) ([]health.DailyAggregate, error) {
	end := g.now().AddDate(0, 0, -1)
	return g.loader.LoadRange(ctx, end, days)
}

// LoadDay loads the aggregate for a single calendar day.
func (g *Generator) LoadDay(ctx context.Context, date string) (health.DailyAggregate, error) {
	if _, err := time.Parse(health.DateLayout, date); err != nil {
		return health.DailyAggregate{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return g.loader.LoadDay(ctx, date)
}

// LoadWorkouts exposes parsed workouts for callers outside artifact
// generation.
func (g *Generator) LoadWorkouts(ctx context.Context) ([]hevy.Workout, error) {
	if g.source == nil {
		return nil, hevy.ErrMissingAPIKey
	}
	return g.loadWorkouts(ctx)
}

func (g *Generator) loadWorkouts(ctx context.Context) ([]hevy.Workout, error) {
	var raw []json.RawMessage
	var cached cachedWorkouts
	if g.store != nil && g.store.Get(workoutsCacheKey, &cached) {
		raw = cached.Workouts
	} else {
		fetched, err := g.source.FetchWorkouts(ctx, func(page, pageCount, total int) {
			logging.Debug("Fetched workout page", "page", page, "page_count", pageCount, "total", total)
		})
		if err != nil {
			return nil, fmt.Errorf("fetch workouts: %w", err)
		}
		raw = fetched
		if g.store != nil {
			if err := g.store.Put(workoutsCacheKey, cachedWorkouts{Workouts: raw}, ""); err != nil {
				logging.Warn("Failed to cache workouts", "error", err)
			}
		}
	}

	var templates map[string]hevy.Template
	if g.store == nil || !g.store.Get(templatesCacheKey, &templates) {
		fetched, err := g.source.FetchExerciseTemplates(ctx)
		if err != nil {
			// Templates only refine muscle-group attribution.
			logging.Warn("Failed to fetch exercise templates", "error", err)
		} else {
			templates = fetched
			if g.store != nil {
				if err := g.store.Put(templatesCacheKey, templates, ""); err != nil {
					logging.Warn("Failed to cache templates", "error", err)
				}
			}
		}
	}

	return hevy.ParseWorkouts(raw, templates), nil
}

// writeJSON writes an artifact atomically via a temp file rename so
// the dashboard never reads a half-written file.
func (g *Generator) writeJSON(name string, v any) error {
	dir := g.cfg.DataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	logging.Debug("Wrote artifact", "file", name, "bytes", len(raw))
	return nil
}
