package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/solstice035/health-analytics/internal/cache"
	"github.com/solstice035/health-analytics/internal/config"
	"github.com/solstice035/health-analytics/internal/hevy"
)

type fakeSource struct {
	workouts    []json.RawMessage
	templates   map[string]hevy.Template
	fetchCalls  int
	templateErr error
}

func (f *fakeSource) FetchWorkouts(ctx context.Context, progress hevy.ProgressCallback) ([]json.RawMessage, error) {
	f.fetchCalls++
	return f.workouts, nil
}

func (f *fakeSource) FetchExerciseTemplates(ctx context.Context) (map[string]hevy.Template, error) {
	if f.templateErr != nil {
		return nil, f.templateErr
	}
	return f.templates, nil
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Load()
	cfg.ExportDir = filepath.Join(root, "exports")
	cfg.DashboardDir = filepath.Join(root, "dashboard")
	cfg.CacheDir = filepath.Join(root, "cache")
	if err := os.MkdirAll(cfg.ExportDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func writeExport(t *testing.T, dir, date string, steps int) {
	t.Helper()
	body := fmt.Sprintf(`{"data":{"metrics":[
		{"name":"step_count","units":"count","data":[{"date":"%s 12:00:00 +0100","qty":%d}]},
		{"name":"apple_exercise_time","units":"min","data":[{"date":"%s 12:00:00 +0100","qty":35}]}
	]}}`, date, steps, date)
	name := fmt.Sprintf("HealthAutoExport-%s.json", date)
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func fixedClock(t *testing.T, date string) func() time.Time {
	t.Helper()
	now, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatal(err)
	}
	return func() time.Time { return now }
}

func TestGenerateHealthWritesArtifacts(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	for i := 1; i <= 10; i++ {
		writeExport(t, cfg.ExportDir, fmt.Sprintf("2025-06-%02d", i), 9000+i*100)
	}

	gen := NewGenerator(cfg, nil, nil).WithClock(fixedClock(t, "2025-06-11"))
	if err := gen.GenerateHealth(context.Background(), 30); err != nil {
		t.Fatalf("GenerateHealth() error: %v", err)
	}

	for _, name := range []string{
		FileDailyTrends, FileWeeklyComparison, FileGoalsProgress,
		FileSummaryStats, FileHRDistribution, FileHealthScore,
		FileInsights, FilePersonalRecords, FileMetadata,
	} {
		if _, err := os.Stat(filepath.Join(cfg.DataDir(), name)); err != nil {
			t.Errorf("artifact %s not written: %v", name, err)
		}
	}

	raw, err := os.ReadFile(filepath.Join(cfg.DataDir(), FileSummaryStats))
	if err != nil {
		t.Fatal(err)
	}
	var summary SummaryStats
	if err := json.Unmarshal(raw, &summary); err != nil {
		t.Fatalf("summary_stats.json invalid: %v", err)
	}
	if summary.DaysCount != 10 {
		t.Errorf("DaysCount = %d, want 10", summary.DaysCount)
	}
	if summary.Totals.ExerciseMinutes != 350 {
		t.Errorf("exercise total = %d, want 350", summary.Totals.ExerciseMinutes)
	}
}

func TestGenerateHealthNoData(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(testConfig(t), nil, nil).WithClock(fixedClock(t, "2025-06-11"))
	if err := gen.GenerateHealth(context.Background(), 30); err == nil {
		t.Error("GenerateHealth() succeeded with no export files")
	}
}

func TestGenerateDeepWritesReport(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	for i := 1; i <= 10; i++ {
		writeExport(t, cfg.ExportDir, fmt.Sprintf("2025-06-%02d", i), 11000)
	}

	gen := NewGenerator(cfg, nil, nil).WithClock(fixedClock(t, "2025-06-11"))
	if err := gen.GenerateDeep(context.Background(), 30); err != nil {
		t.Fatalf("GenerateDeep() error: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(cfg.DataDir(), FileDeepAnalysis))
	if err != nil {
		t.Fatal(err)
	}
	var report map[string]json.RawMessage
	if err := json.Unmarshal(raw, &report); err != nil {
		t.Fatalf("deep_analysis.json invalid: %v", err)
	}
	for _, key := range []string{"overview", "streaks", "personal_records", "anomalies"} {
		if _, ok := report[key]; !ok {
			t.Errorf("report missing %q", key)
		}
	}

	extracts := []string{
		FileDeepInsights,
		FileMonthlyProgress,
		FileWeeklyPatterns,
		FileAllRecords,
		FileCorrelations,
	}
	for _, name := range extracts {
		raw, err := os.ReadFile(filepath.Join(cfg.DataDir(), name))
		if err != nil {
			t.Errorf("missing extract %s: %v", name, err)
			continue
		}
		if !json.Valid(raw) {
			t.Errorf("%s is not valid JSON", name)
		}
	}
}

func TestGenerateWorkoutsUsesCache(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	store, err := cache.New(cfg.CacheDir, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	source := &fakeSource{
		workouts: []json.RawMessage{
			json.RawMessage(`{"id": "w1", "title": "Push Day", "start_time": "2025-06-14T18:00:00Z", "end_time": "2025-06-14T19:00:00Z", "exercises": [{"title": "Bench Press", "sets": [{"type": "normal", "reps": 8, "weight_kg": 80}]}]}`),
		},
	}

	gen := NewGenerator(cfg, source, store).WithClock(fixedClock(t, "2025-06-15"))
	if err := gen.GenerateWorkouts(context.Background()); err != nil {
		t.Fatalf("GenerateWorkouts() error: %v", err)
	}
	if err := gen.GenerateWorkouts(context.Background()); err != nil {
		t.Fatalf("second GenerateWorkouts() error: %v", err)
	}
	if source.fetchCalls != 1 {
		t.Errorf("fetchCalls = %d, want 1 (second run served from cache)", source.fetchCalls)
	}

	raw, err := os.ReadFile(filepath.Join(cfg.DataDir(), FileWorkoutSummary))
	if err != nil {
		t.Fatal(err)
	}
	var summary WorkoutSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		t.Fatal(err)
	}
	if summary.WorkoutCount != 1 || summary.TotalVolumeKg != 640 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestGenerateWorkoutsNoSource(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(testConfig(t), nil, nil)
	if err := gen.GenerateWorkouts(context.Background()); err == nil {
		t.Error("GenerateWorkouts() succeeded without a source")
	}
}
