package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/solstice035/health-analytics/internal/config"
	"github.com/solstice035/health-analytics/internal/health"
	"github.com/solstice035/health-analytics/internal/hevy"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	daily      []health.DailyAggregate
	workouts   []hevy.Workout
	workoutErr error
	lastDays   int
}

func (m *MockProvider) LoadDaily(ctx context.Context, days int) ([]health.DailyAggregate, error) {
	m.lastDays = days
	if len(m.daily) == 0 {
		return nil, health.ErrNoData
	}
	if days < len(m.daily) {
		return m.daily[len(m.daily)-days:], nil
	}
	return m.daily, nil
}

func (m *MockProvider) LoadDay(ctx context.Context, date string) (health.DailyAggregate, error) {
	for _, d := range m.daily {
		if d.Date == date {
			return d, nil
		}
	}
	return health.DailyAggregate{}, fmt.Errorf("%w: %s", health.ErrNoData, date)
}

func (m *MockProvider) LoadWorkouts(ctx context.Context) ([]hevy.Workout, error) {
	if m.workoutErr != nil {
		return nil, m.workoutErr
	}
	return m.workouts, nil
}

func testGoals() config.Goals {
	return config.Goals{Steps: 10000, ExerciseMinutes: 30, StandHours: 12}
}

func ip(n int) *int { return &n }

// testDaily returns a week where every goal is hit and recovery is strong.
func testDaily() []health.DailyAggregate {
	days := make([]health.DailyAggregate, 7)
	for i := range days {
		days[i] = health.DailyAggregate{
			Date:        fmt.Sprintf("2025-06-%02d", i+1),
			Steps:       10000,
			ExerciseMin: 30,
			StandHours:  12,
			DistanceKm:  7.5,
			RestingHR:   ip(55),
			HRVAvg:      ip(60),
		}
	}
	return days
}

func testWorkouts() []hevy.Workout {
	return []hevy.Workout{
		{
			ID: "w1", Name: "Push Day", Date: "2025-06-10", DurationMin: 60,
			Exercises: []hevy.Exercise{
				{Name: "Bench Press", MuscleGroup: "chest", SetCount: 3, TotalReps: 24, VolumeKg: 1800, MaxWeightKg: 80},
			},
		},
		{
			ID: "w2", Name: "Leg Day", Date: "2025-06-14", DurationMin: 50,
			Exercises: []hevy.Exercise{
				{Name: "Squat", MuscleGroup: "legs", SetCount: 2, TotalReps: 10, VolumeKg: 800, MaxWeightKg: 100},
			},
		},
	}
}

func testServer(provider *MockProvider, dataDir string) *Server {
	s := New(provider, testGoals(), dataDir)
	return s.WithClock(func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	})
}

func toolErrorCode(t *testing.T, err error) ErrorCode {
	t.Helper()
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	return toolErr.Code
}

func TestGetHealthSummary(t *testing.T) {
	t.Parallel()
	provider := &MockProvider{daily: testDaily()}
	s := testServer(provider, t.TempDir())

	_, out, err := s.getHealthSummary(context.Background(), &mcp.CallToolRequest{}, HealthSummaryInput{Days: 7})
	if err != nil {
		t.Fatalf("getHealthSummary: %v", err)
	}
	if provider.lastDays != 7 {
		t.Errorf("loaded %d days, want 7", provider.lastDays)
	}
	if out.DaysCount != 7 {
		t.Errorf("DaysCount = %d, want 7", out.DaysCount)
	}
	if out.Totals.Steps != 70000 {
		t.Errorf("Totals.Steps = %d, want 70000", out.Totals.Steps)
	}
	if out.Averages.RestingHR != 55 {
		t.Errorf("Averages.RestingHR = %d, want 55", out.Averages.RestingHR)
	}
}

func TestGetHealthSummaryDefaultDays(t *testing.T) {
	t.Parallel()
	provider := &MockProvider{daily: testDaily()}
	s := testServer(provider, t.TempDir())

	if _, _, err := s.getHealthSummary(context.Background(), &mcp.CallToolRequest{}, HealthSummaryInput{}); err != nil {
		t.Fatalf("getHealthSummary: %v", err)
	}
	if provider.lastDays != 30 {
		t.Errorf("loaded %d days, want default 30", provider.lastDays)
	}
}

func TestGetHealthSummaryNoData(t *testing.T) {
	t.Parallel()
	s := testServer(&MockProvider{}, t.TempDir())

	_, _, err := s.getHealthSummary(context.Background(), &mcp.CallToolRequest{}, HealthSummaryInput{Days: 7})
	if err == nil {
		t.Fatal("expected error for empty provider")
	}
	if code := toolErrorCode(t, err); code != ErrNoData {
		t.Errorf("code = %s, want %s", code, ErrNoData)
	}
}

func TestGetHealthScore(t *testing.T) {
	t.Parallel()
	s := testServer(&MockProvider{daily: testDaily()}, t.TempDir())

	_, out, err := s.getHealthScore(context.Background(), &mcp.CallToolRequest{}, HealthScoreInput{Days: 7})
	if err != nil {
		t.Fatalf("getHealthScore: %v", err)
	}
	if out.Score != 100 {
		t.Errorf("Score = %d, want 100", out.Score)
	}
	if out.Level != "excellent" {
		t.Errorf("Level = %q, want excellent", out.Level)
	}
}

func TestGetInsights(t *testing.T) {
	t.Parallel()
	s := testServer(&MockProvider{daily: testDaily()}, t.TempDir())

	_, out, err := s.getInsights(context.Background(), &mcp.CallToolRequest{}, InsightsInput{Days: 7})
	if err != nil {
		t.Fatalf("getInsights: %v", err)
	}
	if len(out.Insights) == 0 {
		t.Fatal("expected at least one insight")
	}
	if len(out.Insights) > 4 {
		t.Errorf("got %d insights, want at most 4", len(out.Insights))
	}
}

func TestGetPersonalRecords(t *testing.T) {
	t.Parallel()
	daily := testDaily()
	daily[3].Steps = 18000
	s := testServer(&MockProvider{daily: daily}, t.TempDir())

	_, out, err := s.getPersonalRecords(context.Background(), &mcp.CallToolRequest{}, PersonalRecordsInput{Days: 7})
	if err != nil {
		t.Fatalf("getPersonalRecords: %v", err)
	}
	if !out.MaxSteps.Set() {
		t.Fatal("expected a max steps record")
	}
	if out.MaxSteps.Value != 18000 || *out.MaxSteps.Date != "2025-06-04" {
		t.Errorf("MaxSteps = %+v, want 18000 on 2025-06-04", out.MaxSteps)
	}
}

func TestAnalyzeDate(t *testing.T) {
	t.Parallel()
	s := testServer(&MockProvider{daily: testDaily()}, t.TempDir())

	_, out, err := s.analyzeDate(context.Background(), &mcp.CallToolRequest{}, AnalyzeDateInput{Date: "2025-06-03"})
	if err != nil {
		t.Fatalf("analyzeDate: %v", err)
	}
	if out.Date != "2025-06-03" || out.Steps != 10000 {
		t.Errorf("got %s with %d steps, want 2025-06-03 with 10000", out.Date, out.Steps)
	}
}

func TestAnalyzeDateMissing(t *testing.T) {
	t.Parallel()
	s := testServer(&MockProvider{daily: testDaily()}, t.TempDir())

	_, _, err := s.analyzeDate(context.Background(), &mcp.CallToolRequest{}, AnalyzeDateInput{Date: "2024-01-01"})
	if err == nil {
		t.Fatal("expected error for absent date")
	}
	if code := toolErrorCode(t, err); code != ErrNoData {
		t.Errorf("code = %s, want %s", code, ErrNoData)
	}
}

func TestAnalyzeDateRequiresDate(t *testing.T) {
	t.Parallel()
	s := testServer(&MockProvider{daily: testDaily()}, t.TempDir())

	_, _, err := s.analyzeDate(context.Background(), &mcp.CallToolRequest{}, AnalyzeDateInput{})
	if err == nil {
		t.Fatal("expected error for missing date")
	}
	if code := toolErrorCode(t, err); code != ErrInvalidInput {
		t.Errorf("code = %s, want %s", code, ErrInvalidInput)
	}
}

func TestComparePeriodsLoadsDoubleWindow(t *testing.T) {
	t.Parallel()
	provider := &MockProvider{daily: testDaily()}
	s := testServer(provider, t.TempDir())

	_, out, err := s.comparePeriods(context.Background(), &mcp.CallToolRequest{}, ComparePeriodsInput{WindowDays: 30})
	if err != nil {
		t.Fatalf("comparePeriods: %v", err)
	}
	if provider.lastDays != 60 {
		t.Errorf("loaded %d days, want 60", provider.lastDays)
	}
	if out.WindowDays != 30 {
		t.Errorf("WindowDays = %d, want 30", out.WindowDays)
	}
	// Only 7 days of data, not enough for two 30-day windows.
	if out.Metrics != nil {
		t.Errorf("Metrics = %v, want nil for a short history", out.Metrics)
	}
}

func TestGetWorkoutSummary(t *testing.T) {
	t.Parallel()
	s := testServer(&MockProvider{workouts: testWorkouts()}, t.TempDir())

	_, out, err := s.getWorkoutSummary(context.Background(), &mcp.CallToolRequest{}, WorkoutSummaryInput{Days: 30})
	if err != nil {
		t.Fatalf("getWorkoutSummary: %v", err)
	}
	if out.WorkoutCount != 2 {
		t.Errorf("WorkoutCount = %d, want 2", out.WorkoutCount)
	}
	if out.TotalVolumeKg != 2600 {
		t.Errorf("TotalVolumeKg = %v, want 2600", out.TotalVolumeKg)
	}
	if out.AvgWorkoutsPerWeek != 0.5 {
		t.Errorf("AvgWorkoutsPerWeek = %v, want 0.5", out.AvgWorkoutsPerWeek)
	}
}

func TestGetWorkoutSummaryNotConfigured(t *testing.T) {
	t.Parallel()
	s := testServer(&MockProvider{workoutErr: hevy.ErrMissingAPIKey}, t.TempDir())

	_, _, err := s.getWorkoutSummary(context.Background(), &mcp.CallToolRequest{}, WorkoutSummaryInput{})
	if err == nil {
		t.Fatal("expected error when no API key is configured")
	}
	if code := toolErrorCode(t, err); code != ErrInvalidInput {
		t.Errorf("code = %s, want %s", code, ErrInvalidInput)
	}
}

func TestGetMuscleGroups(t *testing.T) {
	t.Parallel()
	s := testServer(&MockProvider{workouts: testWorkouts()}, t.TempDir())

	_, out, err := s.getMuscleGroups(context.Background(), &mcp.CallToolRequest{}, MuscleGroupsInput{})
	if err != nil {
		t.Fatalf("getMuscleGroups: %v", err)
	}
	if len(out.Labels) != 2 || out.Labels[0] != "Chest" || out.Labels[1] != "Legs" {
		t.Errorf("Labels = %v, want [Chest Legs]", out.Labels)
	}
	if out.TotalVolumeKg != 2600 {
		t.Errorf("TotalVolumeKg = %v, want 2600", out.TotalVolumeKg)
	}
}

func TestReadDayResource(t *testing.T) {
	t.Parallel()
	s := testServer(&MockProvider{daily: testDaily()}, t.TempDir())

	req := &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "health://day/2025-06-02"}}
	res, err := s.readDay(context.Background(), req)
	if err != nil {
		t.Fatalf("readDay: %v", err)
	}
	if len(res.Contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(res.Contents))
	}
	var day health.DailyAggregate
	if err := json.Unmarshal([]byte(res.Contents[0].Text), &day); err != nil {
		t.Fatalf("unmarshal resource text: %v", err)
	}
	if day.Date != "2025-06-02" || day.Steps != 10000 {
		t.Errorf("got %s with %d steps, want 2025-06-02 with 10000", day.Date, day.Steps)
	}
}

func TestReadDayResourceMissing(t *testing.T) {
	t.Parallel()
	s := testServer(&MockProvider{daily: testDaily()}, t.TempDir())

	req := &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "health://day/2024-01-01"}}
	res, err := s.readDay(context.Background(), req)
	if err != nil {
		t.Fatalf("readDay: %v", err)
	}
	if !strings.Contains(res.Contents[0].Text, "error") {
		t.Errorf("expected inline error payload, got %s", res.Contents[0].Text)
	}
}

func TestReadArtifactResource(t *testing.T) {
	t.Parallel()
	dataDir := t.TempDir()
	payload := `{"version": "2.0.0"}`
	if err := os.WriteFile(filepath.Join(dataDir, "metadata.json"), []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}
	s := testServer(&MockProvider{}, dataDir)

	req := &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "health://artifact/metadata.json"}}
	res, err := s.readArtifact(context.Background(), req)
	if err != nil {
		t.Fatalf("readArtifact: %v", err)
	}
	if res.Contents[0].Text != payload {
		t.Errorf("Text = %s, want %s", res.Contents[0].Text, payload)
	}
}

func TestReadArtifactResourceRejectsTraversal(t *testing.T) {
	t.Parallel()
	s := testServer(&MockProvider{}, t.TempDir())

	req := &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "health://artifact/../secrets.json"}}
	res, err := s.readArtifact(context.Background(), req)
	if err != nil {
		t.Fatalf("readArtifact: %v", err)
	}
	if !strings.Contains(res.Contents[0].Text, "error") {
		t.Errorf("expected inline error payload, got %s", res.Contents[0].Text)
	}
}

func TestReadArtifactResourceNotGenerated(t *testing.T) {
	t.Parallel()
	s := testServer(&MockProvider{}, t.TempDir())

	req := &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "health://artifact/daily_trends.json"}}
	res, err := s.readArtifact(context.Background(), req)
	if err != nil {
		t.Fatalf("readArtifact: %v", err)
	}
	if !strings.Contains(res.Contents[0].Text, "not been generated") {
		t.Errorf("expected missing-artifact payload, got %s", res.Contents[0].Text)
	}
}

func TestWeeklyReviewPrompt(t *testing.T) {
	t.Parallel()
	s := testServer(&MockProvider{}, t.TempDir())

	req := &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{
		Arguments: map[string]string{"focus": "recovery"},
	}}
	res, err := s.weeklyReviewPrompt(context.Background(), req)
	if err != nil {
		t.Fatalf("weeklyReviewPrompt: %v", err)
	}
	if len(res.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(res.Messages))
	}
	text := res.Messages[0].Content.(*mcp.TextContent).Text
	if !strings.Contains(text, "recovery focus") {
		t.Errorf("prompt text missing focus argument: %s", text)
	}
	if !strings.Contains(text, "get_health_summary") {
		t.Errorf("prompt text should reference tools: %s", text)
	}
}

func TestProviderInterface(t *testing.T) {
	t.Parallel()
	// Compile-time check plus a sanity call through the interface.
	var p Provider = &MockProvider{daily: testDaily()}
	days, err := p.LoadDaily(context.Background(), 3)
	if err != nil {
		t.Fatalf("LoadDaily: %v", err)
	}
	if len(days) != 3 {
		t.Errorf("got %d days, want 3", len(days))
	}
}
