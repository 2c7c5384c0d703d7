package dashboard

import (
	"testing"
	"time"

	"github.com/solstice035/health-analytics/internal/hevy"
)

func testNow(t *testing.T) time.Time {
	t.Helper()
	now, err := time.Parse("2006-01-02", "2025-06-15")
	if err != nil {
		t.Fatal(err)
	}
	return now
}

func testWorkouts() []hevy.Workout {
	return []hevy.Workout{
		{
			ID: "w1", Date: "2025-06-14", StartTime: "2025-06-14T18:00:00Z", DurationMin: 60,
			Exercises: []hevy.Exercise{
				{Name: "Bench Press", MuscleGroup: "chest", SetCount: 4, TotalReps: 32, VolumeKg: 2400, MaxWeightKg: 85},
				{Name: "Squat", MuscleGroup: "legs", SetCount: 3, TotalReps: 18, VolumeKg: 1800, MaxWeightKg: 110},
			},
		},
		{
			ID: "w2", Date: "2025-06-12", StartTime: "2025-06-12T18:00:00Z", DurationMin: 50,
			Exercises: []hevy.Exercise{
				{Name: "Bench Press", MuscleGroup: "chest", SetCount: 4, TotalReps: 30, VolumeKg: 2200, MaxWeightKg: 80},
			},
		},
	}
}

func TestBuildWorkoutTrends(t *testing.T) {
	t.Parallel()

	trends := BuildWorkoutTrends(testWorkouts(), testNow(t))

	if len(trends.Dates) != 30 {
		t.Fatalf("dates = %d, want 30", len(trends.Dates))
	}
	if trends.Dates[29] != "2025-06-15" {
		t.Errorf("last date = %s, want 2025-06-15 (today)", trends.Dates[29])
	}
	// 2025-06-14 is index 28.
	if trends.WorkoutCount[28] != 1 || trends.VolumeKg[28] != 4200 {
		t.Errorf("day 28 = count %d volume %v", trends.WorkoutCount[28], trends.VolumeKg[28])
	}
	if trends.WorkoutCount[29] != 0 {
		t.Errorf("rest day count = %d, want 0", trends.WorkoutCount[29])
	}
}

func TestBuildWorkoutSummary(t *testing.T) {
	t.Parallel()

	s := BuildWorkoutSummary(testWorkouts(), 30, testNow(t))

	if s.WorkoutCount != 2 {
		t.Errorf("WorkoutCount = %d", s.WorkoutCount)
	}
	if s.AvgWorkoutsPerWeek != 0.5 {
		t.Errorf("AvgWorkoutsPerWeek = %v, want 0.5", s.AvgWorkoutsPerWeek)
	}
	if s.TotalVolumeKg != 6400 {
		t.Errorf("TotalVolumeKg = %v", s.TotalVolumeKg)
	}
	if s.UniqueExercises != 2 || s.TrainingDays != 2 {
		t.Errorf("unique = %d, training days = %d", s.UniqueExercises, s.TrainingDays)
	}
	if s.AvgWorkoutDuration != 55 {
		t.Errorf("AvgWorkoutDuration = %d, want 55", s.AvgWorkoutDuration)
	}
}

func TestBuildWorkoutSummaryEmpty(t *testing.T) {
	t.Parallel()

	s := BuildWorkoutSummary(nil, 30, testNow(t))
	if s.WorkoutCount != 0 || s.TotalVolumeKg != 0 || s.AvgWorkoutsPerWeek != 0 {
		t.Errorf("got %+v, want zero summary", s)
	}
	if s.PeriodDays != 30 {
		t.Errorf("PeriodDays = %d", s.PeriodDays)
	}
}

func TestBuildMuscleGroups(t *testing.T) {
	t.Parallel()

	m := BuildMuscleGroups(testWorkouts(), testNow(t))

	if len(m.Labels) != 2 {
		t.Fatalf("labels = %v", m.Labels)
	}
	// Chest volume 4600 beats legs 1800, labels are title-cased.
	if m.Labels[0] != "Chest" || m.Labels[1] != "Legs" {
		t.Errorf("labels = %v", m.Labels)
	}
	if m.VolumeKg[0] != 4600 {
		t.Errorf("chest volume = %v", m.VolumeKg[0])
	}
	if m.TotalVolumeKg != 6400 {
		t.Errorf("total = %v", m.TotalVolumeKg)
	}
}

func TestBuildExercisePRs(t *testing.T) {
	t.Parallel()

	prs := BuildExercisePRs(testWorkouts(), testNow(t))

	if len(prs.Exercises) != 2 {
		t.Fatalf("exercises = %d", len(prs.Exercises))
	}
	// Sorted by max weight: squat 110 first.
	if prs.Exercises[0].Name != "Squat" {
		t.Errorf("first = %s", prs.Exercises[0].Name)
	}
	bench := prs.Exercises[1]
	if bench.MaxWeightKg != 85 || bench.MaxWeightDate != "2025-06-14" || bench.TotalSessions != 2 {
		t.Errorf("bench = %+v", bench)
	}
}

func TestBuildWorkoutInsightsEmpty(t *testing.T) {
	t.Parallel()

	in := BuildWorkoutInsights(nil, 30, testNow(t))
	if len(in.Insights) != 1 || in.Insights[0].Title != "Start Tracking" {
		t.Errorf("insights = %v", titles(in))
	}
}

func TestBuildWorkoutInsightsRecentPR(t *testing.T) {
	t.Parallel()

	in := BuildWorkoutInsights(testWorkouts(), 30, testNow(t))

	if !hasTitle(in, "New Personal Record") {
		t.Errorf("missing PR card: %v", titles(in))
	}
	// Two workouts over 30 days rounds to under two per week.
	if !hasTitle(in, "Low Training Frequency") {
		t.Errorf("missing frequency card: %v", titles(in))
	}
	if len(in.Insights) > 4 {
		t.Errorf("insights = %d", len(in.Insights))
	}
}

func TestDominantGroupPicksLargest(t *testing.T) {
	t.Parallel()

	group, pct, ok := dominantGroup(map[string]float64{
		"chest": 45,
		"legs":  50,
		"back":  5,
	})
	if !ok || group != "legs" || pct != 50 {
		t.Errorf("dominantGroup = %q %v %v, want legs 50 true", group, pct, ok)
	}

	group, _, ok = dominantGroup(map[string]float64{"chest": 45, "legs": 45, "back": 10})
	if !ok || group != "chest" {
		t.Errorf("tie broke to %q, want chest", group)
	}

	if _, _, ok := dominantGroup(map[string]float64{"chest": 40, "legs": 40, "back": 20}); ok {
		t.Error("no group over 40%% should emit a card")
	}
}

func TestRecentPRPrefersHeaviest(t *testing.T) {
	t.Parallel()

	workouts := []hevy.Workout{
		{
			ID: "w1", Date: "2025-06-01", StartTime: "2025-06-01T18:00:00Z", DurationMin: 60,
			Exercises: []hevy.Exercise{
				{Name: "Bench Press", MuscleGroup: "chest", SetCount: 3, TotalReps: 24, VolumeKg: 1800, MaxWeightKg: 80},
				{Name: "Squat", MuscleGroup: "legs", SetCount: 3, TotalReps: 15, VolumeKg: 1500, MaxWeightKg: 100},
			},
		},
		{
			ID: "w2", Date: "2025-06-14", StartTime: "2025-06-14T18:00:00Z", DurationMin: 60,
			Exercises: []hevy.Exercise{
				{Name: "Bench Press", MuscleGroup: "chest", SetCount: 3, TotalReps: 24, VolumeKg: 1900, MaxWeightKg: 85},
				{Name: "Squat", MuscleGroup: "legs", SetCount: 3, TotalReps: 15, VolumeKg: 1650, MaxWeightKg: 110},
			},
		},
	}

	for i := 0; i < 10; i++ {
		name, ok := recentPR(workouts, testNow(t))
		if !ok || name != "Squat" {
			t.Fatalf("recentPR = %q %v, want Squat true", name, ok)
		}
	}
}
