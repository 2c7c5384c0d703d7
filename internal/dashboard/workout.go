package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/solstice035/health-analytics/internal/analytics"
	"github.com/solstice035/health-analytics/internal/hevy"
)

const (
	workoutTrendDays = 30
	muscleGroupDays  = 30
	maxExercisePRs   = 20
	prHighlightDays  = 7
)

// WorkoutTrends is the per-day training series for the trend charts.
type WorkoutTrends struct {
	Dates           []string  `json:"dates"`
	WorkoutCount    []int     `json:"workout_count"`
	VolumeKg        []float64 `json:"volume_kg"`
	DurationMinutes []int     `json:"duration_minutes"`
	Sets            []int     `json:"sets"`
	Exercises       []int     `json:"exercises"`
}

// BuildWorkoutTrends covers the trailing workoutTrendDays including
// today, with zeros on rest days.
func BuildWorkoutTrends(workouts []hevy.Workout, now time.Time) WorkoutTrends {
	t := WorkoutTrends{}
	for i := workoutTrendDays - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		totals := hevy.TotalsForDate(workouts, date)
		t.Dates = append(t.Dates, date)
		t.WorkoutCount = append(t.WorkoutCount, totals.WorkoutCount)
		t.VolumeKg = append(t.VolumeKg, totals.TotalVolumeKg)
		t.DurationMinutes = append(t.DurationMinutes, totals.DurationMin)
		t.Sets = append(t.Sets, totals.TotalSets)
		t.Exercises = append(t.Exercises, totals.ExerciseCount)
	}
	return t
}

// WorkoutSummary is the headline training artifact for the period.
type WorkoutSummary struct {
	PeriodDays          int     `json:"period_days"`
	WorkoutCount        int     `json:"workout_count"`
	AvgWorkoutsPerWeek  float64 `json:"avg_workouts_per_week"`
	TotalVolumeKg       float64 `json:"total_volume_kg"`
	TotalSets           int     `json:"total_sets"`
	TotalReps           int     `json:"total_reps"`
	TotalDurationMin    int     `json:"total_duration_minutes"`
	AvgWorkoutDuration  int     `json:"avg_workout_duration"`
	UniqueExercises     int     `json:"unique_exercises"`
	TrainingDays        int     `json:"training_days"`
}

// BuildWorkoutSummary folds the trailing period into summary numbers.
// Returns an all-zero summary when no workouts fall in the window.
func BuildWorkoutSummary(workouts []hevy.Workout, days int, now time.Time) WorkoutSummary {
	s := WorkoutSummary{PeriodDays: days}
	cutoff := now.AddDate(0, 0, -days).Format("2006-01-02")

	exercises := map[string]bool{}
	trainingDays := map[string]bool{}
	var volume float64
	var duration int
	for _, w := range workouts {
		if w.Date < cutoff {
			continue
		}
		s.WorkoutCount++
		duration += w.DurationMin
		trainingDays[w.Date] = true
		for _, ex := range w.Exercises {
			exercises[ex.Name] = true
			volume += ex.VolumeKg
			s.TotalSets += ex.SetCount
			s.TotalReps += ex.TotalReps
		}
	}
	if s.WorkoutCount == 0 {
		return s
	}

	s.AvgWorkoutsPerWeek = round1(float64(s.WorkoutCount) / (float64(days) / 7))
	s.TotalVolumeKg = math.Round(volume)
	s.TotalDurationMin = duration
	s.AvgWorkoutDuration = int(math.Round(float64(duration) / float64(s.WorkoutCount)))
	s.UniqueExercises = len(exercises)
	s.TrainingDays = len(trainingDays)
	return s
}

// MuscleGroups is the muscle-split chart input, sorted by volume.
type MuscleGroups struct {
	Labels        []string  `json:"labels"`
	VolumeKg      []float64 `json:"volume_kg"`
	Percentages   []float64 `json:"percentages"`
	Sets          []int     `json:"sets"`
	Frequency     []int     `json:"frequency"`
	TotalVolumeKg float64   `json:"total_volume_kg"`
}

// BuildMuscleGroups renders the trailing month's muscle split with
// title-cased labels, largest volume first.
func BuildMuscleGroups(workouts []hevy.Workout, now time.Time) MuscleGroups {
	stats := hevy.GroupStats(workouts, muscleGroupDays, now)

	groups := make([]string, 0, len(stats.Volume))
	for g := range stats.Volume {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if stats.Volume[groups[i]] != stats.Volume[groups[j]] {
			return stats.Volume[groups[i]] > stats.Volume[groups[j]]
		}
		return groups[i] < groups[j]
	})

	m := MuscleGroups{}
	var total float64
	for _, g := range groups {
		m.Labels = append(m.Labels, titleCase(g))
		m.VolumeKg = append(m.VolumeKg, stats.Volume[g])
		m.Percentages = append(m.Percentages, stats.Percentages[g])
		m.Sets = append(m.Sets, stats.Sets[g])
		m.Frequency = append(m.Frequency, stats.Frequency[g])
		total += stats.Volume[g]
	}
	m.TotalVolumeKg = math.Round(total)
	return m
}

// ExercisePRs lists per-exercise bests, heaviest first.
type ExercisePRs struct {
	Exercises   []hevy.ExerciseRecord `json:"exercises"`
	GeneratedAt string                `json:"generated_at"`
}

// BuildExercisePRs keeps the top maxExercisePRs exercises by max
// weight.
func BuildExercisePRs(workouts []hevy.Workout, now time.Time) ExercisePRs {
	records := hevy.Records(workouts)

	list := make([]hevy.ExerciseRecord, 0, len(records))
	for _, rec := range records {
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].MaxWeightKg != list[j].MaxWeightKg {
			return list[i].MaxWeightKg > list[j].MaxWeightKg
		}
		return list[i].Name < list[j].Name
	})
	if len(list) > maxExercisePRs {
		list = list[:maxExercisePRs]
	}
	return ExercisePRs{Exercises: list, GeneratedAt: now.Format(time.RFC3339)}
}

// BuildWorkoutInsights produces at most four training cards.
func BuildWorkoutInsights(workouts []hevy.Workout, days int, now time.Time) Insights {
	summary := BuildWorkoutSummary(workouts, days, now)
	if summary.WorkoutCount == 0 {
		return Insights{Insights: []analytics.Insight{{
			Type:  analytics.InsightNeutral,
			Icon:  "📊",
			Title: "Start Tracking",
			Text:  "No workouts logged recently. Your next session starts the data.",
		}}}
	}

	var cards []analytics.Insight
	add := func(ins analytics.Insight) {
		if len(cards) < maxInsights {
			cards = append(cards, ins)
		}
	}

	switch {
	case summary.AvgWorkoutsPerWeek >= 4:
		add(analytics.Insight{
			Type:  analytics.InsightPositive,
			Icon:  "💪",
			Title: "Consistent Training",
			Text:  fmt.Sprintf("Averaging %.1f workouts per week. Excellent consistency.", summary.AvgWorkoutsPerWeek),
		})
	case summary.AvgWorkoutsPerWeek >= 2:
		add(analytics.Insight{
			Type:  analytics.InsightPositive,
			Icon:  "📈",
			Title: "Good Progress",
			Text:  fmt.Sprintf("Averaging %.1f workouts per week. Building a solid habit.", summary.AvgWorkoutsPerWeek),
		})
	default:
		add(analytics.Insight{
			Type:  analytics.InsightWarning,
			Icon:  "📉",
			Title: "Low Training Frequency",
			Text:  fmt.Sprintf("Averaging %.1f workouts per week. Aim for at least two.", summary.AvgWorkoutsPerWeek),
		})
	}

	weeklyVolume := summary.TotalVolumeKg / (float64(days) / 7)
	if weeklyVolume > 20000 {
		add(analytics.Insight{
			Type:  analytics.InsightPositive,
			Icon:  "🏋️",
			Title: "High Volume Week",
			Text:  fmt.Sprintf("Moving about %.0f kg per week. Serious work.", weeklyVolume),
		})
	} else if weeklyVolume > 10000 {
		add(analytics.Insight{
			Type:  analytics.InsightPositive,
			Icon:  "🔥",
			Title: "Solid Training Volume",
			Text:  fmt.Sprintf("Moving about %.0f kg per week.", weeklyVolume),
		})
	}

	groups := hevy.GroupStats(workouts, days, now)
	if group, pct, ok := dominantGroup(groups.Percentages); ok {
		add(analytics.Insight{
			Type:  analytics.InsightWarning,
			Icon:  "⚖️",
			Title: "Unbalanced Training",
			Text:  fmt.Sprintf("%s is %.0f%% of your volume. Consider balancing muscle groups.", titleCase(group), pct),
		})
	}

	if summary.AvgWorkoutDuration > 90 {
		add(analytics.Insight{
			Type:  analytics.InsightNeutral,
			Icon:  "⏱️",
			Title: "Long Sessions",
			Text:  fmt.Sprintf("Workouts average %d minutes. Long sessions can cut intensity.", summary.AvgWorkoutDuration),
		})
	} else if summary.AvgWorkoutDuration >= 45 && summary.AvgWorkoutDuration <= 75 {
		add(analytics.Insight{
			Type:  analytics.InsightPositive,
			Icon:  "✅",
			Title: "Optimal Duration",
			Text:  fmt.Sprintf("Workouts average %d minutes, right in the effective range.", summary.AvgWorkoutDuration),
		})
	}

	if name, ok := recentPR(workouts, now); ok {
		add(analytics.Insight{
			Type:  analytics.InsightPositive,
			Icon:  "🏆",
			Title: "New Personal Record",
			Text:  fmt.Sprintf("New max weight on %s within the last week.", name),
		})
	}

	if len(cards) == 0 {
		cards = append(cards, analytics.Insight{
			Type:  analytics.InsightPositive,
			Icon:  "💪",
			Title: "Keep Training",
			Text:  "Training logged and counted. Keep showing up.",
		})
	}
	return Insights{Insights: cards}
}

// dominantGroup picks the muscle group with the largest share of
// volume when that share exceeds 40%. Ties break on name so repeated
// builds emit the same card.
func dominantGroup(percentages map[string]float64) (string, float64, bool) {
	var best string
	var bestPct float64
	for group, pct := range percentages {
		if pct > bestPct || (pct == bestPct && (best == "" || group < best)) {
			best, bestPct = group, pct
		}
	}
	if bestPct <= 40 {
		return "", 0, false
	}
	return best, bestPct, true
}

// recentPR reports the exercise whose all-time max weight was set in
// the last week, preferring the heaviest when several qualify.
func recentPR(workouts []hevy.Workout, now time.Time) (string, bool) {
	cutoff := now.AddDate(0, 0, -prHighlightDays).Format("2006-01-02")
	var best string
	var bestWeight float64
	for _, rec := range hevy.Records(workouts) {
		if rec.MaxWeightKg <= 0 || rec.MaxWeightDate < cutoff || rec.TotalSessions <= 1 {
			continue
		}
		if rec.MaxWeightKg > bestWeight || (rec.MaxWeightKg == bestWeight && (best == "" || rec.Name < best)) {
			best, bestWeight = rec.Name, rec.MaxWeightKg
		}
	}
	return best, best != ""
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
