package hevy

import (
	"math"
	"sort"
	"time"
)

// DayTotals summarises all training activity on one calendar day.
type DayTotals struct {
	WorkoutCount  int      `json:"workout_count"`
	TotalVolumeKg float64  `json:"total_volume_kg"`
	TotalSets     int      `json:"total_sets"`
	TotalReps     int      `json:"total_reps"`
	DurationMin   int      `json:"workout_duration_minutes"`
	ExerciseCount int      `json:"exercise_count"`
	MuscleGroups  []string `json:"muscle_groups"`
}

// TotalsForDate folds every workout on the given date into day totals.
func TotalsForDate(workouts []Workout, date string) DayTotals {
	var t DayTotals
	groups := map[string]bool{}
	for _, w := range workouts {
		if w.Date != date {
			continue
		}
		t.WorkoutCount++
		t.DurationMin += w.DurationMin
		for _, ex := range w.Exercises {
			t.ExerciseCount++
			t.TotalVolumeKg += ex.VolumeKg
			t.TotalSets += ex.SetCount
			t.TotalReps += ex.TotalReps
			groups[ex.MuscleGroup] = true
		}
	}
	t.TotalVolumeKg = round1(t.TotalVolumeKg)
	t.MuscleGroups = sortedKeys(groups)
	return t
}

// ExerciseRecord is the all-time bests for one exercise.
type ExerciseRecord struct {
	Name          string  `json:"name"`
	MaxWeightKg   float64 `json:"max_weight_kg"`
	MaxWeightDate string  `json:"max_weight_date"`
	MaxVolumeKg   float64 `json:"max_volume_kg"`
	MaxVolumeDate string  `json:"max_volume_date"`
	TotalSessions int     `json:"total_sessions"`
}

// Records computes per-exercise personal records across all workouts.
// Max volume is the heaviest single-session volume for the exercise.
func Records(workouts []Workout) map[string]ExerciseRecord {
	records := make(map[string]ExerciseRecord)
	for _, w := range workouts {
		for _, ex := range w.Exercises {
			rec := records[ex.Name]
			rec.Name = ex.Name
			rec.TotalSessions++
			if ex.MaxWeightKg > rec.MaxWeightKg {
				rec.MaxWeightKg = ex.MaxWeightKg
				rec.MaxWeightDate = w.Date
			}
			if ex.VolumeKg > rec.MaxVolumeKg {
				rec.MaxVolumeKg = ex.VolumeKg
				rec.MaxVolumeDate = w.Date
			}
			records[ex.Name] = rec
		}
	}
	return records
}

// MuscleGroupStats breaks recent training down by muscle group.
type MuscleGroupStats struct {
	PeriodDays   int                `json:"period_days"`
	WorkoutCount int                `json:"workout_count"`
	Volume       map[string]float64 `json:"volume_distribution"`
	Percentages  map[string]float64 `json:"volume_percentages"`
	Frequency    map[string]int     `json:"frequency_distribution"`
	Sets         map[string]int     `json:"sets_distribution"`
}

// GroupStats aggregates muscle-group volume, set, and frequency
// distributions over the trailing period. Frequency counts workouts
// that touched the group at least once.
func GroupStats(workouts []Workout, days int, now time.Time) MuscleGroupStats {
	stats := MuscleGroupStats{
		PeriodDays:  days,
		Volume:      map[string]float64{},
		Percentages: map[string]float64{},
		Frequency:   map[string]int{},
		Sets:        map[string]int{},
	}
	cutoff := now.AddDate(0, 0, -days).Format("2006-01-02")

	var totalVolume float64
	for _, w := range workouts {
		if w.Date < cutoff {
			continue
		}
		stats.WorkoutCount++
		seen := map[string]bool{}
		for _, ex := range w.Exercises {
			stats.Volume[ex.MuscleGroup] += ex.VolumeKg
			stats.Sets[ex.MuscleGroup] += ex.SetCount
			totalVolume += ex.VolumeKg
			if !seen[ex.MuscleGroup] {
				seen[ex.MuscleGroup] = true
				stats.Frequency[ex.MuscleGroup]++
			}
		}
	}

	for group, vol := range stats.Volume {
		stats.Volume[group] = round1(vol)
		if totalVolume > 0 {
			stats.Percentages[group] = round1(vol / totalVolume * 100)
		}
	}
	return stats
}

// WeeklySummary is one Monday-to-Sunday training week.
type WeeklySummary struct {
	WeekStart     string   `json:"week_start"`
	WeekEnd       string   `json:"week_end"`
	WorkoutCount  int      `json:"workout_count"`
	TotalVolumeKg float64  `json:"total_volume_kg"`
	TotalSets     int      `json:"total_sets"`
	AvgDuration   int      `json:"avg_duration"`
	MuscleGroups  []string `json:"muscle_groups"`
}

// WeeklySummaries returns the trailing weeks, oldest first, with the
// current week last.
func WeeklySummaries(workouts []Workout, weeks int, now time.Time) []WeeklySummary {
	// Walk back to Monday of the current week.
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := now.AddDate(0, 0, -(weekday - 1))

	out := make([]WeeklySummary, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		start := monday.AddDate(0, 0, -7*i)
		end := start.AddDate(0, 0, 6)
		startStr := start.Format("2006-01-02")
		endStr := end.Format("2006-01-02")

		summary := WeeklySummary{WeekStart: startStr, WeekEnd: endStr}
		groups := map[string]bool{}
		var totalDuration int
		for _, w := range workouts {
			if w.Date < startStr || w.Date > endStr {
				continue
			}
			summary.WorkoutCount++
			totalDuration += w.DurationMin
			for _, ex := range w.Exercises {
				summary.TotalVolumeKg += ex.VolumeKg
				summary.TotalSets += ex.SetCount
				groups[ex.MuscleGroup] = true
			}
		}
		summary.TotalVolumeKg = round1(summary.TotalVolumeKg)
		if summary.WorkoutCount > 0 {
			summary.AvgDuration = int(math.Round(float64(totalDuration) / float64(summary.WorkoutCount)))
		}
		summary.MuscleGroups = sortedKeys(groups)
		out = append(out, summary)
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
