package analytics

import (
	"time"

	"github.com/solstice035/health-analytics/internal/health"
)

// Streaks summarises goal-hitting consistency over the whole period.
type Streaks struct {
	LongestStepStreak   int     `json:"longest_step_streak"`
	LongestStreakEnd    string  `json:"longest_streak_end"`
	CurrentStreak       int     `json:"current_streak"`
	ExerciseDays        int     `json:"exercise_days"`
	TotalDays           int     `json:"total_days"`
	ExerciseConsistency float64 `json:"exercise_consistency"`
}

// BuildStreaks computes step streaks against stepGoal and exercise
// consistency against exerciseGoal minutes. Streaks require
// consecutive calendar days; a missing day breaks them.
func BuildStreaks(days []health.DailyAggregate, stepGoal, exerciseGoal int) Streaks {
	s := Streaks{TotalDays: len(days)}
	if len(days) == 0 {
		return s
	}

	var run int
	var prevDate time.Time
	for _, d := range days {
		t, err := time.Parse(health.DateLayout, d.Date)
		if err != nil {
			continue
		}
		consecutive := !prevDate.IsZero() && t.Sub(prevDate) == 24*time.Hour
		if d.Steps >= stepGoal {
			if consecutive && run > 0 {
				run++
			} else {
				run = 1
			}
			if run > s.LongestStepStreak {
				s.LongestStepStreak = run
				s.LongestStreakEnd = d.Date
			}
		} else {
			run = 0
		}
		prevDate = t

		if d.ExerciseMin >= exerciseGoal {
			s.ExerciseDays++
		}
	}

	// Current streak counts backwards from the most recent day.
	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Steps < stepGoal {
			break
		}
		if i < len(days)-1 {
			cur, err1 := time.Parse(health.DateLayout, days[i].Date)
			next, err2 := time.Parse(health.DateLayout, days[i+1].Date)
			if err1 != nil || err2 != nil || next.Sub(cur) != 24*time.Hour {
				break
			}
		}
		s.CurrentStreak++
	}

	s.ExerciseConsistency = round2(float64(s.ExerciseDays) / float64(s.TotalDays))
	return s
}
