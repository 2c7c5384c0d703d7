package analytics

import (
	"fmt"
	"time"

	"github.com/solstice035/health-analytics/internal/health"
)

// Insight is one card surfaced to the dashboard.
type Insight struct {
	Type  string `json:"type"`
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Insight types.
const (
	InsightPositive = "positive"
	InsightNeutral  = "neutral"
	InsightWarning  = "warning"
)

const maxDeepInsights = 6

// DeepInsights distills a full report into at most six cards, ordered
// by how actionable they are.
func DeepInsights(report Report) []Insight {
	var out []Insight
	add := func(ins Insight) {
		if len(out) < maxDeepInsights {
			out = append(out, ins)
		}
	}

	if traj, ok := report.FitnessTrajectory["vo2_max"]; ok && traj.Trend == TrendImproving {
		add(Insight{
			Type:  InsightPositive,
			Icon:  "🏃",
			Title: "Cardio Fitness Improving",
			Text:  fmt.Sprintf("Your VO2 max climbed %.1f over the period, from %.1f to %.1f.", traj.Change, traj.EarlyAvg, traj.RecentAvg),
		})
	}
	if traj, ok := report.FitnessTrajectory["resting_hr"]; ok && traj.Trend == TrendImproving {
		add(Insight{
			Type:  InsightPositive,
			Icon:  "❤️",
			Title: "Resting Heart Rate Dropping",
			Text:  fmt.Sprintf("Resting heart rate fell from %.0f to %.0f bpm, a sign of improving fitness.", traj.EarlyAvg, traj.RecentAvg),
		})
	}
	if report.Streaks.CurrentStreak >= 7 {
		add(Insight{
			Type:  InsightPositive,
			Icon:  "🔥",
			Title: "Step Streak Going Strong",
			Text:  fmt.Sprintf("You've hit your step goal %d days in a row.", report.Streaks.CurrentStreak),
		})
	}
	if report.Streaks.ExerciseConsistency >= 0.7 {
		add(Insight{
			Type:  InsightPositive,
			Icon:  "💪",
			Title: "Consistent Exerciser",
			Text:  fmt.Sprintf("You logged 30+ exercise minutes on %.0f%% of days.", report.Streaks.ExerciseConsistency*100),
		})
	}
	if hasRecentLowHRV(report) {
		add(Insight{
			Type:  InsightWarning,
			Icon:  "⚠️",
			Title: "Recovery Alert",
			Text:  "HRV dipped well below your baseline in the last week. Consider an easier day.",
		})
	}
	if cmp, ok := report.RecentVsPrevious["exercise_min"]; ok && cmp.PctChange > 20 {
		add(Insight{
			Type:  InsightPositive,
			Icon:  "📈",
			Title: "Exercise Volume Up",
			Text:  fmt.Sprintf("Exercise minutes rose %.0f%% versus the previous period.", cmp.PctChange),
		})
	}
	if cmp, ok := report.RecentVsPrevious["resting_hr"]; ok && cmp.PctChange > 5 {
		add(Insight{
			Type:  InsightWarning,
			Icon:  "💓",
			Title: "Resting Heart Rate Rising",
			Text:  fmt.Sprintf("Resting heart rate is up %.0f%% versus the previous period. Watch your recovery.", cmp.PctChange),
		})
	}
	if c := report.Correlations.StepsToNextDayHRV; c != nil &&
		c.HighStepsHRV > c.MediumStepsHRV && c.HighStepsHRV > c.LowStepsHRV {
		add(Insight{
			Type:  InsightNeutral,
			Icon:  "👣",
			Title: "Movement Aids Recovery",
			Text:  fmt.Sprintf("Your highest-step days are followed by your best HRV (%.0f vs %.0f ms).", c.HighStepsHRV, c.LowStepsHRV),
		})
	}

	return out
}

// hasRecentLowHRV reports whether any flagged low-HRV day falls within
// the final week of the report range.
func hasRecentLowHRV(report Report) bool {
	if len(report.Anomalies.LowHRVDays) == 0 {
		return false
	}
	end, err := time.Parse(health.DateLayout, report.Overview.DateRange.End)
	if err != nil {
		return false
	}
	weekAgo := end.AddDate(0, 0, -7).Format(health.DateLayout)
	for _, day := range report.Anomalies.LowHRVDays {
		if day.Date >= weekAgo {
			return true
		}
	}
	return false
}
