package dashboard

import (
	"fmt"

	"github.com/solstice035/health-analytics/internal/analytics"
	"github.com/solstice035/health-analytics/internal/config"
	"github.com/solstice035/health-analytics/internal/health"
)

// BuildHealthScore scores the period from its daily averages.
func BuildHealthScore(days []health.DailyAggregate, goals config.Goals) analytics.HealthScore {
	var in analytics.ScoreInput
	if len(days) > 0 {
		summary := BuildSummaryStats(days, goals)
		in = analytics.ScoreInput{
			Steps:       float64(summary.Averages.Steps),
			ExerciseMin: float64(summary.Averages.ExerciseMinutes),
			StandHours:  summary.Averages.StandHours,
			RestingHR:   float64(summary.Averages.RestingHR),
			HRVAvg:      float64(summary.Averages.HRV),
		}
	}
	return analytics.ComputeHealthScore(in, analytics.ScoreGoals{
		Steps:           goals.Steps,
		ExerciseMinutes: goals.ExerciseMinutes,
		StandHours:      goals.StandHours,
	})
}

// BuildInsights produces at most four headline cards for the main
// dashboard panel. With under a week of data it reports a single
// collecting-data card.
func BuildInsights(days []health.DailyAggregate, goals config.Goals) Insights {
	if len(days) < 7 {
		return Insights{Insights: []analytics.Insight{{
			Type:  analytics.InsightNeutral,
			Icon:  "📊",
			Title: "Collecting Data",
			Text:  "Keep logging for a week to unlock trend insights.",
		}}}
	}

	var cards []analytics.Insight
	add := func(ins analytics.Insight) {
		if len(cards) < maxInsights {
			cards = append(cards, ins)
		}
	}

	recent := days[len(days)-7:]

	// Step trend: last week versus the week before.
	if len(days) >= 14 {
		prior := days[len(days)-14 : len(days)-7]
		recentAvg := avgSteps(recent)
		priorAvg := avgSteps(prior)
		if priorAvg > 0 {
			change := (recentAvg - priorAvg) / priorAvg * 100
			if change > 10 {
				add(analytics.Insight{
					Type:  analytics.InsightPositive,
					Icon:  "📈",
					Title: "Steps Trending Up",
					Text:  fmt.Sprintf("Steps are up %.0f%% over last week. Keep the momentum.", change),
				})
			} else if change < -10 {
				add(analytics.Insight{
					Type:  analytics.InsightWarning,
					Icon:  "📉",
					Title: "Activity Dip Detected",
					Text:  fmt.Sprintf("Steps dropped %.0f%% from last week. A short walk can turn it around.", -change),
				})
			}
		}
	}

	if allDays(recent, func(d health.DailyAggregate) bool { return d.Steps >= goals.Steps }) {
		add(analytics.Insight{
			Type:  analytics.InsightPositive,
			Icon:  "🏆",
			Title: "Perfect Step Week",
			Text:  fmt.Sprintf("You hit %d steps every day this week.", goals.Steps),
		})
	}
	if allDays(recent, func(d health.DailyAggregate) bool { return d.ExerciseMin >= goals.ExerciseMinutes }) {
		add(analytics.Insight{
			Type:  analytics.InsightPositive,
			Icon:  "💪",
			Title: "Full Exercise Week",
			Text:  fmt.Sprintf("%d+ exercise minutes logged every day this week.", goals.ExerciseMinutes),
		})
	}

	// Recovery read from the last three days of HRV.
	if hrv, ok := recentHRV(days, 3); ok {
		if hrv >= 50 {
			add(analytics.Insight{
				Type:  analytics.InsightPositive,
				Icon:  "💚",
				Title: "Great Recovery",
				Text:  fmt.Sprintf("HRV averaged %.0f ms over the last three days. You're well recovered.", hrv),
			})
		} else if hrv < 30 {
			add(analytics.Insight{
				Type:  analytics.InsightWarning,
				Icon:  "😴",
				Title: "Consider Rest",
				Text:  fmt.Sprintf("HRV averaged %.0f ms over the last three days. An easy day may help.", hrv),
			})
		}
	}

	if rhr, ok := avgRestingHR(recent); ok && rhr < 60 {
		add(analytics.Insight{
			Type:  analytics.InsightPositive,
			Icon:  "❤️",
			Title: "Athletic Heart Rate",
			Text:  fmt.Sprintf("Resting heart rate averaged %.0f bpm this week.", rhr),
		})
	}

	if best := maxSteps(recent); best >= 15000 {
		add(analytics.Insight{
			Type:  analytics.InsightPositive,
			Icon:  "⭐",
			Title: "Outstanding Activity Day",
			Text:  fmt.Sprintf("You peaked at %d steps in a single day this week.", best),
		})
	}

	if len(cards) == 0 {
		cards = append(cards, analytics.Insight{
			Type:  analytics.InsightNeutral,
			Icon:  "📊",
			Title: "Keep Tracking",
			Text:  "Steady logging. Trends will surface as patterns emerge.",
		})
	}
	return Insights{Insights: cards}
}

func avgSteps(days []health.DailyAggregate) float64 {
	if len(days) == 0 {
		return 0
	}
	var sum float64
	for _, d := range days {
		sum += float64(d.Steps)
	}
	return sum / float64(len(days))
}

func maxSteps(days []health.DailyAggregate) int {
	var best int
	for _, d := range days {
		if d.Steps > best {
			best = d.Steps
		}
	}
	return best
}

func allDays(days []health.DailyAggregate, pred func(health.DailyAggregate) bool) bool {
	if len(days) == 0 {
		return false
	}
	for _, d := range days {
		if !pred(d) {
			return false
		}
	}
	return true
}

func avgRestingHR(days []health.DailyAggregate) (float64, bool) {
	var sum float64
	var n int
	for _, d := range days {
		if d.RestingHR != nil {
			sum += float64(*d.RestingHR)
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// recentHRV averages HRV over the last n days that carried a value.
func recentHRV(days []health.DailyAggregate, n int) (float64, bool) {
	start := len(days) - n
	if start < 0 {
		start = 0
	}
	var sum float64
	var count int
	for _, d := range days[start:] {
		if d.HRVAvg != nil {
			sum += float64(*d.HRVAvg)
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
