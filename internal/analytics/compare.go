package analytics

import "github.com/solstice035/health-analytics/internal/health"

// MetricComparison contrasts a metric's average in the recent window
// against the window before it.
type MetricComparison struct {
	RecentAvg   float64 `json:"recent_avg"`
	PreviousAvg float64 `json:"previous_avg"`
	Change      float64 `json:"change"`
	PctChange   float64 `json:"pct_change"`
}

// ComparePeriods contrasts the last windowDays of data with the
// windowDays before them. Returns nil when the period doesn't cover
// two full windows. Zero values are excluded from every average.
func ComparePeriods(days []health.DailyAggregate, windowDays int) map[string]MetricComparison {
	if len(days) < 2*windowDays {
		return nil
	}
	recent := days[len(days)-windowDays:]
	previous := days[len(days)-2*windowDays : len(days)-windowDays]

	out := make(map[string]MetricComparison, len(metricGetters))
	for _, m := range metricGetters {
		recentAvg := mean(positiveValues(recent, m.get))
		previousAvg := mean(positiveValues(previous, m.get))
		if recentAvg == 0 && previousAvg == 0 {
			continue
		}
		out[m.name] = MetricComparison{
			RecentAvg:   round1(recentAvg),
			PreviousAvg: round1(previousAvg),
			Change:      round1(recentAvg - previousAvg),
			PctChange:   round1(pctChange(recentAvg, previousAvg)),
		}
	}
	return out
}
