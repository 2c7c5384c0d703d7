// Package analytics derives trends, correlations, streaks, records,
// and anomaly reports from daily health aggregates.
package analytics

import (
	"math"
	"sort"

	"github.com/solstice035/health-analytics/internal/health"
)

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// sampleStdev is the n-1 standard deviation. Returns 0 for fewer than
// two values.
func sampleStdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// pctChange returns the percent change from previous to recent, 0 when
// previous is 0.
func pctChange(recent, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (recent - previous) / previous * 100
}

// positiveValues extracts one metric across days, skipping days where
// it is zero or absent.
func positiveValues(days []health.DailyAggregate, get func(health.DailyAggregate) float64) []float64 {
	var out []float64
	for _, d := range days {
		if v := get(d); v > 0 {
			out = append(out, v)
		}
	}
	return out
}

func intOrZero(p *int) float64 {
	if p == nil {
		return 0
	}
	return float64(*p)
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// metricGetters enumerates the metrics used by period comparisons and
// monthly rollups.
var metricGetters = []struct {
	name string
	get  func(health.DailyAggregate) float64
}{
	{"steps", func(d health.DailyAggregate) float64 { return float64(d.Steps) }},
	{"exercise_min", func(d health.DailyAggregate) float64 { return float64(d.ExerciseMin) }},
	{"resting_hr", func(d health.DailyAggregate) float64 { return intOrZero(d.RestingHR) }},
	{"hrv_avg", func(d health.DailyAggregate) float64 { return intOrZero(d.HRVAvg) }},
	{"vo2_max", func(d health.DailyAggregate) float64 { return floatOrZero(d.VO2Max) }},
}
