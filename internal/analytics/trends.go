package analytics

import (
	"sort"
	"time"

	"github.com/solstice035/health-analytics/internal/health"
)

// MetricTrajectory compares the earliest third of a period against the
// latest third for one metric.
type MetricTrajectory struct {
	EarlyAvg  float64 `json:"early_avg"`
	RecentAvg float64 `json:"recent_avg"`
	Change    float64 `json:"change"`
	Trend     string  `json:"trend"`
}

// Trajectory holds the long-term direction of the core fitness
// metrics. Metrics without enough observations are omitted.
type Trajectory map[string]MetricTrajectory

// Trend labels.
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// FitnessTrajectory splits each metric's observations into thirds and
// labels the direction of travel. Lower resting heart rate is better,
// so its trend reads inverted.
func FitnessTrajectory(days []health.DailyAggregate) Trajectory {
	out := Trajectory{}

	assess := func(name string, values []float64, threshold float64, lowerIsBetter bool) {
		if len(values) < 6 {
			return
		}
		third := len(values) / 3
		early := mean(values[:third])
		recent := mean(values[len(values)-third:])
		change := recent - early

		trend := TrendStable
		switch {
		case !lowerIsBetter && change >= threshold:
			trend = TrendImproving
		case !lowerIsBetter && change <= -threshold:
			trend = TrendDeclining
		case lowerIsBetter && change <= -threshold:
			trend = TrendImproving
		case lowerIsBetter && change >= threshold:
			trend = TrendDeclining
		}
		out[name] = MetricTrajectory{
			EarlyAvg:  round1(early),
			RecentAvg: round1(recent),
			Change:    round1(change),
			Trend:     trend,
		}
	}

	assess("vo2_max", positiveValues(days, func(d health.DailyAggregate) float64 { return floatOrZero(d.VO2Max) }), 1, false)
	assess("resting_hr", positiveValues(days, func(d health.DailyAggregate) float64 { return intOrZero(d.RestingHR) }), 2, true)
	assess("hrv", positiveValues(days, func(d health.DailyAggregate) float64 { return intOrZero(d.HRVAvg) }), 5, false)

	return out
}

var weekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayPattern is the average of each tracked metric on one weekday.
type DayPattern struct {
	Steps       float64 `json:"steps"`
	ExerciseMin float64 `json:"exercise_min"`
	RestingHR   float64 `json:"resting_hr"`
	HRVAvg      float64 `json:"hrv_avg"`
}

// WeeklyPatterns averages metrics by weekday, Monday through Sunday.
// Zero days are excluded from each average so rest days do not drag
// physiological metrics down.
func WeeklyPatterns(days []health.DailyAggregate) map[string]DayPattern {
	byDay := map[string][][4]float64{}
	for _, d := range days {
		t, err := time.Parse(health.DateLayout, d.Date)
		if err != nil {
			continue
		}
		name := weekdayNames[(int(t.Weekday())+6)%7]
		byDay[name] = append(byDay[name], [4]float64{
			float64(d.Steps),
			float64(d.ExerciseMin),
			intOrZero(d.RestingHR),
			intOrZero(d.HRVAvg),
		})
	}

	out := make(map[string]DayPattern, len(byDay))
	for name, rows := range byDay {
		var p DayPattern
		p.Steps = round1(meanPositiveAt(rows, 0))
		p.ExerciseMin = round1(meanPositiveAt(rows, 1))
		p.RestingHR = round1(meanPositiveAt(rows, 2))
		p.HRVAvg = round1(meanPositiveAt(rows, 3))
		out[name] = p
	}
	return out
}

func meanPositiveAt(rows [][4]float64, idx int) float64 {
	var values []float64
	for _, row := range rows {
		if row[idx] > 0 {
			values = append(values, row[idx])
		}
	}
	return mean(values)
}

// MonthStats is the monthly average of each tracked metric.
type MonthStats struct {
	Month       string  `json:"month"`
	Steps       float64 `json:"steps"`
	ExerciseMin float64 `json:"exercise_min"`
	RestingHR   float64 `json:"resting_hr"`
	HRVAvg      float64 `json:"hrv_avg"`
	VO2Max      float64 `json:"vo2_max"`
}

// MonthlyProgression averages metrics by calendar month, oldest first.
// Zero values are excluded from each average.
func MonthlyProgression(days []health.DailyAggregate) []MonthStats {
	byMonth := map[string][]health.DailyAggregate{}
	for _, d := range days {
		if len(d.Date) < 7 {
			continue
		}
		month := d.Date[:7]
		byMonth[month] = append(byMonth[month], d)
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]MonthStats, 0, len(months))
	for _, m := range months {
		group := byMonth[m]
		stats := MonthStats{Month: m}
		stats.Steps = round1(mean(positiveValues(group, metricGetters[0].get)))
		stats.ExerciseMin = round1(mean(positiveValues(group, metricGetters[1].get)))
		stats.RestingHR = round1(mean(positiveValues(group, metricGetters[2].get)))
		stats.HRVAvg = round1(mean(positiveValues(group, metricGetters[3].get)))
		stats.VO2Max = round1(mean(positiveValues(group, metricGetters[4].get)))
		out = append(out, stats)
	}
	return out
}
