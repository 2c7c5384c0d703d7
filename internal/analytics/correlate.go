package analytics

import (
	"sort"
	"time"

	"github.com/solstice035/health-analytics/internal/health"
)

// minCorrelationPairs is the smallest sample that produces a
// correlation result.
const minCorrelationPairs = 10

// ExerciseRecoveryCorrelation relates exercise load to next-morning
// resting heart rate via a median split.
type ExerciseRecoveryCorrelation struct {
	HighExerciseThreshold float64 `json:"high_exercise_threshold"`
	HighExerciseNextRHR   float64 `json:"high_exercise_next_rhr"`
	LowExerciseNextRHR    float64 `json:"low_exercise_next_rhr"`
	Difference            float64 `json:"difference"`
}

// StepsHRVCorrelation relates daily step volume to next-day HRV via
// terciles.
type StepsHRVCorrelation struct {
	LowStepsHRV    float64 `json:"low_steps_hrv"`
	MediumStepsHRV float64 `json:"medium_steps_hrv"`
	HighStepsHRV   float64 `json:"high_steps_hrv"`
}

// Correlations holds the cross-day relationships the report surfaces.
// Nil members mean the sample was too small.
type Correlations struct {
	ExerciseToNextDayRHR *ExerciseRecoveryCorrelation `json:"exercise_to_next_day_rhr,omitempty"`
	StepsToNextDayHRV    *StepsHRVCorrelation         `json:"steps_to_next_day_hrv,omitempty"`
}

type pair struct {
	x, y float64
}

// nextDayPairs collects (today's x, tomorrow's y) for consecutive
// calendar days where both sides are present.
func nextDayPairs(days []health.DailyAggregate, x, y func(health.DailyAggregate) float64) []pair {
	byDate := make(map[string]health.DailyAggregate, len(days))
	for _, d := range days {
		byDate[d.Date] = d
	}

	var pairs []pair
	for _, d := range days {
		t, err := time.Parse(health.DateLayout, d.Date)
		if err != nil {
			continue
		}
		next, ok := byDate[t.AddDate(0, 0, 1).Format(health.DateLayout)]
		if !ok {
			continue
		}
		xv, yv := x(d), y(next)
		if xv > 0 && yv > 0 {
			pairs = append(pairs, pair{xv, yv})
		}
	}
	return pairs
}

// BuildCorrelations computes both cross-day correlations. Each needs
// more than minCorrelationPairs qualifying day pairs.
func BuildCorrelations(days []health.DailyAggregate) Correlations {
	var c Correlations

	exercisePairs := nextDayPairs(days,
		func(d health.DailyAggregate) float64 { return float64(d.ExerciseMin) },
		func(d health.DailyAggregate) float64 { return intOrZero(d.RestingHR) },
	)
	if len(exercisePairs) > minCorrelationPairs {
		c.ExerciseToNextDayRHR = exerciseRecovery(exercisePairs)
	}

	stepPairs := nextDayPairs(days,
		func(d health.DailyAggregate) float64 { return float64(d.Steps) },
		func(d health.DailyAggregate) float64 { return intOrZero(d.HRVAvg) },
	)
	if len(stepPairs) > minCorrelationPairs {
		c.StepsToNextDayHRV = stepsToHRV(stepPairs)
	}

	return c
}

func exerciseRecovery(pairs []pair) *ExerciseRecoveryCorrelation {
	xs := make([]float64, len(pairs))
	for i, p := range pairs {
		xs[i] = p.x
	}
	threshold := median(xs)

	var highRHR, lowRHR []float64
	for _, p := range pairs {
		if p.x > threshold {
			highRHR = append(highRHR, p.y)
		} else {
			lowRHR = append(lowRHR, p.y)
		}
	}

	high := mean(highRHR)
	low := mean(lowRHR)
	return &ExerciseRecoveryCorrelation{
		HighExerciseThreshold: round1(threshold),
		HighExerciseNextRHR:   round1(high),
		LowExerciseNextRHR:    round1(low),
		Difference:            round1(low - high),
	}
}

func stepsToHRV(pairs []pair) *StepsHRVCorrelation {
	sorted := append([]pair(nil), pairs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].x < sorted[j].x })

	third := len(sorted) / 3
	terc := func(ps []pair) float64 {
		ys := make([]float64, len(ps))
		for i, p := range ps {
			ys[i] = p.y
		}
		return round1(mean(ys))
	}
	return &StepsHRVCorrelation{
		LowStepsHRV:    terc(sorted[:third]),
		MediumStepsHRV: terc(sorted[third : 2*third]),
		HighStepsHRV:   terc(sorted[2*third:]),
	}
}
