package analytics

import "github.com/solstice035/health-analytics/internal/health"

// Record pairs a best value with the date it happened. A metric that
// never appeared in the period reports a zero value and a null date.
type Record struct {
	Value float64 `json:"value"`
	Date  *string `json:"date"`
}

// Set reports whether the record was observed at least once.
func (r Record) Set() bool {
	return r.Date != nil
}

// Records holds all-time personal bests across the loaded period.
// Every metric is always present so consumers never have to check
// for missing keys.
type Records struct {
	MaxSteps        Record `json:"max_steps"`
	MaxDistance     Record `json:"max_distance"`
	MaxExercise     Record `json:"max_exercise"`
	MaxFlights      Record `json:"max_flights"`
	MaxSwimDistance Record `json:"max_swim_distance"`
	HighestHRV      Record `json:"highest_hrv"`
	HighestHR       Record `json:"highest_hr"`
	LowestRestingHR Record `json:"lowest_resting_hr"`
	LowestHR        Record `json:"lowest_hr"`
}

// BuildRecords scans the period for personal bests. Zero values never
// set a record, so sparse metrics keep a zero value and null date
// rather than reporting a meaningless best.
func BuildRecords(days []health.DailyAggregate) Records {
	var r Records

	maxRec := func(current Record, value float64, date string) Record {
		if value <= 0 {
			return current
		}
		if !current.Set() || value > current.Value {
			return Record{Value: value, Date: &date}
		}
		return current
	}
	minRec := func(current Record, value float64, date string) Record {
		if value <= 0 {
			return current
		}
		if !current.Set() || value < current.Value {
			return Record{Value: value, Date: &date}
		}
		return current
	}

	for _, d := range days {
		r.MaxSteps = maxRec(r.MaxSteps, float64(d.Steps), d.Date)
		r.MaxDistance = maxRec(r.MaxDistance, d.DistanceKm, d.Date)
		r.MaxExercise = maxRec(r.MaxExercise, float64(d.ExerciseMin), d.Date)
		r.MaxFlights = maxRec(r.MaxFlights, float64(d.Flights), d.Date)
		r.MaxSwimDistance = maxRec(r.MaxSwimDistance, d.SwimDistance, d.Date)
		r.HighestHRV = maxRec(r.HighestHRV, intOrZero(d.HRVAvg), d.Date)
		r.LowestRestingHR = minRec(r.LowestRestingHR, intOrZero(d.RestingHR), d.Date)
		if d.HR != nil {
			r.HighestHR = maxRec(r.HighestHR, float64(d.HR.Max), d.Date)
			r.LowestHR = minRec(r.LowestHR, float64(d.HR.Min), d.Date)
		}
	}
	return r
}
