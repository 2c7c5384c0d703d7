package health

import "math"

// RestingHRPolicy selects which observation becomes the day's resting
// heart rate when an export carries several.
type RestingHRPolicy int

const (
	// RestingHRLast keeps the final observation of the day. This is the
	// policy dashboard artifacts use.
	RestingHRLast RestingHRPolicy = iota
	// RestingHRFirst keeps the earliest observation. Deep reports use it.
	RestingHRFirst
)

// HeartRateStats summarises continuous heart-rate sampling for one
// day. Values are truncated to whole beats per minute.
type HeartRateStats struct {
	Count int `json:"count"`
	Min   int `json:"min"`
	Max   int `json:"max"`
	Avg   int `json:"avg"`
}

// DailyAggregate is one day of health data folded down from a single
// export file. Sampled metrics that never appeared that day stay nil
// so downstream consumers can distinguish absent from zero.
type DailyAggregate struct {
	Date string `json:"date"`

	Steps        int     `json:"steps"`
	ActiveEnergy int     `json:"active_energy_kcal"`
	ExerciseMin  int     `json:"exercise_min"`
	StandHours   int     `json:"stand_hours"`
	DistanceKm   float64 `json:"distance_km"`
	Flights      int     `json:"flights"`
	DaylightMin  int     `json:"daylight_minutes"`
	SwimDistance float64 `json:"swim_distance,omitempty"`
	SwimStrokes  int     `json:"swim_strokes,omitempty"`
	SleepHours   float64 `json:"sleep_hours,omitempty"`

	RestingHR   *int     `json:"resting_hr,omitempty"`
	HRVAvg      *int     `json:"hrv_avg,omitempty"`
	WalkingHR   *int     `json:"walking_hr,omitempty"`
	BloodOxygen *int     `json:"blood_oxygen,omitempty"`
	VO2Max      *float64 `json:"vo2_max,omitempty"`

	HR *HeartRateStats `json:"heart_rate,omitempty"`
}

// BuildDaily folds a parsed export into one day's aggregate. Totals
// sum the qty of every reading; stand hours count the hourly readings
// with at least one stand minute rather than summing them.
func BuildDaily(date string, export *Export, policy RestingHRPolicy) DailyAggregate {
	agg := DailyAggregate{Date: date}

	agg.Steps = int(sumQty(export.Series(MetricStepCount)))
	agg.ActiveEnergy = int(sumQty(export.Series(MetricActiveEnergy)))
	agg.ExerciseMin = int(sumQty(export.Series(MetricExerciseTime)))
	agg.StandHours = countAtLeast(export.Series(MetricStandHour), 1)
	agg.DistanceKm = round2(sumQty(export.Series(MetricWalkRunDistance)))
	agg.Flights = int(sumQty(export.Series(MetricFlightsClimbed)))
	agg.DaylightMin = int(sumQty(export.Series(MetricTimeInDaylight)))
	agg.SwimDistance = sumQty(export.Series(MetricSwimDistance))
	agg.SwimStrokes = int(sumQty(export.Series(MetricSwimStrokes)))
	agg.SleepHours = round2(sumAsleep(export.Series(MetricSleepAnalysis)))

	if hr := heartRateStats(export.Series(MetricHeartRate)); hr != nil {
		agg.HR = hr
	}
	if v, ok := restingHR(export.Series(MetricRestingHeartRate), policy); ok {
		agg.RestingHR = &v
	}
	if v, ok := meanInt(export.Series(MetricHeartRateVariability)); ok {
		agg.HRVAvg = &v
	}
	if v, ok := lastValue(export.Series(MetricWalkingHeartRate)); ok {
		n := int(v)
		agg.WalkingHR = &n
	}
	if v, ok := meanInt(export.Series(MetricBloodOxygen)); ok {
		agg.BloodOxygen = &v
	}
	if v, ok := lastValue(export.Series(MetricVO2Max)); ok {
		r := round1(v)
		agg.VO2Max = &r
	}

	return agg
}

// heartRateStats prefers each reading's Avg over its qty, matching the
// shape continuous sampling takes in recent export versions.
func heartRateStats(series MetricSeries) *HeartRateStats {
	var values []float64
	for _, r := range series.Readings {
		if v, ok := r.Value(); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil
	}
	min, max, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	return &HeartRateStats{
		Count: len(values),
		Min:   int(min),
		Max:   int(max),
		Avg:   int(sum / float64(len(values))),
	}
}

func restingHR(series MetricSeries, policy RestingHRPolicy) (int, bool) {
	if len(series.Readings) == 0 {
		return 0, false
	}
	var r Reading
	switch policy {
	case RestingHRFirst:
		r = series.Readings[0]
	default:
		r = series.Readings[len(series.Readings)-1]
	}
	v, ok := r.Quantity()
	if !ok {
		return 0, false
	}
	return int(v), true
}

func sumQty(series MetricSeries) float64 {
	var total float64
	for _, r := range series.Readings {
		if v, ok := r.Quantity(); ok {
			total += v
		}
	}
	return total
}

// sumAsleep totals asleep durations. Older exports put the duration
// in qty instead of an asleep field.
func sumAsleep(series MetricSeries) float64 {
	var total float64
	for _, r := range series.Readings {
		switch {
		case r.Asleep != nil:
			total += *r.Asleep
		case r.Qty != nil:
			total += *r.Qty
		}
	}
	return total
}

func countAtLeast(series MetricSeries, threshold float64) int {
	var n int
	for _, r := range series.Readings {
		if v, ok := r.Quantity(); ok && v >= threshold {
			n++
		}
	}
	return n
}

func meanInt(series MetricSeries) (int, bool) {
	var sum float64
	var n int
	for _, r := range series.Readings {
		if v, ok := r.Quantity(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return int(sum / float64(n)), true
}

func lastValue(series MetricSeries) (float64, bool) {
	for i := len(series.Readings) - 1; i >= 0; i-- {
		if v, ok := series.Readings[i].Quantity(); ok {
			return v, true
		}
	}
	return 0, false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
