// Package health parses Apple Health exports produced by the Health
// Auto Export app and folds the raw metric readings into per-day
// aggregates.
package health

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Metric names as they appear in Health Auto Export files.
const (
	MetricStepCount            = "step_count"
	MetricActiveEnergy         = "active_energy"
	MetricExerciseTime         = "apple_exercise_time"
	MetricStandHour            = "apple_stand_hour"
	MetricWalkRunDistance      = "walking_running_distance"
	MetricFlightsClimbed       = "flights_climbed"
	MetricTimeInDaylight       = "time_in_daylight"
	MetricHeartRate            = "heart_rate"
	MetricRestingHeartRate     = "resting_heart_rate"
	MetricHeartRateVariability = "heart_rate_variability"
	MetricVO2Max               = "vo2_max"
	MetricWalkingHeartRate     = "walking_heart_rate_average"
	MetricBloodOxygen          = "blood_oxygen_saturation"
	MetricSwimDistance         = "swimming_distance"
	MetricSwimStrokes          = "swimming_stroke_count"
	MetricSleepAnalysis        = "sleep_analysis"
)

// Reading is a single timestamped observation of a metric. Exports use
// qty for cumulative metrics and Avg/Min/Max for sampled ones; absent
// fields stay nil.
type Reading struct {
	Date   string
	Qty    *float64
	Avg    *float64
	Min    *float64
	Max    *float64
	Asleep *float64
}

// Value returns the preferred numeric value for the reading. Sampled
// metrics like heart rate carry Avg; cumulative ones carry qty.
func (r Reading) Value() (float64, bool) {
	if r.Avg != nil {
		return *r.Avg, true
	}
	if r.Qty != nil {
		return *r.Qty, true
	}
	return 0, false
}

// Quantity returns the qty field, falling back to Avg when qty is absent.
func (r Reading) Quantity() (float64, bool) {
	if r.Qty != nil {
		return *r.Qty, true
	}
	if r.Avg != nil {
		return *r.Avg, true
	}
	return 0, false
}

// MetricSeries is all readings for one named metric in one export file.
type MetricSeries struct {
	Name     string
	Units    string
	Readings []Reading
}

// Export is a parsed Health Auto Export file keyed by metric name.
type Export struct {
	Metrics map[string]MetricSeries
}

// Series returns the named series, or an empty one when absent.
func (e *Export) Series(name string) MetricSeries {
	if e == nil {
		return MetricSeries{Name: name}
	}
	if s, ok := e.Metrics[name]; ok {
		return s
	}
	return MetricSeries{Name: name}
}

type rawEnvelope struct {
	Data rawData `json:"data"`
}

type rawData struct {
	Metrics rawMetricList `json:"metrics"`
}

type rawMetric struct {
	Name  string            `json:"name"`
	Units string            `json:"units"`
	Data  []json.RawMessage `json:"data"`
}

// rawMetricList accepts both shapes the export app has produced over
// time: a list of named metric objects, and a dict keyed by metric
// name whose values are the data points directly.
type rawMetricList []rawMetric

func (l *rawMetricList) UnmarshalJSON(raw []byte) error {
	var list []rawMetric
	if err := json.Unmarshal(raw, &list); err == nil {
		*l = list
		return nil
	}

	var dict map[string][]json.RawMessage
	if err := json.Unmarshal(raw, &dict); err != nil {
		return fmt.Errorf("metrics is neither a list nor a dict: %w", err)
	}
	names := make([]string, 0, len(dict))
	for name := range dict {
		names = append(names, name)
	}
	sort.Strings(names)
	list = make([]rawMetric, 0, len(names))
	for _, name := range names {
		list = append(list, rawMetric{Name: name, Data: dict[name]})
	}
	*l = list
	return nil
}

// ParseExport decodes a Health Auto Export JSON document. The metrics
// block may be a list of named objects or a dict of lists, and data
// points are decoded tolerantly: numeric fields may arrive as numbers
// or numeric strings, and capitalization of Avg/Min/Max varies between
// app versions.
func ParseExport(raw []byte) (*Export, error) {
	var env rawEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}

	export := &Export{Metrics: make(map[string]MetricSeries, len(env.Data.Metrics))}
	for _, m := range env.Data.Metrics {
		if m.Name == "" {
			continue
		}
		series := MetricSeries{
			Name:     m.Name,
			Units:    m.Units,
			Readings: make([]Reading, 0, len(m.Data)),
		}
		for _, point := range m.Data {
			r, ok := parseReading(point)
			if !ok {
				continue
			}
			series.Readings = append(series.Readings, r)
		}
		export.Metrics[m.Name] = series
	}
	return export, nil
}

func parseReading(raw json.RawMessage) (Reading, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		// Dict-shaped exports may carry bare numbers as data points.
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return Reading{Qty: &f}, true
		}
		return Reading{}, false
	}

	r := Reading{
		Qty:    numberField(fields, "qty"),
		Avg:    numberField(fields, "Avg", "avg"),
		Min:    numberField(fields, "Min", "min"),
		Max:    numberField(fields, "Max", "max"),
		Asleep: numberField(fields, "asleep", "Asleep"),
	}
	if d, ok := fields["date"]; ok {
		var s string
		if err := json.Unmarshal(d, &s); err == nil {
			r.Date = s
		}
	}
	if r.Qty == nil && r.Avg == nil && r.Min == nil && r.Max == nil && r.Asleep == nil {
		return Reading{}, false
	}
	return r, true
}

// numberField extracts the first present candidate key as a float64,
// accepting JSON numbers or numeric strings.
func numberField(fields map[string]json.RawMessage, keys ...string) *float64 {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return &f
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if _, perr := fmt.Sscanf(s, "%g", &f); perr == nil {
				return &f
			}
		}
	}
	return nil
}
