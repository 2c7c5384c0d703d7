package health

import "testing"

func TestParseExport(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"data": {
			"metrics": [
				{
					"name": "step_count",
					"units": "count",
					"data": [
						{"date": "2025-06-01 08:00:00 +0100", "qty": 1200},
						{"date": "2025-06-01 09:00:00 +0100", "qty": "800.5"}
					]
				},
				{
					"name": "heart_rate",
					"units": "count/min",
					"data": [
						{"date": "2025-06-01 08:00:00 +0100", "Avg": 72.4, "Min": 58, "Max": 110},
						{"date": "2025-06-01 09:00:00 +0100", "qty": 65}
					]
				}
			]
		}
	}`)

	export, err := ParseExport(raw)
	if err != nil {
		t.Fatalf("ParseExport() error: %v", err)
	}

	steps := export.Series(MetricStepCount)
	if steps.Units != "count" {
		t.Errorf("units = %q, want count", steps.Units)
	}
	if len(steps.Readings) != 2 {
		t.Fatalf("step readings = %d, want 2", len(steps.Readings))
	}
	if v, ok := steps.Readings[1].Quantity(); !ok || v != 800.5 {
		t.Errorf("string qty = %v %v, want 800.5 true", v, ok)
	}

	hr := export.Series(MetricHeartRate)
	if len(hr.Readings) != 2 {
		t.Fatalf("heart rate readings = %d, want 2", len(hr.Readings))
	}
	if v, ok := hr.Readings[0].Value(); !ok || v != 72.4 {
		t.Errorf("Value() = %v %v, want 72.4 true", v, ok)
	}
	if hr.Readings[0].Min == nil || *hr.Readings[0].Min != 58 {
		t.Errorf("Min = %v, want 58", hr.Readings[0].Min)
	}
}

func TestParseExportDictMetrics(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"data": {
			"metrics": {
				"step_count": [
					{"date": "2025-06-01 08:00:00 +0100", "qty": 8000},
					{"date": "2025-06-01 09:00:00 +0100", "qty": 2000}
				],
				"apple_exercise_time": [30, 15]
			}
		}
	}`)

	export, err := ParseExport(raw)
	if err != nil {
		t.Fatalf("ParseExport() error: %v", err)
	}

	steps := export.Series(MetricStepCount)
	if len(steps.Readings) != 2 {
		t.Fatalf("step readings = %d, want 2", len(steps.Readings))
	}
	if v, ok := steps.Readings[0].Quantity(); !ok || v != 8000 {
		t.Errorf("qty = %v %v, want 8000 true", v, ok)
	}

	exercise := export.Series(MetricExerciseTime)
	if len(exercise.Readings) != 2 {
		t.Fatalf("exercise readings = %d, want 2", len(exercise.Readings))
	}
	if v, ok := exercise.Readings[1].Quantity(); !ok || v != 15 {
		t.Errorf("bare number qty = %v %v, want 15 true", v, ok)
	}
}

func TestParseExportSkipsEmptyPoints(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"data": {
			"metrics": [
				{"name": "vo2_max", "units": "mL/min·kg", "data": [
					{"date": "2025-06-01 00:00:00 +0100"},
					{"date": "2025-06-01 00:00:00 +0100", "qty": 41.27}
				]}
			]
		}
	}`)

	export, err := ParseExport(raw)
	if err != nil {
		t.Fatalf("ParseExport() error: %v", err)
	}
	vo2 := export.Series(MetricVO2Max)
	if len(vo2.Readings) != 1 {
		t.Fatalf("readings = %d, want 1 (valueless point dropped)", len(vo2.Readings))
	}
}

func TestParseExportMalformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseExport([]byte(`not json`)); err == nil {
		t.Error("ParseExport() accepted malformed input")
	}
}

func TestSeriesMissing(t *testing.T) {
	t.Parallel()

	export := &Export{Metrics: map[string]MetricSeries{}}
	s := export.Series(MetricSwimDistance)
	if len(s.Readings) != 0 {
		t.Errorf("expected empty series for absent metric")
	}
}
