package analytics

import (
	"testing"

	"github.com/solstice035/health-analytics/internal/health"
)

func TestBuildRecords(t *testing.T) {
	t.Parallel()

	days := []health.DailyAggregate{
		{Date: "2025-06-01", Steps: 9000, DistanceKm: 6.5, ExerciseMin: 45, RestingHR: ip(58), HRVAvg: ip(42), HR: &health.HeartRateStats{Min: 52, Max: 150}},
		{Date: "2025-06-02", Steps: 15000, DistanceKm: 11.2, ExerciseMin: 30, RestingHR: ip(61), HRVAvg: ip(55), HR: &health.HeartRateStats{Min: 48, Max: 172}},
	}

	r := BuildRecords(days)

	if r.MaxSteps.Value != 15000 || r.MaxSteps.Date == nil || *r.MaxSteps.Date != "2025-06-02" {
		t.Errorf("MaxSteps = %+v", r.MaxSteps)
	}
	if r.LowestRestingHR.Value != 58 || r.LowestRestingHR.Date == nil || *r.LowestRestingHR.Date != "2025-06-01" {
		t.Errorf("LowestRestingHR = %+v", r.LowestRestingHR)
	}
	if r.HighestHR.Value != 172 {
		t.Errorf("HighestHR = %+v", r.HighestHR)
	}
	if r.LowestHR.Value != 48 {
		t.Errorf("LowestHR = %+v", r.LowestHR)
	}
	if r.MaxSwimDistance.Set() || r.MaxSwimDistance.Value != 0 {
		t.Errorf("MaxSwimDistance = %+v, want zero value and null date for untracked metric", r.MaxSwimDistance)
	}
}

func TestDetectAnomalies(t *testing.T) {
	t.Parallel()

	days := seqDays(t, "2025-05-01", 20, func(i int, d *health.DailyAggregate) {
		d.HRVAvg = ip(45)
		d.HR = &health.HeartRateStats{Max: 140}
	})
	// One crash day and one spike day.
	days[12].HRVAvg = ip(20)
	days[15].HR = &health.HeartRateStats{Max: 190}

	a := DetectAnomalies(days)

	if len(a.LowHRVDays) != 1 || a.LowHRVDays[0].Date != "2025-05-13" {
		t.Errorf("LowHRVDays = %+v", a.LowHRVDays)
	}
	if len(a.HighIntensityDays) != 1 || a.HighIntensityDays[0].MaxHR != 190 {
		t.Errorf("HighIntensityDays = %+v", a.HighIntensityDays)
	}
}

func TestDetectAnomaliesSmallSample(t *testing.T) {
	t.Parallel()

	days := seqDays(t, "2025-05-01", 5, func(i int, d *health.DailyAggregate) {
		d.HRVAvg = ip(45)
	})
	days[2].HRVAvg = ip(10)

	a := DetectAnomalies(days)
	if len(a.LowHRVDays) != 0 {
		t.Errorf("flagged anomalies from %d observations", len(days))
	}
}

func TestComparePeriods(t *testing.T) {
	t.Parallel()

	days := seqDays(t, "2025-04-01", 60, func(i int, d *health.DailyAggregate) {
		if i < 30 {
			d.Steps = 8000
		} else {
			d.Steps = 10000
		}
	})

	cmp := ComparePeriods(days, 30)
	if cmp == nil {
		t.Fatal("ComparePeriods() = nil")
	}
	steps := cmp["steps"]
	if steps.RecentAvg != 10000 || steps.PreviousAvg != 8000 {
		t.Errorf("steps = %+v", steps)
	}
	if steps.PctChange != 25 {
		t.Errorf("PctChange = %v, want 25", steps.PctChange)
	}
	if _, ok := cmp["vo2_max"]; ok {
		t.Error("untracked metric present in comparison")
	}
}

func TestComparePeriodsTooShort(t *testing.T) {
	t.Parallel()

	days := seqDays(t, "2025-04-01", 40, func(i int, d *health.DailyAggregate) { d.Steps = 8000 })
	if cmp := ComparePeriods(days, 30); cmp != nil {
		t.Errorf("ComparePeriods() = %v, want nil for short period", cmp)
	}
}

func TestBuildReport(t *testing.T) {
	t.Parallel()

	days := seqDays(t, "2025-04-01", 90, func(i int, d *health.DailyAggregate) {
		d.Steps = 11000
		d.ExerciseMin = 40
		d.RestingHR = ip(58)
		d.HRVAvg = ip(52)
		d.VO2Max = fp(40)
	})

	report := BuildReport(days, testGoals)

	if report.Overview.TotalDays != 90 {
		t.Errorf("TotalDays = %d", report.Overview.TotalDays)
	}
	if report.Overview.DateRange.Start != "2025-04-01" || report.Overview.DateRange.End != "2025-06-29" {
		t.Errorf("DateRange = %+v", report.Overview.DateRange)
	}
	if report.Streaks.CurrentStreak != 90 {
		t.Errorf("CurrentStreak = %d, want 90", report.Streaks.CurrentStreak)
	}
	if report.RecentVsPrevious == nil {
		t.Error("RecentVsPrevious missing for 90-day period")
	}
	if len(report.MonthlyProgression) != 3 {
		t.Errorf("months = %d, want 3", len(report.MonthlyProgression))
	}
	if len(report.Insights) == 0 {
		t.Error("no insights for a strong period")
	}
	if len(report.Insights) > 6 {
		t.Errorf("insights = %d, want at most 6", len(report.Insights))
	}
}

func TestDeepInsightsRecoveryAlert(t *testing.T) {
	t.Parallel()

	report := Report{
		Overview: Overview{DateRange: DateRange{Start: "2025-05-01", End: "2025-05-30"}},
		Anomalies: Anomalies{
			LowHRVDays: []LowHRVDay{{Date: "2025-05-29", HRVAvg: 18}},
		},
	}

	insights := DeepInsights(report)
	var found bool
	for _, ins := range insights {
		if ins.Title == "Recovery Alert" && ins.Type == InsightWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("no recovery alert in %+v", insights)
	}
}
