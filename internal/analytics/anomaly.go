package analytics

import (
	"sort"

	"github.com/solstice035/health-analytics/internal/health"
)

// Outlier thresholds: 1.5 sample standard deviations from the mean,
// needing more than 10 observations, capped at 10 reported days.
const (
	anomalyStdevs  = 1.5
	minAnomalyObs  = 10
	maxAnomalyDays = 10
)

// LowHRVDay is a day whose HRV fell well below the period baseline.
type LowHRVDay struct {
	Date   string  `json:"date"`
	HRVAvg float64 `json:"hrv_avg"`
}

// HighIntensityDay is a day whose peak heart rate ran well above the
// period baseline.
type HighIntensityDay struct {
	Date  string  `json:"date"`
	MaxHR float64 `json:"max_hr"`
}

// Anomalies flags recovery and intensity outliers.
type Anomalies struct {
	LowHRVDays        []LowHRVDay        `json:"low_hrv_days"`
	HighIntensityDays []HighIntensityDay `json:"high_intensity_days"`
}

// DetectAnomalies finds days more than 1.5 standard deviations from
// the period mean on HRV (below) and peak heart rate (above).
func DetectAnomalies(days []health.DailyAggregate) Anomalies {
	var a Anomalies

	hrv := positiveValues(days, func(d health.DailyAggregate) float64 { return intOrZero(d.HRVAvg) })
	if len(hrv) > minAnomalyObs {
		cutoff := mean(hrv) - anomalyStdevs*sampleStdev(hrv)
		for _, d := range days {
			if v := intOrZero(d.HRVAvg); v > 0 && v < cutoff {
				a.LowHRVDays = append(a.LowHRVDays, LowHRVDay{Date: d.Date, HRVAvg: v})
			}
		}
		sort.Slice(a.LowHRVDays, func(i, j int) bool { return a.LowHRVDays[i].HRVAvg < a.LowHRVDays[j].HRVAvg })
		if len(a.LowHRVDays) > maxAnomalyDays {
			a.LowHRVDays = a.LowHRVDays[:maxAnomalyDays]
		}
	}

	maxHR := positiveValues(days, func(d health.DailyAggregate) float64 {
		if d.HR == nil {
			return 0
		}
		return float64(d.HR.Max)
	})
	if len(maxHR) > minAnomalyObs {
		cutoff := mean(maxHR) + anomalyStdevs*sampleStdev(maxHR)
		for _, d := range days {
			if d.HR == nil {
				continue
			}
			if v := float64(d.HR.Max); v > cutoff {
				a.HighIntensityDays = append(a.HighIntensityDays, HighIntensityDay{Date: d.Date, MaxHR: v})
			}
		}
		sort.Slice(a.HighIntensityDays, func(i, j int) bool { return a.HighIntensityDays[i].MaxHR > a.HighIntensityDays[j].MaxHR })
		if len(a.HighIntensityDays) > maxAnomalyDays {
			a.HighIntensityDays = a.HighIntensityDays[:maxAnomalyDays]
		}
	}

	return a
}
