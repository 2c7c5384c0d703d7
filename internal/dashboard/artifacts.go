// Package dashboard renders analysis results into the static JSON
// artifacts the web dashboard reads.
package dashboard

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/solstice035/health-analytics/internal/analytics"
	"github.com/solstice035/health-analytics/internal/config"
	"github.com/solstice035/health-analytics/internal/health"
)

const (
	trendDays       = 30
	comparisonWeeks = 12
	goalsDays       = 7
	maxInsights     = 4
)

// ArtifactVersion is stamped into metadata.json.
const ArtifactVersion = "2.0.0"

// DailyTrends is the per-day series behind the trend charts. Sampled
// metrics carry 0 on days without data.
type DailyTrends struct {
	Dates           []string  `json:"dates"`
	Steps           []int     `json:"steps"`
	Distance        []float64 `json:"distance"`
	ActiveEnergy    []int     `json:"active_energy"`
	ExerciseMinutes []int     `json:"exercise_minutes"`
	StandHours      []int     `json:"stand_hours"`
	RestingHR       []int     `json:"resting_hr"`
	HRV             []int     `json:"hrv"`
}

// BuildDailyTrends takes the last trendDays of the period.
func BuildDailyTrends(days []health.DailyAggregate) DailyTrends {
	if len(days) > trendDays {
		days = days[len(days)-trendDays:]
	}
	t := DailyTrends{
		Dates:           make([]string, 0, len(days)),
		Steps:           make([]int, 0, len(days)),
		Distance:        make([]float64, 0, len(days)),
		ActiveEnergy:    make([]int, 0, len(days)),
		ExerciseMinutes: make([]int, 0, len(days)),
		StandHours:      make([]int, 0, len(days)),
		RestingHR:       make([]int, 0, len(days)),
		HRV:             make([]int, 0, len(days)),
	}
	for _, d := range days {
		t.Dates = append(t.Dates, d.Date)
		t.Steps = append(t.Steps, d.Steps)
		t.Distance = append(t.Distance, d.DistanceKm)
		t.ActiveEnergy = append(t.ActiveEnergy, d.ActiveEnergy)
		t.ExerciseMinutes = append(t.ExerciseMinutes, d.ExerciseMin)
		t.StandHours = append(t.StandHours, d.StandHours)
		t.RestingHR = append(t.RestingHR, intValue(d.RestingHR))
		t.HRV = append(t.HRV, intValue(d.HRVAvg))
	}
	return t
}

// WeeklyComparison averages activity per ISO week for the bar chart.
type WeeklyComparison struct {
	Weeks       []string  `json:"weeks"`
	AvgSteps    []int     `json:"avg_steps"`
	AvgDistance []float64 `json:"avg_distance"`
	AvgEnergy   []int     `json:"avg_energy"`
	AvgExercise []int     `json:"avg_exercise"`
}

// BuildWeeklyComparison groups days by ISO week and keeps the last
// comparisonWeeks of them.
func BuildWeeklyComparison(days []health.DailyAggregate) WeeklyComparison {
	byWeek := map[string][]health.DailyAggregate{}
	for _, d := range days {
		t, err := time.Parse(health.DateLayout, d.Date)
		if err != nil {
			continue
		}
		year, week := t.ISOWeek()
		key := fmt.Sprintf("%d-W%02d", year, week)
		byWeek[key] = append(byWeek[key], d)
	}

	keys := make([]string, 0, len(byWeek))
	for k := range byWeek {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > comparisonWeeks {
		keys = keys[len(keys)-comparisonWeeks:]
	}

	c := WeeklyComparison{}
	for _, key := range keys {
		group := byWeek[key]
		n := float64(len(group))
		var steps, distance, energy, exercise float64
		for _, d := range group {
			steps += float64(d.Steps)
			distance += d.DistanceKm
			energy += float64(d.ActiveEnergy)
			exercise += float64(d.ExerciseMin)
		}
		c.Weeks = append(c.Weeks, key)
		c.AvgSteps = append(c.AvgSteps, int(steps/n))
		c.AvgDistance = append(c.AvgDistance, round1(distance/n))
		c.AvgEnergy = append(c.AvgEnergy, int(energy/n))
		c.AvgExercise = append(c.AvgExercise, int(exercise/n))
	}
	return c
}

// GoalsProgress marks goal hits as 0/1 per day for the last week.
type GoalsProgress struct {
	Dates        []string `json:"dates"`
	StepsGoal    []int    `json:"steps_goal"`
	StandGoal    []int    `json:"stand_goal"`
	ExerciseGoal []int    `json:"exercise_goal"`
}

// BuildGoalsProgress takes the last goalsDays of the period.
func BuildGoalsProgress(days []health.DailyAggregate, goals config.Goals) GoalsProgress {
	if len(days) > goalsDays {
		days = days[len(days)-goalsDays:]
	}
	g := GoalsProgress{}
	for _, d := range days {
		g.Dates = append(g.Dates, d.Date)
		g.StepsGoal = append(g.StepsGoal, boolToInt(d.Steps >= goals.Steps))
		g.StandGoal = append(g.StandGoal, boolToInt(d.StandHours >= goals.StandHours))
		g.ExerciseGoal = append(g.ExerciseGoal, boolToInt(d.ExerciseMin >= goals.ExerciseMinutes))
	}
	return g
}

// GoalTally counts goal achievement over the whole period.
type GoalTally struct {
	Achieved int `json:"achieved"`
	Total    int `json:"total"`
}

// SummaryTotals are whole-period sums.
type SummaryTotals struct {
	Steps           int     `json:"steps"`
	DistanceKm      float64 `json:"distance_km"`
	ActiveEnergy    int     `json:"active_energy_kcal"`
	ExerciseMinutes int     `json:"exercise_minutes"`
}

// SummaryAverages are whole-period daily averages. Resting heart rate
// and HRV average only the days that carried a value.
type SummaryAverages struct {
	Steps           int     `json:"steps"`
	DistanceKm      float64 `json:"distance_km"`
	ActiveEnergy    int     `json:"active_energy_kcal"`
	ExerciseMinutes int     `json:"exercise_minutes"`
	StandHours      float64 `json:"stand_hours"`
	RestingHR       int     `json:"resting_hr"`
	HRV             int     `json:"hrv"`
}

// SummaryStats is the headline artifact for the summary panel.
type SummaryStats struct {
	Period    string               `json:"period"`
	DaysCount int                  `json:"days_count"`
	Totals    SummaryTotals        `json:"totals"`
	Averages  SummaryAverages      `json:"averages"`
	Goals     map[string]GoalTally `json:"goals"`
}

// BuildSummaryStats folds the whole period into totals, averages, and
// goal tallies.
func BuildSummaryStats(days []health.DailyAggregate, goals config.Goals) SummaryStats {
	s := SummaryStats{DaysCount: len(days), Goals: map[string]GoalTally{}}
	if len(days) == 0 {
		return s
	}
	s.Period = fmt.Sprintf("%s to %s", days[0].Date, days[len(days)-1].Date)

	var standSum float64
	var rhrSum, rhrN, hrvSum, hrvN int
	stepsHit, standHit, exerciseHit := 0, 0, 0
	for _, d := range days {
		s.Totals.Steps += d.Steps
		s.Totals.DistanceKm += d.DistanceKm
		s.Totals.ActiveEnergy += d.ActiveEnergy
		s.Totals.ExerciseMinutes += d.ExerciseMin
		standSum += float64(d.StandHours)
		if d.RestingHR != nil {
			rhrSum += *d.RestingHR
			rhrN++
		}
		if d.HRVAvg != nil {
			hrvSum += *d.HRVAvg
			hrvN++
		}
		if d.Steps >= goals.Steps {
			stepsHit++
		}
		if d.StandHours >= goals.StandHours {
			standHit++
		}
		if d.ExerciseMin >= goals.ExerciseMinutes {
			exerciseHit++
		}
	}

	n := len(days)
	s.Totals.DistanceKm = round1(s.Totals.DistanceKm)
	s.Averages = SummaryAverages{
		Steps:           s.Totals.Steps / n,
		DistanceKm:      round1(s.Totals.DistanceKm / float64(n)),
		ActiveEnergy:    s.Totals.ActiveEnergy / n,
		ExerciseMinutes: s.Totals.ExerciseMinutes / n,
		StandHours:      round1(standSum / float64(n)),
	}
	if rhrN > 0 {
		s.Averages.RestingHR = rhrSum / rhrN
	}
	if hrvN > 0 {
		s.Averages.HRV = hrvSum / hrvN
	}

	s.Goals["steps_10k"] = GoalTally{Achieved: stepsHit, Total: n}
	s.Goals["stand_12h"] = GoalTally{Achieved: standHit, Total: n}
	s.Goals["exercise_30m"] = GoalTally{Achieved: exerciseHit, Total: n}
	return s
}

// HRDistribution is the time-in-zone chart input. Each day contributes
// coarse tallies based on its min, average, and max heart rate.
type HRDistribution struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

var hrZoneLabels = []string{"resting", "light", "moderate", "vigorous", "peak"}

// BuildHRDistribution tallies coarse zone exposure per day. Without
// intraday samples this is a heuristic: a day's min under 60 counts
// as resting exposure, its average drives light exposure, and its max
// unlocks the higher zones.
func BuildHRDistribution(days []health.DailyAggregate) HRDistribution {
	values := make([]int, len(hrZoneLabels))
	for _, d := range days {
		if d.HR == nil {
			continue
		}
		if d.HR.Min < 60 {
			values[0]++
		}
		switch {
		case d.HR.Avg >= 60 && d.HR.Avg < 100:
			values[1] += 2
		case d.HR.Avg < 60:
			values[1]++
		}
		if d.HR.Max >= 100 {
			values[2]++
		}
		if d.HR.Max >= 140 {
			values[3]++
		}
		if d.HR.Max >= 170 {
			values[4]++
		}
	}
	return HRDistribution{Labels: hrZoneLabels, Values: values}
}

// DashboardRecords is the compact record set shown on the main panel.
type DashboardRecords struct {
	MaxSteps        analytics.Record `json:"max_steps"`
	MaxDistance     analytics.Record `json:"max_distance"`
	MaxExercise     analytics.Record `json:"max_exercise"`
	LowestRestingHR analytics.Record `json:"lowest_resting_hr"`
	HighestHRV      analytics.Record `json:"highest_hrv"`
}

// BuildDashboardRecords projects the full record set down to the five
// the dashboard shows.
func BuildDashboardRecords(records analytics.Records) DashboardRecords {
	return DashboardRecords{
		MaxSteps:        records.MaxSteps,
		MaxDistance:     records.MaxDistance,
		MaxExercise:     records.MaxExercise,
		LowestRestingHR: records.LowestRestingHR,
		HighestHRV:      records.HighestHRV,
	}
}

// Insights wraps the card list for the insights artifact.
type Insights struct {
	Insights []analytics.Insight `json:"insights"`
}

// Metadata describes when and from what the artifacts were generated.
type Metadata struct {
	GeneratedAt string        `json:"generated_at"`
	DataRange   MetadataRange `json:"data_range"`
	LastUpdate  string        `json:"last_update"`
	Version     string        `json:"version"`
	Features    []string      `json:"features"`
}

// MetadataRange is the loaded period.
type MetadataRange struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	DaysLoaded int    `json:"days_loaded"`
}

// BuildMetadata stamps the artifact set.
func BuildMetadata(days []health.DailyAggregate, now time.Time) Metadata {
	m := Metadata{
		GeneratedAt: now.Format(time.RFC3339),
		LastUpdate:  now.Format("2006-01-02 15:04"),
		Version:     ArtifactVersion,
		Features: []string{
			"daily_trends",
			"weekly_comparison",
			"goals_progress",
			"summary_stats",
			"hr_distribution",
			"health_score",
			"insights",
			"personal_records",
		},
	}
	if len(days) > 0 {
		m.DataRange = MetadataRange{
			Start:      days[0].Date,
			End:        days[len(days)-1].Date,
			DaysLoaded: len(days),
		}
	}
	return m
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
