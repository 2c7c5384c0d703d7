package analytics

import "github.com/solstice035/health-analytics/internal/health"

// compareWindowDays is the window for recent-versus-previous
// comparisons inside the full report.
const compareWindowDays = 30

// DateRange is an inclusive calendar range.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Overview describes the period a report covers.
type Overview struct {
	TotalDays int       `json:"total_days"`
	DateRange DateRange `json:"date_range"`
}

// Report is the full analytical breakdown of a period of daily
// aggregates.
type Report struct {
	Overview           Overview                    `json:"overview"`
	FitnessTrajectory  Trajectory                  `json:"fitness_trajectory"`
	WeeklyPatterns     map[string]DayPattern       `json:"weekly_patterns"`
	MonthlyProgression []MonthStats                `json:"monthly_progression"`
	Correlations       Correlations                `json:"correlations"`
	Streaks            Streaks                     `json:"streaks"`
	PersonalRecords    Records                     `json:"personal_records"`
	Anomalies          Anomalies                   `json:"anomalies"`
	RecentVsPrevious   map[string]MetricComparison `json:"recent_vs_previous"`
	Insights           []Insight                   `json:"insights"`
}

// BuildReport runs the full analysis pipeline over the period. Days
// must be sorted oldest first.
func BuildReport(days []health.DailyAggregate, goals ScoreGoals) Report {
	report := Report{}
	if len(days) == 0 {
		return report
	}

	report.Overview = Overview{
		TotalDays: len(days),
		DateRange: DateRange{Start: days[0].Date, End: days[len(days)-1].Date},
	}
	report.FitnessTrajectory = FitnessTrajectory(days)
	report.WeeklyPatterns = WeeklyPatterns(days)
	report.MonthlyProgression = MonthlyProgression(days)
	report.Correlations = BuildCorrelations(days)
	report.Streaks = BuildStreaks(days, goals.Steps, goals.ExerciseMinutes)
	report.PersonalRecords = BuildRecords(days)
	report.Anomalies = DetectAnomalies(days)
	report.RecentVsPrevious = ComparePeriods(days, compareWindowDays)
	report.Insights = DeepInsights(report)
	return report
}
