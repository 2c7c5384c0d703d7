package analytics

import "math"

// Score component weights. Activity components can overshoot their
// goal for bonus credit; the final score is capped at 100.
const (
	stepsWeight    = 25.0
	exerciseWeight = 25.0
	standWeight    = 20.0
	restingWeight  = 15.0
	hrvWeight      = 15.0

	stepsBonusCap    = 1.2
	exerciseBonusCap = 1.5
	standBonusCap    = 1.2
)

// HealthScore is a 0-100 composite of activity and recovery metrics.
type HealthScore struct {
	Score       int                `json:"score"`
	MaxScore    int                `json:"max_score"`
	Level       string             `json:"level"`
	Description string             `json:"description"`
	Breakdown   map[string]float64 `json:"breakdown"`
}

// ScoreInput carries the averages the score is computed from. Zero
// means the metric was absent and its component contributes nothing.
type ScoreInput struct {
	Steps       float64
	ExerciseMin float64
	StandHours  float64
	RestingHR   float64
	HRVAvg      float64
}

// ScoreGoals are the activity targets the score normalizes against.
type ScoreGoals struct {
	Steps           int
	ExerciseMinutes int
	StandHours      int
}

// ComputeHealthScore scores a period. Steps, exercise, and stand hours
// scale against their goals; resting heart rate and HRV score against
// fixed physiological bands.
func ComputeHealthScore(in ScoreInput, goals ScoreGoals) HealthScore {
	breakdown := map[string]float64{}
	var score float64

	if in.Steps > 0 {
		ratio := math.Min(in.Steps/float64(goals.Steps), stepsBonusCap)
		pts := stepsWeight * ratio
		breakdown["steps"] = round1(pts)
		score += pts
	}
	if in.ExerciseMin > 0 {
		ratio := math.Min(in.ExerciseMin/float64(goals.ExerciseMinutes), exerciseBonusCap)
		pts := exerciseWeight * ratio
		breakdown["exercise"] = round1(pts)
		score += pts
	}
	if in.StandHours > 0 {
		ratio := math.Min(in.StandHours/float64(goals.StandHours), standBonusCap)
		pts := standWeight * ratio
		breakdown["stand"] = round1(pts)
		score += pts
	}
	if in.RestingHR > 0 {
		var factor float64
		switch {
		case in.RestingHR <= 60:
			factor = 1.0
		case in.RestingHR <= 70:
			factor = 0.8
		case in.RestingHR <= 80:
			factor = 0.6
		default:
			factor = 0.4
		}
		pts := restingWeight * factor
		breakdown["resting_hr"] = round1(pts)
		score += pts
	}
	if in.HRVAvg > 0 {
		var factor float64
		switch {
		case in.HRVAvg >= 50:
			factor = 1.0
		case in.HRVAvg >= 40:
			factor = 0.9
		case in.HRVAvg >= 30:
			factor = 0.7
		default:
			factor = 0.5
		}
		pts := hrvWeight * factor
		breakdown["hrv"] = round1(pts)
		score += pts
	}

	final := int(math.Round(score))
	if final > 100 {
		final = 100
	}

	level, description := scoreLevel(final)
	return HealthScore{
		Score:       final,
		MaxScore:    100,
		Level:       level,
		Description: description,
		Breakdown:   breakdown,
	}
}

func scoreLevel(score int) (string, string) {
	switch {
	case score >= 85:
		return "excellent", "Excellent! You're crushing your health goals."
	case score >= 70:
		return "good", "Great work! You're on track for good health."
	case score >= 55:
		return "moderate", "Good progress. A bit more activity will help."
	default:
		return "needs_work", "Room for improvement. Try to be more active."
	}
}
