package hevy

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const lbsToKg = 0.453592

// Set is one logged set. Weight is always kilograms after parsing.
type Set struct {
	Type     string  `json:"type"`
	Reps     int     `json:"reps"`
	WeightKg float64 `json:"weight_kg"`
}

// countsTowardVolume reports whether the set type contributes to
// training volume. Warmups and failed sets are excluded.
func (s Set) countsTowardVolume() bool {
	switch s.Type {
	case "working", "normal", "drop", "dropset":
		return true
	}
	return false
}

// Exercise is one exercise block within a workout with its per-set
// rollups precomputed.
type Exercise struct {
	Name        string  `json:"name"`
	MuscleGroup string  `json:"muscle_group"`
	Sets        []Set   `json:"sets"`
	SetCount    int     `json:"set_count"`
	TotalReps   int     `json:"total_reps"`
	VolumeKg    float64 `json:"volume_kg"`
	MaxWeightKg float64 `json:"max_weight_kg"`
}

// Workout is one normalized training session.
type Workout struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	Date        string     `json:"date"`
	DurationMin int        `json:"duration_minutes"`
	Exercises   []Exercise `json:"exercises"`
}

// muscleGroupKeywords maps muscle groups to exercise-name substrings
// used when neither the template catalog nor the payload names a
// group. Groups are checked in a fixed order so ambiguous names
// resolve deterministically.
var muscleGroupOrder = []string{"chest", "back", "shoulders", "arms", "legs", "core", "cardio"}

var muscleGroupKeywords = map[string][]string{
	"chest":     {"bench", "chest", "fly", "flye", "push up", "pushup", "push-up", "dip"},
	"back":      {"row", "pull up", "pullup", "pull-up", "pulldown", "pull down", "lat ", "deadlift", "shrug", "chin up", "chinup"},
	"shoulders": {"shoulder", "overhead press", "ohp", "lateral raise", "front raise", "rear delt", "arnold", "military", "face pull"},
	"arms":      {"curl", "tricep", "bicep", "extension", "pushdown", "skull", "hammer", "preacher"},
	"legs":      {"squat", "leg", "lunge", "calf", "hamstring", "quad", "glute", "hip thrust", "rdl", "romanian", "bulgarian", "step up"},
	"core":      {"ab ", "abs", "crunch", "plank", "sit up", "situp", "russian twist", "hanging", "oblique", "core"},
	"cardio":    {"run", "treadmill", "bike", "cycling", "elliptical", "stair", "jump rope", "burpee", "sprint", "sled"},
}

// inferMuscleGroup guesses a muscle group from an exercise name.
// Returns "other" when nothing matches.
func inferMuscleGroup(name string) string {
	lower := strings.ToLower(name)
	for _, group := range muscleGroupOrder {
		for _, kw := range muscleGroupKeywords[group] {
			if strings.Contains(lower, kw) {
				return group
			}
		}
	}
	return "other"
}

// ExtractWorkouts pulls the workout list out of an API or cached
// payload. Accepts an envelope keyed by workouts, data, or results, or
// a bare array.
func ExtractWorkouts(raw []byte) []json.RawMessage {
	var bare []json.RawMessage
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil
	}
	for _, key := range []string{"workouts", "data", "results"} {
		inner, ok := envelope[key]
		if !ok {
			continue
		}
		var list []json.RawMessage
		if err := json.Unmarshal(inner, &list); err == nil {
			return list
		}
	}
	return nil
}

// ParseWorkouts normalizes raw workout payloads, sorted newest first.
// The template catalog takes precedence for muscle-group attribution;
// payload fields and name inference are fallbacks.
func ParseWorkouts(raw []json.RawMessage, templates map[string]Template) []Workout {
	workouts := make([]Workout, 0, len(raw))
	for _, item := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			continue
		}
		workouts = append(workouts, parseWorkout(fields, templates))
	}
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].StartTime > workouts[j].StartTime
	})
	return workouts
}

func parseWorkout(fields map[string]json.RawMessage, templates map[string]Template) Workout {
	w := Workout{
		ID:        stringField(fields, "id", "workout_id"),
		Name:      stringField(fields, "name", "title"),
		StartTime: stringField(fields, "start_time", "startTime", "started_at", "date"),
		EndTime:   stringField(fields, "end_time", "endTime", "ended_at", "completed_at"),
	}
	if w.Name == "" {
		w.Name = "Workout"
	}
	w.Date = dateFromTimestamp(w.StartTime)
	w.DurationMin = durationMinutes(w.StartTime, w.EndTime)

	for _, item := range listField(fields, "exercises", "exercise_data") {
		var ef map[string]json.RawMessage
		if err := json.Unmarshal(item, &ef); err != nil {
			continue
		}
		w.Exercises = append(w.Exercises, parseExercise(ef, templates))
	}
	return w
}

func parseExercise(fields map[string]json.RawMessage, templates map[string]Template) Exercise {
	ex := Exercise{
		Name: stringField(fields, "title", "name", "exercise_name"),
	}
	if ex.Name == "" {
		ex.Name = "Unknown"
	}
	ex.MuscleGroup = resolveMuscleGroup(fields, ex.Name, templates)

	for _, item := range listField(fields, "sets", "set_data") {
		var sf map[string]json.RawMessage
		if err := json.Unmarshal(item, &sf); err != nil {
			continue
		}
		set := parseSet(sf)
		ex.Sets = append(ex.Sets, set)

		ex.SetCount++
		if set.WeightKg > ex.MaxWeightKg {
			ex.MaxWeightKg = set.WeightKg
		}
		if set.countsTowardVolume() {
			ex.TotalReps += set.Reps
			ex.VolumeKg += set.WeightKg * float64(set.Reps)
		}
	}
	ex.VolumeKg = round1(ex.VolumeKg)
	ex.MaxWeightKg = round1(ex.MaxWeightKg)
	return ex
}

func resolveMuscleGroup(fields map[string]json.RawMessage, name string, templates map[string]Template) string {
	if id := stringField(fields, "exercise_template_id"); id != "" {
		if tpl, ok := templates[id]; ok && tpl.PrimaryMuscleGroup != "" && tpl.PrimaryMuscleGroup != "other" {
			return tpl.PrimaryMuscleGroup
		}
	}
	if g := stringField(fields, "muscle_group", "primary_muscle_group", "category"); g != "" && g != "other" {
		return g
	}
	return inferMuscleGroup(name)
}

func parseSet(fields map[string]json.RawMessage) Set {
	s := Set{
		Type:     strings.ToLower(stringField(fields, "type", "set_type")),
		Reps:     int(numberField(fields, "reps", "repetitions")),
		WeightKg: numberField(fields, "weight_kg", "weight"),
	}
	if s.Type == "" {
		s.Type = "working"
	}
	unit := stringField(fields, "weight_unit", "unit")
	if unit == "lbs" || unit == "lb" {
		s.WeightKg *= lbsToKg
	}
	return s
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateFromTimestamp extracts a calendar date from a workout timestamp,
// tolerating the format drift seen across API versions. Falls back to
// today when the timestamp is unusable.
func dateFromTimestamp(s string) string {
	if t, ok := parseTimestamp(s); ok {
		return t.Format("2006-01-02")
	}
	if len(s) >= 10 {
		if _, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return s[:10]
		}
	}
	return time.Now().Format("2006-01-02")
}

func durationMinutes(start, end string) int {
	st, ok1 := parseTimestamp(start)
	et, ok2 := parseTimestamp(end)
	if !ok1 || !ok2 {
		return 0
	}
	minutes := int(et.Sub(st).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}

// stringField returns the first present candidate key as a string.
func stringField(fields map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// numberField returns the first present candidate key as a float64,
// accepting numbers or numeric strings. Missing keys yield 0.
func numberField(fields map[string]json.RawMessage, keys ...string) float64 {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return f
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if f, perr := strconv.ParseFloat(s, 64); perr == nil {
				return f
			}
		}
	}
	return 0
}

func listField(fields map[string]json.RawMessage, keys ...string) []json.RawMessage {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err == nil {
			return list
		}
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
