package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/solstice035/health-analytics/internal/analytics"
	"github.com/solstice035/health-analytics/internal/config"
	"github.com/solstice035/health-analytics/internal/dashboard"
	"github.com/solstice035/health-analytics/internal/health"
	"github.com/solstice035/health-analytics/internal/hevy"
	"github.com/solstice035/health-analytics/internal/logging"
)

// ptr returns a pointer to the given value - useful for optional fields in structs
func ptr[T any](v T) *T {
	return &v
}

// Provider supplies the health and workout data the server exposes.
// *dashboard.Generator satisfies it.
type Provider interface {
	LoadDaily(ctx context.Context, days int) ([]health.DailyAggregate, error)
	LoadDay(ctx context.Context, date string) (health.DailyAggregate, error)
	LoadWorkouts(ctx context.Context) ([]hevy.Workout, error)
}

// Server wraps the MCP server with health analytics tools
type Server struct {
	mcp      *mcp.Server
	provider Provider
	goals    config.Goals
	dataDir  string
	now      func() time.Time
}

// New creates a new MCP server backed by the given data provider.
// dataDir is the dashboard artifact directory served by resources.
func New(provider Provider, goals config.Goals, dataDir string) *Server {
	logging.Debug("Creating MCP server instance")

	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "health-analytics",
			Version: "2.0.0",
		}, nil),
		provider: provider,
		goals:    goals,
		dataDir:  dataDir,
		now:      time.Now,
	}

	logging.Debug("Registering MCP tools")
	s.registerTools()

	logging.Debug("Registering MCP resources")
	s.registerResources()

	logging.Debug("Registering MCP prompts")
	s.registerPrompts()

	logging.Info("MCP server initialized", "tools_registered", 8, "resources_registered", 6, "prompts_registered", 2)
	return s
}

// WithClock overrides the time source, used in tests.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

// Run starts the MCP server over stdio transport
func (s *Server) Run(ctx context.Context) error {
	logging.Info("MCP server starting")
	defer logging.Info("MCP server stopped")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

func (s *Server) registerTools() {
	logging.Debug("Registering tool", "name", "get_health_summary")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "get_health_summary",
		Description: `Get aggregate health statistics over a recent window of days.

Use when:
- User asks "How have I been doing lately?" or "Summarize my last month"
- User wants totals and averages for steps, energy, exercise, or distance
- User needs goal achievement counts

Parameters:
- days (integer): Number of days ending yesterday to summarize. Default: 30.

Returns: Day count, date range, totals (steps, active energy, exercise minutes, distance), daily averages (steps, exercise, resting HR, HRV), and goal achievement tallies.

Example: {"days": 30} or {"days": 7}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Get Health Summary",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.getHealthSummary)

	logging.Debug("Registering tool", "name", "get_health_score")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "get_health_score",
		Description: `Compute a composite health score (0-100) from recent activity and recovery metrics.

Use when:
- User asks "What's my health score?" or "How healthy am I right now?"
- User wants a single number summarizing activity, exercise, stand hours, resting HR, and HRV

Parameters:
- days (integer): Number of days ending yesterday to score. Default: 7.

Returns: Score, level (excellent/good/moderate/needs_work), a short description, and a per-component breakdown.

Example: {"days": 7}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Get Health Score",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.getHealthScore)

	logging.Debug("Registering tool", "name", "get_insights")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "get_insights",
		Description: `Generate personalized insight cards from recent health data.

Use when:
- User asks "Any observations about my health?" or "What stands out?"
- User wants trend callouts, streak highlights, or recovery warnings

Parameters:
- days (integer): Number of days ending yesterday to analyze. Default: 30.

Returns: Up to 4 insight cards, each with a type (positive/neutral/warning), icon, title, and text.

Example: {"days": 30}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Get Insights",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.getInsights)

	logging.Debug("Registering tool", "name", "get_personal_records")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "get_personal_records",
		Description: `Get personal best values across health metrics with the dates they occurred.

Use when:
- User asks "What's my step record?" or "Show my personal bests"
- User wants peak or best values for steps, distance, exercise, HRV, or heart rate

Parameters:
- days (integer): Lookback window in days ending yesterday. Default: 365.

Returns: Records with value and date for max steps, max distance, max exercise minutes, max flights, highest HRV, highest heart rate, and lowest resting heart rate. Metrics that never appeared report a zero value and a null date.

Example: {"days": 365}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Get Personal Records",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.getPersonalRecords)

	logging.Debug("Registering tool", "name", "analyze_date")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "analyze_date",
		Description: `Get the full set of aggregated metrics for a single calendar day.

Use when:
- User asks "How did I do on June 3rd?" or "Show me yesterday's numbers"
- User wants the detailed breakdown for one specific date

Parameters:
- date (string): The day to analyze. Format: YYYY-MM-DD. Required.

Returns: Steps, active energy, exercise minutes, stand hours, distance, flights, daylight minutes, resting HR, HRV, walking HR, blood oxygen, VO2 max, and heart rate stats for that day.

Example: {"date": "2025-06-03"}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Analyze Date",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.analyzeDate)

	logging.Debug("Registering tool", "name", "compare_periods")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "compare_periods",
		Description: `Compare the most recent window of days against the window before it.

Use when:
- User asks "Am I improving?" or "Compare this month to last month"
- User wants percentage change in steps, exercise, resting HR, HRV, or VO2 max

Parameters:
- window_days (integer): Size of each comparison window in days. Default: 30.

Returns: Per-metric recent average, previous average, absolute change, and percentage change. Metrics with no data in either window are omitted.

Example: {"window_days": 30} or {"window_days": 7}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Compare Periods",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.comparePeriods)

	logging.Debug("Registering tool", "name", "get_workout_summary")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "get_workout_summary",
		Description: `Get strength training statistics from logged workouts.

Use when:
- User asks "How's my lifting going?" or "Summarize my workouts"
- User wants workout frequency, volume, or duration over a recent period

Parameters:
- days (integer): Lookback window in days. Default: 30.

Returns: Total workouts, average workouts per week, total volume in kg, total sets, and average duration in minutes.

Example: {"days": 30}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Get Workout Summary",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.getWorkoutSummary)

	logging.Debug("Registering tool", "name", "get_muscle_groups")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "get_muscle_groups",
		Description: `Get training volume and frequency broken down by muscle group over the last 30 days.

Use when:
- User asks "Am I training legs enough?" or "What's my muscle group balance?"
- User wants to spot over- or under-trained muscle groups

Parameters: none.

Returns: Per-group labels, set counts, volume in kg, session frequency, and volume percentages.

Example: {}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Get Muscle Groups",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.getMuscleGroups)
}

type HealthSummaryInput struct {
	Days int `json:"days,omitempty" jsonschema:"Number of days ending yesterday to summarize. Default: 30."`
}

type HealthScoreInput struct {
	Days int `json:"days,omitempty" jsonschema:"Number of days ending yesterday to score. Default: 7."`
}

type InsightsInput struct {
	Days int `json:"days,omitempty" jsonschema:"Number of days ending yesterday to analyze. Default: 30."`
}

type PersonalRecordsInput struct {
	Days int `json:"days,omitempty" jsonschema:"Lookback window in days ending yesterday. Default: 365."`
}

type AnalyzeDateInput struct {
	Date string `json:"date" jsonschema:"The day to analyze. Format: YYYY-MM-DD (e.g., 2025-06-03). Required."`
}

type ComparePeriodsInput struct {
	WindowDays int `json:"window_days,omitempty" jsonschema:"Size of each comparison window in days. The most recent window is compared against the one before it. Default: 30."`
}

type ComparePeriodsOutput struct {
	WindowDays int                                   `json:"window_days"`
	Metrics    map[string]analytics.MetricComparison `json:"metrics,omitempty"`
}

type WorkoutSummaryInput struct {
	Days int `json:"days,omitempty" jsonschema:"Lookback window in days. Default: 30."`
}

type MuscleGroupsInput struct{}

func defaultDays(days, fallback int) int {
	if days <= 0 {
		return fallback
	}
	return days
}

func (s *Server) getHealthSummary(ctx context.Context, req *mcp.CallToolRequest, input HealthSummaryInput) (*mcp.CallToolResult, dashboard.SummaryStats, error) {
	days := defaultDays(input.Days, 30)
	logging.Info("MCP tool call", "tool", "get_health_summary", "days", days)
	if logging.IsVerbose() {
		logging.Debug("MCP request params", "tool", "get_health_summary", "input", logging.ToJSON(input))
	}

	daily, err := s.provider.LoadDaily(ctx, days)
	if err != nil {
		if errors.Is(err, health.ErrNoData) {
			return nil, dashboard.SummaryStats{}, NewNoDataError(fmt.Sprintf("last %d days", days))
		}
		return nil, dashboard.SummaryStats{}, fmt.Errorf("loading daily data: %w", err)
	}
	return nil, dashboard.BuildSummaryStats(daily, s.goals), nil
}

func (s *Server) getHealthScore(ctx context.Context, req *mcp.CallToolRequest, input HealthScoreInput) (*mcp.CallToolResult, analytics.HealthScore, error) {
	days := defaultDays(input.Days, 7)
	logging.Info("MCP tool call", "tool", "get_health_score", "days", days)
	if logging.IsVerbose() {
		logging.Debug("MCP request params", "tool", "get_health_score", "input", logging.ToJSON(input))
	}

	daily, err := s.provider.LoadDaily(ctx, days)
	if err != nil {
		if errors.Is(err, health.ErrNoData) {
			return nil, analytics.HealthScore{}, NewNoDataError(fmt.Sprintf("last %d days", days))
		}
		return nil, analytics.HealthScore{}, fmt.Errorf("loading daily data: %w", err)
	}
	return nil, dashboard.BuildHealthScore(daily, s.goals), nil
}

func (s *Server) getInsights(ctx context.Context, req *mcp.CallToolRequest, input InsightsInput) (*mcp.CallToolResult, dashboard.Insights, error) {
	days := defaultDays(input.Days, 30)
	logging.Info("MCP tool call", "tool", "get_insights", "days", days)
	if logging.IsVerbose() {
		logging.Debug("MCP request params", "tool", "get_insights", "input", logging.ToJSON(input))
	}

	daily, err := s.provider.LoadDaily(ctx, days)
	if err != nil {
		if errors.Is(err, health.ErrNoData) {
			return nil, dashboard.Insights{}, NewNoDataError(fmt.Sprintf("last %d days", days))
		}
		return nil, dashboard.Insights{}, fmt.Errorf("loading daily data: %w", err)
	}
	return nil, dashboard.BuildInsights(daily, s.goals), nil
}

func (s *Server) getPersonalRecords(ctx context.Context, req *mcp.CallToolRequest, input PersonalRecordsInput) (*mcp.CallToolResult, analytics.Records, error) {
	days := defaultDays(input.Days, 365)
	logging.Info("MCP tool call", "tool", "get_personal_records", "days", days)
	if logging.IsVerbose() {
		logging.Debug("MCP request params", "tool", "get_personal_records", "input", logging.ToJSON(input))
	}

	daily, err := s.provider.LoadDaily(ctx, days)
	if err != nil {
		if errors.Is(err, health.ErrNoData) {
			return nil, analytics.Records{}, NewNoDataError(fmt.Sprintf("last %d days", days))
		}
		return nil, analytics.Records{}, fmt.Errorf("loading daily data: %w", err)
	}
	return nil, analytics.BuildRecords(daily), nil
}

func (s *Server) analyzeDate(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeDateInput) (*mcp.CallToolResult, health.DailyAggregate, error) {
	logging.Info("MCP tool call", "tool", "analyze_date", "date", input.Date)
	if logging.IsVerbose() {
		logging.Debug("MCP request params", "tool", "analyze_date", "input", logging.ToJSON(input))
	}

	if input.Date == "" {
		return nil, health.DailyAggregate{}, NewInvalidInputError("date is required, format YYYY-MM-DD")
	}

	day, err := s.provider.LoadDay(ctx, input.Date)
	if err != nil {
		if errors.Is(err, health.ErrNoData) {
			return nil, health.DailyAggregate{}, NewNoDataError(input.Date)
		}
		return nil, health.DailyAggregate{}, fmt.Errorf("loading %s: %w", input.Date, err)
	}
	return nil, day, nil
}

func (s *Server) comparePeriods(ctx context.Context, req *mcp.CallToolRequest, input ComparePeriodsInput) (*mcp.CallToolResult, ComparePeriodsOutput, error) {
	window := defaultDays(input.WindowDays, 30)
	logging.Info("MCP tool call", "tool", "compare_periods", "window_days", window)
	if logging.IsVerbose() {
		logging.Debug("MCP request params", "tool", "compare_periods", "input", logging.ToJSON(input))
	}

	daily, err := s.provider.LoadDaily(ctx, window*2)
	if err != nil {
		if errors.Is(err, health.ErrNoData) {
			return nil, ComparePeriodsOutput{}, NewNoDataError(fmt.Sprintf("last %d days", window*2))
		}
		return nil, ComparePeriodsOutput{}, fmt.Errorf("loading daily data: %w", err)
	}

	output := ComparePeriodsOutput{WindowDays: window}
	if cmp := analytics.ComparePeriods(daily, window); cmp != nil {
		output.Metrics = cmp
	}
	return nil, output, nil
}

func (s *Server) getWorkoutSummary(ctx context.Context, req *mcp.CallToolRequest, input WorkoutSummaryInput) (*mcp.CallToolResult, dashboard.WorkoutSummary, error) {
	days := defaultDays(input.Days, 30)
	logging.Info("MCP tool call", "tool", "get_workout_summary", "days", days)
	if logging.IsVerbose() {
		logging.Debug("MCP request params", "tool", "get_workout_summary", "input", logging.ToJSON(input))
	}

	workouts, err := s.provider.LoadWorkouts(ctx)
	if err != nil {
		if errors.Is(err, hevy.ErrMissingAPIKey) {
			return nil, dashboard.WorkoutSummary{}, NewInvalidInputError("workout tracking is not configured, set HEVY_API")
		}
		return nil, dashboard.WorkoutSummary{}, NewUpstreamError("hevy", err)
	}
	return nil, dashboard.BuildWorkoutSummary(workouts, days, s.now()), nil
}

func (s *Server) getMuscleGroups(ctx context.Context, req *mcp.CallToolRequest, input MuscleGroupsInput) (*mcp.CallToolResult, dashboard.MuscleGroups, error) {
	logging.Info("MCP tool call", "tool", "get_muscle_groups")

	workouts, err := s.provider.LoadWorkouts(ctx)
	if err != nil {
		if errors.Is(err, hevy.ErrMissingAPIKey) {
			return nil, dashboard.MuscleGroups{}, NewInvalidInputError("workout tracking is not configured, set HEVY_API")
		}
		return nil, dashboard.MuscleGroups{}, NewUpstreamError("hevy", err)
	}
	return nil, dashboard.BuildMuscleGroups(workouts, s.now()), nil
}
