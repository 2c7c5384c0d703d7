package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/solstice035/health-analytics/internal/logging"
)

// registerPrompts registers all MCP prompts for the server
func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "weekly_review",
		Description: "Generate a comprehensive review of the past week's health and training data",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "focus",
				Description: "Optional area to emphasize: 'activity', 'recovery', or 'training'. Default: balanced review.",
				Required:    false,
			},
		},
	}, s.weeklyReviewPrompt)

	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "progress_check",
		Description: "Analyze whether health metrics are trending in the right direction",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "window_days",
				Description: "Comparison window size in days. Default: 30.",
				Required:    false,
			},
		},
	}, s.progressCheckPrompt)
}

// weeklyReviewPrompt generates a prompt for reviewing the last week
func (s *Server) weeklyReviewPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	focus := "balanced"
	if req.Params.Arguments != nil {
		if f, ok := req.Params.Arguments["focus"]; ok && f != "" {
			focus = f
		}
	}

	logging.Info("MCP prompt requested", "prompt", "weekly_review", "focus", focus)

	promptText := fmt.Sprintf(`Please provide a comprehensive review of my past week's health data, with a %s focus.

Use the following tools to gather data:
1. **get_health_summary** with days=7 for the weekly totals and averages
2. **get_health_score** with days=7 for the overall score and its breakdown
3. **get_insights** with days=7 for notable patterns and warnings
4. **get_workout_summary** with days=7 for strength training context (if configured)

Then provide:
- **Summary**: Steps, exercise minutes, active energy, and goal hit rates for the week
- **Recovery Check**: Resting heart rate and HRV trends, any low-recovery days
- **Training**: Workouts completed, volume, and muscle group balance
- **Highlights**: Anything that stands out, positive or concerning
- **Recommendations**: Two or three specific suggestions for the coming week

Please be specific with numbers and use the actual data from the tools.`, focus)

	return &mcp.GetPromptResult{
		Description: "Weekly health review prompt",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText},
			},
		},
	}, nil
}

// progressCheckPrompt generates a prompt for trend analysis
func (s *Server) progressCheckPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	window := "30"
	if req.Params.Arguments != nil {
		if w, ok := req.Params.Arguments["window_days"]; ok && w != "" {
			window = w
		}
	}

	logging.Info("MCP prompt requested", "prompt", "progress_check", "window_days", window)

	promptText := fmt.Sprintf(`Please analyze whether my health metrics are moving in the right direction over the last %s days.

Use the following tools to gather data:
1. **compare_periods** with window_days=%s for the core period-over-period comparison
2. **get_health_summary** with days=%s for context on current levels
3. **get_personal_records** to see if I'm approaching any personal bests

Then provide:
- **Trend Summary**: For each metric, is it improving, stable, or declining?
- **Percentage Change**: Quantify the change in steps, exercise, resting HR, HRV, and VO2 max
- **What's Driving It**: Likely behavioral causes of the biggest changes
- **Watch List**: Any metric moving the wrong way that deserves attention
- **Next Steps**: One concrete action to continue or correct the trend

Please be specific with numbers and use the actual data from the tools.`, window, window, window)

	return &mcp.GetPromptResult{
		Description: "Progress trend analysis prompt",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText},
			},
		},
	}, nil
}
