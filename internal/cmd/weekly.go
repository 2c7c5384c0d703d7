package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/solstice035/health-analytics/internal/dashboard"
	"github.com/solstice035/health-analytics/internal/hevy"
	"github.com/solstice035/health-analytics/internal/logging"
	"github.com/spf13/cobra"
)

var weeklyWeeks int

type weeklyReview struct {
	Steps    dashboard.WeeklyComparison `json:"steps"`
	Workouts []hevy.WeeklySummary       `json:"workouts,omitempty"`
}

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Print a week-by-week review of steps and workouts",
	Long: `Weekly prints per-week step averages alongside per-week training volume
from logged workouts as JSON. Workout data is included only when an
API key is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		gen := newGenerator(cfg)

		daily, err := gen.LoadDaily(cmd.Context(), weeklyWeeks*7)
		if err != nil {
			return err
		}
		review := weeklyReview{Steps: dashboard.BuildWeeklyComparison(daily)}

		workouts, err := gen.LoadWorkouts(cmd.Context())
		switch {
		case errors.Is(err, hevy.ErrMissingAPIKey):
			logging.Debug("No API key configured, skipping workout weeks")
		case err != nil:
			logging.Warn("Failed to load workouts for weekly review", "error", err)
		default:
			review.Workouts = hevy.WeeklySummaries(workouts, weeklyWeeks, time.Now())
		}

		out, err := json.MarshalIndent(review, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	weeklyCmd.Flags().IntVar(&weeklyWeeks, "weeks", 12, "number of trailing weeks to review")
	rootCmd.AddCommand(weeklyCmd)
}
