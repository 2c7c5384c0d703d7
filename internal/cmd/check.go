package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/solstice035/health-analytics/internal/dashboard"
	"github.com/solstice035/health-analytics/internal/health"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Print a morning check of yesterday's numbers and the current score",
	Long: `Check prints a quick text report: yesterday's steps, exercise, stand
hours, and recovery metrics against the configured goals, plus the
health score over the last seven days.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		out := cmd.OutOrStdout()
		loader := health.NewLoader(cfg.ExportDir, health.RestingHRLast)

		yesterday := time.Now().AddDate(0, 0, -1).Format(health.DateLayout)
		day, err := loader.LoadDay(cmd.Context(), yesterday)
		if err != nil {
			if errors.Is(err, health.ErrNoData) {
				fmt.Fprintf(out, "No export found for %s yet. Export from the Health Auto Export app first.\n", yesterday)
				return nil
			}
			return err
		}

		fmt.Fprintf(out, "Morning check for %s\n\n", day.Date)
		fmt.Fprintf(out, "  Steps:      %d / %d %s\n", day.Steps, cfg.Goals.Steps, goalMark(day.Steps >= cfg.Goals.Steps))
		fmt.Fprintf(out, "  Exercise:   %d min / %d min %s\n", day.ExerciseMin, cfg.Goals.ExerciseMinutes, goalMark(day.ExerciseMin >= cfg.Goals.ExerciseMinutes))
		fmt.Fprintf(out, "  Stand:      %d h / %d h %s\n", day.StandHours, cfg.Goals.StandHours, goalMark(day.StandHours >= cfg.Goals.StandHours))
		fmt.Fprintf(out, "  Distance:   %.1f km\n", day.DistanceKm)
		fmt.Fprintf(out, "  Energy:     %d kcal\n", day.ActiveEnergy)
		if day.RestingHR != nil {
			fmt.Fprintf(out, "  Resting HR: %d bpm\n", *day.RestingHR)
		}
		if day.HRVAvg != nil {
			fmt.Fprintf(out, "  HRV:        %d ms\n", *day.HRVAvg)
		}

		// 7-day health score for context; skipped if the week is empty.
		week, err := loader.LoadRange(cmd.Context(), time.Now().AddDate(0, 0, -1), 7)
		if err == nil {
			score := dashboard.BuildHealthScore(week, cfg.Goals)
			fmt.Fprintf(out, "\nHealth score (7 days): %d (%s)\n", score.Score, score.Level)
		}
		return nil
	},
}

func goalMark(hit bool) string {
	if hit {
		return "hit"
	}
	return "short"
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
