package cmd

import (
	"errors"
	"fmt"

	"github.com/solstice035/health-analytics/internal/hevy"
	"github.com/spf13/cobra"
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Generate the workout dashboard artifacts from Hevy",
	Long: `Workout fetches logged workouts from the Hevy API (or the local cache
when fresh) and writes the workout artifacts: trends, summary, muscle
group split, exercise records, and workout insights.

Requires the HEVY_API environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		gen := newGenerator(cfg)
		err := gen.GenerateWorkouts(cmd.Context())
		if errors.Is(err, hevy.ErrMissingAPIKey) {
			return fmt.Errorf("no Hevy API key configured, set HEVY_API in the environment or .env")
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(workoutCmd)
}
