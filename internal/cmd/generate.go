package cmd

import (
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate all dashboard artifacts from health exports and workouts",
	Long: `Generate reads the daily health export files and any cached or freshly
fetched workouts, then writes every dashboard artifact: daily trends,
weekly comparison, goal progress, summary statistics, heart rate
distribution, health score, insights, personal records, metadata, and
the workout artifacts when an API key is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		gen := newGenerator(cfg)
		return gen.GenerateAll(cmd.Context(), days)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
