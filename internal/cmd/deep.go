package cmd

import (
	"github.com/spf13/cobra"
)

var deepDays int

var deepCmd = &cobra.Command{
	Use:   "deep",
	Short: "Generate the deep analysis artifact",
	Long: `Deep runs the long-range analysis over several months of health data:
fitness trajectory, weekly and monthly patterns, exercise-recovery and
steps-HRV correlations, streaks, personal records, anomaly detection,
and period comparison. The result is written to deep_analysis.json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		gen := newGenerator(cfg)
		return gen.GenerateDeep(cmd.Context(), deepDays)
	},
}

func init() {
	deepCmd.Flags().IntVar(&deepDays, "days", 90, "number of days ending yesterday to analyze")
	rootCmd.AddCommand(deepCmd)
}
