package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/solstice035/health-analytics/internal/health"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [date]",
	Short: "Print the aggregated metrics for a single day",
	Long: `Analyze reads one day's health export and prints the aggregated metrics
as JSON: steps, energy, exercise, stand hours, distance, heart rate
statistics, and recovery metrics.

The date argument uses YYYY-MM-DD format and defaults to yesterday.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().AddDate(0, 0, -1).Format(health.DateLayout)
		if len(args) == 1 {
			date = args[0]
		}
		if _, err := time.Parse(health.DateLayout, date); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}

		cfg := loadConfig()
		loader := health.NewLoader(cfg.ExportDir, health.RestingHRLast)
		day, err := loader.LoadDay(cmd.Context(), date)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(day, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
