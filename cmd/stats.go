package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/certtrack/internal/cli/handlers"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show course statistics",
	Long: `Show totals over the course log and a breakdown by category, sorted by
hours. Counted time only includes courses that count toward hours completed.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		deps, ok := ready()
		if !ok {
			return
		}
		handlers.ShowStats(cmd.Context(), deps)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
