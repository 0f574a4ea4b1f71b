package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/certtrack/internal/cli/handlers"
)

// exportCmd represents the export parent command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the tracker to various formats",
	Long: `Export the hours and the course log for programmatic use, backup, or migration.

Available formats:
  json    Export as JSON
  csv     Export the courses as CSV
  yaml    Export as YAML

Examples:
  certtrack export json                  Export everything as JSON
  certtrack export json > backup.json    Export to file
  certtrack export csv --category Udemy  Export Udemy courses as CSV`,
}

// exportJSONCmd represents the export json command
var exportJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "Export as JSON",
	Long: `Export to JSON. Output includes metadata (export timestamp, course count,
filter criteria), the tracked hours and an array of course objects.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runExport(cmd, handlers.FormatJSON)
	},
}

// exportCSVCmd represents the export csv command
var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export the courses as CSV",
	Long:  `Export the course log in standard CSV format with headers.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runExport(cmd, handlers.FormatCSV)
	},
}

// exportYAMLCmd represents the export yaml command
var exportYAMLCmd = &cobra.Command{
	Use:   "yaml",
	Short: "Export as YAML",
	Long:  `Export to YAML with the same structure as the JSON export.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runExport(cmd, handlers.FormatYAML)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportJSONCmd)
	exportCmd.AddCommand(exportCSVCmd)
	exportCmd.AddCommand(exportYAMLCmd)

	exportCmd.PersistentFlags().StringP("category", "c", "", "Only export courses in this category")
	exportCmd.PersistentFlags().StringP("search", "s", "", "Only export courses whose name contains this text")
}

func runExport(cmd *cobra.Command, format string) {
	deps, ok := ready()
	if !ok {
		return
	}
	handlers.Export(cmd.Context(), deps, format, filterFromFlags(cmd))
}
