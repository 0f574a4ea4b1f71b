package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xolan/certtrack/internal/tui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long: `Launch the interactive Terminal User Interface for certtrack.

Views available:
  - Tracker: Hours, completion and a progress bar; edit the hour values
  - Courses: Browse, add, delete and filter logged courses
  - Stats: Totals, average per course and a category breakdown
  - Config: Current configuration

Keyboard shortcuts:
  - Tab/Shift+Tab: Navigate between views
  - 1-4: Jump to specific view
  - j/k or arrows: Navigate within lists
  - ?: Show help
  - q: Quit`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	// Add --tui flag to root command for quick access
	rootCmd.PersistentFlags().Bool("tui", false, "Launch interactive terminal UI")
}

// runTUI runs the TUI on the current services
func runTUI() {
	deps, ok := ready()
	if !ok {
		return
	}

	if err := tui.Run(deps.Services); err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to run the terminal UI\n")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
	}
}

// CheckTUIFlag checks if the --tui flag is set and runs the TUI if so.
// Returns true if the TUI was launched, false otherwise.
func CheckTUIFlag(cmd *cobra.Command) bool {
	tuiFlag, _ := cmd.Root().PersistentFlags().GetBool("tui")
	if tuiFlag {
		runTUI()
		return true
	}
	return false
}
