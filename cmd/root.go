package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/xolan/certtrack/internal/cli"
	"github.com/xolan/certtrack/internal/cli/handlers"
)

var rootCmd = &cobra.Command{
	Use:   "certtrack",
	Short: "Track study hours toward a certification goal",
	Long: `certtrack keeps a running total of study hours toward a certification goal
and a log of the courses that contributed to it.

Usage:
  certtrack                                     Show hours and completion
  certtrack hours total 120                     Set the goal (remaining follows)
  certtrack add Go Basics --time "5h 30m"       Log a course
  certtrack list                                List logged courses
  certtrack edit <index> --time 2h              Edit a course
  certtrack delete <index>                      Delete a course (with confirmation)
  certtrack import courses.txt                  Import a block of "5hrs 38mins - Name" lines
  certtrack validate                            Check the tracker data
  certtrack serve                               Serve the tracker over HTTP

Time formats: "5h 30m", "5 hours and 30 minutes", "5.5h", "330m"`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			cli.GetDeps().Verbose()
		}
	},
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if CheckTUIFlag(cmd) {
			return
		}
		deps, ok := ready()
		if !ok {
			return
		}
		handlers.ShowStatus(cmd.Context(), deps)
	},
}

// hoursCmd represents the hours command
var hoursCmd = &cobra.Command{
	Use:   "hours <total|completed|remaining> <n>",
	Short: "Set one of the tracked hour values",
	Long: `Set total, completed or remaining hours. The other values follow:

  certtrack hours total 120        remaining = total - completed
  certtrack hours completed 40     remaining = total - completed
  certtrack hours remaining 30     completed = total - remaining

Values are not clamped; a total below completed yields negative remaining.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"total", "completed", "remaining"},
	Run: func(cmd *cobra.Command, args []string) {
		deps, ok := ready()
		if !ok {
			return
		}
		handlers.SetHours(cmd.Context(), deps, args[0], args[1])
	},
}

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the tracker data",
	Long: `Check that hours remaining equals total minus completed, that course ids
are unique and that every course is well formed. Hours completed may differ
from the sum of counted courses when it was edited by hand; that is reported
but not treated as a problem.

Use --fix to re-derive hours remaining and the derived course fields.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		deps, ok := ready()
		if !ok {
			return
		}
		fix, _ := cmd.Flags().GetBool("fix")
		handlers.Validate(cmd.Context(), deps, fix)
	},
}

func init() {
	rootCmd.AddCommand(hoursCmd)
	rootCmd.AddCommand(validateCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")
	validateCmd.Flags().Bool("fix", false, "Repair derived values")
}

// ready returns the current deps once the services are available. When
// they are not, the error has already been reported.
func ready() (*cli.Deps, bool) {
	deps := cli.GetDeps()
	return deps, deps.Ready()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"certtrack version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
