package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/certtrack/internal/cli/handlers"
)

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore [backup_number]",
	Short: "Restore from a backup file",
	Long: `Restore the tracker file from a backup. Only the file backend keeps backups.

By default, restores from the most recent backup (.bak.1).
Optionally specify a backup number to restore from (1-3).

Examples:
  certtrack restore       Restore from most recent backup
  certtrack restore 2     Restore from backup #2`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deps, ok := ready()
		if !ok {
			return
		}
		num := ""
		if len(args) > 0 {
			num = args[0]
		}
		handlers.RestoreBackup(deps, num)
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}
