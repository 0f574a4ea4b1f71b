package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/certtrack/internal/cli/handlers"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or manage configuration settings",
	Long: `Display the current effective configuration settings for certtrack.

Shows the configuration file location, whether it exists, and all current
settings. certtrack works without a configuration file; CERTTRACK_BACKEND,
CERTTRACK_STORAGE_PATH, CERTTRACK_REMOTE_URL, CERTTRACK_LISTEN_ADDR and
CERTTRACK_LOG_LEVEL override the file.

Examples:
  certtrack config                                 Show all current settings
  certtrack config init                            Create a commented config file
  certtrack config set default_category Coursera   Change one setting`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		deps, ok := ready()
		if !ok {
			return
		}
		handlers.ShowConfig(deps)
	},
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sample configuration file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		deps, ok := ready()
		if !ok {
			return
		}
		handlers.InitConfig(deps)
	},
}

// configSetCmd represents the config set command
var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change one configuration setting",
	Long:      `Validate and write one setting to the configuration file. Use an empty value to reset a text setting.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: handlers.ConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		deps, ok := ready()
		if !ok {
			return
		}
		handlers.SetConfig(deps, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
}
