package cli

import (
	"github.com/spf13/cobra"
)

// NewFlaskCommand creates the flask passthrough command
func NewFlaskCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "flask [args...]",
		Short: "Run the flask CLI with the configuration loaded",
		Long: `Run the flask CLI with the ambient configuration merged into its environment.

Every argument after "flask" is passed through untouched.

Examples:
  manage flask run
  APPLICATION_CONFIG=production manage flask routes`,
		DisableFlagParsing: true, // flask owns every argument, --help included
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := container.LaunchService.Flask(cmd.Context(), container.Environment, args)
			return exitWith(code, err)
		},
	}
}
