package cli

import (
	"github.com/spf13/cobra"
)

// NewComposeCommand creates the compose passthrough command
func NewComposeCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "compose [args...]",
		Short: "Run docker-compose against the configuration's compose file",
		Long: `Run the compose tool with the project name and compose file of the
ambient configuration (docker/<name>.yml), followed by the given arguments.

Examples:
  manage compose up -d
  manage compose logs -f web`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := container.LaunchService.Compose(cmd.Context(), container.Environment, args)
			return exitWith(code, err)
		},
	}
}
