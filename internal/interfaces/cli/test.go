package cli

import (
	"github.com/spf13/cobra"
)

// NewTestCommand creates the test command
func NewTestCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "test [filenames...]",
		Short: "Run the test suite against freshly started containers",
		Long: `Run the test suite with the "testing" configuration.

The compose services of the testing configuration are started first and
torn down afterwards, even when the tests fail. Filenames restrict the run
to the given test files.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := container.LaunchService.Test(cmd.Context(), container.Environment, args)
			return exitWith(code, err)
		},
	}
}
