package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/flaskkit/manage/internal/application/services"
	"github.com/flaskkit/manage/internal/config"
	configdomain "github.com/flaskkit/manage/internal/core/domain/config"
	"github.com/flaskkit/manage/internal/logging"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// ExitConfig is returned for configuration errors caught before anything is spawned (EX_CONFIG).
const ExitConfig = 78

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	// Environment is the ambient environment manage was started with.
	Environment   configdomain.Environment
	Settings      config.Settings
	ConfigService *services.ConfigurationService
	LaunchService *services.LaunchService
	Logger        *logging.Logger
	Out           io.Writer
	Err           io.Writer
}

// NewRootCommand builds the manage command tree
func NewRootCommand(container *CLIContainer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "manage",
		Short: "Run the app, its containers and its tests with the right configuration",
		Long: `manage loads the named JSON configuration into the environment and
launches the framework CLI, the compose tool or the test suite with it.

The configuration name comes from APPLICATION_CONFIG (default "development").
Variables already present in the environment always take precedence over
the values in the configuration file.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.SetOut(container.Out)
	rootCmd.SetErr(container.Err)

	rootCmd.AddCommand(NewFlaskCommand(container))
	rootCmd.AddCommand(NewComposeCommand(container))
	rootCmd.AddCommand(NewTestCommand(container))
	rootCmd.AddCommand(NewConfigCommand(container))

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(ctx context.Context, container *CLIContainer, args []string) int {
	rootCmd := NewRootCommand(container)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	// A child that exited non-zero has already spoken for itself.
	var status *ExitStatusError
	if !errors.As(err, &status) || status.Err != nil {
		fmt.Fprintf(container.Err, "Error: %v\n", err)
	}
	return ExitCode(err)
}
