package di

import (
	"fmt"
	"io"

	"github.com/flaskkit/manage/internal/application/services"
	"github.com/flaskkit/manage/internal/config"
	configdomain "github.com/flaskkit/manage/internal/core/domain/config"
	procp "github.com/flaskkit/manage/internal/core/ports/process"
	configinfra "github.com/flaskkit/manage/internal/infrastructure/config"
	infraproc "github.com/flaskkit/manage/internal/infrastructure/process"
	"github.com/flaskkit/manage/internal/interfaces/cli"
	"github.com/flaskkit/manage/internal/logging"
)

// Container holds all application dependencies
type Container struct {
	// Environment is the ambient environment with APPLICATION_CONFIG defaulted.
	Environment configdomain.Environment
	Settings    config.Settings
	Logger      *logging.Logger

	// Infrastructure
	ConfigLoader    *configinfra.FileLoader
	ComposeResolver *configinfra.ComposeResolver
	Executor        procp.Executor

	// Application services
	ConfigService *services.ConfigurationService
	LaunchService *services.LaunchService

	// CLI
	CLIContainer *cli.CLIContainer
}

// NewContainer wires the application from the process environment. Log
// output goes to stderr; stdout is only used for command output and dry runs.
func NewContainer(environ []string, stdout, stderr io.Writer) (*Container, error) {
	base := configdomain.FromEnviron(environ)

	settings, err := config.Load(base)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	logger, err := logging.New(stderr, settings.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	c := &Container{
		Environment: base.WithDefault(configdomain.ConfigNameVar, settings.ConfigName),
		Settings:    settings,
		Logger:      logger,
	}
	c.initializeComponents(stdout, stderr)

	c.Logger.Debug().
		Str("config", c.Environment.ConfigName()).
		Str("config_dir", settings.ConfigDir).
		Str("docker_dir", settings.DockerDir).
		Bool("dry_run", settings.DryRun).
		Msg("container initialized")

	return c, nil
}

func (c *Container) initializeComponents(stdout, stderr io.Writer) {
	c.ConfigLoader = configinfra.NewFileLoader(c.Settings.ConfigDir)
	c.ComposeResolver = configinfra.NewComposeResolver(c.Settings.DockerDir)

	if c.Settings.DryRun {
		c.Executor = infraproc.NewDryRunExecutor(stdout)
	} else {
		c.Executor = infraproc.NewExecutorWithOptions(c.Logger.WithComponent("executor"), infraproc.ExecutorOptions{
			Stdout: stdout,
			Stderr: stderr,
		})
	}

	c.ConfigService = services.NewConfigurationService(c.ConfigLoader, c.Logger)
	c.LaunchService = services.NewLaunchService(c.ConfigService, c.ComposeResolver, c.Executor, c.Settings, c.Logger)

	c.CLIContainer = &cli.CLIContainer{
		Environment:   c.Environment,
		Settings:      c.Settings,
		ConfigService: c.ConfigService,
		LaunchService: c.LaunchService,
		Logger:        c.Logger,
		Out:           stdout,
		Err:           stderr,
	}
}

// GetCLIContainer returns the CLI container
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return c.CLIContainer
}
