package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/flaskkit/manage/internal/config"
	configdomain "github.com/flaskkit/manage/internal/core/domain/config"
	"github.com/flaskkit/manage/internal/core/domain/process"
	configports "github.com/flaskkit/manage/internal/core/ports/config"
	procp "github.com/flaskkit/manage/internal/core/ports/process"
	"github.com/flaskkit/manage/internal/logging"
)

// LaunchService builds the flask, compose and test-runner command lines and
// runs them through an Executor, one at a time.
type LaunchService struct {
	configurator *ConfigurationService
	compose      configports.ComposeResolver
	executor     procp.Executor
	settings     config.Settings
	logger       *logging.Logger
}

// NewLaunchService creates a new launch service
func NewLaunchService(
	configurator *ConfigurationService,
	compose configports.ComposeResolver,
	executor procp.Executor,
	settings config.Settings,
	logger *logging.Logger,
) *LaunchService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &LaunchService{
		configurator: configurator,
		compose:      compose,
		executor:     executor,
		settings:     settings,
		logger:       logger.WithComponent("launcher"),
	}
}

// Flask configures the ambient configuration and runs the framework CLI
// with args passed through untouched.
func (s *LaunchService) Flask(ctx context.Context, base configdomain.Environment, args []string) (int, error) {
	env, _, err := s.configurator.Configure(ctx, base, base.ConfigName())
	if err != nil {
		return 0, err
	}

	cmd, err := process.NewCommand(s.settings.FlaskBin, args, env)
	if err != nil {
		return 1, fmt.Errorf("failed to create command: %w", err)
	}
	return s.launch(ctx, cmd)
}

// Compose runs the compose tool for the ambient configuration with args
// appended after the project and file flags.
func (s *LaunchService) Compose(ctx context.Context, base configdomain.Environment, args []string) (int, error) {
	cmd, err := s.ComposeCommand(ctx, base, "")
	if err != nil {
		return 0, err
	}
	return s.launch(ctx, cmd.WithArgs(args...))
}

// ComposeCommand builds `<compose> -p <name> -f <docker-dir>/<name>.yml`
// followed by the space-separated words of commands. The configuration
// named in base is merged into the command's environment first. It fails
// without spawning anything when the compose file is missing or invalid.
func (s *LaunchService) ComposeCommand(ctx context.Context, base configdomain.Environment, commands string) (process.Command, error) {
	name := base.ConfigName()
	s.logger.Debug().Str("config", name).Msg("resolving compose command")

	env, _, err := s.configurator.Configure(ctx, base, name)
	if err != nil {
		return process.Command{}, err
	}

	file, err := s.compose.Resolve(name)
	if err != nil {
		return process.Command{}, err
	}
	s.logger.Debug().
		Str("compose_file", file.Path).
		Strs("services", file.Services).
		Msg("compose file resolved")

	args := []string{"-p", name, "-f", file.Path}
	args = append(args, strings.Fields(commands)...)

	cmd, err := process.NewCommand(s.settings.ComposeBin, args, env)
	if err != nil {
		return process.Command{}, fmt.Errorf("failed to create command: %w", err)
	}
	return cmd, nil
}

// TestCommand builds the test-runner invocation with coverage flags and the
// optional file filters.
func (s *LaunchService) TestCommand(env configdomain.Environment, filenames []string) (process.Command, error) {
	args := []string{
		"-s",
		"--cov-branch",
		"--verbosity=4",
		"--cov-report=term-missing",
		"--cov=" + s.settings.CoverageTarget,
	}
	args = append(args, filenames...)

	cmd, err := process.NewCommand(s.settings.TestRunnerBin, args, env)
	if err != nil {
		return process.Command{}, fmt.Errorf("failed to create command: %w", err)
	}
	return cmd, nil
}

// Test forces the testing configuration, brings the compose services up,
// runs the test suite and tears the services down again.
//
// Teardown runs whenever bring-up was spawned, including when the test run
// fails or cannot be started. The result is the test runner's when it
// failed, otherwise the teardown's.
func (s *LaunchService) Test(ctx context.Context, base configdomain.Environment, filenames []string) (code int, err error) {
	base = base.With(configdomain.ConfigNameVar, configdomain.TestingConfigName)

	env, _, err := s.configurator.Configure(ctx, base, configdomain.TestingConfigName)
	if err != nil {
		return 0, err
	}

	// Both compose commands are resolved up front so a pre-flight failure
	// can never strand running containers.
	up, err := s.ComposeCommand(ctx, env, "up -d")
	if err != nil {
		return 0, err
	}
	down, err := s.ComposeCommand(ctx, env, "down")
	if err != nil {
		return 0, err
	}
	testCmd, err := s.TestCommand(env, filenames)
	if err != nil {
		return 1, err
	}

	upCode, err := s.launch(ctx, up)
	if err != nil {
		return upCode, err
	}
	if upCode != 0 {
		s.logger.Warn().Int("exit_code", upCode).Msg("bringing up services failed, running tests anyway")
	}

	defer func() {
		downCode, downErr := s.launch(context.WithoutCancel(ctx), down)
		switch {
		case downErr != nil:
			s.logger.Error().Err(downErr).Msg("tearing down services failed")
		case downCode != 0:
			s.logger.Warn().Int("exit_code", downCode).Msg("tearing down services failed")
		}
		if err == nil && code == 0 {
			code, err = downCode, downErr
		}
	}()

	s.logger.Info().Strs("command", testCmd.FullCommandLine()).Msg("test command")
	return s.launch(ctx, testCmd)
}

// ComposePath returns the compose file used for the named configuration.
func (s *LaunchService) ComposePath(name string) string {
	return s.compose.Path(name)
}

func (s *LaunchService) launch(ctx context.Context, cmd process.Command) (int, error) {
	s.logger.Info().Strs("command_line", cmd.FullCommandLine()).Msg("launching")

	code, err := s.executor.Run(ctx, cmd)
	if err != nil {
		return code, err
	}
	s.logger.Debug().Str("executable", cmd.Executable()).Int("exit_code", code).Msg("launch finished")
	return code, nil
}
