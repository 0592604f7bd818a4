package config

import (
	"fmt"
	"strings"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	configdomain "github.com/flaskkit/manage/internal/core/domain/config"
)

// Settings controls where manage looks for files and which tools it runs.
type Settings struct {
	// ConfigName is the ambient configuration name.
	ConfigName string `env:"APPLICATION_CONFIG"`

	// ConfigDir holds <name>.json configuration files.
	ConfigDir string `env:"MANAGE_CONFIG_DIR"`
	// DockerDir holds <name>.yml compose files.
	DockerDir string `env:"MANAGE_DOCKER_DIR"`

	FlaskBin      string `env:"MANAGE_FLASK_BIN"`
	ComposeBin    string `env:"MANAGE_COMPOSE_BIN"`
	TestRunnerBin string `env:"MANAGE_TEST_RUNNER"`
	// CoverageTarget is passed to the test runner as --cov=<target>.
	CoverageTarget string `env:"MANAGE_COVERAGE_TARGET"`

	LogLevel string `env:"MANAGE_LOG_LEVEL"`
	// DryRun prints command lines instead of spawning them.
	DryRun bool `env:"MANAGE_DRY_RUN"`
}

// Defaults returns the settings used for anything the environment leaves unset.
func Defaults() Settings {
	return Settings{
		ConfigName:     configdomain.DefaultConfigName,
		ConfigDir:      "config",
		DockerDir:      "docker",
		FlaskBin:       "flask",
		ComposeBin:     "docker-compose",
		TestRunnerBin:  "pytest",
		CoverageTarget: "hello.py",
		LogLevel:       "info",
	}
}

// Load parses settings from environ and fills the gaps from Defaults.
func Load(environ configdomain.Environment) (Settings, error) {
	var settings Settings
	if err := env.ParseWithOptions(&settings, env.Options{Environment: environ.Map()}); err != nil {
		return Settings{}, fmt.Errorf("error getting env settings: %w", err)
	}

	if err := mergo.Merge(&settings, Defaults()); err != nil {
		return Settings{}, fmt.Errorf("error merging default settings: %w", err)
	}

	return settings, settings.validate()
}

func (s Settings) validate() error {
	required := map[string]string{
		"APPLICATION_CONFIG":     s.ConfigName,
		"MANAGE_CONFIG_DIR":      s.ConfigDir,
		"MANAGE_DOCKER_DIR":      s.DockerDir,
		"MANAGE_FLASK_BIN":       s.FlaskBin,
		"MANAGE_COMPOSE_BIN":     s.ComposeBin,
		"MANAGE_TEST_RUNNER":     s.TestRunnerBin,
		"MANAGE_COVERAGE_TARGET": s.CoverageTarget,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s must not be blank", ErrInvalidSettings, name)
		}
	}

	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%w: MANAGE_LOG_LEVEL: %v", ErrInvalidSettings, err)
	}

	return nil
}
