package services

import (
	"context"
	"fmt"

	configdomain "github.com/flaskkit/manage/internal/core/domain/config"
	configports "github.com/flaskkit/manage/internal/core/ports/config"
	"github.com/flaskkit/manage/internal/logging"
)

// ConfigurationService merges named configuration files into an environment
type ConfigurationService struct {
	loader configports.Loader
	logger *logging.Logger
}

// NewConfigurationService creates a new configuration service
func NewConfigurationService(loader configports.Loader, logger *logging.Logger) *ConfigurationService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ConfigurationService{
		loader: loader,
		logger: logger.WithComponent("configurator"),
	}
}

// Configure loads the named configuration and merges it into base without
// overwriting keys base already holds. A missing or malformed file is
// returned as an error; per-key failures are logged and reported.
func (s *ConfigurationService) Configure(ctx context.Context, base configdomain.Environment, name string) (configdomain.Environment, configdomain.Report, error) {
	records, err := s.loader.Load(ctx, name)
	if err != nil {
		return base, configdomain.Report{}, fmt.Errorf("failed to load configuration %q: %w", name, err)
	}

	env, report := configdomain.Merge(base, records)

	for _, keyErr := range report.Errors {
		s.logger.Warn().
			Str("key", keyErr.Key).
			Str("value", keyErr.Value).
			Err(keyErr.Err).
			Msg("config variable skipped")
	}
	s.logger.Debug().
		Str("config", name).
		Str("path", s.loader.Path(name)).
		Strs("applied", report.Applied).
		Strs("retained", report.Retained).
		Msg("configuration merged")

	return env, report, nil
}

// Path returns the file the named configuration is read from
func (s *ConfigurationService) Path(name string) string {
	return s.loader.Path(name)
}
