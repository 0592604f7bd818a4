// Package config loads the settings of the manage tool itself.
//
// Settings are read from environment variables with caarlos0/env and any
// field left at its zero value is filled from [Defaults] with mergo. This is
// separate from the application configuration files, which are merged into
// the child environment by the configuration service.
package config
