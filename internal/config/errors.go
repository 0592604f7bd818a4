package config

import "errors"

// ErrInvalidSettings is returned by Load when a setting is blank or unparseable.
var ErrInvalidSettings = errors.New("invalid settings")
