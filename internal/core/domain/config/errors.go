package configdomain

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound means the configuration file for a name does not exist.
	ErrSourceNotFound = errors.New("configuration file not found")
	// ErrSourceMalformed means the configuration file is not a JSON array of
	// {name, value} records.
	ErrSourceMalformed = errors.New("malformed configuration file")
	// ErrComposeFileMissing means the compose file for a name does not exist.
	ErrComposeFileMissing = errors.New("compose file does not exist")
	// ErrComposeFileInvalid means the compose file could not be parsed.
	ErrComposeFileInvalid = errors.New("invalid compose file")
	// ErrNullValue is the per-key error for a record whose value is null.
	ErrNullValue = errors.New("null value cannot be stored in the environment")
)

// IsConfigurationError reports whether err is a pre-flight configuration
// failure that must abort before anything is spawned.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrSourceNotFound) ||
		errors.Is(err, ErrSourceMalformed) ||
		errors.Is(err, ErrComposeFileMissing) ||
		errors.Is(err, ErrComposeFileInvalid)
}

// KeyError is a recoverable failure to store one configuration key.
type KeyError struct {
	Key   string
	Value string
	Err   error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("config variable %s:%s: %v", e.Key, e.Value, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}
