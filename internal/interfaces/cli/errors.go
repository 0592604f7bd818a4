package cli

import (
	"errors"
	"fmt"

	configdomain "github.com/flaskkit/manage/internal/core/domain/config"
)

// ExitStatusError carries a child's exit status up to Execute.
type ExitStatusError struct {
	Code int
	// Err is set when the child could not be started.
	Err error
}

func (e *ExitStatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitStatusError) Unwrap() error {
	return e.Err
}

// exitWith turns a launch result into the error a RunE returns.
func exitWith(code int, err error) error {
	switch {
	case err != nil && configdomain.IsConfigurationError(err):
		return err
	case err != nil && code != 0:
		return &ExitStatusError{Code: code, Err: err}
	case err != nil:
		return err
	case code != 0:
		return &ExitStatusError{Code: code}
	default:
		return nil
	}
}

// ExitCode maps an error returned by the command tree to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var status *ExitStatusError
	if errors.As(err, &status) {
		return status.Code
	}
	if configdomain.IsConfigurationError(err) {
		return ExitConfig
	}
	return 1
}
