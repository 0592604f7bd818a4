package process

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	configdomain "github.com/flaskkit/manage/internal/core/domain/config"
)

// Command represents an external program invocation
type Command struct {
	executable string
	args       []string
	workingDir string
	env        configdomain.Environment
}

// NewCommand creates a new Command value object running in the current directory
func NewCommand(executable string, args []string, env configdomain.Environment) (Command, error) {
	return NewCommandWithOptions(executable, args, "", env)
}

// NewCommandWithOptions creates a command with an explicit working directory
func NewCommandWithOptions(executable string, args []string, workingDir string, env configdomain.Environment) (Command, error) {
	if strings.TrimSpace(executable) == "" {
		return Command{}, fmt.Errorf("executable cannot be empty")
	}

	if workingDir == "" {
		var err error
		workingDir, err = os.Getwd()
		if err != nil {
			workingDir = "."
		}
	}

	if !filepath.IsAbs(workingDir) {
		absDir, err := filepath.Abs(workingDir)
		if err == nil {
			workingDir = absDir
		}
	}

	return Command{
		executable: executable,
		args:       append([]string(nil), args...), // Copy slice
		workingDir: workingDir,
		env:        env,
	}, nil
}

// Executable returns the command executable
func (c Command) Executable() string {
	return c.executable
}

// Args returns a copy of the command arguments
func (c Command) Args() []string {
	return append([]string(nil), c.args...)
}

// WorkingDir returns the working directory for the command
func (c Command) WorkingDir() string {
	return c.workingDir
}

// Env returns the environment the child process inherits
func (c Command) Env() configdomain.Environment {
	return c.env
}

// WithArgs returns a new Command with extra arguments appended
func (c Command) WithArgs(args ...string) Command {
	next := c
	next.args = append(c.Args(), args...)
	return next
}

// String returns a string representation of the command
func (c Command) String() string {
	if len(c.args) == 0 {
		return c.executable
	}
	return fmt.Sprintf("%s %s", c.executable, strings.Join(c.args, " "))
}

// FullCommandLine returns the complete command line including executable and args
func (c Command) FullCommandLine() []string {
	result := make([]string, 0, len(c.args)+1)
	result = append(result, c.executable)
	result = append(result, c.args...)
	return result
}

// IsValid validates the command structure
func (c Command) IsValid() error {
	if c.executable == "" {
		return fmt.Errorf("executable cannot be empty")
	}

	if filepath.IsAbs(c.workingDir) {
		if stat, err := os.Stat(c.workingDir); err != nil || !stat.IsDir() {
			return fmt.Errorf("working directory does not exist: %s", c.workingDir)
		}
	}

	return nil
}
