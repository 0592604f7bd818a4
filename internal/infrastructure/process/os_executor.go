package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/flaskkit/manage/internal/core/domain/process"
	procp "github.com/flaskkit/manage/internal/core/ports/process"
	"github.com/flaskkit/manage/internal/logging"
)

// Exit codes reported when a child cannot be started, following shell conventions.
const (
	ExitCannotExecute = 126
	ExitNotFound      = 127
	exitSignalBase    = 128
)

// InterruptSource registers for interrupt signals and returns the channel
// they arrive on plus a function that unregisters it.
type InterruptSource func() (<-chan os.Signal, func())

// NotifyInterrupts is the default InterruptSource backed by os/signal.
func NotifyInterrupts() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	return ch, func() { signal.Stop(ch) }
}

// ExecutorOptions overrides the streams and signal source of an Executor.
type ExecutorOptions struct {
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	Interrupts InterruptSource
}

// Executor implements the Executor port on top of os/exec
type Executor struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	interrupts InterruptSource
	logger     *logging.Logger
}

// NewExecutor creates an executor wired to the process's own stdio
func NewExecutor(logger *logging.Logger) *Executor {
	return NewExecutorWithOptions(logger, ExecutorOptions{})
}

// NewExecutorWithOptions creates an executor with custom streams or signal source
func NewExecutorWithOptions(logger *logging.Logger, opts ExecutorOptions) *Executor {
	e := &Executor{
		stdin:      opts.Stdin,
		stdout:     opts.Stdout,
		stderr:     opts.Stderr,
		interrupts: opts.Interrupts,
		logger:     logger,
	}
	if e.stdin == nil {
		e.stdin = os.Stdin
	}
	if e.stdout == nil {
		e.stdout = os.Stdout
	}
	if e.stderr == nil {
		e.stderr = os.Stderr
	}
	if e.interrupts == nil {
		e.interrupts = NotifyInterrupts
	}
	if e.logger == nil {
		e.logger = logging.Nop()
	}
	return e
}

// Run starts cmd and waits for it. Interrupts received while waiting are
// forwarded to the child and the wait continues until the child exits.
func (e *Executor) Run(ctx context.Context, cmd process.Command) (int, error) {
	if err := ctx.Err(); err != nil {
		return 1, err
	}
	if err := cmd.IsValid(); err != nil {
		return 1, fmt.Errorf("invalid command: %w", err)
	}

	execCmd := exec.Command(cmd.Executable(), cmd.Args()...)
	execCmd.Dir = cmd.WorkingDir()
	execCmd.Env = cmd.Env().Environ()
	execCmd.Stdin = e.stdin
	execCmd.Stdout = e.stdout
	execCmd.Stderr = e.stderr

	// Register before Start so an interrupt that lands during start-up is
	// still relayed once the child exists.
	interrupts, stop := e.interrupts()
	defer stop()

	if err := execCmd.Start(); err != nil {
		return startFailureCode(err), fmt.Errorf("failed to start %s: %w", cmd.Executable(), err)
	}

	log := e.logger.With().Int("pid", execCmd.Process.Pid).Str("executable", cmd.Executable()).Logger()
	log.Debug().Msg("child started")

	done := make(chan error, 1)
	go func() { done <- execCmd.Wait() }()

	for {
		select {
		case err := <-done:
			code, waitErr := exitCode(err)
			log.Debug().Int("exit_code", code).Msg("child exited")
			return code, waitErr
		case sig := <-interrupts:
			log.Info().Str("signal", sig.String()).Msg("forwarding signal to child")
			if err := execCmd.Process.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
				log.Warn().Err(err).Msg("failed to forward signal")
			}
		}
	}
}

func startFailureCode(err error) int {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return ExitNotFound
	case errors.Is(err, fs.ErrPermission):
		return ExitCannotExecute
	default:
		return 1
	}
}

// exitCode maps the result of Wait to a shell-style exit status. Only
// failures unrelated to the child's own exit are returned as errors.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 1, fmt.Errorf("failed waiting for child: %w", err)
	}

	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return exitSignalBase + int(status.Signal()), nil
	}
	return exitErr.ExitCode(), nil
}

var _ procp.Executor = (*Executor)(nil)
