package process

//go:generate mockgen -source=ports.go -destination=../../../mock/executor_mock.go -package=mock

import (
	"context"

	"github.com/flaskkit/manage/internal/core/domain/process"
)

// Executor runs one command to completion.
type Executor interface {
	// Run spawns cmd with inherited stdio, relays interrupts to it and blocks
	// until it exits. A non-zero exit is reported through the code, not the
	// error; the error is set only when the child could not be started.
	Run(ctx context.Context, cmd process.Command) (int, error)
}
