package main

import (
	"context"
	"fmt"
	"os"

	"github.com/flaskkit/manage/internal/interfaces/cli"
	"github.com/flaskkit/manage/internal/interfaces/di"
)

func main() {
	container, err := di.NewContainer(os.Environ(), os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(cli.ExitConfig)
	}

	// Interrupts are relayed to the running child by the executor, so the
	// context is never cancelled from here.
	os.Exit(cli.Execute(context.Background(), container.GetCLIContainer(), os.Args[1:]))
}
