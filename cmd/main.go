package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/termkit/internal/shared"
	"golang.org/x/term"
)

func main() {
	logger := shared.NewLogger(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := RunnerOpts{Logger: logger}
	// piped candidates and job lists arrive on stdin; prompts read keys from the tty
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		opts.Input = os.Stdin
	}
	runner := NewRunner(opts)

	err := runner.app().Run(ctx, os.Args)
	stop()
	switch {
	case err == nil:
	case errors.Is(err, shared.ErrCancelled):
		os.Exit(130)
	default:
		runner.logger.Fatalf("application error: %v", err)
	}
}
