package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/termkit/internal/git"
	"github.com/desertthunder/termkit/internal/prompt"
	"github.com/desertthunder/termkit/internal/ui"
	"github.com/urfave/cli/v3"
)

// Branch lists local branches, asks for one and checks it out. The chosen name is written to the output.
func (r *Runner) Branch(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("dir")

	branches, err := git.Branches(ctx, dir)
	if err != nil {
		return err
	}
	current := git.Current(branches)
	r.logger.Debug("branches listed", "dir", dir, "count", len(branches), "current", current)

	c, closeTerm, err := r.console()
	if err != nil {
		return err
	}
	defer closeTerm()

	picked, err := c.Select(ctx, prompt.SelectOptions{
		Message:    messageOr(cmd, "Switch branch"),
		Candidates: git.Candidates(branches),
		Prompt:     r.selectorPrompt(cmd),
		Height:     r.selectorHeight(cmd),
		Initial:    current,
	})
	if err != nil {
		return err
	}

	switch {
	case picked.Value == current:
		r.status(ui.StatusInfo, fmt.Sprintf("already on %s", current))
	case cmd.Bool("dry-run"):
		r.status(ui.StatusInfo, fmt.Sprintf("would switch to %s", picked.Value))
	default:
		if err := git.Checkout(ctx, dir, picked.Value); err != nil {
			r.status(ui.StatusError, fmt.Sprintf("could not switch to %s", picked.Value))
			return err
		}
		r.status(ui.StatusSuccess, fmt.Sprintf("switched to %s", picked.Value))
	}

	return r.writePlain("%s\n", picked.Value)
}
