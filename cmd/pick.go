package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/termkit/internal/formatter"
	"github.com/desertthunder/termkit/internal/models"
	"github.com/desertthunder/termkit/internal/prompt"
	"github.com/desertthunder/termkit/internal/shared"
	"github.com/urfave/cli/v3"
)

// Pick shows a fuzzy selector over the candidates and writes the choice to the output.
//
// Candidates come from the arguments, then --file, then piped stdin.
func (r *Runner) Pick(ctx context.Context, cmd *cli.Command) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	items, err := r.candidates(cmd)
	if err != nil {
		return err
	}

	policy := r.config.Selector.Empty
	if cmd.IsSet("empty") {
		policy = cmd.String("empty")
	}
	empty, err := prompt.ParseEmptyPolicy(policy)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidFlag, err)
	}

	def := r.config.Selector.Default
	if cmd.IsSet("default") {
		def = cmd.String("default")
	}

	r.logger.Debug("pick", "candidates", len(items), "multi", cmd.Bool("multi"), "format", format)

	// an empty list resolves without a terminal so scripts can fall back to a default
	if len(items) == 0 {
		return r.pickEmpty(cmd, format, empty, def)
	}

	c, closeTerm, err := r.console()
	if err != nil {
		return err
	}
	defer closeTerm()

	if cmd.Bool("multi") {
		picked, err := c.MultiSelect(ctx, prompt.MultiSelectOptions{
			Message:    messageOr(cmd, "Pick items"),
			Candidates: items,
			Prompt:     r.selectorPrompt(cmd),
			Height:     r.selectorHeight(cmd),
			Min:        int(cmd.Int("min")),
			Max:        int(cmd.Int("max")),
			Empty:      empty,
			Default:    def,
		})
		if err != nil {
			return err
		}
		return formatter.WriteCandidates(r.output, format, picked)
	}

	picked, err := c.Select(ctx, prompt.SelectOptions{
		Message:    messageOr(cmd, "Pick one"),
		Candidates: items,
		Prompt:     r.selectorPrompt(cmd),
		Height:     r.selectorHeight(cmd),
		Initial:    cmd.String("initial"),
		Empty:      empty,
		Default:    def,
	})
	if err != nil {
		return err
	}
	return formatter.WriteCandidate(r.output, format, picked)
}

func (r *Runner) pickEmpty(cmd *cli.Command, format formatter.Format, empty prompt.EmptyPolicy, def string) error {
	r.logger.Debug("pick resolved without candidates", "policy", empty, "default", def)
	if cmd.Bool("multi") {
		picked, err := prompt.ResolveEmptyMulti(empty, def)
		if err != nil {
			return err
		}
		return formatter.WriteCandidates(r.output, format, picked)
	}

	picked, err := prompt.ResolveEmpty(empty, def)
	if err != nil {
		return err
	}
	return formatter.WriteCandidate(r.output, format, picked)
}

func (r *Runner) candidates(cmd *cli.Command) ([]models.Candidate, error) {
	lines := cmd.Args().Slice()
	if len(lines) == 0 {
		var err error
		if lines, err = r.readLines(cmd.String("file")); err != nil {
			return nil, err
		}
	}

	if sep := cmd.String("delimiter"); sep != "" {
		return models.Pairs(lines, sep), nil
	}
	return models.Strings(lines...), nil
}

func (r *Runner) selectorPrompt(cmd *cli.Command) string {
	if cmd.IsSet("prompt") {
		return cmd.String("prompt")
	}
	return r.config.Selector.Prompt
}

func (r *Runner) selectorHeight(cmd *cli.Command) int {
	if h := int(cmd.Int("height")); h > 0 {
		return h
	}
	return r.config.Selector.Height
}

func messageOr(cmd *cli.Command, fallback string) string {
	if m := cmd.String("message"); m != "" {
		return m
	}
	return fallback
}
