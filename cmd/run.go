package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/termkit/internal/animate"
	"github.com/desertthunder/termkit/internal/formatter"
	"github.com/desertthunder/termkit/internal/shared"
	"github.com/desertthunder/termkit/internal/tasks"
	"github.com/desertthunder/termkit/internal/ui"
	"github.com/urfave/cli/v3"
)

// Spin runs the command after "--" under a spinner and passes its stdout through once it exits.
func (r *Runner) Spin(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("%w: command to run", shared.ErrMissingArgument)
	}

	label := cmd.String("label")
	if label == "" {
		label = strings.Join(args, " ")
	}

	style := r.config.Spinner.Style
	if cmd.IsSet("style") {
		style = cmd.String("style")
	}
	preset, err := animate.Preset(style)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidFlag, err)
	}

	theme := r.theme()
	sp := animate.NewSpinner(r.errOutput, animate.SpinnerOptions{
		Frames:   preset.Frames,
		Interval: r.config.Spinner.Interval.Duration,
		Theme:    theme,
	})
	if err := sp.Start(label); err != nil {
		return err
	}

	updates := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range updates {
			if u.Phase == tasks.Output && cmd.Bool("show-output") {
				sp.SetLabel(label + " " + theme.Muted.Render(u.Message))
			}
		}
	}()

	result, err := r.engine.RunCommand(ctx, updates, args[0], args[1:]...)
	close(updates)
	<-done

	if err != nil {
		if ctx.Err() != nil {
			sp.Warn(label + " (interrupted)")
			return fmt.Errorf("%w: %w", shared.ErrCancelled, err)
		}
		sp.Fail(label)
		if result != nil && result.Stderr != "" {
			io.WriteString(r.errOutput, result.Stderr)
		}
		return err
	}
	if err := sp.Succeed(label); err != nil {
		return err
	}
	return r.writePlain("%s", result.Stdout)
}

func (r *Runner) progressOptions(total int) animate.ProgressOptions {
	cfg := r.config.Progress
	return animate.ProgressOptions{
		Total:           total,
		Width:           cfg.Width,
		Complete:        cfg.Complete,
		Incomplete:      cfg.Incomplete,
		Format:          cfg.Format,
		ClearOnComplete: cfg.ClearOnComplete,
		MaxFPS:          cfg.MaxFPS,
	}
}

// Progress advances a bar by one for every line read from stdin.
func (r *Runner) Progress(ctx context.Context, cmd *cli.Command) error {
	if r.input == nil {
		return fmt.Errorf("%w: progress reads lines from a pipe", shared.ErrMissingArgument)
	}

	opts := r.progressOptions(int(cmd.Int("total")))
	if f := cmd.String("bar-format"); f != "" {
		opts.Format = f
	}
	bar, err := animate.NewProgressBar(r.errOutput, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidFlag, err)
	}

	updates := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range updates {
			if u.Phase == tasks.Counted {
				bar.Update(u.Step)
			}
		}
	}()

	count, err := r.engine.CountLines(ctx, updates, r.input, opts.Total)
	close(updates)
	<-done
	if err != nil {
		bar.Finish()
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", shared.ErrCancelled, err)
		}
		return err
	}

	// updates may have been dropped; the final count is always drawn
	if err := bar.Update(count); err != nil {
		return err
	}
	if !bar.Done() {
		r.logger.Debug("input ended before total", "count", count, "total", opts.Total)
		if err := bar.Finish(); err != nil {
			return err
		}
		r.status(ui.StatusWarning, fmt.Sprintf("input ended at %d of %d", count, opts.Total))
	}
	return nil
}

// Batch runs one job per command line, drawing a bar as jobs finish, then writes a per-job summary.
func (r *Runner) Batch(ctx context.Context, cmd *cli.Command) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	lines, err := r.readLines(cmd.String("file"))
	if err != nil {
		return err
	}
	var jobs []tasks.Job
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if job, ok := tasks.ParseJob(line); ok {
			jobs = append(jobs, job)
		}
	}
	if len(jobs) == 0 {
		return fmt.Errorf("%w: no command lines given", shared.ErrMissingArgument)
	}

	bar, err := animate.NewProgressBar(r.errOutput, r.progressOptions(len(jobs)))
	if err != nil {
		return err
	}

	updates := make(chan tasks.ProgressUpdate, len(jobs)+1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range updates {
			if u.Phase == tasks.JobDone {
				bar.Update(u.Step)
				r.logger.Debug(u.Message)
			}
		}
	}()

	result, err := r.engine.Batch(ctx, updates, jobs, tasks.BatchOpts{
		Workers:   int(cmd.Int("workers")),
		RateLimit: cmd.Float("rate"),
	})
	close(updates)
	<-done
	if result == nil {
		return err
	}
	if cerr := ctx.Err(); cerr != nil {
		bar.Finish()
		return fmt.Errorf("%w: %w", shared.ErrCancelled, cerr)
	}

	bar.Finish()
	if werr := formatter.WriteBatch(r.output, format, result); werr != nil {
		return werr
	}
	return err
}
