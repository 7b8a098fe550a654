package tasks

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/termkit/internal/shared"
)

// CommandResult is the outcome of one external command.
type CommandResult struct {
	Name     string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Engine runs jobs and reports progress on caller supplied channels.
type Engine struct {
	logger *log.Logger
}

// NewEngine creates an Engine. A nil logger discards.
func NewEngine(logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewDiscardLogger()
	}
	return &Engine{logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// RunCommand runs name with args, capturing stdout and stderr. Each stdout line is reported as an [Output] update.
// A non-zero exit returns the result together with an error wrapping [shared.ErrCommandFailed].
func (e *Engine) RunCommand(ctx context.Context, progress chan<- ProgressUpdate, name string, args ...string) (*CommandResult, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: command", shared.ErrMissingArgument)
	}

	result := &CommandResult{Name: name, Args: args}
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stderr = &stderr
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCommandFailed, err)
	}

	start := time.Now()
	e.sendProgress(progress, startedUpdate(name, args))
	e.logger.Debug("command started", "name", name, "args", args)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrCommandFailed, name, err)
	}

	scanner := bufio.NewScanner(io.TeeReader(pipe, &stdout))
	line := 0
	for scanner.Scan() {
		line++
		if text := strings.TrimSpace(scanner.Text()); text != "" {
			e.sendProgress(progress, outputUpdate(line, text))
		}
	}
	// drain whatever the scanner refused so Wait does not block the child
	io.Copy(&stdout, pipe)

	err = cmd.Wait()
	result.Duration = time.Since(start)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	result.ExitCode = cmd.ProcessState.ExitCode()
	e.logger.Debug("command finished", "name", name, "exit", result.ExitCode, "duration", result.Duration)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return result, fmt.Errorf("%w: %s exited with status %d", shared.ErrCommandFailed, name, result.ExitCode)
		}
		return result, fmt.Errorf("%w: %s: %v", shared.ErrCommandFailed, name, err)
	}

	e.sendProgress(progress, finishedUpdate(1, 1, fmt.Sprintf("%s finished in %s", name, result.Duration.Round(time.Millisecond))))
	return result, nil
}

// CountLines reads r to the end and reports a [Counted] update per line. total is passed through to updates.
func (e *Engine) CountLines(ctx context.Context, progress chan<- ProgressUpdate, r io.Reader, total int) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	count := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		count++
		e.sendProgress(progress, countedUpdate(count, total))
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	e.sendProgress(progress, finishedUpdate(count, total, fmt.Sprintf("%d lines", count)))
	return count, nil
}
