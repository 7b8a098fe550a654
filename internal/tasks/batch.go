package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/termkit/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers = 4
	maxWorkers     = 16
)

// Job is one command of a batch.
type Job struct {
	Name string // display name, the command line when empty
	Cmd  string
	Args []string
}

// ParseJob splits a command line on whitespace.
func ParseJob(line string) (Job, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Job{}, false
	}
	return Job{Name: strings.Join(fields, " "), Cmd: fields[0], Args: fields[1:]}, true
}

// JobResult is the outcome of one job.
type JobResult struct {
	Job    Job
	Index  int
	Result *CommandResult
	Err    error
}

// BatchOpts contains configuration for [Engine.Batch].
type BatchOpts struct {
	Workers   int     // Concurrent workers (default: 4, max: 16)
	RateLimit float64 // Job starts per second, zero for no limit
}

// BatchResult summarizes a batch. Results are in job order.
type BatchResult struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []JobResult
}

// Batch runs jobs on a worker pool. Failed jobs are recorded and do not stop the batch; cancelling ctx does.
func (e *Engine) Batch(ctx context.Context, prog chan<- ProgressUpdate, jobs []Job, opts BatchOpts) (*BatchResult, error) {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}
	if opts.RateLimit < 0 {
		return nil, fmt.Errorf("%w: rate limit cannot be negative", shared.ErrInvalidArgument)
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	limiter := rate.NewLimiter(limit, 1)

	result := &BatchResult{Total: len(jobs), Results: make([]JobResult, len(jobs))}
	queue := make(chan int, len(jobs))
	results := make(chan JobResult, len(jobs))

	var wg sync.WaitGroup
	for range opts.Workers {
		wg.Add(1)
		go e.batchWorker(ctx, &wg, jobs, queue, results)
	}

	go func() {
		defer close(queue)
		for i := range jobs {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			queue <- i
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results[res.Index] = res
		if res.Err != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}
		e.sendProgress(prog, jobDoneUpdate(completed, len(jobs), res))
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	e.sendProgress(prog, finishedUpdate(completed, len(jobs), fmt.Sprintf("%d succeeded, %d failed", result.Succeeded, result.Failed)))
	if result.Failed > 0 {
		return result, fmt.Errorf("%w: %d of %d jobs failed", shared.ErrCommandFailed, result.Failed, result.Total)
	}
	return result, nil
}

// batchWorker runs queued jobs until the queue closes or ctx is done.
func (e *Engine) batchWorker(ctx context.Context, wg *sync.WaitGroup, jobs []Job, queue <-chan int, results chan<- JobResult) {
	defer wg.Done()

	for i := range queue {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job := jobs[i]
		if job.Name == "" {
			job.Name = strings.Join(append([]string{job.Cmd}, job.Args...), " ")
		}
		res, err := e.RunCommand(ctx, nil, job.Cmd, job.Args...)
		if err != nil && errors.Is(err, shared.ErrMissingArgument) {
			err = fmt.Errorf("%w: job %d has no command", shared.ErrInvalidInput, i)
		}
		results <- JobResult{Job: job, Index: i, Result: res, Err: err}
	}
}
