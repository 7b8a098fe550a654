package tasks

import (
	"fmt"
	"strings"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase, zero when unknown
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	Started Phase = iota
	Output
	Counted
	JobDone
	Finished
)

func (p Phase) String() string {
	switch p {
	case Started:
		return "started"
	case Output:
		return "output"
	case Counted:
		return "counted"
	case JobDone:
		return "job_done"
	case Finished:
		return "finished"
	default:
		return ""
	}
}

func startedUpdate(name string, args []string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Started,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Running %s", strings.Join(append([]string{name}, args...), " ")),
	}
}

func outputUpdate(line int, text string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Output,
		Step:    line,
		Message: text,
	}
}

func countedUpdate(count, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Counted,
		Step:    count,
		Total:   total,
		Message: fmt.Sprintf("%d lines", count),
	}
}

func jobDoneUpdate(done, total int, result JobResult) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] %s", done, total, result.Job.Name)
	if result.Err != nil {
		msg = fmt.Sprintf("[%d/%d] %s failed", done, total, result.Job.Name)
	}
	return ProgressUpdate{
		Phase:   JobDone,
		Step:    done,
		Total:   total,
		Message: msg,
		Data:    result,
	}
}

func finishedUpdate(step, total int, msg string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Finished,
		Step:    step,
		Total:   total,
		Message: msg,
	}
}
