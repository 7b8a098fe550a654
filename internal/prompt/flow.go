package prompt

import (
	"context"
	"fmt"

	"github.com/desertthunder/termkit/internal/models"
	"github.com/desertthunder/termkit/internal/shared"
)

// Answers maps step names to the values they produced. Skipped steps have no entry.
type Answers map[string]any

// String returns a text answer, or the value of a selected candidate.
func (a Answers) String(name string) string {
	switch v := a[name].(type) {
	case string:
		return v
	case models.Candidate:
		return v.Value
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}

func (a Answers) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// Strings returns a list answer, or the values of selected candidates.
func (a Answers) Strings(name string) []string {
	switch v := a[name].(type) {
	case []string:
		return v
	case []models.Candidate:
		return models.Values(v)
	default:
		return nil
	}
}

func (a Answers) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Step is one question in a [Flow].
type Step interface {
	Name() string
	Ask(ctx context.Context, c *Console, answers Answers) (any, error)
}

// StepError reports which step of a flow failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("step %q: %v", e.Step, e.Err) }
func (e *StepError) Unwrap() error { return e.Err }

// Flow runs steps strictly one after another.
type Flow struct {
	steps []Step
}

func NewFlow(steps ...Step) *Flow {
	return &Flow{steps: steps}
}

// Run asks every step in order and stops at the first error. A cancelled step yields a [*StepError] wrapping
// [shared.ErrCancelled] along with the answers gathered so far.
func (f *Flow) Run(ctx context.Context, c *Console) (Answers, error) {
	logger := shared.WithLogger(c.logger, "flow", shared.GenerateID())
	answers := Answers{}

	for i, step := range f.steps {
		if !shouldAsk(step, answers) {
			logger.Debug("flow step skipped", "step", step.Name(), "index", i)
			continue
		}

		logger.Debug("flow step", "step", step.Name(), "index", i)
		v, err := step.Ask(ctx, c, answers)
		if err != nil {
			logger.Debug("flow stopped", "step", step.Name(), "err", err)
			return answers, &StepError{Step: step.Name(), Err: err}
		}
		answers[step.Name()] = v
	}

	logger.Debug("flow complete", "answers", len(answers))
	return answers, nil
}

type conditional struct {
	Step
	pred func(Answers) bool
}

// shouldAsk checks every condition wrapped around step.
func shouldAsk(step Step, answers Answers) bool {
	for cond, ok := step.(*conditional); ok; cond, ok = cond.Step.(*conditional) {
		if !cond.pred(answers) {
			return false
		}
	}
	return true
}

// When makes step run only when pred holds for the answers gathered before it.
func When(pred func(Answers) bool, step Step) Step {
	return &conditional{Step: step, pred: pred}
}

type funcStep struct {
	name string
	fn   func(ctx context.Context, c *Console, answers Answers) (any, error)
}

func (s funcStep) Name() string { return s.name }
func (s funcStep) Ask(ctx context.Context, c *Console, answers Answers) (any, error) {
	return s.fn(ctx, c, answers)
}

// Func builds a step from a function, for questions that depend on earlier answers.
func Func(name string, fn func(ctx context.Context, c *Console, answers Answers) (any, error)) Step {
	return funcStep{name: name, fn: fn}
}

// InputStep answers with a string.
func InputStep(name string, opts InputOptions) Step {
	return Func(name, func(ctx context.Context, c *Console, _ Answers) (any, error) {
		return c.Input(ctx, opts)
	})
}

// PasswordStep answers with a string that was never echoed.
func PasswordStep(name string, opts InputOptions) Step {
	return Func(name, func(ctx context.Context, c *Console, _ Answers) (any, error) {
		return c.Password(ctx, opts)
	})
}

// ConfirmStep answers with a bool.
func ConfirmStep(name, message string, def bool) Step {
	return Func(name, func(ctx context.Context, c *Console, _ Answers) (any, error) {
		return c.Confirm(ctx, message, def)
	})
}

// SelectStep answers with the chosen [models.Candidate].
func SelectStep(name string, opts SelectOptions) Step {
	return Func(name, func(ctx context.Context, c *Console, _ Answers) (any, error) {
		return c.Select(ctx, opts)
	})
}

// MultiSelectStep answers with the chosen []models.Candidate.
func MultiSelectStep(name string, opts MultiSelectOptions) Step {
	return Func(name, func(ctx context.Context, c *Console, _ Answers) (any, error) {
		return c.MultiSelect(ctx, opts)
	})
}
