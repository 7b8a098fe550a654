package shared

import "fmt"

var (
	// Prompt outcomes
	ErrCancelled    = fmt.Errorf("cancelled")
	ErrNoCandidates = fmt.Errorf("no candidates")

	// Terminal errors
	ErrNotTerminal   = fmt.Errorf("input is not an interactive terminal")
	ErrTerminalBusy  = fmt.Errorf("terminal is owned by another prompt")
	ErrTerminalSetup = fmt.Errorf("terminal setup failed")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// External command errors
	ErrCommandFailed = fmt.Errorf("command failed")
	ErrNotRepository = fmt.Errorf("not a git repository")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
