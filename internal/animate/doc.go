// Package animate draws single-line animations: a [Spinner] driven by its own ticker and a [ProgressBar]
// driven entirely by its caller.
//
// Both redraw their line in place through a [terminal.Surface]. A stopped spinner prints exactly one final
// line and never writes again. A progress bar that reaches its total either clears its line or ends it with a
// newline, and ignores later updates.
package animate
