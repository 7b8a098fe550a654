// Package prompt implements interactive widgets on top of a [terminal.Terminal].
//
// A [Console] runs one widget at a time: it acquires a terminal session, paints the widget's frame, reads a
// key, applies it and repaints, until the widget resolves or is cancelled. Both outcomes tear the session
// down the same way. Resolution replaces the frame with a one-line summary (? message › answer); cancellation
// clears it and returns an error wrapping [shared.ErrCancelled].
//
// Widgets:
//   - [Console.Select] : fuzzy single select
//   - [Console.MultiSelect] : fuzzy multi select with min/max counts
//   - [Console.Input] and [Console.Password] : text entry with validation
//   - [Console.Confirm] : yes/no with a default
//
// A [Flow] chains widgets as named steps, collecting [Answers] and skipping steps whose [When] predicate fails.
package prompt
