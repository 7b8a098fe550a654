// Package terminal owns the interactive terminal: raw keystroke input and inline frame rendering.
//
// A [Terminal] wraps an input stream and an output writer. Widgets call [Terminal.Acquire] to get a
// [Session], which switches the input into raw mode and hides the cursor until [Session.Close]. Only
// one session can be active at a time; every real tty in the process shares the same guard.
//
// Keys are decoded from raw bytes by a [KeyReader] into a closed set of [Key] kinds. Reads block
// without polling and unblock when their context is cancelled.
//
// A [Surface] redraws a multi-line frame in place by moving the cursor back to the top of the previous
// frame and erasing below it. Frames never scroll the terminal because every line is truncated to the
// terminal width.
package terminal
