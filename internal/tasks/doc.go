// Package tasks runs the long-running jobs the CLI animates, with real-time progress reporting.
//
// # Operations
//
//  1. [Engine.RunCommand] : run an external command, streaming each stdout line as an update
//  2. [Engine.CountLines] : count lines from a reader, one update per line
//  3. [Engine.Batch] : run many commands on a rate limited worker pool, one update per finished job
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, a message and optional data. Updates are sent with
// select and default so a slow consumer (a spinner or progress bar repainting) never stalls the job. Consumers
// must treat updates as lossy and read final counts from the returned result.
package tasks
