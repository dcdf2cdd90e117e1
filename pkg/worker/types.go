package worker

import (
	"context"
	"time"
)

// Task represents a unit of work to be processed by the worker pool.
type Task struct {
	// Path identifies the file the task operates on, used in error reports.
	Path string

	// Execute performs the actual work. Recoverable per-item failures should
	// be embedded in the returned Result data; a non-nil error marks the task
	// failed in the pool statistics without stopping the other workers.
	Execute func(context.Context) (Result, error)
}

// Result represents the output of a processed task.
type Result struct {
	// Path matches the task that produced this result.
	Path string

	// Data holds the actual result payload.
	Data interface{}
}

// Config holds the configuration for the worker pool.
type Config struct {
	// Workers is the number of concurrent workers.
	Workers int

	// RateLimit is the maximum number of tasks started per second
	// (0 for unlimited).
	RateLimit int
}

// Stats provides runtime statistics about the worker pool.
type Stats struct {
	// ActiveWorkers is the number of workers currently processing tasks.
	ActiveWorkers int

	// QueuedTasks is the number of tasks waiting to be processed.
	QueuedTasks int

	// CompletedTasks is the number of tasks processed successfully.
	CompletedTasks int

	// FailedTasks is the number of tasks whose Execute returned an error.
	FailedTasks int

	// Uptime is how long the pool has been running.
	Uptime time.Duration
}

// Pool defines the interface for a worker pool.
type Pool interface {
	// Start launches the workers.
	Start(context.Context) error

	// Submit adds a task to the pool for processing.
	Submit(Task) error

	// Wait closes the intake, blocks until all submitted tasks are processed
	// and returns their results. Per-task failures do not produce an error
	// here; only pool-level failures (cancellation, rate limiter) do.
	Wait() ([]Result, error)

	// Stats returns current statistics about the pool.
	Stats() Stats

	// Stop shuts the pool down, cancelling any work still in flight.
	Stop() error
}
