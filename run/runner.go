package run

import (
	"context"
	"errors"
)

// Sentinel errors for runners.
var (
	// ErrNilTask is returned when a nil task is posted.
	ErrNilTask = errors.New("task cannot be nil")

	// ErrNotRunning is returned when posting to a stopped runner.
	ErrNotRunning = errors.New("runner is not running")

	// ErrAlreadyRunning is returned when Start is called twice.
	ErrAlreadyRunning = errors.New("runner is already running")

	// ErrQueueFull is returned when a bounded queue cannot accept more tasks.
	ErrQueueFull = errors.New("task queue is full")
)

// Runner accepts callbacks for invocation at its next opportunity.
// Post never waits for the task to execute.
type Runner interface {
	Post(task func()) error
}

// Pumper is implemented by components that advance cooperative work by one
// increment per call, such as the chain sequencer.
type Pumper interface {
	Pump(ctx context.Context)
}
