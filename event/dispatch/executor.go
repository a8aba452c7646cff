package dispatch

import (
	"context"
	"runtime/debug"
	"time"
)

// Executor runs handler invocations with panic recovery and timing.
type Executor struct {
	panicHandler PanicHandler
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		panicHandler: defaultPanicHandler,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithPanicHandler sets the panic handler for the executor.
func WithPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		if h != nil {
			e.panicHandler = h
		}
	}
}

// Execute runs invoke inside the failure boundary and returns the Result.
// The payload is not passed to invoke; it is carried only so the panic
// handler can report what was being delivered when a handler blew up.
func (e *Executor) Execute(ctx context.Context, payload any, invoke func(ctx context.Context) error) (result Result) {
	// Check context before starting.
	select {
	case <-ctx.Done():
		return Result{
			Err:     ctx.Err(),
			Skipped: true,
		}
	default:
	}

	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			stack := debug.Stack()

			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = stack

			// The panic handler is itself untrusted; don't let it take
			// down the delivery pass.
			func() {
				defer func() { _ = recover() }()
				e.panicHandler(payload, r, stack)
			}()
		}
	}()

	result.Err = invoke(ctx)
	return result
}
