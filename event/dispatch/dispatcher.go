package dispatch

import "time"

// Result represents the outcome of a single handler invocation.
type Result struct {
	// Err is the error returned by the handler, if any.
	Err error

	// Panicked is true if the handler panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked is true.
	PanicValue any

	// PanicStack is the stack trace at the point of panic.
	PanicStack []byte

	// Duration is how long the invocation took.
	Duration time.Duration

	// Skipped is true if the handler was not executed (context cancelled
	// before invocation).
	Skipped bool
}

// OK returns true if the handler ran to completion without error or panic.
func (r Result) OK() bool {
	return !r.Skipped && !r.Panicked && r.Err == nil
}

// PanicHandler is called when a handler panics during execution.
// It receives the payload being delivered, the panic value, and the stack
// trace captured at the recovery point.
type PanicHandler func(payload any, panicValue any, stack []byte)

// defaultPanicHandler is a no-op. The bus installs its own handler that
// reports through its structured logger.
func defaultPanicHandler(payload any, panicValue any, stack []byte) {}
