package event

import "errors"

// Sentinel errors for the event bus.
var (
	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrDeferredWithoutRunner is returned when subscribing a deferred
	// handler with no runner and no bus default runner configured.
	ErrDeferredWithoutRunner = errors.New("deferred handler requires a runner")

	// ErrEmptyScope is returned when a scoped operation is given the zero
	// scope handle.
	ErrEmptyScope = errors.New("scope cannot be empty")

	// ErrInvalidSubscription is returned when a nil or foreign subscription
	// handle is passed to Unsubscribe.
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrHandlerPanic is matched by errors.Is against a *PanicError.
	ErrHandlerPanic = errors.New("handler panicked")
)

// HandlerError wraps an error returned by a handler with delivery context.
// It is reported through the bus's ErrorHandler, never to the publisher.
type HandlerError struct {
	// SubscriptionID is the ID of the subscription whose handler failed.
	SubscriptionID string

	// Key is the event type key being delivered.
	Key Key

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return "handler error for subscription " + e.SubscriptionID + " on key " + string(e.Key) + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError wraps a recovered panic value as an error.
type PanicError struct {
	// SubscriptionID is the ID of the subscription whose handler panicked.
	SubscriptionID string

	// Key is the event type key being delivered.
	Key Key

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return "handler panic for subscription " + e.SubscriptionID + " on key " + string(e.Key)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
