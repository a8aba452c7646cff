package event

import "context"

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for handlers that must observe the event first.
	PriorityCritical Priority = 0

	// PriorityHigh is for latency-sensitive consumers.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for bookkeeping handlers.
	PriorityLow Priority = 300

	// PriorityBackground is for metrics and logging handlers that run last.
	PriorityBackground Priority = 400
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	case p <= PriorityLow:
		return "low"
	default:
		return "background"
	}
}

// Handler is the interface for event handlers.
type Handler interface {
	// Handle processes an event.
	// The payload parameter is type-erased; handlers should type-assert.
	Handle(ctx context.Context, payload any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, payload any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, payload any) error {
	return f(ctx, payload)
}

// TypedHandler provides type-safe event handling using generics.
type TypedHandler[T any] interface {
	Handle(ctx context.Context, payload T) error
}

// TypedHandlerFunc is a function adapter for TypedHandler.
type TypedHandlerFunc[T any] func(ctx context.Context, payload T) error

// Handle implements the TypedHandler interface.
func (f TypedHandlerFunc[T]) Handle(ctx context.Context, payload T) error {
	return f(ctx, payload)
}

// AsHandler converts a TypedHandler to a type-erased Handler.
// Payloads of any other type are skipped silently.
func AsHandler[T any](h TypedHandler[T]) Handler {
	return HandlerFunc(func(ctx context.Context, payload any) error {
		if p, ok := payload.(T); ok {
			return h.Handle(ctx, p)
		}
		return nil
	})
}

// AsHandlerFunc converts a TypedHandlerFunc to a type-erased Handler.
func AsHandlerFunc[T any](fn TypedHandlerFunc[T]) Handler {
	return AsHandler[T](fn)
}

// FilterFunc is a predicate for filtering payloads.
// Return true to allow delivery, false to skip it.
type FilterFunc func(payload any) bool

// Owner reports whether a handler's owning object is still live. Records
// whose owner is no longer alive are dead and are pruned the next time their
// key's sequence is mutated.
type Owner interface {
	Alive() bool
}

// OwnerFunc is a function adapter for Owner.
type OwnerFunc func() bool

// Alive implements the Owner interface.
func (f OwnerFunc) Alive() bool { return f() }

// PanicHandler is called when a handler panics during delivery.
type PanicHandler func(payload any, panicValue any, stack []byte)

// ErrorHandler is the out-of-band side channel for handler failures. It
// receives a *HandlerError for handlers that return an error and a
// *PanicError for handlers that panic. The publisher itself never sees
// either.
type ErrorHandler func(err error)

// Stats contains bus statistics.
type Stats struct {
	// Published is the total number of publish passes with at least one
	// registered handler.
	Published uint64

	// Delivered is the number of successful synchronous handler invocations.
	Delivered uint64

	// Deferred is the number of handler invocations scheduled onto runners.
	Deferred uint64

	// Dropped is the number of deferred invocations a runner refused.
	Dropped uint64

	// HandlerErrors is the number of handlers that returned errors.
	HandlerErrors uint64

	// HandlerPanics is the number of handlers that panicked.
	HandlerPanics uint64

	// ActiveSubscriptions is the current number of registered records,
	// including dead entries not yet pruned.
	ActiveSubscriptions int
}
