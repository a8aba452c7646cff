// Package middleware provides composable middleware for event delivery.
// Middleware wraps each synchronous handler invocation and can add
// cross-cutting logic: logging, tracing, deadlines. It runs inside the bus's
// panic boundary, so a misbehaving middleware can not abort a delivery pass.
package middleware

import "context"

// Handler is the terminal function that invokes the event handler.
type Handler func(ctx context.Context) error

// Delivery describes one handler invocation. The bus builds one per
// (publish, subscription) pair and passes it to the middleware chain.
type Delivery struct {
	// Key is the event type key being delivered.
	Key string

	// SubscriptionID identifies the receiving subscription.
	SubscriptionID string

	// Priority is the subscription's priority name.
	Priority string

	// Deferred is true when the invocation was scheduled onto a runner
	// rather than run inline during publish.
	Deferred bool

	// Tag is the opaque value attached at subscribe time, if any.
	Tag any
}

// Middleware wraps a Handler with cross-cutting logic. It receives the
// context, the delivery being made, and the next handler to call.
// Middleware must call next to continue the chain.
type Middleware func(ctx context.Context, d *Delivery, next Handler) error

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the list is
// the outermost wrapper.
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, d *Delivery, next Handler) error {
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) error {
				return mw(ctx, d, prev)
			}
		}
		return h(ctx)
	}
}
