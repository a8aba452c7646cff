package event

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/dshills/pulse/event/dispatch"
	"github.com/dshills/pulse/middleware"
	"github.com/dshills/pulse/run"
)

// Bus is a typed in-process publish/subscribe dispatcher. Construct one with
// NewBus and hand it to every component that publishes or subscribes; there
// is no package-level instance.
type Bus struct {
	reg  *registry
	exec *dispatch.Executor

	logger        *slog.Logger
	errorHandler  ErrorHandler
	panicHandler  PanicHandler
	defaultRunner run.Runner
	mw            middleware.Middleware

	published     atomic.Uint64
	delivered     atomic.Uint64
	deferredCount atomic.Uint64
	dropped       atomic.Uint64
	handlerErrors atomic.Uint64
	handlerPanics atomic.Uint64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithLogger sets the structured logger used as the out-of-band channel for
// handler failures.
func WithLogger(l *slog.Logger) BusOption {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithErrorHandler sets the callback receiving *HandlerError and
// *PanicError values for failed deliveries.
func WithErrorHandler(h ErrorHandler) BusOption {
	return func(b *Bus) {
		b.errorHandler = h
	}
}

// WithBusPanicHandler sets the callback invoked when a handler panics.
func WithBusPanicHandler(h PanicHandler) BusOption {
	return func(b *Bus) {
		b.panicHandler = h
	}
}

// WithDefaultRunner sets the runner used by deferred subscriptions that do
// not name their own.
func WithDefaultRunner(r run.Runner) BusOption {
	return func(b *Bus) {
		b.defaultRunner = r
	}
}

// WithMiddleware installs middleware around every handler invocation.
// The first middleware listed is the outermost wrapper.
func WithMiddleware(mws ...middleware.Middleware) BusOption {
	return func(b *Bus) {
		if len(mws) > 0 {
			b.mw = middleware.Chain(mws...)
		}
	}
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		reg:    newRegistry(),
		exec:   dispatch.NewExecutor(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SubscribeKey registers a handler for the given key. The record is inserted
// at the position preserving ascending priority with stable ties; dead
// entries for the key are pruned first.
func (b *Bus) SubscribeKey(key Key, h Handler, opts ...SubscriptionOption) (Subscription, error) {
	if h == nil {
		return nil, ErrNilHandler
	}

	cfg := DefaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Deferred && cfg.Runner == nil {
		if b.defaultRunner == nil {
			return nil, ErrDeferredWithoutRunner
		}
		cfg.Runner = b.defaultRunner
	}

	rec := newRecord(key, h, cfg)
	b.reg.insert(rec)
	return rec, nil
}

// SubscribeKeyScoped registers a handler under a scope for later bulk
// removal. Fails with ErrEmptyScope for the zero scope.
func (b *Bus) SubscribeKeyScoped(scope Scope, key Key, h Handler, opts ...SubscriptionOption) (Subscription, error) {
	if scope == "" {
		return nil, ErrEmptyScope
	}

	b.reg.scopeMu.Lock()
	defer b.reg.scopeMu.Unlock()

	sub, err := b.SubscribeKey(key, h, opts...)
	if err != nil {
		return nil, err
	}
	b.reg.addScopedLocked(scope, sub.(*record))
	return sub, nil
}

// Unsubscribe removes the subscription. Removing one that is already gone is
// a no-op.
func (b *Bus) Unsubscribe(sub Subscription) error {
	rec, ok := sub.(*record)
	if !ok || rec == nil {
		return ErrInvalidSubscription
	}
	rec.remove()
	return nil
}

// UnsubscribeKey removes every record for key whose handler matches the
// given identity. No-op if none match.
func (b *Bus) UnsubscribeKey(key Key, h Handler) {
	if h == nil {
		return
	}
	b.reg.removeByHandler(key, h)
}

// UnsubscribeScope removes every subscription registered under scope,
// atomically with respect to other scope operations. Idempotent.
func (b *Bus) UnsubscribeScope(scope Scope) {
	if scope == "" {
		return
	}

	b.reg.scopeMu.Lock()
	defer b.reg.scopeMu.Unlock()

	for _, rec := range b.reg.takeScopeLocked(scope) {
		rec.remove()
	}
}

// PublishKey delivers a payload to every live handler registered for key, in
// priority order, fire-and-forget. Synchronous handlers run inline inside the
// per-handler failure boundary; deferred handlers are posted to their runner
// in priority order and their execution order is up to the runner.
func (b *Bus) PublishKey(ctx context.Context, key Key, payload any) {
	recs := b.reg.snapshot(key)
	if len(recs) == 0 {
		return
	}
	b.published.Add(1)

	for _, rec := range recs {
		if rec.dead() {
			continue
		}
		if f := rec.config.Filter; f != nil && !f(payload) {
			continue
		}

		if rec.config.Deferred {
			b.schedule(ctx, rec, payload)
			continue
		}
		b.invoke(ctx, rec, payload, false)
	}
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	return Stats{
		Published:           b.published.Load(),
		Delivered:           b.delivered.Load(),
		Deferred:            b.deferredCount.Load(),
		Dropped:             b.dropped.Load(),
		HandlerErrors:       b.handlerErrors.Load(),
		HandlerPanics:       b.handlerPanics.Load(),
		ActiveSubscriptions: b.reg.count(),
	}
}

// schedule hands a deferred invocation to the record's runner. The task
// carries a context detached from the publisher's cancellation, since the
// publish call returns before the handler runs.
func (b *Bus) schedule(ctx context.Context, rec *record, payload any) {
	taskCtx := context.WithoutCancel(ctx)
	err := rec.config.Runner.Post(func() {
		b.invoke(taskCtx, rec, payload, true)
	})
	if err != nil {
		b.dropped.Add(1)
		b.logger.Warn("deferred delivery dropped",
			slog.String("key", string(rec.key)),
			slog.String("subscription_id", rec.id),
			slog.String("error", err.Error()),
		)
		return
	}
	b.deferredCount.Add(1)
}

// invoke runs one handler inside the failure boundary and reports the
// outcome through the logger and error callbacks.
func (b *Bus) invoke(ctx context.Context, rec *record, payload any, deferred bool) {
	terminal := func(ctx context.Context) error {
		return rec.handler.Handle(ctx, payload)
	}
	fn := terminal
	if b.mw != nil {
		d := &middleware.Delivery{
			Key:            string(rec.key),
			SubscriptionID: rec.id,
			Priority:       rec.config.Priority.String(),
			Deferred:       deferred,
			Tag:            rec.config.Tag,
		}
		fn = func(ctx context.Context) error {
			return b.mw(ctx, d, terminal)
		}
	}

	result := b.exec.Execute(ctx, payload, fn)

	switch {
	case result.Panicked:
		b.handlerPanics.Add(1)
		b.logger.Error("handler panicked",
			slog.String("key", string(rec.key)),
			slog.String("subscription_id", rec.id),
			slog.Any("panic", result.PanicValue),
			slog.String("stack", string(result.PanicStack)),
		)
		if b.panicHandler != nil {
			b.guarded(func() { b.panicHandler(payload, result.PanicValue, result.PanicStack) })
		}
		b.report(&PanicError{
			SubscriptionID: rec.id,
			Key:            rec.key,
			Value:          result.PanicValue,
			Stack:          result.PanicStack,
		})
	case result.Skipped:
		// Context cancelled before invocation; nothing to report.
	case result.Err != nil:
		b.handlerErrors.Add(1)
		b.logger.Error("handler failed",
			slog.String("key", string(rec.key)),
			slog.String("subscription_id", rec.id),
			slog.String("error", result.Err.Error()),
		)
		b.report(&HandlerError{
			SubscriptionID: rec.id,
			Key:            rec.key,
			Err:            result.Err,
		})
	default:
		b.delivered.Add(1)
	}
}

// report delivers a failure to the error callback. The callback is untrusted
// caller code; a panic inside it must not escape the delivery pass.
func (b *Bus) report(err error) {
	if b.errorHandler == nil {
		return
	}
	b.guarded(func() { b.errorHandler(err) })
}

func (b *Bus) guarded(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("failure callback panicked", slog.Any("panic", r))
		}
	}()
	fn()
}

// Subscribe registers a typed handler for T's event key.
func Subscribe[T any](b *Bus, fn TypedHandlerFunc[T], opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.SubscribeKey(KeyOf[T](), AsHandlerFunc(fn), opts...)
}

// SubscribeScoped registers a typed handler for T's event key under a scope.
func SubscribeScoped[T any](b *Bus, scope Scope, fn TypedHandlerFunc[T], opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.SubscribeKeyScoped(scope, KeyOf[T](), AsHandlerFunc(fn), opts...)
}

// Publish delivers a typed payload to every handler registered for T's key.
func Publish[T any](b *Bus, ctx context.Context, payload T) {
	b.PublishKey(ctx, KeyOf[T](), payload)
}
