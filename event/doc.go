// Package event provides a typed, in-process publish/subscribe event bus
// with priority-ordered delivery, scope-grouped bulk unsubscription, and
// optional deferred handler execution on a cooperative runner.
//
// # Architecture
//
// A Bus owns a registry of handler records keyed by event type. Each record
// carries a priority, an optional owner liveness signal, an optional filter,
// and either runs inline during publish or is handed to a run.Runner for
// later execution. A secondary scope index groups records under an opaque
// scope handle so a component can tear down all of its subscriptions at once.
//
// # Priority Ordering
//
// Handlers run in ascending priority order for deterministic behavior:
//
//   - Critical: must observe the event before anything else
//   - High: latency-sensitive consumers
//   - Normal: the default
//   - Low: bookkeeping
//   - Background: metrics, logging - executes last
//
// Ties at equal priority preserve registration order. Deferred handlers are
// scheduled in priority order, but their execution order is up to the runner.
//
// # Basic Usage
//
//	bus := event.NewBus(event.WithLogger(logger))
//
//	type Saved struct{ Path string }
//
//	sub, err := event.Subscribe(bus, func(ctx context.Context, s Saved) error {
//	    fmt.Println("saved", s.Path)
//	    return nil
//	}, event.WithPriority(event.PriorityCritical))
//
//	event.Publish(bus, ctx, Saved{Path: "/tmp/f"})
//	bus.Unsubscribe(sub)
//
// # Scopes
//
//	scope := event.Scope("preferences-panel")
//	event.SubscribeScoped(bus, scope, onChange)
//	// ... later, on teardown:
//	bus.UnsubscribeScope(scope)
//
// # Deferred Delivery
//
// A handler registered with WithDeferred runs on the named run.Runner at its
// next opportunity instead of inline during publish:
//
//	loop := run.NewLoop()
//	event.Subscribe(bus, onRedraw, event.WithDeferred(loop))
//	// ... the host's frame loop calls loop.Tick()
//
// # Failure Isolation
//
// Every synchronous invocation runs inside a per-handler failure boundary
// (event/dispatch). A handler that returns an error or panics is reported
// through the bus's logger and error callback and never prevents delivery to
// the handlers behind it. Publish is fire-and-forget; callers that need a
// result should sequence work with the chain package instead.
//
// # Thread Safety
//
// The Bus is safe for concurrent use. The registry guard is held only to
// mutate or copy, never across a handler invocation, so handlers may
// subscribe and unsubscribe freely. A publish pass works on a snapshot:
// registrations made during the pass take effect on the next publish.
package event
