package event_test

import (
	"context"
	"fmt"

	"github.com/dshills/pulse/event"
	"github.com/dshills/pulse/run"
)

type documentSaved struct {
	Path string
}

func ExampleBus() {
	bus := event.NewBus()

	event.Subscribe(bus, func(ctx context.Context, d documentSaved) error {
		fmt.Println("saved:", d.Path)
		return nil
	})

	event.Publish(bus, context.Background(), documentSaved{Path: "/tmp/notes.txt"})
	// Output: saved: /tmp/notes.txt
}

func ExampleBus_priorities() {
	bus := event.NewBus()

	event.Subscribe(bus, func(ctx context.Context, d documentSaved) error {
		fmt.Println("second")
		return nil
	}, event.WithPriority(event.PriorityLow))

	event.Subscribe(bus, func(ctx context.Context, d documentSaved) error {
		fmt.Println("first")
		return nil
	}, event.WithPriority(event.PriorityCritical))

	event.Publish(bus, context.Background(), documentSaved{})
	// Output:
	// first
	// second
}

func ExampleBus_UnsubscribeScope() {
	bus := event.NewBus()
	scope := event.Scope("settings-panel")

	event.SubscribeScoped(bus, scope, func(ctx context.Context, d documentSaved) error {
		fmt.Println("panel sees:", d.Path)
		return nil
	})

	event.Publish(bus, context.Background(), documentSaved{Path: "a"})
	bus.UnsubscribeScope(scope)
	event.Publish(bus, context.Background(), documentSaved{Path: "b"})
	// Output: panel sees: a
}

func ExampleWithDeferred() {
	loop := run.NewLoop()
	bus := event.NewBus()

	event.Subscribe(bus, func(ctx context.Context, d documentSaved) error {
		fmt.Println("deferred:", d.Path)
		return nil
	}, event.WithDeferred(loop))

	event.Publish(bus, context.Background(), documentSaved{Path: "later"})
	fmt.Println("published")

	loop.Tick()
	// Output:
	// published
	// deferred: later
}
