// Package main is a small end-to-end exercise of the pulse library: an event
// bus with scoped and deferred handlers, two chains pumped by a driver, and
// a completion tracker.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/pulse/chain"
	"github.com/dshills/pulse/event"
	"github.com/dshills/pulse/middleware"
	"github.com/dshills/pulse/run"
)

type tick struct {
	N int
}

func main() {
	os.Exit(runDemo())
}

func runDemo() int {
	interval := flag.Duration("interval", 10*time.Millisecond, "Driver tick interval")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	poolCfg, err := run.PoolConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	pool := run.NewPool(poolCfg, run.WithPoolLogger(logger))
	if err := pool.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer pool.Stop(context.Background())

	loop := run.NewLoop(run.WithLoopLogger(logger))
	bus := event.NewBus(
		event.WithLogger(logger),
		event.WithDefaultRunner(loop),
		event.WithMiddleware(middleware.Logging(logger), middleware.Tracing()),
	)

	scope := event.Scope("demo")
	event.SubscribeScoped(bus, scope, func(ctx context.Context, t tick) error {
		logger.Info("sync handler", slog.Int("n", t.N))
		return nil
	}, event.WithPriority(event.PriorityCritical))

	event.SubscribeScoped(bus, scope, func(ctx context.Context, t tick) error {
		logger.Info("deferred handler", slog.Int("n", t.N))
		return nil
	}, event.WithDeferred(pool), event.WithPriority(event.PriorityBackground))

	seq := chain.NewSequencer(chain.WithSequencerLogger(logger))
	tracker := chain.NewTracker()

	head := chain.Ticks(3)
	head.Then(chain.Run(func(ctx context.Context) error {
		logger.Info("chain one finished its work")
		return nil
	}))
	other := chain.Run(func(ctx context.Context) error {
		return fmt.Errorf("chain two fails on purpose")
	})
	tracker.Track(head, other)
	seq.Enqueue(head)
	seq.Enqueue(other)

	driver := run.NewDriver(*interval, run.WithLoop(loop), run.WithPumper(seq))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := driver.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer driver.Stop()

	for n := 1; n <= 3; n++ {
		event.Publish(bus, ctx, tick{N: n})
		time.Sleep(*interval)
	}

	// Let the chains settle or bail out on signal.
	for {
		tracker.Refresh()
		if tracker.FullySettled() {
			break
		}
		select {
		case <-ctx.Done():
			logger.Info("interrupted")
			return 0
		case <-time.After(*interval):
		}
	}

	bus.UnsubscribeScope(scope)

	stats := bus.Stats()
	logger.Info("done",
		slog.Uint64("published", stats.Published),
		slog.Uint64("delivered", stats.Delivered),
		slog.Uint64("deferred", stats.Deferred),
		slog.Int("chain_errors", len(tracker.Errors())),
	)
	return 0
}
