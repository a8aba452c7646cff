package run

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Driver advances cooperative work on a fixed interval. Each tick it drains
// its registered Loops, then pumps its registered Pumpers. Hosts that already
// have a frame loop can call Loop.Tick and Pumper.Pump themselves instead.
type Driver struct {
	interval time.Duration
	loops    []*Loop
	pumpers  []Pumper

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running atomic.Bool
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithLoop registers a Loop to drain each tick.
func WithLoop(l *Loop) DriverOption {
	return func(d *Driver) {
		if l != nil {
			d.loops = append(d.loops, l)
		}
	}
}

// WithPumper registers a Pumper to advance each tick.
func WithPumper(p Pumper) DriverOption {
	return func(d *Driver) {
		if p != nil {
			d.pumpers = append(d.pumpers, p)
		}
	}
}

// NewDriver creates a driver that ticks at the given interval.
func NewDriver(interval time.Duration, opts ...DriverOption) *Driver {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	d := &Driver{interval: interval}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start begins ticking on a background goroutine.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running.Load() {
		return ErrAlreadyRunning
	}
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	d.running.Store(true)

	go d.loop(ctx, d.stop, d.done)
	return nil
}

// Stop halts the driver and waits for the tick goroutine to exit.
func (d *Driver) Stop() error {
	d.mu.Lock()
	if !d.running.Load() {
		d.mu.Unlock()
		return ErrNotRunning
	}
	d.running.Store(false)
	close(d.stop)
	done := d.done
	d.mu.Unlock()

	<-done
	return nil
}

// IsRunning returns true if the driver is ticking.
func (d *Driver) IsRunning() bool {
	return d.running.Load()
}

// TickOnce advances every loop and pumper a single step. Useful in tests and
// for hosts that drive ticks manually.
func (d *Driver) TickOnce(ctx context.Context) {
	for _, l := range d.loops {
		l.Tick()
	}
	for _, p := range d.pumpers {
		p.Pump(ctx)
	}
}

func (d *Driver) loop(ctx context.Context, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			d.running.Store(false)
			return
		case <-ticker.C:
			d.TickOnce(ctx)
		}
	}
}
