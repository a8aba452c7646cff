package run

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Pool is a worker-pool Runner with a bounded task queue. Unlike Loop it
// executes tasks on its own goroutines, so deferred handlers posted to a
// Pool never run on the publishing goroutine.
type Pool struct {
	workers   int
	queueSize int
	logger    *slog.Logger

	mu      sync.Mutex // protects queue creation/close
	queue   chan func()
	running atomic.Bool
	wg      sync.WaitGroup

	posted  atomic.Uint64
	dropped atomic.Uint64
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithPoolLogger sets the logger used to report panicking tasks.
func WithPoolLogger(l *slog.Logger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPool creates a worker pool with the given configuration.
// Non-positive config values fall back to the defaults.
func NewPool(cfg PoolConfig, opts ...PoolOption) *Pool {
	def := DefaultPoolConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}

	p := &Pool{
		workers:   cfg.Workers,
		queueSize: cfg.QueueSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the worker goroutines.
func (p *Pool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running.Load() {
		return ErrAlreadyRunning
	}

	p.queue = make(chan func(), p.queueSize)
	p.running.Store(true)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return nil
}

// Stop shuts the pool down, waiting for queued tasks to drain or until the
// context is cancelled.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running.Load() {
		p.mu.Unlock()
		return ErrNotRunning
	}
	p.running.Store(false)
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Post queues a task for execution by a worker.
// Returns ErrQueueFull without blocking if the queue is at capacity.
func (p *Pool) Post(task func()) error {
	if task == nil {
		return ErrNilTask
	}
	if !p.running.Load() {
		return ErrNotRunning
	}

	select {
	case p.queue <- task:
		p.posted.Add(1)
		return nil
	default:
		p.dropped.Add(1)
		return ErrQueueFull
	}
}

// IsRunning returns true if the pool is running.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// Dropped returns the number of tasks rejected because the queue was full.
func (p *Pool) Dropped() uint64 {
	return p.dropped.Load()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.queue {
		p.runTask(task)
	}
}

func (p *Pool) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked in pool",
				slog.Any("panic", r),
			)
		}
	}()
	task()
}
