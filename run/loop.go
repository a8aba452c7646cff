package run

import (
	"log/slog"
	"sync"
)

// Loop is a single-threaded cooperative Runner. Posted tasks are queued and
// run, in post order, when the owner calls Tick. A task posted while a tick
// is draining runs on the following tick, so a tick always executes a fixed
// snapshot of the queue.
//
// Post is safe to call from any goroutine. Tick is expected to be called
// from one goroutine only (the host's frame loop or a Driver).
type Loop struct {
	mu     sync.Mutex
	tasks  []func()
	logger *slog.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopLogger sets the logger used to report panicking tasks.
func WithLoopLogger(l *slog.Logger) LoopOption {
	return func(lp *Loop) {
		if l != nil {
			lp.logger = l
		}
	}
}

// NewLoop creates a new cooperative task loop.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post queues a task for execution on the next tick.
func (l *Loop) Post(task func()) error {
	if task == nil {
		return ErrNilTask
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()
	return nil
}

// Tick runs every task queued before the call and returns how many ran.
// A panicking task is logged and does not stop the remainder of the batch.
func (l *Loop) Tick() int {
	l.mu.Lock()
	batch := l.tasks
	l.tasks = nil
	l.mu.Unlock()

	for _, task := range batch {
		l.runTask(task)
	}
	return len(batch)
}

// Len returns the number of tasks currently queued.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

func (l *Loop) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panicked on loop",
				slog.Any("panic", r),
			)
		}
	}()
	task()
}
