package chain

import (
	"context"
	"log/slog"
	"sync"
)

// Sequencer pumps chains of steps from one FIFO queue of chain heads.
// Chains proceed independently, but only the head of the queue is advanced
// each pump, so the queue order decides which chain gets the next increment.
type Sequencer struct {
	mu     sync.Mutex
	queue  []Step
	logger *slog.Logger
}

// SequencerOption configures a Sequencer.
type SequencerOption func(*Sequencer)

// WithSequencerLogger sets the logger used to report failed and panicking
// steps.
func WithSequencerLogger(l *slog.Logger) SequencerOption {
	return func(s *Sequencer) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSequencer creates an empty sequencer.
func NewSequencer(opts ...SequencerOption) *Sequencer {
	s := &Sequencer{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enqueue appends a chain head to the queue. If the queue was empty the step
// becomes eligible to run on the next pump; otherwise it waits behind prior
// chain heads.
func (s *Sequencer) Enqueue(step Step) {
	if step == nil {
		return
	}
	s.mu.Lock()
	s.queue = append(s.queue, step)
	s.mu.Unlock()
}

// Len returns the number of queued chain heads.
func (s *Sequencer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Pump advances the queue by one increment. Heads that are already terminal
// are dequeued, their successors moved to the front of the queue, until a
// runnable head is found; that head is ticked once. A step completing on
// this tick is dequeued as well, but its successor is not ticked until the
// next pump. A step's error never stops its chain: the successor of a
// failed step still runs.
func (s *Sequencer) Pump(ctx context.Context) {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		head := s.queue[0]
		s.mu.Unlock()

		if head.Status().Terminal() {
			s.advance(head)
			continue
		}

		st := s.tick(ctx, head)
		if st.Terminal() {
			s.advance(head)
		}
		return
	}
}

// Drain pumps until the queue is empty or ctx is cancelled. Intended for
// tests and shutdown paths; production hosts pump once per frame instead.
func (s *Sequencer) Drain(ctx context.Context) {
	for s.Len() > 0 {
		select {
		case <-ctx.Done():
			return
		default:
		}
		s.Pump(ctx)
	}
}

// advance dequeues head and moves its successor, if any, to the front so the
// chain keeps its intra-chain ordering ahead of unrelated later chains.
func (s *Sequencer) advance(head Step) {
	if err := head.Err(); err != nil {
		s.logger.Warn("step failed, chain continues",
			slog.String("step_id", head.ID()),
			slog.String("error", err.Error()),
		)
	}

	next := head.Next()

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 || s.queue[0] != head {
		// The queue changed underneath us; head is no longer first.
		return
	}
	s.queue = s.queue[1:]
	if next != nil {
		s.queue = append([]Step{next}, s.queue...)
	}
}

// tick advances a step inside a recovery boundary. A Step implementation
// that panics out of Tick is dropped from the queue as failed; the pump must
// keep advancing unrelated chains.
func (s *Sequencer) tick(ctx context.Context, step Step) (st Status) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("step panicked out of Tick",
				slog.String("step_id", step.ID()),
				slog.Any("panic", r),
			)
			st = StatusFailed
		}
	}()
	return step.Tick(ctx)
}
