package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrStepStarted is returned by SetNext once a step has begun running.
var ErrStepStarted = errors.New("step has already started")

// Status is the lifecycle state of a Step.
type Status int

const (
	// StatusIdle means the step has not started running.
	StatusIdle Status = iota

	// StatusRunning means the step has started and is not yet terminal.
	StatusRunning

	// StatusDone means the step completed without error.
	StatusDone

	// StatusFailed means the step completed with an error.
	StatusFailed
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal returns true for StatusDone and StatusFailed.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// Step is a unit of asynchronous work advanced one increment per Tick.
// Once terminal, Tick must keep returning the terminal status without side
// effects. A step runs under a single pump, so implementations are driven
// from one goroutine, but Status and Err may be read from others (the
// Tracker does).
type Step interface {
	// ID returns the step's identity, fixed at creation.
	ID() string

	// Tick advances the step one increment and returns its status.
	Tick(ctx context.Context) Status

	// Status returns the current status without advancing the step.
	Status() Status

	// Err returns the step's error. Meaningful only once the step is
	// terminal.
	Err() error

	// Next returns the step's designated successor, or nil.
	Next() Step

	// SetNext sets the successor. Allowed only before the step starts
	// running; returns ErrStepStarted afterwards.
	SetNext(next Step) error
}

// FuncStep adapts a closure into a Step. The closure is called once per
// tick until it reports done; a panic inside it fails the step. An optional
// OnDone callback observes the terminal transition.
type FuncStep struct {
	id     string
	fn     func(ctx context.Context) (done bool, err error)
	onDone func(err error)

	mu     sync.Mutex
	status Status
	next   Step
	err    error
}

// Func creates a step from a closure called once per tick.
func Func(fn func(ctx context.Context) (done bool, err error)) *FuncStep {
	return &FuncStep{
		id: uuid.NewString(),
		fn: fn,
	}
}

// Run creates a step that completes on its first tick with fn's error.
func Run(fn func(ctx context.Context) error) *FuncStep {
	return Func(func(ctx context.Context) (bool, error) {
		return true, fn(ctx)
	})
}

// Ticks creates a step that completes after n ticks.
func Ticks(n int) *FuncStep {
	remaining := n
	return Func(func(ctx context.Context) (bool, error) {
		remaining--
		return remaining <= 0, nil
	})
}

// After creates a step that completes once d has elapsed since its first
// tick.
func After(d time.Duration) *FuncStep {
	var deadline time.Time
	return Func(func(ctx context.Context) (bool, error) {
		if deadline.IsZero() {
			deadline = time.Now().Add(d)
		}
		return !time.Now().Before(deadline), nil
	})
}

// Fail creates a step that fails on its first tick with err.
func Fail(err error) *FuncStep {
	return Func(func(ctx context.Context) (bool, error) {
		return true, err
	})
}

// OnDone registers a callback invoked exactly once when the step reaches a
// terminal state, receiving the step's error (nil on success). A panic in
// the callback is swallowed so the pump keeps advancing. Returns the step
// for chaining at construction time.
func (s *FuncStep) OnDone(fn func(err error)) *FuncStep {
	s.mu.Lock()
	s.onDone = fn
	s.mu.Unlock()
	return s
}

// ID returns the step's identity.
func (s *FuncStep) ID() string { return s.id }

// Status returns the step's current status.
func (s *FuncStep) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the step's error, if it failed.
func (s *FuncStep) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Next returns the step's successor, or nil.
func (s *FuncStep) Next() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// SetNext sets the step's successor. Only allowed before the first tick.
func (s *FuncStep) SetNext(next Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusIdle {
		return ErrStepStarted
	}
	s.next = next
	return nil
}

// Then sets next as the successor and returns next, for building chains:
//
//	a.Then(b).Then(c)
//
// Panics if the receiver has already started; use SetNext when that can
// happen.
func (s *FuncStep) Then(next *FuncStep) *FuncStep {
	if err := s.SetNext(next); err != nil {
		panic(err)
	}
	return next
}

// Tick advances the step one increment.
func (s *FuncStep) Tick(ctx context.Context) Status {
	s.mu.Lock()
	if s.status.Terminal() {
		st := s.status
		s.mu.Unlock()
		return st
	}
	s.status = StatusRunning
	fn := s.fn
	s.mu.Unlock()

	// The closure runs outside the lock so it can inspect the step.
	done, err := s.call(ctx, fn)
	if !done && err == nil {
		return StatusRunning
	}

	s.mu.Lock()
	if err != nil {
		s.status = StatusFailed
		s.err = err
	} else {
		s.status = StatusDone
	}
	st := s.status
	onDone := s.onDone
	s.mu.Unlock()

	if onDone != nil {
		func() {
			defer func() { _ = recover() }()
			onDone(err)
		}()
	}
	return st
}

// call invokes the step closure, converting a panic into a step failure.
func (s *FuncStep) call(ctx context.Context, fn func(ctx context.Context) (bool, error)) (done bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			done = true
			err = fmt.Errorf("step %s panicked: %v", s.id, r)
		}
	}()
	return fn(ctx)
}
