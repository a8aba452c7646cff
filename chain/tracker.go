package chain

import "sync"

// Tracker observes a set of steps' terminal states without driving their
// execution. Steps move from pending to completed exactly once, on the
// Refresh call that first observes them terminal; a completed step is never
// re-examined, so Refresh costs O(pending), not O(total ever tracked).
type Tracker struct {
	mu        sync.Mutex
	pending   []Step
	completed []Step
	errs      []error
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Track adds steps to the tracked set. Tracking neither starts nor
// influences their execution. Steps already terminal are picked up by the
// next Refresh.
func (t *Tracker) Track(steps ...Step) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, step := range steps {
		if step != nil {
			t.pending = append(t.pending, step)
		}
	}
}

// Refresh checks each still-pending step and moves the newly terminal ones
// to the completed set, recording their error at the moment of transition.
func (t *Tracker) Refresh() {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.pending[:0:0]
	for _, step := range t.pending {
		if !step.Status().Terminal() {
			kept = append(kept, step)
			continue
		}
		t.completed = append(t.completed, step)
		if err := step.Err(); err != nil {
			t.errs = append(t.errs, err)
		}
	}
	t.pending = kept
}

// FullySettled returns true iff no tracked steps remain pending.
func (t *Tracker) FullySettled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending) == 0
}

// Pending returns the steps not yet observed terminal.
func (t *Tracker) Pending() []Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Step, len(t.pending))
	copy(out, t.pending)
	return out
}

// Completed returns the steps observed terminal, in observation order.
func (t *Tracker) Completed() []Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Step, len(t.completed))
	copy(out, t.completed)
	return out
}

// Errors returns all recorded errors from completed steps, in
// completion-observation order.
func (t *Tracker) Errors() []error {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]error, len(t.errs))
	copy(out, t.errs)
	return out
}
