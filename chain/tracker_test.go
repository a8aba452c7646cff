package chain

import (
	"context"
	"errors"
	"testing"
)

func TestTracker_Refresh(t *testing.T) {
	tr := NewTracker()

	a := Ticks(1)
	b := Ticks(2)
	tr.Track(a, b)

	if tr.FullySettled() {
		t.Error("tracker settled with pending steps")
	}

	ctx := context.Background()
	a.Tick(ctx)
	b.Tick(ctx)

	tr.Refresh()
	if len(tr.Completed()) != 1 || len(tr.Pending()) != 1 {
		t.Errorf("after first refresh: completed=%d pending=%d, want 1/1",
			len(tr.Completed()), len(tr.Pending()))
	}

	b.Tick(ctx)
	tr.Refresh()
	if !tr.FullySettled() {
		t.Error("tracker not settled after all steps completed")
	}
}

func TestTracker_ErrorsInObservationOrder(t *testing.T) {
	tr := NewTracker()
	ctx := context.Background()

	errA := errors.New("A failed")
	errB := errors.New("B failed")
	a := Fail(errA)
	b := Fail(errB)
	ok := Ticks(1)
	tr.Track(a, b, ok)

	// Complete B first, observe it, then A.
	b.Tick(ctx)
	tr.Refresh()
	a.Tick(ctx)
	ok.Tick(ctx)
	tr.Refresh()

	errs := tr.Errors()
	if len(errs) != 2 {
		t.Fatalf("Errors() returned %d errors, want 2", len(errs))
	}
	if !errors.Is(errs[0], errB) || !errors.Is(errs[1], errA) {
		t.Errorf("Errors() = %v, want observation order [B, A]", errs)
	}
	if !tr.FullySettled() {
		t.Error("tracker not settled")
	}
}

func TestTracker_Monotonic(t *testing.T) {
	tr := NewTracker()
	ctx := context.Background()

	step := Fail(errors.New("once"))
	tr.Track(step)

	step.Tick(ctx)
	tr.Refresh()

	before := len(tr.Errors())
	completed := len(tr.Completed())

	// Additional refreshes with no state change alter nothing.
	tr.Refresh()
	tr.Refresh()

	if len(tr.Errors()) != before {
		t.Errorf("Errors() grew from %d to %d on idle refresh", before, len(tr.Errors()))
	}
	if len(tr.Completed()) != completed {
		t.Error("Completed() changed on idle refresh")
	}
	if len(tr.Pending()) != 0 {
		t.Error("completed step moved back to pending")
	}
}

func TestTracker_MixedOutcome(t *testing.T) {
	tr := NewTracker()
	ctx := context.Background()

	failing := Fail(errors.New("step failed"))
	succeeding := Ticks(1)
	tr.Track(failing, succeeding)

	failing.Tick(ctx)
	succeeding.Tick(ctx)
	tr.Refresh()

	if !tr.FullySettled() {
		t.Error("expected fully settled")
	}
	if len(tr.Errors()) != 1 {
		t.Errorf("Errors() returned %d, want exactly 1", len(tr.Errors()))
	}
}

func TestTracker_TrackNil(t *testing.T) {
	tr := NewTracker()
	tr.Track(nil)
	if !tr.FullySettled() {
		t.Error("nil steps should be ignored")
	}
}
