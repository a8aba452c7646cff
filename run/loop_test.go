package run

import "testing"

func TestLoop_PostAndTick(t *testing.T) {
	l := NewLoop()

	var order []int
	for i := 1; i <= 3; i++ {
		if err := l.Post(func() { order = append(order, i) }); err != nil {
			t.Fatalf("Post() failed: %v", err)
		}
	}

	if got := l.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}

	ran := l.Tick()
	if ran != 3 {
		t.Errorf("Tick() ran %d tasks, want 3", ran)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("tasks ran out of order: %v", order)
	}
	if got := l.Len(); got != 0 {
		t.Errorf("Len() = %d after tick, want 0", got)
	}
}

func TestLoop_PostNil(t *testing.T) {
	l := NewLoop()
	if err := l.Post(nil); err != ErrNilTask {
		t.Errorf("expected ErrNilTask, got %v", err)
	}
}

func TestLoop_PostDuringTickRunsNextTick(t *testing.T) {
	l := NewLoop()

	nested := false
	l.Post(func() {
		l.Post(func() { nested = true })
	})

	l.Tick()
	if nested {
		t.Error("task posted during tick must not run on the same tick")
	}

	l.Tick()
	if !nested {
		t.Error("task posted during tick should run on the next tick")
	}
}

func TestLoop_PanicDoesNotStopBatch(t *testing.T) {
	l := NewLoop()

	ran := false
	l.Post(func() { panic("bad task") })
	l.Post(func() { ran = true })

	l.Tick()
	if !ran {
		t.Error("panicking task stopped the rest of the batch")
	}
}
