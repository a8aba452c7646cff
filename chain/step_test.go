package chain

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFuncStep_Lifecycle(t *testing.T) {
	step := Ticks(2)

	if step.Status() != StatusIdle {
		t.Errorf("new step status = %v, want idle", step.Status())
	}

	if st := step.Tick(context.Background()); st != StatusRunning {
		t.Errorf("first tick status = %v, want running", st)
	}
	if st := step.Tick(context.Background()); st != StatusDone {
		t.Errorf("second tick status = %v, want done", st)
	}
	if step.Err() != nil {
		t.Errorf("completed step has error: %v", step.Err())
	}

	// Terminal is sticky.
	if st := step.Tick(context.Background()); st != StatusDone {
		t.Errorf("tick after completion = %v, want done", st)
	}
}

func TestFuncStep_Error(t *testing.T) {
	wantErr := errors.New("step broke")
	step := Fail(wantErr)

	if st := step.Tick(context.Background()); st != StatusFailed {
		t.Errorf("status = %v, want failed", st)
	}
	if !errors.Is(step.Err(), wantErr) {
		t.Errorf("Err() = %v, want %v", step.Err(), wantErr)
	}
}

func TestFuncStep_Panic(t *testing.T) {
	step := Func(func(ctx context.Context) (bool, error) {
		panic("inside the step")
	})

	if st := step.Tick(context.Background()); st != StatusFailed {
		t.Errorf("status = %v, want failed", st)
	}
	if step.Err() == nil {
		t.Error("expected panic converted to step error")
	}
}

func TestFuncStep_SetNextAfterStart(t *testing.T) {
	a := Ticks(2)
	b := Ticks(1)

	if err := a.SetNext(b); err != nil {
		t.Fatalf("SetNext before start failed: %v", err)
	}
	if a.Next() != Step(b) {
		t.Error("Next() did not return the successor")
	}

	a.Tick(context.Background())
	if err := a.SetNext(Ticks(1)); err != ErrStepStarted {
		t.Errorf("SetNext after start = %v, want ErrStepStarted", err)
	}
}

func TestFuncStep_OnDone(t *testing.T) {
	var got error
	called := 0
	wantErr := errors.New("terminal error")

	step := Fail(wantErr).OnDone(func(err error) {
		called++
		got = err
	})

	step.Tick(context.Background())
	step.Tick(context.Background())

	if called != 1 {
		t.Errorf("OnDone called %d times, want 1", called)
	}
	if !errors.Is(got, wantErr) {
		t.Errorf("OnDone received %v, want %v", got, wantErr)
	}
}

func TestFuncStep_OnDonePanicIsSwallowed(t *testing.T) {
	step := Ticks(1).OnDone(func(err error) {
		panic("callback misbehaves")
	})

	// Must not escape to the pump.
	if st := step.Tick(context.Background()); st != StatusDone {
		t.Errorf("status = %v, want done", st)
	}
}

func TestAfter(t *testing.T) {
	step := After(10 * time.Millisecond)

	if st := step.Tick(context.Background()); st != StatusRunning {
		t.Errorf("status before deadline = %v, want running", st)
	}

	time.Sleep(15 * time.Millisecond)
	if st := step.Tick(context.Background()); st != StatusDone {
		t.Errorf("status after deadline = %v, want done", st)
	}
}

func TestRun_CompletesInOneTick(t *testing.T) {
	ran := false
	step := Run(func(ctx context.Context) error {
		ran = true
		return nil
	})

	if st := step.Tick(context.Background()); st != StatusDone {
		t.Errorf("status = %v, want done", st)
	}
	if !ran {
		t.Error("Run closure did not execute")
	}
}
