package event

import (
	"context"
	"testing"
)

func rec(p Priority) *record {
	// Each record gets a distinct handler so identity comparisons in
	// removeByHandler target exactly one record.
	return newRecord("k", &structHandler{}, SubscriptionConfig{Priority: p})
}

func TestRegistry_InsertOrdering(t *testing.T) {
	r := newRegistry()

	a := rec(PriorityNormal)
	b := rec(PriorityCritical)
	c := rec(PriorityNormal)
	d := rec(PriorityBackground)
	e := rec(PriorityCritical)

	for _, x := range []*record{a, b, c, d, e} {
		r.insert(x)
	}

	seq := r.snapshot("k")
	want := []*record{b, e, a, c, d}
	if len(seq) != len(want) {
		t.Fatalf("snapshot has %d records, want %d", len(seq), len(want))
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("position %d: wrong record; ordering must be ascending priority with stable ties", i)
		}
	}
}

func TestRegistry_SnapshotIsDefensiveCopy(t *testing.T) {
	r := newRegistry()
	a := rec(PriorityNormal)
	r.insert(a)

	snap := r.snapshot("k")
	r.removeRecord(a)

	if len(snap) != 1 || snap[0] != a {
		t.Error("snapshot mutated by later registry changes")
	}
	if got := r.snapshot("k"); got != nil {
		t.Errorf("expected empty snapshot after removal, got %d records", len(got))
	}
}

func TestRegistry_RemoveRecordIdempotent(t *testing.T) {
	r := newRegistry()
	a := rec(PriorityNormal)
	r.insert(a)

	a.remove()
	a.remove() // second removal is a no-op

	if got := r.count(); got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
}

func TestRegistry_PruneOnUnsubscribe(t *testing.T) {
	r := newRegistry()

	alive := true
	dead := newRecord("k", HandlerFunc(nil), SubscriptionConfig{
		Priority: PriorityNormal,
		Owner:    OwnerFunc(func() bool { return alive }),
	})
	keep := rec(PriorityNormal)
	target := rec(PriorityLow)

	r.insert(dead)
	r.insert(keep)
	r.insert(target)

	alive = false

	// Explicit unsubscribe for the key also prunes dead entries.
	r.removeByHandler("k", target.handler)

	if got := r.count(); got != 1 {
		t.Errorf("count = %d after prune+remove, want 1", got)
	}
	if seq := r.snapshot("k"); len(seq) != 1 || seq[0] != keep {
		t.Error("expected only the live, unremoved record to survive")
	}
}

func TestSameHandler(t *testing.T) {
	fn := HandlerFunc(func(ctx context.Context, p any) error { return nil })
	if !sameHandler(fn, fn) {
		t.Error("a handler should equal itself")
	}

	other := &structHandler{}
	if sameHandler(fn, other) {
		t.Error("distinct handlers compared equal")
	}
	if !sameHandler(other, other) {
		t.Error("pointer handler should equal itself")
	}

	if sameHandler(fn, nil) || !sameHandler(nil, nil) {
		t.Error("nil handler comparisons are wrong")
	}
}

// Non-zero size so each allocation has a distinct address; zero-size
// allocations can share an address, defeating identity comparisons.
type structHandler struct{ _ byte }

func (s *structHandler) Handle(ctx context.Context, p any) error { return nil }
