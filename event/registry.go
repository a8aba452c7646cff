package event

import "sync"

// registry stores handler records ordered by priority per key, plus the
// secondary scope index. All access goes through the mutexes; neither is
// ever held across a handler invocation.
type registry struct {
	mu    sync.Mutex
	byKey map[Key][]*record

	// scopeMu serializes scope operations so that teardown is atomic with
	// respect to concurrent scoped subscribes. Lock order: scopeMu before mu.
	scopeMu sync.Mutex
	scopes  map[Scope][]*record
}

func newRegistry() *registry {
	return &registry{
		byKey:  make(map[Key][]*record),
		scopes: make(map[Scope][]*record),
	}
}

// insert prunes dead entries for the record's key, then places the record
// before the first entry with a strictly greater priority, keeping the
// sequence non-decreasing with stable ties. It also captures the record's
// removal closure.
func (r *registry) insert(rec *record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked(rec.key)

	seq := r.byKey[rec.key]
	at := len(seq)
	for i, existing := range seq {
		if existing.config.Priority > rec.config.Priority {
			at = i
			break
		}
	}

	seq = append(seq, nil)
	copy(seq[at+1:], seq[at:])
	seq[at] = rec
	r.byKey[rec.key] = seq

	rec.remove = func() { r.removeRecord(rec) }
}

// removeRecord removes a single record from its key's sequence.
// No-op if the record was already removed or pruned.
func (r *registry) removeRecord(rec *record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seq := r.byKey[rec.key]
	for i, existing := range seq {
		if existing == rec {
			r.byKey[rec.key] = append(seq[:i], seq[i+1:]...)
			break
		}
	}
	r.cleanupLocked(rec.key)
}

// removeByHandler removes every record for key whose handler matches the
// given identity. Returns how many records were removed.
func (r *registry) removeByHandler(key Key, h Handler) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked(key)

	seq := r.byKey[key]
	kept := seq[:0:0]
	removed := 0
	for _, rec := range seq {
		if sameHandler(rec.handler, h) {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	r.byKey[key] = kept
	r.cleanupLocked(key)
	return removed
}

// snapshot returns a defensive copy of the current sequence for key.
// Delivery passes iterate the copy, so concurrent registry mutation never
// affects an in-flight pass.
func (r *registry) snapshot(key Key) []*record {
	r.mu.Lock()
	defer r.mu.Unlock()

	seq := r.byKey[key]
	if len(seq) == 0 {
		return nil
	}
	out := make([]*record, len(seq))
	copy(out, seq)
	return out
}

// count returns the total number of registered records, dead entries
// included.
func (r *registry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, seq := range r.byKey {
		n += len(seq)
	}
	return n
}

// pruneLocked drops records whose owner has been invalidated. This is the
// only pruning point: a key that is never mutated keeps its dead entries.
func (r *registry) pruneLocked(key Key) {
	seq := r.byKey[key]
	kept := seq[:0:0]
	for _, rec := range seq {
		if rec.dead() {
			continue
		}
		kept = append(kept, rec)
	}
	r.byKey[key] = kept
}

func (r *registry) cleanupLocked(key Key) {
	if len(r.byKey[key]) == 0 {
		delete(r.byKey, key)
	}
}

// addScoped records a (key, record) pair under scope. Caller must hold
// scopeMu.
func (r *registry) addScopedLocked(scope Scope, rec *record) {
	r.scopes[scope] = append(r.scopes[scope], rec)
}

// takeScope removes and returns every record registered under scope.
// Caller must hold scopeMu.
func (r *registry) takeScopeLocked(scope Scope) []*record {
	recs := r.scopes[scope]
	delete(r.scopes, scope)
	return recs
}
