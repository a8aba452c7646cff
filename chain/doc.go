// Package chain runs ordered sequences of asynchronous steps and tracks
// their completion.
//
// A Step is an explicit state machine: each Tick advances it one increment
// and reports whether it is still running or has reached a terminal state.
// Steps form chains through their Next pointer; the Sequencer pumps chain
// heads from one FIFO queue, moving a completed step's successor to the
// front of the queue so a chain stays strictly ordered while unrelated
// chains interleave fairly. A step that fails still advances to its
// successor: chains never abort on error, so cleanup steps run regardless of
// what happened before them.
//
// The Tracker observes a caller-chosen set of steps without driving them,
// exposing aggregate pending/completed/error state.
//
//	seq := chain.NewSequencer()
//	a := chain.Ticks(2)
//	b := chain.Run(func(ctx context.Context) error { return save() })
//	a.SetNext(b)
//	seq.Enqueue(a)
//	// ... the host pump calls seq.Pump(ctx) once per tick
package chain
