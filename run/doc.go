// Package run provides the cooperative execution surfaces the event bus and
// chain sequencer are driven by.
//
// A Runner accepts callbacks for later invocation; deferred event handlers
// name the Runner they must execute on. Two implementations are provided:
//
//   - Loop: a single-threaded task queue drained by an explicit Tick call.
//     Tasks posted during a tick run on the next tick. This is the surface to
//     use when handlers must run on one logical thread (a frame loop).
//   - Pool: a bounded-queue worker pool for hosts that want deferred handlers
//     off the publishing goroutine entirely.
//
// Driver owns a time.Ticker and, once per interval, ticks its registered
// Loops and pumps its registered Pumpers (the chain sequencer implements
// Pumper). Hosts with their own per-frame loop can skip Driver and call
// Tick/Pump themselves.
package run
