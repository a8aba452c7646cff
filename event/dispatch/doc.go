// Package dispatch provides the per-handler execution boundary used by the
// event bus. The Executor runs one handler invocation at a time, recovering
// from panics, capturing timing, and reporting the outcome as a Result so
// that a failing handler can never abort delivery to the handlers behind it.
package dispatch
