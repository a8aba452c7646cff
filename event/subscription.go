package event

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/dshills/pulse/run"
)

// Subscription is the opaque handle returned by the subscribe operations.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Key returns the subscribed event type key.
	Key() Key

	// Tag returns the opaque value attached at subscribe time, if any.
	Tag() any
}

// SubscriptionConfig contains the configuration for one subscription.
// It is immutable once the record is registered.
type SubscriptionConfig struct {
	// Priority determines execution order (lower values execute first).
	Priority Priority

	// Deferred schedules the handler onto Runner instead of running it
	// inline during publish.
	Deferred bool

	// Runner is the cooperative execution surface for a deferred handler.
	// Required when Deferred is true unless the bus has a default runner.
	Runner run.Runner

	// Owner is the optional liveness signal for lazy pruning.
	Owner Owner

	// Tag is an opaque value carried on the record.
	Tag any

	// Filter is an optional predicate; payloads it rejects are skipped.
	Filter FilterFunc
}

// DefaultSubscriptionConfig returns the default subscription configuration.
func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{
		Priority: PriorityNormal,
	}
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithDeferred marks the handler deferred and names the runner it must
// execute on. A nil runner falls back to the bus default, if one is set.
func WithDeferred(r run.Runner) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Deferred = true
		c.Runner = r
	}
}

// WithOwner attaches a liveness signal to the record.
func WithOwner(o Owner) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Owner = o
	}
}

// WithTag attaches an opaque value to the record.
func WithTag(tag any) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Tag = tag
	}
}

// WithFilter sets a filter predicate.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Filter = f
	}
}

// record is one registered handler. Immutable after insertion; remove is the
// captured removal closure invoked by Unsubscribe and scope teardown.
type record struct {
	id      string
	key     Key
	config  SubscriptionConfig
	handler Handler
	remove  func()
}

func newRecord(key Key, h Handler, cfg SubscriptionConfig) *record {
	return &record{
		id:      uuid.NewString(),
		key:     key,
		config:  cfg,
		handler: h,
	}
}

// ID returns the subscription ID.
func (r *record) ID() string { return r.id }

// Key returns the subscribed event type key.
func (r *record) Key() Key { return r.key }

// Tag returns the record's tag.
func (r *record) Tag() any { return r.config.Tag }

// dead reports whether the record's owner has been invalidated.
func (r *record) dead() bool {
	return r.config.Owner != nil && !r.config.Owner.Alive()
}

// sameHandler reports whether two handlers share the same identity. Function
// handlers compare by code pointer; comparable handlers (pointer receivers)
// compare by value.
func sameHandler(a, b Handler) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Kind() == reflect.Func {
		return bv.Kind() == reflect.Func && av.Pointer() == bv.Pointer()
	}
	if av.Comparable() && bv.Comparable() {
		return av.Equal(bv)
	}
	return false
}
