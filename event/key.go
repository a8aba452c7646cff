package event

import "reflect"

// Key distinguishes one kind of event payload from another. Keys derived via
// KeyOf are stable for the process lifetime.
type Key string

// KeyOf derives the event type key for a payload type.
func KeyOf[T any]() Key {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.PkgPath() != "" {
		return Key(t.PkgPath() + "." + t.Name())
	}
	return Key(t.String())
}

// Scope is a caller-chosen grouping identity enabling bulk unsubscription.
// The zero Scope is invalid.
type Scope string
