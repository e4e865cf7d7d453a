// Package opt provides a small optional value type.
//
// Optional distinguishes "no value" from a present zero value, which matters for
// resource identifiers, credentials and envelope bodies: an empty list is a body,
// an absent body is not.
package opt

import "fmt"

// Optional holds either a value of type T or nothing.
type Optional[T any] struct {
	value   T
	present bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// None returns an empty Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// FromString returns None for the empty string and Some(s) otherwise.
func FromString(s string) Optional[string] {
	if s == "" {
		return None[string]()
	}
	return Some(s)
}

// Present reports whether a value is held.
func (o Optional[T]) Present() bool {
	return o.present
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// OrElse returns the held value or def when empty.
func (o Optional[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}

// MustGet returns the held value and panics when empty.
func (o Optional[T]) MustGet() T {
	if !o.present {
		panic("opt: MustGet on empty Optional")
	}
	return o.value
}

func (o Optional[T]) String() string {
	if !o.present {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}
