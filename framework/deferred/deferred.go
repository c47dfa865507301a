// Package deferred provides zero-argument producer wrappers for definitions
// that must not be constructed at load time.
//
// This is the direct-call alternative to the registry in framework/resolve:
// instead of looking a definition up by string name, the consumer holds a
// Deferred box and unwraps it when — and only when — the definition is
// needed. Cross-definition references go through another Deferred's Value(),
// never a direct load-time reference, so declaration order stops mattering.
//
//	// parsed first
//	var Child = deferred.Defer(func() Definition {
//	    return Parent.Value().Extend("child") // Parent evaluated here, not at load
//	})
//
//	// parsed later
//	var Parent = deferred.Defer(func() Definition { return NewParent() })
//
// Calling Value twice may construct two distinct definition values; wrap the
// producer with Memoize when a single shared value is wanted.
package deferred

import "sync"

// Producer is a zero-argument function that constructs and returns a
// definition on demand. It must have no side effects beyond constructing
// the definition, and must be safe to call more than once.
type Producer[T any] func() T

// Deferred boxes a producer so the definition is built at first use rather
// than at load time.
type Deferred[T any] struct {
	produce Producer[T]
}

// Defer wraps a producer. The producer is not invoked here.
func Defer[T any](p Producer[T]) Deferred[T] {
	return Deferred[T]{produce: p}
}

// Value invokes the producer and returns the constructed definition.
func (d Deferred[T]) Value() T {
	return d.produce()
}

// Memoize wraps a producer so only the first call constructs the definition;
// later calls return the same value. Without it a producer is transient and
// each Value call constructs anew.
func Memoize[T any](p Producer[T]) Producer[T] {
	var (
		once sync.Once
		v    T
	)
	return func() T {
		once.Do(func() { v = p() })
		return v
	}
}
