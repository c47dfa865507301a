// Package resolve provides a lazy name → producer registry for definitions
// that must not depend on source parse order.
//
// # The problem
//
// Some host environments (embedded scripting runtimes, plugin sandboxes)
// parse every source unit up front, in an order the author does not control,
// and offer no import mechanism. A definition in one unit that references a
// definition from a later-parsed unit at load time fails with an undefined
// reference. The fix is an indirection: never reference another definition
// directly at load time; reference it through a producer that is only
// invoked once everything has been parsed.
//
// # Lifecycle
//
//  1. Load phase: every source unit registers its producers.
//     Producers are stored, never invoked.
//  2. (Optional) Freeze: reg.Freeze() — the documented use case adds no
//     entries after load.
//  3. Run phase: the entry point resolves by name; producers run now, and
//     may themselves resolve other names in any declaration order.
//
// # Registering
//
//	reg := resolve.New()
//
//	// Transient — producer reruns on every Resolve
//	reg.Register("Parent", func() any {
//	    return Definition{Kind: "parent"}
//	})
//
//	// Memoized — first result cached, every Resolve returns the same value
//	reg.RegisterMemoized("Config", func() any {
//	    return loadDefaults()
//	})
//
// Names are unique: a second Register for the same name fails with
// ErrDuplicate rather than silently replacing the producer.
//
// # Resolving
//
//	// Untyped
//	v, err := reg.Resolve("Parent")
//
//	// Generic (preferred — no type assertion required)
//	parent, err := resolve.As[Definition](reg, "Parent")
//
//	// Inside a producer, where a missing dependency is a programming error
//	parent := resolve.MustAs[Definition](reg, "Parent")
//
// Resolving an unknown name fails with an error wrapping ErrNotRegistered —
// an explicit failure, never an undefined nil result.
//
// # Order independence
//
// The unit declaring "Child" may be parsed before the unit declaring
// "Parent", as long as Child's producer resolves Parent through the
// registry instead of referencing it directly:
//
//	// parsed first
//	reg.Register("Child", func() any {
//	    parent := resolve.MustAs[Definition](reg, "Parent") // deferred to run phase
//	    return parent.Extend("child")
//	})
//
//	// parsed later
//	reg.Register("Parent", func() any { return NewParent() })
//
//	child, err := reg.Resolve("Child") // succeeds
//
// # Memoization
//
// Transient producers may construct a distinct definition value on each
// Resolve; that is acceptable because definition identity is not what the
// load-order workaround protects. Callers that need a single shared value
// opt in with RegisterMemoized. The choice is always explicit.
package resolve
