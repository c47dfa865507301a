package resolve

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ── Errors ────────────────────────────────────────────────────────────────────

var (
	// ErrNotRegistered is returned when Resolve is asked for a name that has
	// no producer. An unknown name is always an explicit error, never a nil
	// definition.
	ErrNotRegistered = errors.New("no producer registered")

	// ErrDuplicate is returned when a name is registered twice. Each name
	// maps to exactly one producer.
	ErrDuplicate = errors.New("name already registered")

	// ErrFrozen is returned when registering into a frozen registry.
	ErrFrozen = errors.New("registry is frozen")

	// ErrWrongType is returned by As when the resolved definition is not of
	// the requested type.
	ErrWrongType = errors.New("definition has wrong type")
)

// ── Producer & entries ────────────────────────────────────────────────────────

// Producer is a zero-argument function that constructs and returns a
// definition on demand. A producer must not be invoked before Resolve is
// called for its name — that deferral is what makes definitions independent
// of the order their source units were parsed in.
type Producer func() any

// entry holds a registered producer and whether its result is cached.
type entry struct {
	producer Producer
	memoize  bool
}

// ── Registry ──────────────────────────────────────────────────────────────────

// Registry is a static name → producer mapping resolved lazily.
//
// The intended lifecycle mirrors a host that parses every source unit before
// running any code: every unit registers its producers during the load phase,
// then the entry point resolves what it needs. Because a producer only runs
// at Resolve time, by then every producer has been registered regardless of
// the order the units were parsed in.
//
//	reg := resolve.New()
//	reg.Register("Child", func() any { ... resolve.MustAs[Def](reg, "Parent") ... })
//	reg.Register("Parent", func() any { ... })   // declared after Child — fine
//	child, err := reg.Resolve("Child")
//
// In the documented use case the registry is populated once and read-only
// afterwards; Freeze enforces that for callers that want it. Resolution is
// safe under concurrent readers, though the described host is
// single-threaded.
type Registry struct {
	mu sync.RWMutex

	// name → producer
	entries map[string]*entry

	// name → cached result, for memoized producers only
	resolved map[string]any

	// names Forgotten while frozen; their slots may be refilled so loaders
	// can swap placeholder producers without growing the name set
	vacated map[string]bool

	frozen bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries:  make(map[string]*entry),
		resolved: make(map[string]any),
		vacated:  make(map[string]bool),
	}
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register maps a name to a producer. The producer is not invoked here —
// only when the name is first resolved. Each Resolve reruns the producer;
// use RegisterMemoized to cache the first result instead.
func (r *Registry) Register(name string, producer Producer) error {
	return r.register(name, producer, false)
}

// RegisterMemoized maps a name to a producer whose first result is cached:
// every Resolve after the first returns the same definition value.
func (r *Registry) RegisterMemoized(name string, producer Producer) error {
	return r.register(name, producer, true)
}

func (r *Registry) register(name string, producer Producer, memoize bool) error {
	if producer == nil {
		return fmt.Errorf("resolve: nil producer for [%s]", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen && !r.vacated[name] {
		return fmt.Errorf("resolve: register [%s]: %w", name, ErrFrozen)
	}
	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("resolve: register [%s]: %w", name, ErrDuplicate)
	}
	r.entries[name] = &entry{producer: producer, memoize: memoize}
	delete(r.vacated, name)
	return nil
}

// MustRegister is Register for load-phase code where a duplicate name is a
// programming error.
func (r *Registry) MustRegister(name string, producer Producer) {
	if err := r.Register(name, producer); err != nil {
		panic(err)
	}
}

// Freeze fixes the registry's name set. Registering a new name afterwards
// fails with ErrFrozen; resolution is unaffected. A name Forgotten while
// frozen leaves a vacant slot that may be re-registered — that is how
// loaders swap a placeholder producer for the real one without the set of
// names ever growing. There is no unfreeze short of Flush.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
	r.vacated = make(map[string]bool)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve looks up name and invokes its producer, returning the constructed
// definition. The producer runs at call time, not registration time, so it
// may itself resolve other names declared in any source order.
//
// An unregistered name returns an error wrapping ErrNotRegistered.
func (r *Registry) Resolve(name string) (any, error) {
	r.mu.RLock()
	if v, ok := r.resolved[name]; ok {
		r.mu.RUnlock()
		return v, nil
	}
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("resolve: [%s]: %w", name, ErrNotRegistered)
	}

	// Invoke outside the lock: producers commonly resolve other names.
	v := e.producer()

	if e.memoize {
		r.mu.Lock()
		// A concurrent first Resolve may have stored already; keep the
		// earlier result so memoized names stay single-valued.
		if prev, ok := r.resolved[name]; ok {
			v = prev
		} else {
			r.resolved[name] = v
		}
		r.mu.Unlock()
	}
	return v, nil
}

// MustResolve is Resolve for entry-point code where an unknown name is a
// programming error.
func (r *Registry) MustResolve(name string) any {
	v, err := r.Resolve(name)
	if err != nil {
		panic(err)
	}
	return v
}

// ── Introspection ─────────────────────────────────────────────────────────────

// Registered reports whether a producer exists for name.
func (r *Registry) Registered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for name := range r.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// ── Removal ───────────────────────────────────────────────────────────────────

// Forget removes a name's producer and any memoized result. It ignores the
// frozen flag; it exists for loaders that replace placeholder producers, not
// for general runtime mutation. On a frozen registry the slot stays vacant
// and open for re-registration of the same name.
func (r *Registry) Forget(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; ok {
		r.vacated[name] = true
	}
	delete(r.entries, name)
	delete(r.resolved, name)
}

// Flush resets the registry to empty and unfrozen. Validation harnesses use
// it to replay registration in a different order.
func (r *Registry) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]*entry)
	r.resolved = make(map[string]any)
	r.vacated = make(map[string]bool)
	r.frozen = false
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// As resolves name and type-asserts the result.
//
//	// Instead of: def := reg.MustResolve("Parent").(Definition)
//	// Write:      def, err := resolve.As[Definition](reg, "Parent")
func As[T any](r *Registry, name string) (T, error) {
	var zero T
	v, err := r.Resolve(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("resolve: As[%T]: [%s] resolved to %T: %w", zero, name, v, ErrWrongType)
	}
	return typed, nil
}

// MustAs is As for producers resolving their own dependencies, where a
// missing or mistyped dependency is a programming error.
func MustAs[T any](r *Registry, name string) T {
	v, err := As[T](r, name)
	if err != nil {
		panic(err)
	}
	return v
}
