package module

import (
	"fmt"

	"github.com/km-arc/go-latebind/framework/resolve"
)

// ── Module interface ──────────────────────────────────────────────────────────

// Module is a registration unit: one source unit's worth of named deferred
// definitions. A module registers producers during the load phase; it must
// not resolve anything in Register, because other units may not have
// registered yet. Boot runs after every module has registered, so resolving
// there is safe.
//
//	type ShapesModule struct{ module.BaseModule }
//
//	func (m *ShapesModule) Register(reg *resolve.Registry) error {
//	    return reg.Register("Parent", func() any { return NewParent() })
//	}
//
//	func (m *ShapesModule) Boot(reg *resolve.Registry) {
//	    // safe to resolve any name here
//	}
type Module interface {
	// Register maps names to producers.
	// Do NOT resolve other names here — use Boot for that.
	Register(reg *resolve.Registry) error

	// Boot is called after all modules have registered.
	Boot(reg *resolve.Registry)

	// Provides returns the names this module registers. Required for
	// deferred modules; eager modules may return nil.
	Provides() []string

	// IsDeferred reports whether the module should register lazily — only
	// when one of its Provides names is first resolved.
	IsDeferred() bool
}

// ── BaseModule ────────────────────────────────────────────────────────────────

// BaseModule is an embeddable struct providing no-op Boot, Provides, and
// IsDeferred. Embed it and override only what the module needs.
type BaseModule struct{}

func (m *BaseModule) Boot(_ *resolve.Registry) {}
func (m *BaseModule) Provides() []string       { return nil }
func (m *BaseModule) IsDeferred() bool         { return false }

// ── Loader ────────────────────────────────────────────────────────────────────

// Loader manages registration and booting of Modules, including deferred
// ones. Deferred modules get a placeholder producer per provided name; the
// first Resolve of any such name triggers the module's real registration.
type Loader struct {
	reg      *resolve.Registry
	eager    []Module
	deferred map[string]Module // name → module
	booted   bool
	seen     map[Module]bool
}

// NewLoader creates a loader bound to reg.
func NewLoader(reg *resolve.Registry) *Loader {
	return &Loader{
		reg:      reg,
		deferred: make(map[string]Module),
		seen:     make(map[Module]bool),
	}
}

// Register adds a module and calls its Register method, unless the module is
// deferred, in which case only placeholders are installed. Registering the
// same module instance twice is a no-op.
func (l *Loader) Register(m Module) error {
	if l.seen[m] {
		return nil
	}
	l.seen[m] = true

	if m.IsDeferred() {
		if len(m.Provides()) == 0 {
			return fmt.Errorf("module: deferred module %T provides no names", m)
		}
		return l.installPlaceholders(m)
	}

	if err := m.Register(l.reg); err != nil {
		return fmt.Errorf("module: register %T: %w", m, err)
	}
	l.eager = append(l.eager, m)

	// A module arriving after Boot is booted immediately.
	if l.booted {
		m.Boot(l.reg)
	}
	return nil
}

// placeholderFor builds the lazy producer installed for one deferred name.
// The first Resolve of the name loads the module for real.
func (l *Loader) placeholderFor(m Module, name string) resolve.Producer {
	return func() any {
		if err := l.load(m); err != nil {
			panic(err)
		}
		return l.reg.MustResolve(name)
	}
}

// installPlaceholders registers a lazy producer for each deferred name. On
// failure every placeholder already installed is unwound, so a half-rejected
// module leaves no trace in the registry.
func (l *Loader) installPlaceholders(m Module) error {
	var installed []string
	for _, name := range m.Provides() {
		if err := l.reg.Register(name, l.placeholderFor(m, name)); err != nil {
			for _, n := range installed {
				l.reg.Forget(n)
				delete(l.deferred, n)
			}
			delete(l.seen, m)
			return fmt.Errorf("module: placeholder for %T: %w", m, err)
		}
		l.deferred[name] = m
		installed = append(installed, name)
	}
	return nil
}

// load swaps a deferred module's placeholders for its real producers.
// Forget leaves each swapped name's slot open even on a frozen registry, so
// deferred modules keep working after Freeze. If the module's registration
// fails, the placeholders are restored so the names are not lost.
func (l *Loader) load(m Module) error {
	var pending []string
	for _, name := range m.Provides() {
		if l.deferred[name] == m {
			pending = append(pending, name)
		}
	}
	if len(pending) == 0 {
		return nil // already loaded via another of its names
	}
	for _, name := range pending {
		l.reg.Forget(name)
		delete(l.deferred, name)
	}
	if err := m.Register(l.reg); err != nil {
		for _, name := range pending {
			if l.reg.Registered(name) {
				continue // the module managed to register this one
			}
			if rerr := l.reg.Register(name, l.placeholderFor(m, name)); rerr == nil {
				l.deferred[name] = m
			}
		}
		return fmt.Errorf("module: deferred register %T: %w", m, err)
	}
	if l.booted {
		m.Boot(l.reg)
	}
	return nil
}

// Boot calls Boot on all eager modules. Call after every module has been
// registered; repeated calls are no-ops.
func (l *Loader) Boot() {
	if l.booted {
		return
	}
	l.booted = true
	for _, m := range l.eager {
		m.Boot(l.reg)
	}
}

// Booted reports whether Boot has run.
func (l *Loader) Booted() bool { return l.booted }

// Modules returns all registered eager modules.
func (l *Loader) Modules() []Module { return l.eager }
