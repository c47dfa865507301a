package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/km-arc/go-latebind/app"
	"github.com/km-arc/go-latebind/framework/deferred"
	"github.com/km-arc/go-latebind/framework/module"
	"github.com/km-arc/go-latebind/framework/resolve"
)

// Definition is the demo's stand-in for a class-like value that a host
// would normally construct at load time.
type Definition struct {
	Kind     string
	Describe func() string
}

func main() {
	application := app.New() // loads .env automatically

	// ── Pattern B: resolver registry ─────────────────────────────────────────
	//
	// ChildModule is registered before ParentModule — the worst-case parse
	// order. Resolution still succeeds because Child's producer looks Parent
	// up lazily at resolve time.

	if err := application.Register(&ChildModule{}); err != nil {
		log.Fatalf("register child: %v", err)
	}
	if err := application.Register(&ParentModule{}); err != nil {
		log.Fatalf("register parent: %v", err)
	}
	application.Boot()

	child, err := resolve.As[Definition](application.Registry, "Child")
	if err != nil {
		log.Fatalf("resolve child: %v", err)
	}
	fmt.Printf("%s: %s\n", application.Config().App.Name, child.Describe())

	// Unknown names fail explicitly, never silently.
	if _, err := application.Resolve("Unknown"); errors.Is(err, resolve.ErrNotRegistered) {
		fmt.Printf("as expected: %v\n", err)
	}

	// ── Pattern A: direct deferred producers ─────────────────────────────────
	//
	// Same worst case without a registry: childDef is declared before
	// parentDef and unwraps it only inside its own producer.

	var parentDef, childDef deferred.Deferred[Definition]

	childDef = deferred.Defer(func() Definition {
		parent := parentDef.Value() // evaluated now, long after both are declared
		return Definition{
			Kind:     "child",
			Describe: func() string { return "child of " + parent.Kind },
		}
	})
	parentDef = deferred.Defer(func() Definition {
		return Definition{Kind: "parent", Describe: func() string { return "parent" }}
	})

	fmt.Println(childDef.Value().Describe())
}

// ── Demo modules ──────────────────────────────────────────────────────────────

// ParentModule provides the base definition.
type ParentModule struct{ module.BaseModule }

func (m *ParentModule) Register(reg *resolve.Registry) error {
	return reg.Register("Parent", func() any {
		return Definition{
			Kind:     "parent",
			Describe: func() string { return "parent" },
		}
	})
}

// ChildModule provides a definition extending Parent's. It only names
// "Parent" inside its producer, so it tolerates being registered first.
type ChildModule struct{ module.BaseModule }

func (m *ChildModule) Register(reg *resolve.Registry) error {
	return reg.Register("Child", func() any {
		parent := resolve.MustAs[Definition](reg, "Parent")
		return Definition{
			Kind:     "child",
			Describe: func() string { return "child of " + parent.Kind },
		}
	})
}
