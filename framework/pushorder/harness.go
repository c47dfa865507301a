package pushorder

import (
	"fmt"
	"strings"

	"github.com/km-arc/go-latebind/framework/resolve"
)

// DeclareFunc registers one file's producers into reg. It stands in for the
// host parsing that file: it must only register, never resolve.
type DeclareFunc func(reg *resolve.Registry, file File) error

// Harness replays a manifest's files in chosen orders and checks that every
// provided name still resolves. It is how a deployment's push order is
// validated: if the reversed and shuffled orders pass, no ordering the tool
// produces can break the code.
type Harness struct {
	Manifest *Manifest
	Declare  DeclareFunc
}

// Run declares every file in the given order into a fresh registry, then
// resolves every name the manifest provides. The first failure is returned
// with the ordering that provoked it.
func (h *Harness) Run(order []File) error {
	reg := resolve.New()
	for _, f := range order {
		if err := h.Declare(reg, f); err != nil {
			return fmt.Errorf("pushorder: declare [%s] (order %s): %w", f.Name, describe(order), err)
		}
	}
	reg.Freeze()
	for _, name := range h.Manifest.Names() {
		if _, err := reg.Resolve(name); err != nil {
			return fmt.Errorf("pushorder: resolve [%s] (order %s): %w", name, describe(order), err)
		}
	}
	return nil
}

// VerifyAll runs the manifest order, the reversed order, and shuffles
// seeded seed, seed+1, ... seed+shuffles-1.
func (h *Harness) VerifyAll(shuffles int, seed int64) error {
	if err := h.Run(h.Manifest.Order()); err != nil {
		return err
	}
	if err := h.Run(h.Manifest.Reversed()); err != nil {
		return err
	}
	for i := 0; i < shuffles; i++ {
		if err := h.Run(h.Manifest.Shuffled(seed + int64(i))); err != nil {
			return err
		}
	}
	return nil
}

func describe(order []File) string {
	names := make([]string, len(order))
	for i, f := range order {
		names[i] = f.Name
	}
	return strings.Join(names, " → ")
}
