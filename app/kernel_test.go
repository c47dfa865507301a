package app_test

import (
	"errors"
	"testing"

	"github.com/km-arc/go-latebind/app"
	"github.com/km-arc/go-latebind/framework/module"
	"github.com/km-arc/go-latebind/framework/pushorder"
	"github.com/km-arc/go-latebind/framework/resolve"
)

// ── demo-shaped modules ───────────────────────────────────────────────────────

type parentModule struct{ module.BaseModule }

func (m *parentModule) Register(reg *resolve.Registry) error {
	return reg.Register("Parent", func() any { return "parent" })
}

type childModule struct{ module.BaseModule }

func (m *childModule) Register(reg *resolve.Registry) error {
	return reg.Register("Child", func() any {
		return "child of " + resolve.MustAs[string](reg, "Parent")
	})
}

// ── Application ───────────────────────────────────────────────────────────────

func TestApplication_RegisterBootResolve(t *testing.T) {
	a := app.New("testdata/missing.env")

	// Dependent module first — registration order must not matter.
	if err := a.Register(&childModule{}); err != nil {
		t.Fatalf("Register child: %v", err)
	}
	if err := a.Register(&parentModule{}); err != nil {
		t.Fatalf("Register parent: %v", err)
	}
	a.Boot()

	got, err := resolve.As[string](a.Registry, "Child")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "child of parent" {
		t.Errorf("Child: got %q, want 'child of parent'", got)
	}
}

func TestApplication_UnknownName(t *testing.T) {
	a := app.New("testdata/missing.env")
	if _, err := a.Resolve("Unknown"); !errors.Is(err, resolve.ErrNotRegistered) {
		t.Errorf("err: got %v, want ErrNotRegistered", err)
	}
}

func TestApplication_EnvironmentHelpers(t *testing.T) {
	t.Setenv("APP_ENV", "testing")
	t.Setenv("APP_DEBUG", "false")

	a := app.New("testdata/missing.env")

	if !a.IsTesting() {
		t.Error("IsTesting() should be true")
	}
	if a.IsLocal() || a.IsProduction() {
		t.Error("IsLocal/IsProduction should be false")
	}
	if a.IsDebug() {
		t.Error("IsDebug() should be false")
	}
	if a.Version() == "" {
		t.Error("Version() should not be empty")
	}
}

func TestApplication_ValidateOrder(t *testing.T) {
	t.Setenv("PUSH_MANIFEST", "testdata/pushorder.toml")
	t.Setenv("VALIDATE_SHUFFLES", "4")

	a := app.New("testdata/missing.env")

	declare := func(reg *resolve.Registry, file pushorder.File) error {
		for _, name := range file.Provides {
			var p resolve.Producer
			switch name {
			case "Parent":
				p = func() any { return "parent" }
			case "Child":
				p = func() any { return "child of " + resolve.MustAs[string](reg, "Parent") }
			}
			if err := reg.Register(name, p); err != nil {
				return err
			}
		}
		return nil
	}

	if err := a.ValidateOrder(declare); err != nil {
		t.Errorf("ValidateOrder: %v", err)
	}
}

func TestApplication_ValidateOrder_MissingManifest(t *testing.T) {
	t.Setenv("PUSH_MANIFEST", "testdata/absent.toml")

	a := app.New("testdata/missing.env")
	err := a.ValidateOrder(func(_ *resolve.Registry, _ pushorder.File) error { return nil })
	if err == nil {
		t.Error("expected error for missing manifest")
	}
}
