package app

import (
	"github.com/km-arc/go-latebind/framework/config"
	"github.com/km-arc/go-latebind/framework/module"
	"github.com/km-arc/go-latebind/framework/pushorder"
	"github.com/km-arc/go-latebind/framework/resolve"
)

// Application is the top-level kernel. It embeds the resolver Registry so
// caller code can register and resolve definitions on it directly, and
// carries the module Loader and configuration.
type Application struct {
	*resolve.Registry
	Modules *module.Loader

	cfg *config.Config
}

// New creates and bootstraps the application.
//
//	application := app.New() // loads .env automatically
//	application.Register(&ShapesModule{})
//	application.Boot()
//	def, err := application.Resolve("Child")
func New(envFiles ...string) *Application {
	reg := resolve.New()
	return &Application{
		Registry: reg,
		Modules:  module.NewLoader(reg),
		cfg:      config.Load(envFiles...),
	}
}

// Register adds a Module to the application.
func (a *Application) Register(m module.Module) error {
	return a.Modules.Register(m)
}

// Boot runs the Boot phase on all registered modules. Resolving before Boot
// works, but modules relying on the registered-then-boot lifecycle expect
// Boot to have run first.
func (a *Application) Boot() {
	a.Modules.Boot()
}

// Config returns the loaded configuration.
func (a *Application) Config() *config.Config { return a.cfg }

// ValidateOrder loads the configured push-order manifest and replays it in
// manifest, reversed, and shuffled orders using declare, returning the first
// ordering failure.
func (a *Application) ValidateOrder(declare pushorder.DeclareFunc) error {
	m, err := pushorder.Load(a.cfg.Validate.Manifest)
	if err != nil {
		return err
	}
	h := &pushorder.Harness{Manifest: m, Declare: declare}
	return h.VerifyAll(a.cfg.Validate.Shuffles, a.cfg.Validate.Seed)
}

// Environment returns the APP_ENV value.
func (a *Application) Environment() string { return a.cfg.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.cfg.App.Debug }
func (a *Application) Version() string     { return "0.1.0" }
