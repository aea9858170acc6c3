package app

import (
	"context"

	"svcreg/internal/config"
	"svcreg/internal/registry"
	"svcreg/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// App bundles the registry and the sample services for consumption by the
// CLI and the HTTP server.
type App struct {
	Config   config.Config
	Registry *registry.Registry

	Datastore *Datastore
	Cache     *Cache
	Auth      *Auth
	Users     *Users
}

// Bootstrap constructs a fresh registry, wires the sample services into it,
// and declares their dependencies. Nothing is initialized here: services
// stay Uninitialized until first use (or an explicit WarmUp).
func Bootstrap(cfg config.Config) (*App, error) {
	reg := registry.New()
	reg.OnFirstInit(func(ctx context.Context) error {
		logging.Info("Bootstrap", "First service use; preparing process environment")
		return nil
	})

	ds := NewDatastore(reg, cfg.Service(ServiceDatastore))
	cache := NewCache(reg, cfg.Service(ServiceCache), ds)
	auth := NewAuth(reg, cfg.Service(ServiceAuth), ds)
	users := NewUsers(reg, cfg.Service(ServiceUsers), cache, auth)

	if err := reg.Register(ds); err != nil {
		return nil, err
	}
	if err := reg.Register(cache, ServiceDatastore); err != nil {
		return nil, err
	}
	if err := reg.Register(auth, ServiceDatastore); err != nil {
		return nil, err
	}
	if err := reg.Register(users, ServiceCache, ServiceAuth); err != nil {
		return nil, err
	}

	logging.Info("Bootstrap", "Registered %d services", len(reg.Names()))
	return &App{
		Config:    cfg,
		Registry:  reg,
		Datastore: ds,
		Cache:     cache,
		Auth:      auth,
		Users:     users,
	}, nil
}

// WarmUp eagerly initializes every registered service instead of waiting for
// first use. Targets are driven concurrently; the registry coalesces the
// overlapping chains so each service still initializes exactly once. The
// first initialization error aborts the warm-up.
func (a *App) WarmUp(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range a.Registry.Names() {
		g.Go(func() error {
			return a.Registry.EnsureReady(ctx, name)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logging.Info("Bootstrap", "All services warmed up")
	return nil
}
