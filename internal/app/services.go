package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"svcreg/internal/config"
	"svcreg/internal/registry"
)

// Names of the sample services. These are the identities registered with the
// dependency graph.
const (
	ServiceDatastore = "datastore"
	ServiceCache     = "cache"
	ServiceAuth      = "auth"
	ServiceUsers     = "users"
)

// ErrSimulatedFailure is returned by a sample service whose configuration
// forces Setup to fail. It stands in for real-world causes like a refused
// connection.
var ErrSimulatedFailure = errors.New("simulated setup failure")

// User is the record served by the users service.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// applyTuning sleeps for the configured setup delay and returns the forced
// failure, if any. Shared by all sample Setup hooks.
func applyTuning(ctx context.Context, cfg config.ServiceConfig) error {
	if delay := cfg.SetupDelay.Std(); delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	if cfg.FailSetup {
		return ErrSimulatedFailure
	}
	return nil
}

// Datastore is the root sample service: an in-memory key-value store seeded
// during Setup.
type Datastore struct {
	reg *registry.Registry
	cfg config.ServiceConfig

	mu   sync.RWMutex
	rows map[string]string
}

// NewDatastore creates the datastore service. It must be registered with reg
// before first use.
func NewDatastore(reg *registry.Registry, cfg config.ServiceConfig) *Datastore {
	return &Datastore{reg: reg, cfg: cfg}
}

func (d *Datastore) Name() string { return ServiceDatastore }

// Setup seeds the store. In a real deployment this would open a connection
// pool; here it just loads fixture rows.
func (d *Datastore) Setup(ctx context.Context) error {
	if err := applyTuning(ctx, d.cfg); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows = map[string]string{
		"user:1":      "Ada Lovelace|ada@example.com",
		"user:2":      "Alan Turing|alan@example.com",
		"user:3":      "Grace Hopper|grace@example.com",
		"token:demo":  "user:1",
		"token:admin": "user:2",
	}
	return nil
}

// Probe reports whether the store is usable.
func (d *Datastore) Probe(ctx context.Context) bool {
	if d.cfg.FailProbe {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rows != nil
}

// Get returns the raw value for a key. Guarded.
func (d *Datastore) Get(ctx context.Context, key string) (string, error) {
	return registry.GuardFunc(d.reg, ServiceDatastore, func(ctx context.Context) (string, error) {
		d.mu.RLock()
		defer d.mu.RUnlock()
		value, ok := d.rows[key]
		if !ok {
			return "", fmt.Errorf("no such key: %s", key)
		}
		return value, nil
	})(ctx)
}

// Put stores a raw value under a key. Guarded.
func (d *Datastore) Put(ctx context.Context, key, value string) error {
	return d.reg.Guard(ServiceDatastore, func(ctx context.Context) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.rows[key] = value
		return nil
	})(ctx)
}

// lookup is the unguarded read used by services that are themselves guarded
// and declare datastore as a dependency.
func (d *Datastore) lookup(key string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	value, ok := d.rows[key]
	return value, ok
}

// Cache is a read-through cache in front of the datastore.
type Cache struct {
	reg *registry.Registry
	cfg config.ServiceConfig
	ds  *Datastore

	mu      sync.RWMutex
	entries map[string]string
}

// NewCache creates the cache service.
func NewCache(reg *registry.Registry, cfg config.ServiceConfig, ds *Datastore) *Cache {
	return &Cache{reg: reg, cfg: cfg, ds: ds}
}

func (c *Cache) Name() string { return ServiceCache }

// Setup allocates the cache storage.
func (c *Cache) Setup(ctx context.Context) error {
	if err := applyTuning(ctx, c.cfg); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
	return nil
}

// Probe reports whether the cache storage exists.
func (c *Cache) Probe(ctx context.Context) bool {
	if c.cfg.FailProbe {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries != nil
}

// Get reads through the cache: hits are served from memory, misses from the
// datastore. Guarded; the datastore is Ready whenever this runs because
// cache declares it as a dependency.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return registry.GuardFunc(c.reg, ServiceCache, func(ctx context.Context) (string, error) {
		c.mu.RLock()
		cached, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		value, ok := c.ds.lookup(key)
		if !ok {
			return "", fmt.Errorf("no such key: %s", key)
		}
		c.mu.Lock()
		c.entries[key] = value
		c.mu.Unlock()
		return value, nil
	})(ctx)
}

// lookup is the unguarded read-through used by dependent guarded services.
func (c *Cache) lookup(key string) (string, bool) {
	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cached, true
	}
	value, ok := c.ds.lookup(key)
	if !ok {
		return "", false
	}
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
	return value, true
}

// Auth resolves bearer tokens against the datastore.
type Auth struct {
	reg *registry.Registry
	cfg config.ServiceConfig
	ds  *Datastore
}

// NewAuth creates the auth service.
func NewAuth(reg *registry.Registry, cfg config.ServiceConfig, ds *Datastore) *Auth {
	return &Auth{reg: reg, cfg: cfg, ds: ds}
}

func (a *Auth) Name() string { return ServiceAuth }

// Setup validates that the token fixtures are reachable.
func (a *Auth) Setup(ctx context.Context) error {
	return applyTuning(ctx, a.cfg)
}

// Probe checks that a known token resolves.
func (a *Auth) Probe(ctx context.Context) bool {
	if a.cfg.FailProbe {
		return false
	}
	_, ok := a.ds.lookup("token:demo")
	return ok
}

// Resolve maps a token to the user key it belongs to. Guarded.
func (a *Auth) Resolve(ctx context.Context, token string) (string, error) {
	return registry.GuardFunc(a.reg, ServiceAuth, func(ctx context.Context) (string, error) {
		userKey, ok := a.ds.lookup("token:" + token)
		if !ok {
			return "", fmt.Errorf("unknown token")
		}
		return userKey, nil
	})(ctx)
}

// resolve is the unguarded variant for dependent guarded services.
func (a *Auth) resolve(token string) (string, bool) {
	return a.ds.lookup("token:" + token)
}

// Users serves user records, reading through the cache and checking tokens
// with auth. It sits at the top of the diamond.
type Users struct {
	reg   *registry.Registry
	cfg   config.ServiceConfig
	cache *Cache
	auth  *Auth
}

// NewUsers creates the users service.
func NewUsers(reg *registry.Registry, cfg config.ServiceConfig, cache *Cache, auth *Auth) *Users {
	return &Users{reg: reg, cfg: cfg, cache: cache, auth: auth}
}

func (u *Users) Name() string { return ServiceUsers }

// Setup applies the configured tuning; users has no storage of its own.
func (u *Users) Setup(ctx context.Context) error {
	return applyTuning(ctx, u.cfg)
}

// Probe reports readiness of the users service.
func (u *Users) Probe(ctx context.Context) bool {
	return !u.cfg.FailProbe
}

// Get returns a user by id. Guarded; the first call initializes the whole
// diamond beneath users.
func (u *Users) Get(ctx context.Context, id string) (User, error) {
	return registry.GuardFunc(u.reg, ServiceUsers, func(ctx context.Context) (User, error) {
		raw, ok := u.cache.lookup("user:" + id)
		if !ok {
			return User{}, fmt.Errorf("no such user: %s", id)
		}
		return parseUser(id, raw)
	})(ctx)
}

// GetForToken authenticates a token and returns its user. Guarded.
func (u *Users) GetForToken(ctx context.Context, token string) (User, error) {
	return registry.GuardFunc(u.reg, ServiceUsers, func(ctx context.Context) (User, error) {
		userKey, ok := u.auth.resolve(token)
		if !ok {
			return User{}, fmt.Errorf("unknown token")
		}
		raw, ok := u.cache.lookup(userKey)
		if !ok {
			return User{}, fmt.Errorf("no user behind token")
		}
		return parseUser(strings.TrimPrefix(userKey, "user:"), raw)
	})(ctx)
}

func parseUser(id, raw string) (User, error) {
	name, email, ok := strings.Cut(raw, "|")
	if !ok {
		return User{}, fmt.Errorf("malformed user record for id %s", id)
	}
	return User{ID: id, Name: name, Email: email}, nil
}
