package registry

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"svcreg/internal/graph"
	"svcreg/pkg/logging"

	"golang.org/x/sync/singleflight"
)

// Registry is the process-scoped service registry. It records dependency
// declarations, resolves initialization orders, and drives the per-service
// lifecycle.
//
// Registration is expected to complete before steady-state operation; the
// graph is read-mostly afterwards. The readiness fast path (IsReady, a
// guarded call on a Ready service) is lock-free: descriptors live in a
// copy-on-write map behind an atomic pointer and each state is a single
// atomic load.
type Registry struct {
	mu      sync.RWMutex // guards graph and version
	graph   *graph.Graph
	version uint64

	descriptors atomic.Pointer[map[string]*descriptor]

	// ordersMu guards the resolved-order cache. Entries are keyed by target
	// and stamped with the graph version they were computed against.
	ordersMu sync.Mutex
	orders   map[string]cachedOrder

	// flight coalesces concurrent initialization attempts per service name:
	// exactly one caller runs Setup, the rest share its outcome.
	flight singleflight.Group

	// firstInitHook runs at most once per registry, at the start of the first
	// initialization chain, before any service's Setup. Its outcome is
	// recorded in firstInitErr and gates every later chain.
	firstInitHook func(ctx context.Context) error
	firstInitOnce sync.Once
	firstInitErr  error
}

type cachedOrder struct {
	version uint64
	order   []string
}

// New creates an empty registry. Tests should construct a fresh registry
// instead of sharing one across cases.
func New() *Registry {
	r := &Registry{
		graph:  graph.New(),
		orders: make(map[string]cachedOrder),
	}
	empty := make(map[string]*descriptor)
	r.descriptors.Store(&empty)
	return r
}

// Register declares a service and its direct dependencies. It may be called
// any time before the service's first use, in any order relative to the
// registration of its dependencies.
//
// Registering the same service again with an identical dependency set is a
// no-op that keeps the original lifecycle state. A conflicting dependency
// set returns *AmbiguousDeclarationError, and a dependency on the service
// itself returns *SelfReferenceError.
func (r *Registry) Register(svc Service, deps ...string) error {
	if svc == nil {
		return fmt.Errorf("cannot register nil service")
	}
	name := svc.Name()
	if name == "" {
		return fmt.Errorf("service has empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.graph.Declare(name, deps); err != nil {
		return err
	}

	current := *r.descriptors.Load()
	if _, ok := current[name]; ok {
		// Identical re-declaration; the original descriptor and its
		// lifecycle state stay authoritative.
		return nil
	}

	next := make(map[string]*descriptor, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[name] = &descriptor{svc: svc}
	r.descriptors.Store(&next)
	r.version++
	return nil
}

// OnFirstInit registers a process-wide hook that runs exactly once, at the
// start of the first initialization chain, before any service's Setup. It is
// meant for one-time environment preparation (logging defaults, warning
// filters, global tuning) that must precede every service but belongs to no
// single one.
//
// The hook must be registered before first use; a registration after the
// first chain has started never runs. A failing hook blocks all
// initialization: every chain fails with the same *SetupHookError, and the
// hook is not retried.
func (r *Registry) OnFirstInit(hook func(ctx context.Context) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.firstInitHook = hook
}

// runFirstInit executes the registered first-init hook, once. Later callers
// observe the recorded outcome; sync.Once orders the write of firstInitErr
// before their read.
func (r *Registry) runFirstInit(ctx context.Context) error {
	r.firstInitOnce.Do(func() {
		r.mu.RLock()
		hook := r.firstInitHook
		r.mu.RUnlock()
		if hook == nil {
			return
		}

		// Detached from the triggering caller, like Setup: every later chain
		// depends on this one attempt.
		if err := hook(context.WithoutCancel(ctx)); err != nil {
			r.firstInitErr = &SetupHookError{Cause: err}
			logging.Error("Lifecycle", err, "First-init hook failed")
			return
		}
		logging.Info("Lifecycle", "First-init hook executed")
	})
	return r.firstInitErr
}

// lookup returns the descriptor for a service, or nil if not registered.
func (r *Registry) lookup(name string) *descriptor {
	return (*r.descriptors.Load())[name]
}

// IsReady reports whether a service has been successfully initialized. It is
// non-blocking and never triggers initialization; unknown services report
// false.
func (r *Registry) IsReady(name string) bool {
	d := r.lookup(name)
	return d != nil && d.currentState() == StateReady
}

// States returns a snapshot of every registered service's lifecycle state.
func (r *Registry) States() map[string]State {
	current := *r.descriptors.Load()
	states := make(map[string]State, len(current))
	for name, d := range current {
		states[name] = d.currentState()
	}
	return states
}

// Names returns all registered service names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.graph.Names()
}

// DirectDependencies returns the declared direct dependencies of a service.
func (r *Registry) DirectDependencies(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.graph.DirectDependencies(name)
}

// Plan resolves the initialization order for target without initializing
// anything. Useful for inspection and dry runs.
func (r *Registry) Plan(target string) ([]string, error) {
	if r.lookup(target) == nil {
		return nil, &UnknownServiceError{Service: target}
	}
	return r.resolveOrder(target)
}

// resolveOrder returns the topological initialization order for target,
// cached per target until the graph changes. The order is re-derivable from
// the graph at any time, so caching is invisible to callers.
func (r *Registry) resolveOrder(target string) ([]string, error) {
	r.mu.RLock()
	version := r.version
	r.mu.RUnlock()

	r.ordersMu.Lock()
	if cached, ok := r.orders[target]; ok && cached.version == version {
		r.ordersMu.Unlock()
		return cached.order, nil
	}
	r.ordersMu.Unlock()

	r.mu.RLock()
	order, err := r.graph.Order(target)
	r.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	r.ordersMu.Lock()
	r.orders[target] = cachedOrder{version: version, order: order}
	r.ordersMu.Unlock()
	return order, nil
}
