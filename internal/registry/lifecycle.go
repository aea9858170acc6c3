package registry

import (
	"context"
	"strings"

	"svcreg/pkg/logging"

	"github.com/google/uuid"
)

// chainKey carries the active initialization chain on the context handed to
// Setup hooks.
type chainKey struct{}

// initChain is the ordered list of services whose Setup is currently running
// on the logical chain that led to the present call. It grows as chains
// nest (a Setup hook triggering further initialization) and is immutable
// once attached to a context.
type initChain struct {
	services []string
}

func chainFrom(ctx context.Context) *initChain {
	if c, ok := ctx.Value(chainKey{}).(*initChain); ok {
		return c
	}
	return &initChain{}
}

func (c *initChain) contains(name string) bool {
	for _, s := range c.services {
		if s == name {
			return true
		}
	}
	return false
}

func (c *initChain) extend(name string) *initChain {
	services := make([]string, 0, len(c.services)+1)
	services = append(services, c.services...)
	return &initChain{services: append(services, name)}
}

func (c *initChain) attach(ctx context.Context) context.Context {
	return context.WithValue(ctx, chainKey{}, c)
}

// EnsureReady drives target and its transitive dependencies to Ready,
// initializing whatever is still Uninitialized, in dependency order, exactly
// once per service.
//
// The fast path for an already Ready service is a map load plus one atomic
// state read. A Failed service immediately re-returns its stored cause.
// Cancelling ctx abandons only this caller's wait; an initialization already
// in flight keeps running for its other waiters.
func (r *Registry) EnsureReady(ctx context.Context, target string) error {
	d := r.lookup(target)
	if d == nil {
		return &UnknownServiceError{Service: target}
	}

	switch d.currentState() {
	case StateReady:
		return nil
	case StateFailed:
		return d.err
	}

	chain := chainFrom(ctx)
	if chain.contains(target) {
		return &SelfDependencyError{Service: target, Chain: chain.services}
	}

	order, err := r.resolveOrder(target)
	if err != nil {
		return err
	}

	// The process-wide hook precedes every Setup in the process. Running it
	// here, after the fast paths, keeps Ready lookups free of it.
	if err := r.runFirstInit(ctx); err != nil {
		return err
	}

	chainID := uuid.New().String()
	logging.Debug("Lifecycle", "chain %s: initialization order for %s: %s",
		chainID, target, strings.Join(order, ", "))

	for _, name := range order {
		if err := r.initOne(ctx, name, chain, chainID); err != nil {
			return err
		}
	}
	return nil
}

// initOne brings a single service to Ready, joining an in-flight
// initialization if one exists. The preceding services of the order are
// already Ready when this is called, which is what guarantees a dependent's
// Setup never starts before its dependencies are fully Ready.
func (r *Registry) initOne(ctx context.Context, name string, chain *initChain, chainID string) error {
	d := r.lookup(name)
	if d == nil {
		return &UnknownServiceError{Service: name}
	}

	for {
		switch d.currentState() {
		case StateReady:
			return nil
		case StateFailed:
			return d.err
		}

		// A service that is Initializing on our own chain means a Setup
		// hook re-entered a guarded operation requiring itself. Waiting
		// would deadlock; fail fast instead.
		if chain.contains(name) {
			return &SelfDependencyError{Service: name, Chain: chain.services}
		}

		ch := r.flight.DoChan(name, func() (interface{}, error) {
			return nil, r.initialize(ctx, d, chain, chainID)
		})

		select {
		case <-ctx.Done():
			// Abandon the wait; the flight keeps running for other waiters.
			return ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				return res.Err
			}
			// Success may come from a flight that finished between our
			// state read and the DoChan call; loop to re-read the state.
		}
	}
}

// initialize performs the one-time Setup and Probe of a service. It runs in
// exactly one goroutine per service at a time (enforced by the singleflight
// group) and records the terminal outcome on the descriptor before anyone
// can observe it.
func (r *Registry) initialize(ctx context.Context, d *descriptor, chain *initChain, chainID string) error {
	switch d.currentState() {
	case StateReady:
		return nil
	case StateFailed:
		return d.err
	}

	name := d.svc.Name()
	if !d.state.CompareAndSwap(int32(StateUninitialized), int32(StateInitializing)) {
		// Lost against a flight that completed between the state read and
		// the swap; report that outcome.
		if d.currentState() == StateFailed {
			return d.err
		}
		return nil
	}

	logging.Debug("Lifecycle", "chain %s: initializing service %s", chainID, name)

	// Setup is detached from the triggering caller's cancellation: other
	// waiters depend on this attempt completing. The context still carries
	// the extended chain for self-dependency detection.
	setupCtx := chain.extend(name).attach(context.WithoutCancel(ctx))

	if err := d.svc.Setup(setupCtx); err != nil {
		d.err = &InitializationError{Service: name, Cause: err}
		d.state.Store(int32(StateFailed))
		logging.Error("Lifecycle", err, "chain %s: service %s failed to initialize", chainID, name)
		return d.err
	}

	if !d.svc.Probe(setupCtx) {
		d.err = &InitializationError{Service: name, Cause: ErrProbeFailed}
		d.state.Store(int32(StateFailed))
		logging.Error("Lifecycle", ErrProbeFailed, "chain %s: service %s is not ready after setup", chainID, name)
		return d.err
	}

	d.state.Store(int32(StateReady))
	logging.Info("Lifecycle", "chain %s: service %s initialized", chainID, name)
	return nil
}
