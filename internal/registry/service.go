package registry

import (
	"context"
	"sync/atomic"
)

// State represents the lifecycle state of a registered service.
//
// Transitions are monotonic: Uninitialized -> Initializing -> Ready, or
// Initializing -> Failed. Failed is terminal for the life of the process.
// Initializing is only ever held by the single initialization attempt in
// flight; everyone else observes it as "not yet decided" and waits for the
// outcome rather than acting on it.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
)

// String makes State satisfy the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Service is the contract every registered service must fulfil.
//
// Setup is the one-time initialization hook. It runs at most once per
// process, after all of the service's dependencies are Ready, and may
// perform blocking work such as opening connections. The context it receives
// is detached from any caller's cancellation but carries the active
// initialization chain; pass it through to any guarded operations made from
// inside Setup.
//
// Guarded calls from inside Setup must target declared dependencies only.
// An undeclared service is outside the resolved order, so the chain context
// cannot vouch for it: if its own Setup concurrently re-enters this service
// from a separate chain, the two chains wait on each other's in-flight
// initialization indefinitely. Declare the edge instead.
//
// Probe is a cheap, side-effect-free readiness check invoked immediately
// after a successful Setup. Returning false fails the initialization.
type Service interface {
	Name() string
	Setup(ctx context.Context) error
	Probe(ctx context.Context) bool
}

// descriptor carries the mutable lifecycle state of one registered service.
// Descriptors are created at registration and live for the rest of the
// process.
type descriptor struct {
	svc   Service
	state atomic.Int32

	// err holds the InitializationError of a failed service. It is written
	// exactly once, before the state is stored as Failed; the atomic state
	// load establishes the happens-before edge for readers.
	err error
}

func (d *descriptor) currentState() State {
	return State(d.state.Load())
}
