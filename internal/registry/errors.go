package registry

import (
	"errors"
	"fmt"
	"strings"

	"svcreg/internal/graph"
)

// Declaration and resolution errors originate in the graph package; alias
// them here so registry consumers have the full error taxonomy in one place.
type (
	// AmbiguousDeclarationError: same service registered twice with
	// conflicting dependency sets.
	AmbiguousDeclarationError = graph.AmbiguousDeclarationError
	// SelfReferenceError: a service declared itself as a direct dependency.
	SelfReferenceError = graph.SelfReferenceError
	// UnknownDependencyError: a declared dependency was never registered.
	UnknownDependencyError = graph.UnknownDependencyError
	// CircularDependencyError: the dependency graph contains a cycle; Path
	// carries the exact offending chain.
	CircularDependencyError = graph.CircularDependencyError
)

// ErrProbeFailed is the cause stored in an InitializationError when a
// service's readiness probe returns false after an otherwise successful
// Setup.
var ErrProbeFailed = errors.New("readiness probe returned false")

// UnknownServiceError is returned when an operation targets a service that
// was never registered.
type UnknownServiceError struct {
	Service string
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("service %s is not registered", e.Service)
}

// SelfDependencyError is returned when a service's Setup hook, directly or
// through other services, re-enters a guarded operation that requires the
// service itself. This is kept distinct from CircularDependencyError because
// the remediation differs: move the offending logic out of the Setup hook
// instead of restructuring declared dependencies.
type SelfDependencyError struct {
	Service string
	Chain   []string
}

func (e *SelfDependencyError) Error() string {
	return fmt.Sprintf("service %s requires itself during its own initialization (active chain: %s); move the logic out of the Setup hook",
		e.Service, strings.Join(e.Chain, " -> "))
}

// SetupHookError wraps a failure of the process-wide first-init hook
// registered via OnFirstInit. The hook runs at most once; its failure is
// recorded and re-returned on every subsequent initialization attempt.
type SetupHookError struct {
	Cause error
}

func (e *SetupHookError) Error() string {
	return fmt.Sprintf("first-init hook failed: %v", e.Cause)
}

// Unwrap exposes the root cause to errors.Is and errors.As.
func (e *SetupHookError) Unwrap() error {
	return e.Cause
}

// InitializationError wraps the underlying cause of a failed Setup or Probe.
// The same error value is stored on the service and re-returned verbatim on
// every later call against the failed service, without re-running Setup.
type InitializationError struct {
	Service string
	Cause   error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("service %s failed to initialize: %v", e.Service, e.Cause)
}

// Unwrap exposes the root cause to errors.Is and errors.As.
func (e *InitializationError) Unwrap() error {
	return e.Cause
}
