// Package registry implements the process-wide service registry with
// dependency-ordered lazy initialization.
//
// Independently defined services declare dependencies on one another; when
// any service is first used, the registry guarantees that it and its full
// transitive dependency set are initialized exactly once, in a safe order,
// with deterministic detection of dependency cycles and self-referential
// initialization.
//
// # Core Concepts
//
// Service: Anything implementing the Service interface. A service supplies
// two hooks: Setup, its one-time initialization routine, and Probe, a cheap
// side-effect-free readiness check run right after Setup.
//
// Registry: Owns the dependency graph and one lifecycle descriptor per
// registered service. Constructing a fresh Registry per test gives clean
// isolation; there is deliberately no package-level singleton.
//
// Lifecycle: Each service moves Uninitialized -> Initializing -> Ready, or
// Initializing -> Failed. Failed is terminal for the life of the process:
// later calls re-return the stored cause without re-running Setup.
//
// Guard: Operations wrapped with Guard (or the generic GuardFunc) ensure
// their owning service is Ready before running. Once a service is Ready the
// wrapper costs a single atomic state read.
//
// # Concurrency
//
// Any number of goroutines may invoke guarded operations concurrently.
// Racing first-use callers of the same service are coalesced so exactly one
// runs Setup while the rest wait for its outcome. A waiter whose context is
// cancelled gives up waiting, but the initialization itself keeps running
// for the other waiters. A dependency is always fully Ready before a
// dependent's Setup begins.
//
// A Setup hook that (directly or transitively) invokes a guarded operation
// on its own service is detected structurally via the initialization chain
// carried on the hook's context, and fails fast with *SelfDependencyError
// instead of deadlocking. Setup hooks must propagate the context they
// receive into any guarded calls they make for this detection to work. The
// detection covers a single logical chain only; Setup hooks must not reach
// into undeclared services (see Service.Setup).
//
// A registry-wide hook registered via OnFirstInit runs exactly once, before
// the first service's Setup in the process, for one-time environment
// preparation shared by all services.
package registry
