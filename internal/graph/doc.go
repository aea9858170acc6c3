// Package graph provides the directed dependency graph that backs the
// service registry, together with cycle detection and topological ordering.
//
// Each node in the graph is a service identified by its stable name, and
// edges represent "dependent requires dependency" relations. The graph must
// form a Directed Acyclic Graph (DAG) for an initialization order to exist;
// cycles are detected and reported with the exact offending path.
//
// # Core Concepts
//
// Graph: Holds, for every declared service, its set of direct dependencies
// plus the declaration sequence used as a stable tie-breaker when ordering.
//
// Closure: The transitive dependency set of a target service, including the
// target itself. Dangling edges (a dependency that was never declared) are
// caught here, at resolution time, so that services may be declared in any
// load order.
//
// Order: A linear initialization order over the closure of a target,
// computed with Kahn's algorithm. For every edge A -> B inside the closure,
// B appears before A.
//
// # Dependency Rules
//
//  1. A service may be declared once; re-declaring with an identical
//     dependency set is a no-op, a conflicting set is an error.
//  2. A service can never depend on itself, directly (rejected at
//     declaration) or transitively (rejected at ordering).
//  3. Every edge target must itself be declared by the time an order is
//     requested.
//
// The graph itself is not safe for concurrent mutation; the registry
// serializes writers and treats the graph as read-mostly afterwards.
package graph
