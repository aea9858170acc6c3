package graph

import (
	"fmt"
	"strings"
)

// AmbiguousDeclarationError is returned when a service is declared twice with
// conflicting dependency sets. Identical re-declarations are tolerated so
// that package init order stays flexible; conflicting ones are a
// configuration bug that must surface immediately.
type AmbiguousDeclarationError struct {
	Service     string
	Declared    []string
	Conflicting []string
}

func (e *AmbiguousDeclarationError) Error() string {
	return fmt.Sprintf("service %s declared twice with conflicting dependencies: first [%s], then [%s]",
		e.Service, strings.Join(e.Declared, ", "), strings.Join(e.Conflicting, ", "))
}

// SelfReferenceError is returned when a service declares itself as a direct
// dependency. This is rejected at declaration time, separately from general
// cycle detection, because the fix is different: remove the self edge rather
// than untangle a chain.
type SelfReferenceError struct {
	Service string
}

func (e *SelfReferenceError) Error() string {
	return fmt.Sprintf("service %s cannot declare a dependency on itself", e.Service)
}

// UnknownDependencyError is returned at resolution time when an edge points
// at a service that was never declared. Declarations may happen in any order,
// so this is not checked until an initialization order is requested.
type UnknownDependencyError struct {
	Dependent  string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	if e.Dependent == "" {
		return fmt.Sprintf("service %s is not declared", e.Dependency)
	}
	return fmt.Sprintf("service %s depends on %s, which is not declared", e.Dependent, e.Dependency)
}

// CircularDependencyError is returned when the dependency graph contains a
// cycle reachable from the requested target. Path holds the exact cycle,
// starting and ending at the same service (e.g. [A B A]).
type CircularDependencyError struct {
	Path []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Path, " -> "))
}
