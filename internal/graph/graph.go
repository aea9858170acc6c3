package graph

import "sort"

// node represents one declared service together with its direct dependency
// set and the sequence number of its declaration. The sequence number is used
// as a stable tie-breaker so resolved orders are reproducible; it is not part
// of the ordering contract.
type node struct {
	name string
	deps []string
	seq  int
}

// Graph holds the declared dependency relations between services. It is a
// pure data structure: insertion and lookup only, no lifecycle behavior.
//
// Graph is not safe for concurrent mutation; callers must synchronize writes.
type Graph struct {
	nodes map[string]*node
	order []string // declaration order
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// Declare records the direct dependencies of a service. Declaring the same
// service again with an identical dependency set (in any order) is a no-op.
// A conflicting re-declaration returns *AmbiguousDeclarationError, and a
// dependency on the service itself returns *SelfReferenceError.
//
// Dependencies do not need to be declared yet; dangling edges are caught
// when an order is requested.
func (g *Graph) Declare(name string, deps []string) error {
	normalized := normalize(deps)
	for _, dep := range normalized {
		if dep == name {
			return &SelfReferenceError{Service: name}
		}
	}

	if existing, ok := g.nodes[name]; ok {
		if sameSet(existing.deps, normalized) {
			return nil
		}
		return &AmbiguousDeclarationError{
			Service:     name,
			Declared:    append([]string(nil), existing.deps...),
			Conflicting: normalized,
		}
	}

	g.nodes[name] = &node{name: name, deps: normalized, seq: len(g.order)}
	g.order = append(g.order, name)
	return nil
}

// Known reports whether a service has been declared.
func (g *Graph) Known(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// DirectDependencies returns a copy of the recorded direct dependency set of
// a service, or nil if none were declared.
func (g *Graph) DirectDependencies(name string) []string {
	n, ok := g.nodes[name]
	if !ok || len(n.deps) == 0 {
		return nil
	}
	return append([]string(nil), n.deps...)
}

// Names returns all declared service names in declaration order.
func (g *Graph) Names() []string {
	return append([]string(nil), g.order...)
}

// Closure returns the transitive dependency set of target, including target
// itself, sorted by declaration order. It returns *UnknownDependencyError if
// target or any reachable edge points at an undeclared service.
func (g *Graph) Closure(target string) ([]string, error) {
	if !g.Known(target) {
		return nil, &UnknownDependencyError{Dependency: target}
	}

	seen := map[string]bool{target: true}
	stack := []string{target}
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, dep := range g.nodes[name].deps {
			if _, ok := g.nodes[dep]; !ok {
				return nil, &UnknownDependencyError{Dependent: name, Dependency: dep}
			}
			if !seen[dep] {
				seen[dep] = true
				stack = append(stack, dep)
			}
		}
	}

	closure := make([]string, 0, len(seen))
	for name := range seen {
		closure = append(closure, name)
	}
	sort.Slice(closure, func(i, j int) bool {
		return g.nodes[closure[i]].seq < g.nodes[closure[j]].seq
	})
	return closure, nil
}

// normalize copies and dedupes a dependency list, preserving first-seen
// order. Declared sets are order-independent, so duplicates carry no meaning.
func normalize(deps []string) []string {
	if len(deps) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(deps))
	out := make([]string, 0, len(deps))
	for _, dep := range deps {
		if !seen[dep] {
			seen[dep] = true
			out = append(out, dep)
		}
	}
	return out
}

// sameSet compares two dependency lists as sets.
func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		if !set[s] {
			return false
		}
	}
	return true
}
