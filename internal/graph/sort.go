package graph

// Order computes a safe initialization order for target using Kahn's
// algorithm restricted to the transitive dependency closure of target. For
// every edge A -> B inside the closure, B precedes A in the result; the
// result always ends with target's position satisfied and contains exactly
// the closure, nothing more.
//
// Ties between ready nodes are broken by declaration order. That makes
// resolved orders deterministic for tests and display, but any valid
// topological order satisfies the contract.
//
// It returns *UnknownDependencyError for dangling edges and
// *CircularDependencyError (with the exact cycle path) if the closure
// contains a cycle.
func (g *Graph) Order(target string) ([]string, error) {
	closure, err := g.Closure(target)
	if err != nil {
		return nil, err
	}

	inClosure := make(map[string]bool, len(closure))
	for _, name := range closure {
		inClosure[name] = true
	}

	// In-degree of a node is its number of dependencies within the closure;
	// dependents maps a dependency to the nodes waiting on it.
	inDegree := make(map[string]int, len(closure))
	dependents := make(map[string][]string, len(closure))
	for _, name := range closure {
		for _, dep := range g.nodes[name].deps {
			if !inClosure[dep] {
				continue
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	// Seed the queue with dependency-free nodes. The closure is already in
	// declaration order, which keeps the seeding deterministic.
	var queue []string
	for _, name := range closure {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	result := make([]string, 0, len(closure))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		result = append(result, name)

		for _, dependent := range dependents[name] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	// A shortfall means some nodes never reached in-degree zero, which only
	// happens when a cycle exists among them. Re-run the detector for a
	// precise path in the error.
	if len(result) != len(closure) {
		if cycle := g.FindCycle(target); cycle != nil {
			return nil, &CircularDependencyError{Path: cycle}
		}
		return nil, &CircularDependencyError{Path: []string{target}}
	}

	return result, nil
}
