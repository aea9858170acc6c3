package graph

// FindCycle performs a depth-first search from start and returns the exact
// cycle path if one is reachable, or nil if the subgraph is acyclic. The
// returned path begins and ends with the same service, e.g. [A B A].
//
// The traversal keeps two sets: fully explored nodes that are safe to skip,
// and the nodes on the active path. Reaching a node already on the active
// path means a back edge, i.e. a cycle. Diamond shapes (two paths converging
// on a shared dependency) hit the explored set, not the active path, and are
// therefore not reported as cycles.
//
// Edges to undeclared services are skipped here; dangling references are the
// Closure's concern and produce a clearer error there.
func (g *Graph) FindCycle(start string) []string {
	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	var path []string

	var dfs func(name string) []string
	dfs = func(name string) []string {
		if onPath[name] {
			for i, n := range path {
				if n == name {
					cycle := append([]string(nil), path[i:]...)
					return append(cycle, name)
				}
			}
			// name is on the path, so the loop above always returns.
			return nil
		}
		if visited[name] {
			return nil
		}

		n, ok := g.nodes[name]
		if !ok {
			return nil
		}

		visited[name] = true
		onPath[name] = true
		path = append(path, name)

		for _, dep := range n.deps {
			if cycle := dfs(dep); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		onPath[name] = false
		return nil
	}

	return dfs(start)
}
