package canvas

import "fmt"

// RemoveNode deletes a node and its incident edges.
// Groups left with a single member are dissolved.
// The Input node can never be removed.
func (w *Workflow) RemoveNode(id string) error {
	if id == RootNodeID {
		return ErrRootNode
	}
	if w.Node(id) == nil {
		return ErrNodeNotFound
	}

	nodes := make([]Node, 0, len(w.Nodes)-1)
	for _, n := range w.Nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}
	edges := make([]Edge, 0, len(w.Edges))
	for _, e := range w.Edges {
		if e.From != id && e.To != id {
			edges = append(edges, e)
		}
	}

	w.Nodes = DissolveSmallGroups(nodes)
	w.Edges = edges
	return nil
}

// Validate checks the structural invariants of a workflow:
// exactly one Input node with id node-1, unique node ids, edges between
// known nodes carrying their derived id, at most one edge per ordered pair,
// and no cycles.
func (w *Workflow) Validate() error {
	seen := make(map[string]bool, len(w.Nodes))
	for _, n := range w.Nodes {
		if err := ValidateNode(n); err != nil {
			return err
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: duplicate node %q", ErrInvalidWorkflow, n.ID)
		}
		seen[n.ID] = true
	}
	if !seen[RootNodeID] {
		return fmt.Errorf("%w: expected exactly one input node %q", ErrInvalidWorkflow, RootNodeID)
	}

	pairs := make(map[string]bool, len(w.Edges))
	for _, e := range w.Edges {
		if !seen[e.From] || !seen[e.To] {
			return fmt.Errorf("%w: edge %s references unknown node", ErrInvalidWorkflow, e.ID)
		}
		if e.ID != EdgeID(e.From, e.To) {
			return fmt.Errorf("%w: edge %q must have id %q", ErrInvalidWorkflow, e.ID, EdgeID(e.From, e.To))
		}
		if pairs[e.ID] {
			return fmt.Errorf("%w: duplicate edge %s -> %s", ErrInvalidWorkflow, e.From, e.To)
		}
		pairs[e.ID] = true
	}

	return ValidateAcyclic(w.Nodes, w.Edges)
}

// ValidateNode checks a single node: it needs an id, and the Input type is
// reserved for node-1, which must be of that type.
func ValidateNode(n Node) error {
	if n.ID == "" {
		return fmt.Errorf("%w: node without id", ErrInvalidWorkflow)
	}
	if n.Type == TypeInput && n.ID != RootNodeID {
		return fmt.Errorf("%w: input node must be %q, got %q", ErrInvalidWorkflow, RootNodeID, n.ID)
	}
	if n.ID == RootNodeID && n.Type != TypeInput {
		return fmt.Errorf("%w: node %q must be of type %s", ErrInvalidWorkflow, RootNodeID, TypeInput)
	}
	return nil
}

// NormalizeEdge fills in the derived id of e, or rejects an id that doesn't
// match its endpoints.
func NormalizeEdge(e *Edge) error {
	want := EdgeID(e.From, e.To)
	if e.ID == "" {
		e.ID = want
	}
	if e.ID != want {
		return fmt.Errorf("%w: edge %q must have id %q", ErrInvalidWorkflow, e.ID, want)
	}
	return nil
}

// ValidateAcyclic checks that the edges don't form a cycle using DFS.
func ValidateAcyclic(nodes []Node, edges []Edge) error {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e.To)
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	state := make(map[string]int)
	order := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if _, ok := state[n.ID]; !ok {
			state[n.ID] = unvisited
			order = append(order, n.ID)
		}
	}
	// Also include nodes referenced only in edges.
	for _, e := range edges {
		for _, id := range []string{e.From, e.To} {
			if _, ok := state[id]; !ok {
				state[id] = unvisited
				order = append(order, id)
			}
		}
	}

	var dfs func(id string) bool
	dfs = func(id string) bool {
		state[id] = visiting
		for _, next := range adj[id] {
			switch state[next] {
			case visiting:
				return true
			case unvisited:
				if dfs(next) {
					return true
				}
			}
		}
		state[id] = visited
		return false
	}

	for _, id := range order {
		if state[id] == unvisited && dfs(id) {
			return ErrCycleDetected
		}
	}

	return nil
}
