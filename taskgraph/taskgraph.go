// Package taskgraph answers structural questions about a workflow canvas
// (reachability, chord detection, placement) and converts the flat node/edge
// list back into the nested task-tree the scheduler consumes.
//
// Every function is pure: inputs are never modified and references to absent
// nodes resolve to empty results instead of errors.
package taskgraph

import (
	"cmp"
	"slices"

	"github.com/meikuraledutech/canvas"
)

// Defaults for task fields missing from a node's data.
const (
	DefaultTaskName            = "openrelik-worker-placeholder.tasks.placeholder"
	DefaultDescription         = "Task created in designer"
	DefaultCallbackDescription = "Chord Callback"
)

// Descendants returns every node id reachable from nodeID, in DFS discovery
// order. nodeID itself is only included when it sits on a cycle.
func Descendants(nodeID string, edges []canvas.Edge) []string {
	adj := adjacency(edges)
	visited := make(map[string]bool)
	var out []string

	var walk func(id string)
	walk = func(id string) {
		for _, next := range adj[id] {
			if visited[next] {
				continue
			}
			visited[next] = true
			out = append(out, next)
			walk(next)
		}
	}
	walk(nodeID)
	return out
}

// FindCommonCallback returns the node every start node eventually reaches.
// When several qualify the leftmost one wins. It returns nil for fewer than
// two start nodes or when the descendant sets don't intersect.
func FindCommonCallback(startNodes []string, edges []canvas.Edge, nodes []canvas.Node) *canvas.Node {
	if len(startNodes) < 2 {
		return nil
	}

	first := Descendants(startNodes[0], edges)
	if len(first) == 0 {
		return nil
	}
	common := make(map[string]bool, len(first))
	for _, id := range first {
		common[id] = true
	}
	for _, start := range startNodes[1:] {
		reach := make(map[string]bool)
		for _, id := range Descendants(start, edges) {
			reach[id] = true
		}
		for id := range common {
			if !reach[id] {
				delete(common, id)
			}
		}
		if len(common) == 0 {
			return nil
		}
	}

	var best *canvas.Node
	for i := range nodes {
		if !common[nodes[i].ID] {
			continue
		}
		if best == nil || nodes[i].X < best.X {
			n := nodes[i]
			best = &n
		}
	}
	return best
}

// BuildTaskTree serializes the subgraph below parentID into task-tree form,
// stopping at stopAtID. Children are ordered top to bottom. Siblings that
// converge on a common node other than stopAtID become a single chord element.
func BuildTaskTree(parentID, stopAtID string, edges []canvas.Edge, nodes []canvas.Node) []*canvas.Task {
	b := treeBuilder{
		edges: edges,
		nodes: nodes,
		byID:  make(map[string]*canvas.Node, len(nodes)),
		adj:   adjacency(edges),
		path:  map[string]bool{parentID: true},
	}
	for i := range nodes {
		if _, ok := b.byID[nodes[i].ID]; !ok {
			b.byID[nodes[i].ID] = &nodes[i]
		}
	}
	return b.children(parentID, stopAtID)
}

type treeBuilder struct {
	edges []canvas.Edge
	nodes []canvas.Node
	byID  map[string]*canvas.Node
	adj   map[string][]string
	// path holds the nodes on the current recursion path so a cyclic
	// canvas terminates instead of recursing forever.
	path map[string]bool
}

func (b *treeBuilder) children(parentID, stopAtID string) []*canvas.Task {
	var kids []*canvas.Node
	for _, id := range b.adj[parentID] {
		if id == stopAtID || b.path[id] {
			continue
		}
		if n, ok := b.byID[id]; ok {
			kids = append(kids, n)
		}
	}
	slices.SortStableFunc(kids, func(a, c *canvas.Node) int { return cmp.Compare(a.Y, c.Y) })

	if len(kids) > 1 {
		ids := make([]string, len(kids))
		for i, k := range kids {
			ids[i] = k.ID
		}
		if cb := FindCommonCallback(ids, b.edges, b.nodes); cb != nil && cb.ID != stopAtID && !b.path[cb.ID] {
			branches := make([]*canvas.Task, len(kids))
			for i, k := range kids {
				branches[i] = b.task(k, cb.ID, DefaultDescription)
			}
			return []*canvas.Task{{
				Type:     canvas.TaskTypeChord,
				Tasks:    branches,
				Callback: b.task(b.byID[cb.ID], stopAtID, DefaultCallbackDescription),
			}}
		}
	}

	out := make([]*canvas.Task, 0, len(kids))
	for _, k := range kids {
		out = append(out, b.task(k, stopAtID, DefaultDescription))
	}
	return out
}

func (b *treeBuilder) task(n *canvas.Node, stopAtID, description string) *canvas.Task {
	t := &canvas.Task{
		UUID:        n.Identity(),
		TaskName:    cmp.Or(n.Data.TaskName, DefaultTaskName),
		DisplayName: cmp.Or(n.Data.DisplayName, n.Label),
		Description: cmp.Or(n.Data.Description, description),
		TaskConfig:  n.Data.TaskConfig,
		Type:        canvas.TaskTypeTask,
	}
	if t.TaskConfig == nil {
		t.TaskConfig = map[string]any{}
	}

	b.path[n.ID] = true
	t.Tasks = b.children(n.ID, stopAtID)
	delete(b.path, n.ID)
	return t
}

// FlattenTasks indexes every task in the tree, chord branches and callbacks
// included, by uuid. Tasks without a uuid are skipped. A nil index allocates
// a new map.
func FlattenTasks(tasks []*canvas.Task, index map[string]*canvas.Task) map[string]*canvas.Task {
	if index == nil {
		index = make(map[string]*canvas.Task)
	}
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if t.UUID != "" {
			index[t.UUID] = t
		}
		FlattenTasks(t.Tasks, index)
		if t.Callback != nil {
			FlattenTasks([]*canvas.Task{t.Callback}, index)
		}
	}
	return index
}

// FindTails returns the leaf uuids of a task subtree. For a chord these are
// the callback's tails, or the tails of every branch when there is no callback.
func FindTails(t *canvas.Task) []string {
	if t == nil {
		return nil
	}
	if t.IsChord() {
		if t.Callback != nil {
			return FindTails(t.Callback)
		}
		return tailsOf(t.Tasks)
	}
	if len(t.Tasks) == 0 {
		if t.UUID == "" {
			return nil
		}
		return []string{t.UUID}
	}
	return tailsOf(t.Tasks)
}

func tailsOf(tasks []*canvas.Task) []string {
	var out []string
	for _, c := range tasks {
		out = append(out, FindTails(c)...)
	}
	return out
}

func adjacency(edges []canvas.Edge) map[string][]string {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e.To)
	}
	return adj
}
