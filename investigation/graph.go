// Package investigation models the question → lead → hypothesis → task
// graph of an investigation session and lays it out as a left-to-right
// collapsible tree.
package investigation

import (
	"maps"
	"slices"

	"dario.cat/mergo"
)

// GraphNode is a node of the investigation graph with its arbitrary payload.
type GraphNode struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

// Type returns the node's "type" payload field, or "".
func (n *GraphNode) Type() string {
	if n == nil {
		return ""
	}
	s, _ := n.Data["type"].(string)
	return s
}

// Graph is a directed node/edge store tracking which nodes are roots.
// Not safe for concurrent use.
type Graph struct {
	nodes        map[string]*GraphNode
	edges        map[string][]string
	reverseEdges map[string][]string
	roots        []string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:        make(map[string]*GraphNode),
		edges:        make(map[string][]string),
		reverseEdges: make(map[string][]string),
	}
}

// AddNode inserts a node and marks it as a root. If the node exists, data is
// merged into its payload with last write wins per key: a nested map in data
// replaces the stored value instead of being merged into it, and a nil value
// is stored as nil.
func (g *Graph) AddNode(id string, data map[string]any) {
	if n, ok := g.nodes[id]; ok {
		if len(data) > 0 {
			// Without the old keys mergo copies each value as is and never
			// descends into nested maps.
			for k := range data {
				delete(n.Data, k)
			}
			// Merge only fails for mismatched kinds; both sides are maps.
			_ = mergo.Merge(&n.Data, data, mergo.WithOverride)
		}
		return
	}
	payload := maps.Clone(data)
	if payload == nil {
		payload = make(map[string]any)
	}
	g.nodes[id] = &GraphNode{ID: id, Data: payload}
	g.roots = append(g.roots, id)
}

// AddEdge links parent -> child, creating missing endpoints. The child stops
// being a root. Duplicate edges are ignored. Cycles are not rejected.
func (g *Graph) AddEdge(parent, child string) {
	if _, ok := g.nodes[parent]; !ok {
		g.AddNode(parent, nil)
	}
	if _, ok := g.nodes[child]; !ok {
		g.AddNode(child, nil)
	}
	if !slices.Contains(g.edges[parent], child) {
		g.edges[parent] = append(g.edges[parent], child)
		g.reverseEdges[child] = append(g.reverseEdges[child], parent)
	}
	g.roots = slices.DeleteFunc(g.roots, func(id string) bool { return id == child })
}

// Parents returns the ids with an edge into id.
func (g *Graph) Parents(id string) []string {
	return slices.Clone(g.reverseEdges[id])
}

// Children returns the ids id has an edge to.
func (g *Graph) Children(id string) []string {
	return slices.Clone(g.edges[id])
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *GraphNode {
	return g.nodes[id]
}

// Roots returns the ids never used as an edge target, in insertion order.
func (g *Graph) Roots() []string {
	return slices.Clone(g.roots)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// TreeNode is a materialized subtree.
type TreeNode struct {
	ID       string         `json:"id"`
	Data     map[string]any `json:"data"`
	Children []*TreeNode    `json:"children,omitempty"`
}

// ToTree materializes the subtree under rootID, or one tree per root when
// rootID is empty. A node already on the current path is not descended into
// again, so cycles terminate.
func (g *Graph) ToTree(rootID string) []*TreeNode {
	ids := g.roots
	if rootID != "" {
		ids = []string{rootID}
	}
	var out []*TreeNode
	for _, id := range ids {
		if t := g.tree(id, map[string]bool{}); t != nil {
			out = append(out, t)
		}
	}
	return out
}

func (g *Graph) tree(id string, path map[string]bool) *TreeNode {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	t := &TreeNode{ID: id, Data: maps.Clone(n.Data)}
	path[id] = true
	for _, c := range g.edges[id] {
		if path[c] {
			continue
		}
		if ct := g.tree(c, path); ct != nil {
			t.Children = append(t.Children, ct)
		}
	}
	delete(path, id)
	return t
}
