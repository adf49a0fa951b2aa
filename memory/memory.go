// Package memory provides an in-process canvas.Store used by tests, the CLI
// and the server when no database is configured.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/meikuraledutech/canvas"
)

// Store implements canvas.Store with a mutex-guarded map of workflows.
// Every read returns copies, so callers may mutate results freely.
type Store struct {
	mu        sync.RWMutex
	workflows map[string]*canvas.Workflow
}

// New returns an empty Store.
func New() *Store {
	return &Store{workflows: make(map[string]*canvas.Workflow)}
}

var _ canvas.Store = (*Store)(nil)

// CreateSchema is a no-op.
func (s *Store) CreateSchema(context.Context) error { return nil }

// DropSchema discards every stored workflow.
func (s *Store) DropSchema(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflows = make(map[string]*canvas.Workflow)
	return nil
}

// SaveWorkflow validates w and stores a copy, replacing any workflow with
// the same id. A workflow without an ID gets an auto-generated UUID.
func (s *Store) SaveWorkflow(_ context.Context, w *canvas.Workflow) (*canvas.Workflow, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	for i := range w.Edges {
		if w.Edges[i].ID == "" {
			w.Edges[i].ID = canvas.EdgeID(w.Edges[i].From, w.Edges[i].To)
		}
	}
	w.Nodes = canvas.DissolveSmallGroups(w.Nodes)
	if err := w.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflows[w.ID] = clone(w)
	return w, nil
}

// GetWorkflow returns nil, nil if the workflow doesn't exist.
func (s *Store) GetWorkflow(_ context.Context, workflowID string) (*canvas.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workflows[workflowID]
	if !ok {
		return nil, nil
	}
	return clone(w), nil
}

// DeleteWorkflow is a no-op for unknown ids.
func (s *Store) DeleteWorkflow(_ context.Context, workflowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workflows, workflowID)
	return nil
}

// AddNode appends a node to an existing workflow.
// Returns ErrWorkflowNotFound if the workflow doesn't exist.
func (s *Store) AddNode(_ context.Context, workflowID string, node *canvas.Node) error {
	if node.Type == "" {
		node.Type = canvas.TypeTask
	}
	if err := canvas.ValidateNode(*node); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workflows[workflowID]
	if !ok {
		return canvas.ErrWorkflowNotFound
	}
	if w.Node(node.ID) != nil {
		return fmt.Errorf("%w: duplicate node %s", canvas.ErrInvalidWorkflow, node.ID)
	}
	n := *node
	n.Data = node.Data.Clone()
	w.Nodes = canvas.DissolveSmallGroups(append(w.Nodes, n))
	return nil
}

// GetNode returns nil, nil if the node doesn't exist.
func (s *Store) GetNode(_ context.Context, workflowID, nodeID string) (*canvas.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workflows[workflowID]
	if !ok {
		return nil, nil
	}
	n := w.Node(nodeID)
	if n == nil {
		return nil, nil
	}
	out := cloneNode(*n)
	return &out, nil
}

// UpdateNode returns ErrNodeNotFound if the node doesn't exist.
// The node type is kept as stored. Groups left with a single member are
// dissolved.
func (s *Store) UpdateNode(_ context.Context, workflowID string, node *canvas.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workflows[workflowID]
	if !ok {
		return canvas.ErrNodeNotFound
	}
	n := w.Node(node.ID)
	if n == nil {
		return canvas.ErrNodeNotFound
	}
	n.X, n.Y, n.Label, n.GroupID, n.Data = node.X, node.Y, node.Label, node.GroupID, node.Data.Clone()
	w.Nodes = canvas.DissolveSmallGroups(w.Nodes)
	return nil
}

// DeleteNode removes the node with its edges and dissolves groups left
// with a single member.
func (s *Store) DeleteNode(_ context.Context, workflowID, nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workflows[workflowID]
	if !ok {
		if nodeID == canvas.RootNodeID {
			return canvas.ErrRootNode
		}
		return canvas.ErrNodeNotFound
	}
	return w.RemoveNode(nodeID)
}

// ListNodes returns an empty slice (not nil) if none found.
func (s *Store) ListNodes(_ context.Context, workflowID string) ([]canvas.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workflows[workflowID]
	if !ok {
		return []canvas.Node{}, nil
	}
	return cloneNodes(w.Nodes), nil
}

// AddEdge rejects edges that would close a cycle and ids that don't match
// the edge's endpoints. Adding an existing edge is a no-op.
func (s *Store) AddEdge(_ context.Context, workflowID string, edge *canvas.Edge) error {
	if err := canvas.NormalizeEdge(edge); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workflows[workflowID]
	if !ok {
		return canvas.ErrWorkflowNotFound
	}
	if w.Node(edge.From) == nil || w.Node(edge.To) == nil {
		return canvas.ErrNodeNotFound
	}
	if slices.ContainsFunc(w.Edges, func(e canvas.Edge) bool { return e.ID == edge.ID }) {
		return nil
	}

	edges := append(slices.Clone(w.Edges), *edge)
	if err := canvas.ValidateAcyclic(w.Nodes, edges); err != nil {
		return err
	}
	w.Edges = edges
	return nil
}

// DeleteEdge returns ErrEdgeNotFound if the edge doesn't exist.
func (s *Store) DeleteEdge(_ context.Context, workflowID, edgeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workflows[workflowID]
	if !ok {
		return canvas.ErrEdgeNotFound
	}
	i := slices.IndexFunc(w.Edges, func(e canvas.Edge) bool { return e.ID == edgeID })
	if i < 0 {
		return canvas.ErrEdgeNotFound
	}
	w.Edges = slices.Delete(w.Edges, i, i+1)
	return nil
}

// ListEdges returns an empty slice (not nil) if none found.
func (s *Store) ListEdges(_ context.Context, workflowID string) ([]canvas.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workflows[workflowID]
	if !ok {
		return []canvas.Edge{}, nil
	}
	return slices.Clone(w.Edges), nil
}

func clone(w *canvas.Workflow) *canvas.Workflow {
	edges := slices.Clone(w.Edges)
	if edges == nil {
		edges = []canvas.Edge{}
	}
	return &canvas.Workflow{ID: w.ID, Nodes: cloneNodes(w.Nodes), Edges: edges}
}

func cloneNodes(nodes []canvas.Node) []canvas.Node {
	out := make([]canvas.Node, len(nodes))
	for i, n := range nodes {
		out[i] = cloneNode(n)
	}
	return out
}

func cloneNode(n canvas.Node) canvas.Node {
	n.Data = n.Data.Clone()
	return n
}
