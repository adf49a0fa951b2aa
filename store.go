package canvas

import (
	"context"
	"errors"
)

var (
	ErrCycleDetected    = errors.New("canvas: cycle detected, graph is not acyclic")
	ErrNodeNotFound     = errors.New("canvas: node not found")
	ErrEdgeNotFound     = errors.New("canvas: edge not found")
	ErrWorkflowNotFound = errors.New("canvas: workflow not found")
	ErrRootNode         = errors.New("canvas: the input node cannot be removed")
	ErrInvalidWorkflow  = errors.New("canvas: invalid workflow")
)

// Store defines the contract for persisting and retrieving workflow canvases.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Workflow (bulk operations)
	SaveWorkflow(ctx context.Context, w *Workflow) (*Workflow, error)
	GetWorkflow(ctx context.Context, workflowID string) (*Workflow, error)
	DeleteWorkflow(ctx context.Context, workflowID string) error

	// Nodes
	AddNode(ctx context.Context, workflowID string, node *Node) error
	GetNode(ctx context.Context, workflowID, nodeID string) (*Node, error)
	UpdateNode(ctx context.Context, workflowID string, node *Node) error
	DeleteNode(ctx context.Context, workflowID, nodeID string) error
	ListNodes(ctx context.Context, workflowID string) ([]Node, error)

	// Edges
	AddEdge(ctx context.Context, workflowID string, edge *Edge) error
	DeleteEdge(ctx context.Context, workflowID, edgeID string) error
	ListEdges(ctx context.Context, workflowID string) ([]Edge, error)
}
