package postgres

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/canvas"
)

// AddEdge inserts a single edge into a workflow.
// The edge ID is derived from its endpoints; a different ID is rejected.
// Validates that adding this edge does not create a cycle.
// Adding an edge that already exists is a no-op.
func (s *PGStore) AddEdge(ctx context.Context, workflowID string, edge *canvas.Edge) error {
	if err := canvas.NormalizeEdge(edge); err != nil {
		return err
	}

	// Fetch existing edges + nodes for cycle detection.
	nodes, err := s.ListNodes(ctx, workflowID)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return canvas.ErrWorkflowNotFound
	}
	w := canvas.Workflow{Nodes: nodes}
	if w.Node(edge.From) == nil || w.Node(edge.To) == nil {
		return canvas.ErrNodeNotFound
	}
	edges, err := s.ListEdges(ctx, workflowID)
	if err != nil {
		return err
	}

	edges = append(edges, *edge)
	if err := canvas.ValidateAcyclic(nodes, edges); err != nil {
		return err
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO canvas_edges (id, workflow_id, from_node_id, to_node_id) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (workflow_id, id) DO NOTHING`,
		edge.ID, workflowID, edge.From, edge.To,
	)
	if err != nil {
		return fmt.Errorf("canvas: insert edge: %w", err)
	}
	return nil
}

// DeleteEdge deletes an edge by its ID.
// Returns ErrEdgeNotFound if the edge doesn't exist.
func (s *PGStore) DeleteEdge(ctx context.Context, workflowID, edgeID string) error {
	ct, err := s.db.Exec(ctx,
		`DELETE FROM canvas_edges WHERE workflow_id = $1 AND id = $2`, workflowID, edgeID)
	if err != nil {
		return fmt.Errorf("canvas: delete edge: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return canvas.ErrEdgeNotFound
	}
	return nil
}

// ListEdges returns all edges for a workflowID, ordered by created_at.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListEdges(ctx context.Context, workflowID string) ([]canvas.Edge, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, from_node_id, to_node_id FROM canvas_edges WHERE workflow_id = $1 ORDER BY created_at, id`,
		workflowID)
	if err != nil {
		return nil, fmt.Errorf("canvas: list edges: %w", err)
	}
	defer rows.Close()

	edges := []canvas.Edge{}
	for rows.Next() {
		var e canvas.Edge
		if err := rows.Scan(&e.ID, &e.From, &e.To); err != nil {
			return nil, fmt.Errorf("canvas: scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("canvas: rows edges: %w", err)
	}

	return edges, nil
}
