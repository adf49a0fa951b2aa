package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meikuraledutech/canvas"
)

// SaveWorkflow stores a full workflow (nodes + edges) in one transaction,
// replacing whatever was stored under the same id.
// A workflow without an ID gets an auto-generated UUID.
// Groups left with a single member are dissolved before saving.
func (s *PGStore) SaveWorkflow(ctx context.Context, w *canvas.Workflow) (*canvas.Workflow, error) {
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

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("canvas: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Replace semantics: edges go with their nodes via ON DELETE CASCADE.
	if _, err := tx.Exec(ctx, `DELETE FROM canvas_nodes WHERE workflow_id = $1`, w.ID); err != nil {
		return nil, fmt.Errorf("canvas: delete nodes: %w", err)
	}

	for _, n := range w.Nodes {
		if err := insertNode(ctx, tx, w.ID, n); err != nil {
			return nil, err
		}
	}

	for _, e := range w.Edges {
		if _, err := tx.Exec(ctx,
			`INSERT INTO canvas_edges (id, workflow_id, from_node_id, to_node_id) VALUES ($1, $2, $3, $4)`,
			e.ID, w.ID, e.From, e.To,
		); err != nil {
			return nil, fmt.Errorf("canvas: insert edge %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("canvas: commit: %w", err)
	}
	return w, nil
}

// GetWorkflow retrieves a full workflow by its ID.
// Returns nil, nil if no nodes exist for the workflowID.
func (s *PGStore) GetWorkflow(ctx context.Context, workflowID string) (*canvas.Workflow, error) {
	nodes, err := s.ListNodes(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	edges, err := s.ListEdges(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	return &canvas.Workflow{ID: workflowID, Nodes: nodes, Edges: edges}, nil
}

// DeleteWorkflow removes all nodes and edges for a workflowID.
// No error if the workflowID doesn't exist.
func (s *PGStore) DeleteWorkflow(ctx context.Context, workflowID string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("canvas: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM canvas_edges WHERE workflow_id = $1`, workflowID); err != nil {
		return fmt.Errorf("canvas: delete edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM canvas_nodes WHERE workflow_id = $1`, workflowID); err != nil {
		return fmt.Errorf("canvas: delete nodes: %w", err)
	}

	return tx.Commit(ctx)
}

func insertNode(ctx context.Context, tx pgx.Tx, workflowID string, n canvas.Node) error {
	data, err := encodeData(n.Data)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO canvas_nodes (`+nodeColumns+`, workflow_id) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.X, n.Y, n.Label, n.Type, n.GroupID, data, workflowID,
	); err != nil {
		return fmt.Errorf("canvas: insert node %s: %w", n.ID, err)
	}
	return nil
}
