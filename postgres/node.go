package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meikuraledutech/canvas"
)

// AddNode inserts a single node into an existing workflow.
// Returns ErrWorkflowNotFound if the workflow has no input node and
// ErrInvalidWorkflow for a duplicate id or a misplaced Input node.
func (s *PGStore) AddNode(ctx context.Context, workflowID string, node *canvas.Node) error {
	if node.Type == "" {
		node.Type = canvas.TypeTask
	}
	if err := canvas.ValidateNode(*node); err != nil {
		return err
	}
	data, err := encodeData(node.Data)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("canvas: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM canvas_nodes WHERE workflow_id = $1 AND id = $2)`,
		workflowID, canvas.RootNodeID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("canvas: find workflow: %w", err)
	}
	if !exists {
		return canvas.ErrWorkflowNotFound
	}

	ct, err := tx.Exec(ctx,
		`INSERT INTO canvas_nodes (`+nodeColumns+`, workflow_id) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (workflow_id, id) DO NOTHING`,
		node.ID, node.X, node.Y, node.Label, node.Type, node.GroupID, data, workflowID,
	)
	if err != nil {
		return fmt.Errorf("canvas: insert node: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: duplicate node %s", canvas.ErrInvalidWorkflow, node.ID)
	}
	if err := dissolveGroup(ctx, tx, workflowID, node.GroupID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetNode fetches a single node by its ID.
// Returns nil, nil if not found.
func (s *PGStore) GetNode(ctx context.Context, workflowID, nodeID string) (*canvas.Node, error) {
	n, err := scanNode(s.db.QueryRow(ctx,
		`SELECT `+nodeColumns+` FROM canvas_nodes WHERE workflow_id = $1 AND id = $2`,
		workflowID, nodeID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("canvas: get node: %w", err)
	}
	return &n, nil
}

// UpdateNode replaces position, label, group and payload of an existing node.
// Groups left with a single member are dissolved.
// Returns ErrNodeNotFound if the node doesn't exist.
func (s *PGStore) UpdateNode(ctx context.Context, workflowID string, node *canvas.Node) error {
	data, err := encodeData(node.Data)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("canvas: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var oldGroup string
	err = tx.QueryRow(ctx,
		`SELECT group_id FROM canvas_nodes WHERE workflow_id = $1 AND id = $2 FOR UPDATE`,
		workflowID, node.ID,
	).Scan(&oldGroup)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return canvas.ErrNodeNotFound
		}
		return fmt.Errorf("canvas: get node: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE canvas_nodes SET x = $1, y = $2, label = $3, group_id = $4, data = $5
		 WHERE workflow_id = $6 AND id = $7`,
		node.X, node.Y, node.Label, node.GroupID, data, workflowID, node.ID,
	)
	if err != nil {
		return fmt.Errorf("canvas: update node: %w", err)
	}
	for _, g := range []string{oldGroup, node.GroupID} {
		if err := dissolveGroup(ctx, tx, workflowID, g); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// DeleteNode deletes a node and its incident edges (cascade-deleted by the DB).
// A group left with a single member is dissolved in the same transaction.
// Returns ErrRootNode for the input node and ErrNodeNotFound if absent.
func (s *PGStore) DeleteNode(ctx context.Context, workflowID, nodeID string) error {
	if nodeID == canvas.RootNodeID {
		return canvas.ErrRootNode
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("canvas: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var groupID string
	err = tx.QueryRow(ctx,
		`DELETE FROM canvas_nodes WHERE workflow_id = $1 AND id = $2 RETURNING group_id`,
		workflowID, nodeID,
	).Scan(&groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return canvas.ErrNodeNotFound
		}
		return fmt.Errorf("canvas: delete node: %w", err)
	}
	if err := dissolveGroup(ctx, tx, workflowID, groupID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// dissolveGroup clears groupID from its members when fewer than two remain.
func dissolveGroup(ctx context.Context, tx pgx.Tx, workflowID, groupID string) error {
	if groupID == "" {
		return nil
	}
	_, err := tx.Exec(ctx,
		`UPDATE canvas_nodes SET group_id = ''
		 WHERE workflow_id = $1 AND group_id = $2
		   AND (SELECT COUNT(*) FROM canvas_nodes WHERE workflow_id = $1 AND group_id = $2) < 2`,
		workflowID, groupID,
	)
	if err != nil {
		return fmt.Errorf("canvas: dissolve group: %w", err)
	}
	return nil
}

// ListNodes returns all nodes for a workflowID, ordered by created_at.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListNodes(ctx context.Context, workflowID string) ([]canvas.Node, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+nodeColumns+` FROM canvas_nodes WHERE workflow_id = $1 ORDER BY created_at, id`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("canvas: list nodes: %w", err)
	}
	defer rows.Close()

	nodes := []canvas.Node{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("canvas: scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("canvas: rows nodes: %w", err)
	}

	return nodes, nil
}
