package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS canvas_nodes (
    id          TEXT NOT NULL,
    workflow_id TEXT NOT NULL,
    x           DOUBLE PRECISION NOT NULL DEFAULT 0,
    y           DOUBLE PRECISION NOT NULL DEFAULT 0,
    label       TEXT NOT NULL DEFAULT '',
    type        TEXT NOT NULL DEFAULT 'Task',
    group_id    TEXT NOT NULL DEFAULT '',
    data        JSONB NOT NULL DEFAULT '{}',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (workflow_id, id)
);

CREATE TABLE IF NOT EXISTS canvas_edges (
    id           TEXT NOT NULL,
    workflow_id  TEXT NOT NULL,
    from_node_id TEXT NOT NULL,
    to_node_id   TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (workflow_id, id),
    FOREIGN KEY (workflow_id, from_node_id) REFERENCES canvas_nodes(workflow_id, id) ON DELETE CASCADE,
    FOREIGN KEY (workflow_id, to_node_id)   REFERENCES canvas_nodes(workflow_id, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_canvas_nodes_group ON canvas_nodes(workflow_id, group_id);
CREATE INDEX IF NOT EXISTS idx_canvas_edges_from  ON canvas_edges(workflow_id, from_node_id);
CREATE INDEX IF NOT EXISTS idx_canvas_edges_to    ON canvas_edges(workflow_id, to_node_id);
`

// CreateSchema creates the canvas_nodes and canvas_edges tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the canvas_edges and canvas_nodes tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS canvas_edges, canvas_nodes CASCADE;`)
	return err
}
