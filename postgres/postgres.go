package postgres

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meikuraledutech/canvas"
)

// PGStore implements canvas.Store using PostgreSQL via pgx.
type PGStore struct {
	db *pgxpool.Pool
}

// New creates a new PGStore backed by the given pgx connection pool.
func New(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

var _ canvas.Store = (*PGStore)(nil)

const nodeColumns = `id, x, y, label, type, group_id, data`

// encodeData marshals a node's task payload for the JSONB column.
func encodeData(d canvas.TaskData) ([]byte, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("canvas: encode node data: %w", err)
	}
	return b, nil
}

func scanNode(row pgx.Row) (canvas.Node, error) {
	var (
		n    canvas.Node
		data []byte
	)
	if err := row.Scan(&n.ID, &n.X, &n.Y, &n.Label, &n.Type, &n.GroupID, &data); err != nil {
		return n, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return n, fmt.Errorf("canvas: decode node %s data: %w", n.ID, err)
		}
	}
	return n, nil
}
