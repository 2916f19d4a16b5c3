package pgx

import (
	"context"
	"errors"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

type nodeRepo struct {
	conn pgxIConn
}

const getNodeSQL = `
SELECT id, model_id, concept, label, components, modified_at
FROM model_nodes
WHERE id = $1;
`

const findNodesByModelSQL = `
SELECT id, model_id, concept, label, components, modified_at
FROM model_nodes
WHERE model_id = $1
ORDER BY id;
`

const insertNodeSQL = `
INSERT INTO model_nodes (id, model_id, concept, label, components, modified_at)
VALUES ($1, $2, $3, $4, $5, $6);
`

const updateNodeSQL = `
UPDATE model_nodes
SET concept = $2, label = $3, components = $4, modified_at = $5
WHERE id = $1;
`

const removeNodesByModelSQL = `
DELETE FROM model_nodes
WHERE model_id = $1;
`

func (r *nodeRepo) Get(ctx context.Context, id string) (*common.Node, error) {
	var n common.Node
	err := r.conn.QueryRow(ctx, getNodeSQL, id).
		Scan(&n.ID, &n.ModelID, &n.Concept, &n.Label, &n.Components, &n.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *nodeRepo) FindByModel(ctx context.Context, modelID string) ([]common.Node, error) {
	rows, err := r.conn.Query(ctx, findNodesByModelSQL, modelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]common.Node, 0)
	for rows.Next() {
		var n common.Node
		if err := rows.Scan(&n.ID, &n.ModelID, &n.Concept, &n.Label, &n.Components, &n.ModifiedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *nodeRepo) Insert(ctx context.Context, nodes []common.Node) store.BulkResult {
	b := &pgxv5.Batch{}
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		b.Queue(insertNodeSQL, n.ID, n.ModelID, n.Concept, n.Label, n.Components, n.ModifiedAt)
		ids = append(ids, n.ID)
	}
	return runBatch(ctx, r.conn, b, ids)
}

func (r *nodeRepo) Update(ctx context.Context, nodes []common.Node) store.BulkResult {
	b := &pgxv5.Batch{}
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		b.Queue(updateNodeSQL, n.ID, n.Concept, n.Label, n.Components, n.ModifiedAt)
		ids = append(ids, n.ID)
	}
	return runBatch(ctx, r.conn, b, ids)
}

func (r *nodeRepo) RemoveByModel(ctx context.Context, modelID string) (int64, error) {
	tag, err := r.conn.Exec(ctx, removeNodesByModelSQL, modelID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
