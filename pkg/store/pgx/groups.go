package pgx

import (
	"context"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

type groupRepo struct {
	conn pgxIConn
}

const findGroupsByModelSQL = `
SELECT id, model_id, name, children, modified_at
FROM model_groups
WHERE model_id = $1
ORDER BY id;
`

const insertGroupSQL = `
INSERT INTO model_groups (id, model_id, name, children, modified_at)
VALUES ($1, $2, $3, $4, $5);
`

const updateGroupSQL = `
UPDATE model_groups
SET name = $2, children = $3, modified_at = $4
WHERE id = $1;
`

const removeGroupsByModelSQL = `
DELETE FROM model_groups
WHERE model_id = $1;
`

func (r *groupRepo) FindByModel(ctx context.Context, modelID string) ([]common.Group, error) {
	rows, err := r.conn.Query(ctx, findGroupsByModelSQL, modelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]common.Group, 0)
	for rows.Next() {
		var g common.Group
		if err := rows.Scan(&g.ID, &g.ModelID, &g.Name, &g.Children, &g.ModifiedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *groupRepo) Insert(ctx context.Context, groups []common.Group) store.BulkResult {
	b := &pgxv5.Batch{}
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		b.Queue(insertGroupSQL, g.ID, g.ModelID, g.Name, g.Children, g.ModifiedAt)
		ids = append(ids, g.ID)
	}
	return runBatch(ctx, r.conn, b, ids)
}

func (r *groupRepo) Update(ctx context.Context, groups []common.Group) store.BulkResult {
	b := &pgxv5.Batch{}
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		b.Queue(updateGroupSQL, g.ID, g.Name, g.Children, g.ModifiedAt)
		ids = append(ids, g.ID)
	}
	return runBatch(ctx, r.conn, b, ids)
}

func (r *groupRepo) RemoveByModel(ctx context.Context, modelID string) (int64, error) {
	tag, err := r.conn.Exec(ctx, removeGroupsByModelSQL, modelID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
