package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

type graphRepo struct {
	conn pgxIConn
}

const getGraphSQL = `
SELECT id, project_id, name, status, engine_status, is_stale, is_ambiguous,
       parameter, created_at, modified_at
FROM models
WHERE id = $1;
`

const findGraphsByProjectSQL = `
SELECT id, project_id, name, status, engine_status, is_stale, is_ambiguous,
       parameter, created_at, modified_at
FROM models
WHERE project_id = $1
ORDER BY id
LIMIT $2 OFFSET $3;
`

const insertGraphSQL = `
INSERT INTO models (id, project_id, name, status, engine_status, is_stale,
                    is_ambiguous, parameter, created_at, modified_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`

const updateGraphSQL = `
UPDATE models
SET project_id = $2, name = $3, status = $4, engine_status = $5,
    is_stale = $6, is_ambiguous = $7, parameter = $8, modified_at = $9
WHERE id = $1;
`

const setGraphsStaleSQL = `
UPDATE models
SET is_stale = $2
WHERE id = ANY($1);
`

const removeGraphSQL = `
DELETE FROM models
WHERE id = $1;
`

func (r *graphRepo) Get(ctx context.Context, id string) (*common.Graph, error) {
	row := r.conn.QueryRow(ctx, getGraphSQL, id)
	g, err := scanGraph(row)
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *graphRepo) FindByProject(ctx context.Context, projectID string, opts store.FindOptions) ([]common.Graph, error) {
	size := opts.Size
	if size <= 0 {
		size = defaultFindSize
	}
	rows, err := r.conn.Query(ctx, findGraphsByProjectSQL, projectID, size, opts.From)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]common.Graph, 0)
	for rows.Next() {
		g, err := scanGraph(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (r *graphRepo) Insert(ctx context.Context, graphs []common.Graph) store.BulkResult {
	b := &pgxv5.Batch{}
	ids := make([]string, 0, len(graphs))
	for _, g := range graphs {
		param, err := json.Marshal(g.Parameter)
		if err != nil {
			return store.BulkFailure(g.ID, err)
		}
		b.Queue(insertGraphSQL, g.ID, g.ProjectID, g.Name, g.Status, g.EngineStatus,
			g.IsStale, g.IsAmbiguous, param, g.CreatedAt, g.ModifiedAt)
		ids = append(ids, g.ID)
	}
	return runBatch(ctx, r.conn, b, ids)
}

func (r *graphRepo) Update(ctx context.Context, graphs []common.Graph) store.BulkResult {
	b := &pgxv5.Batch{}
	ids := make([]string, 0, len(graphs))
	for _, g := range graphs {
		param, err := json.Marshal(g.Parameter)
		if err != nil {
			return store.BulkFailure(g.ID, err)
		}
		b.Queue(updateGraphSQL, g.ID, g.ProjectID, g.Name, g.Status, g.EngineStatus,
			g.IsStale, g.IsAmbiguous, param, g.ModifiedAt)
		ids = append(ids, g.ID)
	}
	return runBatch(ctx, r.conn, b, ids)
}

func (r *graphRepo) SetStale(ctx context.Context, ids []string, stale bool) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.conn.Exec(ctx, setGraphsStaleSQL, ids, stale)
	return err
}

func (r *graphRepo) Remove(ctx context.Context, id string) (int64, error) {
	tag, err := r.conn.Exec(ctx, removeGraphSQL, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanGraph(row pgxv5.Row) (*common.Graph, error) {
	var g common.Graph
	var param []byte
	err := row.Scan(&g.ID, &g.ProjectID, &g.Name, &g.Status, &g.EngineStatus,
		&g.IsStale, &g.IsAmbiguous, &param, &g.CreatedAt, &g.ModifiedAt)
	if err != nil {
		return nil, err
	}
	if len(param) > 0 {
		if err := json.Unmarshal(param, &g.Parameter); err != nil {
			return nil, fmt.Errorf("decode parameter of model %s: %w", g.ID, err)
		}
	}
	return &g, nil
}
