package pgx

import (
	"context"
	"errors"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

type edgeRepo struct {
	conn pgxIConn
}

const getEdgeSQL = `
SELECT id, model_id, source, target, reference_ids, same, opposite, unknown,
       belief_score, polarity, user_polarity, modified_at
FROM model_edges
WHERE id = $1;
`

const findEdgesByModelSQL = `
SELECT id, model_id, source, target, reference_ids, same, opposite, unknown,
       belief_score, polarity, user_polarity, modified_at
FROM model_edges
WHERE model_id = $1
ORDER BY id;
`

const modelsReferencingSQL = `
SELECT DISTINCT model_id
FROM model_edges
WHERE model_id = ANY($1) AND reference_ids && $2
ORDER BY model_id;
`

const insertEdgeSQL = `
INSERT INTO model_edges (id, model_id, source, target, reference_ids, same,
                         opposite, unknown, belief_score, polarity,
                         user_polarity, modified_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`

const updateEdgeSQL = `
UPDATE model_edges
SET source = $2, target = $3, reference_ids = $4, same = $5, opposite = $6,
    unknown = $7, belief_score = $8, polarity = $9, user_polarity = $10,
    modified_at = $11
WHERE id = $1;
`

const removeEdgesByModelSQL = `
DELETE FROM model_edges
WHERE model_id = $1;
`

func (r *edgeRepo) Get(ctx context.Context, id string) (*common.Edge, error) {
	var e common.Edge
	err := r.conn.QueryRow(ctx, getEdgeSQL, id).Scan(
		&e.ID, &e.ModelID, &e.Source, &e.Target, &e.ReferenceIDs,
		&e.Same, &e.Opposite, &e.Unknown, &e.BeliefScore, &e.Polarity,
		&e.UserPolarity, &e.ModifiedAt,
	)
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *edgeRepo) FindByModel(ctx context.Context, modelID string) ([]common.Edge, error) {
	rows, err := r.conn.Query(ctx, findEdgesByModelSQL, modelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]common.Edge, 0)
	for rows.Next() {
		var e common.Edge
		err := rows.Scan(
			&e.ID, &e.ModelID, &e.Source, &e.Target, &e.ReferenceIDs,
			&e.Same, &e.Opposite, &e.Unknown, &e.BeliefScore, &e.Polarity,
			&e.UserPolarity, &e.ModifiedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *edgeRepo) ModelsReferencing(ctx context.Context, candidateModelIDs []string, statementIDs []string) ([]string, error) {
	if len(candidateModelIDs) == 0 || len(statementIDs) == 0 {
		return nil, nil
	}

	rows, err := r.conn.Query(ctx, modelsReferencingSQL, candidateModelIDs, statementIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *edgeRepo) Insert(ctx context.Context, edges []common.Edge) store.BulkResult {
	b := &pgxv5.Batch{}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		b.Queue(insertEdgeSQL,
			e.ID, e.ModelID, e.Source, e.Target, e.ReferenceIDs,
			e.Same, e.Opposite, e.Unknown, e.BeliefScore, e.Polarity,
			e.UserPolarity, e.ModifiedAt,
		)
		ids = append(ids, e.ID)
	}
	return runBatch(ctx, r.conn, b, ids)
}

func (r *edgeRepo) Update(ctx context.Context, edges []common.Edge) store.BulkResult {
	b := &pgxv5.Batch{}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		b.Queue(updateEdgeSQL,
			e.ID, e.Source, e.Target, e.ReferenceIDs,
			e.Same, e.Opposite, e.Unknown, e.BeliefScore, e.Polarity,
			e.UserPolarity, e.ModifiedAt,
		)
		ids = append(ids, e.ID)
	}
	return runBatch(ctx, r.conn, b, ids)
}

func (r *edgeRepo) RemoveByModel(ctx context.Context, modelID string) (int64, error) {
	tag, err := r.conn.Exec(ctx, removeEdgesByModelSQL, modelID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
