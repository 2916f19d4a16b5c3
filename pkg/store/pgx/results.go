package pgx

import (
	"context"
)

type scenarioResultRepo struct {
	conn pgxIConn
}

type sensitivityResultRepo struct {
	conn pgxIConn
}

const removeScenarioResultsByModelSQL = `
DELETE FROM scenario_results
WHERE model_id = $1;
`

const removeSensitivityResultsByModelSQL = `
DELETE FROM sensitivity_results
WHERE model_id = $1;
`

func (r *scenarioResultRepo) RemoveByModel(ctx context.Context, modelID string) (int64, error) {
	tag, err := r.conn.Exec(ctx, removeScenarioResultsByModelSQL, modelID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *sensitivityResultRepo) RemoveByModel(ctx context.Context, modelID string) (int64, error) {
	tag, err := r.conn.Exec(ctx, removeSensitivityResultsByModelSQL, modelID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
