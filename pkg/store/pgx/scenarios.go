package pgx

import (
	"context"
	"encoding/json"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

type scenarioRepo struct {
	conn pgxIConn
}

const findScenariosByModelSQL = `
SELECT id, model_id, name, is_baseline, parameter, modified_at
FROM model_scenarios
WHERE model_id = $1
ORDER BY id;
`

const insertScenarioSQL = `
INSERT INTO model_scenarios (id, model_id, name, is_baseline, parameter, modified_at)
VALUES ($1, $2, $3, $4, $5, $6);
`

const updateScenarioSQL = `
UPDATE model_scenarios
SET name = $2, is_baseline = $3, parameter = $4, modified_at = $5
WHERE id = $1;
`

const removeScenariosByModelSQL = `
DELETE FROM model_scenarios
WHERE model_id = $1;
`

func (r *scenarioRepo) FindByModel(ctx context.Context, modelID string) ([]common.Scenario, error) {
	rows, err := r.conn.Query(ctx, findScenariosByModelSQL, modelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]common.Scenario, 0)
	for rows.Next() {
		var (
			s     common.Scenario
			param []byte
		)
		if err := rows.Scan(&s.ID, &s.ModelID, &s.Name, &s.IsBaseline, &param, &s.ModifiedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(param, &s.Parameter); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *scenarioRepo) Insert(ctx context.Context, scenarios []common.Scenario) store.BulkResult {
	b := &pgxv5.Batch{}
	ids := make([]string, 0, len(scenarios))
	for _, s := range scenarios {
		param, err := json.Marshal(s.Parameter)
		if err != nil {
			return store.BulkFailure(s.ID, err)
		}
		b.Queue(insertScenarioSQL, s.ID, s.ModelID, s.Name, s.IsBaseline, param, s.ModifiedAt)
		ids = append(ids, s.ID)
	}
	return runBatch(ctx, r.conn, b, ids)
}

func (r *scenarioRepo) Update(ctx context.Context, scenarios []common.Scenario) store.BulkResult {
	b := &pgxv5.Batch{}
	ids := make([]string, 0, len(scenarios))
	for _, s := range scenarios {
		param, err := json.Marshal(s.Parameter)
		if err != nil {
			return store.BulkFailure(s.ID, err)
		}
		b.Queue(updateScenarioSQL, s.ID, s.Name, s.IsBaseline, param, s.ModifiedAt)
		ids = append(ids, s.ID)
	}
	return runBatch(ctx, r.conn, b, ids)
}

func (r *scenarioRepo) RemoveByModel(ctx context.Context, modelID string) (int64, error) {
	tag, err := r.conn.Exec(ctx, removeScenariosByModelSQL, modelID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
