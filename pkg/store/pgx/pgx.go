// Package pgx implements the repository interfaces in pkg/store on
// PostgreSQL. Bulk inserts and updates go out as one pgx batch per call;
// the store offers document-level atomicity only, so a partially failed
// batch reports its first failing item and leaves the rest in place.
package pgx

import (
	"context"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/strata-analytics/causeway/backend/pkg/store"
)

// defaultFindSize caps unpaged finds. Large enough for any real graph
// or corpus slice the engine asks for in one go.
const defaultFindSize = 10000

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	SendBatch(ctx context.Context, b *pgxv5.Batch) pgxv5.BatchResults
}

// Store bundles the Postgres-backed repositories over one connection
// pool.
type Store struct {
	conn pgxIConn
}

// NewStore creates a Store using an existing database connection or pool.
func NewStore(conn pgxIConn) *Store {
	return &Store{conn: conn}
}

// Stores returns the repository bundle backed by this store.
func (s *Store) Stores() store.Stores {
	return store.Stores{
		Graphs:             &graphRepo{s.conn},
		Nodes:              &nodeRepo{s.conn},
		Edges:              &edgeRepo{s.conn},
		Scenarios:          &scenarioRepo{s.conn},
		Groups:             &groupRepo{s.conn},
		ScenarioResults:    &scenarioResultRepo{s.conn},
		SensitivityResults: &sensitivityResultRepo{s.conn},
		Statements:         &statementRepo{s.conn},
	}
}

// runBatch sends a batch whose queued statements correspond one-to-one to
// the given item ids and folds the per-item outcomes into a BulkResult.
func runBatch(ctx context.Context, conn pgxIConn, b *pgxv5.Batch, ids []string) store.BulkResult {
	res := conn.SendBatch(ctx, b)
	defer res.Close()

	out := store.BulkResult{}
	for _, id := range ids {
		tag, err := res.Exec()
		if err != nil {
			out.Errors = append(out.Errors, store.ItemError{ID: id, Reason: err.Error()})
			continue
		}
		if tag.RowsAffected() == 0 {
			out.Errors = append(out.Errors, store.ItemError{ID: id, Reason: "no rows affected"})
			continue
		}
		out.Items++
	}
	return out
}
