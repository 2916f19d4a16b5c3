package store

import (
	"context"
	"errors"

	"github.com/strata-analytics/causeway/backend/pkg/common"
)

// ErrNotFound is returned by FindOne style lookups when no record matches.
var ErrNotFound = errors.New("store: record not found")

// GraphRepo persists graph root documents.
type GraphRepo interface {
	Get(ctx context.Context, id string) (*common.Graph, error)
	FindByProject(ctx context.Context, projectID string, opts FindOptions) ([]common.Graph, error)
	Insert(ctx context.Context, graphs []common.Graph) BulkResult
	Update(ctx context.Context, graphs []common.Graph) BulkResult
	SetStale(ctx context.Context, ids []string, stale bool) error
	Remove(ctx context.Context, id string) (int64, error)
}

// NodeRepo persists graph nodes.
type NodeRepo interface {
	Get(ctx context.Context, id string) (*common.Node, error)
	FindByModel(ctx context.Context, modelID string) ([]common.Node, error)
	Insert(ctx context.Context, nodes []common.Node) BulkResult
	Update(ctx context.Context, nodes []common.Node) BulkResult
	RemoveByModel(ctx context.Context, modelID string) (int64, error)
}

// EdgeRepo persists graph edges, including their derived composition
// fields (counts, belief score, polarity).
type EdgeRepo interface {
	Get(ctx context.Context, id string) (*common.Edge, error)
	FindByModel(ctx context.Context, modelID string) ([]common.Edge, error)
	// ModelsReferencing reports the distinct model ids, restricted to the
	// given candidate models, that own at least one edge whose
	// reference_ids intersects statementIDs. A set-intersection query:
	// it scales with the touched statements, not the corpus.
	ModelsReferencing(ctx context.Context, candidateModelIDs []string, statementIDs []string) ([]string, error)
	Insert(ctx context.Context, edges []common.Edge) BulkResult
	Update(ctx context.Context, edges []common.Edge) BulkResult
	RemoveByModel(ctx context.Context, modelID string) (int64, error)
}

// ScenarioRepo persists what-if scenarios.
type ScenarioRepo interface {
	FindByModel(ctx context.Context, modelID string) ([]common.Scenario, error)
	Insert(ctx context.Context, scenarios []common.Scenario) BulkResult
	Update(ctx context.Context, scenarios []common.Scenario) BulkResult
	RemoveByModel(ctx context.Context, modelID string) (int64, error)
}

// GroupRepo persists node groupings.
type GroupRepo interface {
	FindByModel(ctx context.Context, modelID string) ([]common.Group, error)
	Insert(ctx context.Context, groups []common.Group) BulkResult
	Update(ctx context.Context, groups []common.Group) BulkResult
	RemoveByModel(ctx context.Context, modelID string) (int64, error)
}

// ScenarioResultRepo persists projection results written by the external
// projection engine. This service only deletes them on graph teardown.
type ScenarioResultRepo interface {
	RemoveByModel(ctx context.Context, modelID string) (int64, error)
}

// SensitivityResultRepo persists sensitivity-analysis results. Deleted on
// graph teardown, never written here.
type SensitivityResultRepo interface {
	RemoveByModel(ctx context.Context, modelID string) (int64, error)
}

// StatementRepo reads corpus statements. The corpus is owned by the
// extraction pipeline; this service never writes it.
type StatementRepo interface {
	// FindByIDs fetches the statements with the given ids. Missing ids are
	// skipped, not errors: a shorter result than the id list is the normal
	// signal that the corpus moved under an edge.
	FindByIDs(ctx context.Context, ids []string) ([]common.Statement, error)
	// Search runs a filtered find over the corpus. Used with grounding
	// clauses to resolve which previously-backing statements are still
	// valid for an edge.
	Search(ctx context.Context, clauses []Clause, opts FindOptions) ([]common.Statement, error)
}

// Stores bundles every repository the engine consumes.
type Stores struct {
	Graphs             GraphRepo
	Nodes              NodeRepo
	Edges              EdgeRepo
	Scenarios          ScenarioRepo
	Groups             GroupRepo
	ScenarioResults    ScenarioResultRepo
	SensitivityResults SensitivityResultRepo
	Statements         StatementRepo
}
