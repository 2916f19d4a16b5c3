package cag

import (
	"context"
	"fmt"

	"github.com/strata-analytics/causeway/backend/pkg/logger"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

// CheckStaleGraphs flags every graph of a project whose edges reference
// any of the just-edited statements, and returns the ids it flagged.
//
// Graphs already marked stale are skipped entirely: stale absorbs further
// staleness until a recalculation clears it, which also makes repeated
// calls with the same batch idempotent. The reference check is a pure
// set-intersection query against edges, so the cost scales with the
// touched statements, not the corpus.
func (s *Service) CheckStaleGraphs(ctx context.Context, projectID string, statementIDs []string) ([]string, error) {
	statementIDs = store.DedupeStrings(statementIDs)
	if len(statementIDs) == 0 {
		return nil, nil
	}

	graphs, err := s.stores.Graphs.FindByProject(ctx, projectID, store.FindOptions{})
	if err != nil {
		return nil, fmt.Errorf("list graphs of project %s: %w", projectID, err)
	}
	candidates := make([]string, 0, len(graphs))
	for _, g := range graphs {
		if !g.IsStale {
			candidates = append(candidates, g.ID)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	staleIDs, err := s.stores.Edges.ModelsReferencing(ctx, candidates, statementIDs)
	if err != nil {
		return nil, fmt.Errorf("find graphs referencing statements: %w", err)
	}
	if len(staleIDs) == 0 {
		return nil, nil
	}

	if err := s.stores.Graphs.SetStale(ctx, staleIDs, true); err != nil {
		return nil, fmt.Errorf("flag graphs stale: %w", err)
	}
	s.invalidateProject(projectID)

	logger.Info("[CAG] Flagged stale graphs",
		"project_id", projectID,
		"statements", len(statementIDs),
		"graphs", len(staleIDs),
	)
	return staleIDs, nil
}
