package cag

import (
	"context"
	"fmt"
	"time"

	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/logger"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

// SetUserPolarity sets or clears (nil) an edge's explicit polarity
// override and rederives the edge's composition under it. The graph-level
// ambiguity flag is trued up by the next Recalculate, which callers
// normally trigger right after.
func (s *Service) SetUserPolarity(ctx context.Context, graphID, edgeID string, userPolarity *common.Polarity) (*common.Edge, error) {
	edge, err := s.stores.Edges.Get(ctx, edgeID)
	if err != nil {
		return nil, fmt.Errorf("load edge %s: %w", edgeID, err)
	}
	if edge.ModelID != graphID {
		return nil, fmt.Errorf("edge %s does not belong to graph %s: %w", edgeID, graphID, store.ErrNotFound)
	}

	edge.UserPolarity = userPolarity
	comp, err := s.ResolveComposition(ctx, *edge)
	if err != nil {
		return nil, err
	}
	edge.Same = comp.Same
	edge.Opposite = comp.Opposite
	edge.Unknown = comp.Unknown
	edge.BeliefScore = comp.BeliefScore
	edge.Polarity = comp.Polarity
	edge.ModifiedAt = time.Now().UTC()

	if err := s.stores.Edges.Update(ctx, []common.Edge{*edge}).FirstError(); err != nil {
		return nil, fmt.Errorf("write edge %s: %w", edgeID, err)
	}

	logger.Debug("[CAG] Set user polarity", "model_id", graphID, "edge_id", edgeID, "polarity", edge.Polarity)
	return edge, nil
}
