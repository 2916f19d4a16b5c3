package cag

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/logger"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

// edgeResolution is the outcome of the read phase for one edge.
type edgeResolution struct {
	edge       common.Edge
	statements []common.Statement
	changed    bool
	ambiguous  bool
}

// Recalculate brings one graph's edges back into agreement with the
// current corpus and clears its stale flag.
//
// For every edge it queries the subset of previously-backing statements
// that still match the endpoint groundings and still exist undiscarded.
// Edges whose backing set shrank get their reference list, composition and
// timestamp replaced; untouched edges produce no write, which makes a
// second run with no intervening corpus edits a no-op. The per-edge
// queries run concurrently; the single batched write phase starts only
// after every read has finished, so the graph is never unflagged based on
// a partial view.
func (s *Service) Recalculate(ctx context.Context, graphID string) error {
	g, err := s.stores.Graphs.Get(ctx, graphID)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", graphID, err)
	}
	edges, err := s.stores.Edges.FindByModel(ctx, graphID)
	if err != nil {
		return fmt.Errorf("load edges of %s: %w", graphID, err)
	}
	nodes, err := s.stores.Nodes.FindByModel(ctx, graphID)
	if err != nil {
		return fmt.Errorf("load nodes of %s: %w", graphID, err)
	}

	componentsByConcept := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		componentsByConcept[n.Concept] = n.Components
	}

	now := time.Now().UTC()
	resolutions := make([]edgeResolution, len(edges))

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(s.maxParallel)
	for i := range edges {
		idx := i
		edge := edges[i]
		eg.Go(func() error {
			res, err := s.resolveEdge(ectx, edge, componentsByConcept, now)
			if err != nil {
				return err
			}
			resolutions[idx] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("resolve edges of %s: %w", graphID, err)
	}

	changed := make([]common.Edge, 0)
	graphAmbiguous := false
	for _, res := range resolutions {
		if res.changed {
			changed = append(changed, res.edge)
		}
		graphAmbiguous = graphAmbiguous || res.ambiguous
	}

	if len(changed) > 0 {
		if err := s.stores.Edges.Update(ctx, changed).FirstError(); err != nil {
			return fmt.Errorf("write edges of %s: %w", graphID, err)
		}
	}

	if len(changed) == 0 && graphAmbiguous == g.IsAmbiguous && !g.IsStale {
		logger.Debug("[CAG] Recalculation is a no-op", "model_id", graphID)
		return nil
	}

	// The structure moved, so any registration with an external
	// projection engine is void.
	g.IsStale = false
	g.IsAmbiguous = graphAmbiguous
	g.Status = common.StatusNotRegistered
	g.EngineStatus = common.StatusNotRegistered
	g.ModifiedAt = now
	if err := s.stores.Graphs.Update(ctx, []common.Graph{*g}).FirstError(); err != nil {
		return fmt.Errorf("write graph %s: %w", graphID, err)
	}
	s.invalidateProject(g.ProjectID)

	logger.Info("[CAG] Recalculated graph",
		"model_id", graphID,
		"edges", len(edges),
		"edges_changed", len(changed),
		"ambiguous", graphAmbiguous,
	)
	return nil
}

// resolveEdge computes the still-valid backing set of one edge. An edge
// that loses every statement keeps its endpoints and falls back to its
// user polarity (or 0): corpus churn never prunes graph topology, only
// explicit user actions remove edges.
func (s *Service) resolveEdge(
	ctx context.Context,
	edge common.Edge,
	componentsByConcept map[string][]string,
	now time.Time,
) (edgeResolution, error) {
	valid, err := s.validStatements(ctx, edge, componentsByConcept)
	if err != nil {
		return edgeResolution{}, err
	}

	res := edgeResolution{
		edge:      edge,
		ambiguous: ambiguous(valid, edge.UserPolarity),
	}

	if len(valid) == len(edge.ReferenceIDs) {
		return res, nil
	}

	validIDs := make([]string, 0, len(valid))
	for _, st := range valid {
		validIDs = append(validIDs, st.ID)
	}
	// keep the surviving ids in their original order
	res.edge.ReferenceIDs = store.IntersectStrings(edge.ReferenceIDs, validIDs)

	comp := Compose(valid, edge.UserPolarity)
	res.edge.Same = comp.Same
	res.edge.Opposite = comp.Opposite
	res.edge.Unknown = comp.Unknown
	res.edge.BeliefScore = comp.BeliefScore
	res.edge.Polarity = comp.Polarity
	res.edge.ModifiedAt = now
	res.changed = true
	res.statements = valid
	return res, nil
}

// validStatements runs the still-valid intersection search: statements
// whose subject grounding overlaps the source node's components, whose
// object grounding overlaps the target node's components, and whose id is
// in the edge's current reference list.
func (s *Service) validStatements(
	ctx context.Context,
	edge common.Edge,
	componentsByConcept map[string][]string,
) ([]common.Statement, error) {
	if len(edge.ReferenceIDs) == 0 {
		return nil, nil
	}
	sourceComponents := componentsByConcept[edge.Source]
	targetComponents := componentsByConcept[edge.Target]
	if len(sourceComponents) == 0 || len(targetComponents) == 0 {
		// endpoint concept no longer resolves to a node; nothing can match
		return nil, nil
	}

	clauses := []store.Clause{
		store.In(store.FieldID, edge.ReferenceIDs),
		store.Intersects(store.FieldSubjConcepts, sourceComponents),
		store.Intersects(store.FieldObjConcepts, targetComponents),
		store.Not(store.Eq(store.FieldDiscarded, "true")),
	}
	statements, err := s.stores.Statements.Search(ctx, clauses, store.FindOptions{Size: len(edge.ReferenceIDs)})
	if err != nil {
		return nil, fmt.Errorf("search statements of edge %s: %w", edge.ID, err)
	}
	return statements, nil
}
