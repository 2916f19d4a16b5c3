package cag

import (
	"context"
	"fmt"
	"time"

	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/logger"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

// ConceptChange reports a completed rename.
type ConceptChange struct {
	OldConcept string `json:"old_concept"`
	NewConcept string `json:"new_concept"`
}

// ChangeConcept renames a node's concept and rewrites every edge endpoint
// and scenario constraint in the graph that referenced the old concept.
// Node, edges and scenarios are written in that order, each as its own
// bulk call; the store offers no multi-document transactions, so a
// failure partway leaves the graph transiently inconsistent and the
// caller retries rather than rolling back.
//
// Concept uniqueness is re-validated here: renaming onto a concept
// already used by another node of the graph fails with
// ErrDuplicateConcept before anything is written.
func (s *Service) ChangeConcept(ctx context.Context, graphID, nodeID, newConcept string) (*ConceptChange, error) {
	node, err := s.stores.Nodes.Get(ctx, nodeID)
	if err != nil {
		return nil, fmt.Errorf("load node %s: %w", nodeID, err)
	}
	if node.ModelID != graphID {
		return nil, fmt.Errorf("node %s does not belong to graph %s: %w", nodeID, graphID, store.ErrNotFound)
	}
	oldConcept := node.Concept
	if oldConcept == newConcept {
		return &ConceptChange{OldConcept: oldConcept, NewConcept: newConcept}, nil
	}

	nodes, err := s.stores.Nodes.FindByModel(ctx, graphID)
	if err != nil {
		return nil, fmt.Errorf("load nodes of %s: %w", graphID, err)
	}
	for _, other := range nodes {
		if other.ID != node.ID && other.Concept == newConcept {
			return nil, fmt.Errorf("rename %q to %q: %w", oldConcept, newConcept, ErrDuplicateConcept)
		}
	}

	edges, err := s.stores.Edges.FindByModel(ctx, graphID)
	if err != nil {
		return nil, fmt.Errorf("load edges of %s: %w", graphID, err)
	}
	scenarios, err := s.stores.Scenarios.FindByModel(ctx, graphID)
	if err != nil {
		return nil, fmt.Errorf("load scenarios of %s: %w", graphID, err)
	}

	now := time.Now().UTC()

	changedEdges := make([]common.Edge, 0)
	for _, e := range edges {
		touched := false
		if e.Source == oldConcept {
			e.Source = newConcept
			touched = true
		}
		if e.Target == oldConcept {
			e.Target = newConcept
			touched = true
		}
		if touched {
			e.ModifiedAt = now
			changedEdges = append(changedEdges, e)
		}
	}

	changedScenarios := make([]common.Scenario, 0)
	for _, sc := range scenarios {
		touched := false
		for i := range sc.Parameter.Constraints {
			if sc.Parameter.Constraints[i].Concept == oldConcept {
				sc.Parameter.Constraints[i].Concept = newConcept
				touched = true
			}
		}
		if touched {
			sc.ModifiedAt = now
			changedScenarios = append(changedScenarios, sc)
		}
	}

	node.Concept = newConcept
	node.Label = newConcept
	node.ModifiedAt = now
	if err := s.stores.Nodes.Update(ctx, []common.Node{*node}).FirstError(); err != nil {
		return nil, fmt.Errorf("write node %s: %w", nodeID, err)
	}
	if len(changedEdges) > 0 {
		if err := s.stores.Edges.Update(ctx, changedEdges).FirstError(); err != nil {
			return nil, fmt.Errorf("write edges of %s: %w", graphID, err)
		}
	}
	if len(changedScenarios) > 0 {
		if err := s.stores.Scenarios.Update(ctx, changedScenarios).FirstError(); err != nil {
			return nil, fmt.Errorf("write scenarios of %s: %w", graphID, err)
		}
	}

	logger.Info("[CAG] Renamed concept",
		"model_id", graphID,
		"node_id", nodeID,
		"edges", len(changedEdges),
		"scenarios", len(changedScenarios),
	)
	return &ConceptChange{OldConcept: oldConcept, NewConcept: newConcept}, nil
}
