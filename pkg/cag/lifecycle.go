package cag

import (
	"context"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/logger"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

const (
	defaultEngine   = "dyse"
	defaultNumSteps = 12
)

// CreateGraphParams carries the caller-supplied fields of a new graph.
// Zero-valued parameter fields fall back to the service defaults.
type CreateGraphParams struct {
	ProjectID string
	Name      string
	Parameter common.ModelParameter
}

// CreateGraph allocates a graph with default parameters merged with the
// caller-supplied ones, then upserts the supplied initial nodes and edges
// through the bulk component path.
func (s *Service) CreateGraph(ctx context.Context, params CreateGraphParams, nodes []common.Node, edges []common.Edge) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("assign graph id: %w", err)
	}

	p := params.Parameter
	if p.Engine == "" {
		p.Engine = defaultEngine
	}
	if p.NumSteps <= 0 {
		p.NumSteps = defaultNumSteps
	}
	if p.ProjectionStart == 0 {
		p.ProjectionStart = time.Now().UTC().UnixMilli()
	}

	now := time.Now().UTC()
	g := common.Graph{
		ID:           id,
		ProjectID:    params.ProjectID,
		Name:         params.Name,
		Status:       common.StatusNotRegistered,
		EngineStatus: common.StatusNotRegistered,
		Parameter:    p,
		CreatedAt:    now,
		ModifiedAt:   now,
	}
	if err := s.stores.Graphs.Insert(ctx, []common.Graph{g}).FirstError(); err != nil {
		return "", fmt.Errorf("insert graph: %w", err)
	}

	if len(nodes) > 0 || len(edges) > 0 {
		if err := s.SaveComponents(ctx, id, ComponentBatch{Nodes: nodes, Edges: edges}); err != nil {
			return "", fmt.Errorf("save initial components of %s: %w", id, err)
		}
	}

	logger.Info("[CAG] Created graph", "model_id", id, "project_id", params.ProjectID, "nodes", len(nodes), "edges", len(edges))
	return id, nil
}

// DeleteGraph removes the graph document, then sequentially removes every
// dependent resource keyed by the graph id. Each cleanup step is
// independent and best-effort: the delete counts as successful once the
// root document is gone, and a step that failed is only logged so a later
// sweep can catch up.
func (s *Service) DeleteGraph(ctx context.Context, graphID string) (bool, error) {
	g, err := s.stores.Graphs.Get(ctx, graphID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load graph %s: %w", graphID, err)
	}

	deleted, err := s.stores.Graphs.Remove(ctx, graphID)
	if err != nil {
		return false, fmt.Errorf("remove graph %s: %w", graphID, err)
	}
	if deleted == 0 {
		return false, nil
	}
	s.invalidateProject(g.ProjectID)

	cleanups := []struct {
		kind   string
		remove func(context.Context, string) (int64, error)
	}{
		{"nodes", s.stores.Nodes.RemoveByModel},
		{"edges", s.stores.Edges.RemoveByModel},
		{"groups", s.stores.Groups.RemoveByModel},
		{"scenarios", s.stores.Scenarios.RemoveByModel},
		{"scenario_results", s.stores.ScenarioResults.RemoveByModel},
		{"sensitivity_results", s.stores.SensitivityResults.RemoveByModel},
	}
	for _, c := range cleanups {
		n, err := c.remove(ctx, graphID)
		if err != nil {
			logger.Error("[CAG] Dependent cleanup failed", "model_id", graphID, "kind", c.kind, "err", err)
			continue
		}
		logger.Debug("[CAG] Removed dependents", "model_id", graphID, "kind", c.kind, "count", n)
	}

	logger.Info("[CAG] Deleted graph", "model_id", graphID)
	return true, nil
}
