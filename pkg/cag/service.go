// Package cag implements the reconciliation engine for causal analysis
// graphs: it keeps each graph's derived edge state (backing statements,
// polarity, belief, ambiguity) converged with a continuously edited
// corpus of machine-extracted statements.
package cag

import (
	"context"
	"errors"
	"fmt"

	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

// ErrDuplicateConcept is returned by ChangeConcept when the new concept is
// already used by another node of the same graph.
var ErrDuplicateConcept = errors.New("cag: concept already exists in graph")

const defaultMaxParallel = 15

// Service exposes the engine operations. It holds no mutable state of its
// own besides the injected stale-graph cache, so concurrent calls for
// different graphs are independent. It takes no locks: rerunning
// Recalculate is always safe, and callers that want mutual exclusion per
// graph hold a lease around the call.
type Service struct {
	stores      store.Stores
	cache       *StaleGraphCache
	maxParallel int
}

// Option configures a Service.
type Option func(*Service)

// WithStaleGraphCache injects the read-through cache used by
// ListStaleGraphs.
func WithStaleGraphCache(c *StaleGraphCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithMaxParallel caps the number of concurrent per-edge statement
// queries during recalculation.
func WithMaxParallel(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxParallel = n
		}
	}
}

// NewService wires the engine against a repository bundle.
func NewService(stores store.Stores, opts ...Option) *Service {
	s := &Service{
		stores:      stores,
		maxParallel: defaultMaxParallel,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Components is a graph together with its nodes and derived-field edges,
// the shape the rest of the application renders from.
type Components struct {
	Graph common.Graph  `json:"graph"`
	Nodes []common.Node `json:"nodes"`
	Edges []common.Edge `json:"edges"`
}

// GetGraph loads the graph root document without its components.
func (s *Service) GetGraph(ctx context.Context, graphID string) (*common.Graph, error) {
	return s.stores.Graphs.Get(ctx, graphID)
}

// GetComponents loads a graph with all of its nodes and edges.
func (s *Service) GetComponents(ctx context.Context, graphID string) (*Components, error) {
	g, err := s.stores.Graphs.Get(ctx, graphID)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", graphID, err)
	}
	nodes, err := s.stores.Nodes.FindByModel(ctx, graphID)
	if err != nil {
		return nil, fmt.Errorf("load nodes of %s: %w", graphID, err)
	}
	edges, err := s.stores.Edges.FindByModel(ctx, graphID)
	if err != nil {
		return nil, fmt.Errorf("load edges of %s: %w", graphID, err)
	}
	return &Components{Graph: *g, Nodes: nodes, Edges: edges}, nil
}

// ListStaleGraphs returns the ids of a project's graphs currently flagged
// stale, read through the injected cache when one is configured.
func (s *Service) ListStaleGraphs(ctx context.Context, projectID string) ([]string, error) {
	if s.cache != nil {
		if ids, ok := s.cache.Get(projectID); ok {
			return ids, nil
		}
	}
	graphs, err := s.stores.Graphs.FindByProject(ctx, projectID, store.FindOptions{})
	if err != nil {
		return nil, fmt.Errorf("list graphs of project %s: %w", projectID, err)
	}
	ids := make([]string, 0)
	for _, g := range graphs {
		if g.IsStale {
			ids = append(ids, g.ID)
		}
	}
	if s.cache != nil {
		s.cache.Put(projectID, ids)
	}
	return ids, nil
}

func (s *Service) invalidateProject(projectID string) {
	if s.cache != nil {
		s.cache.Invalidate(projectID)
	}
}
