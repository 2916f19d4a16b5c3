// Package memory holds map-backed implementations of the repository
// interfaces in pkg/store. The engine tests run against it; it is also
// handy for local development without Postgres.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

// Store bundles in-memory repositories sharing one mutex.
type Store struct {
	mu sync.RWMutex

	graphs             map[string]common.Graph
	nodes              map[string]common.Node
	edges              map[string]common.Edge
	scenarios          map[string]common.Scenario
	groups             map[string]common.Group
	scenarioResults    map[string]common.ScenarioResult
	sensitivityResults map[string]common.SensitivityResult
	statements         map[string]common.Statement
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		graphs:             make(map[string]common.Graph),
		nodes:              make(map[string]common.Node),
		edges:              make(map[string]common.Edge),
		scenarios:          make(map[string]common.Scenario),
		groups:             make(map[string]common.Group),
		scenarioResults:    make(map[string]common.ScenarioResult),
		sensitivityResults: make(map[string]common.SensitivityResult),
		statements:         make(map[string]common.Statement),
	}
}

// Stores returns the repository bundle backed by this store.
func (s *Store) Stores() store.Stores {
	return store.Stores{
		Graphs:             &graphRepo{s},
		Nodes:              &nodeRepo{s},
		Edges:              &edgeRepo{s},
		Scenarios:          &scenarioRepo{s},
		Groups:             &groupRepo{s},
		ScenarioResults:    &scenarioResultRepo{s},
		SensitivityResults: &sensitivityResultRepo{s},
		Statements:         &statementRepo{s},
	}
}

// SeedStatement inserts or replaces a corpus statement. The real corpus is
// owned by the extraction pipeline; tests seed it directly.
func (s *Store) SeedStatement(st common.Statement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statements[st.ID] = st
}

// RemoveStatement deletes a statement, simulating a corpus discard that
// fully removed the document.
func (s *Store) RemoveStatement(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.statements, id)
}

// SeedScenarioResult and SeedSensitivityResult stand in for the projection
// engine's writes in tests.
func (s *Store) SeedScenarioResult(r common.ScenarioResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenarioResults[r.ID] = r
}

func (s *Store) SeedSensitivityResult(r common.SensitivityResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sensitivityResults[r.ID] = r
}

// Counts returns how many records of each dependent kind remain for a
// model. Tests use it to verify cascade deletes.
func (s *Store) Counts(modelID string) (nodes, edges, scenarios, groups, scenarioResults, sensitivityResults int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.nodes {
		if n.ModelID == modelID {
			nodes++
		}
	}
	for _, e := range s.edges {
		if e.ModelID == modelID {
			edges++
		}
	}
	for _, sc := range s.scenarios {
		if sc.ModelID == modelID {
			scenarios++
		}
	}
	for _, g := range s.groups {
		if g.ModelID == modelID {
			groups++
		}
	}
	for _, r := range s.scenarioResults {
		if r.ModelID == modelID {
			scenarioResults++
		}
	}
	for _, r := range s.sensitivityResults {
		if r.ModelID == modelID {
			sensitivityResults++
		}
	}
	return
}

type graphRepo struct{ s *Store }

func (r *graphRepo) Get(ctx context.Context, id string) (*common.Graph, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.graphs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &g, nil
}

func (r *graphRepo) FindByProject(ctx context.Context, projectID string, opts store.FindOptions) ([]common.Graph, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]common.Graph, 0)
	for _, g := range r.s.graphs {
		if g.ProjectID == projectID {
			out = append(out, g)
		}
	}
	slices.SortFunc(out, func(a, b common.Graph) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out, nil
}

func (r *graphRepo) Insert(ctx context.Context, graphs []common.Graph) store.BulkResult {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, g := range graphs {
		if g.ID == "" {
			return store.BulkResult{Errors: []store.ItemError{{ID: "", Reason: "missing id"}}}
		}
		r.s.graphs[g.ID] = g
	}
	return store.BulkResult{Items: len(graphs)}
}

func (r *graphRepo) Update(ctx context.Context, graphs []common.Graph) store.BulkResult {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var errs []store.ItemError
	n := 0
	for _, g := range graphs {
		if _, ok := r.s.graphs[g.ID]; !ok {
			errs = append(errs, store.ItemError{ID: g.ID, Reason: "not found"})
			continue
		}
		r.s.graphs[g.ID] = g
		n++
	}
	return store.BulkResult{Errors: errs, Items: n}
}

func (r *graphRepo) SetStale(ctx context.Context, ids []string, stale bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		g, ok := r.s.graphs[id]
		if !ok {
			continue
		}
		g.IsStale = stale
		r.s.graphs[id] = g
	}
	return nil
}

func (r *graphRepo) Remove(ctx context.Context, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.graphs[id]; !ok {
		return 0, nil
	}
	delete(r.s.graphs, id)
	return 1, nil
}

type nodeRepo struct{ s *Store }

func (r *nodeRepo) Get(ctx context.Context, id string) (*common.Node, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n, ok := r.s.nodes[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &n, nil
}

func (r *nodeRepo) FindByModel(ctx context.Context, modelID string) ([]common.Node, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]common.Node, 0)
	for _, n := range r.s.nodes {
		if n.ModelID == modelID {
			out = append(out, n)
		}
	}
	sortByID(out, func(n common.Node) string { return n.ID })
	return out, nil
}

func (r *nodeRepo) Insert(ctx context.Context, nodes []common.Node) store.BulkResult {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range nodes {
		if n.ID == "" {
			return store.BulkResult{Errors: []store.ItemError{{ID: "", Reason: "missing id"}}}
		}
		r.s.nodes[n.ID] = n
	}
	return store.BulkResult{Items: len(nodes)}
}

func (r *nodeRepo) Update(ctx context.Context, nodes []common.Node) store.BulkResult {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var errs []store.ItemError
	n := 0
	for _, nd := range nodes {
		if _, ok := r.s.nodes[nd.ID]; !ok {
			errs = append(errs, store.ItemError{ID: nd.ID, Reason: "not found"})
			continue
		}
		r.s.nodes[nd.ID] = nd
		n++
	}
	return store.BulkResult{Errors: errs, Items: n}
}

func (r *nodeRepo) RemoveByModel(ctx context.Context, modelID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var deleted int64
	for id, n := range r.s.nodes {
		if n.ModelID == modelID {
			delete(r.s.nodes, id)
			deleted++
		}
	}
	return deleted, nil
}

type edgeRepo struct{ s *Store }

func (r *edgeRepo) Get(ctx context.Context, id string) (*common.Edge, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.edges[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &e, nil
}

func (r *edgeRepo) FindByModel(ctx context.Context, modelID string) ([]common.Edge, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]common.Edge, 0)
	for _, e := range r.s.edges {
		if e.ModelID == modelID {
			out = append(out, e)
		}
	}
	sortByID(out, func(e common.Edge) string { return e.ID })
	return out, nil
}

func (r *edgeRepo) ModelsReferencing(ctx context.Context, candidateModelIDs []string, statementIDs []string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	candidates := make(map[string]struct{}, len(candidateModelIDs))
	for _, id := range candidateModelIDs {
		candidates[id] = struct{}{}
	}
	touched := make(map[string]struct{}, len(statementIDs))
	for _, id := range statementIDs {
		touched[id] = struct{}{}
	}
	hit := make(map[string]struct{})
	for _, e := range r.s.edges {
		if _, ok := candidates[e.ModelID]; !ok {
			continue
		}
		for _, ref := range e.ReferenceIDs {
			if _, ok := touched[ref]; ok {
				hit[e.ModelID] = struct{}{}
				break
			}
		}
	}
	out := make([]string, 0, len(hit))
	for id := range hit {
		out = append(out, id)
	}
	slices.Sort(out)
	return out, nil
}

func (r *edgeRepo) Insert(ctx context.Context, edges []common.Edge) store.BulkResult {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range edges {
		if e.ID == "" {
			return store.BulkResult{Errors: []store.ItemError{{ID: "", Reason: "missing id"}}}
		}
		r.s.edges[e.ID] = e
	}
	return store.BulkResult{Items: len(edges)}
}

func (r *edgeRepo) Update(ctx context.Context, edges []common.Edge) store.BulkResult {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var errs []store.ItemError
	n := 0
	for _, e := range edges {
		if _, ok := r.s.edges[e.ID]; !ok {
			errs = append(errs, store.ItemError{ID: e.ID, Reason: "not found"})
			continue
		}
		r.s.edges[e.ID] = e
		n++
	}
	return store.BulkResult{Errors: errs, Items: n}
}

func (r *edgeRepo) RemoveByModel(ctx context.Context, modelID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var deleted int64
	for id, e := range r.s.edges {
		if e.ModelID == modelID {
			delete(r.s.edges, id)
			deleted++
		}
	}
	return deleted, nil
}

type scenarioRepo struct{ s *Store }

func (r *scenarioRepo) FindByModel(ctx context.Context, modelID string) ([]common.Scenario, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]common.Scenario, 0)
	for _, sc := range r.s.scenarios {
		if sc.ModelID == modelID {
			out = append(out, sc)
		}
	}
	sortByID(out, func(sc common.Scenario) string { return sc.ID })
	return out, nil
}

func (r *scenarioRepo) Insert(ctx context.Context, scenarios []common.Scenario) store.BulkResult {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sc := range scenarios {
		if sc.ID == "" {
			return store.BulkResult{Errors: []store.ItemError{{ID: "", Reason: "missing id"}}}
		}
		r.s.scenarios[sc.ID] = sc
	}
	return store.BulkResult{Items: len(scenarios)}
}

func (r *scenarioRepo) Update(ctx context.Context, scenarios []common.Scenario) store.BulkResult {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var errs []store.ItemError
	n := 0
	for _, sc := range scenarios {
		if _, ok := r.s.scenarios[sc.ID]; !ok {
			errs = append(errs, store.ItemError{ID: sc.ID, Reason: "not found"})
			continue
		}
		r.s.scenarios[sc.ID] = sc
		n++
	}
	return store.BulkResult{Errors: errs, Items: n}
}

func (r *scenarioRepo) RemoveByModel(ctx context.Context, modelID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var deleted int64
	for id, sc := range r.s.scenarios {
		if sc.ModelID == modelID {
			delete(r.s.scenarios, id)
			deleted++
		}
	}
	return deleted, nil
}

type groupRepo struct{ s *Store }

func (r *groupRepo) FindByModel(ctx context.Context, modelID string) ([]common.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]common.Group, 0)
	for _, g := range r.s.groups {
		if g.ModelID == modelID {
			out = append(out, g)
		}
	}
	sortByID(out, func(g common.Group) string { return g.ID })
	return out, nil
}

func (r *groupRepo) Insert(ctx context.Context, groups []common.Group) store.BulkResult {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, g := range groups {
		if g.ID == "" {
			return store.BulkResult{Errors: []store.ItemError{{ID: "", Reason: "missing id"}}}
		}
		r.s.groups[g.ID] = g
	}
	return store.BulkResult{Items: len(groups)}
}

func (r *groupRepo) Update(ctx context.Context, groups []common.Group) store.BulkResult {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var errs []store.ItemError
	n := 0
	for _, g := range groups {
		if _, ok := r.s.groups[g.ID]; !ok {
			errs = append(errs, store.ItemError{ID: g.ID, Reason: "not found"})
			continue
		}
		r.s.groups[g.ID] = g
		n++
	}
	return store.BulkResult{Errors: errs, Items: n}
}

func (r *groupRepo) RemoveByModel(ctx context.Context, modelID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var deleted int64
	for id, g := range r.s.groups {
		if g.ModelID == modelID {
			delete(r.s.groups, id)
			deleted++
		}
	}
	return deleted, nil
}

type scenarioResultRepo struct{ s *Store }

func (r *scenarioResultRepo) RemoveByModel(ctx context.Context, modelID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var deleted int64
	for id, res := range r.s.scenarioResults {
		if res.ModelID == modelID {
			delete(r.s.scenarioResults, id)
			deleted++
		}
	}
	return deleted, nil
}

type sensitivityResultRepo struct{ s *Store }

func (r *sensitivityResultRepo) RemoveByModel(ctx context.Context, modelID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var deleted int64
	for id, res := range r.s.sensitivityResults {
		if res.ModelID == modelID {
			delete(r.s.sensitivityResults, id)
			deleted++
		}
	}
	return deleted, nil
}

func sortByID[T any](items []T, id func(T) string) {
	slices.SortFunc(items, func(a, b T) int {
		ai, bi := id(a), id(b)
		if ai < bi {
			return -1
		}
		if ai > bi {
			return 1
		}
		return 0
	})
}
