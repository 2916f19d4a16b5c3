package cag

import (
	"context"
	"testing"
	"time"

	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/store/memory"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *memory.Store) {
	t.Helper()
	mem := memory.New()
	return NewService(mem.Stores(), opts...), mem
}

func seedGraph(t *testing.T, mem *memory.Store, g common.Graph) {
	t.Helper()
	if res := mem.Stores().Graphs.Insert(context.Background(), []common.Graph{g}); res.Failed() {
		t.Fatalf("seed graph: %v", res.FirstError())
	}
}

func seedNode(t *testing.T, mem *memory.Store, n common.Node) {
	t.Helper()
	if res := mem.Stores().Nodes.Insert(context.Background(), []common.Node{n}); res.Failed() {
		t.Fatalf("seed node: %v", res.FirstError())
	}
}

func seedEdge(t *testing.T, mem *memory.Store, e common.Edge) {
	t.Helper()
	if res := mem.Stores().Edges.Insert(context.Background(), []common.Edge{e}); res.Failed() {
		t.Fatalf("seed edge: %v", res.FirstError())
	}
}

func seedScenario(t *testing.T, mem *memory.Store, sc common.Scenario) {
	t.Helper()
	if res := mem.Stores().Scenarios.Insert(context.Background(), []common.Scenario{sc}); res.Failed() {
		t.Fatalf("seed scenario: %v", res.FirstError())
	}
}

// statement builds a corpus statement whose subject and object are
// grounded to single-component concepts, with the given side polarities.
func statement(id, subjConcept, objConcept string, subjPol, objPol common.Polarity, belief float64) common.Statement {
	return common.Statement{
		ID:        id,
		ProjectID: "project-1",
		Subject: common.Factor{
			Concept:  subjConcept,
			Polarity: subjPol,
			Candidates: []common.Candidate{
				{Concept: subjConcept, Score: 1},
			},
		},
		Object: common.Factor{
			Concept:  objConcept,
			Polarity: objPol,
			Candidates: []common.Candidate{
				{Concept: objConcept, Score: 1},
			},
		},
		BeliefScore: belief,
	}
}

func testGraph(id string) common.Graph {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return common.Graph{
		ID:           id,
		ProjectID:    "project-1",
		Name:         "test graph",
		Status:       common.StatusNotRegistered,
		EngineStatus: common.StatusNotRegistered,
		Parameter: common.ModelParameter{
			Engine:   "dyse",
			NumSteps: 12,
		},
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

func testNode(id, modelID, concept string, components ...string) common.Node {
	if len(components) == 0 {
		components = []string{concept}
	}
	return common.Node{
		ID:         id,
		ModelID:    modelID,
		Concept:    concept,
		Label:      concept,
		Components: components,
	}
}

func getEdge(t *testing.T, mem *memory.Store, id string) common.Edge {
	t.Helper()
	e, err := mem.Stores().Edges.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get edge %s: %v", id, err)
	}
	return *e
}

func getGraph(t *testing.T, mem *memory.Store, id string) common.Graph {
	t.Helper()
	g, err := mem.Stores().Graphs.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get graph %s: %v", id, err)
	}
	return *g
}
