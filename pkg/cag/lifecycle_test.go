package cag

import (
	"context"
	"testing"

	"github.com/strata-analytics/causeway/backend/pkg/common"
)

func TestCreateGraph_DefaultsAndComponents(t *testing.T) {
	svc, mem := newTestService(t)

	nodes := []common.Node{
		testNode("", "", "rainfall"),
		testNode("", "", "crop_yield"),
	}
	nodes[0].ID = ""
	nodes[1].ID = ""
	edges := []common.Edge{
		{Source: "rainfall", Target: "crop_yield"},
	}

	id, err := svc.CreateGraph(context.Background(), CreateGraphParams{
		ProjectID: "project-1",
		Name:      "yield model",
		Parameter: common.ModelParameter{Geography: "ET", TimeScale: "month"},
	}, nodes, edges)
	if err != nil {
		t.Fatalf("CreateGraph: %v", err)
	}
	if id == "" {
		t.Fatal("expected a graph id")
	}

	g := getGraph(t, mem, id)
	if g.Parameter.Engine != "dyse" {
		t.Fatalf("engine = %q, want default dyse", g.Parameter.Engine)
	}
	if g.Parameter.NumSteps != 12 {
		t.Fatalf("num_steps = %d, want default 12", g.Parameter.NumSteps)
	}
	if g.Parameter.Geography != "ET" || g.Parameter.TimeScale != "month" {
		t.Fatalf("caller parameters lost: %+v", g.Parameter)
	}
	if g.Status != common.StatusNotRegistered || g.EngineStatus != common.StatusNotRegistered {
		t.Fatalf("statuses = %s/%s", g.Status, g.EngineStatus)
	}

	comps, err := svc.GetComponents(context.Background(), id)
	if err != nil {
		t.Fatalf("GetComponents: %v", err)
	}
	if len(comps.Nodes) != 2 || len(comps.Edges) != 1 {
		t.Fatalf("components = %d nodes / %d edges, want 2/1", len(comps.Nodes), len(comps.Edges))
	}
	for _, n := range comps.Nodes {
		if n.ID == "" || n.ModelID != id {
			t.Fatalf("node not stamped: %+v", n)
		}
	}
}

func TestDeleteGraph_Cascades(t *testing.T) {
	svc, mem := newTestService(t)
	seedGraph(t, mem, testGraph("m1"))
	seedNode(t, mem, testNode("n1", "m1", "rainfall"))
	seedEdge(t, mem, common.Edge{ID: "e1", ModelID: "m1", Source: "rainfall", Target: "rainfall"})
	seedScenario(t, mem, common.Scenario{ID: "sc1", ModelID: "m1"})
	if res := mem.Stores().Groups.Insert(context.Background(), []common.Group{{ID: "g1", ModelID: "m1"}}); res.Failed() {
		t.Fatalf("seed group: %v", res.FirstError())
	}
	mem.SeedScenarioResult(common.ScenarioResult{ID: "r1", ModelID: "m1", ScenarioID: "sc1"})
	mem.SeedSensitivityResult(common.SensitivityResult{ID: "sr1", ModelID: "m1"})

	// another graph's data must survive
	seedGraph(t, mem, testGraph("m2"))
	seedNode(t, mem, testNode("n9", "m2", "rainfall"))

	ok, err := svc.DeleteGraph(context.Background(), "m1")
	if err != nil {
		t.Fatalf("DeleteGraph: %v", err)
	}
	if !ok {
		t.Fatal("expected delete to report success")
	}

	nodes, edges, scenarios, groups, scRes, senRes := mem.Counts("m1")
	if nodes+edges+scenarios+groups+scRes+senRes != 0 {
		t.Fatalf("dependents left behind: %d/%d/%d/%d/%d/%d", nodes, edges, scenarios, groups, scRes, senRes)
	}
	if _, err := mem.Stores().Graphs.Get(context.Background(), "m1"); err == nil {
		t.Fatal("graph document should be gone")
	}

	nodes, _, _, _, _, _ = mem.Counts("m2")
	if nodes != 1 {
		t.Fatal("unrelated graph data was deleted")
	}
}

func TestDeleteGraph_Missing(t *testing.T) {
	svc, _ := newTestService(t)
	ok, err := svc.DeleteGraph(context.Background(), "missing")
	if err != nil {
		t.Fatalf("DeleteGraph: %v", err)
	}
	if ok {
		t.Fatal("expected false for a missing graph")
	}
}
