package cag

import (
	"context"
	"errors"
	"testing"

	"github.com/strata-analytics/causeway/backend/pkg/common"
)

func TestChangeConcept_Cascade(t *testing.T) {
	svc, mem := newTestService(t)
	seedGraph(t, mem, testGraph("m1"))
	seedNode(t, mem, testNode("n1", "m1", "conflict"))
	seedNode(t, mem, testNode("n2", "m1", "migration"))
	seedEdge(t, mem, common.Edge{ID: "e1", ModelID: "m1", Source: "conflict", Target: "migration"})
	seedEdge(t, mem, common.Edge{ID: "e2", ModelID: "m1", Source: "migration", Target: "conflict"})
	seedEdge(t, mem, common.Edge{ID: "e3", ModelID: "m1", Source: "migration", Target: "migration"})
	seedScenario(t, mem, common.Scenario{
		ID:      "sc1",
		ModelID: "m1",
		Parameter: common.ScenarioParameter{
			Constraints: []common.Constraint{
				{Concept: "conflict", Values: []common.ConstraintValue{{Step: 0, Value: 0.5}}},
				{Concept: "migration", Values: []common.ConstraintValue{{Step: 1, Value: 0.1}}},
			},
		},
	})

	change, err := svc.ChangeConcept(context.Background(), "m1", "n1", "armed_conflict")
	if err != nil {
		t.Fatalf("ChangeConcept: %v", err)
	}
	if change.OldConcept != "conflict" || change.NewConcept != "armed_conflict" {
		t.Fatalf("change = %+v", change)
	}

	ctx := context.Background()
	node, err := mem.Stores().Nodes.Get(ctx, "n1")
	if err != nil {
		t.Fatalf("get node: %v", err)
	}
	if node.Concept != "armed_conflict" || node.Label != "armed_conflict" {
		t.Fatalf("node = %+v", node)
	}

	edges, err := mem.Stores().Edges.FindByModel(ctx, "m1")
	if err != nil {
		t.Fatalf("find edges: %v", err)
	}
	oldRefs, newRefs := 0, 0
	for _, e := range edges {
		if e.Source == "conflict" || e.Target == "conflict" {
			oldRefs++
		}
		if e.Source == "armed_conflict" {
			newRefs++
		}
		if e.Target == "armed_conflict" {
			newRefs++
		}
	}
	if oldRefs != 0 {
		t.Fatalf("%d edge endpoints still reference the old concept", oldRefs)
	}
	if newRefs != 2 {
		t.Fatalf("new concept endpoint count = %d, want 2", newRefs)
	}

	scenarios, err := mem.Stores().Scenarios.FindByModel(ctx, "m1")
	if err != nil {
		t.Fatalf("find scenarios: %v", err)
	}
	for _, sc := range scenarios {
		for _, c := range sc.Parameter.Constraints {
			if c.Concept == "conflict" {
				t.Fatal("scenario constraint still references the old concept")
			}
		}
	}
	if scenarios[0].Parameter.Constraints[0].Concept != "armed_conflict" {
		t.Fatalf("constraint = %+v", scenarios[0].Parameter.Constraints[0])
	}
	// unrelated constraint untouched
	if scenarios[0].Parameter.Constraints[1].Concept != "migration" {
		t.Fatalf("unrelated constraint changed: %+v", scenarios[0].Parameter.Constraints[1])
	}
}

func TestChangeConcept_DuplicateRejected(t *testing.T) {
	svc, mem := newTestService(t)
	seedGraph(t, mem, testGraph("m1"))
	seedNode(t, mem, testNode("n1", "m1", "conflict"))
	seedNode(t, mem, testNode("n2", "m1", "migration"))

	_, err := svc.ChangeConcept(context.Background(), "m1", "n1", "migration")
	if !errors.Is(err, ErrDuplicateConcept) {
		t.Fatalf("err = %v, want ErrDuplicateConcept", err)
	}
	node, err := mem.Stores().Nodes.Get(context.Background(), "n1")
	if err != nil {
		t.Fatalf("get node: %v", err)
	}
	if node.Concept != "conflict" {
		t.Fatal("rejected rename must not write the node")
	}
}

func TestChangeConcept_NoopWhenUnchanged(t *testing.T) {
	svc, mem := newTestService(t)
	seedGraph(t, mem, testGraph("m1"))
	seedNode(t, mem, testNode("n1", "m1", "conflict"))

	change, err := svc.ChangeConcept(context.Background(), "m1", "n1", "conflict")
	if err != nil {
		t.Fatalf("ChangeConcept: %v", err)
	}
	if change.OldConcept != "conflict" || change.NewConcept != "conflict" {
		t.Fatalf("change = %+v", change)
	}
}

func TestChangeConcept_WrongGraph(t *testing.T) {
	svc, mem := newTestService(t)
	seedGraph(t, mem, testGraph("m1"))
	seedNode(t, mem, testNode("n1", "m1", "conflict"))

	if _, err := svc.ChangeConcept(context.Background(), "other", "n1", "x"); err == nil {
		t.Fatal("expected error for node outside the graph")
	}
}
