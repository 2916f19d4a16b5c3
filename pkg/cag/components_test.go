package cag

import (
	"context"
	"testing"

	"github.com/strata-analytics/causeway/backend/pkg/common"
)

func TestSaveComponents_SplitsCreateAndUpdate(t *testing.T) {
	svc, mem := newTestService(t)
	seedGraph(t, mem, testGraph("m1"))
	seedNode(t, mem, testNode("n1", "m1", "rainfall"))

	existing := testNode("n1", "m1", "rainfall")
	existing.Label = "Rainfall (seasonal)"
	fresh := testNode("", "", "crop_yield")
	fresh.ID = ""

	err := svc.SaveComponents(context.Background(), "m1", ComponentBatch{
		Nodes: []common.Node{existing, fresh},
		Edges: []common.Edge{{Source: "rainfall", Target: "crop_yield"}},
	})
	if err != nil {
		t.Fatalf("SaveComponents: %v", err)
	}

	ctx := context.Background()
	nodes, err := mem.Stores().Nodes.FindByModel(ctx, "m1")
	if err != nil {
		t.Fatalf("find nodes: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("node count = %d, want 2", len(nodes))
	}
	for _, n := range nodes {
		if n.ID == "" {
			t.Fatal("created node was not assigned an id")
		}
		if n.ModifiedAt.IsZero() {
			t.Fatal("node was not stamped")
		}
	}

	updated, err := mem.Stores().Nodes.Get(ctx, "n1")
	if err != nil {
		t.Fatalf("get node: %v", err)
	}
	if updated.Label != "Rainfall (seasonal)" {
		t.Fatalf("label = %q, update batch did not land", updated.Label)
	}

	edges, err := mem.Stores().Edges.FindByModel(ctx, "m1")
	if err != nil {
		t.Fatalf("find edges: %v", err)
	}
	if len(edges) != 1 || edges[0].ID == "" || edges[0].ModelID != "m1" {
		t.Fatalf("edges = %+v", edges)
	}
}

func TestSaveComponents_UpdateOfMissingRecordFails(t *testing.T) {
	svc, mem := newTestService(t)
	seedGraph(t, mem, testGraph("m1"))

	ghost := testNode("does-not-exist", "m1", "rainfall")
	err := svc.SaveComponents(context.Background(), "m1", ComponentBatch{
		Nodes: []common.Node{ghost},
	})
	if err == nil {
		t.Fatal("expected a bulk failure naming the missing record")
	}
}

func TestSaveComponents_Groups(t *testing.T) {
	svc, mem := newTestService(t)
	seedGraph(t, mem, testGraph("m1"))

	err := svc.SaveComponents(context.Background(), "m1", ComponentBatch{
		Groups: []common.Group{{Name: "climate drivers", Children: []string{"n1", "n2"}}},
	})
	if err != nil {
		t.Fatalf("SaveComponents: %v", err)
	}
	groups, err := mem.Stores().Groups.FindByModel(context.Background(), "m1")
	if err != nil {
		t.Fatalf("find groups: %v", err)
	}
	if len(groups) != 1 || groups[0].ID == "" {
		t.Fatalf("groups = %+v", groups)
	}
}
