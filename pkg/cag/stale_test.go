package cag

import (
	"context"
	"reflect"
	"testing"

	"github.com/strata-analytics/causeway/backend/pkg/common"
)

func TestCheckStaleGraphs_FlagsReferencingGraphs(t *testing.T) {
	svc, mem := newTestService(t)
	seedGraph(t, mem, testGraph("m1"))
	seedGraph(t, mem, testGraph("m2"))
	seedEdge(t, mem, common.Edge{ID: "e1", ModelID: "m1", Source: "a", Target: "b", ReferenceIDs: []string{"s1", "s2"}})
	seedEdge(t, mem, common.Edge{ID: "e2", ModelID: "m2", Source: "a", Target: "b", ReferenceIDs: []string{"s3"}})

	got, err := svc.CheckStaleGraphs(context.Background(), "project-1", []string{"s2"})
	if err != nil {
		t.Fatalf("CheckStaleGraphs: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"m1"}) {
		t.Fatalf("stale ids = %v, want [m1]", got)
	}
	if g := getGraph(t, mem, "m1"); !g.IsStale {
		t.Fatal("m1 should be stale")
	}
	if g := getGraph(t, mem, "m2"); g.IsStale {
		t.Fatal("m2 should not be stale")
	}
}

func TestCheckStaleGraphs_StaleAbsorbsStaleness(t *testing.T) {
	svc, mem := newTestService(t)
	g := testGraph("m1")
	g.IsStale = true
	seedGraph(t, mem, g)
	seedEdge(t, mem, common.Edge{ID: "e1", ModelID: "m1", Source: "a", Target: "b", ReferenceIDs: []string{"s1"}})

	got, err := svc.CheckStaleGraphs(context.Background(), "project-1", []string{"s1"})
	if err != nil {
		t.Fatalf("CheckStaleGraphs: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("already-stale graph was re-flagged: %v", got)
	}
}

func TestCheckStaleGraphs_NoIntersection(t *testing.T) {
	svc, mem := newTestService(t)
	seedGraph(t, mem, testGraph("m1"))
	seedEdge(t, mem, common.Edge{ID: "e1", ModelID: "m1", Source: "a", Target: "b", ReferenceIDs: []string{"s1"}})

	got, err := svc.CheckStaleGraphs(context.Background(), "project-1", []string{"s9"})
	if err != nil {
		t.Fatalf("CheckStaleGraphs: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("stale ids = %v, want none", got)
	}
	if g := getGraph(t, mem, "m1"); g.IsStale {
		t.Fatal("m1 should not be stale")
	}
}

func TestCheckStaleGraphs_EmptyBatch(t *testing.T) {
	svc, mem := newTestService(t)
	seedGraph(t, mem, testGraph("m1"))

	got, err := svc.CheckStaleGraphs(context.Background(), "project-1", nil)
	if err != nil {
		t.Fatalf("CheckStaleGraphs: %v", err)
	}
	if got != nil {
		t.Fatalf("stale ids = %v, want nil", got)
	}
}

func TestListStaleGraphs_CacheRoundTrip(t *testing.T) {
	cache := NewStaleGraphCache(4)
	defer cache.Close()
	svc, mem := newTestService(t, WithStaleGraphCache(cache))
	seedGraph(t, mem, testGraph("m1"))
	seedGraph(t, mem, testGraph("m2"))
	seedEdge(t, mem, common.Edge{ID: "e1", ModelID: "m2", Source: "a", Target: "b", ReferenceIDs: []string{"s1"}})

	ids, err := svc.ListStaleGraphs(context.Background(), "project-1")
	if err != nil {
		t.Fatalf("ListStaleGraphs: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("stale ids = %v, want none", ids)
	}

	// Flagging must invalidate the cached empty answer.
	if _, err := svc.CheckStaleGraphs(context.Background(), "project-1", []string{"s1"}); err != nil {
		t.Fatalf("CheckStaleGraphs: %v", err)
	}
	ids, err = svc.ListStaleGraphs(context.Background(), "project-1")
	if err != nil {
		t.Fatalf("ListStaleGraphs: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"m2"}) {
		t.Fatalf("stale ids = %v, want [m2]", ids)
	}
}
