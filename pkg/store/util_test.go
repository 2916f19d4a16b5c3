package store

import (
	"errors"
	"reflect"
	"testing"
)

func TestChunkRange(t *testing.T) {
	var got [][2]int
	err := ChunkRange(10, 4, func(start, end int) error {
		got = append(got, [2]int{start, end})
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][2]int{{0, 4}, {4, 8}, {8, 10}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected chunks %v, got %v", want, got)
	}
}

func TestChunkRange_EmptyAndWholeRange(t *testing.T) {
	calls := 0
	if err := ChunkRange(0, 4, func(start, end int) error {
		calls++
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no calls for empty range, got %d", calls)
	}

	if err := ChunkRange(5, 0, func(start, end int) error {
		calls++
		if start != 0 || end != 5 {
			t.Fatalf("expected single chunk [0,5), got [%d,%d)", start, end)
		}
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one chunk for chunkSize<=0, got %d", calls)
	}
}

func TestChunkRange_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := ChunkRange(10, 2, func(start, end int) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected walk to stop after failing chunk, got %d calls", calls)
	}
}

func TestDedupeStrings(t *testing.T) {
	got := DedupeStrings([]string{"a", "", "b", "a", "c", "b"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if DedupeStrings(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestIntersectStrings(t *testing.T) {
	got := IntersectStrings([]string{"s1", "s2", "s3", "s4"}, []string{"s4", "s2"})
	want := []string{"s2", "s4"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if IntersectStrings([]string{"a"}, nil) != nil {
		t.Fatal("expected nil when either side is empty")
	}
}
