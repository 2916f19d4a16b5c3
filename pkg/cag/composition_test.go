package cag

import (
	"context"
	"testing"

	"github.com/strata-analytics/causeway/backend/pkg/common"
)

func polPtr(p common.Polarity) *common.Polarity {
	return &p
}

func TestCompose_PolarityTieBreak(t *testing.T) {
	tests := []struct {
		name       string
		polarities [][2]common.Polarity // subj, obj pairs
		want       common.Polarity
	}{
		{
			name:       "all same",
			polarities: [][2]common.Polarity{{1, 1}, {-1, -1}},
			want:       common.PolarityPositive,
		},
		{
			name:       "all opposite",
			polarities: [][2]common.Polarity{{1, -1}, {-1, 1}},
			want:       common.PolarityNegative,
		},
		{
			name:       "mixed",
			polarities: [][2]common.Polarity{{1, 1}, {1, -1}},
			want:       common.PolarityUnknown,
		},
		{
			name:       "all unknown",
			polarities: [][2]common.Polarity{{0, 1}, {1, 0}},
			want:       common.PolarityUnknown,
		},
		{
			name:       "same with unknowns",
			polarities: [][2]common.Polarity{{1, 1}, {0, 1}},
			want:       common.PolarityPositive,
		},
		{
			name:       "no evidence",
			polarities: nil,
			want:       common.PolarityUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statements := make([]common.Statement, 0, len(tt.polarities))
			for i, p := range tt.polarities {
				st := statement("s", "a", "b", p[0], p[1], 0.5)
				st.ID = st.ID + string(rune('0'+i))
				statements = append(statements, st)
			}
			got := Compose(statements, nil)
			if got.Polarity != tt.want {
				t.Fatalf("polarity = %d, want %d", got.Polarity, tt.want)
			}
		})
	}
}

func TestCompose_UserPolarityAlwaysWins(t *testing.T) {
	statements := []common.Statement{
		statement("s1", "a", "b", 1, 1, 0.5),
		statement("s2", "a", "b", 1, -1, 0.5),
	}
	got := Compose(statements, polPtr(common.PolarityNegative))
	if got.Polarity != common.PolarityNegative {
		t.Fatalf("polarity = %d, want -1 (user override)", got.Polarity)
	}

	got = Compose(nil, polPtr(common.PolarityPositive))
	if got.Polarity != common.PolarityPositive {
		t.Fatalf("empty edge polarity = %d, want 1 (user override)", got.Polarity)
	}
}

func TestCompose_Counts(t *testing.T) {
	statements := []common.Statement{
		statement("s1", "a", "b", 1, 1, 0.9),
		statement("s2", "a", "b", -1, -1, 0.6),
		statement("s3", "a", "b", 1, -1, 0.3),
		statement("s4", "a", "b", 0, 1, 0.2),
	}
	got := Compose(statements, nil)
	if got.Same != 2 || got.Opposite != 1 || got.Unknown != 1 {
		t.Fatalf("counts = %d/%d/%d, want 2/1/1", got.Same, got.Opposite, got.Unknown)
	}
	want := (0.9 + 0.6 + 0.3 + 0.2) / 4
	if got.BeliefScore != want {
		t.Fatalf("belief = %f, want %f", got.BeliefScore, want)
	}
}

func TestCompose_Empty(t *testing.T) {
	got := Compose(nil, nil)
	if got.Same != 0 || got.Opposite != 0 || got.Unknown != 0 {
		t.Fatalf("counts = %d/%d/%d, want all zero", got.Same, got.Opposite, got.Unknown)
	}
	if got.BeliefScore != 1 {
		t.Fatalf("belief = %f, want 1", got.BeliefScore)
	}
	if got.Polarity != common.PolarityUnknown {
		t.Fatalf("polarity = %d, want 0", got.Polarity)
	}
}

func TestResolveComposition_MissingStatementsShrinkCounts(t *testing.T) {
	svc, mem := newTestService(t)
	mem.SeedStatement(statement("s1", "a", "b", 1, 1, 0.8))
	// s2 is referenced but does not exist in the corpus

	edge := common.Edge{
		ID:           "e1",
		ModelID:      "m1",
		Source:       "a",
		Target:       "b",
		ReferenceIDs: []string{"s1", "s2"},
	}
	got, err := svc.ResolveComposition(context.Background(), edge)
	if err != nil {
		t.Fatalf("ResolveComposition: %v", err)
	}
	if got.Same != 1 || got.Opposite != 0 || got.Unknown != 0 {
		t.Fatalf("counts = %d/%d/%d, want 1/0/0", got.Same, got.Opposite, got.Unknown)
	}
	if got.BeliefScore != 0.8 {
		t.Fatalf("belief = %f, want 0.8", got.BeliefScore)
	}
}

func TestAmbiguous(t *testing.T) {
	split := []common.Statement{
		statement("s1", "a", "b", 1, 1, 0.5),
		statement("s2", "a", "b", 1, -1, 0.5),
	}
	if !ambiguous(split, nil) {
		t.Fatal("split evidence should be ambiguous")
	}
	if ambiguous(split, polPtr(common.PolarityPositive)) {
		t.Fatal("user override should suppress ambiguity")
	}

	unanimous := []common.Statement{
		statement("s1", "a", "b", 1, 1, 0.5),
		statement("s2", "a", "b", -1, -1, 0.5),
	}
	if ambiguous(unanimous, nil) {
		t.Fatal("unanimous evidence should not be ambiguous")
	}

	zeroMixed := []common.Statement{
		statement("s1", "a", "b", 1, 1, 0.5),
		statement("s2", "a", "b", 0, 1, 0.5),
	}
	if !ambiguous(zeroMixed, nil) {
		t.Fatal("zero mixed with nonzero should be ambiguous")
	}

	if ambiguous(nil, nil) {
		t.Fatal("no statements should not be ambiguous")
	}
}
