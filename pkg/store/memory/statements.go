package memory

import (
	"context"
	"slices"

	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

type statementRepo struct{ s *Store }

func (r *statementRepo) FindByIDs(ctx context.Context, ids []string) ([]common.Statement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]common.Statement, 0, len(ids))
	for _, id := range ids {
		if st, ok := r.s.statements[id]; ok {
			out = append(out, st)
		}
	}
	return out, nil
}

func (r *statementRepo) Search(ctx context.Context, clauses []store.Clause, opts store.FindOptions) ([]common.Statement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]common.Statement, 0)
	for _, st := range r.s.statements {
		if matches(st, clauses) {
			out = append(out, st)
		}
	}
	slices.SortFunc(out, func(a, b common.Statement) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	if opts.From > 0 {
		if opts.From >= len(out) {
			return nil, nil
		}
		out = out[opts.From:]
	}
	if opts.Size > 0 && opts.Size < len(out) {
		out = out[:opts.Size]
	}
	return out, nil
}

func matches(st common.Statement, clauses []store.Clause) bool {
	for _, c := range clauses {
		hit := clauseMatches(st, c)
		if c.IsNot {
			hit = !hit
		}
		if !hit {
			return false
		}
	}
	return true
}

func clauseMatches(st common.Statement, c store.Clause) bool {
	switch c.Field {
	case store.FieldID:
		return slices.Contains(c.Values, st.ID)
	case store.FieldProjectID:
		return slices.Contains(c.Values, st.ProjectID)
	case store.FieldDiscarded:
		want := slices.Contains(c.Values, "true")
		return st.Discarded == want
	case store.FieldSubjConcepts:
		return anyCandidate(st.Subject, c.Values)
	case store.FieldObjConcepts:
		return anyCandidate(st.Object, c.Values)
	}
	return false
}

// anyCandidate matches both the active grounding and the candidate list,
// mirroring how the corpus indexes factor concepts.
func anyCandidate(f common.Factor, concepts []string) bool {
	if slices.Contains(concepts, f.Concept) {
		return true
	}
	for _, cand := range f.Candidates {
		if slices.Contains(concepts, cand.Concept) {
			return true
		}
	}
	return false
}
