package cag

import (
	"context"
	"fmt"

	"github.com/strata-analytics/causeway/backend/pkg/common"
)

// Composition is the evidence breakdown of one edge: how many backing
// statements agree with the edge direction (same), contradict it
// (opposite), or carry no sign (unknown), plus the mean belief and the
// derived polarity.
type Composition struct {
	Same        int             `json:"same"`
	Opposite    int             `json:"opposite"`
	Unknown     int             `json:"unknown"`
	BeliefScore float64         `json:"belief_score"`
	Polarity    common.Polarity `json:"polarity"`
}

// Compose derives an edge's composition from the given backing statements.
// userPolarity, when non-nil, overrides the evidence-derived polarity
// unconditionally. An empty statement list yields the defined empty
// composition: zero counts, belief 1, polarity userPolarity or 0.
func Compose(statements []common.Statement, userPolarity *common.Polarity) Composition {
	c := Composition{BeliefScore: 1}
	if len(statements) == 0 {
		c.Polarity = fallbackPolarity(userPolarity)
		return c
	}

	var beliefSum float64
	for _, st := range statements {
		switch {
		case st.StatementPolarity() > 0:
			c.Same++
		case st.StatementPolarity() < 0:
			c.Opposite++
		default:
			c.Unknown++
		}
		beliefSum += st.BeliefScore
	}
	c.BeliefScore = beliefSum / float64(len(statements))

	if userPolarity != nil {
		c.Polarity = *userPolarity
		return c
	}
	switch {
	case c.Same > 0 && c.Opposite == 0:
		c.Polarity = common.PolarityPositive
	case c.Opposite > 0 && c.Same == 0:
		c.Polarity = common.PolarityNegative
	default:
		// no evidence with a sign, or conflicting evidence
		c.Polarity = common.PolarityUnknown
	}
	return c
}

// ResolveComposition fetches an edge's referenced statements and derives
// its composition. Referenced statements missing from the corpus are
// simply absent from the fetch, shrinking the counts rather than erroring;
// recalculation is what later trues up the reference list itself.
func (s *Service) ResolveComposition(ctx context.Context, edge common.Edge) (Composition, error) {
	if len(edge.ReferenceIDs) == 0 {
		return Compose(nil, edge.UserPolarity), nil
	}
	statements, err := s.stores.Statements.FindByIDs(ctx, edge.ReferenceIDs)
	if err != nil {
		return Composition{}, fmt.Errorf("fetch statements of edge %s: %w", edge.ID, err)
	}
	return Compose(statements, edge.UserPolarity), nil
}

// ambiguous reports whether an edge's evidence disagrees on sign. An edge
// with a user override is never ambiguous. Without statements the edge
// contributes a single fallback polarity, which is unanimous by
// definition.
func ambiguous(statements []common.Statement, userPolarity *common.Polarity) bool {
	if userPolarity != nil {
		return false
	}
	if len(statements) == 0 {
		return false
	}
	first := statements[0].StatementPolarity()
	for _, st := range statements[1:] {
		if st.StatementPolarity() != first {
			return true
		}
	}
	return false
}

func fallbackPolarity(userPolarity *common.Polarity) common.Polarity {
	if userPolarity != nil {
		return *userPolarity
	}
	return common.PolarityUnknown
}
