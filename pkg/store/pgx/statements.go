package pgx

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

type statementRepo struct {
	conn pgxIConn
}

const statementColumns = `id, project_id, subj, obj, belief_score, discarded`

const findStatementsByIDsSQL = `
SELECT ` + statementColumns + `
FROM statements
WHERE id = ANY($1)
ORDER BY id;
`

// findByIDsChunk bounds the id array of one lookup; edges over heavily
// curated corpora can reference thousands of statements.
const findByIDsChunk = 1000

func (r *statementRepo) FindByIDs(ctx context.Context, ids []string) ([]common.Statement, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	out := make([]common.Statement, 0, len(ids))
	err := store.ChunkRange(len(ids), findByIDsChunk, func(start, end int) error {
		rows, err := r.conn.Query(ctx, findStatementsByIDsSQL, ids[start:end])
		if err != nil {
			return err
		}
		defer rows.Close()

		chunk, err := scanStatements(rows)
		if err != nil {
			return err
		}
		out = append(out, chunk...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *statementRepo) Search(ctx context.Context, clauses []store.Clause, opts store.FindOptions) ([]common.Statement, error) {
	where, args, err := buildStatementWhere(clauses)
	if err != nil {
		return nil, err
	}

	size := opts.Size
	if size <= 0 {
		size = defaultFindSize
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + statementColumns + " FROM statements")
	if where != "" {
		sb.WriteString(" WHERE " + where)
	}
	sb.WriteString(" ORDER BY id")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, size, opts.From)

	rows, err := r.conn.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStatements(rows)
}

// buildStatementWhere translates find clauses into a statements WHERE
// fragment. The grounded-concept fields map onto the denormalized
// subj_concepts/obj_concepts arrays so the overlap operator can use their
// GIN indexes instead of unpacking the factor documents per row.
func buildStatementWhere(clauses []store.Clause) (string, []any, error) {
	conds := make([]string, 0, len(clauses))
	args := make([]any, 0, len(clauses))

	for _, c := range clauses {
		var cond string
		switch c.Field {
		case store.FieldID:
			args = append(args, c.Values)
			cond = fmt.Sprintf("id = ANY($%d)", len(args))
		case store.FieldProjectID:
			args = append(args, c.Values)
			cond = fmt.Sprintf("project_id = ANY($%d)", len(args))
		case store.FieldSubjConcepts:
			args = append(args, c.Values)
			cond = fmt.Sprintf("subj_concepts && $%d", len(args))
		case store.FieldObjConcepts:
			args = append(args, c.Values)
			cond = fmt.Sprintf("obj_concepts && $%d", len(args))
		case store.FieldDiscarded:
			if len(c.Values) != 1 {
				return "", nil, fmt.Errorf("store: discarded clause wants exactly one value, got %d", len(c.Values))
			}
			v, err := strconv.ParseBool(c.Values[0])
			if err != nil {
				return "", nil, fmt.Errorf("store: discarded clause value %q: %w", c.Values[0], err)
			}
			args = append(args, v)
			cond = fmt.Sprintf("discarded = $%d", len(args))
		default:
			return "", nil, fmt.Errorf("store: unsupported statement search field %q", c.Field)
		}

		if c.IsNot {
			cond = "NOT (" + cond + ")"
		}
		conds = append(conds, cond)
	}

	return strings.Join(conds, " AND "), args, nil
}

func scanStatements(rows pgxv5.Rows) ([]common.Statement, error) {
	out := make([]common.Statement, 0)
	for rows.Next() {
		var (
			s         common.Statement
			subj, obj []byte
		)
		if err := rows.Scan(&s.ID, &s.ProjectID, &subj, &obj, &s.BeliefScore, &s.Discarded); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(subj, &s.Subject); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(obj, &s.Object); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
