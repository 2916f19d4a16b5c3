package store

// Operand selects how the values of a clause combine.
type Operand string

const (
	OperandAnd Operand = "and"
	OperandOr  Operand = "or"
)

// Clause is one filter constraint of a find: field equality against a
// single value, or set membership when several values are given with
// OperandOr. IsNot negates the clause.
type Clause struct {
	Field   string
	Values  []string
	Operand Operand
	IsNot   bool
}

// Eq builds a single-value equality clause.
func Eq(field, value string) Clause {
	return Clause{Field: field, Values: []string{value}, Operand: OperandAnd}
}

// In builds a set-membership clause.
func In(field string, values []string) Clause {
	return Clause{Field: field, Values: values, Operand: OperandOr}
}

// Not negates a clause.
func Not(c Clause) Clause {
	c.IsNot = true
	return c
}

// Intersects builds a clause matching records whose array field shares at
// least one element with values. Statement grounding search uses this for
// the source/target component sets.
func Intersects(field string, values []string) Clause {
	return Clause{Field: field, Values: values, Operand: OperandOr}
}

// FindOptions carries paging and projection hints for find calls.
type FindOptions struct {
	Size int
	From int
}

// FieldSubjConcepts and friends name the statement search fields the
// engine filters on.
const (
	FieldID           = "id"
	FieldProjectID    = "project_id"
	FieldSubjConcepts = "subj.candidates.concept"
	FieldObjConcepts  = "obj.candidates.concept"
	FieldDiscarded    = "discarded"
)
