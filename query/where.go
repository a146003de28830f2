package query

import "strings"

// WhereBuilder accumulates a raw AND/OR predicate string with its
// parameter list, independent of a full query. It exists for composing
// WHERE clauses into hand-assembled statements.
//
// Build joins all accumulated tokens with single spaces; the caller is
// responsible for placing Or calls where an OR actually makes sense.
type WhereBuilder struct {
	tokens []string
	values []any
}

// NewWhere returns an empty predicate accumulator.
func NewWhere() *WhereBuilder {
	return &WhereBuilder{}
}

// And appends a parameterized predicate.
func (w *WhereBuilder) And(column, operator string, value any) *WhereBuilder {
	w.tokens = append(w.tokens, column+" "+operator+" ?")
	w.values = append(w.values, value)
	return w
}

// Or appends a literal OR token followed by a parameterized predicate.
func (w *WhereBuilder) Or(column, operator string, value any) *WhereBuilder {
	w.tokens = append(w.tokens, "OR", column+" "+operator+" ?")
	w.values = append(w.values, value)
	return w
}

// Raw appends a trusted SQL fragment and its parameters verbatim.
func (w *WhereBuilder) Raw(condition string, values ...any) *WhereBuilder {
	w.tokens = append(w.tokens, condition)
	w.values = append(w.values, values...)
	return w
}

// Build returns the joined clause and a defensive copy of the parameters.
func (w *WhereBuilder) Build() (string, []any) {
	values := make([]any, len(w.values))
	copy(values, w.values)
	return strings.Join(w.tokens, " "), values
}
