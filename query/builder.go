package query

import (
	"fmt"
	"strings"
)

// allowedOperators is the closed set of predicate operators accepted by
// Where and OrWhere.
var allowedOperators = map[string]bool{
	"=": true, "!=": true, "<>": true,
	"<": true, "<=": true, ">": true, ">=": true,
	"LIKE": true, "NOT LIKE": true,
	"IN": true, "NOT IN": true,
	"IS NULL": true, "IS NOT NULL": true,
	"BETWEEN": true, "NOT BETWEEN": true,
}

// Builder accumulates SELECT fragments and renders them into parameterized
// SQL. Predicates, joins and their parameters keep call order; the global
// parameter list always matches the order `?` placeholders appear in the
// rendered statement. That ordering is a contract, not a coincidence: WHERE
// values are appended as predicates are added, HAVING values are appended
// after them, and the renderer emits WHERE before HAVING.
//
// A Builder is a single-use value accumulator. It is not safe for
// concurrent use.
type Builder struct {
	table    string
	columns  []string
	distinct bool

	predicates []string
	values     []any

	joins   []string
	groupBy string
	having  string
	orderBy string

	limit  int
	offset int

	hasLimit  bool
	hasOffset bool

	// err records the first builder error (e.g. an operator outside the
	// allowed set); ToSQL and ToCountSQL surface it.
	err error
}

// New returns a query builder for the given table.
func New(table string) *Builder {
	return &Builder{table: table}
}

// Select sets the projection columns. Defaults to * when never called.
func (b *Builder) Select(columns ...string) *Builder {
	b.columns = append(b.columns, columns...)
	return b
}

// Distinct adds the DISTINCT keyword to the projection.
func (b *Builder) Distinct() *Builder {
	b.distinct = true
	return b
}

// Where appends one AND-combined predicate with a single `?` placeholder.
//
// The operator must belong to the closed allowed set. For IN, BETWEEN and
// NULL variants prefer the dedicated helpers: Where always emits exactly
// one placeholder regardless of operator.
func (b *Builder) Where(column, operator string, value any) *Builder {
	op, ok := normalizeOperator(operator)
	if !ok {
		b.fail(fmt.Errorf("query: operator %q not allowed", operator))
		return b
	}
	b.predicates = append(b.predicates, column+" "+op+" ?")
	b.values = append(b.values, value)
	return b
}

// OrWhere combines a new predicate with the immediately preceding one
// using OR.
//
// When at least one predicate exists, the last predicate P is replaced by
// "(P) OR (new)". OR therefore binds only to the preceding fragment, never
// to the whole accumulated AND chain. With no prior predicate OrWhere
// behaves exactly like Where. Callers depend on this precedence; preserve
// it.
func (b *Builder) OrWhere(column, operator string, value any) *Builder {
	op, ok := normalizeOperator(operator)
	if !ok {
		b.fail(fmt.Errorf("query: operator %q not allowed", operator))
		return b
	}
	pred := column + " " + op + " ?"
	if n := len(b.predicates); n > 0 {
		last := b.predicates[n-1]
		b.predicates[n-1] = "(" + last + ") OR (" + pred + ")"
	} else {
		b.predicates = append(b.predicates, pred)
	}
	b.values = append(b.values, value)
	return b
}

// WhereIn appends an IN predicate over the given values.
//
// An empty value set renders the unsatisfiable predicate "1 = 0" instead of
// the invalid SQL "IN ()". Note the asymmetry with WhereNotIn, which skips
// the predicate entirely for an empty set.
func (b *Builder) WhereIn(column string, values []any) *Builder {
	if len(values) == 0 {
		b.predicates = append(b.predicates, "1 = 0")
		return b
	}
	b.predicates = append(b.predicates, column+" IN ("+placeholders(len(values))+")")
	b.values = append(b.values, values...)
	return b
}

// WhereNotIn appends a NOT IN predicate over the given values.
// An empty value set adds no predicate at all (NOT IN over nothing excludes
// nothing).
func (b *Builder) WhereNotIn(column string, values []any) *Builder {
	if len(values) == 0 {
		return b
	}
	b.predicates = append(b.predicates, column+" NOT IN ("+placeholders(len(values))+")")
	b.values = append(b.values, values...)
	return b
}

// WhereNull appends an IS NULL predicate. No parameter is bound.
func (b *Builder) WhereNull(column string) *Builder {
	b.predicates = append(b.predicates, column+" IS NULL")
	return b
}

// WhereNotNull appends an IS NOT NULL predicate. No parameter is bound.
func (b *Builder) WhereNotNull(column string) *Builder {
	b.predicates = append(b.predicates, column+" IS NOT NULL")
	return b
}

// WhereBetween appends a BETWEEN predicate binding two parameters.
func (b *Builder) WhereBetween(column string, low, high any) *Builder {
	b.predicates = append(b.predicates, column+" BETWEEN ? AND ?")
	b.values = append(b.values, low, high)
	return b
}

// WhereLike appends a LIKE predicate.
func (b *Builder) WhereLike(column, pattern string) *Builder {
	b.predicates = append(b.predicates, column+" LIKE ?")
	b.values = append(b.values, pattern)
	return b
}

// WhereNotLike appends a NOT LIKE predicate.
func (b *Builder) WhereNotLike(column, pattern string) *Builder {
	b.predicates = append(b.predicates, column+" NOT LIKE ?")
	b.values = append(b.values, pattern)
	return b
}

// WhereRaw appends a caller-supplied predicate fragment and its parameters.
// The fragment is trusted verbatim; no escaping or validation is performed.
func (b *Builder) WhereRaw(condition string, values ...any) *Builder {
	b.predicates = append(b.predicates, condition)
	b.values = append(b.values, values...)
	return b
}

// Join appends a JOIN fragment. Fragments render in call order.
func (b *Builder) Join(table, on string) *Builder {
	b.joins = append(b.joins, "JOIN "+table+" ON "+on)
	return b
}

// LeftJoin appends a LEFT JOIN fragment.
func (b *Builder) LeftJoin(table, on string) *Builder {
	b.joins = append(b.joins, "LEFT JOIN "+table+" ON "+on)
	return b
}

// GroupBy sets the GROUP BY clause. The last call wins.
func (b *Builder) GroupBy(columns string) *Builder {
	b.groupBy = columns
	return b
}

// Having sets the HAVING clause and appends its parameters to the global
// parameter list. The last call wins for the clause text; previously
// appended HAVING values are not removed, so set HAVING once.
//
// Appending to the global list is correct only because WHERE predicates
// always render before HAVING in the final SQL.
func (b *Builder) Having(condition string, values ...any) *Builder {
	b.having = condition
	b.values = append(b.values, values...)
	return b
}

// OrderBy sets the ORDER BY clause. The last call wins.
func (b *Builder) OrderBy(clause string) *Builder {
	b.orderBy = clause
	return b
}

// Limit sets the LIMIT clause. The last call wins.
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	b.hasLimit = true
	return b
}

// Offset sets the OFFSET clause. The last call wins. Without a Limit the
// statement renders LIMIT -1 ahead of the offset, since the engine does
// not accept OFFSET on its own.
func (b *Builder) Offset(n int) *Builder {
	b.offset = n
	b.hasOffset = true
	return b
}

// ToSQL renders the accumulated fragments into a SELECT statement.
//
// Clauses always render in the fixed order: SELECT [DISTINCT] columns,
// FROM, JOINs, WHERE, GROUP BY, HAVING, ORDER BY, LIMIT, OFFSET. The
// returned values slice is a defensive copy of the parameter list; its
// order matches placeholder order in the SQL text.
func (b *Builder) ToSQL() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if b.distinct {
		sb.WriteString("DISTINCT ")
	}
	if len(b.columns) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(b.columns, ", "))
	}
	sb.WriteString(" FROM " + b.table)

	b.writeJoinsAndFilters(&sb)

	if b.orderBy != "" {
		sb.WriteString(" ORDER BY " + b.orderBy)
	}
	if b.hasLimit {
		fmt.Fprintf(&sb, " LIMIT %d", b.limit)
	} else if b.hasOffset {
		// SQLite rejects a bare OFFSET; LIMIT -1 means no row limit.
		sb.WriteString(" LIMIT -1")
	}
	if b.hasOffset {
		fmt.Fprintf(&sb, " OFFSET %d", b.offset)
	}

	return sb.String(), b.copyValues(), nil
}

// ToCountSQL renders a COUNT form of the query.
//
// Projection, ORDER BY, LIMIT and OFFSET are omitted: count queries need
// neither ordering nor row limiting. JOINs, WHERE, GROUP BY and HAVING are
// preserved so the count matches what ToSQL would return rows for.
func (b *Builder) ToCountSQL() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}

	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) AS count FROM " + b.table)
	b.writeJoinsAndFilters(&sb)

	return sb.String(), b.copyValues(), nil
}

// writeJoinsAndFilters renders the clauses shared by ToSQL and ToCountSQL:
// JOINs, WHERE, GROUP BY and HAVING, in that order.
func (b *Builder) writeJoinsAndFilters(sb *strings.Builder) {
	for _, j := range b.joins {
		sb.WriteString(" " + j)
	}
	if len(b.predicates) > 0 {
		sb.WriteString(" WHERE " + strings.Join(b.predicates, " AND "))
	}
	if b.groupBy != "" {
		sb.WriteString(" GROUP BY " + b.groupBy)
	}
	if b.having != "" {
		sb.WriteString(" HAVING " + b.having)
	}
}

// copyValues returns a defensive copy of the parameter list.
func (b *Builder) copyValues() []any {
	values := make([]any, len(b.values))
	copy(values, b.values)
	return values
}

// fail records the first builder error.
func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// normalizeOperator upper-cases and validates an operator against the
// allowed set.
func normalizeOperator(op string) (string, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(op))
	return normalized, allowedOperators[normalized]
}

// placeholders renders n comma-separated `?` markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
