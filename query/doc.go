// Package query renders fluent fragment accumulation into parameterized
// SELECT and COUNT statements.
//
// A Builder collects projection, predicates, joins, grouping, ordering and
// pagination through chainable calls, then renders them in one fixed
// clause order with ToSQL or ToCountSQL. All user values bind through `?`
// placeholders; the returned value list order always matches placeholder
// order in the SQL text.
//
// # Usage
//
//	q := query.New("users").
//	    Select("id", "name").
//	    Where("age", ">", 18).
//	    WhereIn("status", []any{"active", "trial"}).
//	    OrderBy("name ASC").
//	    Limit(10)
//	sql, values, err := q.ToSQL()
//
// # Behavioural contracts
//
//   - OrWhere binds only to the immediately preceding predicate, not the
//     whole AND chain.
//   - WhereIn with an empty set renders "1 = 0"; WhereNotIn with an empty
//     set renders nothing.
//   - GroupBy, Having, OrderBy, Limit and Offset overwrite earlier calls
//     of the same kind.
//
// WhereBuilder is a standalone accumulator for composing raw WHERE clauses
// into custom statements.
package query
