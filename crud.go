package fluentlite

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/fluentlite/fluentlite/query"
)

// Cond pairs an explicit operator with a value for Find/Count conditions.
//
//	db.Find(ctx, "users", fluentlite.Conditions{
//	    "age": fluentlite.Cond{Operator: ">=", Value: 18},
//	})
type Cond struct {
	Operator string
	Value    any
}

// Conditions maps column names to condition values.
//
// For Find, FindOne, FindPaginated and Count each entry translates as:
// a slice value becomes an IN predicate, a Cond becomes an explicit
// operator predicate, anything else becomes an equality predicate.
//
// Update and Delete accept only the equality form; operator and slice
// values are not supported there. The asymmetry is deliberate.
type Conditions map[string]any

// FindOptions shapes the result set of Find and FindPaginated.
type FindOptions struct {
	Columns      []string
	Distinct     bool
	OrderBy      string
	GroupBy      string
	Having       string
	HavingValues []any

	// Limit and Offset apply when positive.
	Limit  int
	Offset int
}

// Pagination selects one page of results. Page counts from 1.
type Pagination struct {
	Page  int
	Limit int
}

// PageResult is one page of rows plus the derived pagination summary.
//
// The summary is computed from a row count taken before the page fetch;
// the two are separate statements, so a concurrent write between them can
// make Total disagree with the rows returned. Known consistency gap.
type PageResult struct {
	Rows       []Row
	Page       int
	Limit      int
	Total      int64
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// defaultPageLimit applies when Pagination.Limit is not positive.
const defaultPageLimit = 10

// Insert builds and executes a parameterized INSERT from the record's
// field names and values. Columns render in sorted name order so the
// statement text is deterministic. Every value passes through value
// preparation before binding.
func (d *DB) Insert(ctx context.Context, table string, record Record) (Result, error) {
	if err := d.assertConnected(); err != nil {
		return Result{}, err
	}

	names := sortedKeys(record)
	columns := make([]string, 0, len(names))
	marks := make([]string, 0, len(names))
	values := make([]any, 0, len(names))
	for _, name := range names {
		columns = append(columns, name)
		marks = append(marks, "?")
		values = append(values, prepareValue(record[name]))
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(marks, ", "))

	res, err := d.Run(ctx, stmt, values...)
	if err != nil {
		return Result{}, fmt.Errorf("inserting into %s: %w", table, err)
	}
	return res, nil
}

// Find executes a SELECT shaped by conditions and options and returns the
// matching rows.
func (d *DB) Find(ctx context.Context, table string, conds Conditions, opts *FindOptions) ([]Row, error) {
	if err := d.assertConnected(); err != nil {
		return nil, err
	}

	q := buildFindQuery(table, conds, opts)
	stmt, values, err := q.ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := d.All(ctx, stmt, values...)
	if err != nil {
		return nil, fmt.Errorf("finding in %s: %w", table, err)
	}
	return rows, nil
}

// FindOne is Find with the limit forced to 1. It returns the first
// matching row, or nil when nothing matches. Zero rows is never an error.
func (d *DB) FindOne(ctx context.Context, table string, conds Conditions, opts *FindOptions) (Row, error) {
	limited := FindOptions{}
	if opts != nil {
		limited = *opts
	}
	limited.Limit = 1

	rows, err := d.Find(ctx, table, conds, &limited)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Update builds SET fragments from the patch and executes the UPDATE.
//
// Conditions here are equality-only and AND-joined; the operator and
// slice forms Find supports are not accepted. An empty conditions map
// updates every row in the table — that is the contract, not an
// accident, and no guard is applied.
func (d *DB) Update(ctx context.Context, table string, patch Record, conds Conditions) (int64, error) {
	if err := d.assertConnected(); err != nil {
		return 0, err
	}
	if len(patch) == 0 {
		return 0, ErrEmptyPatch
	}

	names := sortedKeys(patch)
	sets := make([]string, 0, len(names))
	values := make([]any, 0, len(names)+len(conds))
	for _, name := range names {
		sets = append(sets, name+" = ?")
		values = append(values, prepareValue(patch[name]))
	}

	stmt := fmt.Sprintf("UPDATE %s SET %s", table, strings.Join(sets, ", "))
	where, whereValues := equalityWhere(conds)
	if where != "" {
		stmt += " WHERE " + where
		values = append(values, whereValues...)
	}

	res, err := d.Run(ctx, stmt, values...)
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", table, err)
	}
	return res.RowsChanged, nil
}

// Delete removes matching rows. Same equality-only condition contract as
// Update; an empty conditions map deletes every row.
func (d *DB) Delete(ctx context.Context, table string, conds Conditions) (int64, error) {
	if err := d.assertConnected(); err != nil {
		return 0, err
	}

	stmt := "DELETE FROM " + table
	where, values := equalityWhere(conds)
	if where != "" {
		stmt += " WHERE " + where
	}

	res, err := d.Run(ctx, stmt, values...)
	if err != nil {
		return 0, fmt.Errorf("deleting from %s: %w", table, err)
	}
	return res.RowsChanged, nil
}

// Count returns the number of rows matching the conditions, using the
// same condition translation as Find.
func (d *DB) Count(ctx context.Context, table string, conds Conditions) (int64, error) {
	if err := d.assertConnected(); err != nil {
		return 0, err
	}

	q := query.New(table)
	applyConditions(q, conds)
	stmt, values, err := q.ToCountSQL()
	if err != nil {
		return 0, err
	}

	row, err := d.Get(ctx, stmt, values...)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	if row == nil {
		return 0, nil
	}
	return toInt64(row["count"]), nil
}

// FindPaginated runs Count then Find with limit/offset computed from the
// requested page, and derives the pagination summary.
//
// The count and the page fetch are two separate statements; see
// PageResult for the consistency caveat.
func (d *DB) FindPaginated(ctx context.Context, table string, conds Conditions, page Pagination, opts *FindOptions) (*PageResult, error) {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = defaultPageLimit
	}

	total, err := d.Count(ctx, table, conds)
	if err != nil {
		return nil, err
	}

	paged := FindOptions{}
	if opts != nil {
		paged = *opts
	}
	paged.Limit = page.Limit
	paged.Offset = (page.Page - 1) * page.Limit

	rows, err := d.Find(ctx, table, conds, &paged)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(page.Limit) - 1) / int64(page.Limit))
	return &PageResult{
		Rows:       rows,
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page.Page < totalPages,
		HasPrev:    page.Page > 1,
	}, nil
}

// buildFindQuery translates conditions and options into a query builder.
func buildFindQuery(table string, conds Conditions, opts *FindOptions) *query.Builder {
	q := query.New(table)
	if opts != nil {
		if len(opts.Columns) > 0 {
			q.Select(opts.Columns...)
		}
		if opts.Distinct {
			q.Distinct()
		}
	}

	applyConditions(q, conds)

	if opts != nil {
		if opts.GroupBy != "" {
			q.GroupBy(opts.GroupBy)
		}
		if opts.Having != "" {
			q.Having(opts.Having, opts.HavingValues...)
		}
		if opts.OrderBy != "" {
			q.OrderBy(opts.OrderBy)
		}
		if opts.Limit > 0 {
			q.Limit(opts.Limit)
		}
		if opts.Offset > 0 {
			q.Offset(opts.Offset)
		}
	}
	return q
}

// applyConditions translates each condition entry into a builder
// predicate: slice values become IN predicates, Cond values become
// explicit operator predicates, everything else becomes equality.
// Entries apply in sorted column order for deterministic SQL text.
func applyConditions(q *query.Builder, conds Conditions) {
	for _, column := range sortedKeys(conds) {
		switch v := conds[column].(type) {
		case Cond:
			q.Where(column, v.Operator, prepareValue(v.Value))
		default:
			if items, ok := asSlice(v); ok {
				q.WhereIn(column, items)
			} else {
				q.Where(column, "=", prepareValue(v))
			}
		}
	}
}

// equalityWhere renders the narrow Update/Delete condition contract:
// equality predicates AND-joined in sorted column order.
func equalityWhere(conds Conditions) (string, []any) {
	if len(conds) == 0 {
		return "", nil
	}
	names := sortedKeys(conds)
	parts := make([]string, 0, len(names))
	values := make([]any, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" = ?")
		values = append(values, prepareValue(conds[name]))
	}
	return strings.Join(parts, " AND "), values
}

// prepareValue normalizes a Go value for binding:
//   - nil stays NULL
//   - time.Time becomes an ISO-8601 string
//   - bool becomes 0/1
//   - structured values (maps, slices, structs, except []byte) become
//     JSON text
//   - everything else passes through unchanged
func prepareValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC().Format(time.RFC3339)
	case bool:
		if t {
			return int64(1)
		}
		return int64(0)
	case []byte:
		return t
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		encoded, err := json.Marshal(v)
		if err != nil {
			// Unencodable values bind as-is and fail at the engine.
			return v
		}
		return string(encoded)
	default:
		return v
	}
}

// asSlice reports whether v is a slice or array (excluding []byte) and
// returns its prepared elements.
func asSlice(v any) ([]any, bool) {
	if _, isBytes := v.([]byte); isBytes || v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = prepareValue(rv.Index(i).Interface())
	}
	return items, true
}

// toInt64 coerces the driver's numeric representations of COUNT(*).
func toInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		var n int64
		fmt.Sscanf(t, "%d", &n) //nolint:errcheck // zero on malformed input
		return n
	default:
		return 0
	}
}

// sortedKeys returns map keys in ascending order.
func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
