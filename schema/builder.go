package schema

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoColumn is returned by Build when a column modifier was called
// before any column had been declared.
var ErrNoColumn = errors.New("schema: no column selected")

// column is a single column definition under construction.
// Modifier fragments are kept in call order and rendered after the type.
type column struct {
	name      string
	sqlType   string
	modifiers []string
}

// constraintKind tags the variants of a table-level constraint.
type constraintKind int

const (
	constraintPrimaryKey constraintKind = iota
	constraintUnique
	constraintCheck
	constraintForeignKey
)

// constraint is one table-level constraint. Foreign keys are amended in
// place by References, OnDelete and OnUpdate; the other variants are
// complete at creation.
type constraint struct {
	kind       constraintKind
	columns    []string
	expression string

	// Foreign key amendments. refTable is empty until References is called.
	refTable  string
	refColumn string
	onDelete  string
	onUpdate  string
}

// Builder accumulates column definitions and table-level constraints for
// one CREATE TABLE statement.
//
// Column-declaring calls append a new column and make it current; modifier
// calls mutate the current column only. Table constraint calls append to a
// separate constraint list, where ForeignKey entries are amended by the
// follow-up References/OnDelete/OnUpdate calls.
//
// A Builder is a single-use value accumulator. It is not safe for
// concurrent use.
type Builder struct {
	columns     []column
	constraints []constraint

	// lastFK indexes the most recently added foreign key constraint,
	// -1 when none exists.
	lastFK int

	// err records the first state error; Build surfaces it.
	err error
}

// NewBuilder returns an empty table schema builder.
func NewBuilder() *Builder {
	return &Builder{lastFK: -1}
}

// Column declares a column with an explicit SQL type and makes it current.
func (b *Builder) Column(name, sqlType string) *Builder {
	b.columns = append(b.columns, column{name: name, sqlType: sqlType})
	return b
}

// Integer declares an INTEGER column.
func (b *Builder) Integer(name string) *Builder {
	return b.Column(name, "INTEGER")
}

// Real declares a REAL column.
func (b *Builder) Real(name string) *Builder {
	return b.Column(name, "REAL")
}

// Text declares a TEXT column.
func (b *Builder) Text(name string) *Builder {
	return b.Column(name, "TEXT")
}

// Blob declares a BLOB column.
func (b *Builder) Blob(name string) *Builder {
	return b.Column(name, "BLOB")
}

// Numeric declares a NUMERIC column.
func (b *Builder) Numeric(name string) *Builder {
	return b.Column(name, "NUMERIC")
}

// Boolean declares an INTEGER column intended to hold 0/1 values.
// SQLite has no native boolean type.
func (b *Builder) Boolean(name string) *Builder {
	return b.Column(name, "INTEGER")
}

// Timestamp declares a TEXT column intended to hold ISO-8601 timestamps.
func (b *Builder) Timestamp(name string) *Builder {
	return b.Column(name, "TEXT")
}

// JSON declares a TEXT column intended to hold serialised JSON.
func (b *Builder) JSON(name string) *Builder {
	return b.Column(name, "TEXT")
}

// Date declares a TEXT column that defaults to the current timestamp.
// Equivalent to Text(name) followed by Default("CURRENT_TIMESTAMP").
func (b *Builder) Date(name string) *Builder {
	return b.Text(name).Default("CURRENT_TIMESTAMP")
}

// modify appends a modifier fragment to the current column.
// Calling a modifier with no declared column records ErrNoColumn.
func (b *Builder) modify(fragment string) *Builder {
	if len(b.columns) == 0 {
		if b.err == nil {
			b.err = ErrNoColumn
		}
		return b
	}
	cur := &b.columns[len(b.columns)-1]
	cur.modifiers = append(cur.modifiers, fragment)
	return b
}

// PrimaryKey marks the current column as the primary key.
func (b *Builder) PrimaryKey() *Builder {
	return b.modify("PRIMARY KEY")
}

// AutoIncrement adds AUTOINCREMENT to the current column.
// Only meaningful on an INTEGER PRIMARY KEY column.
func (b *Builder) AutoIncrement() *Builder {
	return b.modify("AUTOINCREMENT")
}

// NotNull adds NOT NULL to the current column.
func (b *Builder) NotNull() *Builder {
	return b.modify("NOT NULL")
}

// Unique adds UNIQUE to the current column.
func (b *Builder) Unique() *Builder {
	return b.modify("UNIQUE")
}

// Default adds a DEFAULT clause to the current column.
//
// The value is rendered as a SQL literal:
//   - nil renders NULL
//   - the literal string "CURRENT_TIMESTAMP" passes through unquoted
//   - other strings are single-quoted with embedded quotes doubled
//   - booleans render 0/1
//   - time.Time values render as a quoted ISO-8601 string
//   - anything else uses its default textual form
func (b *Builder) Default(value any) *Builder {
	return b.modify("DEFAULT " + renderLiteral(value))
}

// Check adds a column-level CHECK constraint to the current column.
func (b *Builder) Check(expr string) *Builder {
	return b.modify("CHECK (" + expr + ")")
}

// Collate adds a COLLATE clause to the current column.
func (b *Builder) Collate(name string) *Builder {
	return b.modify("COLLATE " + name)
}

// PrimaryKeyOn adds a table-level PRIMARY KEY constraint over columns.
func (b *Builder) PrimaryKeyOn(columns ...string) *Builder {
	b.constraints = append(b.constraints, constraint{
		kind:    constraintPrimaryKey,
		columns: columns,
	})
	return b
}

// UniqueOn adds a table-level UNIQUE constraint over columns.
func (b *Builder) UniqueOn(columns ...string) *Builder {
	b.constraints = append(b.constraints, constraint{
		kind:    constraintUnique,
		columns: columns,
	})
	return b
}

// CheckConstraint adds a table-level CHECK constraint.
func (b *Builder) CheckConstraint(expr string) *Builder {
	b.constraints = append(b.constraints, constraint{
		kind:       constraintCheck,
		expression: expr,
	})
	return b
}

// ForeignKey starts a FOREIGN KEY constraint on the given column.
// Follow with References, and optionally OnDelete/OnUpdate, to complete it.
func (b *Builder) ForeignKey(col string) *Builder {
	b.constraints = append(b.constraints, constraint{
		kind:    constraintForeignKey,
		columns: []string{col},
	})
	b.lastFK = len(b.constraints) - 1
	return b
}

// References amends the most recent foreign key with its target,
// given as "table.column" (split on the first dot).
//
// Called with no preceding ForeignKey, or with a target missing the dot,
// the call is silently dropped. This matches long-standing behaviour that
// callers depend on; do not turn it into an error without a decision.
func (b *Builder) References(target string) *Builder {
	if b.lastFK < 0 {
		return b
	}
	table, col, ok := strings.Cut(target, ".")
	if !ok {
		return b
	}
	fk := &b.constraints[b.lastFK]
	fk.refTable = table
	fk.refColumn = col
	return b
}

// OnDelete amends the most recent foreign key with an ON DELETE action
// (e.g. "CASCADE", "SET NULL"). Silently dropped unless References has
// already been applied to that foreign key.
func (b *Builder) OnDelete(action string) *Builder {
	if fk := b.referencedFK(); fk != nil {
		fk.onDelete = action
	}
	return b
}

// OnUpdate amends the most recent foreign key with an ON UPDATE action.
// Silently dropped unless References has already been applied.
func (b *Builder) OnUpdate(action string) *Builder {
	if fk := b.referencedFK(); fk != nil {
		fk.onUpdate = action
	}
	return b
}

// referencedFK returns the last foreign key constraint if it already
// carries a REFERENCES clause, nil otherwise.
func (b *Builder) referencedFK() *constraint {
	if b.lastFK < 0 {
		return nil
	}
	fk := &b.constraints[b.lastFK]
	if fk.refTable == "" {
		return nil
	}
	return fk
}

// Build renders the accumulated column definitions and table constraints.
//
// It is idempotent and side-effect free: calling it repeatedly on the same
// builder state returns the same result. The first state error recorded
// during accumulation is returned here.
func (b *Builder) Build() (columns []string, constraints []string, err error) {
	if b.err != nil {
		return nil, nil, b.err
	}

	columns = make([]string, 0, len(b.columns))
	for _, c := range b.columns {
		parts := append([]string{c.name, c.sqlType}, c.modifiers...)
		columns = append(columns, strings.Join(parts, " "))
	}

	constraints = make([]string, 0, len(b.constraints))
	for _, c := range b.constraints {
		constraints = append(constraints, renderConstraint(c))
	}

	return columns, constraints, nil
}

// renderConstraint renders one table-level constraint fragment.
func renderConstraint(c constraint) string {
	switch c.kind {
	case constraintPrimaryKey:
		return "PRIMARY KEY (" + strings.Join(c.columns, ", ") + ")"
	case constraintUnique:
		return "UNIQUE (" + strings.Join(c.columns, ", ") + ")"
	case constraintCheck:
		return "CHECK (" + c.expression + ")"
	case constraintForeignKey:
		var sb strings.Builder
		sb.WriteString("FOREIGN KEY (" + c.columns[0] + ")")
		if c.refTable != "" {
			sb.WriteString(" REFERENCES " + c.refTable + "(" + c.refColumn + ")")
			if c.onDelete != "" {
				sb.WriteString(" ON DELETE " + c.onDelete)
			}
			if c.onUpdate != "" {
				sb.WriteString(" ON UPDATE " + c.onUpdate)
			}
		}
		return sb.String()
	}
	return ""
}

// renderLiteral renders a Go value as a SQL literal for DEFAULT clauses.
func renderLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case string:
		if v == "CURRENT_TIMESTAMP" {
			return v
		}
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		if v {
			return "1"
		}
		return "0"
	case time.Time:
		return "'" + v.UTC().Format(time.RFC3339) + "'"
	default:
		return fmt.Sprintf("%v", v)
	}
}
