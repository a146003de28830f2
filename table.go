package fluentlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/fluentlite/fluentlite/schema"
)

// TableOptions configures CREATE TABLE modifiers. Statements always use
// IF NOT EXISTS.
type TableOptions struct {
	Temporary    bool
	WithoutRowID bool
	Strict       bool
}

// CreateTable instantiates a fresh schema builder, hands it to fn, and
// executes the rendered CREATE TABLE IF NOT EXISTS statement.
func (d *DB) CreateTable(ctx context.Context, table string, fn func(*schema.Builder), opts *TableOptions) error {
	if err := d.assertConnected(); err != nil {
		return err
	}

	b := schema.NewBuilder()
	fn(b)
	columns, constraints, err := b.Build()
	if err != nil {
		return err
	}

	defs := strings.Join(append(columns, constraints...), ", ")

	var sb strings.Builder
	sb.WriteString("CREATE ")
	if opts != nil && opts.Temporary {
		sb.WriteString("TEMPORARY ")
	}
	sb.WriteString("TABLE IF NOT EXISTS " + table + " (" + defs + ")")

	var suffixes []string
	if opts != nil && opts.WithoutRowID {
		suffixes = append(suffixes, "WITHOUT ROWID")
	}
	if opts != nil && opts.Strict {
		suffixes = append(suffixes, "STRICT")
	}
	if len(suffixes) > 0 {
		sb.WriteString(" " + strings.Join(suffixes, ", "))
	}

	if err := d.Exec(ctx, sb.String()); err != nil {
		return fmt.Errorf("creating table %s: %w", table, err)
	}
	d.log.Debug("table created", "conn", d.id, "table", table)
	return nil
}

// DropTable removes a table if it exists.
func (d *DB) DropTable(ctx context.Context, table string) error {
	if err := d.assertConnected(); err != nil {
		return err
	}
	if err := d.Exec(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("dropping table %s: %w", table, err)
	}
	return nil
}

// TableExists reports whether a table is present in the schema catalog.
func (d *DB) TableExists(ctx context.Context, table string) (bool, error) {
	if err := d.assertConnected(); err != nil {
		return false, err
	}
	row, err := d.Get(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", table, err)
	}
	return row != nil, nil
}
