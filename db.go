package fluentlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Version is the library version attached to log output.
const Version = "1.0.0"

// dirPermissions is the permission mode for the database directory.
const dirPermissions = 0750

// Row is a single result row keyed by column name.
type Row map[string]any

// Record is a set of named field values for Insert.
type Record map[string]any

// Result reports the outcome of a statement that modifies rows.
type Result struct {
	LastInsertID int64
	RowsChanged  int64
}

// DB is the record access facade. It exclusively owns the live engine
// connection handle and moves between two states, disconnected and
// connected. Every data operation asserts the connected state first.
//
// A facade holds one logical connection; callers are expected to
// serialize operations themselves. No internal locking or queuing is
// provided beyond the engine's own busy-timeout behaviour.
type DB struct {
	path string
	opts Options
	log  Logger
	id   string

	conn *sql.DB
	inTx bool
}

// New creates a facade for the database file at path. No connection is
// opened until Connect.
func New(path string, opts Options) *DB {
	opts = opts.withDefaults()
	return &DB{
		path: path,
		opts: opts,
		log:  opts.Logger,
		id:   "conn-" + uuid.NewString()[:8],
	}
}

// Connect opens the underlying engine handle.
//
// Idempotent: calling while already connected logs and returns without
// reopening. On open failure the error propagates and the facade stays
// disconnected. The busy timeout, foreign key enforcement and open mode
// (read-only, file-must-exist) are applied through the connection string.
func (d *DB) Connect(ctx context.Context) error {
	if d.conn != nil {
		d.log.Debug("already connected", "conn", d.id, "path", d.path)
		return nil
	}

	if !d.opts.Readonly {
		if err := os.MkdirAll(filepath.Dir(d.path), dirPermissions); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}

	// See: https://github.com/mattn/go-sqlite3#connection-string
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on", d.path, d.opts.Timeout)
	switch {
	case d.opts.Readonly:
		dsn += "&mode=ro"
	case d.opts.FileMustExist:
		dsn += "&mode=rw"
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	// SQLite supports a single writer; one pooled connection also keeps
	// Transaction's literal BEGIN/COMMIT on the same session.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close() //nolint:errcheck // Best effort cleanup on error path
		return fmt.Errorf("verifying database connection: %w", err)
	}

	d.conn = conn
	d.log.Info("connected", "conn", d.id, "path", d.path, "readonly", d.opts.Readonly)
	return nil
}

// Close releases the engine handle. Idempotent no-op when already
// disconnected.
func (d *DB) Close() error {
	if d.conn == nil {
		return nil
	}
	if err := d.conn.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	d.conn = nil
	d.log.Info("closed", "conn", d.id, "path", d.path)
	return nil
}

// Connected reports whether the facade holds a live connection.
func (d *DB) Connected() bool {
	return d.conn != nil
}

// Path returns the filesystem path to the database file.
func (d *DB) Path() string {
	return d.path
}

// HealthCheck verifies the connection is alive with a trivial query.
func (d *DB) HealthCheck(ctx context.Context) error {
	if err := d.assertConnected(); err != nil {
		return err
	}
	var result int
	if err := d.conn.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// assertConnected fails fast with ErrNotConnected for data operations
// attempted on a disconnected facade.
func (d *DB) assertConnected() error {
	if d.conn == nil {
		return ErrNotConnected
	}
	return nil
}

// Exec executes a statement that takes no parameters and returns no rows.
func (d *DB) Exec(ctx context.Context, query string) error {
	if err := d.assertConnected(); err != nil {
		return err
	}
	d.trace(query, nil)
	if _, err := d.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("executing statement: %w", err)
	}
	return nil
}

// Run executes a parameterized statement and reports the engine's
// last-inserted row id and changed row count.
func (d *DB) Run(ctx context.Context, query string, args ...any) (Result, error) {
	if err := d.assertConnected(); err != nil {
		return Result{}, err
	}
	d.trace(query, args)
	res, err := d.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return Result{}, fmt.Errorf("executing statement: %w", err)
	}
	lastID, _ := res.LastInsertId()  //nolint:errcheck // always succeeds on SQLite
	changed, _ := res.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	return Result{LastInsertID: lastID, RowsChanged: changed}, nil
}

// Get executes a query and returns the first row, or nil when the result
// set is empty. Zero rows is never an error.
func (d *DB) Get(ctx context.Context, query string, args ...any) (Row, error) {
	rows, err := d.All(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// All executes a query and returns every result row.
func (d *DB) All(ctx context.Context, query string, args ...any) ([]Row, error) {
	if err := d.assertConnected(); err != nil {
		return nil, err
	}
	d.trace(query, args)

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading result columns: %w", err)
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(columns))
		dests := make([]any, len(columns))
		for i := range values {
			dests[i] = &values[i]
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(Row, len(columns))
		for i, name := range columns {
			row[name] = normalizeValue(values[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return result, nil
}

// normalizeValue converts driver byte slices to strings so callers see
// TEXT columns as Go strings.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// trace logs a statement with its bound values when verbose mode is on.
func (d *DB) trace(query string, args []any) {
	if d.opts.Verbose {
		d.log.Debug("statement", "conn", d.id, "sql", query, "values", args)
	}
}
