package fluentlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fluentlite/fluentlite/schema"
)

// TestConnect verifies connection establishment and idempotency.
func TestConnect(t *testing.T) {
	ctx := context.Background()

	t.Run("creates database file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		db := New(dbPath, Options{})

		if err := db.Connect(ctx); err != nil {
			t.Fatalf("Connect() error = %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("creates directory if not exists", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "deeper", "test.db")
		db := New(dbPath, Options{})

		if err := db.Connect(ctx); err != nil {
			t.Fatalf("Connect() error = %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup
	})

	t.Run("idempotent", func(t *testing.T) {
		db := openTestDB(t)
		defer db.Close() //nolint:errcheck // Test cleanup

		if err := db.Connect(ctx); err != nil {
			t.Errorf("second Connect() error = %v", err)
		}
		if !db.Connected() {
			t.Error("expected connected state")
		}
	})

	t.Run("file must exist", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "missing.db")
		db := New(dbPath, Options{FileMustExist: true})

		if err := db.Connect(ctx); err == nil {
			db.Close() //nolint:errcheck // Test cleanup
			t.Fatal("expected error for missing database file")
		}
		if db.Connected() {
			t.Error("facade must stay disconnected after failed open")
		}
	})
}

// TestClose verifies graceful shutdown and idempotency.
func TestClose(t *testing.T) {
	db := openTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if db.Connected() {
		t.Error("expected disconnected state")
	}

	// Second close is a no-op.
	if err := db.Close(); err != nil {
		t.Errorf("Close() when disconnected error = %v", err)
	}
}

// TestNotConnected verifies data operations fail fast when disconnected.
func TestNotConnected(t *testing.T) {
	ctx := context.Background()
	db := New(filepath.Join(t.TempDir(), "test.db"), Options{})

	if _, err := db.Insert(ctx, "t", Record{"a": 1}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Insert() error = %v, want ErrNotConnected", err)
	}
	if _, err := db.Find(ctx, "t", nil, nil); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Find() error = %v, want ErrNotConnected", err)
	}
	if _, err := db.Update(ctx, "t", Record{"a": 1}, nil); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Update() error = %v, want ErrNotConnected", err)
	}
	if _, err := db.Delete(ctx, "t", nil); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Delete() error = %v, want ErrNotConnected", err)
	}
	if _, err := db.Count(ctx, "t", nil); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Count() error = %v, want ErrNotConnected", err)
	}
	if err := db.CreateTable(ctx, "t", func(*schema.Builder) {}, nil); !errors.Is(err, ErrNotConnected) {
		t.Errorf("CreateTable() error = %v, want ErrNotConnected", err)
	}
	if err := db.Transaction(ctx, func(context.Context) error { return nil }, nil); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Transaction() error = %v, want ErrNotConnected", err)
	}
	if err := db.HealthCheck(ctx); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

// TestHealthCheck verifies the liveness probe.
func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

// TestCreateTable verifies schema builder wiring and modifiers.
func TestCreateTable(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	err := db.CreateTable(ctx, "users", func(tb *schema.Builder) {
		tb.Integer("id").PrimaryKey().AutoIncrement()
		tb.Text("name").NotNull()
		tb.Boolean("active").Default(true)
	}, nil)
	if err != nil {
		t.Fatalf("CreateTable() error = %v", err)
	}

	exists, err := db.TableExists(ctx, "users")
	if err != nil {
		t.Fatalf("TableExists() error = %v", err)
	}
	if !exists {
		t.Error("expected users table to exist")
	}

	// IF NOT EXISTS makes repeat creation a no-op.
	err = db.CreateTable(ctx, "users", func(tb *schema.Builder) {
		tb.Integer("id").PrimaryKey()
	}, nil)
	if err != nil {
		t.Errorf("repeat CreateTable() error = %v", err)
	}

	if err := db.DropTable(ctx, "users"); err != nil {
		t.Fatalf("DropTable() error = %v", err)
	}
	exists, err = db.TableExists(ctx, "users")
	if err != nil {
		t.Fatalf("TableExists() error = %v", err)
	}
	if exists {
		t.Error("expected users table to be dropped")
	}
}

// TestCreateTableOptions verifies the TEMPORARY and STRICT modifiers.
func TestCreateTableOptions(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	err := db.CreateTable(ctx, "scratch", func(tb *schema.Builder) {
		tb.Integer("id").PrimaryKey()
		tb.Text("label")
	}, &TableOptions{Temporary: true})
	if err != nil {
		t.Fatalf("CreateTable(temporary) error = %v", err)
	}

	err = db.CreateTable(ctx, "strict_t", func(tb *schema.Builder) {
		tb.Integer("id").PrimaryKey()
		tb.Text("label")
	}, &TableOptions{Strict: true})
	if err != nil {
		t.Fatalf("CreateTable(strict) error = %v", err)
	}
}

// TestEngineBoundary verifies the raw Exec/Run/Get/All primitives.
func TestEngineBoundary(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	if err := db.Exec(ctx, "CREATE TABLE raw_t (id INTEGER PRIMARY KEY, v TEXT)"); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}

	res, err := db.Run(ctx, "INSERT INTO raw_t (v) VALUES (?)", "one")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.LastInsertID != 1 || res.RowsChanged != 1 {
		t.Errorf("Run() result = %+v", res)
	}

	row, err := db.Get(ctx, "SELECT v FROM raw_t WHERE id = ?", 1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if row["v"] != "one" {
		t.Errorf("Get() row = %v", row)
	}

	row, err = db.Get(ctx, "SELECT v FROM raw_t WHERE id = ?", 99)
	if err != nil {
		t.Fatalf("Get() on absent row error = %v", err)
	}
	if row != nil {
		t.Errorf("Get() absent row = %v, want nil", row)
	}

	rows, err := db.All(ctx, "SELECT id, v FROM raw_t")
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("All() returned %d rows, want 1", len(rows))
	}
}

// openTestDB creates a connected facade over a temporary database.
func openTestDB(t *testing.T) *DB {
	t.Helper()

	db := New(filepath.Join(t.TempDir(), "test.db"), Options{})
	if err := db.Connect(context.Background()); err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}
