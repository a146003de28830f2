package schema

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

// TestBuild verifies column rendering with modifiers in call order.
func TestBuild(t *testing.T) {
	b := NewBuilder()
	b.Integer("id").PrimaryKey().AutoIncrement()
	b.Text("name").NotNull().Unique()
	b.Real("score").Default(0)

	columns, constraints, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantColumns := []string{
		"id INTEGER PRIMARY KEY AUTOINCREMENT",
		"name TEXT NOT NULL UNIQUE",
		"score REAL DEFAULT 0",
	}
	if !reflect.DeepEqual(columns, wantColumns) {
		t.Errorf("columns = %v, want %v", columns, wantColumns)
	}
	if len(constraints) != 0 {
		t.Errorf("constraints = %v, want none", constraints)
	}
}

// TestBuildIdempotent verifies repeated builds return the same result.
func TestBuildIdempotent(t *testing.T) {
	b := NewBuilder()
	b.Integer("id").PrimaryKey()
	b.Text("name")
	b.UniqueOn("name")

	first, firstCons, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	second, secondCons, err := b.Build()
	if err != nil {
		t.Fatalf("Build() second call error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("columns differ between builds: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(firstCons, secondCons) {
		t.Errorf("constraints differ between builds: %v vs %v", firstCons, secondCons)
	}
}

// TestModifierWithoutColumn verifies the state error for a modifier call
// with no declared column.
func TestModifierWithoutColumn(t *testing.T) {
	modifiers := map[string]func(*Builder) *Builder{
		"PrimaryKey":    func(b *Builder) *Builder { return b.PrimaryKey() },
		"AutoIncrement": func(b *Builder) *Builder { return b.AutoIncrement() },
		"NotNull":       func(b *Builder) *Builder { return b.NotNull() },
		"Unique":        func(b *Builder) *Builder { return b.Unique() },
		"Default":       func(b *Builder) *Builder { return b.Default(1) },
		"Check":         func(b *Builder) *Builder { return b.Check("x > 0") },
		"Collate":       func(b *Builder) *Builder { return b.Collate("NOCASE") },
	}

	for name, call := range modifiers {
		t.Run(name, func(t *testing.T) {
			b := NewBuilder()
			call(b)
			_, _, err := b.Build()
			if !errors.Is(err, ErrNoColumn) {
				t.Errorf("Build() error = %v, want ErrNoColumn", err)
			}
		})
	}
}

// TestDefaultRendering verifies literal rendering for the supported
// default value kinds.
func TestDefaultRendering(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "col TEXT DEFAULT NULL"},
		{"string", "it's", "col TEXT DEFAULT 'it''s'"},
		{"current timestamp", "CURRENT_TIMESTAMP", "col TEXT DEFAULT CURRENT_TIMESTAMP"},
		{"bool true", true, "col TEXT DEFAULT 1"},
		{"bool false", false, "col TEXT DEFAULT 0"},
		{
			"time",
			time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			"col TEXT DEFAULT '2026-03-01T12:00:00Z'",
		},
		{"integer", 42, "col TEXT DEFAULT 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			b.Text("col").Default(tt.value)
			columns, _, err := b.Build()
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if columns[0] != tt.want {
				t.Errorf("column = %q, want %q", columns[0], tt.want)
			}
		})
	}
}

// TestDate verifies the date convenience column.
func TestDate(t *testing.T) {
	b := NewBuilder()
	b.Date("created_at")

	columns, _, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := "created_at TEXT DEFAULT CURRENT_TIMESTAMP"
	if columns[0] != want {
		t.Errorf("column = %q, want %q", columns[0], want)
	}
}

// TestForeignKey verifies the multi-step foreign key accumulation.
func TestForeignKey(t *testing.T) {
	t.Run("full chain", func(t *testing.T) {
		b := NewBuilder()
		b.Integer("owner_id")
		b.ForeignKey("owner_id").References("users.id").OnDelete("CASCADE").OnUpdate("SET NULL")

		_, constraints, err := b.Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		want := "FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE ON UPDATE SET NULL"
		if constraints[0] != want {
			t.Errorf("constraint = %q, want %q", constraints[0], want)
		}
	})

	t.Run("bare foreign key", func(t *testing.T) {
		b := NewBuilder()
		b.ForeignKey("owner_id")

		_, constraints, err := b.Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if constraints[0] != "FOREIGN KEY (owner_id)" {
			t.Errorf("constraint = %q", constraints[0])
		}
	})

	t.Run("on delete before references is dropped", func(t *testing.T) {
		b := NewBuilder()
		b.ForeignKey("owner_id").OnDelete("CASCADE").References("users.id")

		_, constraints, err := b.Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		// The early OnDelete must vanish silently.
		want := "FOREIGN KEY (owner_id) REFERENCES users(id)"
		if constraints[0] != want {
			t.Errorf("constraint = %q, want %q", constraints[0], want)
		}
	})

	t.Run("references without foreign key is dropped", func(t *testing.T) {
		b := NewBuilder()
		b.Integer("id")
		b.References("users.id")

		_, constraints, err := b.Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if len(constraints) != 0 {
			t.Errorf("constraints = %v, want none", constraints)
		}
	})

	t.Run("amendments target the last foreign key", func(t *testing.T) {
		b := NewBuilder()
		b.ForeignKey("a_id").References("a.id")
		b.ForeignKey("b_id").References("b.id").OnDelete("CASCADE")

		_, constraints, err := b.Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if constraints[0] != "FOREIGN KEY (a_id) REFERENCES a(id)" {
			t.Errorf("first constraint = %q", constraints[0])
		}
		if constraints[1] != "FOREIGN KEY (b_id) REFERENCES b(id) ON DELETE CASCADE" {
			t.Errorf("second constraint = %q", constraints[1])
		}
	})
}

// TestTableConstraints verifies the non-foreign-key constraint variants.
func TestTableConstraints(t *testing.T) {
	b := NewBuilder()
	b.Integer("a")
	b.Integer("b")
	b.PrimaryKeyOn("a", "b")
	b.UniqueOn("b")
	b.CheckConstraint("a > 0")

	_, constraints, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := []string{
		"PRIMARY KEY (a, b)",
		"UNIQUE (b)",
		"CHECK (a > 0)",
	}
	if !reflect.DeepEqual(constraints, want) {
		t.Errorf("constraints = %v, want %v", constraints, want)
	}
}

// TestCheckAndCollate verifies the remaining column modifiers.
func TestCheckAndCollate(t *testing.T) {
	b := NewBuilder()
	b.Text("email").Check("email LIKE '%@%'").Collate("NOCASE")

	columns, _, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := "email TEXT CHECK (email LIKE '%@%') COLLATE NOCASE"
	if columns[0] != want {
		t.Errorf("column = %q, want %q", columns[0], want)
	}
}
