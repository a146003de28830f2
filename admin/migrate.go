package admin

import (
	"context"
	"fmt"
	"sort"

	"github.com/fluentlite/fluentlite"
	"github.com/fluentlite/fluentlite/schema"
)

// trackingTable is the table recording which migrations have been applied.
const trackingTable = "fluentlite_migrations"

// Migration is a single versioned schema change. Versions must be unique
// within a migration set; they apply in ascending order and roll back in
// descending order.
type Migration struct {
	Version int
	Name    string
	Up      func(ctx context.Context, db *fluentlite.DB) error
	Down    func(ctx context.Context, db *fluentlite.DB) error
}

// MigrationResult reports the outcome of one migration within a batch.
type MigrationResult struct {
	Version int
	Name    string
	Applied bool
	Err     error
}

// Migrator applies and rolls back versioned migrations through the
// facade's public operations.
type Migrator struct {
	db *fluentlite.DB
}

// NewMigrator returns a migrator bound to the facade.
func NewMigrator(db *fluentlite.DB) *Migrator {
	return &Migrator{db: db}
}

// Run applies every unapplied migration in ascending version order,
// inside one transaction.
//
// All-or-nothing: if any migration fails, the whole batch rolls back and
// no partial application survives. The returned result list records each
// attempted migration, including the failing one.
func (m *Migrator) Run(ctx context.Context, migrations []Migration) ([]MigrationResult, error) {
	if err := m.ensureTrackingTable(ctx); err != nil {
		return nil, err
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	ordered := make([]Migration, len(migrations))
	copy(ordered, migrations)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Version < ordered[j].Version
	})

	var results []MigrationResult
	txErr := m.db.Transaction(ctx, func(ctx context.Context) error {
		for _, mig := range ordered {
			if applied[mig.Version] {
				continue
			}
			if err := mig.Up(ctx, m.db); err != nil {
				results = append(results, MigrationResult{
					Version: mig.Version,
					Name:    mig.Name,
					Err:     err,
				})
				return fmt.Errorf("migration %d (%s): %w", mig.Version, mig.Name, err)
			}
			if _, err := m.db.Insert(ctx, trackingTable, fluentlite.Record{
				"version": mig.Version,
				"name":    mig.Name,
			}); err != nil {
				results = append(results, MigrationResult{
					Version: mig.Version,
					Name:    mig.Name,
					Err:     err,
				})
				return fmt.Errorf("recording migration %d: %w", mig.Version, err)
			}
			results = append(results, MigrationResult{
				Version: mig.Version,
				Name:    mig.Name,
				Applied: true,
			})
		}
		return nil
	}, nil)

	if txErr != nil {
		// The batch rolled back; mark everything unapplied.
		for i := range results {
			results[i].Applied = false
		}
		return results, txErr
	}
	return results, nil
}

// Rollback undoes the n most recently applied migrations in descending
// version order, inside one transaction. Each undone migration's tracking
// row is removed. Same all-or-nothing guarantee as Run.
//
// Migrations found in the tracking table but missing from the supplied
// set fail the batch: their Down procedure is unknown.
func (m *Migrator) Rollback(ctx context.Context, migrations []Migration, n int) ([]MigrationResult, error) {
	if err := m.ensureTrackingTable(ctx); err != nil {
		return nil, err
	}
	if n < 1 {
		n = 1
	}

	recent, err := m.db.Find(ctx, trackingTable, nil, &fluentlite.FindOptions{
		OrderBy: "version DESC",
		Limit:   n,
	})
	if err != nil {
		return nil, fmt.Errorf("loading applied migrations: %w", err)
	}

	byVersion := make(map[int]Migration, len(migrations))
	for _, mig := range migrations {
		byVersion[mig.Version] = mig
	}

	var results []MigrationResult
	txErr := m.db.Transaction(ctx, func(ctx context.Context) error {
		for _, row := range recent {
			version := int(rowInt(row, "version"))
			mig, ok := byVersion[version]
			if !ok {
				return fmt.Errorf("migration %d not found in supplied set", version)
			}
			if mig.Down == nil {
				return fmt.Errorf("migration %d (%s) has no down procedure", version, mig.Name)
			}
			if err := mig.Down(ctx, m.db); err != nil {
				results = append(results, MigrationResult{
					Version: version,
					Name:    mig.Name,
					Err:     err,
				})
				return fmt.Errorf("rolling back migration %d (%s): %w", version, mig.Name, err)
			}
			if _, err := m.db.Delete(ctx, trackingTable, fluentlite.Conditions{
				"version": version,
			}); err != nil {
				return fmt.Errorf("removing migration record %d: %w", version, err)
			}
			results = append(results, MigrationResult{
				Version: version,
				Name:    mig.Name,
				Applied: true,
			})
		}
		return nil
	}, nil)

	if txErr != nil {
		for i := range results {
			results[i].Applied = false
		}
		return results, txErr
	}
	return results, nil
}

// Status reports which of the supplied migrations are applied and which
// are pending.
func (m *Migrator) Status(ctx context.Context, migrations []Migration) (applied, pending []Migration, err error) {
	if err := m.ensureTrackingTable(ctx); err != nil {
		return nil, nil, err
	}

	appliedSet, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, nil, err
	}

	ordered := make([]Migration, len(migrations))
	copy(ordered, migrations)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Version < ordered[j].Version
	})

	for _, mig := range ordered {
		if appliedSet[mig.Version] {
			applied = append(applied, mig)
		} else {
			pending = append(pending, mig)
		}
	}
	return applied, pending, nil
}

// ensureTrackingTable creates the tracking table when absent.
func (m *Migrator) ensureTrackingTable(ctx context.Context) error {
	err := m.db.CreateTable(ctx, trackingTable, func(t *schema.Builder) {
		t.Integer("id").PrimaryKey().AutoIncrement()
		t.Integer("version").NotNull().Unique()
		t.Text("name").NotNull()
		t.Text("applied_at").Default("CURRENT_TIMESTAMP")
	}, nil)
	if err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}
	return nil
}

// appliedVersions loads the set of already-applied migration versions.
func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := m.db.Find(ctx, trackingTable, nil, &fluentlite.FindOptions{
		Columns: []string{"version"},
		OrderBy: "version ASC",
	})
	if err != nil {
		return nil, fmt.Errorf("loading applied migrations: %w", err)
	}
	versions := make(map[int]bool, len(rows))
	for _, row := range rows {
		versions[int(rowInt(row, "version"))] = true
	}
	return versions, nil
}

// rowInt reads an integer column from a result row.
func rowInt(row fluentlite.Row, column string) int64 {
	switch v := row[column].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
