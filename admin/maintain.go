package admin

import (
	"context"
	"fmt"

	"github.com/fluentlite/fluentlite"
)

// ConfigReport is a snapshot of engine-level configuration.
type ConfigReport struct {
	Version     string
	Encoding    string
	PageSize    int64
	PageCount   int64
	BusyTimeout int64
}

// Optimize compacts the database file and refreshes the engine's query
// planner statistics.
func Optimize(ctx context.Context, db *fluentlite.DB) error {
	if err := db.Exec(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("compacting database: %w", err)
	}
	if err := db.Exec(ctx, "ANALYZE"); err != nil {
		return fmt.Errorf("refreshing statistics: %w", err)
	}
	return nil
}

// IntegrityCheck runs the engine's own consistency check and reports
// whether it passed cleanly.
func IntegrityCheck(ctx context.Context, db *fluentlite.DB) (bool, error) {
	row, err := db.Get(ctx, "PRAGMA integrity_check")
	if err != nil {
		return false, fmt.Errorf("checking integrity: %w", err)
	}
	if row == nil {
		return false, nil
	}
	return stringValue(row["integrity_check"]) == "ok", nil
}

// Configuration reads the engine's version, encoding, page geometry and
// busy timeout.
func Configuration(ctx context.Context, db *fluentlite.DB) (*ConfigReport, error) {
	report := &ConfigReport{}

	row, err := db.Get(ctx, "SELECT sqlite_version() AS version")
	if err != nil {
		return nil, fmt.Errorf("reading engine version: %w", err)
	}
	if row != nil {
		report.Version = stringValue(row["version"])
	}

	pragmas := []struct {
		name string
		set  func(fluentlite.Row)
	}{
		{"encoding", func(r fluentlite.Row) { report.Encoding = stringValue(r["encoding"]) }},
		{"page_size", func(r fluentlite.Row) { report.PageSize = rowInt(r, "page_size") }},
		{"page_count", func(r fluentlite.Row) { report.PageCount = rowInt(r, "page_count") }},
		{"busy_timeout", func(r fluentlite.Row) { report.BusyTimeout = rowInt(r, "timeout") }},
	}
	for _, p := range pragmas {
		row, err := db.Get(ctx, "PRAGMA "+p.name)
		if err != nil {
			return nil, fmt.Errorf("reading pragma %s: %w", p.name, err)
		}
		if row != nil {
			p.set(row)
		}
	}
	return report, nil
}
