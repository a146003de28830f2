package admin

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fluentlite/fluentlite"
)

// ColumnInfo describes one column as reported by the engine's metadata.
type ColumnInfo struct {
	Name       string
	Type       string
	NotNull    bool
	Default    any
	PrimaryKey bool
}

// IndexInfo describes one index on a table.
type IndexInfo struct {
	Name   string
	Unique bool
}

// DatabaseStats aggregates database-wide statistics.
type DatabaseStats struct {
	TableCount int
	TotalRows  int64
	FileSize   int64
	ModifiedAt time.Time
}

// TableStats holds per-table statistics. SizeEstimate is a heuristic,
// not an engine-reported figure.
type TableStats struct {
	Name         string
	RowCount     int64
	ColumnCount  int
	IndexCount   int
	SizeEstimate int64
}

// sizeEstimateBytesPerCell is the heuristic cell weight used by
// TableStatistics.
const sizeEstimateBytesPerCell = 32

// Tables lists user tables in the schema catalog, excluding the engine's
// internal tables.
func Tables(ctx context.Context, db *fluentlite.DB) ([]string, error) {
	rows, err := db.All(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name, ok := row["name"].(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// Columns lists the columns of a table via the engine's table_info pragma.
func Columns(ctx context.Context, db *fluentlite.DB, table string) ([]ColumnInfo, error) {
	rows, err := db.All(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("inspecting columns of %s: %w", table, err)
	}
	columns := make([]ColumnInfo, 0, len(rows))
	for _, row := range rows {
		columns = append(columns, ColumnInfo{
			Name:       stringValue(row["name"]),
			Type:       stringValue(row["type"]),
			NotNull:    rowInt(row, "notnull") != 0,
			Default:    row["dflt_value"],
			PrimaryKey: rowInt(row, "pk") != 0,
		})
	}
	return columns, nil
}

// Indexes lists the indexes on a table via the engine's index_list pragma.
func Indexes(ctx context.Context, db *fluentlite.DB, table string) ([]IndexInfo, error) {
	rows, err := db.All(ctx, fmt.Sprintf("PRAGMA index_list(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("inspecting indexes of %s: %w", table, err)
	}
	indexes := make([]IndexInfo, 0, len(rows))
	for _, row := range rows {
		indexes = append(indexes, IndexInfo{
			Name:   stringValue(row["name"]),
			Unique: rowInt(row, "unique") != 0,
		})
	}
	return indexes, nil
}

// Statistics aggregates database-wide statistics: table count, total row
// count summed per table, file size and modification time.
func Statistics(ctx context.Context, db *fluentlite.DB) (*DatabaseStats, error) {
	tables, err := Tables(ctx, db)
	if err != nil {
		return nil, err
	}

	stats := &DatabaseStats{TableCount: len(tables)}
	for _, table := range tables {
		count, err := db.Count(ctx, table, nil)
		if err != nil {
			return nil, err
		}
		stats.TotalRows += count
	}

	if info, err := os.Stat(db.Path()); err == nil {
		stats.FileSize = info.Size()
		stats.ModifiedAt = info.ModTime()
	}
	return stats, nil
}

// TableStatistics reports row, column and index counts for one table
// plus a heuristic size estimate (rows x columns x 32 bytes).
func TableStatistics(ctx context.Context, db *fluentlite.DB, table string) (*TableStats, error) {
	count, err := db.Count(ctx, table, nil)
	if err != nil {
		return nil, err
	}
	columns, err := Columns(ctx, db, table)
	if err != nil {
		return nil, err
	}
	indexes, err := Indexes(ctx, db, table)
	if err != nil {
		return nil, err
	}

	return &TableStats{
		Name:         table,
		RowCount:     count,
		ColumnCount:  len(columns),
		IndexCount:   len(indexes),
		SizeEstimate: count * int64(len(columns)) * sizeEstimateBytesPerCell,
	}, nil
}

// stringValue coerces a row value to string.
func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
