// Package ingest holds the external loaders that build a rowgroup.RowGroup
// from systems outside the immutable read path: Postgres, DuckDB, and S3.
// None of this package's state is itself part of a RowGroup; it only
// produces one.
package ingest

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/lychee-technology/rowgroup"
)

// pgxQuerier is the minimal surface FromPostgres needs out of a pool or
// connection. *pgxpool.Pool satisfies it directly; tests substitute
// pgxmock's pool mock so FromPostgres never has to open a real database.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ColumnSchema declares how a loader should classify and decode one result
// column: its row-group role and, for field columns, whether the
// underlying value is numeric or textual.
type ColumnSchema struct {
	Role    rowgroup.ColumnRole
	Numeric bool // consulted only when Role == ColumnRoleField
}

// FromPostgres runs `SELECT * FROM table` over pool, classifies each
// returned column via schema, and constructs a RowGroup column-by-column.
// It is grounded on the pgx pool wiring in factory.NewEntityManagerWithConfig
// and the information_schema query pattern in
// factory.collectTablesFromPool.
func FromPostgres(ctx context.Context, pool pgxQuerier, table string, schema map[string]ColumnSchema, cfg *rowgroup.EngineConfig) (*rowgroup.RowGroup, error) {
	rows, err := pool.Query(ctx, fmt.Sprintf("SELECT * FROM %s", table))
	if err != nil {
		return nil, fmt.Errorf("ingest: query %s: %w", table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f.Name)
	}

	raw := make([][]any, len(names))
	n := 0
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("ingest: scan row %d of %s: %w", n, table, err)
		}
		for i, v := range vals {
			raw[i] = append(raw[i], v)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ingest: iterate %s: %w", table, err)
	}

	columns := make(map[string]rowgroup.ColumnDef, len(names))
	for i, name := range names {
		def, ok := schema[name]
		if !ok {
			zap.S().Warnw("ingest: column has no schema entry, skipping", "table", table, "column", name)
			continue
		}
		col, err := buildColumn(def, raw[i])
		if err != nil {
			return nil, fmt.Errorf("ingest: column %q: %w", name, err)
		}
		columns[name] = rowgroup.ColumnDef{Role: def.Role, Column: col}
	}

	return rowgroup.New(n, columns, cfg), nil
}

func buildColumn(def ColumnSchema, raw []any) (rowgroup.Column, error) {
	switch def.Role {
	case rowgroup.ColumnRoleTime:
		values := make([]int64, len(raw))
		for i, v := range raw {
			ts, err := coerceTimeValue(v)
			if err != nil {
				return nil, err
			}
			values[i] = ts
		}
		return rowgroup.NewTimeColumn(values), nil
	case rowgroup.ColumnRoleTag:
		return rowgroup.NewTagColumn(coerceNullableStrings(raw)), nil
	default:
		if def.Numeric {
			return rowgroup.NewFloatFieldColumn(coerceNullableFloats(raw)), nil
		}
		return rowgroup.NewStringFieldColumn(coerceNullableStrings(raw)), nil
	}
}

// coerceTimeValue accepts the handful of Go types pgx commonly decodes a
// timestamp/bigint column into: time.Time (converted to Unix microseconds),
// or any integer type already representing epoch time.
func coerceTimeValue(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int32:
		return int64(t), nil
	case int:
		return int64(t), nil
	default:
		if stringer, ok := v.(interface{ UnixMicro() int64 }); ok {
			return stringer.UnixMicro(), nil
		}
		return 0, fmt.Errorf("ingest: unsupported time column value of type %T", v)
	}
}

func coerceNullableStrings(raw []any) []*string {
	out := make([]*string, len(raw))
	for i, v := range raw {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			out[i] = &s
			continue
		}
		s := fmt.Sprintf("%v", v)
		out[i] = &s
	}
	return out
}

func coerceNullableFloats(raw []any) []*float64 {
	out := make([]*float64, len(raw))
	for i, v := range raw {
		if v == nil {
			continue
		}
		switch f := v.(type) {
		case float64:
			out[i] = &f
		case float32:
			val := float64(f)
			out[i] = &val
		case int64:
			val := float64(f)
			out[i] = &val
		case int32:
			val := float64(f)
			out[i] = &val
		}
	}
	return out
}
