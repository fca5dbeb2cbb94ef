package rowgroup

import (
	"fmt"
	"sort"
)

// ColumnRange is the (min, max) extent of a column's non-null values.
type ColumnRange struct {
	Min, Max Value
}

// RowGroup is an immutable horizontal slice of a table's rows, sharing a
// common logical row count R (§3). Every operation on it is a read; there
// is no mutation API, matching §5's concurrency model.
type RowGroup struct {
	rows int
	cfg  *EngineConfig

	columnNames []string // sorted by name, for stable iteration
	columns     map[string]Column
	roles       map[string]ColumnRole
	ranges      map[string]ColumnRange

	timeColumn string
	timeRange  ColumnRange

	size uint64
}

// ColumnDef pairs a physical Column with its schema role, the construction
// input to New (§6: "new(R, columns: name → ColumnType{Tag|Field|Time})").
type ColumnDef struct {
	Role   ColumnRole
	Column Column
}

// New constructs a RowGroup. It panics on any structurally invalid input,
// per §7: missing/multiple time columns, row-count mismatch, duplicate
// names, or an all-null time column are all programmer errors.
func New(rows int, columns map[string]ColumnDef, cfg *EngineConfig) *RowGroup {
	if cfg == nil {
		cfg = DefaultEngineConfig()
	}

	rg := &RowGroup{
		rows:    rows,
		cfg:     cfg,
		columns: make(map[string]Column, len(columns)),
		roles:   make(map[string]ColumnRole, len(columns)),
		ranges:  make(map[string]ColumnRange, len(columns)),
	}

	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	timeCount := 0
	for _, name := range names {
		def := columns[name]
		if def.Column.NumRows() != rows {
			panic(fmt.Sprintf("rowgroup: column %q has %d rows, expected %d", name, def.Column.NumRows(), rows))
		}
		if _, dup := rg.columns[name]; dup {
			panic(fmt.Sprintf("rowgroup: duplicate column name %q", name))
		}

		rg.columnNames = append(rg.columnNames, name)
		rg.columns[name] = def.Column
		rg.roles[name] = def.Role

		if lo, hi, ok := def.Column.Range(); ok {
			rg.ranges[name] = ColumnRange{Min: lo, Max: hi}
		}

		if def.Role == ColumnRoleTime {
			timeCount++
			rg.timeColumn = name
			lo, hi, ok := def.Column.Range()
			if !ok {
				panic(fmt.Sprintf("rowgroup: time column %q must not be all-null", name))
			}
			if lo.Kind() != ValueKindInt || hi.Kind() != ValueKindInt {
				panic(fmt.Sprintf("rowgroup: time column %q must be signed 64-bit scalar", name))
			}
			rg.timeRange = ColumnRange{Min: lo, Max: hi}
		}
	}

	if timeCount != 1 {
		panic(fmt.Sprintf("rowgroup: exactly one time column is required, found %d", timeCount))
	}

	rg.size = rg.estimateSize()
	return rg
}

// Rows returns R, the row group's logical row count.
func (rg *RowGroup) Rows() int { return rg.rows }

// Size returns an estimate of the row group's in-memory byte size, used by
// the enclosing table layer for eviction/compaction decisions (§6).
func (rg *RowGroup) Size() uint64 { return rg.size }

func (rg *RowGroup) estimateSize() uint64 {
	// Rough accounting: treat every materialized Value as a fixed-size
	// slot; this is a planning estimate, not an exact byte count (the
	// column encodings' internal representation is out of scope per §1).
	const bytesPerValue = 16
	return uint64(rg.rows) * uint64(len(rg.columns)) * bytesPerValue
}

// TimeRange returns the non-null (min, max) of the time column.
func (rg *RowGroup) TimeRange() (int64, int64) {
	lo, _ := rg.timeRange.Min.Int()
	hi, _ := rg.timeRange.Max.Int()
	return lo, hi
}

// TimeColumn returns the name of the row group's single time column.
func (rg *RowGroup) TimeColumn() string { return rg.timeColumn }

// ColumnRanges returns a copy of the per-column value ranges (§3: "The
// column_ranges map has an entry for every column [with at least one
// non-null value]").
func (rg *RowGroup) ColumnRanges() map[string]ColumnRange {
	out := make(map[string]ColumnRange, len(rg.ranges))
	for k, v := range rg.ranges {
		out[k] = v
	}
	return out
}

// ColumnNames returns the column names sorted by name.
func (rg *RowGroup) ColumnNames() []string {
	out := make([]string, len(rg.columnNames))
	copy(out, rg.columnNames)
	return out
}

// Role reports the schema role of a column; ok is false if it doesn't exist.
func (rg *RowGroup) Role(name string) (ColumnRole, bool) {
	r, ok := rg.roles[name]
	return r, ok
}

func (rg *RowGroup) column(name string) Column {
	c, ok := rg.columns[name]
	if !ok {
		panic(fmt.Sprintf("rowgroup: unknown column %q", name))
	}
	return c
}
