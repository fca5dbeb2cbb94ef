package ingest

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/lychee-technology/rowgroup"
)

// FromDuckDB builds a RowGroup directly from Arrow record batches — the
// format duckdb-go/v2's Arrow query path returns from the same DuckDB
// connection OpenDuckDB opens through database/sql.
// Dictionary-encoded string arrays feed tag columns; Int64/Float64 arrays
// feed the time and numeric field columns. Callers obtain reader from
// duckdb-go/v2's Arrow export entry point and hand it to FromDuckDB already
// positioned at the first batch; FromDuckDB releases it when done.
func FromDuckDB(reader array.RecordReader, schema map[string]ColumnSchema, cfg *rowgroup.EngineConfig) (*rowgroup.RowGroup, error) {
	defer reader.Release()

	var fieldNames []string
	tagValues := map[string][]*string{}
	floatValues := map[string][]*float64{}
	stringValues := map[string][]*string{}
	var timeValues []int64
	var timeColumn string
	rows := 0

	for reader.Next() {
		rec := reader.Record()
		if fieldNames == nil {
			fieldNames = rec.Schema().FieldNames()
		}
		for i, name := range fieldNames {
			def, ok := schema[name]
			if !ok {
				continue
			}
			col := rec.Column(i)
			switch def.Role {
			case rowgroup.ColumnRoleTime:
				timeColumn = name
				timeValues = append(timeValues, arrowInt64Values(col)...)
			case rowgroup.ColumnRoleTag:
				tagValues[name] = append(tagValues[name], arrowStringValues(col)...)
			default:
				if def.Numeric {
					floatValues[name] = append(floatValues[name], arrowFloatValues(col)...)
				} else {
					stringValues[name] = append(stringValues[name], arrowStringValues(col)...)
				}
			}
		}
		rows += int(rec.NumRows())
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("ingest: read duckdb arrow batches: %w", err)
	}
	if timeColumn == "" {
		return nil, fmt.Errorf("ingest: schema does not designate a time column")
	}

	columns := make(map[string]rowgroup.ColumnDef, len(fieldNames))
	columns[timeColumn] = rowgroup.ColumnDef{Role: rowgroup.ColumnRoleTime, Column: rowgroup.NewTimeColumn(timeValues)}
	for name, vals := range tagValues {
		columns[name] = rowgroup.ColumnDef{Role: rowgroup.ColumnRoleTag, Column: rowgroup.NewTagColumn(vals)}
	}
	for name, vals := range floatValues {
		columns[name] = rowgroup.ColumnDef{Role: rowgroup.ColumnRoleField, Column: rowgroup.NewFloatFieldColumn(vals)}
	}
	for name, vals := range stringValues {
		columns[name] = rowgroup.ColumnDef{Role: rowgroup.ColumnRoleField, Column: rowgroup.NewStringFieldColumn(vals)}
	}

	return rowgroup.New(rows, columns, cfg), nil
}

func arrowInt64Values(col arrow.Array) []int64 {
	arr, ok := col.(*array.Int64)
	if !ok {
		return make([]int64, col.Len())
	}
	out := make([]int64, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		if arr.IsValid(i) {
			out[i] = arr.Value(i)
		}
	}
	return out
}

func arrowFloatValues(col arrow.Array) []*float64 {
	arr, ok := col.(*array.Float64)
	if !ok {
		return make([]*float64, col.Len())
	}
	out := make([]*float64, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		if arr.IsValid(i) {
			v := arr.Value(i)
			out[i] = &v
		}
	}
	return out
}

func arrowStringValues(col arrow.Array) []*string {
	switch arr := col.(type) {
	case *array.String:
		out := make([]*string, arr.Len())
		for i := 0; i < arr.Len(); i++ {
			if arr.IsValid(i) {
				v := arr.Value(i)
				out[i] = &v
			}
		}
		return out
	case *array.Dictionary:
		dict, ok := arr.Dictionary().(*array.String)
		if !ok {
			return make([]*string, arr.Len())
		}
		out := make([]*string, arr.Len())
		for i := 0; i < arr.Len(); i++ {
			if arr.IsValid(i) {
				v := dict.Value(arr.GetValueIndex(i))
				out[i] = &v
			}
		}
		return out
	default:
		return make([]*string, col.Len())
	}
}
