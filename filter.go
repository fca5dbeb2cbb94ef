package rowgroup

import "time"

// FilterResult is the `(column_name, Values)` list `read_filter` returns
// (§6). Columns appear in the order requested.
type FilterResult struct {
	Columns []string
	Values  [][]Value // Values[i] holds the column Columns[i]'s materialized values, one per matching row
}

// ReadFilter returns the materialized logical values of the requested
// columns for rows matching the predicate conjunction (§1, §4.2). An empty
// predicate list matches every row.
func (rg *RowGroup) ReadFilter(columns []string, predicates []Predicate) FilterResult {
	start := time.Now()
	defer func() { emitKernelLatency("read_filter", time.Since(start)) }()

	plan := rg.rowIDsFromPredicates(predicates)

	result := FilterResult{Columns: append([]string(nil), columns...), Values: make([][]Value, len(columns))}

	switch plan.Kind {
	case RowIDsNone:
		for i := range columns {
			result.Values[i] = nil
		}
		return result
	case RowIDsAll:
		for i, name := range columns {
			result.Values[i] = rg.column(name).AllValues()
		}
		emitRowsScanned("read_filter", rg.rows)
		return result
	default:
		ids := plan.IDs.ToSorted(nil)
		for i, name := range columns {
			result.Values[i] = rg.column(name).Values(ids)
		}
		emitRowsScanned("read_filter", len(ids))
		return result
	}
}
