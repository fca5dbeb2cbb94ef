package rowgroup

import (
	"fmt"
	"sort"
	"strings"
)

// Render produces the canonical CSV-like text for a Filter result (§6): a
// header line of column names, then one line per matching row, NULL for
// absent values, with a trailing newline after the last row.
func (fr FilterResult) Render() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(fr.Columns, ","))
	sb.WriteString("\n")

	rows := 0
	if len(fr.Values) > 0 {
		rows = len(fr.Values[0])
	}
	parts := make([]string, len(fr.Columns))
	for r := 0; r < rows; r++ {
		for c := range fr.Columns {
			parts[c] = fr.Values[c][r].String()
		}
		sb.WriteString(strings.Join(parts, ","))
		sb.WriteString("\n")
	}
	return sb.String()
}

// SortedRows returns a copy of the result's rows ordered by group key, so
// that the nondeterministic hash-iteration order of the group-by kernels
// (§5) doesn't leak into anything that needs a stable order, such as
// rendering or a caller that wants the diff-friendly output.
func (gr GroupResult) SortedRows() []GroupRow {
	rows := append([]GroupRow(nil), gr.Rows...)
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].Key, rows[j].Key
		for k := range a {
			if c := a[k].Compare(b[k]); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return rows
}

// Render produces the canonical CSV-like text for a Group result (§6):
// group-column names followed by aggregate descriptors named
// "{column}_{kind}", then one line per group with group values followed by
// aggregate values. Rows are emitted in SortedRows order.
func (gr GroupResult) Render() string {
	var sb strings.Builder

	headers := make([]string, 0, len(gr.GroupColumns)+len(gr.Aggregates))
	headers = append(headers, gr.GroupColumns...)
	for _, agg := range gr.Aggregates {
		headers = append(headers, fmt.Sprintf("%s_%s", agg.Column, agg.Kind))
	}
	sb.WriteString(strings.Join(headers, ","))
	sb.WriteString("\n")

	for _, row := range gr.SortedRows() {
		parts := make([]string, 0, len(row.Key)+len(row.Aggregates))
		for _, v := range row.Key {
			parts = append(parts, v.String())
		}
		for _, v := range row.Aggregates {
			parts = append(parts, v.String())
		}
		sb.WriteString(strings.Join(parts, ","))
		sb.WriteString("\n")
	}
	return sb.String()
}
