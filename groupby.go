package rowgroup

import "time"

// GroupRow is one output row of a group-by: the grouping column values that
// identify the group, followed by one value per requested aggregate, in the
// same order as GroupResult.Aggregates.
type GroupRow struct {
	Key        []Value
	Aggregates []Value
}

// GroupResult is the `read_group` result shape from §6: the grouping
// columns and aggregates the caller asked for, plus one GroupRow per
// distinct combination of grouping values observed among matching rows.
// Row order is unspecified — callers that need a stable order should sort
// before comparing or rendering (§8: "results are asserted set-equal after
// sorting").
type GroupResult struct {
	GroupColumns []string
	Aggregates   []Aggregate
	Rows         []GroupRow
}

// groupByKernel identifies which of the four physical group-by
// implementations (§4.3-§4.7) answered a given request.
type groupByKernel uint8

const (
	kernelAllRLE groupByKernel = iota
	kernelSingleColumn
	kernelPackedKey
	kernelVectorKey
)

func (k groupByKernel) String() string {
	switch k {
	case kernelAllRLE:
		return "all_rle"
	case kernelSingleColumn:
		return "single_column"
	case kernelPackedKey:
		return "packed_key"
	case kernelVectorKey:
		return "vector_key"
	default:
		return "unknown"
	}
}

// ReadGroup computes grouped aggregates over rows matching predicates,
// dispatching to whichever kernel (§4.3) fits the request shape.
func (rg *RowGroup) ReadGroup(groupColumns []string, aggregates []Aggregate, predicates []Predicate) (GroupResult, error) {
	start := time.Now()

	if err := validateAggregates(aggregates); err != nil {
		return GroupResult{}, err
	}

	result := GroupResult{
		GroupColumns: append([]string(nil), groupColumns...),
		Aggregates:   append([]Aggregate(nil), aggregates...),
	}

	if len(groupColumns) == 0 {
		return result, nil
	}

	plan := rg.rowIDsFromPredicates(predicates)
	if plan.Kind == RowIDsNone {
		return result, nil
	}

	kernel := rg.selectGroupByKernel(groupColumns, predicates)

	var rows []GroupRow
	var err error
	switch kernel {
	case kernelAllRLE:
		rows, err = rg.groupByAllRLE(groupColumns, aggregates)
	case kernelSingleColumn:
		rows, err = rg.groupBySingleColumn(groupColumns[0], plan, aggregates)
	case kernelPackedKey:
		rows, err = rg.groupByPackedKey(groupColumns, plan, aggregates)
	default:
		rows, err = rg.groupByVectorKey(groupColumns, plan, aggregates)
	}
	if err != nil {
		return GroupResult{}, err
	}

	result.Rows = rows
	emitKernelLatency(kernel.String(), time.Since(start))
	scanned := rg.rows
	if plan.Kind == RowIDsSome {
		scanned = plan.IDs.Cardinality()
	}
	emitRowsScanned("read_group", scanned)
	return result, nil
}

// selectGroupByKernel implements §4.3's kernel-selection rules: the all-RLE
// Cartesian product kernel applies only to an unpredicated query whose
// grouping columns all carry precomputed row ids and whose combined
// cardinality stays under the configured ceiling (§9, resolving the
// original design's open question in favor of gating); otherwise the
// column-count-driven choice among the remaining three kernels applies.
func (rg *RowGroup) selectGroupByKernel(groupColumns []string, predicates []Predicate) groupByKernel {
	if len(predicates) == 0 {
		if eligible, product := rg.allRLEEligible(groupColumns); eligible && product <= rg.cfg.GroupBy.AllRLECardinalityCeiling {
			return kernelAllRLE
		}
	}

	switch {
	case len(groupColumns) <= 1:
		return kernelSingleColumn
	case len(groupColumns) <= 4:
		return kernelPackedKey
	default:
		return kernelVectorKey
	}
}

// allRLEEligible reports whether every grouping column has precomputed row
// ids, and if so the product of their encoded-id counts, i.e. distinct
// values plus the null bucket (the size of the Cartesian product the kernel
// would have to enumerate).
func (rg *RowGroup) allRLEEligible(groupColumns []string) (bool, int64) {
	if len(groupColumns) == 0 {
		return false, 0
	}
	product := int64(1)
	for _, name := range groupColumns {
		col := rg.column(name)
		if !col.Properties().HasPreComputedRowIDs {
			return false, 0
		}
		product *= int64(len(col.GroupedRowIDs()))
		if product < 0 {
			// overflowed int64: certainly over any realistic ceiling
			return true, product
		}
	}
	return true, product
}

// candidateRowIDs materializes the row ids a kernel should scan, given the
// predicate planner's result. Callers must not invoke this with a None
// plan; ReadGroup short-circuits that case before dispatch.
func (rg *RowGroup) candidateRowIDs(plan RowIDsOption) []uint32 {
	if plan.Kind == RowIDsAll {
		ids := make([]uint32, rg.rows)
		for i := range ids {
			ids[i] = uint32(i)
		}
		return ids
	}
	return plan.IDs.ToSorted(nil)
}

// aggregateGroup runs every requested aggregate over one group's row ids,
// shared by all four kernels. It reduces through the column's own
// Count/Sum/Min/Max capabilities (§4.1) rather than re-scanning materialized
// values, so a kernel-specific fast path for one aggregate never has to pay
// for a separate generic pass for another.
func aggregateGroup(aggCols []Column, aggregates []Aggregate, ids []uint32) ([]Value, error) {
	out := make([]Value, len(aggregates))
	for i, agg := range aggregates {
		col := aggCols[i]
		switch agg.Kind {
		case AggregateCount:
			out[i] = UintValue(col.Count(ids))
		case AggregateSum:
			v, ok := col.Sum(ids)
			if !ok {
				return nil, newEngineError(ErrorKindValidation, "column does not support sum").WithColumn(agg.Column)
			}
			out[i] = v
		case AggregateMin:
			if v, ok := col.Min(ids); ok {
				out[i] = v
			} else {
				out[i] = NullValue()
			}
		case AggregateMax:
			if v, ok := col.Max(ids); ok {
				out[i] = v
			} else {
				out[i] = NullValue()
			}
		case AggregateFirst, AggregateLast:
			return nil, newEngineError(ErrorKindUnimplemented, "aggregate kind %q is not implemented", agg.Kind).WithColumn(agg.Column)
		default:
			return nil, newEngineError(ErrorKindValidation, "unknown aggregate kind %q", agg.Kind).WithColumn(agg.Column)
		}
	}
	return out, nil
}
