package rowgroup

// Predicate is a single column predicate: (column_name, (operator, value))
// per §6's "Predicate wire shape". The engine only evaluates a conjunction
// of these; disjunctive/nested predicates are an explicit non-goal (§1).
type Predicate struct {
	Column string
	Op     Op
	Value  Value
}

// BuildPredicatesWithTime is the convenience builder from §6: it prepends a
// half-open time range [from, to) to the caller's other predicates.
func BuildPredicatesWithTime(timeColumn string, from, to int64, others []Predicate) []Predicate {
	out := make([]Predicate, 0, len(others)+2)
	out = append(out, Predicate{Column: timeColumn, Op: OpGreaterEqual, Value: IntValue(from)})
	out = append(out, Predicate{Column: timeColumn, Op: OpLess, Value: IntValue(to)})
	out = append(out, others...)
	return out
}

// rowIDsFromPredicates is the predicate planner (§4.2). It assumes every
// referenced column exists — validation of unknown columns happens one
// layer up, in the enclosing table (§4.2, §7).
func (rg *RowGroup) rowIDsFromPredicates(predicates []Predicate) RowIDsOption {
	scratch := NewRowIDsBitmap(rg.rows)

	// Two-sided time range fast path: if exactly two predicates reference
	// the time column, treat the first as the lower bound and the second
	// as the upper bound (§4.2; §9 records the directionality assumption
	// as a deliberate, unchanged design decision).
	var timeIdx []int
	for i, p := range predicates {
		if p.Column == rg.timeColumn {
			timeIdx = append(timeIdx, i)
		}
	}

	remaining := predicates
	var fastPathResult *RowIDsOption
	if len(timeIdx) == 2 {
		lo := predicates[timeIdx[0]]
		hi := predicates[timeIdx[1]]
		col := rg.column(rg.timeColumn)
		res := col.RowIDsFilterRange(lo.Op, lo.Value, hi.Op, hi.Value, scratch)
		fastPathResult = &res

		remaining = make([]Predicate, 0, len(predicates)-2)
		skip := NewSet[int]()
		skip.Add(timeIdx[0])
		skip.Add(timeIdx[1])
		for i, p := range predicates {
			if !skip.Contains(i) {
				remaining = append(remaining, p)
			}
		}
	}

	var acc RowIDsOption
	haveAcc := false
	nextScratch := scratch

	if fastPathResult != nil {
		switch fastPathResult.Kind {
		case RowIDsNone:
			return noneRowIDs(fastPathResult.IDs)
		case RowIDsAll:
			nextScratch = fastPathResult.IDs
		case RowIDsSome:
			acc = *fastPathResult
			haveAcc = true
		}
	}

	for _, p := range remaining {
		col := rg.column(p.Column)
		res := col.RowIDsFilter(p.Op, p.Value, nextScratch)

		switch res.Kind {
		case RowIDsNone:
			return noneRowIDs(res.IDs)
		case RowIDsAll:
			nextScratch = res.IDs
			continue
		case RowIDsSome:
			if !haveAcc {
				// Seed the accumulator with a copy: res.IDs may be storage
				// the column owns (a dictionary column's grouped bitmap).
				acc = someRowIDs(res.IDs.Union(NewRowIDsBitmap(rg.rows), NewRowIDsBitmap(rg.rows)))
				haveAcc = true
			} else {
				merged := acc.IDs.Intersect(res.IDs, acc.IDs)
				acc = someRowIDs(merged)
			}
			nextScratch = res.IDs
		}
	}

	if !haveAcc {
		return allRowIDs(nextScratch)
	}
	return acc
}
