package rowgroup

// groupByAllRLE is kernel 1 (§4.4): when every grouping column has
// precomputed row ids and no predicate restricts the candidate rows, the
// group-by is a Cartesian product over each column's distinct values. The
// recursion intersects one bitmap per level and abandons a branch the
// moment the running intersection goes empty, so columns with few live
// combinations never pay for the full product.
func (rg *RowGroup) groupByAllRLE(groupColumns []string, aggregates []Aggregate) ([]GroupRow, error) {
	cols := make([]Column, len(groupColumns))
	grouped := make([][]RowIDs, len(groupColumns))
	for i, name := range groupColumns {
		col := rg.column(name)
		cols[i] = col
		grouped[i] = col.GroupedRowIDs()
	}

	aggCols := make([]Column, len(aggregates))
	for i, agg := range aggregates {
		aggCols[i] = rg.column(agg.Column)
	}

	var rows []GroupRow
	var recurseErr error
	keyIDs := make([]uint32, len(groupColumns))

	var recurse func(depth int, acc RowIDs, haveAcc bool)
	recurse = func(depth int, acc RowIDs, haveAcc bool) {
		if recurseErr != nil {
			return
		}
		if depth == len(groupColumns) {
			if !haveAcc {
				return
			}
			ids := acc.ToSorted(nil)
			if len(ids) == 0 {
				return
			}
			key := make([]Value, len(cols))
			for i, col := range cols {
				key[i] = col.DecodeID(keyIDs[i])
			}
			aggVals, err := aggregateGroup(aggCols, aggregates, ids)
			if err != nil {
				recurseErr = err
				return
			}
			rows = append(rows, GroupRow{Key: key, Aggregates: aggVals})
			return
		}

		for id, bmp := range grouped[depth] {
			if bmp.Cardinality() == 0 {
				continue
			}
			var next RowIDs
			if !haveAcc {
				next = bmp
			} else {
				scratch := NewRowIDsBitmap(rg.rows)
				next = acc.Intersect(bmp, scratch)
				if next.Cardinality() == 0 {
					continue
				}
			}
			keyIDs[depth] = uint32(id) // grouped[id] holds encoded id id, including id 0 for null
			recurse(depth+1, next, true)
		}
	}

	recurse(0, RowIDs{}, false)
	if recurseErr != nil {
		return nil, recurseErr
	}
	return rows, nil
}
