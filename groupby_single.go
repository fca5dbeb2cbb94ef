package rowgroup

// groupBySingleColumn is kernel 2 (§4.5): grouping by exactly one column
// needs no hashing at all. Encoded ids are small dense integers, so rows
// are bucketed by direct-addressing into a slice sized to the largest id
// observed among the candidate rows.
func (rg *RowGroup) groupBySingleColumn(column string, plan RowIDsOption, aggregates []Aggregate) ([]GroupRow, error) {
	col := rg.column(column)
	aggCols := make([]Column, len(aggregates))
	for i, agg := range aggregates {
		aggCols[i] = rg.column(agg.Column)
	}

	ids := rg.candidateRowIDs(plan)
	encoded := col.EncodedValues(ids, nil)

	maxID := uint32(0)
	for _, id := range encoded {
		if id > maxID {
			maxID = id
		}
	}

	buckets := make([][]uint32, maxID+1)
	for i, id := range encoded {
		buckets[id] = append(buckets[id], ids[i])
	}

	var rows []GroupRow
	for id := uint32(0); id <= maxID; id++ {
		bucket := buckets[id]
		if len(bucket) == 0 {
			continue
		}
		aggVals, err := aggregateGroup(aggCols, aggregates, bucket)
		if err != nil {
			return nil, err
		}
		rows = append(rows, GroupRow{Key: []Value{col.DecodeID(id)}, Aggregates: aggVals})
	}
	return rows, nil
}
