package rowgroup

// packedKey128 is the group key for kernel 3 (§4.6): up to four columns'
// encoded ids, each a uint32, packed two-per-half into a plain comparable
// Go struct. Being comparable, it can key a native Go map directly — no
// extra hash function is needed the way the five-or-more-column case
// requires one (§4.7, §9 explains why zeebo/xxh3 was not pulled in here:
// the struct is already usable as a map key without hashing it by hand).
type packedKey128 struct {
	Hi, Lo uint64
}

func packKey128(ids []uint32) packedKey128 {
	at := func(i int) uint64 {
		if i < len(ids) {
			return uint64(ids[i])
		}
		return 0
	}
	return packedKey128{
		Hi: at(3)<<32 | at(2),
		Lo: at(1)<<32 | at(0),
	}
}

func unpackKey128(k packedKey128, n int) []uint32 {
	parts := [4]uint32{
		uint32(k.Lo),
		uint32(k.Lo >> 32),
		uint32(k.Hi),
		uint32(k.Hi >> 32),
	}
	return append([]uint32(nil), parts[:n]...)
}

// groupByPackedKey is kernel 3 (§4.6): two to four grouping columns, keyed
// by packing their encoded ids into a packedKey128 and reducing through a
// native Go map.
func (rg *RowGroup) groupByPackedKey(groupColumns []string, plan RowIDsOption, aggregates []Aggregate) ([]GroupRow, error) {
	cols := make([]Column, len(groupColumns))
	for i, name := range groupColumns {
		cols[i] = rg.column(name)
	}
	aggCols := make([]Column, len(aggregates))
	for i, agg := range aggregates {
		aggCols[i] = rg.column(agg.Column)
	}

	ids := rg.candidateRowIDs(plan)

	encBufs := make([][]uint32, len(cols))
	for i, col := range cols {
		encBufs[i] = col.EncodedValues(ids, nil)
	}

	type bucket struct {
		key  packedKey128
		rows []uint32
	}
	index := make(map[packedKey128]*bucket, len(ids))
	var order []*bucket

	keyBuf := make([]uint32, len(cols))
	for rowIdx, rowID := range ids {
		for i := range cols {
			keyBuf[i] = encBufs[i][rowIdx]
		}
		pk := packKey128(keyBuf)
		b, ok := index[pk]
		if !ok {
			b = &bucket{key: pk}
			index[pk] = b
			order = append(order, b)
		}
		b.rows = append(b.rows, rowID)
	}

	rows := make([]GroupRow, 0, len(order))
	for _, b := range order {
		aggVals, err := aggregateGroup(aggCols, aggregates, b.rows)
		if err != nil {
			return nil, err
		}
		decodedIDs := unpackKey128(b.key, len(cols))
		key := make([]Value, len(cols))
		for i, col := range cols {
			key[i] = col.DecodeID(decodedIDs[i])
		}
		rows = append(rows, GroupRow{Key: key, Aggregates: aggVals})
	}
	return rows, nil
}
