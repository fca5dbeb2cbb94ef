package rowgroup

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// vectorKeyEntry is one bucket of the open-addressing table below: the
// group's encoded-id vector plus the row ids observed for it so far.
type vectorKeyEntry struct {
	key  []uint32
	rows []uint32
}

// vectorKeyTable is kernel 4's hash table (§4.7): open addressing over
// cespare/xxhash/v2 digests of the encoded-id vector's byte representation.
// getOrInsert follows a "raw entry" protocol — on a hit it hands back the
// existing entry with no allocation; only a miss allocates a new one, so a
// high-cardinality group-by scan doesn't allocate once per row.
type vectorKeyTable struct {
	buckets []*vectorKeyEntry
	mask    uint64
	count   int
}

func newVectorKeyTable(sizeHint int) *vectorKeyTable {
	size := 16
	for size < sizeHint*2 {
		size <<= 1
	}
	return &vectorKeyTable{buckets: make([]*vectorKeyEntry, size), mask: uint64(size - 1)}
}

func hashKeyBytes(key []uint32, buf []byte) (uint64, []byte) {
	buf = buf[:0]
	for _, id := range key {
		buf = binary.LittleEndian.AppendUint32(buf, id)
	}
	return xxhash.Sum64(buf), buf
}

func keyEquals(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// getOrInsert returns the entry for key, allocating one only on a miss.
func (t *vectorKeyTable) getOrInsert(key []uint32, hash uint64) *vectorKeyEntry {
	if t.count*2 >= len(t.buckets) {
		t.grow()
	}
	idx := hash & t.mask
	for {
		e := t.buckets[idx]
		if e == nil {
			e = &vectorKeyEntry{key: append([]uint32(nil), key...)}
			t.buckets[idx] = e
			t.count++
			return e
		}
		if keyEquals(e.key, key) {
			return e
		}
		idx = (idx + 1) & t.mask
	}
}

func (t *vectorKeyTable) grow() {
	old := t.buckets
	next := make([]*vectorKeyEntry, len(old)*2)
	mask := uint64(len(next) - 1)
	for _, e := range old {
		if e == nil {
			continue
		}
		hash, _ := hashKeyBytes(e.key, nil)
		idx := hash & mask
		for next[idx] != nil {
			idx = (idx + 1) & mask
		}
		next[idx] = e
	}
	t.buckets = next
	t.mask = mask
}

func (t *vectorKeyTable) entries() []*vectorKeyEntry {
	out := make([]*vectorKeyEntry, 0, t.count)
	for _, e := range t.buckets {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// groupByVectorKey is kernel 4 (§4.7): five or more grouping columns,
// keyed by hashing the encoded-id vector through vectorKeyTable instead of
// packing it into a fixed-width key.
func (rg *RowGroup) groupByVectorKey(groupColumns []string, plan RowIDsOption, aggregates []Aggregate) ([]GroupRow, error) {
	cols := make([]Column, len(groupColumns))
	for i, name := range groupColumns {
		cols[i] = rg.column(name)
	}
	aggCols := make([]Column, len(aggregates))
	for i, agg := range aggregates {
		aggCols[i] = rg.column(agg.Column)
	}

	ids := rg.candidateRowIDs(plan)
	table := newVectorKeyTable(len(ids))

	encBufs := make([][]uint32, len(cols))
	for i, col := range cols {
		encBufs[i] = col.EncodedValues(ids, nil)
	}

	keyBuf := make([]uint32, len(cols))
	var hashBuf []byte
	for rowIdx, rowID := range ids {
		for i := range cols {
			keyBuf[i] = encBufs[i][rowIdx]
		}
		var hash uint64
		hash, hashBuf = hashKeyBytes(keyBuf, hashBuf)
		entry := table.getOrInsert(keyBuf, hash)
		entry.rows = append(entry.rows, rowID)
	}

	entries := table.entries()
	rows := make([]GroupRow, 0, len(entries))
	for _, e := range entries {
		aggVals, err := aggregateGroup(aggCols, aggregates, e.rows)
		if err != nil {
			return nil, err
		}
		key := make([]Value, len(cols))
		for i, col := range cols {
			key[i] = col.DecodeID(e.key[i])
		}
		rows = append(rows, GroupRow{Key: key, Aggregates: aggVals})
	}
	return rows, nil
}
