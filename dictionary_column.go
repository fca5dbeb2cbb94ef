package rowgroup

import "sort"

// dictionaryColumn is a dictionary/RLE-encoded nullable string column, used
// for tag columns (original design §3); string field columns use
// stringColumn instead.
// Encoded id 0 is reserved for null; distinct non-null values are assigned
// ids 1..len(dict) in sorted order.
type dictionaryColumn struct {
	n       int
	dict    []string // id i (1-based against this slice, i.e. dict[i-1] is id i)
	ids     []uint32 // per-row encoded id, 0 == null
	grouped []RowIDs // grouped[id] == bitmap of rows holding encoded id, including the id-0 null bucket
	lo, hi  string
	hasRows bool
}

// newDictionaryColumn builds a dictionary column from nullable string
// values, nil meaning null.
func newDictionaryColumn(values []*string) *dictionaryColumn {
	n := len(values)
	distinct := make(map[string]struct{})
	for _, v := range values {
		if v != nil {
			distinct[*v] = struct{}{}
		}
	}
	dict := make([]string, 0, len(distinct))
	for s := range distinct {
		dict = append(dict, s)
	}
	sort.Strings(dict)

	idOf := make(map[string]uint32, len(dict))
	for i, s := range dict {
		idOf[s] = uint32(i + 1)
	}

	ids := make([]uint32, n)
	var lo, hi string
	first := true
	for i, v := range values {
		if v == nil {
			continue
		}
		ids[i] = idOf[*v]
		if first {
			lo, hi = *v, *v
			first = false
		} else {
			if *v < lo {
				lo = *v
			}
			if *v > hi {
				hi = *v
			}
		}
	}

	// grouped[0] is the null bucket so every row, including unset ones,
	// lands in exactly one group (original source row_group.rs's RLE
	// dictionary reserves the same slot for its null entry).
	grouped := make([]RowIDs, len(dict)+1)
	for i := range grouped {
		grouped[i] = NewRowIDsBitmap(n)
	}
	for row, id := range ids {
		grouped[id].Set(row)
	}

	return &dictionaryColumn{
		n:       n,
		dict:    dict,
		ids:     ids,
		grouped: grouped,
		lo:      lo,
		hi:      hi,
		hasRows: !first,
	}
}

func (c *dictionaryColumn) NumRows() int { return c.n }

func (c *dictionaryColumn) Range() (Value, Value, bool) {
	if !c.hasRows {
		return Value{}, Value{}, false
	}
	return StringValue(c.lo), StringValue(c.hi), true
}

func (c *dictionaryColumn) Properties() ColumnProperties {
	return ColumnProperties{HasPreComputedRowIDs: true}
}

func (c *dictionaryColumn) encodedIDFor(v Value) (uint32, bool) {
	s, ok := v.Str()
	if !ok {
		return 0, false
	}
	idx := sort.SearchStrings(c.dict, s)
	if idx < len(c.dict) && c.dict[idx] == s {
		return uint32(idx + 1), true
	}
	return 0, false
}

func (c *dictionaryColumn) RowIDsFilter(op Op, v Value, dst RowIDs) RowIDsOption {
	if op == OpEqual {
		id, ok := c.encodedIDFor(v)
		if !ok {
			return noneRowIDs(dst)
		}
		bmp := c.grouped[id]
		if bmp.Cardinality() == c.n {
			return allRowIDs(dst)
		}
		if bmp.Cardinality() == 0 {
			return noneRowIDs(dst)
		}
		return someRowIDs(bmp)
	}
	return genericRowIDsFilter(c, op, v, dst)
}

func (c *dictionaryColumn) RowIDsFilterRange(loOp Op, lo Value, hiOp Op, hi Value, dst RowIDs) RowIDsOption {
	return genericRowIDsFilterRange(c, loOp, lo, hiOp, hi, dst)
}

func (c *dictionaryColumn) valueAt(row int) Value {
	id := c.ids[row]
	if id == 0 {
		return NullValue()
	}
	return StringValue(c.dict[id-1])
}

func (c *dictionaryColumn) Values(rowIDs []uint32) []Value {
	out := make([]Value, len(rowIDs))
	for i, r := range rowIDs {
		out[i] = c.valueAt(int(r))
	}
	return out
}

func (c *dictionaryColumn) AllValues() []Value {
	out := make([]Value, c.n)
	for i := range out {
		out[i] = c.valueAt(i)
	}
	return out
}

func (c *dictionaryColumn) EncodedValues(rowIDs []uint32, buf []uint32) []uint32 {
	out := buf[:0]
	for _, r := range rowIDs {
		out = append(out, c.ids[r])
	}
	return out
}

func (c *dictionaryColumn) AllEncodedValues(buf []uint32) []uint32 {
	out := buf[:0]
	out = append(out, c.ids...)
	return out
}

func (c *dictionaryColumn) DecodeID(id uint32) Value {
	if id == 0 {
		return NullValue()
	}
	return StringValue(c.dict[id-1])
}

func (c *dictionaryColumn) GroupedRowIDs() []RowIDs {
	return c.grouped
}

func (c *dictionaryColumn) Count(rowIDs []uint32) uint64 {
	var n uint64
	for _, r := range rowIDs {
		if c.ids[r] != 0 {
			n++
		}
	}
	return n
}

func (c *dictionaryColumn) Sum(rowIDs []uint32) (Value, bool) { return Value{}, false }

func (c *dictionaryColumn) Min(rowIDs []uint32) (Value, bool) {
	var best string
	found := false
	for _, r := range rowIDs {
		id := c.ids[r]
		if id == 0 {
			continue
		}
		s := c.dict[id-1]
		if !found || s < best {
			best = s
			found = true
		}
	}
	if !found {
		return Value{}, false
	}
	return StringValue(best), true
}

func (c *dictionaryColumn) Max(rowIDs []uint32) (Value, bool) {
	var best string
	found := false
	for _, r := range rowIDs {
		id := c.ids[r]
		if id == 0 {
			continue
		}
		s := c.dict[id-1]
		if !found || s > best {
			best = s
			found = true
		}
	}
	if !found {
		return Value{}, false
	}
	return StringValue(best), true
}
