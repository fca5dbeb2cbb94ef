package rowgroup

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Number is the set of scalar types a fixedColumn can store: every signed
// or unsigned integer width plus both float widths. A single generic
// implementation covers numeric field columns and the time column (int64
// microseconds, per the original design's §3 time column contract).
type Number interface {
	constraints.Integer | constraints.Float
}

// fixedColumn is a nullable fixed-width numeric column. Unlike
// dictionaryColumn it does not precompute grouped row ids: its
// Properties().HasPreComputedRowIDs is always false, so the group-by
// planner never routes it through the all-RLE kernel (§4.3, kernel 1
// requires every grouping column to have precomputed ids). It still
// exposes a dictionary for EncodedValues/DecodeID symmetry, built lazily on
// first use so construction of a plain filter/aggregate workload never
// pays for it.
type fixedColumn[T Number] struct {
	n      int
	values []T
	valid  []bool
	lo, hi T
	hasAny bool

	dict    []T
	idOf    map[T]uint32
	dictSet bool
}

// newFixedColumn builds a column from nullable numeric values (nil means
// null).
func newFixedColumn[T Number](values []*T) *fixedColumn[T] {
	n := len(values)
	vals := make([]T, n)
	valid := make([]bool, n)
	var lo, hi T
	hasAny := false
	for i, v := range values {
		if v == nil {
			continue
		}
		vals[i] = *v
		valid[i] = true
		if !hasAny {
			lo, hi = *v, *v
			hasAny = true
		} else {
			if *v < lo {
				lo = *v
			}
			if *v > hi {
				hi = *v
			}
		}
	}
	return &fixedColumn[T]{n: n, values: vals, valid: valid, lo: lo, hi: hi, hasAny: hasAny}
}

// newNonNullFixedColumn builds a column that is guaranteed fully populated,
// used for the time column (§3: "non-null, monotonic is typical but not
// required").
func newNonNullFixedColumn[T Number](values []T) *fixedColumn[T] {
	n := len(values)
	valid := make([]bool, n)
	for i := range valid {
		valid[i] = true
	}
	var lo, hi T
	if n > 0 {
		lo, hi = values[0], values[0]
		for _, v := range values[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return &fixedColumn[T]{n: n, values: append([]T(nil), values...), valid: valid, lo: lo, hi: hi, hasAny: n > 0}
}

func (c *fixedColumn[T]) NumRows() int { return c.n }

func (c *fixedColumn[T]) valueAt(row int) Value {
	if !c.valid[row] {
		return NullValue()
	}
	return numberToValue(c.values[row])
}

func (c *fixedColumn[T]) Range() (Value, Value, bool) {
	if !c.hasAny {
		return Value{}, Value{}, false
	}
	return numberToValue(c.lo), numberToValue(c.hi), true
}

func (c *fixedColumn[T]) Properties() ColumnProperties {
	return ColumnProperties{HasPreComputedRowIDs: false}
}

func (c *fixedColumn[T]) RowIDsFilter(op Op, v Value, dst RowIDs) RowIDsOption {
	return genericRowIDsFilter(c, op, v, dst)
}

func (c *fixedColumn[T]) RowIDsFilterRange(loOp Op, lo Value, hiOp Op, hi Value, dst RowIDs) RowIDsOption {
	return genericRowIDsFilterRange(c, loOp, lo, hiOp, hi, dst)
}

func (c *fixedColumn[T]) Values(rowIDs []uint32) []Value {
	out := make([]Value, len(rowIDs))
	for i, r := range rowIDs {
		out[i] = c.valueAt(int(r))
	}
	return out
}

func (c *fixedColumn[T]) AllValues() []Value {
	out := make([]Value, c.n)
	for i := range out {
		out[i] = c.valueAt(i)
	}
	return out
}

// ensureDict lazily builds the sorted distinct-value dictionary used for
// encoded ids; id 0 is reserved for null, matching dictionaryColumn.
func (c *fixedColumn[T]) ensureDict() {
	if c.dictSet {
		return
	}
	distinct := make(map[T]struct{})
	for i, v := range c.values {
		if c.valid[i] {
			distinct[v] = struct{}{}
		}
	}
	dict := make([]T, 0, len(distinct))
	for v := range distinct {
		dict = append(dict, v)
	}
	sort.Slice(dict, func(i, j int) bool { return dict[i] < dict[j] })
	idOf := make(map[T]uint32, len(dict))
	for i, v := range dict {
		idOf[v] = uint32(i + 1)
	}
	c.dict = dict
	c.idOf = idOf
	c.dictSet = true
}

func (c *fixedColumn[T]) EncodedValues(rowIDs []uint32, buf []uint32) []uint32 {
	c.ensureDict()
	out := buf[:0]
	for _, r := range rowIDs {
		if !c.valid[r] {
			out = append(out, 0)
			continue
		}
		out = append(out, c.idOf[c.values[r]])
	}
	return out
}

func (c *fixedColumn[T]) AllEncodedValues(buf []uint32) []uint32 {
	c.ensureDict()
	out := buf[:0]
	for i := 0; i < c.n; i++ {
		if !c.valid[i] {
			out = append(out, 0)
			continue
		}
		out = append(out, c.idOf[c.values[i]])
	}
	return out
}

func (c *fixedColumn[T]) DecodeID(id uint32) Value {
	c.ensureDict()
	if id == 0 {
		return NullValue()
	}
	return numberToValue(c.dict[id-1])
}

func (c *fixedColumn[T]) GroupedRowIDs() []RowIDs {
	panic("rowgroup: GroupedRowIDs called on a column without precomputed row ids")
}

func (c *fixedColumn[T]) Count(rowIDs []uint32) uint64 {
	var n uint64
	for _, r := range rowIDs {
		if c.valid[r] {
			n++
		}
	}
	return n
}

func (c *fixedColumn[T]) Sum(rowIDs []uint32) (Value, bool) {
	var sum T
	any := false
	for _, r := range rowIDs {
		if !c.valid[r] {
			continue
		}
		sum += c.values[r]
		any = true
	}
	if !any {
		return numberToValue(sum), true
	}
	return numberToValue(sum), true
}

func (c *fixedColumn[T]) Min(rowIDs []uint32) (Value, bool) {
	var best T
	found := false
	for _, r := range rowIDs {
		if !c.valid[r] {
			continue
		}
		if !found || c.values[r] < best {
			best = c.values[r]
			found = true
		}
	}
	if !found {
		return Value{}, false
	}
	return numberToValue(best), true
}

func (c *fixedColumn[T]) Max(rowIDs []uint32) (Value, bool) {
	var best T
	found := false
	for _, r := range rowIDs {
		if !c.valid[r] {
			continue
		}
		if !found || c.values[r] > best {
			best = c.values[r]
			found = true
		}
	}
	if !found {
		return Value{}, false
	}
	return numberToValue(best), true
}

// numberToValue converts a generic Number into the borrowed Value union.
// Signed integer types (including the time column's int64) become
// ValueKindInt; unsigned become ValueKindUint; float32/float64 become
// ValueKindFloat.
func numberToValue[T Number](v T) Value {
	switch any(v).(type) {
	case float32, float64:
		return FloatValue(float64(v))
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return UintValue(uint64(v))
	default:
		return IntValue(int64(v))
	}
}
