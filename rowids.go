package rowgroup

import (
	"sort"

	"github.com/apache/arrow-go/v18/arrow/bitutil"
)

// RowIDs holds a set of row indices in [0, R). Two physical representations
// are supported, matching the original design's "bitmap or sorted vector"
// choice: whichever one a given producer can build cheapest. The bitmap
// representation reuses apache/arrow-go's bitutil byte-buffer bitmap
// primitives (popcount, AND, OR) instead of a hand-rolled bit-twiddling
// implementation.
type RowIDs struct {
	bitmap []byte // nil when using the vector representation
	nbits  int    // logical length of bitmap, in bits (== row group R)
	sorted []uint32
}

// NewRowIDsBitmap allocates an empty bitmap-backed RowIDs over n rows.
func NewRowIDsBitmap(n int) RowIDs {
	return RowIDs{bitmap: make([]byte, bitutil.BytesForBits(int64(n))), nbits: n}
}

// NewRowIDsSorted wraps an already-sorted, duplicate-free slice of row ids.
func NewRowIDsSorted(ids []uint32) RowIDs {
	return RowIDs{sorted: ids}
}

// IsBitmap reports whether r uses the bitmap physical representation.
func (r RowIDs) IsBitmap() bool { return r.bitmap != nil }

// Set marks row i as present. Only valid on a bitmap-backed RowIDs.
func (r RowIDs) Set(i int) {
	bitutil.SetBit(r.bitmap, i)
}

// Test reports whether row i is present.
func (r RowIDs) Test(i int) bool {
	if r.IsBitmap() {
		return bitutil.BitIsSet(r.bitmap, i)
	}
	idx := sort.Search(len(r.sorted), func(k int) bool { return r.sorted[k] >= uint32(i) })
	return idx < len(r.sorted) && r.sorted[idx] == uint32(i)
}

// Cardinality returns the number of rows present.
func (r RowIDs) Cardinality() int {
	if r.IsBitmap() {
		return bitutil.CountSetBits(r.bitmap, 0, r.nbits)
	}
	return len(r.sorted)
}

// ToSorted materializes the row ids as a sorted, duplicate-free slice,
// reusing dst's storage when it has enough capacity.
func (r RowIDs) ToSorted(dst []uint32) []uint32 {
	if !r.IsBitmap() {
		out := dst[:0]
		return append(out, r.sorted...)
	}
	out := dst[:0]
	for i := 0; i < r.nbits; i++ {
		if bitutil.BitIsSet(r.bitmap, i) {
			out = append(out, uint32(i))
		}
	}
	return out
}

// Union returns the set union of r and other, writing into dst's backing
// array when possible. Both operands must share the same physical
// representation for the fast bitmap path; mixed representations fall back
// to a merge over materialized sorted slices.
func (r RowIDs) Union(other RowIDs, dst RowIDs) RowIDs {
	if r.IsBitmap() && other.IsBitmap() && dst.IsBitmap() {
		bitutil.BitmapOr(r.bitmap, other.bitmap, 0, 0, dst.bitmap, 0, int64(r.nbits))
		dst.nbits = r.nbits
		return dst
	}
	a := r.ToSorted(nil)
	b := other.ToSorted(nil)
	return NewRowIDsSorted(mergeSortedUnion(a, b))
}

// Intersect returns the set intersection of r and other.
func (r RowIDs) Intersect(other RowIDs, dst RowIDs) RowIDs {
	if r.IsBitmap() && other.IsBitmap() && dst.IsBitmap() {
		bitutil.BitmapAnd(r.bitmap, other.bitmap, 0, 0, dst.bitmap, 0, int64(r.nbits))
		dst.nbits = r.nbits
		return dst
	}
	a := r.ToSorted(nil)
	b := other.ToSorted(nil)
	return NewRowIDsSorted(mergeSortedIntersect(a, b))
}

func mergeSortedUnion(a, b []uint32) []uint32 {
	out := make([]uint32, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

func mergeSortedIntersect(a, b []uint32) []uint32 {
	out := make([]uint32, 0, minInt(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// RowIDsOptionKind tags the three-way result used to short-circuit scans.
type RowIDsOptionKind uint8

const (
	// RowIDsNone means no row satisfies the predicate.
	RowIDsNone RowIDsOptionKind = iota
	// RowIDsSome means exactly the carried RowIDs satisfy the predicate.
	RowIDsSome
	// RowIDsAll means every row in the column satisfies the predicate.
	RowIDsAll
)

// RowIDsOption is the {None, Some(ids), All(ids)} result every column
// filter operation returns, per the original design's §4.1 contract.
type RowIDsOption struct {
	Kind RowIDsOptionKind
	IDs  RowIDs
}

func noneRowIDs(scratch RowIDs) RowIDsOption {
	return RowIDsOption{Kind: RowIDsNone, IDs: scratch}
}

func allRowIDs(scratch RowIDs) RowIDsOption {
	return RowIDsOption{Kind: RowIDsAll, IDs: scratch}
}

func someRowIDs(ids RowIDs) RowIDsOption {
	return RowIDsOption{Kind: RowIDsSome, IDs: ids}
}
