package rowgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackedKey128RoundTrip(t *testing.T) {
	cases := [][]uint32{
		{1},
		{1, 2},
		{1, 2, 3},
		{7, 0, 42, 4294967295},
	}
	for _, ids := range cases {
		packed := packKey128(ids)
		got := unpackKey128(packed, len(ids))
		assert.Equal(t, ids, got)
	}
}

func TestVectorKeyTableGetOrInsert(t *testing.T) {
	table := newVectorKeyTable(4)

	k1 := []uint32{1, 2, 3}
	hash1, _ := hashKeyBytes(k1, nil)
	e1 := table.getOrInsert(k1, hash1)
	e1.rows = append(e1.rows, 10)

	// A second lookup with an equal but distinct key slice must return the
	// same entry (no duplicate allocation on a hit).
	k1Copy := []uint32{1, 2, 3}
	hash1Copy, _ := hashKeyBytes(k1Copy, nil)
	e1Again := table.getOrInsert(k1Copy, hash1Copy)
	assert.Same(t, e1, e1Again)
	assert.Equal(t, []uint32{10}, e1Again.rows)

	k2 := []uint32{3, 2, 1}
	hash2, _ := hashKeyBytes(k2, nil)
	e2 := table.getOrInsert(k2, hash2)
	assert.NotSame(t, e1, e2)
}

func TestVectorKeyTableGrowPreservesEntries(t *testing.T) {
	table := newVectorKeyTable(2)
	want := map[string][]uint32{}

	for i := uint32(0); i < 50; i++ {
		key := []uint32{i, i * 2}
		hash, _ := hashKeyBytes(key, nil)
		entry := table.getOrInsert(key, hash)
		entry.rows = append(entry.rows, i)
		want[string(hashKeyBytesDebug(key))] = append([]uint32(nil), entry.rows...)
	}

	entries := table.entries()
	require.Len(t, entries, 50)
	seen := map[string]bool{}
	for _, e := range entries {
		seen[string(hashKeyBytesDebug(e.key))] = true
	}
	assert.Len(t, seen, 50)
}

// hashKeyBytesDebug renders a key as a comparable string for test-only
// bookkeeping; it does not exercise any production hashing path.
func hashKeyBytesDebug(key []uint32) []byte {
	out := make([]byte, 0, len(key)*4)
	for _, id := range key {
		out = append(out, byte(id), byte(id>>8), byte(id>>16), byte(id>>24))
	}
	return out
}

// TestGroupByKernelsAgree builds a fixture with two RLE-backed tag columns
// and calls each of the three multi-column kernels (all-RLE, packed-key,
// vector-key) directly over the same unpredicated request, asserting the
// result sets agree regardless of which kernel answered.
func TestGroupByKernelsAgree(t *testing.T) {
	rg := buildFixture(t)
	aggregates := []Aggregate{{Column: "counter", Kind: AggregateSum}}

	allRLE, err := rg.groupByAllRLE([]string{"region", "method"}, aggregates)
	require.NoError(t, err)

	plan := rg.rowIDsFromPredicates(nil)
	packed, err := rg.groupByPackedKey([]string{"region", "method"}, plan, aggregates)
	require.NoError(t, err)

	vector, err := rg.groupByVectorKey([]string{"region", "method"}, plan, aggregates)
	require.NoError(t, err)

	toSet := func(rows []GroupRow) map[string]string {
		m := map[string]string{}
		for _, r := range rows {
			m[groupRowKey(r)] = r.Aggregates[0].String()
		}
		return m
	}

	want := toSet(allRLE)
	assert.Equal(t, want, toSet(packed))
	assert.Equal(t, want, toSet(vector))
}

// TestGroupByKernelsAgree_IncludesNullGroupingValues guards against the
// all-RLE kernel dropping rows whose RLE-backed grouping column is null: env
// is null on two of the fixture's six rows, and an unpredicated group-by over
// env/region routes to the all-RLE kernel, so its null bucket must surface a
// "NULL/..." group just like the other kernels do via EncodedValues.
func TestGroupByKernelsAgree_IncludesNullGroupingValues(t *testing.T) {
	rg := buildFixture(t)
	aggregates := []Aggregate{{Column: "counter", Kind: AggregateSum}}

	allRLE, err := rg.groupByAllRLE([]string{"env", "region"}, aggregates)
	require.NoError(t, err)

	plan := rg.rowIDsFromPredicates(nil)
	packed, err := rg.groupByPackedKey([]string{"env", "region"}, plan, aggregates)
	require.NoError(t, err)

	toSet := func(rows []GroupRow) map[string]string {
		m := map[string]string{}
		for _, r := range rows {
			m[groupRowKey(r)] = r.Aggregates[0].String()
		}
		return m
	}

	want := map[string]string{
		"prod/west":  "404",
		"stag/east":  "200",
		"NULL/south": "203",
		"NULL/north": "10",
	}
	assert.Equal(t, want, toSet(allRLE))
	assert.Equal(t, want, toSet(packed))
}

func TestSelectGroupByKernel(t *testing.T) {
	rg := buildFixture(t)

	// No predicates, low cardinality, RLE-backed columns -> all-RLE.
	assert.Equal(t, kernelAllRLE, rg.selectGroupByKernel([]string{"region", "method"}, nil))

	// A predicate disqualifies the all-RLE kernel even if columns are RLE.
	predicated := []Predicate{{Column: "method", Op: OpEqual, Value: StringValue("GET")}}
	assert.Equal(t, kernelPackedKey, rg.selectGroupByKernel([]string{"region", "method"}, predicated))

	// Single grouping column always uses the single-column kernel.
	assert.Equal(t, kernelSingleColumn, rg.selectGroupByKernel([]string{"region"}, predicated))

	// Lowering the cardinality ceiling below the product of distinct values
	// forces the planner off the all-RLE kernel even with no predicates.
	rg.cfg.GroupBy.AllRLECardinalityCeiling = 1
	assert.Equal(t, kernelPackedKey, rg.selectGroupByKernel([]string{"region", "method"}, nil))
}
