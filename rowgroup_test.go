package rowgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFixture constructs the 6-row row group used throughout this file's
// scenarios:
//
//	time:    1,2,3,4,5,6
//	region:  west,west,east,west,south,north
//	method:  GET,POST,POST,POST,PUT,GET
//	env:     prod,prod,stag,prod,NULL,NULL
//	counter: 100,101,200,203,203,10
func buildFixture(t *testing.T) *RowGroup {
	t.Helper()

	times := []int64{1, 2, 3, 4, 5, 6}
	str := func(s string) *string { return &s }
	uintp := func(u uint64) *uint64 { return &u }

	region := []*string{str("west"), str("west"), str("east"), str("west"), str("south"), str("north")}
	method := []*string{str("GET"), str("POST"), str("POST"), str("POST"), str("PUT"), str("GET")}
	env := []*string{str("prod"), str("prod"), str("stag"), str("prod"), nil, nil}
	counter := []*uint64{uintp(100), uintp(101), uintp(200), uintp(203), uintp(203), uintp(10)}

	columns := map[string]ColumnDef{
		"time":    {Role: ColumnRoleTime, Column: NewTimeColumn(times)},
		"region":  {Role: ColumnRoleTag, Column: NewTagColumn(region)},
		"method":  {Role: ColumnRoleTag, Column: NewTagColumn(method)},
		"env":     {Role: ColumnRoleTag, Column: NewTagColumn(env)},
		"counter": {Role: ColumnRoleField, Column: NewUintFieldColumn(counter)},
	}
	return New(6, columns, DefaultEngineConfig())
}

func valuesToStrings(vals []Value) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.String()
	}
	return out
}

func TestReadFilter_S1_TimeRangeAllRows(t *testing.T) {
	rg := buildFixture(t)
	predicates := BuildPredicatesWithTime("time", 1, 6, nil)

	result := rg.ReadFilter([]string{"counter", "region", "time"}, predicates)

	require.Equal(t, []string{"counter", "region", "time"}, result.Columns)
	require.Len(t, result.Values, 3)
	assert.Equal(t, []string{"100", "101", "200", "203", "203"}, valuesToStrings(result.Values[0]))
	assert.Equal(t, []string{"west", "west", "east", "west", "south"}, valuesToStrings(result.Values[1]))
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, valuesToStrings(result.Values[2]))
}

func TestReadFilter_S2_NegativeLowerBound(t *testing.T) {
	rg := buildFixture(t)
	predicates := BuildPredicatesWithTime("time", -19, 2, nil)

	result := rg.ReadFilter([]string{"time", "region", "method"}, predicates)

	assert.Equal(t, []string{"1"}, valuesToStrings(result.Values[0]))
	assert.Equal(t, []string{"west"}, valuesToStrings(result.Values[1]))
	assert.Equal(t, []string{"GET"}, valuesToStrings(result.Values[2]))
}

func TestReadFilter_S3_TimeAndMethodConjunction(t *testing.T) {
	rg := buildFixture(t)
	predicates := BuildPredicatesWithTime("time", 0, 6, []Predicate{
		{Column: "method", Op: OpEqual, Value: StringValue("POST")},
	})

	result := rg.ReadFilter([]string{"counter", "method", "time"}, predicates)

	assert.Equal(t, []string{"101", "200", "203"}, valuesToStrings(result.Values[0]))
	assert.Equal(t, []string{"POST", "POST", "POST"}, valuesToStrings(result.Values[1]))
	assert.Equal(t, []string{"2", "3", "4"}, valuesToStrings(result.Values[2]))
}

// groupRowKey renders a GroupRow's key columns joined with "/", matching the
// "region/method" shorthand the scenarios are described with.
func groupRowKey(r GroupRow) string {
	out := ""
	for i, v := range r.Key {
		if i > 0 {
			out += "/"
		}
		out += v.String()
	}
	return out
}

func TestReadGroup_S4_RegionMethodSum(t *testing.T) {
	rg := buildFixture(t)
	predicates := BuildPredicatesWithTime("time", 0, 7, nil)

	result, err := rg.ReadGroup([]string{"region", "method"}, []Aggregate{
		{Column: "counter", Kind: AggregateSum},
	}, predicates)
	require.NoError(t, err)

	got := map[string]string{}
	for _, row := range result.Rows {
		got[groupRowKey(row)] = row.Aggregates[0].String()
	}

	assert.Equal(t, map[string]string{
		"east/POST": "200",
		"north/GET": "10",
		"south/PUT": "203",
		"west/GET":  "100",
		"west/POST": "304",
	}, got)
}

func TestReadGroup_S5_EnvRegionSumAndCount(t *testing.T) {
	rg := buildFixture(t)
	predicates := BuildPredicatesWithTime("time", 2, 6, nil)

	result, err := rg.ReadGroup([]string{"env", "region"}, []Aggregate{
		{Column: "counter", Kind: AggregateSum},
		{Column: "counter", Kind: AggregateCount},
	}, predicates)
	require.NoError(t, err)

	type sumCount struct{ sum, count string }
	got := map[string]sumCount{}
	for _, row := range result.Rows {
		got[groupRowKey(row)] = sumCount{row.Aggregates[0].String(), row.Aggregates[1].String()}
	}

	assert.Equal(t, map[string]sumCount{
		"NULL/south": {"203", "1"},
		"prod/west":  {"304", "2"},
		"stag/east":  {"200", "1"},
	}, got)
}

func TestReadGroup_S6_SingleColumnKernel(t *testing.T) {
	rg := buildFixture(t)
	predicates := BuildPredicatesWithTime("time", 0, 7, nil)

	result, err := rg.ReadGroup([]string{"method"}, []Aggregate{
		{Column: "counter", Kind: AggregateSum},
	}, predicates)
	require.NoError(t, err)

	got := map[string]string{}
	for _, row := range result.Rows {
		got[groupRowKey(row)] = row.Aggregates[0].String()
	}

	assert.Equal(t, map[string]string{
		"GET":  "110",
		"POST": "504",
		"PUT":  "203",
	}, got)
}

func TestColumnCouldSatisfyPredicate_RegionPruning(t *testing.T) {
	rg := buildFixture(t)

	cases := []struct {
		name string
		op   Op
		v    Value
		want bool
	}{
		{"eq-west", OpEqual, StringValue("west"), true},
		{"eq-abc", OpEqual, StringValue("abc"), false},
		{"neq-hello", OpNotEqual, StringValue("hello"), true},
		{"gt-west", OpGreater, StringValue("west"), false},
		{"gte-zoo", OpGreaterEqual, StringValue("zoo"), false},
		{"lt-east", OpLess, StringValue("east"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := rg.ColumnCouldSatisfyPredicate("region", tc.op, tc.v)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestColumnCouldSatisfyPredicate_ConstantColumnNotEqual(t *testing.T) {
	times := []int64{1, 2}
	str := func(s string) *string { return &s }
	method := []*string{str("GET"), str("GET")}

	columns := map[string]ColumnDef{
		"time":   {Role: ColumnRoleTime, Column: NewTimeColumn(times)},
		"method": {Role: ColumnRoleTag, Column: NewTagColumn(method)},
	}
	rg := New(2, columns, DefaultEngineConfig())

	got := rg.ColumnCouldSatisfyPredicate("method", OpNotEqual, StringValue("GET"))
	assert.False(t, got)
}

func TestColumnCouldSatisfyPredicate_AllNullColumnNeverSatisfies(t *testing.T) {
	times := []int64{1, 2}
	columns := map[string]ColumnDef{
		"time":   {Role: ColumnRoleTime, Column: NewTimeColumn(times)},
		"region": {Role: ColumnRoleTag, Column: NewTagColumn([]*string{nil, nil})},
	}
	rg := New(2, columns, DefaultEngineConfig())

	assert.False(t, rg.ColumnCouldSatisfyPredicate("region", OpEqual, StringValue("west")))
	assert.False(t, rg.ColumnCouldSatisfyPredicate("region", OpNotEqual, StringValue("west")))
}

func TestReadGroup_EmptyGroupColumnsReturnsNoRows(t *testing.T) {
	rg := buildFixture(t)
	result, err := rg.ReadGroup(nil, []Aggregate{{Column: "counter", Kind: AggregateSum}}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
}

func TestReadGroup_PredicateOrderIsCommutative(t *testing.T) {
	rg := buildFixture(t)

	a := []Predicate{
		{Column: "time", Op: OpGreaterEqual, Value: IntValue(0)},
		{Column: "time", Op: OpLess, Value: IntValue(7)},
		{Column: "method", Op: OpEqual, Value: StringValue("POST")},
	}
	b := []Predicate{
		{Column: "method", Op: OpEqual, Value: StringValue("POST")},
		{Column: "time", Op: OpGreaterEqual, Value: IntValue(0)},
		{Column: "time", Op: OpLess, Value: IntValue(7)},
	}

	ra, err := rg.ReadGroup([]string{"region"}, []Aggregate{{Column: "counter", Kind: AggregateSum}}, a)
	require.NoError(t, err)
	rb, err := rg.ReadGroup([]string{"region"}, []Aggregate{{Column: "counter", Kind: AggregateSum}}, b)
	require.NoError(t, err)

	toMap := func(gr GroupResult) map[string]string {
		m := map[string]string{}
		for _, row := range gr.Rows {
			m[groupRowKey(row)] = row.Aggregates[0].String()
		}
		return m
	}
	assert.Equal(t, toMap(ra), toMap(rb))
}

func TestReadGroup_RejectsFirstLastUpFront(t *testing.T) {
	rg := buildFixture(t)
	_, err := rg.ReadGroup([]string{"region"}, []Aggregate{{Column: "counter", Kind: AggregateFirst}}, nil)
	require.Error(t, err)

	var engErr *EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, ErrorKindUnimplemented, engErr.Kind)
}
