package rowgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryRequest_ValidPayload(t *testing.T) {
	payload := []byte(`{
		"columns": ["time", "region"],
		"predicates": [
			{"column": "time", "op": ">=", "value": 0},
			{"column": "region", "op": "=", "value": "west"}
		]
	}`)

	req, err := ParseQueryRequest(payload)
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "region"}, req.Columns)

	predicates, err := req.Predicates()
	require.NoError(t, err)
	require.Len(t, predicates, 2)
	assert.Equal(t, "time", predicates[0].Column)
	assert.Equal(t, OpGreaterEqual, predicates[0].Op)
	i, ok := predicates[0].Value.Int()
	require.True(t, ok)
	assert.Equal(t, int64(0), i)

	assert.Equal(t, "region", predicates[1].Column)
	assert.Equal(t, OpEqual, predicates[1].Op)
	s, ok := predicates[1].Value.Str()
	require.True(t, ok)
	assert.Equal(t, "west", s)
}

func TestParseQueryRequest_MissingRequiredField(t *testing.T) {
	payload := []byte(`{"predicates": []}`)
	_, err := ParseQueryRequest(payload)
	assert.Error(t, err)
}

func TestParseQueryRequest_UnknownOperatorFailsAtTranslation(t *testing.T) {
	payload := []byte(`{
		"columns": ["time"],
		"predicates": [{"column": "time", "op": "~=", "value": 1}]
	}`)

	req, err := ParseQueryRequest(payload)
	require.NoError(t, err)

	_, err = req.Predicates()
	assert.Error(t, err)
}

func TestParseGroupRequest_ValidPayload(t *testing.T) {
	payload := []byte(`{
		"groupColumns": ["region", "method"],
		"aggregates": [{"column": "counter", "kind": "sum"}],
		"predicates": []
	}`)

	req, err := ParseGroupRequest(payload)
	require.NoError(t, err)

	aggregates, err := req.Aggregates()
	require.NoError(t, err)
	require.Len(t, aggregates, 1)
	assert.Equal(t, "counter", aggregates[0].Column)
	assert.Equal(t, AggregateSum, aggregates[0].Kind)
}

func TestParseGroupRequest_UnknownAggregateKind(t *testing.T) {
	payload := []byte(`{
		"groupColumns": ["region"],
		"aggregates": [{"column": "counter", "kind": "median"}]
	}`)

	req, err := ParseGroupRequest(payload)
	require.NoError(t, err)

	_, err = req.Aggregates()
	assert.Error(t, err)
}

func TestJSONToValue_IntFloatStringBoolNull(t *testing.T) {
	v, err := jsonToValue(float64(42))
	require.NoError(t, err)
	i, ok := v.Int()
	require.True(t, ok)
	assert.Equal(t, int64(42), i)

	v, err = jsonToValue(float64(1.5))
	require.NoError(t, err)
	f, ok := v.Float()
	require.True(t, ok)
	assert.Equal(t, 1.5, f)

	v, err = jsonToValue("hi")
	require.NoError(t, err)
	s, ok := v.Str()
	require.True(t, ok)
	assert.Equal(t, "hi", s)

	v, err = jsonToValue(true)
	require.NoError(t, err)
	b, ok := v.Bool()
	require.True(t, ok)
	assert.True(t, b)

	v, err = jsonToValue(nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	_, err = jsonToValue([]any{1, 2})
	assert.Error(t, err)
}
