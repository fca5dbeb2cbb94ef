package rowgroup

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// PredicateWire is the JSON wire shape of a single predicate (§6:
// "Predicate wire shape" generalized to JSON): {"column":"...",
// "op":"...", "value": ...}.
type PredicateWire struct {
	Column string `json:"column"`
	Op     string `json:"op"`
	Value  any    `json:"value"`
}

// AggregateWire is the JSON wire shape of one (column, kind) aggregate
// descriptor.
type AggregateWire struct {
	Column string `json:"column"`
	Kind   string `json:"kind"`
}

// QueryRequest is the JSON request envelope for read_filter: the requested
// output columns plus a predicate conjunction. It is the HTTP-facing
// analogue of the core's (columns, predicates) argument pair.
type QueryRequest struct {
	Columns    []string        `json:"columns"`
	Predicates []PredicateWire `json:"predicates"`
}

// GroupRequest is the JSON request envelope for read_group.
type GroupRequest struct {
	GroupColumns []string        `json:"groupColumns"`
	Aggregates   []AggregateWire `json:"aggregates"`
	Predicates   []PredicateWire `json:"predicates"`
}

// querySchemaDoc and groupSchemaDoc are JSON Schema documents describing
// the wire envelopes above. They are validated with google/jsonschema-go
// the same way internal/transformer.go validates a caller-supplied schema
// against a JSON payload, before the envelope is unmarshaled into a Go
// struct and translated into []Predicate/[]Aggregate.
var querySchemaDoc = map[string]any{
	"type":     "object",
	"required": []string{"columns"},
	"properties": map[string]any{
		"columns": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"predicates": map[string]any{
			"type":  "array",
			"items": predicateSchemaDoc,
		},
	},
}

var groupSchemaDoc = map[string]any{
	"type":     "object",
	"required": []string{"groupColumns", "aggregates"},
	"properties": map[string]any{
		"groupColumns": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"aggregates": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"column", "kind"},
				"properties": map[string]any{
					"column": map[string]any{"type": "string"},
					"kind":   map[string]any{"type": "string"},
				},
			},
		},
		"predicates": map[string]any{
			"type":  "array",
			"items": predicateSchemaDoc,
		},
	},
}

var predicateSchemaDoc = map[string]any{
	"type":     "object",
	"required": []string{"column", "op", "value"},
	"properties": map[string]any{
		"column": map[string]any{"type": "string"},
		"op":     map[string]any{"type": "string"},
	},
}

// validateAgainstSchema marshals doc and data to JSON and runs them through
// jsonschema-go's Resolve/Validate pair, mirroring internal/transformer.go's
// validateData.
func validateAgainstSchema(schemaDoc map[string]any, data []byte) error {
	schemaBytes, err := json.Marshal(schemaDoc)
	if err != nil {
		return fmt.Errorf("rowgroup: failed to marshal schema: %w", err)
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal(schemaBytes, &schema); err != nil {
		return fmt.Errorf("rowgroup: failed to unmarshal into jsonschema.Schema: %w", err)
	}

	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return fmt.Errorf("rowgroup: failed to resolve JSON schema: %w", err)
	}

	var dataToValidate any
	if err := json.Unmarshal(data, &dataToValidate); err != nil {
		return fmt.Errorf("rowgroup: failed to unmarshal request JSON: %w", err)
	}

	if err := resolved.Validate(dataToValidate); err != nil {
		return fmt.Errorf("rowgroup: request failed schema validation: %w", err)
	}
	return nil
}

// ParseQueryRequest validates and decodes a read_filter JSON request body.
func ParseQueryRequest(data []byte) (QueryRequest, error) {
	if err := validateAgainstSchema(querySchemaDoc, data); err != nil {
		return QueryRequest{}, err
	}
	var req QueryRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return QueryRequest{}, fmt.Errorf("rowgroup: failed to decode query request: %w", err)
	}
	return req, nil
}

// ParseGroupRequest validates and decodes a read_group JSON request body.
func ParseGroupRequest(data []byte) (GroupRequest, error) {
	if err := validateAgainstSchema(groupSchemaDoc, data); err != nil {
		return GroupRequest{}, err
	}
	var req GroupRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return GroupRequest{}, fmt.Errorf("rowgroup: failed to decode group request: %w", err)
	}
	return req, nil
}

// Predicates translates the wire predicates into the core's []Predicate,
// resolving each operator string and coercing each JSON value (number,
// string, or bool, per encoding/json's default unmarshal-into-any types)
// into the column's Value union.
func (q QueryRequest) Predicates() ([]Predicate, error) {
	return wirePredicates(q.Predicates)
}

// Predicates is GroupRequest's analogue of QueryRequest.Predicates.
func (g GroupRequest) Predicates() ([]Predicate, error) {
	return wirePredicates(g.Predicates)
}

// Aggregates translates the wire aggregate descriptors into []Aggregate.
func (g GroupRequest) Aggregates() ([]Aggregate, error) {
	out := make([]Aggregate, len(g.Aggregates))
	for i, a := range g.Aggregates {
		kind, err := ParseAggregateKind(a.Kind)
		if err != nil {
			return nil, err
		}
		out[i] = Aggregate{Column: a.Column, Kind: kind}
	}
	return out, nil
}

func wirePredicates(wire []PredicateWire) ([]Predicate, error) {
	out := make([]Predicate, len(wire))
	for i, p := range wire {
		op, err := ParseOp(p.Op)
		if err != nil {
			return nil, err
		}
		v, err := jsonToValue(p.Value)
		if err != nil {
			return nil, err
		}
		out[i] = Predicate{Column: p.Column, Op: op, Value: v}
	}
	return out, nil
}

// jsonToValue converts a decoded JSON scalar (as produced by unmarshaling
// into `any`) into a Value. JSON has no integer/float distinction, so
// numbers that round-trip through an int64 are treated as ValueKindInt and
// everything else as ValueKindFloat; this matches the time column's
// wire representation (Unix-epoch integers) while still accepting
// fractional field values.
func jsonToValue(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return NullValue(), nil
	case string:
		return StringValue(v), nil
	case bool:
		return BoolValue(v), nil
	case float64:
		if i := int64(v); float64(i) == v {
			return IntValue(i), nil
		}
		return FloatValue(v), nil
	default:
		return Value{}, fmt.Errorf("rowgroup: unsupported predicate value type %T", raw)
	}
}
