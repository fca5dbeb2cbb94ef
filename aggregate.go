package rowgroup

// AggregateKind enumerates the aggregator kinds from the original design's
// §3 "Aggregator state": Count, Sum, Min, Max are implemented across every
// kernel; First/Last are accepted but fail fast (§7, §9).
type AggregateKind uint8

const (
	AggregateCount AggregateKind = iota
	AggregateSum
	AggregateMin
	AggregateMax
	AggregateFirst
	AggregateLast
)

func (k AggregateKind) String() string {
	switch k {
	case AggregateCount:
		return "count"
	case AggregateSum:
		return "sum"
	case AggregateMin:
		return "min"
	case AggregateMax:
		return "max"
	case AggregateFirst:
		return "first"
	case AggregateLast:
		return "last"
	default:
		return "unknown"
	}
}

// ParseAggregateKind parses the lowercase wire-format aggregate kind names
// used by the JSON query request and the canonical rendering (§6).
func ParseAggregateKind(s string) (AggregateKind, error) {
	switch s {
	case "count":
		return AggregateCount, nil
	case "sum":
		return AggregateSum, nil
	case "min":
		return AggregateMin, nil
	case "max":
		return AggregateMax, nil
	case "first":
		return AggregateFirst, nil
	case "last":
		return AggregateLast, nil
	default:
		return 0, newEngineError(ErrorKindValidation, "unknown aggregate kind %q", s)
	}
}

// Aggregate pairs a column name with the aggregate kind computed over it,
// the (column_name, kind) wire shape of §4.3/§6.
type Aggregate struct {
	Column string
	Kind   AggregateKind
}

// validateAggregates rejects First/Last up front so invalid requests fail
// before any row is scanned (§7: "implementers should reject these kinds at
// validation time"). Count/Sum/Min/Max are reduced directly through each
// column's own capability methods (§4.1) rather than a generic per-value
// scan, so there is no separate accumulator state to build here.
func validateAggregates(aggs []Aggregate) error {
	for _, agg := range aggs {
		if agg.Kind == AggregateFirst || agg.Kind == AggregateLast {
			return newEngineError(ErrorKindUnimplemented, "aggregate kind %q on column %q is not implemented", agg.Kind, agg.Column)
		}
	}
	return nil
}
