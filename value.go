package rowgroup

import (
	"fmt"
	"strconv"
)

// ValueKind identifies the logical type carried by a Value.
type ValueKind uint8

const (
	ValueKindNull ValueKind = iota
	ValueKindInt
	ValueKindUint
	ValueKindFloat
	ValueKindString
	ValueKindBool
)

func (k ValueKind) String() string {
	switch k {
	case ValueKindNull:
		return "null"
	case ValueKindInt:
		return "int"
	case ValueKindUint:
		return "uint"
	case ValueKindFloat:
		return "float"
	case ValueKindString:
		return "string"
	case ValueKindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a borrowed logical scalar. It never owns string data — callers
// must not retain a Value past the lifetime of the RowGroup it came from.
// Use Clone to obtain an OwnedValue when that lifetime can't be guaranteed
// (e.g. crossing the encode/decode boundary described in the original
// design's §6).
type Value struct {
	kind ValueKind
	i    int64
	u    uint64
	f    float64
	b    bool
	s    string
}

// NullValue returns the null Value.
func NullValue() Value { return Value{kind: ValueKindNull} }

// IntValue wraps a signed integer.
func IntValue(v int64) Value { return Value{kind: ValueKindInt, i: v} }

// UintValue wraps an unsigned integer.
func UintValue(v uint64) Value { return Value{kind: ValueKindUint, u: v} }

// FloatValue wraps a 64-bit float.
func FloatValue(v float64) Value { return Value{kind: ValueKindFloat, f: v} }

// StringValue wraps a borrowed string.
func StringValue(v string) Value { return Value{kind: ValueKindString, s: v} }

// BoolValue wraps a boolean.
func BoolValue(v bool) Value { return Value{kind: ValueKindBool, b: v} }

// IsNull reports whether this Value represents a missing observation.
func (v Value) IsNull() bool { return v.kind == ValueKindNull }

// Kind returns the scalar kind.
func (v Value) Kind() ValueKind { return v.kind }

// Int returns the wrapped signed integer; ok is false for any other kind.
func (v Value) Int() (int64, bool) {
	if v.kind != ValueKindInt {
		return 0, false
	}
	return v.i, true
}

// Uint returns the wrapped unsigned integer; ok is false for any other kind.
func (v Value) Uint() (uint64, bool) {
	if v.kind != ValueKindUint {
		return 0, false
	}
	return v.u, true
}

// Float returns the wrapped float; ok is false for any other kind.
func (v Value) Float() (float64, bool) {
	if v.kind != ValueKindFloat {
		return 0, false
	}
	return v.f, true
}

// Str returns the wrapped string; ok is false for any other kind.
func (v Value) Str() (string, bool) {
	if v.kind != ValueKindString {
		return "", false
	}
	return v.s, true
}

// Bool returns the wrapped boolean; ok is false for any other kind.
func (v Value) Bool() (bool, bool) {
	if v.kind != ValueKindBool {
		return false, false
	}
	return v.b, true
}

// Clone produces an OwnedValue that no longer borrows from the row group.
func (v Value) Clone() OwnedValue {
	return OwnedValue{kind: v.kind, i: v.i, u: v.u, f: v.f, b: v.b, s: v.s}
}

// String renders the value the way the canonical CSV rendering wants it:
// "NULL" for an absent value, otherwise the natural textual form.
func (v Value) String() string {
	switch v.kind {
	case ValueKindNull:
		return "NULL"
	case ValueKindInt:
		return strconv.FormatInt(v.i, 10)
	case ValueKindUint:
		return strconv.FormatUint(v.u, 10)
	case ValueKindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case ValueKindString:
		return v.s
	case ValueKindBool:
		return strconv.FormatBool(v.b)
	default:
		return "NULL"
	}
}

// Compare orders two values of the same kind. Comparing across kinds (other
// than against null, which always sorts first) is a programmer error and
// panics, mirroring the "comparing keys of different arity is a programmer
// error" invariant for group keys.
func (v Value) Compare(other Value) int {
	if v.kind == ValueKindNull || other.kind == ValueKindNull {
		switch {
		case v.kind == other.kind:
			return 0
		case v.kind == ValueKindNull:
			return -1
		default:
			return 1
		}
	}
	if v.kind != other.kind {
		panic(fmt.Sprintf("rowgroup: cannot compare Value kinds %s and %s", v.kind, other.kind))
	}
	switch v.kind {
	case ValueKindInt:
		return cmpOrdered(v.i, other.i)
	case ValueKindUint:
		return cmpOrdered(v.u, other.u)
	case ValueKindFloat:
		return cmpOrdered(v.f, other.f)
	case ValueKindString:
		return cmpOrdered(v.s, other.s)
	case ValueKindBool:
		return cmpOrdered(boolToInt(v.b), boolToInt(other.b))
	default:
		return 0
	}
}

func cmpOrdered[T int64 | uint64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// OwnedValue is the allocation-owning counterpart to Value, produced only at
// the encode/decode boundary (see original spec §6 and §3 "Lifetimes").
type OwnedValue struct {
	kind ValueKind
	i    int64
	u    uint64
	f    float64
	b    bool
	s    string
}

// Borrow converts an OwnedValue back into a borrowed Value.
func (o OwnedValue) Borrow() Value {
	return Value{kind: o.kind, i: o.i, u: o.u, f: o.f, b: o.b, s: o.s}
}

func (o OwnedValue) String() string { return o.Borrow().String() }

// Op is the comparison operator enum used by predicates.
type Op uint8

const (
	OpEqual Op = iota
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

func (op Op) String() string {
	switch op {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	default:
		return "?"
	}
}

// ParseOp parses the wire-shape operator strings ("=", "!=", "<", "<=", ">",
// ">=") used by the JSON query request format (§6 "Predicate wire shape").
func ParseOp(s string) (Op, error) {
	switch s {
	case "=", "==":
		return OpEqual, nil
	case "!=", "<>":
		return OpNotEqual, nil
	case "<":
		return OpLess, nil
	case "<=":
		return OpLessEqual, nil
	case ">":
		return OpGreater, nil
	case ">=":
		return OpGreaterEqual, nil
	default:
		return 0, fmt.Errorf("rowgroup: unknown operator %q", s)
	}
}

// apply evaluates op against a three-way comparison result (cmp(value, bound)).
func (op Op) apply(cmp int) bool {
	switch op {
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	default:
		return false
	}
}
