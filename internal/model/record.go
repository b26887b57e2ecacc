package model

import (
	"math"
	"strconv"
)

// ValueKind identifies what a raw cell holds.
type ValueKind int

// Value kinds.
const (
	ValueMissing ValueKind = iota
	ValueNumber
	ValueText
)

// Value is one raw cell of an observation. The zero Value is missing.
type Value struct {
	Text   string
	Number float64
	Kind   ValueKind
}

// Missing returns the explicit missing value.
func Missing() Value {
	return Value{}
}

// Number returns a numeric value. NaN is treated as missing.
func Number(v float64) Value {
	if math.IsNaN(v) {
		return Value{}
	}
	return Value{Kind: ValueNumber, Number: v}
}

// Text returns a categorical value.
func Text(s string) Value {
	return Value{Kind: ValueText, Text: s}
}

// IsMissing reports whether the value carries no observation.
func (v Value) IsMissing() bool {
	return v.Kind == ValueMissing
}

// Float returns the numeric form of the value. Text values are parsed so a
// categorical column holding digits still works with numeric features.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case ValueNumber:
		return v.Number, true
	case ValueText:
		f, err := strconv.ParseFloat(v.Text, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// String returns the lookup form of the value: numbers use the shortest
// decimal representation ("0", "1", "2.5"), text is returned as is.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueText:
		return v.Text
	default:
		return ""
	}
}

// Record is a single observation row keyed by field name. A field that is
// absent and a field holding Missing() are treated the same way.
type Record map[string]Value

// Get returns the value of field, or Missing() when absent.
func (r Record) Get(field string) Value {
	v, ok := r[field]
	if !ok {
		return Missing()
	}
	return v
}
