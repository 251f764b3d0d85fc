package dataset

import (
	"strconv"
	"time"
)

// Kind discriminates the cell value variants.
type Kind int

const (
	// KindNull marks a cell whose value is absent or failed coercion.
	KindNull Kind = iota
	// KindNumber is a finite float64 cell.
	KindNumber
	// KindText is an opaque string cell carried through unmodified.
	KindText
	// KindTime is a parsed timestamp cell.
	KindTime
)

// Value is a single cell. The null kind is an internal marker consumed by
// normalization; the numeric column contract guarantees it never reaches
// callers on a consumption column.
type Value struct {
	kind Kind
	num  float64
	text string
	ts   time.Time
}

// Null returns the absent/unparsable marker.
func Null() Value { return Value{kind: KindNull} }

// Number wraps a float64 cell.
func Number(v float64) Value { return Value{kind: KindNumber, num: v} }

// Text wraps a string cell.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Timestamp wraps a time cell.
func Timestamp(t time.Time) Value { return Value{kind: KindTime, ts: t} }

// Kind returns the value variant.
func (v Value) Kind() Kind { return v.kind }

// IsNull tells if the cell carries no value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Number returns the numeric payload and whether the cell is numeric.
func (v Value) Number() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text returns the string payload and whether the cell is text.
func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// Timestamp returns the time payload and whether the cell is a timestamp.
func (v Value) Timestamp() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.ts, true
}

// String renders the cell for delimited output. Nulls render empty; numbers
// use the shortest form that round-trips; timestamps use RFC 3339.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	case KindTime:
		return v.ts.Format(time.RFC3339)
	default:
		return ""
	}
}
