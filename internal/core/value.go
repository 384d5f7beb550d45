package core

// value.go resolves raw cell text into typed values.
//
// Every cell is exactly one of:
//   - absent: the cell was empty, blank, or missing from the row
//   - number: a finite float64 parsed from strict decimal notation
//   - text:   the trimmed, non-empty cell text
//
// The zero Value is absent, so a missing map entry reads as absence.

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies which case a Value holds.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindNumber
	KindText
)

// String returns the lowercase kind name used in JSON and templates.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "absent"
	}
}

// decimalRegex accepts optional sign, digits with optional fraction (or a bare
// fraction), and an optional exponent. Anything else stays text, including the
// Inf/NaN spellings and hex floats that strconv would otherwise accept.
var decimalRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Value is a typed cell value.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Absent returns the absence value.
func Absent() Value { return Value{} }

// Number returns a number value. Non-finite input collapses to absence and
// negative zero is stored as zero.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	if f == 0 {
		f = 0
	}
	return Value{kind: KindNumber, num: f}
}

// Text returns a text value. Empty text collapses to absence.
func Text(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: KindText, text: s}
}

// Resolve converts one raw cell into a typed value. It never fails.
func Resolve(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Absent()
	}

	if decimalRegex.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil && !math.IsInf(f, 0) {
			return Number(f)
		}
	}

	return Text(s)
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsText() bool   { return v.kind == KindText }
func (v Value) Float() float64 { return v.num }
func (v Value) Str() string    { return v.text }

// String renders the value as display text. Absence renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return formatNumber(v.num)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// MarshalJSON encodes numbers as JSON numbers, text as strings and absence as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// formatNumber renders f in plain decimal notation, switching to exponent
// notation at 1e21 the way browsers print numbers.
func formatNumber(f float64) string {
	if math.Abs(f) >= 1e21 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
