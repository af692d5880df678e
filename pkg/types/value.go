package types

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Value is one optional record field kept as the raw JSON it arrived as.
// The zero Value means the field was absent.
type Value struct {
	raw json.RawMessage
}

// RawValue wraps an already-encoded JSON value.
func RawValue(raw json.RawMessage) Value {
	return Value{raw: bytes.TrimSpace(raw)}
}

// ValueOf encodes v as JSON. It panics if v cannot be encoded; it exists for
// tests and fixtures.
func ValueOf(v any) Value {
	b, err := json.Marshal(v)
	if err != nil {
		panic("types: ValueOf: " + err.Error())
	}
	return Value{raw: b}
}

// Present reports whether the field carries a non-null value.
func (v Value) Present() bool {
	return len(v.raw) > 0 && !bytes.Equal(v.raw, []byte("null"))
}

// Raw returns the JSON text of the value, or nil when absent.
func (v Value) Raw() json.RawMessage {
	return v.raw
}

// Text returns the value when it is a JSON string.
func (v Value) Text() (string, bool) {
	if len(v.raw) == 0 || v.raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Number returns the value when it is a JSON number, integer or not.
// Booleans and numeric strings are not numbers.
func (v Value) Number() (float64, bool) {
	if !v.isNumber() {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(v.raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int returns the value when it is a JSON integer literal. 70 is an integer;
// 70.0 and 7e1 are not.
func (v Value) Int() (int64, bool) {
	if !v.isNumber() || bytes.ContainsAny(v.raw, ".eE") {
		return 0, false
	}
	n, err := strconv.ParseInt(string(v.raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (v Value) isNumber() bool {
	if len(v.raw) == 0 {
		return false
	}
	c := v.raw[0]
	return c == '-' || (c >= '0' && c <= '9')
}

// MarshalJSON writes the raw value back out; an absent value encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// UnmarshalJSON keeps a copy of the raw bytes without interpreting them.
func (v *Value) UnmarshalJSON(b []byte) error {
	v.raw = append(json.RawMessage(nil), bytes.TrimSpace(b)...)
	return nil
}
