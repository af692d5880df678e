package types

import (
	"math"
	"strconv"
	"strings"
)

// The As* conversions accept the loosely typed forms the API is known to
// send: numeric strings, integral floats for integers and number ids. Strict
// readers (Number, Int, Text) are for scoring, where a numeric string must
// not count.

// AsText returns a JSON string as is and a JSON number as its literal text.
func (v Value) AsText() (string, bool) {
	if s, ok := v.Text(); ok {
		return s, true
	}
	if _, ok := v.Number(); ok {
		return string(v.raw), true
	}
	return "", false
}

// AsFloat returns a JSON number, or a string holding one. NaN and infinities
// are rejected.
func (v Value) AsFloat() (float64, bool) {
	f, ok := v.Number()
	if !ok {
		s, isText := v.Text()
		if !isText {
			return 0, false
		}
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// AsInt returns an integer literal, an integral float such as 45.0, or a
// string holding an integer literal. 45.5 and "45.0" are rejected.
func (v Value) AsInt() (int64, bool) {
	if n, ok := v.Int(); ok {
		return n, true
	}
	if f, ok := v.Number(); ok {
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	s, ok := v.Text()
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// AsBool returns a JSON boolean, 0 or 1, or one of the usual spellings
// ("true", "yes", "on", "t", "y", "1" and their negatives) in any case.
func (v Value) AsBool() (bool, bool) {
	switch string(v.raw) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	if f, ok := v.Number(); ok {
		switch f {
		case 1:
			return true, true
		case 0:
			return false, true
		}
		return false, false
	}
	s, ok := v.Text()
	if !ok {
		return false, false
	}
	switch strings.ToLower(s) {
	case "1", "on", "t", "true", "y", "yes":
		return true, true
	case "0", "off", "f", "false", "n", "no":
		return false, true
	}
	return false, false
}
