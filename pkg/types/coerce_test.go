package types

import "testing"

func TestValue_AsInt(t *testing.T) {
	tests := []struct {
		raw    string
		want   int64
		wantOK bool
	}{
		{`45`, 45, true},
		{`45.0`, 45, true},
		{`4.5e1`, 45, true},
		{`"45"`, 45, true},
		{`" 45 "`, 45, true},
		{`-3`, -3, true},
		{`45.5`, 0, false},
		{`"45.0"`, 0, false},
		{`"fifty"`, 0, false},
		{`true`, 0, false},
		{`null`, 0, false},
		{``, 0, false},
	}
	for _, tc := range tests {
		got, ok := RawValue([]byte(tc.raw)).AsInt()
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("AsInt(%s) = %d, %v, want %d, %v", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestValue_AsFloat(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{`98.6`, 98.6, true},
		{`100`, 100, true},
		{`"98.6"`, 98.6, true},
		{`"1e2"`, 100, true},
		{`"NaN"`, 0, false},
		{`"Inf"`, 0, false},
		{`"abnormal"`, 0, false},
		{`false`, 0, false},
		{`null`, 0, false},
	}
	for _, tc := range tests {
		got, ok := RawValue([]byte(tc.raw)).AsFloat()
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("AsFloat(%s) = %v, %v, want %v, %v", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestValue_AsBool(t *testing.T) {
	tests := []struct {
		raw    string
		want   bool
		wantOK bool
	}{
		{`true`, true, true},
		{`false`, false, true},
		{`1`, true, true},
		{`0`, false, true},
		{`"TRUE"`, true, true},
		{`"no"`, false, true},
		{`"off"`, false, true},
		{`2`, false, false},
		{`"maybe"`, false, false},
		{`null`, false, false},
	}
	for _, tc := range tests {
		got, ok := RawValue([]byte(tc.raw)).AsBool()
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("AsBool(%s) = %v, %v, want %v, %v", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestValue_AsText(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{`"P1"`, "P1", true},
		{`42`, "42", true},
		{`true`, "", false},
		{`{}`, "", false},
		{`null`, "", false},
	}
	for _, tc := range tests {
		got, ok := RawValue([]byte(tc.raw)).AsText()
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("AsText(%s) = %q, %v, want %q, %v", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestValue_StrictReadersStayStrict(t *testing.T) {
	if _, ok := ValueOf("98.6").Number(); ok {
		t.Error(`Number("98.6") ok = true, want false`)
	}
	if _, ok := RawValue([]byte("45.0")).Int(); ok {
		t.Error("Int(45.0) ok = true, want false")
	}
}
