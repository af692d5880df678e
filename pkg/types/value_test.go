package types

import (
	"encoding/json"
	"testing"
)

func TestValue_Accessors(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		present  bool
		wantInt  bool
		wantNum  bool
		wantText bool
	}{
		{"integer", `70`, true, true, true, false},
		{"negative integer", `-3`, true, true, true, false},
		{"float", `101.2`, true, false, true, false},
		{"integral float", `70.0`, true, false, true, false},
		{"exponent", `7e1`, true, false, true, false},
		{"numeric string", `"98.6"`, true, false, false, true},
		{"text", `"abnormal"`, true, false, false, true},
		{"bool", `true`, true, false, false, false},
		{"null", `null`, false, false, false, false},
		{"absent", ``, false, false, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := RawValue(json.RawMessage(tc.raw))
			if got := v.Present(); got != tc.present {
				t.Errorf("Present() = %v, want %v", got, tc.present)
			}
			if _, got := v.Int(); got != tc.wantInt {
				t.Errorf("Int() ok = %v, want %v", got, tc.wantInt)
			}
			if _, got := v.Number(); got != tc.wantNum {
				t.Errorf("Number() ok = %v, want %v", got, tc.wantNum)
			}
			if _, got := v.Text(); got != tc.wantText {
				t.Errorf("Text() ok = %v, want %v", got, tc.wantText)
			}
		})
	}
}

func TestValue_NumberValues(t *testing.T) {
	if n, _ := ValueOf(70).Int(); n != 70 {
		t.Errorf("Int() = %d, want 70", n)
	}
	if f, _ := ValueOf(101.2).Number(); f != 101.2 {
		t.Errorf("Number() = %v, want 101.2", f)
	}
	if f, _ := ValueOf(99).Number(); f != 99 {
		t.Errorf("Number() of integer = %v, want 99", f)
	}
}

func TestValue_IntOverflowIsNotInt(t *testing.T) {
	v := RawValue(json.RawMessage(`123456789012345678901234567890`))
	if _, ok := v.Int(); ok {
		t.Error("Int() should reject values that overflow int64")
	}
	if _, ok := v.Number(); !ok {
		t.Error("Number() should still accept a large integer")
	}
}

func TestValue_JSONRoundTripKeepsRawText(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(` 98.60 `), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != "98.60" {
		t.Errorf("Marshal = %s, want 98.60", out)
	}

	out, _ = json.Marshal(Value{})
	if string(out) != "null" {
		t.Errorf("absent value marshals to %s, want null", out)
	}
}
