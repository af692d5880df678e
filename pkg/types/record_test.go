package types

import (
	"encoding/json"
	"errors"
	"testing"
)

func rawRecord(t *testing.T, s string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return m
}

func TestRecordFromRaw_KeepsValuesVerbatim(t *testing.T) {
	rec, err := RecordFromRaw(rawRecord(t, `{
		"patient_id": "DEMO001",
		"name": "TestPatient, John",
		"age": "fifty-two",
		"gender": "M",
		"blood_pressure": "INVALID",
		"temperature": 99.6,
		"visit_date": "2024-01-15",
		"diagnosis": "Sample_Hypertension",
		"medications": "DemoMed_A 10mg"
	}`))
	if err != nil {
		t.Fatalf("RecordFromRaw() error = %v", err)
	}

	if got := rec.PatientID(); got != "DEMO001" {
		t.Errorf("PatientID() = %q, want DEMO001", got)
	}
	if got, _ := rec.Age.Text(); got != "fifty-two" {
		t.Errorf("Age = %q, want the malformed string preserved", got)
	}
	if got, _ := rec.Temperature.Number(); got != 99.6 {
		t.Errorf("Temperature = %v, want 99.6", got)
	}
	if rec.BPSystolic.Present() {
		t.Error("BPSystolic should be absent")
	}
}

func TestRecordFromRaw_UnknownField(t *testing.T) {
	_, err := RecordFromRaw(rawRecord(t, `{"patient_id":"P1","name":"A","shoe_size":44}`))
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}
}

func TestRecordFromRaw_MissingIdentity(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no patient_id", `{"name":"A"}`},
		{"no name", `{"patient_id":"P1"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RecordFromRaw(rawRecord(t, tc.raw))
			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("err = %v, want ErrMissingField", err)
			}
		})
	}
}

func TestRecordFromRaw_NullNameAccepted(t *testing.T) {
	rec, err := RecordFromRaw(rawRecord(t, `{"patient_id":"P1","name":null}`))
	if err != nil {
		t.Fatalf("RecordFromRaw() error = %v", err)
	}
	if rec.Name.Present() {
		t.Error("Name should not be present when null")
	}
}

func TestPatientRecord_NumericID(t *testing.T) {
	rec, err := RecordFromRaw(rawRecord(t, `{"patient_id":42,"name":"A"}`))
	if err != nil {
		t.Fatalf("RecordFromRaw() error = %v", err)
	}
	if got := rec.PatientID(); got != "42" {
		t.Errorf("PatientID() = %q, want 42", got)
	}
}
