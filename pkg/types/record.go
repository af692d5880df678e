package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Record construction errors. Both abort acquisition: the API contract is a
// fixed field set and a record missing its identity cannot be reported.
var (
	ErrUnknownField = errors.New("unknown record field")
	ErrMissingField = errors.New("missing record field")
)

// Wire names of the accepted record fields.
const (
	FieldPatientID     = "patient_id"
	FieldName          = "name"
	FieldAge           = "age"
	FieldGender        = "gender"
	FieldBloodPressure = "blood_pressure"
	FieldTemperature   = "temperature"
	FieldVisitDate     = "visit_date"
	FieldDiagnosis     = "diagnosis"
	FieldMedications   = "medications"
	FieldBPSystolic    = "bp_systolic"
	FieldBPDiastolic   = "bp_diastolic"
)

// PatientRecord is one fetched row of clinical data. Only the identity fields
// are required to exist; nothing is type checked here.
type PatientRecord struct {
	ID            Value `json:"patient_id"`
	Name          Value `json:"name"`
	Age           Value `json:"age"`
	Gender        Value `json:"gender"`
	BloodPressure Value `json:"blood_pressure"`
	Temperature   Value `json:"temperature"`
	VisitDate     Value `json:"visit_date"`
	Diagnosis     Value `json:"diagnosis"`
	Medications   Value `json:"medications"`
	BPSystolic    Value `json:"bp_systolic"`
	BPDiastolic   Value `json:"bp_diastolic"`
}

// PatientID returns the record's identifier. Non-string identifiers are
// rendered as their JSON text.
func (r PatientRecord) PatientID() string {
	if s, ok := r.ID.Text(); ok {
		return s
	}
	return string(r.ID.Raw())
}

// RecordFromRaw builds a PatientRecord from one decoded page entry.
// Every key must belong to the accepted field set and patient_id and name must
// be present (null is allowed). Values are copied verbatim.
func RecordFromRaw(raw map[string]json.RawMessage) (PatientRecord, error) {
	var rec PatientRecord
	fields := rec.fields()

	var unknown []string
	for key, val := range raw {
		dst, ok := fields[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		*dst = RawValue(val)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return PatientRecord{}, fmt.Errorf("%w: %q", ErrUnknownField, unknown)
	}

	for _, key := range []string{FieldPatientID, FieldName} {
		if _, ok := raw[key]; !ok {
			return PatientRecord{}, fmt.Errorf("%w: %s", ErrMissingField, key)
		}
	}
	return rec, nil
}

// fields maps each wire name to the Value it populates.
func (r *PatientRecord) fields() map[string]*Value {
	return map[string]*Value{
		FieldPatientID:     &r.ID,
		FieldName:          &r.Name,
		FieldAge:           &r.Age,
		FieldGender:        &r.Gender,
		FieldBloodPressure: &r.BloodPressure,
		FieldTemperature:   &r.Temperature,
		FieldVisitDate:     &r.VisitDate,
		FieldDiagnosis:     &r.Diagnosis,
		FieldMedications:   &r.Medications,
		FieldBPSystolic:    &r.BPSystolic,
		FieldBPDiastolic:   &r.BPDiastolic,
	}
}
