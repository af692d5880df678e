package types

import (
	"errors"
	"fmt"
	"regexp"
)

// Clinical validity bounds.
const (
	MinAge         = 0
	MaxAge         = 150
	MinTemperature = 90.0
	MaxTemperature = 110.0
)

// BloodPressurePattern is the accepted "SYS/DIA" shape.
var BloodPressurePattern = regexp.MustCompile(`^(\d{2,3})/(\d{2,3})$`)

// FieldError describes why one field failed strict validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Patient is the strictly validated form of a PatientRecord.
// Optional fields are nil when the record did not carry them.
type Patient struct {
	PatientID     string
	Name          string
	Age           *int
	Gender        *string
	BloodPressure *string
	Temperature   float64
	VisitDate     *string
	Diagnosis     *string
	Medications   *string
}

// Validate builds a Patient from r. It checks every field and returns all
// failures joined, so a caller can log the full picture for one record.
// Field types are read leniently: a number id is taken as text, and age and
// temperature may arrive as numeric strings.
func Validate(r PatientRecord) (Patient, error) {
	var (
		p    Patient
		errs []error
	)
	fail := func(field, format string, args ...any) {
		errs = append(errs, &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if s, ok := r.ID.AsText(); ok {
		p.PatientID = s
	} else {
		fail(FieldPatientID, "required string, got %s", describe(r.ID))
	}

	if s, ok := r.Name.AsText(); ok {
		p.Name = s
	} else {
		fail(FieldName, "required string, got %s", describe(r.Name))
	}

	if r.Age.Present() {
		n, ok := r.Age.AsInt()
		switch {
		case !ok:
			fail(FieldAge, "not an integer: %s", r.Age.Raw())
		case n < MinAge || n > MaxAge:
			fail(FieldAge, "%d outside [%d, %d]", n, MinAge, MaxAge)
		default:
			age := int(n)
			p.Age = &age
		}
	}

	if r.Gender.Present() {
		s, ok := r.Gender.Text()
		if ok && (s == "M" || s == "F") {
			p.Gender = &s
		} else {
			fail(FieldGender, "must be M or F, got %s", r.Gender.Raw())
		}
	}

	if r.BloodPressure.Present() {
		s, ok := r.BloodPressure.Text()
		if ok && BloodPressurePattern.MatchString(s) {
			p.BloodPressure = &s
		} else {
			fail(FieldBloodPressure, "must look like SYS/DIA, got %s", r.BloodPressure.Raw())
		}
	}

	t, ok := r.Temperature.AsFloat()
	switch {
	case !ok:
		fail(FieldTemperature, "required number, got %s", describe(r.Temperature))
	case t < MinTemperature || t > MaxTemperature:
		fail(FieldTemperature, "%g outside [%g, %g]", t, MinTemperature, MaxTemperature)
	default:
		p.Temperature = t
	}

	p.VisitDate = optionalText(r.VisitDate)
	p.Diagnosis = optionalText(r.Diagnosis)
	p.Medications = optionalText(r.Medications)

	if len(errs) > 0 {
		return Patient{}, errors.Join(errs...)
	}
	return p, nil
}

func optionalText(v Value) *string {
	if s, ok := v.Text(); ok {
		return &s
	}
	return nil
}

func describe(v Value) string {
	if !v.Present() {
		return "nothing"
	}
	return string(v.Raw())
}
