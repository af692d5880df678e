// Package types defines the patient data shared by the collector and the
// detectors.
//
// There are two representations:
//   - PatientRecord: the loose form built straight from an API page. Every
//     optional field is a Value holding the raw JSON exactly as received, so a
//     malformed age or temperature survives acquisition untouched.
//   - Patient: the strict form produced by Validate. Construction fails with a
//     joined set of FieldErrors when any clinical field is out of shape.
//
// Report is the outbound result: three lists of patient identifiers.
package types
