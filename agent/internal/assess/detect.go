package assess

import (
	"github.com/vitalscan/vitalscan/pkg/types"
)

// HighRisk returns the records whose composite risk reaches HighRiskThreshold.
func HighRisk(records []types.PatientRecord) []types.PatientRecord {
	return filter(records, func(r types.PatientRecord) bool {
		return Score(r).High()
	})
}

// Fever returns the records with a numeric temperature of at least
// FeverThreshold. Absent or non-numeric temperatures never match.
func Fever(records []types.PatientRecord) []types.PatientRecord {
	return filter(records, hasFever)
}

// QualityIssues returns the records that fail strict validation.
func QualityIssues(records []types.PatientRecord) []types.PatientRecord {
	return filter(records, func(r types.PatientRecord) bool {
		_, err := types.Validate(r)
		return err != nil
	})
}

func hasFever(r types.PatientRecord) bool {
	t, ok := r.Temperature.Number()
	return ok && t >= FeverThreshold
}

func filter(records []types.PatientRecord, keep func(types.PatientRecord) bool) []types.PatientRecord {
	var out []types.PatientRecord
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// IDs returns the patient identifiers of records, never nil.
func IDs(records []types.PatientRecord) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.PatientID())
	}
	return ids
}

// Assess runs every detector over records and collects the identifiers.
func Assess(records []types.PatientRecord) *types.Report {
	return &types.Report{
		HighRisk:      IDs(HighRisk(records)),
		Fever:         IDs(Fever(records)),
		QualityIssues: IDs(QualityIssues(records)),
	}
}
