package types

// Report categories, in output order.
const (
	CategoryHighRisk      = "high_risk"
	CategoryFever         = "fever"
	CategoryQualityIssues = "data_quality"
)

// Categories lists every report category in output order.
var Categories = []string{CategoryHighRisk, CategoryFever, CategoryQualityIssues}

// Report is the outbound result of one assessment run. Each list holds patient
// identifiers in collection order and is never nil, so it encodes as [] when
// empty.
type Report struct {
	HighRisk      []string `json:"high_risk_patients"`
	Fever         []string `json:"fever_patients"`
	QualityIssues []string `json:"data_quality_issues"`
}

// NewReport returns a Report with all lists allocated.
func NewReport() *Report {
	return &Report{
		HighRisk:      []string{},
		Fever:         []string{},
		QualityIssues: []string{},
	}
}

// List returns the identifiers for category, or nil for an unknown category.
func (r *Report) List(category string) []string {
	switch category {
	case CategoryHighRisk:
		return r.HighRisk
	case CategoryFever:
		return r.Fever
	case CategoryQualityIssues:
		return r.QualityIssues
	}
	return nil
}
