package assess

import (
	"strconv"

	"github.com/vitalscan/vitalscan/pkg/types"
)

// HighRiskThreshold is the minimum total score flagged as high risk.
const HighRiskThreshold = 4

// FeverThreshold is the lowest temperature counted as fever, in °F.
const FeverThreshold = 99.6

// Age bands.
const (
	ageMiddle = 40
	ageSenior = 65
)

// highFever is the temperature at which the temperature component maxes out.
const highFever = 101.0

// Risk is the per-component breakdown of a record's risk score.
type Risk struct {
	Age           int `json:"age"`
	Temperature   int `json:"temperature"`
	BloodPressure int `json:"blood_pressure"`
}

// Total is the composite score.
func (r Risk) Total() int {
	return r.Age + r.Temperature + r.BloodPressure
}

// High reports whether the composite score reaches HighRiskThreshold.
func (r Risk) High() bool {
	return r.Total() >= HighRiskThreshold
}

// Score computes the risk breakdown for one record.
func Score(rec types.PatientRecord) Risk {
	return Risk{
		Age:           ageRisk(rec.Age),
		Temperature:   temperatureRisk(rec.Temperature),
		BloodPressure: bloodPressureRisk(rec.BloodPressure),
	}
}

func ageRisk(v types.Value) int {
	age, ok := v.Int()
	switch {
	case !ok:
		return 0
	case age < ageMiddle:
		return 0
	case age <= ageSenior:
		return 1
	default:
		return 2
	}
}

func temperatureRisk(v types.Value) int {
	t, ok := v.Number()
	switch {
	case !ok:
		return 0
	case t < FeverThreshold:
		return 0
	case t < highFever:
		return 1
	default:
		return 2
	}
}

func bloodPressureRisk(v types.Value) int {
	s, ok := v.Text()
	if !ok {
		return 0
	}
	m := types.BloodPressurePattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	// The pattern limits both groups to three digits.
	sys, _ := strconv.Atoi(m[1])
	dia, _ := strconv.Atoi(m[2])
	return max(systolicRisk(sys), diastolicRisk(dia))
}

func systolicRisk(sys int) int {
	switch {
	case sys < 120:
		return 0
	case sys < 130:
		return 1
	case sys < 140:
		return 2
	default:
		return 3
	}
}

// diastolicRisk has no band 1: there is no "elevated" diastolic range, so
// anything under 80 is normal and 80–89 already counts as stage 1.
func diastolicRisk(dia int) int {
	switch {
	case dia < 80:
		return 0
	case dia < 90:
		return 2
	default:
		return 3
	}
}
