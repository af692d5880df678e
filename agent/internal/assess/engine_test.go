package assess

import (
	"reflect"
	"testing"
	"time"

	"github.com/vitalscan/vitalscan/pkg/types"
)

var baseTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func report(high, fever, quality []string) *types.Report {
	r := types.NewReport()
	r.HighRisk = append(r.HighRisk, high...)
	r.Fever = append(r.Fever, fever...)
	r.QualityIssues = append(r.QualityIssues, quality...)
	return r
}

func TestEngine_FirstRunIsBaseline(t *testing.T) {
	e := NewEngine()
	out := e.Process(report([]string{"P1"}, nil, nil), baseTime)
	if out.Run != 1 {
		t.Errorf("Run = %d, want 1", out.Run)
	}
	if len(out.Changes) != 0 {
		t.Errorf("Changes = %+v, want none on first run", out.Changes)
	}
}

func TestEngine_ReportsEnteredAndLeft(t *testing.T) {
	e := NewEngine()
	e.Process(report([]string{"P1", "P2"}, []string{"P3"}, []string{"P4"}), baseTime)
	out := e.Process(report([]string{"P2", "P5"}, []string{"P3"}, nil), baseTime.Add(time.Minute))

	want := []Change{
		{Category: types.CategoryHighRisk, Entered: []string{"P5"}, Left: []string{"P1"}},
		{Category: types.CategoryQualityIssues, Left: []string{"P4"}},
	}
	if !reflect.DeepEqual(out.Changes, want) {
		t.Errorf("Changes = %+v, want %+v", out.Changes, want)
	}
	if out.Run != 2 || !out.Timestamp.Equal(baseTime.Add(time.Minute)) {
		t.Errorf("Run = %d, Timestamp = %v", out.Run, out.Timestamp)
	}
}

func TestEngine_NoChange(t *testing.T) {
	e := NewEngine()
	r := report([]string{"P1"}, []string{"P1"}, nil)
	e.Process(r, baseTime)
	if out := e.Process(report([]string{"P1"}, []string{"P1"}, nil), baseTime); len(out.Changes) != 0 {
		t.Errorf("Changes = %+v, want none", out.Changes)
	}
}

func TestEngine_Reset(t *testing.T) {
	e := NewEngine()
	e.Process(report([]string{"P1"}, nil, nil), baseTime)
	e.Reset()
	if out := e.Process(report([]string{"P2"}, nil, nil), baseTime); len(out.Changes) != 0 {
		t.Errorf("Changes after Reset = %+v, want none", out.Changes)
	}
}
