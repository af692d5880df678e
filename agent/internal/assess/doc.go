// Package assess classifies patient records.
//
// risk.go provides the pure Score(record) function. The composite risk is
// the sum of three independent components:
//
//	age:            <40 → 0, 40–65 → 1, >65 → 2, not an integer → 0
//	temperature:    <99.6 → 0, 99.6–100.9 → 1, ≥101 → 2, not a number → 0
//	blood pressure: max(systolic band, diastolic band), unparseable → 0
//	  systolic:  <120 → 0, 120–129 → 1, 130–139 → 2, ≥140 → 3
//	  diastolic: <80 → 0, 80–89 → 2, ≥90 → 3
//
// A record is high risk when the total reaches HighRiskThreshold. Malformed
// inputs never fail scoring; they contribute 0.
//
// detect.go holds the three detectors. Each scans the whole collection
// independently and returns the matching records in collection order.
// Assess runs all three and builds the Report.
//
// engine.go provides the stateful Engine used by watch mode to report which
// patients entered or left each category between runs.
package assess
