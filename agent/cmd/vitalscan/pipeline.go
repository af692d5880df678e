package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vitalscan/vitalscan/agent/internal/assess"
	"github.com/vitalscan/vitalscan/agent/internal/collector"
	"github.com/vitalscan/vitalscan/agent/internal/config"
	"github.com/vitalscan/vitalscan/agent/internal/metrics"
	"github.com/vitalscan/vitalscan/agent/internal/submit"
	"github.com/vitalscan/vitalscan/agent/internal/transport"
	"github.com/vitalscan/vitalscan/pkg/types"
)

// pipeline wires one configuration into the collector and submitter.
type pipeline struct {
	cfg       *config.Config
	metrics   *metrics.Metrics
	collector *collector.Collector
	submitter *submit.Submitter
}

// newPipeline builds the components for one run. m is shared across runs in
// watch mode so counters keep growing. rt may be nil.
func newPipeline(cfg *config.Config, runID string, m *metrics.Metrics, rt http.RoundTripper) *pipeline {
	client := transport.New(cfg.API, cfg.Fetch, transport.Options{
		RunID:     runID,
		Metrics:   m,
		Transport: rt,
	})
	return &pipeline{
		cfg:       cfg,
		metrics:   m,
		collector: collector.New(client, cfg.Fetch, m),
		submitter: submit.New(client, cfg.Submit.Path),
	}
}

// evaluate collects every record and classifies them. No report is returned
// when acquisition fails.
func (p *pipeline) evaluate(ctx context.Context, explain bool) (*types.Report, error) {
	defer p.writeMetrics()

	slog.Info("collecting patients")
	start := time.Now()
	records, err := p.collector.Collect(ctx, func(msg string) {
		slog.Info("collecting patients", "request", msg)
	})
	if err != nil {
		return nil, &errAcquisition{err: err}
	}

	report := assess.Assess(records)
	p.metrics.ObserveReport(report, time.Now())

	slog.Info("assessment complete",
		"records", len(records),
		"high_risk", len(report.HighRisk),
		"fever", len(report.Fever),
		"data_quality", len(report.QualityIssues),
		"elapsed", time.Since(start),
	)
	if explain {
		explainRecords(records)
	}
	return report, nil
}

// submit posts report to the API.
func (p *pipeline) submit(ctx context.Context, report *types.Report) error {
	_, err := p.submitter.Submit(ctx, report, func(msg string) {
		slog.Info("submitting report", "request", msg)
	})
	return err
}

func (p *pipeline) writeMetrics() {
	if p.cfg.MetricsFile == "" {
		return
	}
	if err := p.metrics.WriteFile(p.cfg.MetricsFile); err != nil {
		slog.Error("failed to write metrics file", "path", p.cfg.MetricsFile, "err", err)
	}
}

// explainRecords logs the risk breakdown and validation outcome per patient.
func explainRecords(records []types.PatientRecord) {
	for _, rec := range records {
		risk := assess.Score(rec)
		attrs := []any{
			"patient_id", rec.PatientID(),
			"age_risk", risk.Age,
			"temperature_risk", risk.Temperature,
			"blood_pressure_risk", risk.BloodPressure,
			"total", risk.Total(),
			"high_risk", risk.High(),
		}
		if _, err := types.Validate(rec); err != nil {
			attrs = append(attrs, "quality_issue", err.Error())
		}
		slog.Info("patient assessed", attrs...)
	}
}

// writeReport prints report as one JSON line.
func writeReport(w io.Writer, report *types.Report) error {
	if err := json.NewEncoder(w).Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
