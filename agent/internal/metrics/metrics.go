package metrics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/vitalscan/vitalscan/pkg/types"
)

const namespace = "vitalscan"

// Retry kinds recorded by ObserveRetry.
const (
	RetryTransport  = "transport"
	RetryValidation = "validation"
)

// Metrics holds the counters for acquisition and assessment.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	retries  *prometheus.CounterVec
	pages    prometheus.Counter
	records  prometheus.Counter
	flagged  *prometheus.GaugeVec
	lastRun  prometheus.Gauge
}

// New returns a Metrics backed by a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP attempts against the clinical API by method and status code.",
		}, []string{"method", "code"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries_total",
			Help:      "Retries by kind: transport (429/5xx/network) or validation (malformed page).",
		}, []string{"kind"}),
		pages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Validated pages fetched.",
		}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Patient records collected.",
		}),
		flagged: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "flagged_patients",
			Help:      "Patients flagged in the last report, by category.",
		}, []string{"category"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed assessment.",
		}),
	}
	m.registry.MustRegister(m.requests, m.retries, m.pages, m.records, m.flagged, m.lastRun)
	return m
}

// ObserveRequest counts one HTTP attempt. code 0 means the attempt failed
// before a response arrived.
func (m *Metrics) ObserveRequest(method string, code int) {
	if m == nil {
		return
	}
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	m.requests.WithLabelValues(method, label).Inc()
}

// ObserveRetry counts one retry of the given kind.
func (m *Metrics) ObserveRetry(kind string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(kind).Inc()
}

// ObservePage counts one validated page holding n records.
func (m *Metrics) ObservePage(n int) {
	if m == nil {
		return
	}
	m.pages.Inc()
	m.records.Add(float64(n))
}

// ObserveReport records the size of each report list and the completion time.
func (m *Metrics) ObserveReport(r *types.Report, at time.Time) {
	if m == nil || r == nil {
		return
	}
	for _, c := range types.Categories {
		m.flagged.WithLabelValues(c).Set(float64(len(r.List(c))))
	}
	m.lastRun.Set(float64(at.Unix()))
}

// Gather returns the current metric families.
func (m *Metrics) Gather() ([]*dto.MetricFamily, error) {
	return m.registry.Gather()
}

// WriteText encodes all metric families to w in the text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	mfs, err := m.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gather: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("metrics: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteFile replaces path with the current metrics. The file is written to a
// temporary sibling first so a scraper never reads a partial file.
func (m *Metrics) WriteFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".vitalscan-*.prom")
	if err != nil {
		return fmt.Errorf("metrics: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := m.WriteText(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("metrics: close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("metrics: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("metrics: rename: %w", err)
	}
	return nil
}
