package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vitalscan/vitalscan/pkg/types"
)

// fakeAPI serves two pages of patients and records submissions.
type fakeAPI struct {
	submissions chan string
	failPages   bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("x-api-key") != "test-key" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/patients":
		if f.failPages {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		page := r.URL.Query().Get("page")
		data := `[{"patient_id":"P1","name":"A","age":70,"gender":"M","blood_pressure":"145/95","temperature":101.2}]`
		hasNext := "true"
		if page == "2" {
			data = `[{"patient_id":"P2","name":"B","age":30,"blood_pressure":"INVALID","temperature":98.1}]`
			hasNext = "false"
		}
		fmt.Fprintf(w, `{"data":%s,"pagination":{"page":%s,"limit":20,"total":2,"totalPages":2,"hasNext":%s,"hasPrevious":false},"metadata":{"timestamp":"t","version":"v1.0","requestId":"r"}}`,
			data, page, hasNext)
	case r.Method == http.MethodPost && r.URL.Path == "/submit-assessment":
		b, _ := io.ReadAll(r.Body)
		f.submissions <- string(b)
		_, _ = w.Write([]byte(`{"success":true,"message":"ok"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// writeConfig points a config file at srv.
func writeConfig(t *testing.T, srv *httptest.Server, extra string) string {
	t.Helper()
	t.Setenv("VITALSCAN_CLI_KEY", "test-key")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf(`
api:
  base_url: %s
  auth:
    key_env: VITALSCAN_CLI_KEY
fetch:
  backoff_factor: 0s
log_level: error
%s`, srv.URL, extra)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func execute(ctx context.Context, args ...string) (string, error) {
	var out bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestRun_PrintsReportAndSubmits(t *testing.T) {
	api := &fakeAPI{submissions: make(chan string, 1)}
	srv := httptest.NewServer(api)
	defer srv.Close()

	metricsPath := filepath.Join(t.TempDir(), "vitalscan.prom")
	cfgPath := writeConfig(t, srv, "")

	out, err := execute(context.Background(),
		"run", "--config", cfgPath, "--env-file", "", "--submit", "--explain", "--metrics-file", metricsPath)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}

	want := `{"high_risk_patients":["P1"],"fever_patients":["P1"],"data_quality_issues":["P2"]}`
	if strings.TrimSpace(out) != want {
		t.Errorf("stdout = %s, want %s", out, want)
	}

	select {
	case body := <-api.submissions:
		if body != want {
			t.Errorf("submitted = %s, want %s", body, want)
		}
	default:
		t.Error("report was not submitted")
	}

	prom, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	for _, line := range []string{
		"vitalscan_pages_total 2",
		"vitalscan_records_total 2",
		`vitalscan_flagged_patients{category="data_quality"} 1`,
	} {
		if !strings.Contains(string(prom), line) {
			t.Errorf("metrics missing %q", line)
		}
	}
}

func TestRun_AcquisitionFailurePrintsNothing(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{failPages: true})
	defer srv.Close()

	out, err := execute(context.Background(), "run", "--config", writeConfig(t, srv, ""), "--env-file", "")
	var acq *errAcquisition
	if !errors.As(err, &acq) {
		t.Fatalf("err = %v, want acquisition failure", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want nothing", out)
	}
}

func TestRun_InvalidLogLevelFlag(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()

	_, err := execute(context.Background(), "run", "--config", writeConfig(t, srv, ""), "--env-file", "", "--log-level", "loud")
	if err == nil || !strings.Contains(err.Error(), "log_level") {
		t.Fatalf("err = %v, want log_level error", err)
	}
}

func TestWatch_FirstCycleRunsImmediately(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := execute(ctx, "watch", "--config", writeConfig(t, srv, "watch:\n  interval: 1h\n"), "--env-file", "")
	if err != nil {
		t.Fatalf("watch error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1 {
		t.Fatalf("report lines = %d, want 1:\n%s", len(lines), out)
	}
	var r types.Report
	if err := json.Unmarshal([]byte(lines[0]), &r); err != nil {
		t.Fatalf("report line is not JSON: %v", err)
	}
	if len(r.HighRisk) != 1 || r.HighRisk[0] != "P1" {
		t.Errorf("HighRisk = %v, want [P1]", r.HighRisk)
	}
}

func TestCheck_PlainHTTPWithKey(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()

	out, err := execute(context.Background(), "check", "--config", writeConfig(t, srv, ""), "--env-file", "")
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	var got struct {
		KeyPresent  bool `json:"key_present"`
		Certificate struct {
			Status string `json:"status"`
		} `json:"certificate"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !got.KeyPresent || got.Certificate.Status != "none" {
		t.Errorf("check = %+v", got)
	}
}
