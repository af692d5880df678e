package transport

import (
	"net/http"

	"github.com/vitalscan/vitalscan/agent/internal/config"
)

// correlationHeader carries the run id on every request.
const correlationHeader = "X-Correlation-ID"

// authRoundTripper injects the static credential and JSON headers into every
// outgoing request.
type authRoundTripper struct {
	base  http.RoundTripper
	auth  config.AuthConfig
	key   string
	runID string
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(t.auth.Header, t.key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if t.runID != "" {
		req.Header.Set(correlationHeader, t.runID)
	}
	return t.base.RoundTrip(req)
}

// buildHTTPClient constructs an http.Client for the API's auth and timeout
// settings. base may be nil to use http.DefaultTransport.
func buildHTTPClient(api config.APIConfig, base http.RoundTripper, runID string) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{
		Transport: &authRoundTripper{
			base:  base,
			auth:  api.Auth,
			key:   api.Auth.Key(),
			runID: runID,
		},
		Timeout: api.Timeout,
	}
}
