package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vitalscan/vitalscan/agent/internal/config"
	"github.com/vitalscan/vitalscan/agent/internal/metrics"
)

const (
	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 32 << 20

	// maxErrorBody bounds the body excerpt kept on a StatusError.
	maxErrorBody = 512
)

// Progress receives a human-readable note before each logical request.
// It is called synchronously and may be nil.
type Progress func(message string)

// Request is one logical API call.
type Request struct {
	Method string
	Path   string
	Params url.Values
	// Body is encoded as JSON when non-nil.
	Body any
}

// Options carries optional collaborators for New.
type Options struct {
	// RunID is sent as X-Correlation-ID on every attempt.
	RunID string

	Metrics *metrics.Metrics

	// Transport overrides http.DefaultTransport, e.g. for tests.
	Transport http.RoundTripper
}

// Client talks to the clinical API. A Client is safe for sequential use; the
// pipeline never issues concurrent requests.
type Client struct {
	baseURL string
	http    *http.Client
	fetch   config.FetchConfig
	limiter *rate.Limiter
	metrics *metrics.Metrics
	now     func() time.Time
}

// New returns a Client for the given API and retry settings.
func New(api config.APIConfig, fetch config.FetchConfig, opts Options) *Client {
	c := &Client{
		baseURL: strings.TrimRight(api.BaseURL, "/"),
		http:    buildHTTPClient(api, opts.Transport, opts.RunID),
		fetch:   fetch,
		metrics: opts.Metrics,
		now:     time.Now,
	}
	if api.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(api.RateLimit), api.RateBurst)
	}
	return c
}

// Do sends r and returns the JSON response body. Transient failures are
// retried for GET and POST within the attempt budget; see the package doc.
func (c *Client) Do(ctx context.Context, r Request, progress Progress) (json.RawMessage, error) {
	target := c.baseURL + r.Path
	if len(r.Params) > 0 {
		target += "?" + r.Params.Encode()
	}

	var payload []byte
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("transport: encode body: %w", err)
		}
		payload = b
	}

	if progress != nil {
		progress(describe(r))
	}

	retryable := r.Method == http.MethodGet || r.Method == http.MethodPost

	for attempt := 1; ; attempt++ {
		body, retryAfter, err := c.attempt(ctx, r, target, payload)
		if err == nil {
			if !json.Valid(body) {
				return nil, fmt.Errorf("transport: %s %s: %w", r.Method, r.Path, ErrMalformedBody)
			}
			return body, nil
		}

		if !retryable || !isTransient(err) {
			return nil, fmt.Errorf("transport: %w", err)
		}
		if attempt >= c.fetch.MaxAttempts {
			return nil, fmt.Errorf("transport: %s %s: %w after %d attempts: %w",
				r.Method, r.Path, ErrRetriesExhausted, attempt, err)
		}

		wait := backoff(c.fetch.BackoffFactor, c.fetch.MaxBackoff, attempt)
		if retryAfter > 0 {
			wait = retryAfter
			if c.fetch.MaxBackoff > 0 && wait > c.fetch.MaxBackoff {
				wait = c.fetch.MaxBackoff
			}
		}
		slog.Warn("transport: transient failure, will retry",
			"method", r.Method,
			"path", r.Path,
			"attempt", attempt,
			"retry_in", wait,
			"err", err,
		)
		c.metrics.ObserveRetry(metrics.RetryTransport)

		if err := sleep(ctx, wait); err != nil {
			return nil, fmt.Errorf("transport: %s %s: %w", r.Method, r.Path, err)
		}
	}
}

// attempt performs a single HTTP round trip. On a status >= 400 it also
// returns the delay requested by a Retry-After header, if any.
func (c *Client) attempt(ctx context.Context, r Request, target string, payload []byte) ([]byte, time.Duration, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(r.Method, 0)
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, &networkError{err: err}
	}
	defer resp.Body.Close()
	c.metrics.ObserveRequest(r.Method, resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, &networkError{err: fmt.Errorf("read body: %w", err)}
	}

	slog.Debug("transport: response",
		"method", r.Method, "path", r.Path, "status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode >= http.StatusBadRequest {
		var retryAfter time.Duration
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
			retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), c.now())
		}
		return nil, retryAfter, &StatusError{
			Method:     r.Method,
			Path:       r.Path,
			StatusCode: resp.StatusCode,
			Body:       excerpt(data),
		}
	}
	return data, 0, nil
}

// describe renders r for the progress sink.
func describe(r Request) string {
	params := "none"
	if len(r.Params) > 0 {
		params = r.Params.Encode()
	}
	return fmt.Sprintf("request with method %s to %s with params %s", r.Method, r.Path, params)
}

func excerpt(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
