// Package transport issues JSON requests against the clinical API.
//
// Client.Do sends one logical request and retries it on transient failures:
// a network error or one of the statuses 429, 500, 502, 503, 504. Only GET and
// POST are retried. The budget is FetchConfig.MaxAttempts attempts in total;
// the delay before retry n is BackoffFactor * 2^(n-1), capped at MaxBackoff,
// unless the server sent a Retry-After header.
//
// Any other status >= 400 fails at once with a *StatusError. A 2xx body that
// is not valid JSON fails with ErrMalformedBody.
//
// The credential header, Content-Type and X-Correlation-ID are injected by
// authRoundTripper in base.go, so every attempt carries them.
package transport
