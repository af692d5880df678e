package transport

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"
)

// backoff returns the delay before retry n (1-based): factor * 2^(n-1),
// capped at limit when limit is positive.
func backoff(factor, limit time.Duration, n int) time.Duration {
	if factor <= 0 || n < 1 {
		return 0
	}
	d := float64(factor) * math.Pow(2, float64(n-1))
	if limit > 0 && d > float64(limit) {
		return limit
	}
	return time.Duration(d)
}

// parseRetryAfter reads a Retry-After header given either as seconds or as
// an HTTP date. It returns 0 when the header is absent or unusable.
func parseRetryAfter(h string, now time.Time) time.Duration {
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(h); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
