package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vitalscan/vitalscan/agent/internal/config"
	"github.com/vitalscan/vitalscan/agent/internal/metrics"
	"github.com/vitalscan/vitalscan/agent/internal/transport"
	"github.com/vitalscan/vitalscan/pkg/types"
)

// patientsPath is the paginated listing endpoint.
const patientsPath = "/patients"

// ErrPageLimit is returned when the server still reports hasNext after
// fetch.max_pages pages.
var ErrPageLimit = errors.New("page limit reached")

// Doer issues one logical API request. *transport.Client implements it.
type Doer interface {
	Do(ctx context.Context, r transport.Request, progress transport.Progress) (json.RawMessage, error)
}

// Collector fetches and validates patient pages.
type Collector struct {
	client  Doer
	cfg     config.FetchConfig
	metrics *metrics.Metrics
}

// New returns a Collector. m may be nil.
func New(client Doer, cfg config.FetchConfig, m *metrics.Metrics) *Collector {
	return &Collector{client: client, cfg: cfg, metrics: m}
}

// FetchPage requests one page and validates it. A body that fails validation
// re-issues the request, up to fetch.validation_attempts in total. Transport
// errors are returned at once since the transport has its own retry budget.
func (c *Collector) FetchPage(ctx context.Context, page, limit int, progress transport.Progress) (*Page, error) {
	req := transport.Request{
		Method: http.MethodGet,
		Path:   patientsPath,
		Params: url.Values{
			"page":  {strconv.Itoa(page)},
			"limit": {strconv.Itoa(limit)},
		},
	}

	attempts := c.cfg.ValidationAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := c.client.Do(ctx, req, progress)
		if err != nil {
			return nil, fmt.Errorf("collector: fetch page %d: %w", page, err)
		}

		p, err := decodePage(body)
		if err == nil {
			c.metrics.ObservePage(len(p.Data))
			return p, nil
		}
		lastErr = err

		if attempt < attempts {
			slog.Warn("collector: invalid page, re-requesting",
				"page", page,
				"attempt", attempt,
				"err", err,
			)
			c.metrics.ObserveRetry(metrics.RetryValidation)
		}
	}
	return nil, fmt.Errorf("collector: page %d failed validation after %d attempts: %w",
		page, attempts, lastErr)
}

// Collect fetches every page starting at 1 and returns the records in fetch
// order. Any failure aborts the whole collection and no records are returned.
func (c *Collector) Collect(ctx context.Context, progress transport.Progress) ([]types.PatientRecord, error) {
	var raw []map[string]json.RawMessage

	for page := 1; ; page++ {
		p, err := c.FetchPage(ctx, page, c.cfg.PageSize, progress)
		if err != nil {
			return nil, err
		}
		raw = append(raw, p.Data...)

		slog.Debug("collector: page fetched",
			"page", page,
			"records", len(p.Data),
			"total", p.Pagination.Total,
			"has_next", p.Pagination.HasNext,
			"request_id", p.Metadata.RequestID,
		)

		if !p.Pagination.HasNext {
			break
		}
		if page >= c.cfg.MaxPages {
			return nil, fmt.Errorf("collector: %w: server reports more than %d pages", ErrPageLimit, c.cfg.MaxPages)
		}
	}

	records := make([]types.PatientRecord, 0, len(raw))
	for i, entry := range raw {
		rec, err := types.RecordFromRaw(entry)
		if err != nil {
			return nil, fmt.Errorf("collector: record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
