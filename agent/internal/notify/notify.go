package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vitalscan/vitalscan/agent/internal/assess"
	"github.com/vitalscan/vitalscan/agent/internal/config"
)

const deliveryTimeout = 10 * time.Second

// Notifier posts the changes of a run to every configured webhook.
type Notifier struct {
	webhooks []config.WebhookConfig
	client   *http.Client
}

// New returns a Notifier for hooks. A Notifier with no hooks is a no-op.
func New(hooks []config.WebhookConfig) *Notifier {
	return &Notifier{
		webhooks: hooks,
		client:   &http.Client{Timeout: deliveryTimeout},
	}
}

// Notify sends res to every webhook when it carries changes. Each failed
// delivery is logged and included in the returned error; one failure does
// not stop the others.
func (n *Notifier) Notify(ctx context.Context, res *assess.Result) error {
	if res == nil || len(res.Changes) == 0 {
		return nil
	}

	var errs []error
	for _, wh := range n.webhooks {
		url := wh.URL()
		if url == "" {
			slog.Warn("notify: webhook url not set, skipping", "type", wh.Type, "env", wh.URLEnv)
			continue
		}

		var body []byte
		switch wh.Type {
		case "slack":
			body = slackPayload(res)
		case "teams":
			body = teamsPayload(res)
		case "http":
			body = httpPayload(res)
		default:
			slog.Warn("notify: unknown webhook type, skipping", "type", wh.Type)
			continue
		}

		if err := n.post(ctx, url, body); err != nil {
			slog.Error("notify: webhook delivery failed", "type", wh.Type, "run", res.Run, "err", err)
			errs = append(errs, fmt.Errorf("notify: %s: %w", wh.Type, err))
			continue
		}
		slog.Debug("notify: webhook delivered", "type", wh.Type, "run", res.Run)
	}
	return errors.Join(errs...)
}

// Summary renders the changes of res as one line, e.g.
// "run 3: high_risk +P5 -P1; data_quality -P4".
func Summary(res *assess.Result) string {
	parts := make([]string, 0, len(res.Changes))
	for _, c := range res.Changes {
		var ids []string
		for _, id := range c.Entered {
			ids = append(ids, "+"+id)
		}
		for _, id := range c.Left {
			ids = append(ids, "-"+id)
		}
		parts = append(parts, c.Category+" "+strings.Join(ids, " "))
	}
	return fmt.Sprintf("run %d: %s", res.Run, strings.Join(parts, "; "))
}

func slackPayload(res *assess.Result) []byte {
	body, _ := json.Marshal(map[string]string{
		"text": "*vitalscan* " + Summary(res),
	})
	return body
}

func teamsPayload(res *assess.Result) []byte {
	body, _ := json.Marshal(map[string]any{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"themeColor": "FFAB40",
		"summary":    "vitalscan changes",
		"title":      fmt.Sprintf("vitalscan: patients changed category (run %d)", res.Run),
		"text":       Summary(res),
	})
	return body
}

func httpPayload(res *assess.Result) []byte {
	body, _ := json.Marshal(map[string]any{
		"run":       res.Run,
		"timestamp": res.Timestamp.UTC().Format(time.RFC3339),
		"changes":   res.Changes,
	})
	return body
}

func (n *Notifier) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
