package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vitalscan/vitalscan/agent/internal/transport"
	"github.com/vitalscan/vitalscan/pkg/types"
)

// ErrRejected is returned when the API accepts the request but reports that
// the submission failed.
var ErrRejected = errors.New("submission rejected")

// Doer issues one logical API request. *transport.Client implements it.
type Doer interface {
	Do(ctx context.Context, r transport.Request, progress transport.Progress) (json.RawMessage, error)
}

// Reply is the API's answer to a submission. Results is kept raw since its
// shape is owned by the server.
type Reply struct {
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Results json.RawMessage `json:"results,omitempty"`
}

// Submitter posts reports to a fixed path.
type Submitter struct {
	client Doer
	path   string
}

// New returns a Submitter posting to path.
func New(client Doer, path string) *Submitter {
	return &Submitter{client: client, path: path}
}

// Submit sends report and returns the decoded reply.
func (s *Submitter) Submit(ctx context.Context, report *types.Report, progress transport.Progress) (*Reply, error) {
	if report == nil {
		report = types.NewReport()
	}
	body, err := s.client.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   s.path,
		Body:   report,
	}, progress)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}

	var reply Reply
	if err := json.Unmarshal(body, &reply); err != nil {
		// Any JSON is accepted by the transport; a non-object reply carries
		// no verdict.
		slog.Debug("submit: reply is not an object", "body", string(body))
		return &Reply{}, nil
	}

	if reply.Success != nil && !*reply.Success {
		slog.Warn("submit: server rejected report", "message", reply.Message)
		return &reply, fmt.Errorf("submit: %w: %s", ErrRejected, reply.Message)
	}

	slog.Info("submit: report delivered",
		"high_risk", len(report.HighRisk),
		"fever", len(report.Fever),
		"data_quality", len(report.QualityIssues),
		"message", reply.Message,
	)
	return &reply, nil
}
