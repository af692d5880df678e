package assess

import (
	"log/slog"
	"sync"
	"time"

	"github.com/vitalscan/vitalscan/pkg/types"
)

// Change lists the patients that moved into or out of one report category
// since the previous run.
type Change struct {
	Category string   `json:"category"`
	Entered  []string `json:"entered,omitempty"`
	Left     []string `json:"left,omitempty"`
}

// Result is one processed run.
type Result struct {
	Run       int
	Timestamp time.Time
	Report    *types.Report
	// Changes is empty on the first run and when nothing moved.
	Changes []Change
}

// Engine remembers the previous report across runs and derives what changed.
//
// All exported methods are safe for concurrent use.
type Engine struct {
	mu   sync.Mutex
	prev *types.Report
	runs int
}

// NewEngine returns a ready-to-use Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Process records report as the latest run and returns its changes relative
// to the previous one. now is passed explicitly so tests control the clock.
//
// The first call only records the baseline.
func (e *Engine) Process(report *types.Report, now time.Time) *Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.runs++
	out := &Result{Run: e.runs, Timestamp: now, Report: report}

	if e.prev != nil {
		for _, c := range types.Categories {
			entered, left := diff(e.prev.List(c), report.List(c))
			if len(entered) == 0 && len(left) == 0 {
				continue
			}
			out.Changes = append(out.Changes, Change{Category: c, Entered: entered, Left: left})
			slog.Info("assess: category changed",
				"category", c,
				"entered", entered,
				"left", left,
				"run", e.runs,
			)
		}
	}

	e.prev = report
	return out
}

// Reset forgets the baseline, e.g. after the API target changes.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prev = nil
}

// diff returns the ids in cur but not prev (in cur order) and the ids in
// prev but not cur (in prev order).
func diff(prev, cur []string) (entered, left []string) {
	inPrev := make(map[string]bool, len(prev))
	for _, id := range prev {
		inPrev[id] = true
	}
	inCur := make(map[string]bool, len(cur))
	for _, id := range cur {
		inCur[id] = true
		if !inPrev[id] {
			entered = append(entered, id)
		}
	}
	for _, id := range prev {
		if !inCur[id] {
			left = append(left, id)
		}
	}
	return entered, left
}
