// Package normalizer maps raw per-source extraction records onto the
// canonical schema. One bad item must never abort the rest of its file, so
// mapping failures are returned as recoverable errors for the orchestrator
// to log and skip.
package normalizer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sentimentlab/topic-pulse/internal/dates"
	"github.com/sentimentlab/topic-pulse/internal/models"
)

// RunContext carries the per-run values threaded through every normalization
// call: the shared batch date and the run's reference clock. Keeping these
// explicit (instead of ambient state) makes a run a pure function of its raw
// files and the current time.
type RunContext struct {
	BatchDate string
	Now       time.Time
}

// Normalizer maps one source's raw JSON items onto canonical records.
type Normalizer interface {
	Platform() string
	Normalize(ctx context.Context, raw json.RawMessage, run RunContext) (models.Record, error)
}

// scrapedAt resolves the collector-supplied observation time, substituting
// the run clock when the collector omitted it.
func scrapedAt(value string, run RunContext) string {
	return dates.FromAbsolute(value, run.Now).Value
}
