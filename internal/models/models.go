package models

import "time"

// Source kinds for canonical records.
const (
	KindMedia      = "media"
	KindPublicPost = "public-post"
)

// Record is the canonical, store-persisted representation of one collected
// item. OriginID is the primary key across all sources; re-encountering the
// same OriginID in a later batch updates the existing row instead of
// inserting a duplicate.
type Record struct {
	OriginID          string  `json:"origin_id" db:"origin_id"`
	Platform          string  `json:"platform" db:"platform"`
	SourceKind        string  `json:"source_kind" db:"source_kind"`
	Country           string  `json:"country" db:"country"`
	TitleOriginal     *string `json:"title_original" db:"title_original"`
	TitleTranslated   *string `json:"title_translated" db:"title_translated"`
	ContentOriginal   string  `json:"content_original" db:"content_original"`
	ContentTranslated string  `json:"content_translated" db:"content_translated"`
	PublishedAt       string  `json:"published_at" db:"published_at"`
	ScrapedAt         string  `json:"scraped_at" db:"scraped_at"`
	BatchDate         string  `json:"batch_date" db:"batch_date"`
	Engagement        int     `json:"engagement" db:"engagement"`
	CollectionOrder   int     `json:"collection_order" db:"collection_order"`
	URL               string  `json:"url" db:"url"`
}

// SourceReport summarizes one source's outcome within a batch run.
type SourceReport struct {
	Source    string `json:"source"`
	Collected int    `json:"collected"`
	Saved     int    `json:"saved"`
	Updated   int    `json:"updated"`
	Skipped   int    `json:"skipped"`
	Error     string `json:"error,omitempty"`
}

// RunReport is the outcome of one orchestrator run. The run always reaches
// its terminal state; partial success shows up as per-source errors here,
// never as an aborted run.
type RunReport struct {
	BatchDate string         `json:"batch_date"`
	StartedAt time.Time      `json:"started_at"`
	Duration  string         `json:"duration"`
	Sources   []SourceReport `json:"sources"`
}

// TotalSaved sums saved rows across all sources.
func (r *RunReport) TotalSaved() int {
	total := 0
	for _, s := range r.Sources {
		total += s.Saved
	}
	return total
}

// TotalSkipped sums skipped items across all sources.
func (r *RunReport) TotalSkipped() int {
	total := 0
	for _, s := range r.Sources {
		total += s.Skipped
	}
	return total
}
