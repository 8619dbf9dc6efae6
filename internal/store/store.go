// Package store persists canonical records in a SQLite table keyed by
// origin_id. Upserts follow a fixed mutable/immutable field split: provenance
// fields never change after first insertion, while engagement, translations
// and freshness fields drift across re-collection of the same item.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/sentimentlab/topic-pulse/internal/models"
)

// ErrNotInitialized signals that the store exists but has never been
// initialized. The query service reports this as a configuration fault,
// distinct from an empty result.
var ErrNotInitialized = errors.New("store not initialized, run the pipeline first")

const schema = `
CREATE TABLE IF NOT EXISTS records (
	origin_id          TEXT PRIMARY KEY,
	platform           TEXT NOT NULL,
	source_kind        TEXT NOT NULL,
	country            TEXT NOT NULL,
	title_original     TEXT,
	title_translated   TEXT,
	content_original   TEXT NOT NULL,
	content_translated TEXT NOT NULL,
	published_at       TEXT NOT NULL,
	scraped_at         TEXT NOT NULL,
	batch_date         TEXT NOT NULL,
	engagement         INTEGER NOT NULL DEFAULT 0,
	collection_order   INTEGER NOT NULL DEFAULT 0,
	url                TEXT
);
CREATE INDEX IF NOT EXISTS idx_records_country ON records (country);
CREATE INDEX IF NOT EXISTS idx_records_platform ON records (platform);
CREATE INDEX IF NOT EXISTS idx_records_published_at ON records (published_at);
`

const upsertQuery = `
INSERT INTO records (
	origin_id, platform, source_kind, country,
	title_original, title_translated, content_original, content_translated,
	published_at, scraped_at, batch_date, engagement, collection_order, url
) VALUES (
	:origin_id, :platform, :source_kind, :country,
	:title_original, :title_translated, :content_original, :content_translated,
	:published_at, :scraped_at, :batch_date, :engagement, :collection_order, :url
)
ON CONFLICT(origin_id) DO UPDATE SET
	engagement = excluded.engagement,
	content_translated = excluded.content_translated,
	title_translated = excluded.title_translated,
	collection_order = excluded.collection_order,
	scraped_at = excluded.scraped_at,
	batch_date = excluded.batch_date`

// Filter restricts a query to exact-match equality on country and/or
// platform. Zero values mean "no filter".
type Filter struct {
	Country  string
	Platform string
}

// Store wraps the SQLite-backed merge table.
type Store struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at path. The schema is not created
// here: the pipeline calls Init before its first write, and a query-only
// process facing an uninitialized store reports that via Ready.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	// SQLite serializes writers; one connection avoids database-locked
	// errors between the pipeline and the query service.
	db.SetMaxOpenConns(1)

	return &Store{db: db}, nil
}

// Init creates the records table and its indexes if they do not exist yet.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ready reports whether the records table exists and is queryable.
func (s *Store) Ready(ctx context.Context) error {
	var name string
	err := s.db.GetContext(ctx, &name,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'records'`)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotInitialized
	}
	if err != nil {
		return fmt.Errorf("failed to check store readiness: %w", err)
	}
	return nil
}

// Upsert inserts the record or, when its origin_id is already present,
// updates the mutable field subset while preserving the original provenance
// fields from first insertion.
func (s *Store) Upsert(ctx context.Context, rec models.Record) error {
	if _, err := s.db.NamedExecContext(ctx, upsertQuery, rec); err != nil {
		return fmt.Errorf("failed to upsert record %s: %w", rec.OriginID, err)
	}
	return nil
}

// SaveBatch upserts one source's records inside a single transaction, so a
// crash mid-source loses only that source's uncommitted items. Returns how
// many rows were written in total and how many of those updated an existing
// origin_id.
func (s *Store) SaveBatch(ctx context.Context, records []models.Record) (saved, updated int, err error) {
	if len(records) == 0 {
		return 0, 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin batch transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, rec := range records {
		var exists bool
		if err = tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM records WHERE origin_id = ?)`, rec.OriginID); err != nil {
			return 0, 0, fmt.Errorf("failed to check record %s: %w", rec.OriginID, err)
		}

		if _, err = tx.NamedExecContext(ctx, upsertQuery, rec); err != nil {
			return 0, 0, fmt.Errorf("failed to upsert record %s: %w", rec.OriginID, err)
		}

		saved++
		if exists {
			updated++
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return saved, updated, nil
}

// Query returns records matching the filter, newest publication first.
func (s *Store) Query(ctx context.Context, filter Filter) ([]models.Record, error) {
	query := `SELECT * FROM records WHERE 1=1`
	var args []interface{}

	if filter.Country != "" {
		query += ` AND country = ?`
		args = append(args, filter.Country)
	}
	if filter.Platform != "" {
		query += ` AND platform = ?`
		args = append(args, filter.Platform)
	}

	query += ` ORDER BY published_at DESC`

	records := []models.Record{}
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	return records, nil
}
