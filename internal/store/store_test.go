package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentimentlab/topic-pulse/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRecord(originID string) models.Record {
	title := "AI Startups Raise Record Funding"
	translated := "Startups de IA captam financiamento recorde"
	return models.Record{
		OriginID:          originID,
		Platform:          "wsj",
		SourceKind:        models.KindMedia,
		Country:           "USA",
		TitleOriginal:     &title,
		TitleTranslated:   &translated,
		ContentOriginal:   "Venture investment keeps climbing.",
		ContentTranslated: "O investimento de risco continua subindo.",
		PublishedAt:       "2025-06-14T09:18:00Z",
		ScrapedAt:         "2025-06-15T06:00:00Z",
		BatchDate:         "2025-06-15",
		Engagement:        0,
		CollectionOrder:   0,
		URL:               "https://www.wsj.com/articles/ai-funding",
	}
}

func TestReadyBeforeInit(t *testing.T) {
	s := openTestStore(t)

	err := s.Ready(context.Background())
	assert.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, s.Init(context.Background()))
	assert.NoError(t, s.Ready(context.Background()))
}

func TestUpsertIsIdempotentOnOriginID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Init(ctx))

	rec := sampleRecord("https://www.wsj.com/articles/ai-funding")
	require.NoError(t, s.Upsert(ctx, rec))
	require.NoError(t, s.Upsert(ctx, rec))

	records, err := s.Query(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestUpsertPreservesImmutableFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Init(ctx))

	first := sampleRecord("origin-1")
	require.NoError(t, s.Upsert(ctx, first))

	second := sampleRecord("origin-1")
	newTitle := "Different original title"
	newTranslated := "Tradução revisada"
	second.TitleOriginal = &newTitle
	second.TitleTranslated = &newTranslated
	second.ContentOriginal = "Different original content."
	second.ContentTranslated = "Conteúdo retraduzido."
	second.PublishedAt = "2025-06-16T00:00:00Z"
	second.ScrapedAt = "2025-06-16T06:00:00Z"
	second.BatchDate = "2025-06-16"
	second.Engagement = 42
	second.CollectionOrder = 7
	second.URL = "https://www.wsj.com/articles/other"
	require.NoError(t, s.Upsert(ctx, second))

	records, err := s.Query(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	got := records[0]

	// Provenance keeps the first-seen values.
	require.NotNil(t, got.TitleOriginal)
	assert.Equal(t, "AI Startups Raise Record Funding", *got.TitleOriginal)
	assert.Equal(t, "Venture investment keeps climbing.", got.ContentOriginal)
	assert.Equal(t, "2025-06-14T09:18:00Z", got.PublishedAt)
	assert.Equal(t, "https://www.wsj.com/articles/ai-funding", got.URL)

	// Mutable fields take the latest collection.
	require.NotNil(t, got.TitleTranslated)
	assert.Equal(t, "Tradução revisada", *got.TitleTranslated)
	assert.Equal(t, "Conteúdo retraduzido.", got.ContentTranslated)
	assert.Equal(t, 42, got.Engagement)
	assert.Equal(t, 7, got.CollectionOrder)
	assert.Equal(t, "2025-06-16T06:00:00Z", got.ScrapedAt)
	assert.Equal(t, "2025-06-16", got.BatchDate)
}

func TestSaveBatchCountsSavedAndUpdated(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Init(ctx))

	require.NoError(t, s.Upsert(ctx, sampleRecord("origin-1")))

	batch := []models.Record{
		sampleRecord("origin-1"),
		sampleRecord("origin-2"),
		sampleRecord("origin-3"),
	}
	saved, updated, err := s.SaveBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 3, saved)
	assert.Equal(t, 1, updated)

	records, err := s.Query(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSaveBatchEmpty(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Init(ctx))

	saved, updated, err := s.SaveBatch(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, saved)
	assert.Zero(t, updated)
}

func TestQueryFiltersAndOrdering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Init(ctx))

	older := sampleRecord("us-old")
	older.PublishedAt = "2025-06-10T00:00:00Z"
	newer := sampleRecord("us-new")
	newer.PublishedAt = "2025-06-14T00:00:00Z"

	weibo := sampleRecord("cn-weibo")
	weibo.Platform = "weibo"
	weibo.SourceKind = models.KindPublicPost
	weibo.Country = "China"
	weibo.TitleOriginal = nil
	weibo.TitleTranslated = nil
	weibo.PublishedAt = "2025-06-12T00:00:00Z"

	_, _, err := s.SaveBatch(ctx, []models.Record{older, newer, weibo})
	require.NoError(t, err)

	all, err := s.Query(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "us-new", all[0].OriginID)
	assert.Equal(t, "cn-weibo", all[1].OriginID)
	assert.Equal(t, "us-old", all[2].OriginID)

	china, err := s.Query(ctx, Filter{Country: "China"})
	require.NoError(t, err)
	require.Len(t, china, 1)
	assert.Equal(t, "cn-weibo", china[0].OriginID)
	assert.Nil(t, china[0].TitleOriginal)

	wsjUSA, err := s.Query(ctx, Filter{Country: "USA", Platform: "wsj"})
	require.NoError(t, err)
	assert.Len(t, wsjUSA, 2)

	none, err := s.Query(ctx, Filter{Platform: "twitter"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
