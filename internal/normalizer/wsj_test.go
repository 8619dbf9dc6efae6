package normalizer

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentimentlab/topic-pulse/internal/models"
)

func TestWSJNormalizer_Normalize(t *testing.T) {
	n := NewWSJNormalizer(markingTranslator{})

	raw := json.RawMessage(`{
		"source": "wsj",
		"country": "USA",
		"title": "AI Startups Raise Record Funding",
		"url": "https://www.wsj.com/articles/ai-funding",
		"published_date": "42 min ago",
		"summary": "Venture investment keeps climbing.",
		"author": null,
		"scraped_at": "2024-01-10T10:00:00Z"
	}`)

	rec, err := n.Normalize(context.Background(), raw, testRun())
	require.NoError(t, err)

	assert.Equal(t, "https://www.wsj.com/articles/ai-funding", rec.OriginID)
	assert.Equal(t, "wsj", rec.Platform)
	assert.Equal(t, models.KindMedia, rec.SourceKind)
	assert.Equal(t, "USA", rec.Country)
	require.NotNil(t, rec.TitleOriginal)
	assert.Equal(t, "AI Startups Raise Record Funding", *rec.TitleOriginal)
	assert.Equal(t, "pt:Venture investment keeps climbing.", rec.ContentTranslated)
	assert.Equal(t, "2024-01-10T09:18:00Z", rec.PublishedAt)
	assert.Equal(t, "2024-01-10T10:00:00Z", rec.ScrapedAt)
	assert.Equal(t, 0, rec.Engagement)
}

func TestWSJNormalizer_HoursAgo(t *testing.T) {
	n := NewWSJNormalizer(markingTranslator{})

	raw := json.RawMessage(`{
		"title": "Chip Makers Rally",
		"url": "https://www.wsj.com/articles/chips",
		"published_date": "3 hours ago",
		"scraped_at": "2024-01-10T10:00:00Z"
	}`)

	rec, err := n.Normalize(context.Background(), raw, testRun())
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10T07:00:00Z", rec.PublishedAt)
}

func TestWSJNormalizer_UnknownDateKeepsObserved(t *testing.T) {
	n := NewWSJNormalizer(markingTranslator{})

	raw := json.RawMessage(`{
		"title": "Markets Wrap",
		"url": "https://www.wsj.com/articles/markets",
		"published_date": "December 2023",
		"scraped_at": "2024-01-10T10:00:00Z"
	}`)

	rec, err := n.Normalize(context.Background(), raw, testRun())
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10T10:00:00Z", rec.PublishedAt)
}

func TestWSJNormalizer_RequiredFields(t *testing.T) {
	n := NewWSJNormalizer(markingTranslator{})

	_, err := n.Normalize(context.Background(), json.RawMessage(`{"url": "https://www.wsj.com/articles/x"}`), testRun())
	assert.Error(t, err)

	_, err = n.Normalize(context.Background(), json.RawMessage(`{"title": "No URL"}`), testRun())
	assert.Error(t, err)
}
