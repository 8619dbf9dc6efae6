package normalizer

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentimentlab/topic-pulse/internal/models"
)

func TestPeoplesDailyNormalizer_Normalize(t *testing.T) {
	n := NewPeoplesDailyNormalizer(markingTranslator{})

	raw := json.RawMessage(`{
		"source": "peoples_daily",
		"country": "China",
		"title": "人工智能产业发展",
		"url": "https://data.people.com.cn/article/123",
		"published_date": "2025年12月22日",
		"summary": "人工智能产业快速发展。",
		"author": null,
		"scraped_at": "2025-06-15T08:00:00+00:00"
	}`)

	rec, err := n.Normalize(context.Background(), raw, testRun())
	require.NoError(t, err)

	assert.Equal(t, "https://data.people.com.cn/article/123", rec.OriginID)
	assert.Equal(t, "peoples_daily", rec.Platform)
	assert.Equal(t, models.KindMedia, rec.SourceKind)
	assert.Equal(t, "China", rec.Country)
	require.NotNil(t, rec.TitleOriginal)
	assert.Equal(t, "人工智能产业发展", *rec.TitleOriginal)
	require.NotNil(t, rec.TitleTranslated)
	assert.Equal(t, "pt:人工智能产业发展", *rec.TitleTranslated)
	assert.Equal(t, "人工智能产业快速发展。", rec.ContentOriginal)
	assert.Equal(t, "pt:人工智能产业快速发展。", rec.ContentTranslated)
	assert.Equal(t, "2025-12-22T00:00:00", rec.PublishedAt)
	assert.Equal(t, "2025-06-15T08:00:00+00:00", rec.ScrapedAt)
	assert.Equal(t, 0, rec.Engagement)
	assert.Equal(t, "https://data.people.com.cn/article/123", rec.URL)
}

func TestPeoplesDailyNormalizer_TitleFallsBackAsContent(t *testing.T) {
	n := NewPeoplesDailyNormalizer(markingTranslator{})

	raw := json.RawMessage(`{
		"title": "标题",
		"url": "https://data.people.com.cn/article/456",
		"published_date": "2025年1月2日",
		"summary": ""
	}`)

	rec, err := n.Normalize(context.Background(), raw, testRun())
	require.NoError(t, err)
	assert.Equal(t, "标题", rec.ContentOriginal)
}

func TestPeoplesDailyNormalizer_MissingScrapedAtDegradesToNow(t *testing.T) {
	n := NewPeoplesDailyNormalizer(markingTranslator{})

	raw := json.RawMessage(`{
		"title": "标题",
		"url": "https://data.people.com.cn/article/789",
		"published_date": "2025年1月2日"
	}`)

	rec, err := n.Normalize(context.Background(), raw, testRun())
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15T12:00:00", rec.ScrapedAt)
}

func TestPeoplesDailyNormalizer_RequiredFields(t *testing.T) {
	n := NewPeoplesDailyNormalizer(markingTranslator{})

	tests := []struct {
		name string
		raw  string
	}{
		{name: "Missing title", raw: `{"url": "https://example.com/a"}`},
		{name: "Missing url", raw: `{"title": "标题"}`},
		{name: "Not JSON", raw: `"just a string"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(context.Background(), json.RawMessage(tt.raw), testRun())
			assert.Error(t, err)
		})
	}
}
