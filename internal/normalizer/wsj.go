package normalizer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sentimentlab/topic-pulse/internal/dates"
	"github.com/sentimentlab/topic-pulse/internal/models"
	"github.com/sentimentlab/topic-pulse/internal/translate"
)

// WSJNormalizer maps WSJ article cards. Publication dates arrive as relative
// expressions ("42 min ago") anchored to the collector's observed time.
type WSJNormalizer struct {
	translator translate.Translator
}

type wsjItem struct {
	Source        string `json:"source"`
	Country       string `json:"country"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"published_date"`
	Summary       string `json:"summary"`
	Author        string `json:"author"`
	ScrapedAt     string `json:"scraped_at"`
}

// NewWSJNormalizer creates a WSJ normalizer.
func NewWSJNormalizer(translator translate.Translator) *WSJNormalizer {
	return &WSJNormalizer{translator: translator}
}

func (n *WSJNormalizer) Platform() string {
	return "wsj"
}

func (n *WSJNormalizer) Normalize(ctx context.Context, raw json.RawMessage, run RunContext) (models.Record, error) {
	var item wsjItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return models.Record{}, fmt.Errorf("decode wsj item: %w", err)
	}

	if item.Title == "" {
		return models.Record{}, fmt.Errorf("wsj item missing required field %q", "title")
	}
	if item.URL == "" {
		return models.Record{}, fmt.Errorf("wsj item missing required field %q", "url")
	}

	observed := scrapedAt(item.ScrapedAt, run)
	titleTranslated := n.translator.Translate(ctx, item.Title)

	return models.Record{
		OriginID:          item.URL,
		Platform:          n.Platform(),
		SourceKind:        models.KindMedia,
		Country:           "USA",
		TitleOriginal:     &item.Title,
		TitleTranslated:   &titleTranslated,
		ContentOriginal:   item.Summary,
		ContentTranslated: n.translator.Translate(ctx, item.Summary),
		PublishedAt:       dates.FromRelative(item.PublishedDate, observed).Value,
		ScrapedAt:         observed,
		Engagement:        0,
		URL:               item.URL,
	}, nil
}
