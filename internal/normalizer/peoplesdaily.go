package normalizer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sentimentlab/topic-pulse/internal/dates"
	"github.com/sentimentlab/topic-pulse/internal/models"
	"github.com/sentimentlab/topic-pulse/internal/translate"
)

// PeoplesDailyNormalizer maps People's Daily article cards. The article URL
// is the natural origin identity.
type PeoplesDailyNormalizer struct {
	translator translate.Translator
}

type peoplesDailyItem struct {
	Source        string `json:"source"`
	Country       string `json:"country"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"published_date"`
	Summary       string `json:"summary"`
	Author        string `json:"author"`
	ScrapedAt     string `json:"scraped_at"`
}

// NewPeoplesDailyNormalizer creates a People's Daily normalizer.
func NewPeoplesDailyNormalizer(translator translate.Translator) *PeoplesDailyNormalizer {
	return &PeoplesDailyNormalizer{translator: translator}
}

func (n *PeoplesDailyNormalizer) Platform() string {
	return "peoples_daily"
}

func (n *PeoplesDailyNormalizer) Normalize(ctx context.Context, raw json.RawMessage, run RunContext) (models.Record, error) {
	var item peoplesDailyItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return models.Record{}, fmt.Errorf("decode peoples_daily item: %w", err)
	}

	if item.Title == "" {
		return models.Record{}, fmt.Errorf("peoples_daily item missing required field %q", "title")
	}
	if item.URL == "" {
		return models.Record{}, fmt.Errorf("peoples_daily item missing required field %q", "url")
	}

	content := item.Summary
	if content == "" {
		content = item.Title
	}

	titleTranslated := n.translator.Translate(ctx, item.Title)

	return models.Record{
		OriginID:          item.URL,
		Platform:          n.Platform(),
		SourceKind:        models.KindMedia,
		Country:           "China",
		TitleOriginal:     &item.Title,
		TitleTranslated:   &titleTranslated,
		ContentOriginal:   content,
		ContentTranslated: n.translator.Translate(ctx, content),
		PublishedAt:       dates.FromCalendar(item.PublishedDate, run.Now).Value,
		ScrapedAt:         scrapedAt(item.ScrapedAt, run),
		Engagement:        0,
		URL:               item.URL,
	}, nil
}
