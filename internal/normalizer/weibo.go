package normalizer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sentimentlab/topic-pulse/internal/dates"
	"github.com/sentimentlab/topic-pulse/internal/models"
	"github.com/sentimentlab/topic-pulse/internal/translate"
)

// WeiboNormalizer maps Weibo post cards. Posts have no title concept; the
// platform's mid attribute is the natural origin identity.
type WeiboNormalizer struct {
	translator translate.Translator
}

type weiboItem struct {
	MID       string `json:"mid"`
	Text      string `json:"text"`
	RawHTML   string `json:"raw_html"`
	UserName  string `json:"user_name"`
	UserURL   string `json:"user_url"`
	Timestamp string `json:"timestamp"`
	Region    string `json:"region"`
	Likes     int    `json:"likes"`
	ScrapedAt string `json:"scraped_at"`
}

// NewWeiboNormalizer creates a Weibo normalizer.
func NewWeiboNormalizer(translator translate.Translator) *WeiboNormalizer {
	return &WeiboNormalizer{translator: translator}
}

func (n *WeiboNormalizer) Platform() string {
	return "weibo"
}

func (n *WeiboNormalizer) Normalize(ctx context.Context, raw json.RawMessage, run RunContext) (models.Record, error) {
	var item weiboItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return models.Record{}, fmt.Errorf("decode weibo item: %w", err)
	}

	if item.MID == "" {
		return models.Record{}, fmt.Errorf("weibo item missing required field %q", "mid")
	}
	if item.Text == "" {
		return models.Record{}, fmt.Errorf("weibo item missing required field %q", "text")
	}

	engagement := item.Likes
	if engagement < 0 {
		engagement = 0
	}

	return models.Record{
		OriginID:          item.MID,
		Platform:          n.Platform(),
		SourceKind:        models.KindPublicPost,
		Country:           "China",
		ContentOriginal:   item.Text,
		ContentTranslated: n.translator.Translate(ctx, item.Text),
		PublishedAt:       dates.FromMonthDayClock(item.Timestamp, run.Now).Value,
		ScrapedAt:         scrapedAt(item.ScrapedAt, run),
		Engagement:        engagement,
		URL:               item.UserURL,
	}, nil
}
