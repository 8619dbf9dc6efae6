package normalizer

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sentimentlab/topic-pulse/internal/dates"
	"github.com/sentimentlab/topic-pulse/internal/models"
	"github.com/sentimentlab/topic-pulse/internal/translate"
)

// twitterURLPlaceholder stands in for the canonical link the raw payload
// never carries.
const twitterURLPlaceholder = "https://x.com"

var ariaDigits = regexp.MustCompile(`(\d+)`)

// TwitterNormalizer maps raw tweet markup. The payload carries no stable ID,
// so identity is synthesized from the normalized publication timestamp plus
// the like count. This is a best-effort weak identity: two distinct tweets
// published at the identical timestamp with identical like counts collide
// and are treated as the same record.
type TwitterNormalizer struct {
	translator translate.Translator
}

type twitterItem struct {
	Text    string `json:"text"`
	RawHTML string `json:"raw_html"`
}

// NewTwitterNormalizer creates a Twitter normalizer.
func NewTwitterNormalizer(translator translate.Translator) *TwitterNormalizer {
	return &TwitterNormalizer{translator: translator}
}

func (n *TwitterNormalizer) Platform() string {
	return "twitter"
}

func (n *TwitterNormalizer) Normalize(ctx context.Context, raw json.RawMessage, run RunContext) (models.Record, error) {
	var item twitterItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return models.Record{}, fmt.Errorf("decode twitter item: %w", err)
	}

	text, publishedAt, likes := n.extractMarkup(item, run)
	if text == "" {
		return models.Record{}, fmt.Errorf("twitter item missing required field %q", "text")
	}

	return models.Record{
		OriginID:          publishedAt + strconv.Itoa(likes),
		Platform:          n.Platform(),
		SourceKind:        models.KindPublicPost,
		Country:           "USA",
		ContentOriginal:   text,
		ContentTranslated: n.translator.Translate(ctx, text),
		PublishedAt:       publishedAt,
		ScrapedAt:         run.Now.Format(dates.Layout),
		Engagement:        likes,
		URL:               twitterURLPlaceholder,
	}, nil
}

// extractMarkup recovers the human-readable text, the authorship timestamp
// and the like count from the tweet's inner HTML. Any missing sub-element
// degrades to the raw text, the run clock or zero.
func (n *TwitterNormalizer) extractMarkup(item twitterItem, run RunContext) (text, publishedAt string, likes int) {
	text = strings.TrimSpace(item.Text)
	publishedAt = run.Now.Format(dates.Layout)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(item.RawHTML))
	if err != nil {
		return text, publishedAt, 0
	}

	if body := doc.Find(`div[data-testid="tweetText"]`).First(); body.Length() > 0 {
		if clean := strings.TrimSpace(body.Text()); clean != "" {
			text = clean
		}
	}

	if stamp, exists := doc.Find("time").First().Attr("datetime"); exists && stamp != "" {
		publishedAt = stamp
	}

	if label, exists := doc.Find(`button[data-testid="like"]`).First().Attr("aria-label"); exists {
		if match := ariaDigits.FindString(label); match != "" {
			if parsed, err := strconv.Atoi(match); err == nil {
				likes = parsed
			}
		}
	}

	return text, publishedAt, likes
}
