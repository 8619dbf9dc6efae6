package translate

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// GoogleTranslator calls the free Google Translate endpoint with automatic
// source-language detection. One best-effort attempt per call, no retry; the
// per-call timeout bounds the dominant latency cost of normalization.
type GoogleTranslator struct {
	endpoint string
	target   string
	client   *resty.Client
}

// Ensure GoogleTranslator implements Translator
var _ Translator = (*GoogleTranslator)(nil)

// NewGoogleTranslator creates a translator for the given target language.
func NewGoogleTranslator(endpoint, targetLanguage string, timeout time.Duration) *GoogleTranslator {
	return &GoogleTranslator{
		endpoint: endpoint,
		target:   targetLanguage,
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "TopicPulse/1.0"),
	}
}

// Translate converts text into the target language. Empty or near-empty
// input is returned unchanged without invoking the backend; any backend
// failure logs a warning and returns the original text.
func (g *GoogleTranslator) Translate(ctx context.Context, text string) string {
	if len(text) < minTranslatableLength {
		return text
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"sl":     "auto",
			"tl":     g.target,
			"dt":     "t",
			"q":      text,
		}).
		Get(g.endpoint)

	if err != nil {
		logrus.Warnf("Translation failed, keeping original text: %v", err)
		return text
	}

	if resp.StatusCode() != 200 {
		logrus.Warnf("Translation backend returned status %d, keeping original text", resp.StatusCode())
		return text
	}

	translated, err := decodeResponse(resp.Body())
	if err != nil {
		logrus.Warnf("Unparsable translation response, keeping original text: %v", err)
		return text
	}

	return translated
}

// decodeResponse extracts the translated segments from the gtx response,
// which is a nested array of the form [[["segment","original",...],...],...].
func decodeResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}
	if len(payload) == 0 {
		return "", errEmptyResponse
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(segment[0], &part); err != nil {
			return "", err
		}
		b.WriteString(part)
	}

	if b.Len() == 0 {
		return "", errEmptyResponse
	}
	return b.String(), nil
}

var errEmptyResponse = errors.New("translation response carried no segments")
