package normalizer

import (
	"context"
	"time"
)

// markingTranslator prefixes translated text so tests can tell translations
// from originals.
type markingTranslator struct{}

func (markingTranslator) Translate(_ context.Context, text string) string {
	if text == "" {
		return ""
	}
	return "pt:" + text
}

func testRun() RunContext {
	return RunContext{
		BatchDate: "2025-06-15",
		Now:       time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC),
	}
}
