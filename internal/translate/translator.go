package translate

import "context"

// minTranslatableLength skips trivial/noise strings before hitting the
// backend, matching the collector pipeline's best-effort policy.
const minTranslatableLength = 3

// Translator converts text into the pipeline's target language. A failed
// translation must never abort normalization of the containing record, so
// implementations return the original text on any failure.
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// Noop returns input unchanged. Used when translation is disabled and in
// tests.
type Noop struct{}

func (Noop) Translate(_ context.Context, text string) string {
	return text
}
