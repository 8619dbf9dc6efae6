package archive

import "context"

// Archiver retains a copy of each consumed raw collector file so a batch can
// be replayed or audited later. Archival is best-effort: the pipeline logs
// failures and moves on.
type Archiver interface {
	Store(ctx context.Context, name string, data []byte) error
}

// Disabled is the Archiver used when no archive backend is configured.
type Disabled struct{}

func (Disabled) Store(_ context.Context, _ string, _ []byte) error {
	return nil
}
