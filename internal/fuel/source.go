package fuel

import (
	"context"
	"io"
)

// Source abstracts where the survey CSV comes from (local file, HTTP, S3).
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// BoundaryFetcher returns the feature names of the state boundary asset.
type BoundaryFetcher interface {
	FeatureNames(ctx context.Context) ([]string, error)
}

// Store is the contract the in-memory dataset store must satisfy.
type Store interface {
	SaveDataset(ds Dataset, summary LoadSummary)
	Latest() (Dataset, error)
	History() []LoadSummary
}
