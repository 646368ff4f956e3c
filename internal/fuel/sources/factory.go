package sources

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nievasdev/brazilgas/internal/config"
	"github.com/nievasdev/brazilgas/internal/fuel"
	"github.com/nievasdev/brazilgas/internal/objstore"
)

// FromConfig builds the dataset source selected by DATA_SOURCE.
func FromConfig(ctx context.Context, cfg *config.AppConfig, client *http.Client) (fuel.Source, error) {
	switch cfg.DataSource {
	case config.SourceFile:
		return NewFileSource(cfg.DataPath), nil
	case config.SourceHTTP:
		return NewHTTPSource(client, cfg.DataURL), nil
	case config.SourceS3:
		s3Client, err := objstore.NewS3Client(ctx, objstore.Options{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return NewS3Source(s3Client, cfg.S3.Bucket, cfg.S3.Key), nil
	}
	return nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
}
