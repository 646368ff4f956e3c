package sources

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nievasdev/brazilgas/internal/config"
)

func TestFromConfig(t *testing.T) {
	cases := []struct {
		cfg  config.AppConfig
		want string
	}{
		{config.AppConfig{DataSource: config.SourceFile, DataPath: "data/gas.csv"}, "file://data/gas.csv"},
		{config.AppConfig{DataSource: config.SourceHTTP, DataURL: "https://example.org/gas.csv"}, "https://example.org/gas.csv"},
		{config.AppConfig{DataSource: config.SourceS3, S3: config.S3Config{
			Bucket: "anp", Key: "gas.csv", Region: "sa-east-1", AccessKeyID: "k", SecretAccessKey: "s",
		}}, "s3://anp/gas.csv"},
	}
	for _, tc := range cases {
		src, err := FromConfig(context.Background(), &tc.cfg, http.DefaultClient)
		require.NoError(t, err)
		assert.Equal(t, tc.want, src.Name())
	}

	_, err := FromConfig(context.Background(), &config.AppConfig{DataSource: "ftp"}, http.DefaultClient)
	assert.Error(t, err)
}
