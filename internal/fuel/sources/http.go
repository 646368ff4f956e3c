package sources

import (
	"context"
	"io"
	"net/http"

	"github.com/sony/gobreaker"
)

// HTTPSource downloads the survey CSV from a URL. A load is a single attempt:
// failures are reported to the caller, which decides when to try again.
type HTTPSource struct {
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewHTTPSource(client *http.Client, url string) *HTTPSource {
	return &HTTPSource{
		url: url,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      0,
				InitialInterval: DefaultBackoff.InitialInterval,
			},
		},
		circuit: newBreaker("dataset-http"),
	}
}

func (s *HTTPSource) Name() string {
	return s.url
}

// Open starts the download; the caller must close the returned body.
func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := doRequestWithResilience(ctx, s.httpCfg, s.circuit, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
