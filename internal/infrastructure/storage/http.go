package storage

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPStore fetches objects relative to a base URL, e.g. a CDN or the
// frontend's static assets.
type HTTPStore struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func NewHTTPStore(baseURL string, httpClient *http.Client) (*HTTPStore, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		return nil, crerr.New("template base url is required")
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, crerr.Wrap(err, "parse template base url")
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &HTTPStore{baseURL: parsed, httpClient: httpClient}, nil
}

func (s *HTTPStore) Load(ctx context.Context, name string) ([]byte, error) {
	cleaned, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	ref, err := url.Parse(cleaned)
	if err != nil {
		return nil, crerr.Wrapf(ErrInvalidName, "name %q: %v", name, err)
	}
	target := s.baseURL.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build template request")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch %s", cleaned)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, crerr.Wrapf(ErrObjectNotFound, "fetch %s: status=%d", cleaned, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, crerr.Newf("fetch %s: status=%d", cleaned, resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxObjectSize+1))
	if err != nil {
		return nil, crerr.Wrapf(err, "read %s", cleaned)
	}
	if len(b) > maxObjectSize {
		return nil, crerr.Newf("object %s exceeds %d bytes", cleaned, maxObjectSize)
	}
	return b, nil
}
