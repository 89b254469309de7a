package federationapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/federation-awards/internal/platform/logging"
	"github.com/riskibarqy/federation-awards/internal/platform/resilience"
	"github.com/riskibarqy/federation-awards/internal/usecase"
)

const (
	defaultBaseURL  = "http://localhost:8000/api"
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 16 << 20
	maxListPages    = 200
	breakerName     = "federation-api"
)

var (
	// ErrNotFound is returned for by-id lookups the API answers with 404.
	ErrNotFound = crerr.New("federation api resource not found")

	errTransient = crerr.New("federation api transient failure")
)

// RequestObserver receives one observation per upstream call.
type RequestObserver interface {
	ObserveRequest(resource, outcome string, elapsed time.Duration)
}

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	// RateLimit is requests per second; zero disables limiting.
	RateLimit      float64
	RateBurst      int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	Observer       RequestObserver
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	maxRetries   int
	retryBackoff time.Duration
	limiter      *rate.Limiter
	logger       *logging.Logger
	observer     RequestObserver
	breaker      *resilience.CircuitBreaker
	flight       singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		token:        strings.TrimSpace(cfg.Token),
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		limiter:      rate.NewLimiter(limit, burst),
		logger:       logger.Named("gateway"),
		observer:     cfg.Observer,
		breaker:      resilience.NewCircuitBreaker(breakerName, breakerCfg),
	}
}

// BreakerState reports the upstream circuit state for health checks.
func (c *Client) BreakerState() resilience.CircuitState {
	return c.breaker.State()
}

func (c *Client) doJSON(ctx context.Context, resource, path string, target any) error {
	raw, err := c.get(ctx, resource, c.baseURL+path)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(err, "decode %s payload", resource)
	}
	return nil
}

func (c *Client) get(ctx context.Context, resource, fullURL string) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "federation api circuit breaker rejected request", "resource", resource, "state", c.breaker.State())
		c.observe(resource, "rejected", 0)
		return nil, fmt.Errorf("%w: federation api is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	// The shared request outlives any one caller; the client timeout bounds it.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(fullURL, func() (any, error) {
		started := time.Now()
		raw, reqErr := c.executeRequest(flightCtx, fullURL)
		c.observe(resource, outcomeLabel(reqErr), time.Since(started))
		c.breaker.Record(reqErr, isCircuitFailure)
		return raw, reqErr
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	raw, ok := res.Val.([]byte)
	if !ok {
		return nil, crerr.Newf("unexpected response payload type %T", res.Val)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, crerr.Wrap(err, "build request")
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Token "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: send request: %s", errTransient, sanitize(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, crerr.Wrapf(ErrNotFound, "GET %s", redactURL(fullURL))
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: api status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, crerr.Newf("api status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("federation api request failed")
	}
	c.logger.WarnContext(ctx, "federation api request failed", "url", redactURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) observe(resource, outcome string, elapsed time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveRequest(resource, outcome, elapsed)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case stderrors.Is(err, ErrNotFound):
		return "not_found"
	case isCircuitFailure(err):
		return "transient"
	default:
		return "error"
	}
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitize(value, token string) string {
	value = strings.TrimSpace(value)
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return value
}

func redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.User = nil
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
