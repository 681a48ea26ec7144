// Package spotify implements the catalog provider port against the Spotify
// Web API: artist search, top tracks, recent releases and audio features.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/storybeats-labs/storybeats/internal/core/ports"
)

const (
	defaultBaseURL  = "https://api.spotify.com/v1"
	defaultTokenURL = "https://accounts.spotify.com/api/token"

	defaultTimeout     = 10 * time.Second
	defaultMaxRetries  = 3
	defaultBaseBackoff = 500 * time.Millisecond
	defaultRateEvery   = 100 * time.Millisecond
	defaultRateBurst   = 5

	defaultBreakerFailures = 5
	defaultBreakerCooldown = 30 * time.Second
)

// Config carries the credentials and throttling knobs for the live client.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	BaseBackoff  time.Duration
	RateEvery    time.Duration
	RateBurst    int

	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// Client talks to the Spotify Web API. Every request passes through a rate
// limiter, a circuit breaker and the retry loop, in that order.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[*http.Response]
	logger      zerolog.Logger
	maxRetries  int
	baseBackoff time.Duration
}

// compile-time interface assertion
var _ ports.CatalogProvider = (*Client)(nil)

// NewClient constructs a production client using the client-credentials flow.
// The OAuth transport refreshes tokens on its own.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = defaultBaseBackoff
	}
	if cfg.RateEvery <= 0 {
		cfg.RateEvery = defaultRateEvery
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = defaultRateBurst
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = defaultBreakerFailures
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = defaultBreakerCooldown
	}

	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	httpClient := creds.Client(context.Background())
	httpClient.Timeout = cfg.Timeout

	log := logger.With().Str("component", "spotify").Logger()
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		limiter:     rate.NewLimiter(rate.Every(cfg.RateEvery), cfg.RateBurst),
		breaker:     newBreaker(log, cfg.BreakerFailures, cfg.BreakerCooldown),
		logger:      log,
		maxRetries:  cfg.MaxRetries,
		baseBackoff: cfg.BaseBackoff,
	}
}

// NewClientWithBaseURL constructs an unauthenticated client against an
// arbitrary base URL. Tests point it at an httptest server.
func NewClientWithBaseURL(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	log := zerolog.Nop()
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		limiter:     rate.NewLimiter(rate.Inf, 0),
		breaker:     newBreaker(log, defaultBreakerFailures, defaultBreakerCooldown),
		logger:      log,
		maxRetries:  defaultMaxRetries,
		baseBackoff: time.Millisecond,
	}
}

func newBreaker(logger zerolog.Logger, failures uint32, cooldown time.Duration) *gobreaker.CircuitBreaker[*http.Response] {
	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    "spotify",
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("⚠️ circuit state change")
		},
	})
}

// statusError carries a non-2xx response code through the error chain so
// callers can map specific statuses to port sentinels.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("spotify adapter: status %d", e.code)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.doRequestWithRetry(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("spotify adapter: circuit open: %w", err)
		}
		return nil, err
	}
	return resp, nil
}

// getJSON performs a GET and decodes the body into out. Non-200 responses
// become a *statusError.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("spotify adapter: create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("spotify adapter: decode response: %w", err)
	}
	return nil
}
