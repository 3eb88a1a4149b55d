// Package rates fetches exchange rates from the external provider.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
)

const (
	// DefaultSourceURL is the USD-relative rate feed.
	DefaultSourceURL = "https://api.exchangerate-api.com/v4/latest/USD"

	ratesCacheKey     = "exchange_rates:usd"
	defaultHTTPTimout = 10 * time.Second
)

// ratesPayload mirrors the provider's response body.
type ratesPayload struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// Client implements adapter.RateSource over HTTP with a Redis-backed payload
// cache, so a provider outage inside the cache TTL is invisible to callers.
type Client struct {
	httpClient *http.Client
	redis      *redis.Client
	sourceURL  string
	cacheTTL   time.Duration
}

// NewClient creates a new rate source client. redisClient may be nil, which
// disables caching.
func NewClient(redisClient *redis.Client, sourceURL string, cacheTTL time.Duration) *Client {
	if sourceURL == "" {
		sourceURL = DefaultSourceURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimout},
		redis:      redisClient,
		sourceURL:  sourceURL,
		cacheTTL:   cacheTTL,
	}
}

// FetchLatest returns the latest USD-relative rates keyed by currency code.
func (c *Client) FetchLatest(ctx context.Context) (map[string]decimal.Decimal, error) {
	if cached, ok := c.fromCache(ctx); ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}

	var payload ratesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode rate payload: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, errors.New("rate payload contains no rates")
	}

	c.toCache(ctx, payload)
	return toDecimals(payload.Rates), nil
}

func (c *Client) fromCache(ctx context.Context) (map[string]decimal.Decimal, bool) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return nil, false
	}

	raw, err := c.redis.Get(ctx, ratesCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Failed to read rates cache", "error", err)
		}
		return nil, false
	}

	var payload ratesPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		slog.Warn("Failed to decode cached rates", "error", err)
		return nil, false
	}
	if len(payload.Rates) == 0 {
		return nil, false
	}
	return toDecimals(payload.Rates), true
}

func (c *Client) toCache(ctx context.Context, payload ratesPayload) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, ratesCacheKey, raw, c.cacheTTL).Err(); err != nil {
		slog.Warn("Failed to write rates cache", "error", err)
	}
}

func toDecimals(rates map[string]float64) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		out[code] = decimal.NewFromFloat(rate)
	}
	return out
}

// Ensure Client implements adapter.RateSource.
var _ adapter.RateSource = (*Client)(nil)
