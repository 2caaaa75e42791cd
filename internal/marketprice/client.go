// Package marketprice looks up retail prices of roasted coffee from an
// external search service and derives a reference price per 100 g.
package marketprice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Simplici0/roastcalc/internal/logger"
)

const maxResponseBytes = 4 << 20

var (
	// ErrDisabled is returned when no search endpoint is configured.
	ErrDisabled   = errors.New("market price lookup is not configured")
	ErrEmptyQuery = errors.New("search query is empty")
)

// Product is one listing returned by the search service. UnitPrice is the
// price per 100 g.
type Product struct {
	ShopName    string  `json:"shop_name"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	CapacityG   float64 `json:"capacity_g"`
	UnitPrice   float64 `json:"unit_price"`
	URL         string  `json:"url"`
}

// Quote is the result of a lookup. RecommendedPrice is nil without products.
type Quote struct {
	Query            string    `json:"query"`
	Products         []Product `json:"products"`
	RecommendedPrice *int64    `json:"recommendedPrice"`
	Country          string    `json:"country,omitempty"`
}

type searchResponse struct {
	Products []Product `json:"products"`
}

// Options configures a Client. Zero values fall back to sensible defaults.
type Options struct {
	BaseURL         string
	Timeout         time.Duration
	MaxRetries      int
	InitialInterval time.Duration
	Cache           Cache
	HTTPClient      *http.Client
}

// Client queries GET {BaseURL}/search?q=... with bounded exponential backoff.
type Client struct {
	baseURL         string
	http            *http.Client
	maxRetries      uint64
	initialInterval time.Duration
	cache           Cache
}

// NewClient builds a client. A client without BaseURL is disabled.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	interval := opts.InitialInterval
	if interval <= 0 {
		interval = backoff.DefaultInitialInterval
	}
	retries := opts.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return &Client{
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		http:            httpClient,
		maxRetries:      uint64(retries),
		initialInterval: interval,
		cache:           opts.Cache,
	}
}

// Enabled reports whether a search endpoint is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Lookup searches for query and returns the listings with their median unit
// price. Results are served from the cache when present.
func (c *Client) Lookup(ctx context.Context, query string) (*Quote, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if c.cache != nil {
		q, ok, err := c.cache.Get(ctx, query)
		if err != nil {
			logger.Log.Warn().Err(err).Str("query", query).Msg("market price cache read failed")
		} else if ok {
			return q, nil
		}
	}

	products, err := c.search(ctx, query)
	if err != nil {
		return nil, err
	}

	quote := &Quote{
		Query:    query,
		Products: products,
		Country:  DetectCountry(query),
	}
	if price, ok := RecommendedPrice(products); ok {
		quote.RecommendedPrice = &price
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, query, quote); err != nil {
			logger.Log.Warn().Err(err).Str("query", query).Msg("market price cache write failed")
		}
	}
	return quote, nil
}

func (c *Client) search(ctx context.Context, query string) ([]Product, error) {
	endpoint := c.baseURL + "/search?" + url.Values{"q": {query}}.Encode()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialInterval
	policy.MaxInterval = 15 * time.Second
	policy.MaxElapsedTime = time.Minute
	b := backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx)

	var products []Product
	err := backoff.RetryNotify(
		func() error {
			var err error
			products, err = c.fetch(ctx, endpoint)
			return err
		},
		b,
		func(err error, next time.Duration) {
			logger.Log.Warn().Err(err).Dur("retry_in", next).Str("query", query).Msg("market price search failed, retrying")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("search market prices: %w", err)
	}
	return products, nil
}

// fetch performs one request. Client errors are permanent; server errors,
// throttling and transport failures are retried.
func (c *Client) fetch(ctx context.Context, endpoint string) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build search request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("call search service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		err := fmt.Errorf("search service returned %s", resp.Status)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	var payload searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode search response: %w", err))
	}
	if payload.Products == nil {
		payload.Products = []Product{}
	}
	return payload.Products, nil
}
