// Package frankfurter provides a client for the Frankfurter exchange-rate API.
package frankfurter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the Frankfurter operations.
type Client interface {
	// Latest converts amount from one currency to another at the most
	// recent published rate.
	Latest(ctx context.Context, from, to string, amount float64) (*Conversion, error)
}

// Conversion is the result of a currency conversion.
type Conversion struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    float64 `json:"amount"`
	Converted float64 `json:"converted"`
	Rate      float64 `json:"rate"`
	Date      string  `json:"date"`
}

// latestResponse is the raw API payload.
type latestResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// Option configures the Frankfurter client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// WithCacheTTL sets how long fetched rates are reused before hitting the API
// again. Values <= 0 disable the cache.
func WithCacheTTL(d time.Duration) Option {
	return func(c *httpClient) {
		c.cacheTTL = d
	}
}

// rateEntry is one cached exchange rate for a currency pair.
type rateEntry struct {
	rate      float64
	date      string
	fetchedAt time.Time
}

type httpClient struct {
	baseURL  string
	http     *http.Client
	cacheTTL time.Duration

	mu    sync.Mutex
	rates map[string]rateEntry

	// nowFunc allows test injection of time.
	nowFunc func() time.Time
}

// NewClient creates a Frankfurter API client. Rates are cached per currency
// pair for an hour by default.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://api.frankfurter.app",
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		cacheTTL: time.Hour,
		rates:    make(map[string]rateEntry),
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Latest(ctx context.Context, from, to string, amount float64) (*Conversion, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if from == "" || to == "" {
		return nil, eris.New("frankfurter: both currencies are required")
	}
	if from == to {
		return nil, eris.Errorf("frankfurter: cannot convert %s to itself", from)
	}
	if amount <= 0 {
		return nil, eris.Errorf("frankfurter: amount must be positive, got %g", amount)
	}

	if e, ok := c.cachedRate(from, to); ok {
		return &Conversion{
			From:      from,
			To:        to,
			Amount:    amount,
			Converted: e.rate * amount,
			Rate:      e.rate,
			Date:      e.date,
		}, nil
	}

	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	q.Set("amount", fmt.Sprintf("%g", amount))
	reqURL := fmt.Sprintf("%s/latest?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "frankfurter: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "frankfurter: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "frankfurter: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("frankfurter: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var raw latestResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, eris.Wrap(err, "frankfurter: unmarshal response")
	}

	converted, ok := raw.Rates[to]
	if !ok {
		return nil, eris.Errorf("frankfurter: no rate for %s in response", to)
	}

	conv := &Conversion{
		From:      from,
		To:        to,
		Amount:    amount,
		Converted: converted,
		Rate:      converted / amount,
		Date:      raw.Date,
	}
	c.storeRate(from, to, conv.Rate, conv.Date)
	return conv, nil
}

func pairKey(from, to string) string {
	return from + "|" + to
}

// cachedRate returns an unexpired rate for the pair, if the cache is enabled.
func (c *httpClient) cachedRate(from, to string) (rateEntry, bool) {
	if c.cacheTTL <= 0 {
		return rateEntry{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.rates[pairKey(from, to)]
	if !ok {
		return rateEntry{}, false
	}
	if c.nowFunc().Sub(e.fetchedAt) > c.cacheTTL {
		delete(c.rates, pairKey(from, to))
		return rateEntry{}, false
	}
	return e, true
}

func (c *httpClient) storeRate(from, to string, rate float64, date string) {
	if c.cacheTTL <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates[pairKey(from, to)] = rateEntry{rate: rate, date: date, fetchedAt: c.nowFunc()}
}
