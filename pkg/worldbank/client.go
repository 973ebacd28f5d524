// Package worldbank provides a client for the World Bank Open Data API
// (country indicator time series).
package worldbank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/credi-research/econ-cli/internal/resilience"
)

// ErrSourceUnavailable marks a transport or parse failure talking to the
// World Bank API. An empty series is not an error and never carries it.
var ErrSourceUnavailable = eris.New("worldbank: source unavailable")

// Observation is a single annual data point. Null source values are dropped
// before observations are returned.
type Observation struct {
	Year  int
	Value float64
}

// Client defines the World Bank data operations.
type Client interface {
	// FetchSeries returns the indicator series for one country, restricted
	// to the inclusive [startYear, endYear] range and sorted ascending by
	// year. An empty slice means the source had no usable observations.
	FetchSeries(ctx context.Context, countryCode, indicatorCode string, startYear, endYear int) ([]Observation, error)
}

// Option configures the World Bank client.
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

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithMaxRetries sets the total attempt count for transient failures.
func WithMaxRetries(n int) Option {
	return func(c *httpClient) {
		c.retry.MaxAttempts = n
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a World Bank API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://api.worldbank.org/v2",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(5), 1),
		retry:   resilience.DefaultRetryConfig(),
	}
	c.retry.OnRetry = resilience.RetryLogger("worldbank", "fetch_series")
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// pageMeta is the first element of the API's response envelope.
type pageMeta struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
}

// record is one observation as returned by the API. Value is null for years
// the country has not reported.
type record struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

func (c *httpClient) FetchSeries(ctx context.Context, countryCode, indicatorCode string, startYear, endYear int) ([]Observation, error) {
	if countryCode == "" {
		return nil, eris.New("worldbank: country code is required")
	}
	if indicatorCode == "" {
		return nil, eris.New("worldbank: indicator code is required")
	}

	var out []Observation
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/country/%s/indicator/%s?format=json&per_page=100&page=%d",
			c.baseURL, countryCode, indicatorCode, page)

		body, err := c.getPage(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, eris.Wrapf(ErrSourceUnavailable, "fetch %s/%s page %d: %v",
				countryCode, indicatorCode, page, err)
		}

		meta, records, err := parseEnvelope(body)
		if err != nil {
			return nil, eris.Wrapf(ErrSourceUnavailable, "parse %s/%s page %d: %v",
				countryCode, indicatorCode, page, err)
		}

		for _, rec := range records {
			if rec.Value == nil {
				continue
			}
			year, err := strconv.Atoi(rec.Date)
			if err != nil {
				// Quarterly and monthly indicators use other date formats;
				// only annual points are summarized.
				continue
			}
			if year < startYear || year > endYear {
				continue
			}
			out = append(out, Observation{Year: year, Value: *rec.Value})
		}

		if meta.Pages == 0 || page >= meta.Pages {
			break
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

// getPage issues one GET with rate limiting and bounded retries on transient
// failures. It returns the response body on a 200.
func (c *httpClient) getPage(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, eris.Wrap(err, "create request")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "read response body")
		}

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("status %d: %s", resp.StatusCode, string(body))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		return body, nil
	})
}

// parseEnvelope splits the API's [meta, records] response envelope. The API
// signals errors (unknown indicator, bad country) with a single-element
// envelope carrying a message object.
func parseEnvelope(body []byte) (pageMeta, []record, error) {
	var envelope []json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return pageMeta{}, nil, eris.Wrap(err, "unmarshal envelope")
	}
	if len(envelope) < 2 {
		return pageMeta{}, nil, eris.Errorf("unexpected envelope of %d elements: %s",
			len(envelope), truncate(body, 200))
	}

	var meta pageMeta
	if err := json.Unmarshal(envelope[0], &meta); err != nil {
		return pageMeta{}, nil, eris.Wrap(err, "unmarshal page metadata")
	}

	// The records element is null when a country has no data at all.
	var records []record
	if string(envelope[1]) != "null" {
		if err := json.Unmarshal(envelope[1], &records); err != nil {
			return pageMeta{}, nil, eris.Wrap(err, "unmarshal records")
		}
	}

	return meta, records, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
