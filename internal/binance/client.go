package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.binance.com"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0

	// klineLimit is the maximum bars one /api/v3/klines call returns.
	klineLimit = 1000
)

// Client fetches daily klines over the Binance spot REST API.
type Client struct {
	baseURL     string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a new Binance REST client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DailyBars fetches all daily bars for symbol within [start, end], paginating
// past the 1000-bar response limit. Bars come back in ascending time order.
func (c *Client) DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error) {
	var bars []domain.Bar

	cursor := start.UTC()
	for !cursor.After(end) {
		klines, err := c.klines(ctx, symbol, cursor, end)
		if err != nil {
			return nil, err
		}
		if len(klines) == 0 {
			break
		}

		for _, k := range klines {
			bars = append(bars, k.bar(symbol))
		}

		last := klines[len(klines)-1]
		cursor = time.UnixMilli(last.OpenTime).UTC().AddDate(0, 0, 1)
		if len(klines) < klineLimit {
			break
		}
	}
	return bars, nil
}

// klines performs one /api/v3/klines call with retries and exponential backoff.
func (c *Client) klines(ctx context.Context, symbol string, start, end time.Time) ([]kline, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", Interval1d)
	q.Set("startTime", strconv.FormatInt(start.UnixMilli(), 10))
	q.Set("endTime", strconv.FormatInt(end.UnixMilli(), 10))
	q.Set("limit", strconv.Itoa(klineLimit))
	endpoint := c.baseURL + "/api/v3/klines?" + q.Encode()

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			// Exponential backoff
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		klines, err := c.fetch(ctx, endpoint)
		if err == nil {
			return klines, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("fetch klines for %s after %d attempts: %w", symbol, c.maxRetries+1, lastErr)
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]kline, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var klines []kline
	if err := json.Unmarshal(body, &klines); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}
	return klines, nil
}
