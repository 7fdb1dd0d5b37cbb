package quote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
	"resty.dev/v3"

	"github.com/Rathna12Thyagu/stake-tracker/internal/metrics"
)

const (
	// Yahoo tolerates roughly two requests per second per host before
	// throttling; one token per 500ms stays comfortably under that.
	requestsPerSecond = 2
	requestBurst      = 1

	breakerFailureThreshold = 5
	breakerOpenDuration     = 30 * time.Second
)

// chartResponse mirrors the Yahoo Finance chart endpoint payload. Only the
// meta block is read; the candle arrays are ignored.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
				PreviousClose      float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Client fetches the latest traded price for a single symbol.
type Client struct {
	symbol  string
	client  *resty.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewClient creates a quote client for the given symbol. baseURL points at
// the chart endpoint root; the symbol is appended as a path segment.
func NewClient(symbol, baseURL string) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "stake-tracker/1.0")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "quote",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		Timeout: breakerOpenDuration,
		OnStateChange: func(_ string, from, to gobreaker.State) {
			slog.Warn("Quote breaker state changed", "from", from.String(), "to", to.String())
			metrics.QuoteBreakerStateChanges.WithLabelValues(to.String()).Inc()
		},
	})

	return &Client{
		symbol:  symbol,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		breaker: breaker,
	}
}

// Latest returns the most recent traded price for the symbol. Network, HTTP,
// and payload problems all surface as an error; there is no internal retry.
func (c *Client) Latest(ctx context.Context) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.QuoteFetchFailuresTotal.WithLabelValues("rate_limit").Inc()
		return 0, fmt.Errorf("rate limiter wait: %w", err)
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.QuoteFetchFailuresTotal.WithLabelValues("breaker_open").Inc()
			return 0, ErrUnavailable
		}
		return 0, err
	}
	metrics.QuoteFetchDuration.Observe(time.Since(start).Seconds())

	return result.(float64), nil
}

func (c *Client) fetch(ctx context.Context) (float64, error) {
	var payload chartResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", c.symbol).
		SetQueryParams(map[string]string{
			"interval": "1d",
			"range":    "1d",
		}).
		SetResult(&payload).
		Get("/{symbol}")

	if err != nil {
		metrics.QuoteFetchFailuresTotal.WithLabelValues("network").Inc()
		return 0, fmt.Errorf("failed to fetch quote for %s: %w", c.symbol, err)
	}

	if !resp.IsSuccess() {
		metrics.QuoteFetchFailuresTotal.WithLabelValues("http").Inc()
		return 0, fmt.Errorf("quote API returned status %d", resp.StatusCode())
	}

	if payload.Chart.Error != nil {
		metrics.QuoteFetchFailuresTotal.WithLabelValues("upstream").Inc()
		return 0, fmt.Errorf("quote API error %s: %s", payload.Chart.Error.Code, payload.Chart.Error.Description)
	}

	if len(payload.Chart.Result) == 0 {
		metrics.QuoteFetchFailuresTotal.WithLabelValues("validation").Inc()
		return 0, ErrNoPrice
	}

	price := payload.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		metrics.QuoteFetchFailuresTotal.WithLabelValues("validation").Inc()
		return 0, ErrNoPrice
	}

	return price, nil
}

// Symbol returns the tracked symbol.
func (c *Client) Symbol() string {
	return c.symbol
}
