// Package fred is a client for the St. Louis Fed's FRED HTTP API. The
// calendar pipeline uses it for two things: release date schedules
// (which days an indicator publishes on) and series observations (the
// numbers behind an indicator). Requests are rate limited client-side
// and transient failures are retried with exponential backoff.
package fred

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ecocal/internal/config"
	"ecocal/pkg/contracts/domain"
)

// ErrMissingAPIKey is returned when a request is attempted without a
// configured API key.
var ErrMissingAPIKey = errors.New("fred: api key not configured")

// maxBackoff caps the exponential retry delay.
const maxBackoff = 30 * time.Second

// observationFetchLimit is how many raw observations are requested per
// series. FRED reports missing values as ".", so more rows are fetched
// than callers need and the gaps are skipped.
const observationFetchLimit = 10

// StatusError reports a non-2xx response from the API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fred: http %d: %s", e.StatusCode, e.Body)
}

// Client talks to the FRED API
type Client struct {
	baseURL    string
	apiKey     string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewClient creates a FRED API client from configuration
func NewClient(cfg config.FredConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: tr,
		},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     logger,
	}
}

// HasKey reports whether the client has an API key configured.
func (c *Client) HasKey() bool {
	return c.apiKey != ""
}

// ReleaseDates returns the scheduled publication dates for a release
// within [from, to], ascending. Future dates without data yet are
// included.
func (c *Client) ReleaseDates(ctx context.Context, releaseID int, from, to time.Time) ([]time.Time, error) {
	params := url.Values{}
	params.Set("release_id", strconv.Itoa(releaseID))
	params.Set("realtime_start", from.Format(domain.DateLayout))
	params.Set("realtime_end", to.Format(domain.DateLayout))
	params.Set("include_release_dates_with_no_data", "true")
	params.Set("sort_order", "asc")
	params.Set("limit", "1000")

	body, err := c.get(ctx, "/release/dates", params)
	if err != nil {
		return nil, fmt.Errorf("release %d dates: %w", releaseID, err)
	}

	var decoded struct {
		ReleaseDates []struct {
			ReleaseID int    `json:"release_id"`
			Date      string `json:"date"`
		} `json:"release_dates"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("release %d dates: decode: %w", releaseID, err)
	}

	dates := make([]time.Time, 0, len(decoded.ReleaseDates))
	for _, rd := range decoded.ReleaseDates {
		d, err := time.ParseInLocation(domain.DateLayout, rd.Date, time.UTC)
		if err != nil {
			c.logger.WarnContext(ctx, "fred_release_date_unparseable",
				slog.Int("release_id", releaseID),
				slog.String("date", rd.Date))
			continue
		}
		if d.Before(from) || d.After(to) {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// SeriesObservations returns the most recent observations for a series,
// newest first, at most limit entries. Missing values are skipped.
func (c *Client) SeriesObservations(ctx context.Context, seriesID string, limit int) ([]domain.Observation, error) {
	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("sort_order", "desc")
	params.Set("limit", strconv.Itoa(observationFetchLimit))
	params.Set("units", "lin")

	body, err := c.get(ctx, "/series/observations", params)
	if err != nil {
		return nil, fmt.Errorf("series %s observations: %w", seriesID, err)
	}

	var decoded struct {
		Observations []struct {
			Date  string `json:"date"`
			Value string `json:"value"`
		} `json:"observations"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("series %s observations: decode: %w", seriesID, err)
	}

	out := make([]domain.Observation, 0, limit)
	for _, obs := range decoded.Observations {
		if len(out) == limit {
			break
		}
		// FRED encodes missing data points as "."
		if obs.Value == "." || obs.Value == "" {
			continue
		}
		v, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			c.logger.WarnContext(ctx, "fred_observation_unparseable",
				slog.String("series_id", seriesID),
				slog.String("value", obs.Value))
			continue
		}
		out = append(out, domain.Observation{Date: obs.Date, Value: v})
	}
	return out, nil
}

// get performs a rate-limited GET with retry on transient failures
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	var lastErr error
	backoff := c.retryDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
			}

			c.logger.WarnContext(ctx, "fred_request_retry",
				slog.String("path", path),
				slog.Int("attempt", attempt),
				slog.String("error", lastErr.Error()))
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.getOnce(ctx, endpoint)
		if err == nil {
			return body, nil
		}

		lastErr = err
		if !isRetryable(err) {
			break
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// getOnce performs a single HTTP GET
func (c *Client) getOnce(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}

	return body, nil
}

// isRetryable reports whether an error is worth another attempt:
// network failures, rate limiting and server-side errors.
func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// url.Error wraps transport-level failures
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
