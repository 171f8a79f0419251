package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jwoopark/trailhead/internal/core/domain"
	"github.com/jwoopark/trailhead/internal/pkg/metrics"
)

// Backoff schedule against rate-limited public interpreters. On 429 the
// delay doubles up to 20s and the same endpoint is retried; on any other
// failure the delay grows by 1.6x up to 15s with at most 10s slept per
// attempt. Moving to the next endpoint resets the delay.
const (
	initialBackoff     = 2 * time.Second
	rateLimitedCeiling = 20 * time.Second
	failureSleepCap    = 10 * time.Second
	failureCeiling     = 15 * time.Second
	failureGrowth      = 1.6

	defaultMaxRetries = 3
	userAgent         = "trailhead/1.0 (+https://github.com/jwoopark/trailhead)"
)

// Doer issues a single HTTP request. *http.Client satisfies it; tests
// substitute a scripted transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// errRateLimited marks an HTTP 429 so the retry loop can tell throttling
// apart from ordinary failures.
type errRateLimited struct {
	retryAfter time.Duration
}

func (e *errRateLimited) Error() string { return "rate limited (429)" }

// Client issues Overpass QL queries against a rotating pool of interpreter
// endpoints with exponential backoff. Shared by the trail and place sources.
type Client struct {
	endpoints  []string
	doer       Doer
	limiter    *rate.Limiter
	maxRetries int

	// sleep is swapped out in tests to record the backoff schedule.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client over the given interpreter endpoints. A nil
// doer falls back to a default http.Client. The client-side limiter keeps a
// polite query rate on top of the server-driven backoff.
func NewClient(endpoints []string, doer Doer) *Client {
	if doer == nil {
		doer = &http.Client{
			Timeout: 75 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		}
	}
	return &Client{
		endpoints:  endpoints,
		doer:       doer,
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
		maxRetries: defaultMaxRetries,
		sleep:      sleepCtx,
	}
}

// WithMaxRetries overrides the per-endpoint attempt budget.
func (c *Client) WithMaxRetries(n int) *Client {
	if n > 0 {
		c.maxRetries = n
	}
	return c
}

// Query runs one Overpass QL query, rotating endpoints on exhaustion. kind
// labels the query for metrics ("trails", "places"). Returns the parsed
// response, or ErrSourceUnavailable once every endpoint and retry is spent.
func (c *Client) Query(ctx context.Context, kind, ql string) (*Response, error) {
	if len(c.endpoints) == 0 {
		return nil, fmt.Errorf("%w: no overpass endpoints configured", domain.ErrInvalidInput)
	}

	start := time.Now()
	defer func() {
		metrics.OverpassQueryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for _, endpoint := range c.endpoints {
		backoff := initialBackoff

		for attempt := 0; attempt < c.maxRetries; attempt++ {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}

			resp, err := c.post(ctx, endpoint, ql)
			if err == nil {
				metrics.OverpassQueries.WithLabelValues(kind, "ok").Inc()
				return resp, nil
			}

			if rl, ok := err.(*errRateLimited); ok {
				metrics.OverpassRateLimited.WithLabelValues(endpoint).Inc()
				wait := backoff
				if rl.retryAfter > wait {
					wait = rl.retryAfter
				}
				slog.Warn("overpass rate limited",
					"endpoint", endpoint, "attempt", attempt+1, "wait", wait)
				if serr := c.sleep(ctx, wait); serr != nil {
					return nil, serr
				}
				backoff = wait * 2
				if backoff > rateLimitedCeiling {
					backoff = rateLimitedCeiling
				}
				continue
			}

			lastErr = err
			metrics.OverpassRetries.Inc()
			slog.Warn("overpass query failed",
				"endpoint", endpoint, "attempt", attempt+1, "error", err)

			wait := backoff
			if wait > failureSleepCap {
				wait = failureSleepCap
			}
			if serr := c.sleep(ctx, wait); serr != nil {
				return nil, serr
			}
			backoff = time.Duration(float64(backoff) * failureGrowth)
			if backoff > failureCeiling {
				backoff = failureCeiling
			}
		}
	}

	metrics.OverpassQueries.WithLabelValues(kind, "exhausted").Inc()
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, lastErr)
	}
	return nil, domain.ErrSourceUnavailable
}

// post performs a single attempt against one endpoint.
func (c *Client) post(ctx context.Context, endpoint, ql string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(ql))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return nil, &errRateLimited{retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	var parsed Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}
	return &parsed, nil
}

// parseRetryAfter reads a seconds-valued Retry-After header; unparseable or
// absent values yield zero so the regular backoff applies.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(header), 64)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
