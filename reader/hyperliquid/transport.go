package hyperliquid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appconfig "hyperflow/config"
	"hyperflow/logger"

	"golang.org/x/time/rate"
)

// Client talks to the Hyperliquid public info and stats endpoints over a
// pooled HTTP transport. All calls share one rate limiter so concurrent
// position fetches respect the exchange limits.
type Client struct {
	config         *appconfig.Config
	client         *http.Client
	limiter        *rate.Limiter
	log            *logger.Log
	infoURL        string
	leaderboardURL string
}

// NewClient builds a client from the source and reader configuration.
func NewClient(cfg *appconfig.Config) *Client {
	pool := cfg.Source.Hyperliquid.ConnectionPool

	transport := &http.Transport{
		MaxIdleConns:       pool.MaxIdleConns,
		MaxConnsPerHost:    pool.MaxConnsPerHost,
		IdleConnTimeout:    pool.IdleConnTimeout,
		DisableCompression: false,
	}

	rps := cfg.Reader.RateLimit.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.Reader.RateLimit.BurstSize
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		config: cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Reader.Timeout,
		},
		limiter:        rate.NewLimiter(rate.Limit(rps), burst),
		log:            logger.GetLogger(),
		infoURL:        strings.TrimRight(cfg.Source.Hyperliquid.InfoURL, "/"),
		leaderboardURL: cfg.Source.Hyperliquid.LeaderboardURL,
	}

	c.log.WithComponent("hyperliquid_client").WithFields(logger.Fields{
		"info_url":           c.infoURL,
		"max_idle_conns":     pool.MaxIdleConns,
		"max_conns_per_host": pool.MaxConnsPerHost,
		"timeout":            cfg.Reader.Timeout,
	}).Info("hyperliquid client initialized")

	return c
}

// postInfo issues a POST to the info endpoint with a JSON body and decodes
// the response into out. Retries are handled by the caller via withRetry so
// per-account position fetches can opt out of retrying.
func (c *Client) postInfo(ctx context.Context, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode info request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.infoURL, bytes.NewReader(body))
	if err != nil {
		return &FetchError{Endpoint: c.infoURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, c.infoURL, out)
}

// getJSON issues a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: err}
	}
	return c.do(req, endpoint, out)
}

func (c *Client) do(req *http.Request, endpoint string, out interface{}) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return &FetchError{Endpoint: endpoint, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &FetchError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: err}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &ParseError{Endpoint: endpoint, Err: err}
	}
	return nil
}

// withRetry runs fn up to reader.retry.max_attempts times with exponential
// backoff. Parse errors and context cancellation stop immediately.
func (c *Client) withRetry(ctx context.Context, operation string, fn func() error) error {
	retry := c.config.Reader.Retry

	delay := retry.BaseDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	multiplier := retry.BackoffMultiplier
	if multiplier <= 0 {
		multiplier = 2
	}

	var lastErr error
	for attempt := 1; attempt <= retry.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		fetchErr, ok := lastErr.(*FetchError)
		if !ok || !fetchErr.retryable() || attempt == retry.MaxAttempts {
			return lastErr
		}

		c.log.WithComponent("hyperliquid_client").WithFields(logger.Fields{
			"operation": operation,
			"attempt":   attempt,
			"delay":     delay.String(),
		}).WithError(lastErr).Warn("request failed, retrying")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return &FetchError{Endpoint: operation, Err: ctx.Err()}
		}

		delay *= time.Duration(multiplier)
		if retry.MaxDelay > 0 && delay > retry.MaxDelay {
			delay = retry.MaxDelay
		}
	}
	return lastErr
}
