// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil fetches catalog pages over HTTP with backoff.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// retryable responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const (
	defaultMaxRetries = 5
	userAgent         = "prereq-engine/1.0 (catalog import)"
)

// Fetcher issues requests, retrying on HTTP 429 (Too Many Requests) and 503
// (Service Unavailable). The delay starts at RetryBaseDelay and doubles
// each attempt.
type Fetcher struct {
	// Client defaults to http.DefaultClient.
	Client *http.Client

	// MaxRetries defaults to 5 when zero.
	MaxRetries int

	// Log receives one line per retry; nil discards them.
	Log io.Writer
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}

// Do executes req. On each retryable response the body is drained and
// closed before sleeping. If the context is cancelled during a backoff wait
// Do returns ctx.Err(). After exhausting retries the last response is
// returned so the caller can inspect it.
func (f Fetcher) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	maxRetries := f.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	log := f.Log
	if log == nil {
		log = io.Discard
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		fmt.Fprintf(log, "status %d from %s, retrying in %v (attempt %d/%d)\n",
			resp.StatusCode, req.URL.Host, backoff, attempt+1, maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// Get fetches url and returns the body of a 200 response.
func (f Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := f.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}
