package dexscreener

// Package dexscreener contains the client for the public DexScreener API.
// This file contains the base HTTP client - handles all HTTP requests to the API.
// Acts as transport layer - doesn't know business logic, just sends requests and receives responses.

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/algoclient/dexscreener-boost-scrapper/internal/infra/log"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBaseURL - public DexScreener API
const DefaultBaseURL = "https://api.dexscreener.com"

const (
	// DefaultBoostTimeout - timeout for the boost list endpoint
	DefaultBoostTimeout = 10 * time.Second
	// DefaultTokenTimeout - timeout for search and token lookup endpoints
	DefaultTokenTimeout = 5 * time.Second
)

// Client is the DexScreener API client.
// Stores everything needed for API work: base URL, HTTP client, rate limiter
// and circuit breaker.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	rateLimiter     *rate.Limiter             // self rate limit against the public API
	circuitBreaker  *gobreaker.CircuitBreaker // error avalanche protection
	maxResponseSize int64
	boostTimeout    time.Duration
	tokenTimeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeouts overrides the per-endpoint request timeouts.
func WithTimeouts(boost, token time.Duration) Option {
	return func(c *Client) {
		if boost > 0 {
			c.boostTimeout = boost
		}
		if token > 0 {
			c.tokenTimeout = token
		}
	}
}

// WithMaxResponseSize overrides the response body size cap.
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResponseSize = n
		}
	}
}

// NewClient creates a DexScreener API client.
// baseURL may be empty, in which case the public API is used.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	// DexScreener rate limits the boost endpoints at 60 req/min,
	// pair endpoints at 300 req/min. 5 rps burst 10 stays well under both.
	rateLimiter := rate.NewLimiter(rate.Limit(5), 10)

	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "DexScreenerAPI",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	c := &Client{
		baseURL:         baseURL,
		rateLimiter:     rateLimiter,
		circuitBreaker:  circuitBreaker,
		maxResponseSize: 10 * 1024 * 1024, // 10MB default
		boostTimeout:    DefaultBoostTimeout,
		tokenTimeout:    DefaultTokenTimeout,
		httpClient: &http.Client{
			Transport: &http.Transport{
				DisableKeepAlives: false,
				MaxIdleConns:      10,
				IdleConnTimeout:   90 * time.Second,
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// makeRequest performs an HTTP GET with rate limiting and circuit breaker.
// endpoint is an API path such as "/token-boosts/latest/v1".
// timeout bounds the whole request, independent of the caller's context deadline.
func (c *Client) makeRequest(ctx context.Context, endpoint string, timeout time.Duration) ([]byte, error) {
	requestID := log.GenerateRequestID()
	startTime := time.Now()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var respBody []byte
	var err error

	if c.circuitBreaker != nil {
		_, err = c.circuitBreaker.Execute(func() (interface{}, error) {
			body, err := c.doRequest(reqCtx, requestID, endpoint, startTime)
			if err != nil {
				return nil, err
			}
			respBody = body
			return body, nil
		})
		if err != nil {
			log.LogError("Circuit breaker rejected request",
				zap.String("request_id", requestID),
				zap.String("endpoint", endpoint),
				zap.Error(err))
			return nil, err
		}
	} else {
		respBody, err = c.doRequest(reqCtx, requestID, endpoint, startTime)
		if err != nil {
			return nil, err
		}
	}

	return respBody, nil
}

func (c *Client) doRequest(ctx context.Context, requestID, endpoint string, startTime time.Time) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	setNormalizedHeaders(req)

	log.LogRequest(requestID, http.MethodGet, endpoint, zap.String("url", req.URL.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		duration := time.Since(startTime).Milliseconds()
		log.LogResponse(requestID, 0, duration, zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	limitedReader := io.LimitReader(resp.Body, c.maxResponseSize)

	respBody, err := io.ReadAll(limitedReader)
	if err != nil {
		duration := time.Since(startTime).Milliseconds()
		log.LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	duration := time.Since(startTime).Milliseconds()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		contentType := resp.Header.Get("Content-Type")
		if contentType != "" && !strings.Contains(contentType, "application/json") {
			log.LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint), zap.String("error", "non-JSON error response"))
			return nil, fmt.Errorf("API error (%d): non-JSON error response", resp.StatusCode)
		}
		log.LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint), zap.String("error", "API error response received"))
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	log.LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint), zap.String("status", "success"))

	return respBody, nil
}

func setNormalizedHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}
