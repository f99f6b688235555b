package platsbanken

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	contentType    = "application/json"
	defaultTimeout = 30 * time.Second
)

// Options configures the publishing API client.
type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the remote publishing API. Every call is one blocking
// round trip with a timeout; failures come back as outcomes, never as a
// hang or a panic.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a publishing API client.
func NewClient(opts Options, logger *zap.Logger) *Client {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		httpClient: client,
		logger:     logger,
	}
}

// CreateAd publishes a new ad and returns the normalized outcome.
func (c *Client) CreateAd(ctx context.Context, payload *Payload) *Outcome {
	return c.send(ctx, http.MethodPost, c.baseURL+"/ads", payload)
}

// UpdateAd updates an existing ad in place.
func (c *Client) UpdateAd(ctx context.Context, remoteAdID string, payload *Payload) *Outcome {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("%s/ads/%s", c.baseURL, remoteAdID), payload)
}

func (c *Client) send(ctx context.Context, method, url string, payload *Payload) *Outcome {
	body, err := json.Marshal(payload)
	if err != nil {
		return TransportError(fmt.Errorf("failed to marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return TransportError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("publish request failed",
			zap.String("method", method),
			zap.Error(err))
		return TransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return TransportError(fmt.Errorf("failed to read response body: %w", err))
	}

	outcome := Translate(resp.StatusCode, respBody)
	c.logger.Debug("publish response translated",
		zap.String("method", method),
		zap.Int("status", resp.StatusCode),
		zap.String("kind", string(outcome.Kind)),
		zap.String("hint", outcome.Hint),
		zap.Int("field_errors", len(outcome.FieldErrors)))
	return outcome
}
