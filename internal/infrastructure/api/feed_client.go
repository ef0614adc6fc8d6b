// Package api internal/infrastructure/api/feed_client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
	"github.com/devi-jewellers/rate-service/internal/metrics"
	"github.com/devi-jewellers/rate-service/internal/resilience"
)

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 1 << 20

// RawDocument is an upstream rate payload before normalization. Numbers are
// decoded as json.Number so their source formatting survives the round trip
// into the text columns.
type RawDocument map[string]interface{}

// FeedClient fetches and parses a third-party rate document. It performs no
// retries; retry policy belongs to the orchestrator.
type FeedClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logger.Logger
}

// NewFeedClient creates a feed client. A nil httpClient gets a 10 second
// timeout; the limiter keeps polling of the third-party endpoint polite.
func NewFeedClient(httpClient *http.Client, log logger.Logger) *FeedClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &FeedClient{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(1), 3),
		logger:     log,
	}
}

// Fetch issues a GET against url and returns the parsed JSON document.
// A response whose Content-Type does not declare JSON is still accepted when
// the body parses as JSON; otherwise a FormatError carrying a bounded body
// preview is returned. Transport failures, timeouts and non-2xx statuses
// surface as UpstreamError, marked transient when a retry could plausibly
// succeed.
func (c *FeedClient) Fetch(ctx context.Context, url string) (RawDocument, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &UpstreamError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &UpstreamError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.FeedFetchLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("transport").Inc()
		c.logger.Warn("Rate feed fetch failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return nil, resilience.NewTransientError(&UpstreamError{URL: url, Err: err}, 0)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing feed response body", map[string]interface{}{
				"url":   url,
				"error": closeErr.Error(),
			})
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamErrors.WithLabelValues("status").Inc()
		upErr := &UpstreamError{URL: url, StatusCode: resp.StatusCode}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, resilience.NewTransientError(upErr, resp.StatusCode)
		}
		return nil, upErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("transport").Inc()
		return nil, resilience.NewTransientError(&UpstreamError{URL: url, Err: err}, 0)
	}

	// Some providers send JSON with a text/html content type; parse the body
	// regardless and only fail when it genuinely is not JSON.
	contentType := resp.Header.Get("Content-Type")
	doc, err := decodeDocument(body)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("format").Inc()
		c.logger.Warn("Rate feed returned non-JSON body", map[string]interface{}{
			"url":          url,
			"content_type": contentType,
		})
		return nil, &FormatError{
			URL:         url,
			ContentType: contentType,
			Preview:     preview(body),
		}
	}

	c.logger.Debug("Rate feed fetched", map[string]interface{}{
		"url":          url,
		"content_type": contentType,
		"keys":         len(doc),
	})

	return doc, nil
}

func decodeDocument(body []byte) (RawDocument, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc RawDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func preview(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > PreviewLimit {
		return s[:PreviewLimit]
	}
	return s
}
