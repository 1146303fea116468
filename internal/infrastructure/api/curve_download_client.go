package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/logger"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
	// maxCurveFileSize bounds how much of a response body is read
	maxCurveFileSize = 8 << 20
)

// ErrCurveFileTooLarge is returned when a response body exceeds the download limit
var ErrCurveFileTooLarge = errors.New("curve file too large")

// CurveDownloadClient downloads curve files from http(s) locations
type CurveDownloadClient struct {
	httpClient *http.Client
	maxRetries int
	maxBytes   int64
	backoff    func(attempt int) time.Duration
	logger     logger.Logger
}

// NewCurveDownloadClient creates a new download client. A nil httpClient gets a
// client with a 10 second timeout; maxRetries below 1 selects the default of 3.
func NewCurveDownloadClient(httpClient *http.Client, maxRetries int, log logger.Logger) *CurveDownloadClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultTimeout,
		}
	}
	if maxRetries < 1 {
		maxRetries = defaultMaxRetries
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CurveDownloadClient{
		httpClient: httpClient,
		maxRetries: maxRetries,
		maxBytes:   maxCurveFileSize,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt*attempt) * time.Second
		},
		logger: log,
	}
}

// FetchCurveFile downloads the curve file at url, retrying transport failures
// and 5xx responses with quadratic backoff
func (c *CurveDownloadClient) FetchCurveFile(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		body, retry, err := c.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || attempt == c.maxRetries {
			break
		}

		backoffTime := c.backoff(attempt)
		c.logger.Warn("Curve download failed, retrying", map[string]interface{}{
			"url":         url,
			"attempt":     attempt,
			"max_retries": c.maxRetries,
			"backoff":     backoffTime.String(),
			"error":       err.Error(),
		})

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("curve download cancelled: %w", ctx.Err())
		case <-time.After(backoffTime):
		}
	}

	return nil, fmt.Errorf("failed to download curve file after %d attempts: %w", c.maxRetries, lastErr)
}

// fetchOnce performs a single request and reports whether a failure is worth retrying
func (c *CurveDownloadClient) fetchOnce(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Accept", "text/csv, text/plain, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, false, fmt.Errorf("failed to execute request: %w", err)
		}
		return nil, true, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("Error closing response body", map[string]interface{}{
				"url":   url,
				"error": closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, false, fmt.Errorf("%w: more than %d bytes", ErrCurveFileTooLarge, c.maxBytes)
	}

	c.logger.Debug("Curve download response", map[string]interface{}{
		"url":    url,
		"status": resp.StatusCode,
		"bytes":  len(body),
	})

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode >= 500, fmt.Errorf("curve server returned status %d", resp.StatusCode)
	}

	return body, false, nil
}
