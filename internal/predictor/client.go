// Package predictor provides the HTTP client for the external
// brew-parameter prediction service.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/brewlog/brewlog/internal/model"
)

const (
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 15 * time.Second
	// maxErrorBodySize bounds how much of an error body is read.
	maxErrorBodySize = 64 * 1024
	// maxResultBodySize bounds how much of a success body is read.
	maxResultBodySize = 1 << 20
)

// ErrUnavailable indicates the predictor could not be reached at the
// transport level (connection refused, timeout, cancelled context).
var ErrUnavailable = errors.New("predictor unavailable")

// Error is a structured rejection returned by the predictor itself.
// Detail carries the predictor's "detail" message when the error body
// contained one, otherwise a raw description of the failure.
type Error struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Detail
}

// Client calls the external prediction service.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// New creates a predictor client with bounded timeouts.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   DialTimeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				ResponseHeaderTimeout: ResponseHeaderTimeout,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
			},
		},
	}
}

// Predict posts the enriched request to the predictor.
// On 2xx the response body is passed through verbatim. On any other
// outcome the error body is inspected for a structured "detail" message;
// a malformed body falls back to the raw description. No retries.
func (c *Client) Predict(ctx context.Context, req *model.EnrichedPredictionRequest) (*model.PredictionResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prediction request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict-dynamic", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build prediction request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn("predictor call failed",
			slog.String("bean_name", req.BeanName),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, transportReason(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResultBodySize))
		if err != nil {
			return nil, fmt.Errorf("%w: reading response body: %s", ErrUnavailable, err)
		}
		return &model.PredictionResult{Body: body}, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	detail := extractDetail(body, fmt.Sprintf("predictor returned HTTP %d", resp.StatusCode))

	c.logger.Warn("predictor rejected request",
		slog.String("bean_name", req.BeanName),
		slog.Int("http_status", resp.StatusCode),
		slog.String("detail", detail),
	)

	return nil, &Error{
		StatusCode: resp.StatusCode,
		Detail:     detail,
	}
}

// extractDetail decodes a structured {"detail": "..."} error body.
// Decoding never panics; any malformed or detail-less body yields the
// raw fallback message instead.
func extractDetail(body []byte, fallback string) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	if msg := strings.TrimSpace(string(body)); msg != "" && len(msg) <= 256 {
		return fallback + ": " + msg
	}
	return fallback
}

// transportReason keeps transport errors human-readable without leaking
// wrapped implementation noise into API responses.
func transportReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	return err.Error()
}
