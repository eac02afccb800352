package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ErrEmailNotFound is returned by PasswordReset when the backend does not
// know the address.
var ErrEmailNotFound = errors.New("email not found")

// APIError is a non-2xx response from the backend. Message carries the
// server-supplied explanation when the error body was JSON.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// envelope is the {success, code, message, result} wrapper some endpoints
// use. Others return the payload bare; see decodeResult.
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// Client is a NewsBalance backend client. The cookie jar carries the
// backend's session cookie across calls, so one Client represents one
// logged-in (or anonymous) browser session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter

	searchCache *searchCache
}

// New creates a Client for the given backend origin.
func New(baseURL string, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Jar:     jar,
		},
		logger:      logger,
		tracer:      tracer,
		meter:       meter,
		searchCache: newSearchCache(),
	}, nil
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string { return c.baseURL }

// do issues one request and returns the raw response body. Non-2xx
// responses become *APIError with the server message extracted from the
// JSON error body when present.
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("%s_api_call", op))
	defer span.End()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	duration := time.Since(start)
	histogram, err := c.meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
	)
	if err == nil {
		histogram.Record(ctx, float64(duration.Milliseconds()))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: extractMessage(respBody)}
		c.logger.Warn("api request failed",
			"method", method, "path", path, "status", resp.StatusCode, "message", apiErr.Message)
		return nil, apiErr
	}

	c.logger.Info("api request", "method", method, "path", path, "status", resp.StatusCode, "duration_ms", duration.Milliseconds())
	return respBody, nil
}

// getJSON issues a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	body, err := c.do(ctx, op, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	return decodeResult(body, out)
}

// postJSON issues a POST with a JSON payload and decodes the response into
// out when out is non-nil.
func (c *Client) postJSON(ctx context.Context, op, path string, payload, out any) error {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(data)
	}
	body, err := c.do(ctx, op, http.MethodPost, path, reader, "application/json")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeResult(body, out)
}

// decodeResult unmarshals a response that may arrive either bare or wrapped
// in the {success, result} envelope. An envelope with success=false becomes
// an error carrying the server message.
func decodeResult(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err == nil && env.Result != nil {
			if !env.Success && env.Message != "" {
				return fmt.Errorf("request rejected: %s", env.Message)
			}
			return json.Unmarshal(env.Result, out)
		}
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// extractMessage pulls the human-readable message out of a JSON error body.
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if s := strings.TrimSpace(string(body)); s != "" && len(s) < 200 && !strings.HasPrefix(s, "<") {
		return s
	}
	return "request failed"
}
