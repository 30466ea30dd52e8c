// Package webhook posts analysis reports to dashboard endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ccollicutt/chatlens/pkg/config"
	"github.com/ccollicutt/chatlens/pkg/output"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// AnalysisIDHeader carries the report's analysis id.
const AnalysisIDHeader = "X-Chatlens-Analysis-ID"

// Client sends analysis reports to webhook endpoints.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used by Dispatch.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new webhook client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendOptions configures a webhook request.
type SendOptions struct {
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // Request timeout (uses DefaultTimeout if zero)
}

// Response contains the result of a webhook request.
type Response struct {
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success returns true if the webhook was sent successfully (2xx status).
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts an analysis report to a webhook endpoint.
func (c *Client) Send(ctx context.Context, report *output.Report, opts SendOptions) *Response {
	start := time.Now()
	resp := &Response{}

	payload, err := json.Marshal(report)
	if err != nil {
		resp.Error = fmt.Errorf("failed to marshal report: %w", err)
		resp.Duration = time.Since(start)
		return resp
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(payload))
	if err != nil {
		resp.Error = fmt.Errorf("failed to create request: %w", err)
		resp.Duration = time.Since(start)
		return resp
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "chatlens-webhook")
	req.Header.Set(AnalysisIDHeader, report.Metadata.AnalysisID)
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		resp.Error = fmt.Errorf("request failed: %w", err)
		resp.Duration = time.Since(start)
		return resp
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, 1024*1024)) // Limit to 1MB
	if err != nil {
		resp.Error = fmt.Errorf("failed to read response: %w", err)
		resp.Duration = time.Since(start)
		return resp
	}

	resp.StatusCode = httpResp.StatusCode
	resp.Body = string(body)
	resp.Duration = time.Since(start)

	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return resp
}

// ShouldFire reports whether a webhook with the given trigger fires for report.
func ShouldFire(trigger config.WebhookTrigger, report *output.Report) bool {
	switch trigger {
	case config.WebhookTriggerNever:
		return false
	case config.WebhookTriggerOnNullTimestamps:
		return report.HasNullTimestamps()
	default:
		return true
	}
}

// Dispatch sends the report to every webhook whose trigger matches.
// Failures are logged and returned per endpoint but never abort the loop.
func (c *Client) Dispatch(ctx context.Context, report *output.Report, hooks []config.WebhookConfig) map[string]*Response {
	results := make(map[string]*Response)
	for _, wh := range hooks {
		if !ShouldFire(wh.Trigger, report) {
			continue
		}

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		resp := c.Send(ctx, report, SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})
		results[name] = resp

		if resp.Success() {
			c.logger.Info("webhook sent",
				zap.String("webhook", name),
				zap.Int("status", resp.StatusCode),
				zap.Duration("duration", resp.Duration))
		} else {
			c.logger.Warn("webhook failed",
				zap.String("webhook", name),
				zap.Error(resp.Error))
		}
	}
	return results
}
