// Package agents provides the HTTP client for the remote analysis and
// notification service consumed by workflow flows.
package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultTimeoutSeconds = 30

// Client talks to the automation service. All calls are plain POSTs with JSON
// bodies; responses use the envelopes defined in types.go.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeoutSeconds * time.Second,
		},
		logger: logger.With("module", "agents_client"),
	}
}

// InvestigateLogs runs the log investigation over raw log text.
func (c *Client) InvestigateLogs(ctx context.Context, logData string) (*Investigation, error) {
	var envelope investigationEnvelope
	if err := c.post(ctx, "/automation/investigate-logs", investigateLogsRequest{LogData: logData}, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Investigation, nil
}

// FetchMetrics proxies a metrics fetch for the given server endpoint.
func (c *Client) FetchMetrics(ctx context.Context, endpoint string) (*MetricsResult, error) {
	var result MetricsResult
	if err := c.post(ctx, "/automation/metrics", metricsRequest{Endpoint: endpoint}, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// AnalyzeReliability runs the reliability analysis over a metrics blob.
func (c *Client) AnalyzeReliability(ctx context.Context, metricsData string) (*Reliability, error) {
	var envelope reliabilityEnvelope
	if err := c.post(ctx, "/automation/analyze-reliability", metricsDataRequest{MetricsData: metricsData}, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Reliability, nil
}

// AnalyzeAlert runs the alert analysis over a metrics blob.
func (c *Client) AnalyzeAlert(ctx context.Context, metricsData string) (*Alert, error) {
	var envelope alertEnvelope
	if err := c.post(ctx, "/automation/analyze-alert", metricsDataRequest{MetricsData: metricsData}, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Alert, nil
}

// AnalyzeHealth runs the health analysis over a metrics blob.
func (c *Client) AnalyzeHealth(ctx context.Context, metricsData string) (*HealthReport, error) {
	var report HealthReport
	if err := c.post(ctx, "/automation/analyze-health", metricsDataRequest{MetricsData: metricsData}, &report); err != nil {
		return nil, err
	}

	return &report, nil
}

// Investigate runs the metrics investigation over a metrics blob.
func (c *Client) Investigate(ctx context.Context, metricsData string) (*Investigation, error) {
	var envelope investigationEnvelope
	if err := c.post(ctx, "/automation/investigate", metricsDataRequest{MetricsData: metricsData}, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Investigation, nil
}

// SendEmail sends a notification email. The confirmation payload is opaque.
func (c *Client) SendEmail(ctx context.Context, req EmailRequest) (map[string]any, error) {
	confirmation := make(map[string]any)
	if err := c.post(ctx, "/automation/send-email", req, &confirmation); err != nil {
		return nil, err
	}

	return confirmation, nil
}

// FetchLogs pulls recent server logs (journalctl on the service side) to fill
// a Server Logs node.
func (c *Client) FetchLogs(ctx context.Context, lines int) (string, error) {
	var envelope fetchLogsEnvelope
	if err := c.post(ctx, "/automation/fetch-logs", fetchLogsRequest{Lines: lines}, &envelope); err != nil {
		return "", err
	}

	return envelope.Logs, nil
}

func (c *Client) post(ctx context.Context, path string, body, target any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	req.Header.Set("Content-Type", "application/json")

	c.logger.DebugContext(ctx, "Calling automation service", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.ErrorContext(ctx, "Failed to close response body", "error", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newRequestError(path, resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	return nil
}
