package agents

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL, slog.Default())
}

func TestClient_InvestigateLogs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/automation/investigate-logs", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ERROR db timeout", body["log_data"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"investigation": map[string]any{
				"status":  "critical",
				"message": "Database timeouts detected",
				"errors":  []string{"db timeout"},
			},
		})
	})

	investigation, err := client.InvestigateLogs(context.Background(), "ERROR db timeout")
	require.NoError(t, err)
	assert.Equal(t, "critical", investigation.Status)
	assert.Equal(t, "Database timeouts detected", investigation.Message)
	assert.Equal(t, []string{"db timeout"}, investigation.Errors)
}

func TestClient_FetchMetrics(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/automation/metrics", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":  true,
			"data":     "node_cpu_seconds_total 42",
			"endpoint": "http://20.197.7.126:9100/metrics",
		})
	})

	metrics, err := client.FetchMetrics(context.Background(), "20.197.7.126:9100")
	require.NoError(t, err)
	assert.True(t, metrics.Success)
	assert.Equal(t, "node_cpu_seconds_total 42", metrics.Data)
}

func TestClient_AnalyzeReliability(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"reliability": map[string]any{
				"reliability_score": 87.5,
				"status":            "stable",
				"predicted_risks": []map[string]any{
					{"type": "disk_full", "probability": 0.7, "severity": "high", "prediction": "disk full in 3 days"},
				},
			},
		})
	})

	reliability, err := client.AnalyzeReliability(context.Background(), "blob")
	require.NoError(t, err)
	assert.InEpsilon(t, 87.5, reliability.ReliabilityScore, 0.001)
	require.Len(t, reliability.PredictedRisks, 1)
	assert.Equal(t, "disk_full", reliability.PredictedRisks[0].Type)
}

func TestClient_SendEmail_PayloadShape(t *testing.T) {
	var captured map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(map[string]any{"sent": true})
	})

	_, err := client.SendEmail(context.Background(), EmailRequest{
		ToEmail: "a@b.com",
		Subject: "subject",
		Body:    "body",
	})
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", captured["to_email"])
	assert.Equal(t, "subject", captured["subject"])
	assert.NotContains(t, captured, "alert_data", "alert_data must be omitted in custom mode")
}

func TestClient_ErrorDetailSurfaced(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{"detail": "Could not connect to 10.0.0.1:9100"})
	})

	_, err := client.FetchMetrics(context.Background(), "10.0.0.1:9100")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceRequest)
	assert.Contains(t, err.Error(), "Could not connect to 10.0.0.1:9100")

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusServiceUnavailable, reqErr.StatusCode)
}

func TestClient_FetchLogs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/automation/fetch-logs", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 100, body["lines"])

		_ = json.NewEncoder(w).Encode(map[string]any{"logs": "Jan 01 syslog line"})
	})

	logs, err := client.FetchLogs(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "Jan 01 syslog line", logs)
}
