package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"resumescan/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func allMetricsOn() config.CustomMetricsConfig {
	return config.CustomMetricsConfig{
		AIOperations:   config.AIOperationsMetricsConfig{Enabled: true, TrackDuration: true, TrackTokenUsage: true},
		Analysis:       config.AnalysisMetricsConfig{Enabled: true, TrackScores: true, TrackDocuments: true, TrackFallbacks: true},
		Infrastructure: config.InfrastructureMetricsConfig{Enabled: true, TrackRateLimits: true},
	}
}

func newTestMetrics(t *testing.T, toggles config.CustomMetricsConfig) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"), toggles)
	require.NoError(t, err)
	return m, reader
}

// collected returns the names of every metric with at least one data point
func collected(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func counterTotal(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "not an int64 sum: %T", data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordAnalysis(ctx, AnalysisRecord{Success: true})
		m.RecordSummarizerFallback(ctx, "gemini")
		m.RecordDocument(ctx, ".pdf", true)
		m.RecordRateLimitHit(ctx)
	})

	err := m.TrackAIOperation(ctx, "summarize", "gemini", func(context.Context) *AIOperationResult {
		return &AIOperationResult{Error: errors.New("boom")}
	})
	assert.EqualError(t, err, "boom")
}

func TestTrackAIOperation(t *testing.T) {
	m, reader := newTestMetrics(t, allMetricsOn())
	ctx := context.Background()

	err := m.TrackAIOperation(ctx, "summarize", "anthropic", func(context.Context) *AIOperationResult {
		return &AIOperationResult{TokenUsage: &TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}}
	})
	require.NoError(t, err)

	err = m.TrackAIOperation(ctx, "summarize", "anthropic", func(context.Context) *AIOperationResult {
		return &AIOperationResult{Error: errors.New("rate limited")}
	})
	require.Error(t, err)

	got := collected(t, reader)
	assert.Equal(t, int64(2), counterTotal(t, got["resumescan_ai_requests_total"]))
	assert.Equal(t, int64(1), counterTotal(t, got["resumescan_ai_errors_total"]))
	assert.Contains(t, got, "resumescan_ai_processing_duration_seconds")

	tokens, ok := got["resumescan_ai_token_usage_total"].(metricdata.Histogram[int64])
	require.True(t, ok)
	assert.Len(t, tokens.DataPoints, 3, "one series per token type")
}

func TestRecordAnalysis(t *testing.T) {
	m, reader := newTestMetrics(t, allMetricsOn())
	ctx := context.Background()

	m.RecordAnalysis(ctx, AnalysisRecord{Success: true, Role: "Data Analyst", Duration: 20 * time.Millisecond, Percentage: 50, ATSScore: 92})
	m.RecordAnalysis(ctx, AnalysisRecord{Success: false, Duration: time.Millisecond})
	m.RecordSummarizerFallback(ctx, "gemini")
	m.RecordDocument(ctx, ".docx", true)

	got := collected(t, reader)
	assert.Equal(t, int64(2), counterTotal(t, got["resumescan_analyses_total"]))
	assert.Equal(t, int64(1), counterTotal(t, got["resumescan_summarizer_fallbacks_total"]))
	assert.Equal(t, int64(1), counterTotal(t, got["resumescan_documents_extracted_total"]))

	pct, ok := got["resumescan_skill_match_percent"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, pct.DataPoints, 1, "failed analyses carry no scores")
	assert.Equal(t, uint64(1), pct.DataPoints[0].Count)
}

func TestTogglesSuppressRecording(t *testing.T) {
	toggles := allMetricsOn()
	toggles.Analysis.TrackFallbacks = false
	toggles.Infrastructure.TrackRateLimits = false
	toggles.AIOperations.Enabled = false

	m, reader := newTestMetrics(t, toggles)
	ctx := context.Background()

	m.RecordSummarizerFallback(ctx, "gemini")
	m.RecordRateLimitHit(ctx)
	_ = m.TrackAIOperation(ctx, "summarize", "gemini", func(context.Context) *AIOperationResult { return nil })

	got := collected(t, reader)
	assert.NotContains(t, got, "resumescan_summarizer_fallbacks_total")
	assert.NotContains(t, got, "resumescan_rate_limit_hits_total")
	assert.NotContains(t, got, "resumescan_ai_requests_total")
}

func TestGetObservabilityConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.Enabled = true
	cfg.Observability.ServiceName = "resumescan"
	cfg.Observability.SampleRate = 0.5
	cfg.Observability.Tracing.Enabled = true
	cfg.Observability.Metrics.Enabled = true
	cfg.Observability.Prometheus = config.PrometheusConfig{Enabled: true, Endpoint: "/metrics", Port: "9090"}

	got := GetObservabilityConfig(cfg, "1.2.3")
	assert.Equal(t, "1.2.3", got.ServiceVersion)
	assert.Equal(t, 0.5, got.SampleRate)
	assert.True(t, got.Prometheus.Enabled)

	cfg.Observability.Tracing.Enabled = false
	cfg.Observability.Metrics.Enabled = false
	got = GetObservabilityConfig(cfg, "1.2.3")
	assert.Zero(t, got.SampleRate)
	assert.False(t, got.Prometheus.Enabled)

	assert.False(t, GetObservabilityConfig(nil, "dev").Enabled)
}

func TestDisabledManager(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{Enabled: false}, nil)
	require.NoError(t, err)
	assert.Nil(t, om.GetMetrics())
	assert.NoError(t, om.Shutdown(context.Background()))

	_, span := om.Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	span.End()
}
