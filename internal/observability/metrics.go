package observability

import (
	"context"
	"fmt"
	"time"

	"resumescan/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Metrics holds all custom metrics for resumescan.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// AI operation metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Analysis metrics
	AnalysesTotal       metric.Int64Counter
	AnalysisDuration    metric.Float64Histogram
	SkillMatchPercent   metric.Float64Histogram
	ATSScore            metric.Int64Histogram
	SummarizerFallbacks metric.Int64Counter
	DocumentsExtracted  metric.Int64Counter

	// Rate limiting metrics
	RateLimitHits metric.Int64Counter

	toggles config.CustomMetricsConfig
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// AIOperationResult holds the result of an AI operation including token usage
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// NewMetrics creates every instrument on meter. toggles decides which ones are recorded.
func NewMetrics(meter metric.Meter, toggles config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{toggles: toggles}
	if err := m.createAIMetrics(meter); err != nil {
		return nil, err
	}
	if err := m.createAnalysisMetrics(meter); err != nil {
		return nil, err
	}
	if err := m.createRateLimitMetrics(meter); err != nil {
		return nil, err
	}
	return m, nil
}

// createAIMetrics creates AI-related metrics
func (m *Metrics) createAIMetrics(meter metric.Meter) error {
	var err error

	m.AIProcessingTime, err = meter.Float64Histogram(
		"resumescan_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	m.AIRequestCount, err = meter.Int64Counter(
		"resumescan_ai_requests_total",
		metric.WithDescription("Total number of AI requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI request count metric: %w", err)
	}

	m.AIErrorCount, err = meter.Int64Counter(
		"resumescan_ai_errors_total",
		metric.WithDescription("Total number of AI request errors"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI error count metric: %w", err)
	}

	m.AITokenUsage, err = meter.Int64Histogram(
		"resumescan_ai_token_usage_total",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("tokens"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	return nil
}

// createAnalysisMetrics creates resume analysis metrics
func (m *Metrics) createAnalysisMetrics(meter metric.Meter) error {
	var err error

	m.AnalysesTotal, err = meter.Int64Counter(
		"resumescan_analyses_total",
		metric.WithDescription("Total number of resume analyses"),
	)
	if err != nil {
		return fmt.Errorf("failed to create analyses metric: %w", err)
	}

	m.AnalysisDuration, err = meter.Float64Histogram(
		"resumescan_analysis_duration_seconds",
		metric.WithDescription("Time spent analyzing one resume"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis duration metric: %w", err)
	}

	m.SkillMatchPercent, err = meter.Float64Histogram(
		"resumescan_skill_match_percent",
		metric.WithDescription("Weighted skill match percentage per analysis"),
		metric.WithUnit("%"),
	)
	if err != nil {
		return fmt.Errorf("failed to create skill match metric: %w", err)
	}

	m.ATSScore, err = meter.Int64Histogram(
		"resumescan_ats_score",
		metric.WithDescription("ATS compatibility score per analysis"),
	)
	if err != nil {
		return fmt.Errorf("failed to create ATS score metric: %w", err)
	}

	m.SummarizerFallbacks, err = meter.Int64Counter(
		"resumescan_summarizer_fallbacks_total",
		metric.WithDescription("Summaries produced by the deterministic fallback after a model error"),
	)
	if err != nil {
		return fmt.Errorf("failed to create summarizer fallback metric: %w", err)
	}

	m.DocumentsExtracted, err = meter.Int64Counter(
		"resumescan_documents_extracted_total",
		metric.WithDescription("Total number of uploaded documents decoded to text"),
	)
	if err != nil {
		return fmt.Errorf("failed to create documents extracted metric: %w", err)
	}

	return nil
}

// createRateLimitMetrics creates rate limiting metrics
func (m *Metrics) createRateLimitMetrics(meter metric.Meter) error {
	var err error

	m.RateLimitHits, err = meter.Int64Counter(
		"resumescan_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return nil
}

// TrackAIOperation instruments an AI operation with tracing, metrics and token usage
func (m *Metrics) TrackAIOperation(ctx context.Context, operation, provider string, fn func(context.Context) *AIOperationResult) error {
	tracer := otel.Tracer("resumescan.ai")
	ctx, span := tracer.Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}

	if m != nil && m.toggles.AIOperations.Enabled {
		m.recordAIMetrics(ctx, operation, provider, err, duration, result, span)
	}

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}

	return err
}

// recordAIMetrics records all AI-related metrics
func (m *Metrics) recordAIMetrics(ctx context.Context, operation, provider string, err error, duration float64, result *AIOperationResult, span oteltrace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.String("provider", provider),
		attribute.Bool("success", err == nil),
	}

	if m.toggles.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration, metric.WithAttributes(attrs...))
	}
	m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	if result != nil && result.TokenUsage != nil {
		usage := result.TokenUsage
		if m.toggles.AIOperations.TrackTokenUsage {
			for _, tt := range []struct {
				tokenType string
				value     int64
			}{
				{"input", usage.InputTokens},
				{"output", usage.OutputTokens},
				{"total", usage.TotalTokens},
			} {
				tokenAttrs := append(attrs[:len(attrs):len(attrs)], attribute.String("token_type", tt.tokenType))
				m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(tokenAttrs...))
			}
		}
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}

	span.SetAttributes(attrs...)
}

// AnalysisRecord is what one finished analysis reports
type AnalysisRecord struct {
	Success    bool
	Role       string
	Duration   time.Duration
	Percentage float64
	ATSScore   int
}

// RecordAnalysis records the outcome of one resume analysis
func (m *Metrics) RecordAnalysis(ctx context.Context, rec AnalysisRecord) {
	if m == nil || m.AnalysesTotal == nil || !m.toggles.Analysis.Enabled {
		return
	}

	attrs := metric.WithAttributes(
		attribute.Bool("success", rec.Success),
		attribute.String("role", rec.Role),
	)
	m.AnalysesTotal.Add(ctx, 1, attrs)
	m.AnalysisDuration.Record(ctx, rec.Duration.Seconds(), attrs)

	if rec.Success && m.toggles.Analysis.TrackScores {
		roleAttr := metric.WithAttributes(attribute.String("role", rec.Role))
		m.SkillMatchPercent.Record(ctx, rec.Percentage, roleAttr)
		m.ATSScore.Record(ctx, int64(rec.ATSScore), roleAttr)
	}
}

// RecordSummarizerFallback counts a summary served by the deterministic fallback
func (m *Metrics) RecordSummarizerFallback(ctx context.Context, provider string) {
	if m == nil || m.SummarizerFallbacks == nil || !m.toggles.Analysis.TrackFallbacks {
		return
	}
	m.SummarizerFallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
}

// RecordDocument counts one decoded upload by file extension
func (m *Metrics) RecordDocument(ctx context.Context, ext string, success bool) {
	if m == nil || m.DocumentsExtracted == nil || !m.toggles.Analysis.TrackDocuments {
		return
	}
	m.DocumentsExtracted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("extension", ext),
		attribute.Bool("success", success),
	))
}

// RecordRateLimitHit counts one rejected request
func (m *Metrics) RecordRateLimitHit(ctx context.Context, attrs ...attribute.KeyValue) {
	if m == nil || m.RateLimitHits == nil {
		return
	}
	if !m.toggles.Infrastructure.Enabled || !m.toggles.Infrastructure.TrackRateLimits {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attrs...))
}
