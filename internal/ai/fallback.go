package ai

import (
	"context"
	"strings"
	"unicode/utf8"

	"resumescan/internal/errors"
	"resumescan/internal/observability"
)

const fallbackPrefixRunes = 200

// Fallback summarizes text without a model. Text with more than three
// period-delimited segments keeps the first two and the last; shorter text
// is cut to 200 characters with an ellipsis.
func Fallback(text string) string {
	segments := strings.Split(text, ".")
	if len(segments) > 3 {
		kept := []string{segments[0], segments[1], segments[len(segments)-1]}
		return strings.TrimSpace(strings.Join(kept, ". "))
	}
	return truncateRunes(text, fallbackPrefixRunes, "...")
}

// FallbackSummarizer is the deterministic Summarizer used when no model is configured
type FallbackSummarizer struct{}

// Summarize ignores the length bounds and never fails
func (FallbackSummarizer) Summarize(_ context.Context, text string, _, _ int) (string, error) {
	return Fallback(text), nil
}

// resilient answers with Fallback whenever the wrapped summarizer fails
type resilient struct {
	next     Summarizer
	provider string
	logger   *errors.Logger
	metrics  *observability.Metrics
}

// WithFallback wraps a model-backed summarizer so that Summarize never returns an error.
// Failures are logged and counted.
func WithFallback(next Summarizer, provider string, logger *errors.Logger, metrics *observability.Metrics) Summarizer {
	if logger == nil {
		logger = errors.Discard()
	}
	return &resilient{next: next, provider: provider, logger: logger, metrics: metrics}
}

func (r *resilient) Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	summary, err := r.next.Summarize(ctx, text, maxLen, minLen)
	if err == nil {
		return summary, nil
	}
	r.logger.LogError(err, "Summarizer failed, using fallback summary", "provider", r.provider)
	r.metrics.RecordSummarizerFallback(ctx, r.provider)
	return Fallback(text), nil
}

// IsHealthy reports the wrapped summarizer's breaker state when it has one
func (r *resilient) IsHealthy() bool {
	if h, ok := r.next.(HealthReporter); ok {
		return h.IsHealthy()
	}
	return true
}

// GetStats returns the wrapped summarizer's breaker statistics when it has one
func (r *resilient) GetStats() map[string]any {
	if h, ok := r.next.(HealthReporter); ok {
		return h.GetStats()
	}
	return map[string]any{"enabled": false}
}

// truncateRunes cuts s to n runes and appends suffix when anything was cut
func truncateRunes(s string, n int, suffix string) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + suffix
}
