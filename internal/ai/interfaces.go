package ai

import "context"

// Summarizer produces a short summary of resume text.
// maxLen and minLen bound the summary length in model output units.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error)
}

// HealthReporter is implemented by summarizers guarded by a circuit breaker
type HealthReporter interface {
	IsHealthy() bool
	GetStats() map[string]any
}
