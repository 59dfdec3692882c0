package ai

import (
	"fmt"

	"resumescan/internal/config"
	"resumescan/internal/errors"
	"resumescan/internal/observability"
)

const defaultInputChars = 1000

// Options carries the collaborators shared by every summarizer
type Options struct {
	// InputChars is how much of the resume a model sees
	InputChars int
	Logger     *errors.Logger
	Metrics    *observability.Metrics
}

func (o Options) withDefaults() Options {
	if o.InputChars <= 0 {
		o.InputChars = defaultInputChars
	}
	if o.Logger == nil {
		o.Logger = errors.Discard()
	}
	return o
}

// NewSummarizer selects the summarizer for cfg.Provider once at startup.
// Model-backed summarizers are wrapped with WithFallback.
func NewSummarizer(cfg config.OperationAIConfig, opts Options) (Summarizer, error) {
	opts = opts.withDefaults()

	var model Summarizer
	var err error
	switch cfg.Provider {
	case config.ProviderNone, "":
		opts.Logger.Debug("No summarization model configured, using fallback summaries")
		return FallbackSummarizer{}, nil
	case config.ProviderGemini:
		model, err = NewGeminiSummarizer(cfg, opts)
	case config.ProviderAnthropic:
		model, err = NewAnthropicSummarizer(cfg, opts)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to create summarizer", err)
	}

	opts.Logger.Debug("Initialized summarizer",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"input_chars", opts.InputChars,
		"circuit_breaker", cfg.CircuitBreaker.Enabled)

	return WithFallback(model, cfg.Provider, opts.Logger, opts.Metrics), nil
}
