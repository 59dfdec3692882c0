package ai

import (
	"context"
	stderrors "errors"
	"net"
	"strings"

	"resumescan/internal/config"
	"resumescan/internal/errors"
	"resumescan/internal/observability"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// anthropicMessages is the part of anthropic.MessageService the summarizer calls
type anthropicMessages interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicSummarizer summarizes resumes with Claude
type AnthropicSummarizer struct {
	messages   anthropicMessages
	config     config.OperationAIConfig
	inputChars int
	breaker    *CircuitBreaker[*anthropic.Message]
	logger     *errors.Logger
	metrics    *observability.Metrics
}

var _ Summarizer = (*AnthropicSummarizer)(nil)

// NewAnthropicSummarizer creates an Anthropic client for cfg.
// SDK retries are disabled; executeWithRetry owns the retry policy.
func NewAnthropicSummarizer(cfg config.OperationAIConfig, opts Options) (*AnthropicSummarizer, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey, "Anthropic API key is not configured", nil)
	}
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	)
	return newAnthropicSummarizer(&client.Messages, cfg, opts), nil
}

func newAnthropicSummarizer(messages anthropicMessages, cfg config.OperationAIConfig, opts Options) *AnthropicSummarizer {
	opts = opts.withDefaults()
	return &AnthropicSummarizer{
		messages:   messages,
		config:     cfg,
		inputChars: opts.InputChars,
		breaker:    NewCircuitBreaker[*anthropic.Message]("summarize", cfg.CircuitBreaker, opts.Logger),
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}
}

// Summarize sends the first inputChars characters of text to Claude
func (a *AnthropicSummarizer) Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	excerpt := truncateRunes(text, a.inputChars, "")
	systemPrompt, userPrompt := summarizePrompts(a.config, excerpt, maxLen, minLen)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.config.Model),
		MaxTokens:   int64(a.config.MaxOutputTokens),
		Temperature: anthropic.Float(float64(*a.config.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: userPrompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	}
	if *a.config.UseSystemPrompts && systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	ctx, span := otel.Tracer("resumescan.ai.anthropic").Start(ctx, "anthropic.summarize")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", config.ProviderAnthropic),
		attribute.String("ai.model", a.config.Model),
		attribute.Int("input.resume_length", len(excerpt)),
	)

	var summary string
	err := a.metrics.TrackAIOperation(ctx, "summarize", config.ProviderAnthropic, func(ctx context.Context) *observability.AIOperationResult {
		ctx, cancel := context.WithTimeout(ctx, *a.config.Timeout)
		defer cancel()

		msg, err := a.breaker.Execute(func() (*anthropic.Message, error) {
			return executeWithRetry(ctx, a.logger, "summarize", *a.config.MaxRetries, isRetryableAnthropicError,
				func() (*anthropic.Message, error) {
					return a.messages.New(ctx, params)
				})
		})
		if err != nil {
			return &observability.AIOperationResult{
				Error: errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to generate summary", err),
			}
		}

		usage := &observability.TokenUsage{
			InputTokens:  msg.Usage.InputTokens,
			OutputTokens: msg.Usage.OutputTokens,
			TotalTokens:  msg.Usage.InputTokens + msg.Usage.OutputTokens,
		}
		summary = cleanSummary(messageText(msg))
		if summary == "" {
			return &observability.AIOperationResult{
				Error:      errors.NewAIError(errors.ErrCodeAIResponseEmpty, "Claude returned an empty summary", nil),
				TokenUsage: usage,
			}
		}
		return &observability.AIOperationResult{TokenUsage: usage}
	})

	span.SetAttributes(attribute.Bool("success", err == nil))
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return summary, nil
}

// IsHealthy reports whether the summarize breaker is closed
func (a *AnthropicSummarizer) IsHealthy() bool { return a.breaker.IsHealthy() }

// GetStats returns circuit breaker statistics
func (a *AnthropicSummarizer) GetStats() map[string]any { return a.breaker.GetStats() }

// messageText joins the text blocks of msg
func messageText(msg *anthropic.Message) string {
	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// isRetryableAnthropicError retries network failures, rate limits and server errors
func isRetryableAnthropicError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var apiErr *anthropic.Error
	if stderrors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.StatusCode) || apiErr.StatusCode == 529
	}

	return false
}
