package ai

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"

	"resumescan/internal/config"
	"resumescan/internal/errors"
	"resumescan/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// geminiModels is the part of genai.Models the summarizer calls
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiSummarizer summarizes resumes with Google Gemini
type GeminiSummarizer struct {
	models     geminiModels
	config     config.OperationAIConfig
	inputChars int
	breaker    *CircuitBreaker[*genai.GenerateContentResponse]
	logger     *errors.Logger
	metrics    *observability.Metrics
}

var _ Summarizer = (*GeminiSummarizer)(nil)

// NewGeminiSummarizer creates a Gemini client for cfg
func NewGeminiSummarizer(cfg config.OperationAIConfig, opts Options) (*GeminiSummarizer, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to create Gemini client", err)
	}
	return newGeminiSummarizer(client.Models, cfg, opts), nil
}

func newGeminiSummarizer(models geminiModels, cfg config.OperationAIConfig, opts Options) *GeminiSummarizer {
	opts = opts.withDefaults()
	return &GeminiSummarizer{
		models:     models,
		config:     cfg,
		inputChars: opts.InputChars,
		breaker:    NewCircuitBreaker[*genai.GenerateContentResponse]("summarize", cfg.CircuitBreaker, opts.Logger),
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}
}

// Summarize sends the first inputChars characters of text to Gemini
func (g *GeminiSummarizer) Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	excerpt := truncateRunes(text, g.inputChars, "")
	systemPrompt, userPrompt := summarizePrompts(g.config, excerpt, maxLen, minLen)

	genCfg := &genai.GenerateContentConfig{
		Temperature:     g.config.Temperature,
		MaxOutputTokens: g.config.MaxOutputTokens,
	}
	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	ctx, span := otel.Tracer("resumescan.ai.gemini").Start(ctx, "gemini.summarize")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", config.ProviderGemini),
		attribute.String("ai.model", g.config.Model),
		attribute.Int("input.resume_length", len(excerpt)),
	)

	var summary string
	err := g.metrics.TrackAIOperation(ctx, "summarize", config.ProviderGemini, func(ctx context.Context) *observability.AIOperationResult {
		ctx, cancel := context.WithTimeout(ctx, *g.config.Timeout)
		defer cancel()

		resp, err := g.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
			return executeWithRetry(ctx, g.logger, "summarize", *g.config.MaxRetries, isRetryableGeminiError,
				func() (*genai.GenerateContentResponse, error) {
					return g.models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genCfg)
				})
		})
		if err != nil {
			return &observability.AIOperationResult{
				Error: errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to generate summary", err),
			}
		}

		summary = cleanSummary(resp.Text())
		if summary == "" {
			return &observability.AIOperationResult{
				Error:      errors.NewAIError(errors.ErrCodeAIResponseEmpty, "Gemini returned an empty summary", nil),
				TokenUsage: extractGeminiTokenUsage(resp),
			}
		}
		return &observability.AIOperationResult{TokenUsage: extractGeminiTokenUsage(resp)}
	})

	span.SetAttributes(attribute.Bool("success", err == nil))
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return summary, nil
}

// IsHealthy reports whether the summarize breaker is closed
func (g *GeminiSummarizer) IsHealthy() bool { return g.breaker.IsHealthy() }

// GetStats returns circuit breaker statistics
func (g *GeminiSummarizer) GetStats() map[string]any { return g.breaker.GetStats() }

// isRetryableGeminiError retries network failures and transient HTTP statuses
func isRetryableGeminiError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.Code)
	}

	var genaiErr genai.APIError
	if stderrors.As(err, &genaiErr) {
		return isRetryableStatus(genaiErr.Code)
	}
	var genaiErrPtr *genai.APIError
	if stderrors.As(err, &genaiErrPtr) {
		return isRetryableStatus(genaiErrPtr.Code)
	}

	return false
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// extractGeminiTokenUsage reads token counts from the response metadata
func extractGeminiTokenUsage(resp *genai.GenerateContentResponse) *observability.TokenUsage {
	if resp == nil || resp.UsageMetadata == nil {
		return nil
	}
	usage := resp.UsageMetadata
	return &observability.TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
