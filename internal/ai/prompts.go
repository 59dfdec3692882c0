package ai

import (
	"strconv"
	"strings"

	"resumescan/internal/config"
)

// Placeholders recognized in user prompt templates
const (
	placeholderResume    = "{resume}"
	placeholderMaxLength = "{maxLength}"
	placeholderMinLength = "{minLength}"
)

// DefaultSummarizeSystemPrompt is used when no system prompt is configured
const DefaultSummarizeSystemPrompt = `You are a recruiting assistant who writes neutral, factual resume summaries.

- Use only information present in the resume text
- Never invent employers, titles, dates or skills
- Write plain prose without headings, bullet points or markdown
- Do not evaluate or rank the candidate`

// DefaultSummarizeUserPrompt is used when no user prompt is configured
const DefaultSummarizeUserPrompt = `Summarize the following resume excerpt in one short paragraph of between {minLength} and {maxLength} words.
Focus on the candidate's current role, years of experience, main skills and education.
Return only the summary text.

RESUME:
{resume}`

// summarizePrompts resolves the system and user prompts for cfg and fills the user template
func summarizePrompts(cfg config.OperationAIConfig, text string, maxLen, minLen int) (system, user string) {
	system = resolvePrompt(cfg.LoadedPrompts.System, cfg.CustomPrompts.SystemPrompt, DefaultSummarizeSystemPrompt)
	template := resolvePrompt(cfg.LoadedPrompts.User, cfg.CustomPrompts.UserPrompt, DefaultSummarizeUserPrompt)

	user = strings.NewReplacer(
		placeholderResume, text,
		placeholderMaxLength, strconv.Itoa(maxLen),
		placeholderMinLength, strconv.Itoa(minLen),
	).Replace(template)

	if !strings.Contains(template, placeholderResume) {
		user += "\n\n" + text
	}
	return system, user
}

// resolvePrompt picks the first non-empty prompt: loaded from file, inline config, built-in default
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}

// cleanSummary strips whitespace and a wrapping pair of quotes or a code fence
func cleanSummary(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "text")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
