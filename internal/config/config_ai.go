package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Model == "" {
		opCfg.Model = defaultModel(opCfg.Provider)
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// defaultModel picks a model when neither the operation nor the global config names one
func defaultModel(provider string) string {
	switch provider {
	case ProviderGemini:
		return "gemini-2.0-flash"
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	default:
		return ""
	}
}

// GetSummarizeConfig returns the summarizer configuration with fallback to global config
func (c *Config) GetSummarizeConfig() OperationAIConfig {
	config := c.AI.Summarize

	c.applyOperationDefaults(&config)

	// Inline prompts and file paths fall back to the global ones
	if config.CustomPrompts.SystemPrompt == "" {
		config.CustomPrompts.SystemPrompt = c.AI.CustomPrompts.SystemPrompt
	}
	if config.CustomPrompts.UserPrompt == "" {
		config.CustomPrompts.UserPrompt = c.AI.CustomPrompts.UserPrompt
	}
	if config.CustomPrompts.SystemPromptFile == "" {
		config.CustomPrompts.SystemPromptFile = c.AI.CustomPrompts.SystemPromptFile
	}
	if config.CustomPrompts.UserPromptFile == "" {
		config.CustomPrompts.UserPromptFile = c.AI.CustomPrompts.UserPromptFile
	}

	config.LoadedPrompts = c.loadedPrompts.forOperation(c.loadedPrompts.Summarize)

	return config
}
