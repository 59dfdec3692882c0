package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// promptFile names one configurable prompt file and where its content goes
type promptFile struct {
	path       string
	promptType string
	operation  string
	target     *string
}

func (c *Config) promptFiles() []promptFile {
	return []promptFile{
		{c.AI.CustomPrompts.SystemPromptFile, "system", "global", &c.loadedPrompts.Global.System},
		{c.AI.CustomPrompts.UserPromptFile, "user", "global", &c.loadedPrompts.Global.User},
		{c.AI.Summarize.CustomPrompts.SystemPromptFile, "system", "summarize", &c.loadedPrompts.Summarize.System},
		{c.AI.Summarize.CustomPrompts.UserPromptFile, "user", "summarize", &c.loadedPrompts.Summarize.User},
	}
}

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	for _, pf := range c.promptFiles() {
		if pf.path == "" {
			continue
		}
		content, err := loadPromptFromFile(pf.path, pf.promptType, pf.operation)
		if err != nil {
			return err
		}
		*pf.target = content
	}

	if n := c.loadedPrompts.count(); n == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", n)
	}
	return nil
}

// loadPromptFromFile reads a prompt file and rejects empty content
func loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", operation, promptType, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s %s prompt file not found: %s", operation, promptType, absPath)
		}
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", operation, promptType, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", operation, promptType, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		operation, promptType, absPath, len(trimmed))
	return trimmed, nil
}

// validatePromptFiles checks that every configured prompt file exists before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string
	for _, pf := range c.promptFiles() {
		if pf.path == "" {
			continue
		}
		absPath, err := filepath.Abs(pf.path)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", pf.operation, pf.promptType, pf.path))
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", pf.operation, pf.promptType, absPath))
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}
	return nil
}
