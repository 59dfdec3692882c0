package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"resumescan/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets holds KVv2 paths for each secret. Empty paths are skipped.
type VaultSecrets struct {
	APIKeys      string `mapstructure:"apiKeys"`      // key "keys", comma-separated
	GeminiKey    string `mapstructure:"geminiKey"`    // key "api_key"
	AnthropicKey string `mapstructure:"anthropicKey"` // key "api_key"
	TLSCerts     string `mapstructure:"tlsCerts"`     // keys "cert" and "key", PEM content
}

// VaultClient wraps the Vault API client
type VaultClient struct {
	client *api.Client
	logger *errors.Logger
}

// VaultSecret is the payload and version of a KVv2 secret
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// NewVaultClient connects to Vault. It returns nil when Vault is disabled.
func NewVaultClient(cfg VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if logger == nil {
		logger = errors.Discard()
	}
	if !cfg.Enabled {
		logger.Debug("Vault integration disabled")
		return nil, nil
	}

	apiCfg := api.DefaultConfig()
	if cfg.Address != "" {
		apiCfg.Address = cfg.Address
	}
	client, err := api.NewClient(apiCfg)
	if err != nil {
		logger.LogError(err, "Failed to create Vault client")
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	token, err := resolveVaultToken(cfg)
	if err != nil {
		logger.LogError(err, "Vault token unavailable", "token_file", cfg.TokenFile)
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		logger.LogError(err, "Failed to connect to Vault", "address", apiCfg.Address)
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}
	logger.Info("Connected to Vault",
		"address", apiCfg.Address,
		"version", health.Version,
		"sealed", health.Sealed)

	return &VaultClient{client: client, logger: logger}, nil
}

// resolveVaultToken prefers the inline token over the token file
func resolveVaultToken(cfg VaultConfig) (string, error) {
	token := cfg.Token
	if token == "" && cfg.TokenFile != "" {
		raw, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(raw))
	}
	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}
	return token, nil
}

// GetSecretV2 reads a KVv2 secret
func (vc *VaultClient) GetSecretV2(path string) (*VaultSecret, error) {
	if vc == nil {
		return nil, fmt.Errorf("vault client not initialized")
	}

	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}

	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}
	metadata, ok := secret.Data["metadata"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'metadata' field)", path)
	}
	versionRaw, ok := metadata["version"]
	if !ok {
		return nil, fmt.Errorf("secret metadata at %s is missing 'version' field", path)
	}
	version, err := parseVersionValue(versionRaw, path)
	if err != nil {
		return nil, err
	}

	vc.logger.Debug("Secret read from Vault", "path", path, "version", version)
	return &VaultSecret{Data: data, Version: version}, nil
}

// parseVersionValue accepts the numeric shapes the Vault JSON decoder produces
func parseVersionValue(raw any, path string) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse secret version at %s: %w", path, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unexpected type for version at %s: %T", path, raw)
	}
}

// GetStringSecret reads one string key from a KVv2 secret
func (vc *VaultClient) GetStringSecret(path, key string) (string, error) {
	secret, err := vc.GetSecretV2(path)
	if err != nil {
		return "", err
	}
	value, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key '%s' is not a string in secret %s", key, path)
	}
	vc.logger.Debug("String secret retrieved from Vault", "path", path, "key", key, "masked_value", maskSecret(s))
	return s, nil
}

func maskSecret(s string) string {
	switch {
	case len(s) > 8:
		return s[:4] + "****" + s[len(s)-4:]
	case s != "":
		return "****"
	default:
		return ""
	}
}

// ApplyVaultSecrets loads the configured secrets from Vault into config
func ApplyVaultSecrets(config *Config, logger *errors.Logger) error {
	if logger == nil {
		logger = errors.Discard()
	}
	if !config.Vault.Enabled {
		logger.Debug("Vault integration disabled, skipping secret loading")
		return nil
	}

	client, err := NewVaultClient(config.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	if err := applySecrets(client, config, logger); err != nil {
		return err
	}
	logger.Info("Successfully completed applying secrets from Vault")
	return nil
}

// applySecrets copies every configured secret from source into config
func applySecrets(source *VaultClient, config *Config, logger *errors.Logger) error {
	paths := config.Vault.Secrets

	if paths.APIKeys != "" {
		raw, err := source.GetStringSecret(paths.APIKeys, "keys")
		if err != nil {
			return fmt.Errorf("failed to load API keys from vault: %w", err)
		}
		if keys := splitAndTrim(raw); len(keys) > 0 {
			config.Server.APIKeys = keys
			logger.Info("API keys loaded from Vault", "count", len(keys))
		} else {
			logger.Warn("No API keys found in Vault", "path", paths.APIKeys)
		}
	}

	providerKeys := []struct {
		provider string
		path     string
	}{
		{ProviderGemini, paths.GeminiKey},
		{ProviderAnthropic, paths.AnthropicKey},
	}
	for _, pk := range providerKeys {
		if pk.path == "" {
			continue
		}
		key, err := source.GetStringSecret(pk.path, "api_key")
		if err != nil {
			return fmt.Errorf("failed to load %s API key from vault: %w", pk.provider, err)
		}
		if key == "" {
			logger.Warn("Empty provider API key found in Vault", "provider", pk.provider, "path", pk.path)
			continue
		}
		if applyProviderKeyToConfig(config, pk.provider, key) {
			logger.Info("Provider API key loaded from Vault", "provider", pk.provider)
		}
	}

	if paths.TLSCerts != "" {
		secret, err := source.GetSecretV2(paths.TLSCerts)
		if err != nil {
			return fmt.Errorf("failed to load TLS certificates from vault: %w", err)
		}
		if err := applyTLSSecret(config, secret); err != nil {
			return err
		}
		logger.Info("TLS certificates loaded from Vault")
	}

	return nil
}

// applyProviderKeyToConfig sets key on the AI configuration when provider is
// the one summaries will use. It reports whether the key was applied.
func applyProviderKeyToConfig(config *Config, provider, key string) bool {
	active := config.AI.Summarize.Provider
	if active == "" {
		active = config.AI.Provider
	}
	if active != provider {
		return false
	}
	config.AI.APIKey = key
	if config.AI.Summarize.APIKey == "" {
		config.AI.Summarize.APIKey = key
	}
	return true
}

// applyTLSSecret loads PEM content; file path keys are rejected
func applyTLSSecret(config *Config, secret *VaultSecret) error {
	for _, field := range []string{"cert_file", "key_file"} {
		if _, ok := secret.Data[field]; ok {
			return fmt.Errorf("vault TLS configuration error: '%s' field is not supported. Store PEM content in '%s' instead",
				field, strings.TrimSuffix(field, "_file"))
		}
	}
	if cert, ok := secret.Data["cert"].(string); ok && cert != "" {
		config.Server.TLS.CertContent = cert
	}
	if key, ok := secret.Data["key"].(string); ok && key != "" {
		config.Server.TLS.KeyContent = key
	}
	return nil
}
