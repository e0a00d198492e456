package llm

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// ErrNotConfigured is returned when no provider can be selected from the
// environment. The app then runs with the static catalog only.
var ErrNotConfigured = errors.New("no LLM provider configured")

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which backend to use (see the Provider* constants).
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single logical request, retries included.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // OpenAI-compatible endpoints
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string // tests and proxies
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with the Gemini flash model selected,
// which is the cheapest model that handles lesson generation well.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     8 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

// envBinding maps environment variables onto a config field. The first
// non-empty variable wins.
type envBinding struct {
	vars []string
	set  func(*Config, string)
}

var envBindings = []envBinding{
	{[]string{"CODULINGO_LLM_PROVIDER"}, func(c *Config, v string) { c.Provider = strings.ToLower(v) }},

	{[]string{"CODULINGO_GEMINI_API_KEY", "GEMINI_API_KEY"}, func(c *Config, v string) { c.Gemini.APIKey = v }},
	{[]string{"CODULINGO_GEMINI_MODEL"}, func(c *Config, v string) { c.Gemini.Model = v }},

	{[]string{"CODULINGO_OPENAI_API_KEY", "OPENAI_API_KEY"}, func(c *Config, v string) { c.OpenAI.APIKey = v }},
	{[]string{"CODULINGO_OPENAI_MODEL"}, func(c *Config, v string) { c.OpenAI.Model = v }},
	{[]string{"CODULINGO_OPENAI_BASE_URL"}, func(c *Config, v string) { c.OpenAI.BaseURL = v }},

	{[]string{"CODULINGO_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"}, func(c *Config, v string) { c.Anthropic.APIKey = v }},
	{[]string{"CODULINGO_ANTHROPIC_MODEL"}, func(c *Config, v string) { c.Anthropic.Model = v }},

	{[]string{"CODULINGO_OPENROUTER_API_KEY", "OPENROUTER_API_KEY"}, func(c *Config, v string) { c.OpenRouter.APIKey = v }},
	{[]string{"CODULINGO_OPENROUTER_MODEL"}, func(c *Config, v string) { c.OpenRouter.Model = v }},
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. The provider is taken as configured; use
// LoadConfig to auto-select one from the available keys.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, b := range envBindings {
		for _, name := range b.vars {
			if v := strings.TrimSpace(os.Getenv(name)); v != "" {
				b.set(&cfg, v)
				break
			}
		}
	}
	return cfg
}

// LoadConfig returns the environment config. Without an explicit
// CODULINGO_LLM_PROVIDER the first provider with a key is chosen, in the
// order Gemini, OpenAI, Anthropic, OpenRouter. It reports false when no
// provider has a key.
func LoadConfig() (Config, bool) {
	cfg := ConfigFromEnv()
	if os.Getenv("CODULINGO_LLM_PROVIDER") != "" {
		return cfg, true
	}

	for _, candidate := range []struct {
		name string
		key  string
	}{
		{ProviderGemini, cfg.Gemini.APIKey},
		{ProviderOpenAI, cfg.OpenAI.APIKey},
		{ProviderAnthropic, cfg.Anthropic.APIKey},
		{ProviderOpenRouter, cfg.OpenRouter.APIKey},
	} {
		if candidate.key != "" {
			cfg.Provider = candidate.name
			return cfg, true
		}
	}
	return cfg, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "CODULINGO_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "CODULINGO_OPENAI_API_KEY"
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "CODULINGO_GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "CODULINGO_OPENROUTER_API_KEY"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
