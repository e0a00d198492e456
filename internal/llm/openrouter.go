package llm

import "fmt"

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openrouterModels maps friendly names to OpenRouter routes.
var openrouterModels = map[string]string{
	"gemini-flash": "google/gemini-2.5-flash",
	"claude-haiku": "anthropic/claude-haiku-4.5",
	"gpt-mini":     "openai/gpt-4.1-mini",
}

// OpenRouterProvider is an OpenAIProvider pointed at OpenRouter. Strict
// schema mode stays off because not every routed model honors it; the
// local validator still checks every response.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	inner, err := newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   resolveModel(cfg.Model, openrouterModels),
		BaseURL: baseURL,
	})
	if err != nil {
		return nil, err
	}
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}
