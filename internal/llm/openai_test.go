package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAIServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server.URL + "/v1"
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4.1-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAIProvider_Structured(t *testing.T) {
	var body struct {
		Model          string `json:"model"`
		Messages       []map[string]any
		ResponseFormat struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Name   string `json:"name"`
				Strict bool   `json:"strict"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	url := openAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion(`{"hint":"print the slice"}`, "stop"))
	})

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-mini", BaseURL: url})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), Prompt("You are a tutor.", "help", hintSchema(), 128))
	require.NoError(t, err)
	assert.Equal(t, 65, resp.Usage.TotalTokens)
	assert.Equal(t, "end", resp.StopReason)

	assert.Equal(t, "gpt-4.1-mini", body.Model)
	assert.Len(t, body.Messages, 2)
	assert.Equal(t, "json_schema", body.ResponseFormat.Type)
	assert.Equal(t, "test-hint", body.ResponseFormat.JSONSchema.Name)
	assert.True(t, body.ResponseFormat.JSONSchema.Strict)
}

func TestOpenRouterProvider_NotStrict(t *testing.T) {
	var body struct {
		Model          string `json:"model"`
		ResponseFormat struct {
			JSONSchema struct {
				Strict bool `json:"strict"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	url := openAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion(`{"hint":"x"}`, "stop"))
	})

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "gemini-flash", BaseURL: url})
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-flash", p.ModelID())

	_, err = p.Generate(context.Background(), Prompt("", "help", hintSchema(), 64))
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-flash", body.Model)
	assert.False(t, body.ResponseFormat.JSONSchema.Strict)
}

func TestOpenRouterProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "gemini-flash"})
	assert.Error(t, err)
}

func TestOpenAIProvider_Errors(t *testing.T) {
	t.Run("rate limit", func(t *testing.T) {
		url := openAIServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"type": "tokens", "message": "slow down", "code": "rate_limit_exceeded"},
			})
		})
		p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", BaseURL: url})
		require.NoError(t, err)
		_, err = p.Generate(context.Background(), Prompt("", "x", nil, 16))
		var rl *ErrRateLimit
		assert.True(t, errors.As(err, &rl), "err = %T %v", err, err)
	})

	t.Run("gateway error without body", func(t *testing.T) {
		url := openAIServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", BaseURL: url})
		require.NoError(t, err)
		_, err = p.Generate(context.Background(), Prompt("", "x", nil, 16))
		var unavail *ErrProviderUnavailable
		assert.True(t, errors.As(err, &unavail), "err = %T %v", err, err)
	})

	t.Run("no choices", func(t *testing.T) {
		url := openAIServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			c := chatCompletion("", "stop")
			c["choices"] = []any{}
			_ = json.NewEncoder(w).Encode(c)
		})
		p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", BaseURL: url})
		require.NoError(t, err)
		_, err = p.Generate(context.Background(), Prompt("", "x", nil, 16))
		var inv *ErrInvalidResponse
		assert.True(t, errors.As(err, &inv), "err = %T %v", err, err)
	})

	t.Run("length stop with schema", func(t *testing.T) {
		url := openAIServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(chatCompletion(`{"hi`, "length"))
		})
		p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", BaseURL: url})
		require.NoError(t, err)
		_, err = p.Generate(context.Background(), Prompt("", "x", hintSchema(), 4))
		var maxTok *ErrMaxTokensExceeded
		assert.True(t, errors.As(err, &maxTok), "err = %T %v", err, err)
	})
}
