package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestGeminiProvider(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-flash",
		BaseURL: server.URL + "/",
	})
	require.NoError(t, err)
	return p
}

func geminiReply(text, finish string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": text}}},
			"finishReason": finish,
		}},
		"usageMetadata": map[string]any{
			"promptTokenCount":     12,
			"candidatesTokenCount": 8,
			"totalTokenCount":      20,
		},
		"modelVersion": "gemini-2.5-flash",
	}
}

func TestGeminiProvider_Structured(t *testing.T) {
	var path string
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(geminiReply(`{"hint":"count the brackets"}`, "STOP"))
	})

	resp, err := p.Generate(context.Background(), Prompt("You are a tutor.", "help", hintSchema(), 128))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "gemini-2.5-flash:generateContent"), "path = %s", path)
	assert.Equal(t, 20, resp.Usage.TotalTokens)
	assert.Equal(t, "gemini-2.5-flash", resp.Model)
	assert.JSONEq(t, `{"hint":"count the brackets"}`, string(resp.Content))
}

func TestGeminiProvider_MaxTokens(t *testing.T) {
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(geminiReply(`{"hint":"cou`, "MAX_TOKENS"))
	})

	_, err := p.Generate(context.Background(), Prompt("", "help", hintSchema(), 4))
	var maxTok *ErrMaxTokensExceeded
	assert.True(t, errors.As(err, &maxTok), "err = %T %v", err, err)
}

func TestGeminiProvider_RateLimit(t *testing.T) {
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 429, "message": "quota", "status": "RESOURCE_EXHAUSTED"},
		})
	})

	_, err := p.Generate(context.Background(), Prompt("", "help", nil, 16))
	var rl *ErrRateLimit
	assert.True(t, errors.As(err, &rl), "err = %T %v", err, err)
}

func TestGeminiModelMapping(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "gemini-2.5-pro", resolveModel("gemini-pro", geminiModels))
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-2.0-flash", geminiModels))
}

func TestBuildGeminiSchema(t *testing.T) {
	schema := buildGeminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"segments": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type":    map[string]any{"type": "string", "enum": []string{"EXPLANATION", "CHALLENGE"}},
						"options": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"score":   map[string]any{"type": "integer"},
					},
					"required": []any{"type"},
				},
			},
		},
		"required": []string{"segments"},
	})

	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Equal(t, []string{"segments"}, schema.Required)

	seg := schema.Properties["segments"]
	require.NotNil(t, seg)
	assert.Equal(t, genai.TypeArray, seg.Type)

	item := seg.Items
	require.NotNil(t, item)
	assert.Equal(t, []string{"type"}, item.Required)
	assert.Equal(t, []string{"EXPLANATION", "CHALLENGE"}, item.Properties["type"].Enum)
	assert.Equal(t, genai.TypeString, item.Properties["options"].Items.Type)
	assert.Equal(t, genai.TypeInteger, item.Properties["score"].Type)
}
