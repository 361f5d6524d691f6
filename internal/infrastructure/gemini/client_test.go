package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/merchai/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSuccess(t *testing.T) {
	var gotPath, gotAPIKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("x-goog-api-key")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"parts": [{"text": "Hello, "}, {"text": "world"}]},
				"groundingMetadata": {
					"groundingChunks": [
						{"web": {"uri": "https://example.com/a", "title": "Source A"}},
						{"web": null},
						{"web": {"uri": "https://example.com/b", "title": "Source B"}}
					]
				}
			}],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 34}
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)

	result, err := client.Generate(context.Background(), "test-model", "say hello", domain.GenerateOptions{})
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/test-model:generateContent", gotPath)
	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "Hello, world", result.Text)
	assert.Equal(t, 12, result.Usage.PromptTokens)
	assert.Equal(t, 34, result.Usage.CandidatesTokens)
	require.Len(t, result.Citations, 2)
	assert.Equal(t, "https://example.com/a", result.Citations[0].URI)
	assert.Equal(t, "Source A", result.Citations[0].Title)
}

func TestGenerateRequestSerialization(t *testing.T) {
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "{}"}]}}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)

	schema := &domain.Schema{
		Type: "OBJECT",
		Properties: map[string]*domain.Schema{
			"score": {Type: "INTEGER"},
		},
		Required: []string{"score"},
	}

	_, err := client.Generate(context.Background(), "test-model", "rate this", domain.GenerateOptions{
		ResponseSchema: schema,
		EnableSearch:   true,
		ThinkingBudget: 1024,
	})
	require.NoError(t, err)

	// Prompt travels as a single user content part
	contents := gotBody["contents"].([]any)
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]any)["parts"].([]any)
	assert.Equal(t, "rate this", parts[0].(map[string]any)["text"])

	genCfg := gotBody["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", genCfg["responseMimeType"])
	assert.NotNil(t, genCfg["responseSchema"])
	assert.Equal(t, float64(1024), genCfg["thinkingConfig"].(map[string]any)["thinkingBudget"])

	tools := gotBody["tools"].([]any)
	require.Len(t, tools, 1)
	_, hasSearch := tools[0].(map[string]any)["google_search"]
	assert.True(t, hasSearch)
}

func TestGeneratePlainTextOmitsConfig(t *testing.T) {
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "ok"}]}}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)

	_, err := client.Generate(context.Background(), "test-model", "hi", domain.GenerateOptions{})
	require.NoError(t, err)

	_, hasCfg := gotBody["generationConfig"]
	assert.False(t, hasCfg)
	_, hasTools := gotBody["tools"]
	assert.False(t, hasTools)
}

func TestGenerateUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)

	_, err := client.Generate(context.Background(), "test-model", "hi", domain.GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)

	_, err := client.Generate(context.Background(), "test-model", "hi", domain.GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
}

func TestGenerateCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should never reach the server")
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Generate(ctx, "test-model", "hi", domain.GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAborted)
}

func TestGenerateEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": [], "usageMetadata": {"promptTokenCount": 5, "candidatesTokenCount": 0}}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)

	result, err := client.Generate(context.Background(), "test-model", "hi", domain.GenerateOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Text)
	assert.Empty(t, result.Citations)
	assert.Equal(t, 5, result.Usage.PromptTokens)
}
