package completion

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderwise/wanderwise-api/config"
	"github.com/wanderwise/wanderwise-api/internal/types"
)

func newTestClient(t *testing.T, baseURL string) *AnthropicClient {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAnthropicClient(config.CompletionConfig{
		BaseURL:   baseURL,
		Model:     "claude-sonnet-4-20250514",
		MaxTokens: 4000,
	}, logger)
}

func TestAnthropicClient_Complete(t *testing.T) {
	var captured struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var gotVersion string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		gotVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content": [{"text": "{\"routeName\": \"ok\"}"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	text, err := client.Complete(context.Background(), "plan a walk")
	require.NoError(t, err)
	assert.Equal(t, `{"routeName": "ok"}`, text)

	assert.Equal(t, "2023-06-01", gotVersion)
	assert.Equal(t, "claude-sonnet-4-20250514", captured.Model)
	assert.Equal(t, 4000, captured.MaxTokens)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.Equal(t, "plan a walk", captured.Messages[0].Content)
}

func TestAnthropicClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Complete(context.Background(), "plan a walk")
	var svcErr *types.CompletionServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusTooManyRequests, svcErr.Status)
	assert.Contains(t, svcErr.Body, "rate limited")
}

func TestAnthropicClient_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": []}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Complete(context.Background(), "plan a walk")
	var malformed *types.MalformedCompletionError
	require.ErrorAs(t, err, &malformed)
}
