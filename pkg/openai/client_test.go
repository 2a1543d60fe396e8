package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])

		msgs := body["messages"].([]any)
		require.Len(t, msgs, 2)
		first := msgs[0].(map[string]any)
		assert.Equal(t, "system", first["role"])

		rf := body["response_format"].(map[string]any)
		assert.Equal(t, "json_object", rf["type"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"score\": 2.5}"}}],
			"usage": {"prompt_tokens": 120, "completion_tokens": 30}
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.Complete(context.Background(), CompletionRequest{
		Model:       "gpt-4o-mini",
		System:      "system prompt",
		User:        "user prompt",
		Temperature: 0.1,
		JSONMode:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, "chatcmpl-1", resp.ID)
	assert.Equal(t, `{"score": 2.5}`, resp.Content)
	assert.Equal(t, 120, resp.Usage.PromptTokens)
	assert.Equal(t, 30, resp.Usage.CompletionTokens)
}

func TestComplete_NoResponseFormatWhenJSONModeOff(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasFormat := body["response_format"]
		assert.False(t, hasFormat)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "plain"}}],
			"usage": {"prompt_tokens": 1, "completion_tokens": 1}
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.Complete(context.Background(), CompletionRequest{
		Model: "gpt-4o-mini",
		User:  "hi",
	})

	require.NoError(t, err)
	assert.Equal(t, "plain", resp.Content)
}

func TestComplete_NoChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [], "usage": {}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Complete(context.Background(), CompletionRequest{Model: "gpt-4o-mini", User: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response choices")
}

func TestComplete_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := client.Complete(context.Background(), CompletionRequest{Model: "gpt-4o-mini", User: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key")
}

func TestEffectiveTemperature(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.1, EffectiveTemperature("gpt-4o-mini", 0.1))
	assert.Equal(t, 0.3, EffectiveTemperature("gpt-4o", 0.3))
	// Models outside the gpt-4o family only accept the default.
	assert.Equal(t, 1.0, EffectiveTemperature("o1-mini", 0.1))
	assert.Equal(t, 1.0, EffectiveTemperature("gpt-5-nano", 0.1))
}

func TestEstimateCost(t *testing.T) {
	t.Parallel()

	u := TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 1_000_000}
	assert.InDelta(t, 0.75, u.EstimateCost("gpt-4o-mini"), 1e-9)
	assert.Zero(t, u.EstimateCost("unknown-model"))
}
