package claude

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/pairlens/internal/core"
	"github.com/newthinker/pairlens/internal/llm"
)

func TestProvider_ImplementsInterface(t *testing.T) {
	var _ llm.Provider = (*Provider)(nil)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(llm.Options{Model: "model"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfigMissing))
}

func TestNew_DefaultModel(t *testing.T) {
	p, err := New(llm.Options{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, defaultModel, p.model)
	assert.Equal(t, "claude", p.Name())
}

func TestProvider_Chat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01", "type": "message", "role": "assistant", "model": "claude-test",
			"content": [{"type": "text", "text": "Momentum "}, {"type": "text", "text": "favours BTC."}],
			"stop_reason": "end_turn", "stop_sequence": null,
			"usage": {"input_tokens": 120, "output_tokens": 8}
		}`))
	}))
	defer srv.Close()

	p, err := New(llm.Options{APIKey: "test-key", Model: "claude-test", BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := p.Chat(context.Background(), llm.ChatRequest{
		SystemPrompt: "You are terse.",
		Messages:     []llm.Message{llm.UserMessage("Summarise.")},
	})
	require.NoError(t, err)

	assert.Equal(t, "Momentum favours BTC.", resp.Content)
	assert.Equal(t, 120, resp.Usage.InputTokens)
	assert.Equal(t, "end_turn", resp.FinishReason)
	assert.Equal(t, "claude-test", got["model"])
	assert.EqualValues(t, llm.DefaultMaxTokens, got["max_tokens"])
}

func TestProvider_ChatError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer srv.Close()

	p, err := New(llm.Options{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Chat(context.Background(), llm.ChatRequest{Messages: []llm.Message{llm.UserMessage("hi")}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrLLMFailed))
}
