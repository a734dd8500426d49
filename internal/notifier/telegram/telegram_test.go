package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/pairlens/internal/notifier"
)

func TestTelegram_ImplementsNotifier(t *testing.T) {
	var _ notifier.Notifier = (*Telegram)(nil)
}

func newTestTelegram(t *testing.T, h http.HandlerFunc) *Telegram {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	tg := New("test-token", "test-chat")
	tg.baseURL = server.URL
	return tg
}

func TestTelegram_Notify(t *testing.T) {
	var path string
	var got map[string]any
	tg := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	err := tg.Notify(context.Background(), notifier.Notice{
		RunID:   "run-1",
		Title:   "Comprehensive BTC/ETH Analysis for 2024",
		Dir:     "runs/2024-04-01-run-1",
		Outlook: []string{"Bitcoin Outlook: Positive"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/bottest-token/sendMessage", path)
	assert.Equal(t, "test-chat", got["chat_id"])
	text := got["text"].(string)
	assert.True(t, strings.HasPrefix(text, "📊 Comprehensive BTC/ETH Analysis for 2024"))
	assert.Contains(t, text, "Bitcoin Outlook: Positive")
	assert.Nil(t, got["parse_mode"])
}

func TestTelegram_TruncatesLongMessages(t *testing.T) {
	var got map[string]any
	tg := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	long := make([]string, 500)
	for i := range long {
		long[i] = "• a recommendation that repeats"
	}
	require.NoError(t, tg.Notify(context.Background(), notifier.Notice{Title: "t", Recommendations: long}))
	assert.Len(t, []rune(got["text"].(string)), maxMessage)
}

func TestTelegram_APIError(t *testing.T) {
	tg := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	})

	err := tg.Notify(context.Background(), notifier.Notice{Title: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
