// Package webhook implements an HTTP webhook notifier
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/newthinker/pairlens/internal/notifier"
)

// Webhook implements the Notifier interface for HTTP webhooks
type Webhook struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// New creates a new Webhook notifier
func New(url string, headers map[string]string) *Webhook {
	return &Webhook{
		url:     url,
		headers: headers,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (w *Webhook) Name() string { return "webhook" }

// payload is the JSON body posted for every run.
type payload struct {
	Type            string   `json:"type"`
	RunID           string   `json:"run_id"`
	Title           string   `json:"title"`
	Dir             string   `json:"dir"`
	Artifacts       []string `json:"artifacts"`
	Outlook         []string `json:"outlook"`
	Recommendations []string `json:"recommendations"`
	GeneratedAt     string   `json:"generated_at"`
}

func (w *Webhook) Notify(ctx context.Context, n notifier.Notice) error {
	return w.post(ctx, payload{
		Type:            "run",
		RunID:           n.RunID,
		Title:           n.Title,
		Dir:             n.Dir,
		Artifacts:       n.Artifacts,
		Outlook:         n.Outlook,
		Recommendations: n.Recommendations,
		GeneratedAt:     n.GeneratedAt.UTC().Format(time.RFC3339),
	})
}

func (w *Webhook) post(ctx context.Context, p payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("webhook: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: server returned %d", resp.StatusCode)
	}

	return nil
}
