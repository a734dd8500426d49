// Package narrator asks an LLM for a short commentary on a finished
// insight report. The report itself is never modified.
package narrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/pairlens/internal/core"
	"github.com/newthinker/pairlens/internal/llm"
	"github.com/newthinker/pairlens/internal/logger"
)

const systemPrompt = `You are a market analyst writing for retail investors.
You receive a rule-based report comparing two assets. Write a commentary of at
most three short paragraphs in Markdown. Only use figures that appear in the
report. Do not give personalised financial advice and do not contradict the
report's recommendations.`

// Narrator produces commentary with one provider.
type Narrator struct {
	provider  llm.Provider
	log       *zap.Logger
	maxTokens int
}

// New creates a Narrator. A nil log discards output.
func New(provider llm.Provider, log *zap.Logger) *Narrator {
	return &Narrator{provider: provider, log: logger.OrNop(log), maxTokens: 600}
}

// Provider returns the provider name.
func (n *Narrator) Provider() string {
	return n.provider.Name()
}

// Commentary returns a Markdown commentary on report.
func (n *Narrator) Commentary(ctx context.Context, report string) (string, error) {
	start := time.Now()
	resp, err := n.provider.Chat(ctx, llm.ChatRequest{
		SystemPrompt: systemPrompt,
		Messages:     []llm.Message{llm.UserMessage(report)},
		MaxTokens:    n.maxTokens,
		Temperature:  0.3,
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", core.WrapError(core.ErrLLMFailed, fmt.Errorf("%s returned an empty commentary", n.provider.Name()))
	}

	n.log.Debug("commentary generated",
		zap.String("provider", n.provider.Name()),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)),
	)
	return "# Commentary\n\n" + text + "\n", nil
}
