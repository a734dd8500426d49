package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/pairlens/internal/notifier"
)

func TestEmail_ImplementsNotifier(t *testing.T) {
	var _ notifier.Notifier = (*Email)(nil)
}

func TestEmail_Notify(t *testing.T) {
	e := New("smtp.example.com", 587, "user", "pass", "pairlens@example.com", []string{"ops@example.com", "desk@example.com"})

	var gotAddr string
	var gotAuth smtp.Auth
	var gotTo []string
	var gotMsg string
	e.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotTo, gotMsg = addr, a, to, string(msg)
		return nil
	}

	err := e.Notify(context.Background(), notifier.Notice{
		RunID: "run-1",
		Title: "Comprehensive BTC/ETH Analysis for 2024",
		Dir:   "runs/2024-04-01-run-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, []string{"ops@example.com", "desk@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: pairlens: Comprehensive BTC/ETH Analysis for 2024\r\n")
	assert.Contains(t, gotMsg, "To: ops@example.com,desk@example.com\r\n")
	assert.Contains(t, gotMsg, "Artifacts: runs/2024-04-01-run-1\r\nRun: run-1")
	assert.False(t, strings.Contains(strings.ReplaceAll(gotMsg, "\r\n", ""), "\n"), "bare LF in message")
}

func TestEmail_NoAuthWithoutUsername(t *testing.T) {
	e := New("localhost", 25, "", "", "a@example.com", []string{"b@example.com"})
	var gotAuth smtp.Auth
	called := false
	e.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		called, gotAuth = true, a
		return nil
	}
	require.NoError(t, e.Notify(context.Background(), notifier.Notice{Title: "t"}))
	assert.True(t, called)
	assert.Nil(t, gotAuth)
}

func TestEmail_Errors(t *testing.T) {
	e := New("localhost", 25, "", "", "a@example.com", []string{"b@example.com"})
	e.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("connection refused") }
	assert.ErrorContains(t, e.Notify(context.Background(), notifier.Notice{Title: "t"}), "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, e.Notify(ctx, notifier.Notice{Title: "t"}), context.Canceled)
}
