// Package notifier announces published runs on external channels.
package notifier

import (
	"context"
	"time"
)

// Notice summarises one published run.
type Notice struct {
	RunID           string
	Title           string
	Dir             string
	Artifacts       []string
	Outlook         []string
	Recommendations []string
	GeneratedAt     time.Time
}

// Notifier defines the interface for run announcements
type Notifier interface {
	// Name returns the unique identifier for this notifier
	Name() string

	// Notify delivers n. Implementations must honour ctx cancellation.
	Notify(ctx context.Context, n Notice) error
}
