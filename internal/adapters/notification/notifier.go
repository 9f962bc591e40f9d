// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/breathe-cli/internal/config"
	"github.com/xvierd/breathe-cli/internal/domain"
	"github.com/xvierd/breathe-cli/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg  *config.NotificationConfig
	send func(title, message string) error
}

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{
		cfg: cfg,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}

	return n.send(title, message)
}

// NotifySessionComplete displays a notification when a session reaches its
// limit.
func (n *Notifier) NotifySessionComplete(pattern domain.Pattern, summary domain.Summary) error {
	title := "🌬 Session complete"
	message := fmt.Sprintf("%s finished after %s.", pattern.Title, describe(summary))
	return n.Notify(title, message)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

func describe(s domain.Summary) string {
	if s.Reason == domain.StopReasonCycles {
		if s.Cycles == 1 {
			return "1 cycle"
		}
		return fmt.Sprintf("%d cycles", s.Cycles)
	}
	return s.Elapsed.String()
}

var _ ports.Notifier = (*Notifier)(nil)
