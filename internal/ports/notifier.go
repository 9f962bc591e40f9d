package ports

import "github.com/xvierd/breathe-cli/internal/domain"

// Notifier tells the user a session has finished.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// NotifySessionComplete announces a session that reached its limit.
	NotifySessionComplete(pattern domain.Pattern, summary domain.Summary) error

	// IsEnabled returns true if notifications are enabled.
	IsEnabled() bool
}
