package ports

import (
	"context"

	"github.com/xvierd/breathe-cli/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start serves MCP requests until ctx is cancelled or the client
	// disconnects.
	Start(ctx context.Context) error
}

// PatternProvider gives the MCP server read access to the catalog and the
// rehearsal planner.
// This is a driven port (implemented by the services layer).
type PatternProvider interface {
	// Patterns returns every pattern in catalog order.
	Patterns() []domain.Pattern

	// Lookup returns a single pattern by id.
	Lookup(id string) (domain.Pattern, error)

	// Plan rehearses a session without waiting in real time.
	Plan(ctx context.Context, patternID string, durationSeconds, cycleLimit int) (domain.Timeline, error)
}
