package ports

import (
	"context"
	"time"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/stats"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// StatsProvider exposes derived statistics.
// This is a driven port (implemented by the services layer).
type StatsProvider interface {
	// Report builds streak, heatmap and summary statistics as of now.
	Report(ctx context.Context) (*stats.Report, error)

	// History returns completed sessions finished at or after since.
	History(ctx context.Context, since time.Time) ([]domain.CompletedRecord, error)
}
