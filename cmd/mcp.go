package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xvierd/pomo/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server drives the timer and exposes statistics and history as tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol, so banners go to stderr.
		fmt.Fprintln(os.Stderr, "🚀 Starting MCP server...")
		fmt.Fprintln(os.Stderr, "   The server will communicate via stdio")
		fmt.Fprintln(os.Stderr, "   Press Ctrl+C to stop")

		ctx := context.Background()

		// Create and start the MCP server
		server := mcp.NewServer(app.engine, app.stats, app.clock)
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		return nil
	},
}
