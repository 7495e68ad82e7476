// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server     *server.MCPServer
	controller ports.SessionController
	stats      ports.StatsProvider
	clock      clockwork.Clock
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewServer creates a new MCP server instance. A nil clock uses the real one.
func NewServer(controller ports.SessionController, stats ports.StatsProvider, clock clockwork.Clock) *Server {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s := &Server{
		controller: controller,
		stats:      stats,
		clock:      clock,
	}

	s.server = server.NewMCPServer(
		"pomo",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// commandTools maps each engine command to its tool name and description.
var commandTools = []struct {
	name        string
	cmd         ports.TimerCommand
	description string
}{
	{"start_session", ports.CmdStart, "Start the session that is currently held (focus session or break)"},
	{"pause_session", ports.CmdPause, "Pause the running session"},
	{"resume_session", ports.CmdResume, "Resume a paused session"},
	{"stop_session", ports.CmdStop, "Abandon the current session without recording it"},
	{"skip_session", ports.CmdSkip, "Cycle the type of the next session: focus, break, long break"},
	{"add_minute", ports.CmdAddMinute, "Add one minute to the running or paused session"},
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_state",
			mcp.WithDescription("Get the current session, its status, remaining time and today's completed count"),
		),
		s.handleGetState,
	)

	for _, ct := range commandTools {
		s.server.AddTool(
			mcp.NewTool(ct.name, mcp.WithDescription(ct.description)),
			s.commandHandler(ct.cmd),
		)
	}

	s.server.AddTool(
		mcp.NewTool(
			"get_stats",
			mcp.WithDescription("Get streaks, focused time and per-day heatmap levels"),
		),
		s.handleGetStats,
	)

	historyTool := mcp.NewTool(
		"get_history",
		mcp.WithDescription("List completed focus sessions"),
		mcp.WithNumber(
			"days",
			mcp.Description("How many days back to include (default: 7)"),
		),
	)
	s.server.AddTool(historyTool, s.handleGetHistory)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func stateJSON(st domain.EngineStatus) map[string]interface{} {
	return map[string]interface{}{
		"session_type":        string(st.CurrentSession.Type),
		"session_label":       domain.GetSessionTypeLabel(st.CurrentSession.Type),
		"duration_minutes":    st.CurrentSession.Duration,
		"status":              string(st.Status),
		"remaining":           domain.FormatRemaining(st.Remaining),
		"progress":            st.Progress,
		"completed_today":     st.CurrentSessionIdx,
		"daily_goal":          st.DailyGoal,
		"daily_goal_reached":  st.GoalReached,
		"sessions_in_history": len(st.History),
	}
}

func textResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleGetState handles the get_state tool.
func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(stateJSON(s.controller.Status(ctx)))
}

// commandHandler returns the handler for one engine command.
func (s *Server) commandHandler(cmd ports.TimerCommand) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		applied, err := s.controller.Execute(ctx, cmd)
		result := stateJSON(s.controller.Status(ctx))
		result["applied"] = applied
		if err != nil {
			result["warning"] = err.Error()
		}
		if !applied {
			result["message"] = fmt.Sprintf("%s has no effect while %s", cmd, result["status"])
		}
		return textResult(result)
	}
}

// handleGetStats handles the get_stats tool.
func (s *Server) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.stats.Report(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build stats: %v", err)), nil
	}
	return textResult(report)
}

// handleGetHistory handles the get_history tool.
func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := request.GetInt("days", 7)
	if days <= 0 {
		return mcp.NewToolResultError("days must be positive"), nil
	}

	since := domain.StartOfDay(s.clock.Now()).AddDate(0, 0, -(days - 1))
	records, err := s.stats.History(ctx, since)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load history: %v", err)), nil
	}

	out := make([]map[string]interface{}, 0, len(records))
	for _, r := range records {
		out = append(out, map[string]interface{}{
			"duration_minutes": r.Duration,
			"finished_at":      domain.FormatDateTime(r.FinishedAt),
		})
	}
	return textResult(map[string]interface{}{
		"since":    since.Format(domain.DateLayout),
		"sessions": out,
	})
}
