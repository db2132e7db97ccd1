package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joescharf/pomo/internal/models"
	"github.com/joescharf/pomo/internal/stats"
	"github.com/joescharf/pomo/internal/store"
)

const (
	defaultRecent = 10
	maxRecent     = 500
)

// Server exposes the session log as read-only MCP tools.
type Server struct {
	store     store.Store
	dailyGoal int
	version   string
	now       func() time.Time
}

// NewServer creates the MCP server wrapper.
func NewServer(s store.Store, dailyGoal int, version string) *Server {
	return &Server{
		store:     s,
		dailyGoal: dailyGoal,
		version:   version,
		now:       time.Now,
	}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("pomo", s.version, server.WithToolCapabilities(true))

	srv.AddTool(s.statsTool())
	srv.AddTool(s.recentSessionsTool())
	srv.AddTool(s.heatmapTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

type statsOut struct {
	FocusSessions         int     `json:"focus_sessions"`
	CompletedSessions     int     `json:"completed_sessions"`
	TotalFocusSeconds     int     `json:"total_focus_seconds"`
	CompletedFocusSeconds int     `json:"completed_focus_seconds"`
	CompletionRate        float64 `json:"completion_rate"`
	CurrentStreak         int     `json:"current_streak"`
	BestStreak            int     `json:"best_streak"`
	BestDay               string  `json:"best_day,omitempty"`
	BestDaySeconds        int     `json:"best_day_seconds"`
	WeekFocusSeconds      int     `json:"week_focus_seconds"`
	WeekSessions          int     `json:"week_sessions"`
	TodayCompleted        int     `json:"today_completed"`
	TodayFocusSeconds     int     `json:"today_focus_seconds"`
	DailyGoal             int     `json:"daily_goal"`
	GoalMet               bool    `json:"goal_met"`
	FirstSession          string  `json:"first_session,omitempty"`
	Hourly                [24]int `json:"hourly"`
}

// pomo_stats
func (s *Server) statsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("pomo_stats",
		mcp.WithDescription("Focus statistics: totals, completion rate, current and best streak, this week, today against the daily goal, and completed focus sessions by hour of day."),
	)
	return tool, s.handleStats
}

func (s *Server) handleStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read session log: %v", err)), nil
	}

	sum := stats.Summarize(records, s.now(), s.dailyGoal)
	out := statsOut{
		FocusSessions:         sum.FocusSessions,
		CompletedSessions:     sum.CompletedSessions,
		TotalFocusSeconds:     sum.TotalFocusSeconds,
		CompletedFocusSeconds: sum.CompletedFocusSeconds,
		CompletionRate:        sum.CompletionRate,
		CurrentStreak:         sum.Streaks.Current,
		BestStreak:            sum.Streaks.Best,
		BestDaySeconds:        sum.BestDaySeconds,
		WeekFocusSeconds:      sum.WeekFocusSeconds,
		WeekSessions:          sum.WeekSessions,
		TodayCompleted:        sum.TodayCompleted,
		TodayFocusSeconds:     sum.TodayFocusSeconds,
		DailyGoal:             sum.DailyGoal,
		GoalMet:               sum.GoalMet(),
		Hourly:                sum.Hourly,
	}
	if !sum.BestDay.IsZero() {
		out.BestDay = sum.BestDay.Format(time.DateOnly)
	}
	if !sum.FirstSession.IsZero() {
		out.FirstSession = sum.FirstSession.Format(time.RFC3339)
	}
	return jsonResult(out)
}

// pomo_recent_sessions
func (s *Server) recentSessionsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("pomo_recent_sessions",
		mcp.WithDescription("The most recent sessions in log order, most recent last. Each has id, kind (focus, short_break, long_break), planned and actual seconds, completed, label, and started_at."),
		mcp.WithNumber("limit", mcp.Description("Number of sessions to return (default 10)")),
		mcp.WithString("kind", mcp.Description("Only return sessions of this kind"), mcp.Enum(string(models.KindFocus), string(models.KindShortBreak), string(models.KindLongBreak))),
	)
	return tool, s.handleRecentSessions
}

func (s *Server) handleRecentSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", defaultRecent)
	if limit <= 0 || limit > maxRecent {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be between 1 and %d", maxRecent)), nil
	}
	kind := models.Kind(request.GetString("kind", ""))
	if kind != "" && !kind.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("invalid kind: %s", kind)), nil
	}

	records, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read session log: %v", err)), nil
	}
	if kind != "" {
		filtered := records[:0:0]
		for _, r := range records {
			if r.Kind == kind {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	out := stats.Recent(records, limit)
	if out == nil {
		out = []*models.Session{}
	}
	return jsonResult(out)
}

type dayOut struct {
	Date         string `json:"date"`
	Completed    int    `json:"completed"`
	FocusSeconds int    `json:"focus_seconds"`
}

// pomo_heatmap
func (s *Server) heatmapTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("pomo_heatmap",
		mcp.WithDescription("Per-day completed focus sessions and focus seconds for the trailing window ending today, oldest first."),
		mcp.WithNumber("days", mcp.Description("Window length in days (default 7)")),
	)
	return tool, s.handleHeatmap
}

func (s *Server) handleHeatmap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := request.GetInt("days", stats.WeekDays)
	if days <= 0 || days > stats.MaxHeatDays {
		return mcp.NewToolResultError(fmt.Sprintf("days must be between 1 and %d", stats.MaxHeatDays)), nil
	}

	records, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read session log: %v", err)), nil
	}

	cells := stats.Heatmap(records, s.now(), days)
	out := make([]dayOut, len(cells))
	for i, c := range cells {
		out[i] = dayOut{
			Date:         c.Date.Format(time.DateOnly),
			Completed:    c.Completed,
			FocusSeconds: c.FocusSeconds,
		}
	}
	return jsonResult(out)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
