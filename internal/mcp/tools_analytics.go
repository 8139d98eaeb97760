package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerAnalyticsTools() {
	s.mcp.AddTool(mcp.NewTool("analytics_stats",
		mcp.WithDescription("Count recorded page views and clicks"),
	), s.handleAnalyticsStats)

	s.mcp.AddTool(mcp.NewTool("recent_events",
		mcp.WithDescription("List the most recent analytics events, newest first"),
		mcp.WithNumber("limit", mcp.Description("Maximum number of events (default 100)")),
	), s.handleRecentEvents)
}

func (s *Server) handleAnalyticsStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.analytics.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics stats: %w", err)
	}
	return jsonResult(stats)
}

func (s *Server) handleRecentEvents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	events, err := s.analytics.RecentEvents(ctx, req.GetInt("limit", 0))
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	return jsonResult(events)
}
