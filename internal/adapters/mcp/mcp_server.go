// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/breathe-cli/internal/domain"
	"github.com/xvierd/breathe-cli/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server   *server.MCPServer
	patterns ports.PatternProvider
}

// NewServer creates a new MCP server instance.
func NewServer(patterns ports.PatternProvider, version string) *Server {
	s := &Server{
		patterns: patterns,
	}

	s.server = server.NewMCPServer(
		"breathe",
		version,
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	// Tool: list_patterns
	s.server.AddTool(
		mcp.NewTool(
			"list_patterns",
			mcp.WithDescription("List the available breathing patterns with their phase durations and default length"),
		),
		s.handleListPatterns,
	)

	// Tool: get_pattern
	getPatternTool := mcp.NewTool(
		"get_pattern",
		mcp.WithDescription("Get a single breathing pattern by id"),
		mcp.WithString(
			"pattern_id",
			mcp.Required(),
			mcp.Description("The pattern id, e.g. grounding, calm, focus or sleep"),
		),
	)
	s.server.AddTool(getPatternTool, s.handleGetPattern)

	// Tool: plan_session
	planTool := mcp.NewTool(
		"plan_session",
		mcp.WithDescription("Plan a breathing session: the full phase timeline and how it ends"),
		mcp.WithString(
			"pattern_id",
			mcp.Required(),
			mcp.Description("The pattern id to plan"),
		),
		mcp.WithNumber(
			"duration_seconds",
			mcp.Description("Session length in seconds for duration-based patterns (default: pattern default)"),
		),
		mcp.WithNumber(
			"cycles",
			mcp.Description("Cycle limit for cycle-based patterns (default: pattern default)"),
		),
	)
	s.server.AddTool(planTool, s.handlePlanSession)
}

// Start serves MCP requests via stdio until ctx is cancelled or stdin closes.
func (s *Server) Start(ctx context.Context) error {
	return s.serve(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	err := server.NewStdioServer(s.server).Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func patternData(p domain.Pattern) map[string]interface{} {
	data := map[string]interface{}{
		"id":         p.ID,
		"title":      p.Title,
		"label":      p.Label,
		"inhale":     p.Inhale,
		"hold":       p.Hold,
		"exhale":     p.Exhale,
		"hold_empty": p.HoldEmpty,
		"rhythm":     p.Rhythm(),
		"cycle":      p.CycleSeconds(),
	}
	if p.UsesCycles() {
		data["default_cycles"] = p.DefaultCycles
	} else {
		data["default_duration_seconds"] = p.DefaultDuration
	}
	return data
}

// handleListPatterns handles the list_patterns tool.
func (s *Server) handleListPatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var list []map[string]interface{}
	for _, p := range s.patterns.Patterns() {
		list = append(list, patternData(p))
	}

	jsonData, err := json.MarshalIndent(map[string]interface{}{
		"patterns": list,
		"count":    len(list),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patterns: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleGetPattern handles the get_pattern tool.
func (s *Server) handleGetPattern(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("pattern_id")
	if err != nil {
		return mcp.NewToolResultError("pattern_id is required: " + err.Error()), nil
	}

	p, err := s.patterns.Lookup(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	jsonData, err := json.MarshalIndent(patternData(p), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pattern: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// maxArg keeps numeric arguments well inside int range.
const maxArg = math.MaxInt32

// intArg reads an optional positive whole number that may arrive as a JSON
// number or a string. A missing argument reads as 0.
func intArg(request mcp.CallToolRequest, key string) (int, error) {
	if v, ok := request.GetArguments()[key]; !ok || v == nil {
		return 0, nil
	}
	v, err := request.RequireFloat(key)
	if err != nil {
		return 0, err
	}
	if v <= 0 || v != math.Trunc(v) || v > maxArg {
		return 0, fmt.Errorf("%s must be a positive whole number, got %v", key, v)
	}
	return int(v), nil
}

// handlePlanSession handles the plan_session tool.
func (s *Server) handlePlanSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("pattern_id")
	if err != nil {
		return mcp.NewToolResultError("pattern_id is required: " + err.Error()), nil
	}

	duration, err := intArg(request, "duration_seconds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cycles, err := intArg(request, "cycles")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	p, err := s.patterns.Lookup(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if p.UsesCycles() && duration > 0 {
		return mcp.NewToolResultError(fmt.Sprintf("%s stops after a number of cycles; use cycles", p.ID)), nil
	}
	if !p.UsesCycles() && cycles > 0 {
		return mcp.NewToolResultError(fmt.Sprintf("%s stops after a duration; use duration_seconds", p.ID)), nil
	}

	tl, err := s.patterns.Plan(ctx, id, duration, cycles)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownPattern) || errors.Is(err, domain.ErrInvalidStopRule) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("failed to plan session: %w", err)
	}

	var phases []map[string]interface{}
	for i, tr := range tl.Transitions {
		phases = append(phases, map[string]interface{}{
			"at_seconds":    tr.At.Seconds(),
			"phase":         string(tr.Phase),
			"label":         tr.Phase.Label(),
			"cycle":         tr.Cycle,
			"dwell_seconds": tl.Dwell(i).Seconds(),
		})
	}

	result := map[string]interface{}{
		"pattern_id":      tl.Summary.PatternID,
		"reason":          string(tl.Summary.Reason),
		"cycles":          tl.Summary.Cycles,
		"elapsed_seconds": tl.Summary.Elapsed.Seconds(),
		"transitions":     phases,
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}
