// Package mcp exposes the intake workflow as MCP tools over SSE.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jayanta8509/TAX-MCP/internal/repository"
	"github.com/jayanta8509/TAX-MCP/internal/services"
	"github.com/jayanta8509/TAX-MCP/internal/workflow"
	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

type Server struct {
	mcpServer *server.MCPServer
	engine    *workflow.Engine
	assistant *services.Assistant
	records   repository.RecordStore
}

func NewServer(engine *workflow.Engine, assistant *services.Assistant, records repository.RecordStore) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Tax Intake",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		engine:    engine,
		assistant: assistant,
		records:   records,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"workflow_start",
			mcp.WithDescription("Start or resume the tax intake questionnaire for a user"),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("Conversation user id")),
			mcp.WithNumber("client_id", mcp.Required(), mcp.Description("Client record id")),
			mcp.WithString("reference", mcp.Required(), mcp.Description("Client type: individual or company")),
			mcp.WithBoolean("resume", mcp.Description("Resume a stored session if one exists (default true)")),
		),
		s.handleStart,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"workflow_next",
			mcp.WithDescription("Confirm or correct the current question and advance"),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("Conversation user id")),
			mcp.WithBoolean("confirmed", mcp.Required(), mcp.Description("True to accept the prefetched value")),
			mcp.WithString("new_value", mcp.Description("Replacement value when confirmed is false")),
		),
		s.handleNext,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"workflow_status",
			mcp.WithDescription("Read-only progress snapshot for a user's session"),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("Conversation user id")),
		),
		s.handleStatus,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_client_basic_profile",
			mcp.WithDescription("Fetch the basic identity profile for a client"),
			mcp.WithNumber("client_id", mcp.Required(), mcp.Description("Client record id")),
			mcp.WithString("reference", mcp.Required(), mcp.Description("Client type: individual or company")),
		),
		s.handleBasicProfile,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_welcome_message",
			mcp.WithDescription("Personalized greeting for a client"),
			mcp.WithNumber("client_id", mcp.Required(), mcp.Description("Client record id")),
			mcp.WithString("reference", mcp.Required(), mcp.Description("Client type: individual or company")),
		),
		s.handleWelcome,
	)
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	userID, ok := args["user_id"].(string)
	if !ok || userID == "" {
		return mcp.NewToolResultError("Missing required parameter: user_id"), nil
	}
	clientID, ok := args["client_id"].(float64)
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: client_id"), nil
	}
	reference, ok := args["reference"].(string)
	if !ok || reference == "" {
		return mcp.NewToolResultError("Missing required parameter: reference"), nil
	}
	resume := true
	if v, ok := args["resume"].(bool); ok {
		resume = v
	}

	res, err := s.engine.Start(ctx, userID, int64(clientID), models.Reference(reference), resume)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to start workflow: %v", err)), nil
	}
	return toolResultJSON(res)
}

func (s *Server) handleNext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	userID, ok := args["user_id"].(string)
	if !ok || userID == "" {
		return mcp.NewToolResultError("Missing required parameter: user_id"), nil
	}
	confirmed, ok := args["confirmed"].(bool)
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: confirmed"), nil
	}
	newValue, _ := args["new_value"].(string)

	res, err := s.engine.Next(ctx, userID, confirmed, newValue)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to advance workflow: %v", err)), nil
	}
	return toolResultJSON(res)
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	userID, ok := args["user_id"].(string)
	if !ok || userID == "" {
		return mcp.NewToolResultError("Missing required parameter: user_id"), nil
	}

	res, err := s.engine.Status(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read workflow status: %v", err)), nil
	}
	return toolResultJSON(res)
}

func (s *Server) handleBasicProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	clientID, ok := args["client_id"].(float64)
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: client_id"), nil
	}
	reference, ok := args["reference"].(string)
	if !ok || reference == "" {
		return mcp.NewToolResultError("Missing required parameter: reference"), nil
	}
	ref, err := models.ParseReference(reference)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	profile, err := s.records.GetBasicProfile(ctx, int64(clientID), ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch profile: %v", err)), nil
	}
	return toolResultJSON(profile)
}

func (s *Server) handleWelcome(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	clientID, ok := args["client_id"].(float64)
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: client_id"), nil
	}
	reference, ok := args["reference"].(string)
	if !ok || reference == "" {
		return mcp.NewToolResultError("Missing required parameter: reference"), nil
	}
	ref, err := models.ParseReference(reference)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg, err := s.assistant.WelcomeMessage(ctx, int64(clientID), ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to build welcome message: %v", err)), nil
	}
	return toolResultJSON(map[string]string{"message": msg})
}

func toolResultJSON(v interface{}) (*mcp.CallToolResult, error) {
	jsonBytes, _ := json.Marshal(v)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// MountHTTPHandlers wires the MCP server onto a mux: direct POST on /mcp,
// SSE on /mcp/sse and /mcp/message.
func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
