// Package api contains the HTTP handlers for the intake service
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jayanta8509/TAX-MCP/internal/repository"
	"github.com/jayanta8509/TAX-MCP/internal/services"
	"github.com/jayanta8509/TAX-MCP/internal/validate"
	"github.com/jayanta8509/TAX-MCP/internal/workflow"
	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

// Server holds the dependencies for the API server.
type Server struct {
	Engine    *workflow.Engine
	Assistant *services.Assistant
	Records   repository.RecordStore
}

// NewServer creates a new Server.
func NewServer(engine *workflow.Engine, assistant *services.Assistant, records repository.RecordStore) *Server {
	return &Server{Engine: engine, Assistant: assistant, Records: records}
}

// RegisterRoutes mounts every REST route on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.HandleHealth)
	e.POST("/chat", s.HandleChat)
	e.POST("/workflow/start", s.HandleStart)
	e.POST("/workflow/next", s.HandleNext)
	e.GET("/workflow/status/:user_id", s.HandleStatus)
	e.POST("/welcome/message", s.HandleWelcome)
	e.GET("/client/:reference/:client_id/profile", s.HandleProfile)
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// HandleHealth returns basic health status (always returns 200 OK)
func (s *Server) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Service:   "tax-intake-mcp",
		Version:   "1.0.0",
	})
}

// HandleChat drives the conversational workflow from a free-text message.
// (POST /chat)
func (s *Server) HandleChat(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	reply, err := s.Assistant.Chat(ctx, req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, reply)
}

// StartRequest is the body for POST /workflow/start.
type StartRequest struct {
	UserID    string `json:"user_id"`
	ClientID  int64  `json:"client_id"`
	Reference string `json:"reference"`
	Resume    *bool  `json:"resume,omitempty"`
}

// HandleStart begins or resumes a workflow session.
// (POST /workflow/start)
func (s *Server) HandleStart(c echo.Context) error {
	ctx := c.Request().Context()

	var req StartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	resume := true
	if req.Resume != nil {
		resume = *req.Resume
	}

	res, err := s.Engine.Start(ctx, req.UserID, req.ClientID, models.Reference(req.Reference), resume)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// NextRequest is the body for POST /workflow/next.
type NextRequest struct {
	UserID    string `json:"user_id"`
	Confirmed bool   `json:"confirmed"`
	NewValue  string `json:"new_value,omitempty"`
}

// HandleNext resolves the current question and advances the session.
// (POST /workflow/next)
func (s *Server) HandleNext(c echo.Context) error {
	ctx := c.Request().Context()

	var req NextRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	res, err := s.Engine.Next(ctx, req.UserID, req.Confirmed, req.NewValue)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// HandleStatus returns a read-only session snapshot.
// (GET /workflow/status/:user_id)
func (s *Server) HandleStatus(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := s.Engine.Status(ctx, c.Param("user_id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// WelcomeRequest is the body for POST /welcome/message.
type WelcomeRequest struct {
	ClientID  int64  `json:"client_id"`
	Reference string `json:"reference"`
}

// HandleWelcome returns the personalized greeting for a client.
// (POST /welcome/message)
func (s *Server) HandleWelcome(c echo.Context) error {
	ctx := c.Request().Context()

	var req WelcomeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	reference, err := models.ParseReference(req.Reference)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := s.Assistant.WelcomeMessage(ctx, req.ClientID, reference)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": msg})
}

// HandleProfile returns the basic identity profile for a client.
// (GET /client/:reference/:client_id/profile)
func (s *Server) HandleProfile(c echo.Context) error {
	ctx := c.Request().Context()

	reference, err := models.ParseReference(c.Param("reference"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	clientID, err := strconv.ParseInt(c.Param("client_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid client id: "+c.Param("client_id"))
	}

	profile, err := s.Records.GetBasicProfile(ctx, clientID, reference)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// mapError translates the engine's error taxonomy onto HTTP status codes.
func mapError(err error) *echo.HTTPError {
	var verr *validate.ValidationError
	switch {
	case errors.Is(err, workflow.ErrInvalidInput),
		errors.Is(err, workflow.ErrMissingNewValue),
		errors.Is(err, validate.ErrAmbiguous),
		errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, workflow.ErrNoActiveSession),
		errors.Is(err, repository.ErrClientNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, workflow.ErrExternalUpdate):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	case errors.Is(err, workflow.ErrStore):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
