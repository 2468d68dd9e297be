// Package httpapi provides the REST API over the project service.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ganot/sheetd/internal/domain/project"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ProjectService defines the project operations the REST API exposes.
type ProjectService interface {
	List(ctx context.Context) ([]project.Summary, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Update(ctx context.Context, id string, req project.UpdateRequest) (*project.Project, error)
	Save(ctx context.Context, id string, req project.UpdateRequest) (*project.Project, error)
	Delete(ctx context.Context, id string) error
}

// Server provides HTTP endpoints for sheetd.
type Server struct {
	echo     *echo.Echo
	projects ProjectService
	logger   *slog.Logger
	config   *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates a new HTTP server.
func NewServer(projects ProjectService, logger *slog.Logger, cfg *Config) (*Server, error) {
	if projects == nil {
		return nil, fmt.Errorf("project service cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg == nil {
		cfg = &Config{
			Host: "0.0.0.0",
			Port: 3000,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", c.Response().Status,
				"duration", duration,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)

			return err
		}
	})

	s := &Server{
		echo:     e,
		projects: projects,
		logger:   logger,
		config:   cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	api := s.echo.Group("/api")
	api.GET("/projects", s.handleList)
	api.POST("/projects", s.handleCreate)
	api.GET("/projects/:id", s.handleGet)
	api.PUT("/projects/:id", s.handleUpdate)
	api.DELETE("/projects/:id", s.handleDelete)
	api.POST("/projects/:id/save", s.handleSave)
}

// CreateProjectRequest is the request body for POST /api/projects.
type CreateProjectRequest struct {
	Name    string          `json:"name"`
	Details string          `json:"details"`
	Records json.RawMessage `json:"records"`
}

// UpdateProjectRequest is the request body for PUT /api/projects/:id.
// Absent fields leave the stored value untouched.
type UpdateProjectRequest struct {
	Name    *string         `json:"name"`
	Details *string         `json:"details"`
	Records json.RawMessage `json:"records"`
}

// SaveProjectRequest is the request body for POST /api/projects/:id/save.
type SaveProjectRequest struct {
	ProjectData UpdateProjectRequest `json:"projectData"`
}

// MessageResponse is a confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body for every failure status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleList(c echo.Context) error {
	summaries, err := s.projects.List(c.Request().Context())
	if err != nil {
		return s.writeError(c, err)
	}
	if summaries == nil {
		summaries = []project.Summary{}
	}
	return c.JSON(http.StatusOK, summaries)
}

func (s *Server) handleGet(c echo.Context) error {
	proj, err := s.projects.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, proj)
}

func (s *Server) handleCreate(c echo.Context) error {
	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid create request", "error", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	proj, err := s.projects.Create(c.Request().Context(), project.CreateRequest{
		Name:    req.Name,
		Details: req.Details,
		Records: req.Records,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, proj)
}

func (s *Server) handleUpdate(c echo.Context) error {
	var req UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid update request", "error", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	proj, err := s.projects.Update(c.Request().Context(), c.Param("id"), project.UpdateRequest{
		Name:    req.Name,
		Details: req.Details,
		Records: req.Records,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, proj)
}

func (s *Server) handleDelete(c echo.Context) error {
	if err := s.projects.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "project deleted"})
}

func (s *Server) handleSave(c echo.Context) error {
	var req SaveProjectRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid save request", "error", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	proj, err := s.projects.Save(c.Request().Context(), c.Param("id"), project.UpdateRequest{
		Name:    req.ProjectData.Name,
		Details: req.ProjectData.Details,
		Records: req.ProjectData.Records,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, proj)
}

// writeError converts service failures into structured responses. No
// failure escapes the handler boundary.
func (s *Server) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, project.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
	case errors.Is(err, project.ErrProjectNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "project not found"})
	default:
		s.logger.Error("request failed", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

// ServeHTTP makes the server mountable in tests and other muxes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
