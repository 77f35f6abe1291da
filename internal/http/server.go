// Package http serves the creatived REST API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/creatived/internal/campaign"
	"github.com/fyrsmithlabs/creatived/internal/logging"
	"github.com/fyrsmithlabs/creatived/internal/store"
)

// Service is the campaign service the handlers call.
type Service interface {
	AnalyzeDocument(ctx context.Context, req campaign.Request) (*campaign.Result, error)
	Latest(ctx context.Context, documentID string) (*store.StoredAnalysis, error)
	Summaries(ctx context.Context) ([]store.CampaignSummary, error)
	Status(ctx context.Context) (*campaign.StatusReport, error)
	InitSchema(ctx context.Context) error
}

// Server is the HTTP API.
type Server struct {
	echo    *echo.Echo
	service Service
	logger  *logging.Logger
	config  *Config
}

// Config configures the listener.
type Config struct {
	Host      string
	Port      int
	BodyLimit string // e.g. "8M"
}

// NewServer builds the API around service.
func NewServer(service Service, logger *logging.Logger, cfg *Config) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 9090}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}
	e.Use(requestLogger(logger))
	e.Use(NewHTTPMetrics(logger).MetricsMiddleware())

	s := &Server{
		echo:    e,
		service: service,
		logger:  logger,
		config:  cfg,
	}
	s.registerRoutes()
	return s, nil
}

// requestLogger puts the request ID on the context and logs each request.
func requestLogger(logger *logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			ctx := logging.WithRequestID(req.Context(), c.Response().Header().Get(echo.HeaderXRequestID))
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Info(ctx, "http request",
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		}
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")
	api.GET("/health", s.handleStatus)
	api.POST("/health", s.handleMaintenance)

	v1 := api.Group("/v1")
	v1.POST("/analyses", s.handleAnalyze)
	v1.GET("/documents/:id/analysis", s.handleLatest)
	v1.GET("/campaigns", s.handleCampaigns)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleStatus(c echo.Context) error {
	report, err := s.service.Status(c.Request().Context())
	if err != nil {
		s.logger.Error(c.Request().Context(), "status check failed", zap.Error(err))
		if report == nil {
			report = &campaign.StatusReport{Status: campaign.StatusUnhealthy, Error: err.Error()}
		}
		return c.JSON(http.StatusInternalServerError, report)
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleMaintenance(c echo.Context) error {
	ctx := c.Request().Context()
	if err := s.service.InitSchema(ctx); err != nil {
		s.logger.Error(ctx, "schema initialization failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, MaintenanceResponse{
			Status: campaign.StatusUnhealthy,
			Error:  err.Error(),
		})
	}
	return c.JSON(http.StatusOK, MaintenanceResponse{
		Status:  campaign.StatusHealthy,
		Message: "schema initialized",
	})
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(c.Request().Context(), "invalid analyze request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	res, err := s.service.AnalyzeDocument(c.Request().Context(), campaign.Request(req))
	if err != nil {
		return s.toHTTPError(c, err)
	}

	status := http.StatusCreated
	if res.Skipped {
		status = http.StatusOK
	}
	return c.JSON(status, res)
}

func (s *Server) handleLatest(c echo.Context) error {
	stored, err := s.service.Latest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, stored)
}

func (s *Server) handleCampaigns(c echo.Context) error {
	summaries, err := s.service.Summaries(c.Request().Context())
	if err != nil {
		return s.toHTTPError(c, err)
	}
	if summaries == nil {
		summaries = []store.CampaignSummary{}
	}
	return c.JSON(http.StatusOK, CampaignsResponse{Campaigns: summaries})
}

// toHTTPError maps service errors to status codes. Internal details are
// logged, not returned.
func (s *Server) toHTTPError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, campaign.ErrInvalidRequest):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "analysis not found")
	default:
		s.logger.Error(c.Request().Context(), "request failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on the configured address. It returns http.ErrServerClosed
// after Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}
