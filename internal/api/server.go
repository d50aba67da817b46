// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

// Package api serves the HTTP intake and query surface over Echo.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/lookout-io/lookout/internal/api/health"
	"github.com/lookout-io/lookout/internal/api/job"
	"github.com/lookout-io/lookout/internal/config"
)

// Server wraps the Echo server and its wired handlers.
type Server struct {
	Echo *echo.Echo

	logger         *slog.Logger
	appConfig      config.Config
	jobHandler     *job.Job
	healthHandler  *health.Health
	metricsHandler http.Handler
	metricsPath    string
}

// Option configures the server.
type Option func(*Server)

// WithJobHandler wires the job intake and query handler.
func WithJobHandler(
	handler *job.Job,
) Option {
	return func(s *Server) {
		s.jobHandler = handler
	}
}

// WithHealthHandler wires the health probe handler.
func WithHealthHandler(
	handler *health.Health,
) Option {
	return func(s *Server) {
		s.healthHandler = handler
	}
}

// WithMetrics exposes a metrics scrape endpoint.
func WithMetrics(
	handler http.Handler,
	path string,
) Option {
	return func(s *Server) {
		s.metricsHandler = handler
		s.metricsPath = path
	}
}

// New initialize a new Server and configure an Echo server.
func New(
	appConfig config.Config,
	logger *slog.Logger,
	opts ...Option,
) *Server {
	e := echo.New()
	e.HideBanner = true

	corsConfig := middleware.CORSConfig{}

	allowOrigins := appConfig.API.Security.CORS.AllowOrigins
	if len(allowOrigins) > 0 {
		corsConfig.AllowOrigins = allowOrigins
	}

	e.Use(otelecho.Middleware("lookout-api"))
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(corsConfig))

	s := &Server{
		Echo:      e,
		logger:    logger,
		appConfig: appConfig,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerRoutes()

	return s
}

// registerRoutes wires the HTTP surface. The job routes sit behind the
// per-route and global limiters; health probes and the scrape endpoint are
// never throttled.
func (s *Server) registerRoutes() {
	if s.jobHandler != nil {
		limiters := []echo.MiddlewareFunc{
			globalRateLimiter(s.appConfig.RateLimit.Global),
			perRouteRateLimiter(s.appConfig.RateLimit.PerRoute),
		}

		s.Echo.POST("/jobs", s.jobHandler.Create, limiters...)
		s.Echo.GET("/jobs/:id", s.jobHandler.Get, limiters...)
	}

	if s.healthHandler != nil {
		s.Echo.GET("/health/live", s.healthHandler.Live)
		s.Echo.GET("/health/ready", s.healthHandler.Ready)
	}

	if s.metricsHandler != nil {
		s.Echo.GET(s.metricsPath, echo.WrapHandler(s.metricsHandler))
	}
}

// Start starts the Echo server with the configured port.
func (s *Server) Start() {
	go func() {
		s.logger.Info("starting server")
		listenAddr := fmt.Sprintf(":%d", s.appConfig.API.Port)
		if err := s.Echo.Start(listenAddr); err != nil && err != http.ErrServerClosed {
			s.logger.Error(
				"failed to start server",
				slog.String("error", err.Error()),
			)
		}
	}()
}

// Stop gracefully shuts down the Echo server.
func (s *Server) Stop(
	ctx context.Context,
) {
	s.logger.Info("stopping server")

	if err := s.Echo.Shutdown(ctx); err != nil {
		s.logger.Error(
			"server shutdown failed",
			slog.String("error", err.Error()),
		)
	} else {
		s.logger.Info("server stopped gracefully")
	}
}
