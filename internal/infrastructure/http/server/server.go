// Package server provides the operations HTTP server: health probes and
// Prometheus metrics on a port separate from the API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sousa/mealplan/internal/infrastructure/config"
	"github.com/sousa/mealplan/internal/infrastructure/http/middleware"
	"github.com/sousa/mealplan/internal/infrastructure/monitoring"
	"github.com/sousa/mealplan/pkg/healthcheck"
	"go.uber.org/zap"
)

// OpsServer serves /health, /live, /ready and /metrics
type OpsServer struct {
	logger *zap.Logger
	engine *gin.Engine
	server *http.Server
}

// NewOpsServer creates the operations server. metrics may be nil, in which
// case /metrics is not mounted.
func NewOpsServer(cfg *config.Config, logger *zap.Logger, health *healthcheck.HealthCheck, metrics *monitoring.MetricsCollector) *OpsServer {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.GinRequestID(), middleware.GinRecovery(logger), middleware.GinLogger(logger))
	if metrics != nil {
		engine.Use(metrics.GinMiddleware())
	}

	engine.GET("/health", health.Handler())
	engine.GET("/live", health.LivenessHandler())
	engine.GET("/ready", health.ReadinessHandler())
	if metrics != nil {
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	s := &OpsServer{
		logger: logger.Named("ops-server"),
		engine: engine,
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Monitoring.MetricsPort),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return s
}

// Handler exposes the engine for in-process tests
func (s *OpsServer) Handler() http.Handler {
	return s.engine
}

// Start listens on the metrics port and blocks until the server stops
func (s *OpsServer) Start() error {
	s.logger.Info("Starting operations server", zap.String("address", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Serve accepts connections on an existing listener
func (s *OpsServer) Serve(ln net.Listener) error {
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server
func (s *OpsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down operations server")
	return s.server.Shutdown(ctx)
}
