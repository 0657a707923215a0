// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sousa/mealplan/internal/infrastructure/config"
	"github.com/sousa/mealplan/internal/infrastructure/http/handlers"
	"github.com/sousa/mealplan/internal/infrastructure/http/middleware"
	"github.com/sousa/mealplan/internal/infrastructure/http/response"
	"github.com/sousa/mealplan/internal/infrastructure/monitoring"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Server is the JSON API server
type Server struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	router   *chi.Mux
	handlers *handlers.APIHandlers
	verifier middleware.TokenVerifier
	limiter  middleware.Limiter
	metrics  *monitoring.MetricsCollector
	docs     *OpenAPIHandler
}

// NewServer builds the router and the underlying http.Server. limiter and
// metrics may be nil.
func NewServer(
	cfg *config.Config,
	log *zap.Logger,
	h *handlers.APIHandlers,
	verifier middleware.TokenVerifier,
	limiter middleware.Limiter,
	metrics *monitoring.MetricsCollector,
) *Server {
	s := &Server{
		config:   cfg,
		logger:   log.Named("api-server"),
		handlers: h,
		verifier: verifier,
		limiter:  limiter,
		metrics:  metrics,
		docs:     NewOpenAPIHandler(log),
	}
	s.router = s.setupRoutes()

	var handler http.Handler = s.router
	handler = otelhttp.NewHandler(handler, "api",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	if cfg.Server.EnableH2C {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	s.server = &http.Server{
		Addr:           cfg.Addr(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}
	return s
}

func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.Recoverer(s.logger))
	r.Use(middleware.Security())
	r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	if s.config.Server.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
	}
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.JSONOnly())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusNotFound, response.Envelope{Success: false, Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusMethodNotAllowed, response.Envelope{Success: false, Message: "method not allowed"})
	})

	r.Get("/health", s.handleHealth)

	r.Get("/api/v1/openapi.yaml", s.docs.ServeYAML)
	r.Get("/api/v1/openapi.json", s.docs.ServeJSON)
	r.Get("/api/v1/docs", s.docs.ServeSwaggerUI)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(s.verifier, s.logger))
			if s.limiter != nil {
				r.Use(middleware.RateLimit(s.limiter))
			}
			s.handlers.Routes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuthenticate(s.verifier, s.logger))
			if s.limiter != nil {
				r.Use(middleware.RateLimit(s.limiter))
			}
			s.handlers.AssistantRoutes(r)
		})
	})

	return r
}

// Handler exposes the router for in-process tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens on the configured address and blocks until the server stops
func (s *Server) Start() error {
	s.logger.Info("Starting API server",
		zap.String("address", s.server.Addr),
		zap.Bool("h2c", s.config.Server.EnableH2C),
	)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Serve accepts connections on an existing listener
func (s *Server) Serve(ln net.Listener) error {
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": s.config.App.Name,
		"version": s.config.App.Version,
	})
}
