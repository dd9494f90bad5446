// Package api provides the HTTP API for the CineSphere server.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cinesphere/cinesphere-server/internal/ratelimit"
	"github.com/cinesphere/cinesphere-server/internal/store"
)

// Config holds the HTTP-facing settings.
type Config struct {
	AllowedOrigins []string
	// LoginPerMinute caps login attempts per client address.
	LoginPerMinute int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        store.Store
	services     *Services
	router       chi.Router
	api          huma.API
	loginLimiter *ratelimit.KeyedRateLimiter
	logger       *slog.Logger
}

// NewServer creates the HTTP handler with all routes registered.
func NewServer(st store.Store, services *Services, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.LoginPerMinute <= 0 {
		cfg.LoginPerMinute = 10
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(corsOptions(cfg.AllowedOrigins)))
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig("CineSphere API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler(logger)

	s := &Server{
		store:        st,
		services:     services,
		router:       router,
		api:          api,
		loginLimiter: ratelimit.New(ratelimit.PerMinute(cfg.LoginPerMinute), cfg.LoginPerMinute, 0),
		logger:       logger,
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerWatchListRoutes()
	s.registerStatsRoutes()
	s.registerCatalogRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for OpenAPI export and tests.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.loginLimiter.Stop()
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           int((5 * time.Minute).Seconds()),
	}
}
