// Package api exposes the WishKeeper HTTP API.
package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wishkeeperapp/wishkeeper-server/internal/config"
	"github.com/wishkeeperapp/wishkeeper-server/internal/logger"
	"github.com/wishkeeperapp/wishkeeper-server/internal/store"
)

// Server hosts the HTTP API.
type Server struct {
	store           *store.Store
	services        *Services
	router          *chi.Mux
	api             huma.API
	logger          *logger.Logger
	authRateLimiter *RateLimiter
}

// NewServer creates the API server with all routes registered.
func NewServer(cfg *config.Config, st *store.Store, services *Services, log *logger.Logger) *Server {
	s := &Server{
		store:    st,
		services: services,
		logger:   log,
		// Auth endpoints are a brute-force target, so they get a tighter budget.
		authRateLimiter: NewRateLimiter(20, time.Minute, 10),
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Resolve Bearer tokens early so handlers only look at the context.
	router.Use(authMiddleware(services.Auth))
	router.Use(RateLimitMiddleware(s.authRateLimiter, log.Logger))

	s.router = router

	humaConfig := huma.DefaultConfig(cfg.Server.Name+" API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerWishlistRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server resources (rate limiter goroutine).
func (s *Server) Close() {
	s.authRateLimiter.Stop()
}
