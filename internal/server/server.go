package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/polyfolio/pnl-data/internal/cache"
	"github.com/polyfolio/pnl-data/internal/config"
	"github.com/polyfolio/pnl-data/internal/metrics"
	"github.com/polyfolio/pnl-data/internal/reconcile"
	"github.com/polyfolio/pnl-data/internal/store"
)

// Server is the HTTP serving surface over the reconciliation engine.
type Server struct {
	cfg     config.ServerConfig
	service *reconcile.Service
	cache   cache.Cache
	store   *store.Store // nil when persistence is disabled
	hub     *Hub
	logger  *slog.Logger

	httpServer *http.Server
}

// New wires the server. store may be nil.
func New(
	cfg config.ServerConfig,
	service *reconcile.Service,
	resultCache cache.Cache,
	snapshots *store.Store,
	hub *Hub,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:     cfg,
		service: service,
		cache:   resultCache,
		store:   snapshots,
		hub:     hub,
		logger:  logger,
	}
}

// Router builds the chi router with middleware and all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(metrics.Middleware)

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ws", s.hub.HandleWS)
		r.Get("/pnl/{address}", s.handlePnl)
		r.Get("/pnl/{address}/timeline", s.handleTimeline)
	})

	return r
}

// Start begins serving. Blocks until ListenAndServe returns.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + strconv.Itoa(s.cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.logger.Info("server listening", "port", s.cfg.Port)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
