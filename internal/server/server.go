package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hongminglow/volcano-api/internal/auth"
	"github.com/hongminglow/volcano-api/internal/config"
	"github.com/hongminglow/volcano-api/internal/http/handlers"
	"github.com/hongminglow/volcano-api/internal/http/respond"
	"github.com/hongminglow/volcano-api/internal/middleware"
	"github.com/hongminglow/volcano-api/internal/storage"
)

const authRateWindow = time.Minute

// Store is everything the HTTP layer needs from persistence.
type Store interface {
	storage.UserStore
	storage.VolcanoStore
	handlers.Pinger
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner   *http.Server
	limiter middleware.RateLimiter
	log     *slog.Logger
}

// New wires up middleware, routes, and returns a ready server.
func New(ctx context.Context, cfg config.Config, store Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	limiter := newRateLimiter(ctx, cfg, log)
	limit := middleware.RateLimit(limiter, cfg.AuthRateLimit, authRateWindow, metrics.RateLimited)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	verifier := auth.NewVerifier(cfg.JWTSecret)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now(), store).Register(mux)
	handlers.NewMetaHandler(cfg.MeName, cfg.MeStudentNumber).Register(mux)
	handlers.NewVolcanoHandler(store, verifier, log).Register(mux)
	handlers.NewUserHandler(store, tokens, verifier, log).Register(mux, limit)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusNotFound, "Not Found")
	})

	handler := middleware.CORS(cfg.CORSOrigins, metrics.Middleware(middleware.Logging(log, mux)))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer, limiter: limiter, log: log}
}

func newRateLimiter(ctx context.Context, cfg config.Config, log *slog.Logger) middleware.RateLimiter {
	if cfg.RateLimitRedisAddr == "" {
		return middleware.NewMemoryRateLimiter()
	}
	rl, err := middleware.NewRedisRateLimiter(ctx, cfg.RateLimitRedisAddr, cfg.RateLimitRedisPass, cfg.RateLimitRedisDB, log)
	if err != nil {
		log.Warn("redis rate limiter unavailable; using in-memory limiter", "addr", cfg.RateLimitRedisAddr, "error", err)
		return middleware.NewMemoryRateLimiter()
	}
	log.Info("using redis rate limiter", "addr", cfg.RateLimitRedisAddr)
	return rl
}

// Handler returns the root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server and releases the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.inner.Shutdown(ctx)
	if s.limiter != nil {
		err = errors.Join(err, s.limiter.Close())
	}
	return err
}
