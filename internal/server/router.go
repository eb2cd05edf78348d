// Package server assembles the HTTP handler of the action mapping API.
package server

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/maruel/actionmap/internal/jsondb"
	"github.com/maruel/actionmap/internal/router"
	"github.com/maruel/actionmap/internal/server/handlers"
	"github.com/maruel/actionmap/internal/server/ratelimit"
	"github.com/maruel/actionmap/internal/server/reqctx"
	"github.com/maruel/actionmap/internal/server/routes"
	"github.com/maruel/actionmap/internal/storage"
	"github.com/maruel/actionmap/internal/utils"
)

// Config configures a Server.
type Config struct {
	// DB is the path of the JSON document holding the mappings.
	DB string
	// Table is the table of DB holding the mappings. Defaults to
	// storage.DefaultTable.
	Table string
	// RoutesFS is the route tree. Defaults to routes.Source.
	RoutesFS fs.FS
	// RoutesRoot is the root of the route tree within RoutesFS. Defaults to ".".
	RoutesRoot string
	// Loader maps route files to their module. Defaults to routes.Modules().
	Loader router.Loader
	// RateLimit is the number of requests per minute allowed per client IP.
	// 0 disables rate limiting.
	RateLimit int
	// TrustProxy takes the client IP from X-Forwarded-For or X-Real-IP
	// instead of the peer address. Only set it behind a reverse proxy that
	// overwrites these headers.
	TrustProxy bool
	// Version is reported by /health.
	Version string
	// Logger is the base logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// Server is the HTTP handler of the API.
type Server struct {
	handler http.Handler
	routes  []router.Route[*handlers.Env]
	limiter *ratelimit.Limiter
}

// NewServer opens the store and builds the routing table.
//
// All routes are registered when NewServer returns.
func NewServer(ctx context.Context, cfg *Config) (*Server, error) {
	if cfg.DB == "" {
		return nil, errors.New("no database path")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fsys, root, loader := cfg.RoutesFS, cfg.RoutesRoot, cfg.Loader
	if fsys == nil {
		fsys = routes.Source
	}
	if root == "" {
		root = "."
	}
	if loader == nil {
		loader = routes.Modules()
	}

	ctx = reqctx.WithLogger(ctx, logger)
	mappings := storage.NewActionMappingService(jsondb.Open(cfg.DB), cfg.Table)
	discovered, err := router.Discover[*handlers.Env](ctx, fsys, root, loader)
	if err != nil {
		return nil, err
	}
	envFor := func(r *http.Request) *handlers.Env {
		return &handlers.Env{Logger: reqctx.Logger(r.Context()), Mappings: mappings}
	}
	opts := &router.Options{Logger: reqctx.Logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondText(w, http.StatusOK, "Hello world")
	})
	health := handlers.NewHealthHandler(cfg.Version)
	mux.Handle("GET /health", router.Wrap(health.Health, envFor, opts))
	if err := router.Register(ctx, mux, discovered, envFor, opts); err != nil {
		return nil, err
	}

	s := &Server{routes: discovered}
	if cfg.RateLimit > 0 {
		s.limiter = ratelimit.NewLimiter(cfg.RateLimit, time.Minute, max(cfg.RateLimit/6, 1))
	}
	limit := ratelimit.Middleware(s.limiter, func(r *http.Request) string {
		return "ip:" + reqctx.ClientIP(r.Context())
	})
	s.handler = requestMetadata(logger, cfg.TrustProxy, accessLog(limit(trimTrailingSlash(mux))))
	logger.InfoContext(ctx, "Routes ready", "routes", len(discovered), "db", cfg.DB, "table", mappings.Table())
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Routes returns the routes discovered in the route tree, sorted.
func (s *Server) Routes() []string {
	out := make([]string, 0, len(s.routes))
	for i := range s.routes {
		out = append(out, s.routes[i].MuxPattern())
	}
	return out
}

// Close releases the rate limiter.
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Close()
	}
	return nil
}
