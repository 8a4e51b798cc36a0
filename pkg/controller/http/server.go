package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/examresult/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// config holds internal HTTP server configuration
type config struct {
	addr      string
	rateLimit float64
	rateBurst int
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithRateLimit limits /api/fetch-pdf to rps requests per second across all
// clients. Zero disables the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *config) {
		c.rateLimit = rps
		c.rateBurst = burst
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	resultUC interfaces.ResultUseCase,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr: "localhost:8080",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	apiDoc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load OpenAPI document")
	}

	index, err := newIndexHandler()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse index template")
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth)

	// Viewer page
	router.Get("/", index.Handle)

	router.Route("/api", func(r chi.Router) {
		r.Get("/semesters", handleSemesters)
		r.Get("/openapi.json", apiDoc.Handle)

		resultHandler := NewResultHandler(resultUC)
		r.With(RateLimitMiddleware(cfg.rateLimit, cfg.rateBurst)).
			Get("/fetch-pdf", resultHandler.Handle)
	})

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
