// Package httpapi exposes the question-answering service over HTTP.
package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ragqa/internal/domain"
	"ragqa/internal/observability"
	"ragqa/internal/retrieval"
	"ragqa/internal/service"
)

// QAService is the subset of service.QA the handlers need.
type QAService interface {
	Upload(ctx context.Context, filename string, r io.Reader) (domain.IngestionResult, error)
	Ask(ctx context.Context, question string) (service.Answer, error)
	Search(ctx context.Context, question string, topK int) (retrieval.Result, error)
	Stats() service.Stats
}

// Options tunes the router. Zero values select the defaults.
type Options struct {
	// QueryRatePerMinute limits POST /query per client IP. Zero disables the limit.
	QueryRatePerMinute int
	RequestTimeout     time.Duration
	MaxUploadBytes     int64
	CORSOrigins        []string
}

const (
	defaultRequestTimeout = 120 * time.Second
	defaultMaxUploadBytes = 32 << 20
)

type api struct {
	svc       QAService
	logger    *zap.Logger
	maxUpload int64
}

// NewRouter configures all routes and middleware.
func NewRouter(svc QAService, opts Options, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	a := &api{svc: svc, logger: logger, maxUpload: opts.MaxUploadBytes}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:         300,
	}))

	r.Get("/", a.handleRoot)
	r.Get("/healthz", a.handleHealth)
	r.Post("/upload", a.handleUpload)
	r.Post("/retrieve", a.handleRetrieve)
	r.Group(func(r chi.Router) {
		if opts.QueryRatePerMinute > 0 {
			r.Use(a.rateLimit(newClientLimiter(opts.QueryRatePerMinute), "/query"))
		}
		r.Post("/query", a.handleQuery)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		a.writeError(w, http.StatusNotFound, "Route not found")
	})
	return r
}
