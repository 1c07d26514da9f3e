package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// APIPrefix is the path under which the endpoints are mounted in addition
// to the root.
const APIPrefix = "/api/dogs"

// RouterOptions wires the optional cross-cutting pieces of the router.
type RouterOptions struct {
	Logger *zap.Logger
	// Auth guards the mutating routes. Nil disables authentication.
	Auth func(http.Handler) http.Handler
	// Metrics instruments every request. Nil disables instrumentation.
	Metrics func(http.Handler) http.Handler
	// MetricsHandler is served at /metrics when set.
	MetricsHandler http.Handler
	// Ping reports store health for /health. Nil always reports healthy.
	Ping func(ctx context.Context) error
}

// NewRouter builds the chi router serving h at the root and under APIPrefix.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(chimw.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics)
	}

	r.Get("/health", healthHandler(opts.Ping))
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}
		h.RegisterRoutes(r)
		r.Route(APIPrefix, h.RegisterRoutes)
	})

	return r
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// requestLogger logs one line per request with the zap logger.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("Handled request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
			)
		})
	}
}
