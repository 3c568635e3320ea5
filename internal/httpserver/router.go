// Package httpserver assembles the HTTP surface.
package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"gp-deepseek-translate/internal/handlers"
	"gp-deepseek-translate/internal/metrics"
	"gp-deepseek-translate/internal/middleware"
)

// RequestTimeout bounds one request. A full batch of 100 strings is five
// paced chunks plus a possible per-string fallback for each.
const RequestTimeout = 10 * time.Minute

// MaxBody caps request bodies on /v1.
const MaxBody = 1 << 20

// NewRouter wires the translation API with health checks and metrics. Timeouts,
// body limits and user identity only apply under /v1.
func NewRouter(baseLogger *zap.Logger, h *handlers.TranslateHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer())

	r.Get("/healthz", healthz)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.UserContext)
		r.Use(middleware.LoggingContext(baseLogger))
		r.Use(middleware.Timeout(RequestTimeout))
		r.Use(middleware.MaxBodySize(MaxBody))

		r.Get("/locales", h.Locales)
		r.Post("/translate", h.Translate)
		r.Post("/translate/batch", h.TranslateBatch)
		r.Post("/bulk", h.Bulk)
	})

	return r
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
