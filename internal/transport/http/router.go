package httptransport

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"refguard/pkg/platform/httputil"
	"refguard/pkg/platform/middleware/requestid"
	"refguard/pkg/platform/middleware/requesttime"
)

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

// Registrar mounts a group of routes.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires the ops endpoints and every handler group under /v1.
func NewRouter(metrics http.Handler, checks map[string]HealthCheck, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", healthz(checks))
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}
	r.Route("/v1", func(v1 chi.Router) {
		for _, h := range handlers {
			h.Register(v1)
		}
	})
	return r
}

func healthz(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		result := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				result[name] = err.Error()
				continue
			}
			result[name] = "ok"
		}
		httputil.WriteJSON(w, status, map[string]any{"checks": result})
	}
}
