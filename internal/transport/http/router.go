// Package httptransport assembles the HTTP surface: shared middleware, the
// per-module handlers, and the operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"opus/internal/platform/metrics"
	"opus/internal/platform/middleware"
)

const requestTimeout = 30 * time.Second

// Registrar is anything that mounts its routes on the shared router. Each
// module's handler implements it.
type Registrar interface {
	Register(r chi.Router)
}

// Deps carries everything the router needs. Handlers is mounted in order, so
// modules with overlapping prefixes keep a deterministic layout.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Handlers []Registrar
}

// NewRouter builds the full router: recovery first, then request identity,
// logging, deadline, content-type enforcement, and latency observation apply
// to every API route. Auth is a per-handler concern because reads are open.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.ContentTypeJSON)
	if d.Metrics != nil {
		r.Use(middleware.Latency(d.Metrics))
	}

	for _, h := range d.Handlers {
		h.Register(r)
	}

	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
