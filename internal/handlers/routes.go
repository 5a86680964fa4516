package handlers

import (
	"net/http"

	"github.com/tphummel/pc_monitor/internal/metrics"
)

// NewMux registers every application route on a fresh ServeMux. Each route is
// wrapped in metrics.Middleware under its own path so label cardinality stays
// bounded. /metrics is left to the caller, which owns the registry.
func NewMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()

	route := func(method, path string, fn http.HandlerFunc) {
		label := path
		if path == "/{$}" {
			label = "/"
		}
		mux.Handle(method+" "+path, metrics.Middleware(label, fn))
	}

	// Dashboard, exact match only so unknown paths still 404.
	route(http.MethodGet, "/{$}", h.Dashboard)

	route(http.MethodPost, "/api/monitor", h.ReceiveUpdate)
	route(http.MethodGet, "/api/data", h.FetchLatest)

	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /openapi.yaml", OpenAPISpec)
	mux.HandleFunc("GET /docs", Docs)

	return mux
}
