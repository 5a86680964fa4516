package handlers

import (
	"bytes"
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed dashboard.html
var dashboardHTML string

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

type dashboardData struct {
	Version  string
	DataPath string
	// RefreshMillis is how often the page polls DataPath.
	RefreshMillis int
}

// Dashboard handles GET / and serves the page that polls /api/data.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := dashboardTmpl.Execute(&buf, dashboardData{
		Version:       h.Version,
		DataPath:      "/api/data",
		RefreshMillis: 5000,
	})
	if err != nil {
		slog.Error("failed to render dashboard", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render dashboard")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
