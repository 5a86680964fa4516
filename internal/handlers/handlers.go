package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tphummel/pc_monitor/internal/metrics"
	"github.com/tphummel/pc_monitor/internal/models"
	"github.com/tphummel/pc_monitor/internal/store"
)

// maxBodyBytes caps a single snapshot upload.
const maxBodyBytes = 64 * 1024

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	Store   store.Store
	Version string
	Commit  string

	// Now returns the receipt time stamped on snapshots. Defaults to time.Now.
	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  h.Version,
		"commit":   h.Commit,
		"machines": h.Store.Len(),
	})
}

// ReceiveUpdate handles POST /api/monitor. The body replaces whatever was
// stored for its MachineName, stamped with the server's receipt time.
func (h *Handler) ReceiveUpdate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	snap, err := models.DecodeSnapshot(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, models.ErrMissingMachineName):
			writeError(w, http.StatusBadRequest, models.ErrMissingMachineName.Error())
		default:
			writeError(w, http.StatusBadRequest, "invalid JSON")
		}
		return
	}

	name, _ := snap.MachineName()
	snap.Stamp(h.now())
	h.Store.Put(name, snap)
	metrics.SnapshotReceived()

	slog.InfoContext(r.Context(), "update received", "machine_name", name)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// FetchLatest handles GET /api/data. It returns the latest snapshot of every
// machine that has reported, in no particular order.
func (h *Handler) FetchLatest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Values())
}
