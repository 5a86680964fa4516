package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/tphummel/pc_monitor/internal/handlers"
	"github.com/tphummel/pc_monitor/internal/metrics"
	"github.com/tphummel/pc_monitor/internal/middleware"
	"github.com/tphummel/pc_monitor/internal/store"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

// loadConfig reads service configuration from environment variables and
// applies defaults. It returns an error when LOG_LEVEL is not recognised.
func loadConfig() (host, port string, level slog.Level, err error) {
	host = os.Getenv("HOST")
	if host == "" {
		host = "0.0.0.0"
	}
	port = os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if uerr := level.UnmarshalText([]byte(strings.ToLower(v))); uerr != nil {
			err = fmt.Errorf("invalid LOG_LEVEL %q: %w", v, uerr)
			return
		}
	}
	return
}

// newHandler assembles the full HTTP stack: application routes, /metrics
// served from reg, request IDs, and request logging.
func newHandler(h *handlers.Handler, reg *prometheus.Registry, logger *slog.Logger) http.Handler {
	mux := handlers.NewMux(h)

	// Prometheus metrics
	mux.Handle("GET /metrics", metrics.Handler(reg))

	skip := func(r *http.Request) bool {
		return r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
	}
	return middleware.RequestID(middleware.RequestLogger(logger, skip, mux))
}

func main() {
	host, port, level, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	snapshots := store.NewMemoryStore()

	reg := prometheus.NewRegistry()
	metrics.Register(reg, snapshots)

	h := &handlers.Handler{Store: snapshots, Version: version, Commit: commit}

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           newHandler(h, reg, slog.Default()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("listening", "addr", srv.Addr, "version", version, "commit", commit)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
