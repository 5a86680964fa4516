package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/procfs"
	"github.com/prometheus/procfs/sysfs"

	"github.com/tphummel/pc_monitor/internal/agent"
)

// loadConfig reads the agent's environment and applies defaults.
func loadConfig() (configPath, procPath, sysPath string) {
	configPath = os.Getenv("AGENT_CONFIG")
	if configPath == "" {
		configPath = "agent.yaml"
	}
	procPath = os.Getenv("PROC_PATH")
	if procPath == "" {
		procPath = procfs.DefaultMountPoint
	}
	sysPath = os.Getenv("SYS_PATH")
	if sysPath == "" {
		sysPath = sysfs.DefaultMountPoint
	}
	return
}

func main() {
	configPath, procPath, sysPath := loadConfig()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg, err := agent.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	collector, err := agent.NewCollector(cfg.MachineName, procPath, sysPath, slog.Default())
	if err != nil {
		log.Fatalf("failed to open system stats: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("agent started",
		"server_url", cfg.ServerURL,
		"interval", cfg.Interval,
		"machine_name", cfg.MachineName,
	)
	agent.Run(ctx, slog.Default(), cfg.Interval, collector, agent.NewClient(cfg.ServerURL))
	slog.Info("agent stopped")
}
