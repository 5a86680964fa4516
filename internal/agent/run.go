package agent

import (
	"context"
	"log/slog"
	"time"
)

// Sampler produces one snapshot of the local machine.
type Sampler interface {
	Collect() Payload
}

// Pusher delivers a snapshot to the server.
type Pusher interface {
	Push(ctx context.Context, p Payload) error
}

// Run samples and pushes once immediately and then every interval until ctx
// is cancelled. A failed push is logged and retried on the next tick only.
func Run(ctx context.Context, logger *slog.Logger, interval time.Duration, s Sampler, p Pusher) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report(ctx, logger, s, p)
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func report(ctx context.Context, logger *slog.Logger, s Sampler, p Pusher) {
	payload := s.Collect()
	if err := p.Push(ctx, payload); err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Warn("push failed", "machine_name", payload.MachineName, "error", err)
		return
	}
	logger.Info("snapshot pushed",
		"machine_name", payload.MachineName,
		"cpu_usage", payload.CPUUsage,
		"total_ram", payload.TotalRAM,
	)
}
