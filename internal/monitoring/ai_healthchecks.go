package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/textsummarizer/internal/summarizer"
)

const (
	HEALTHCHECK_INTERVAL = 15 * time.Second
	HEALTHCHECK_TIMEOUT  = 10 * time.Second
)

// MonitorCapabilityHealth checks once immediately, then every interval,
// until ctx is done. Only transitions are logged.
func MonitorCapabilityHealth(ctx context.Context, name string, checker summarizer.HealthChecker, healthy *atomic.Bool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		checkCtx, cancel := context.WithTimeout(ctx, HEALTHCHECK_TIMEOUT)
		defer cancel()

		err := checker.HealthCheck(checkCtx)
		isHealthy := err == nil
		was := healthy.Swap(isHealthy)

		switch {
		case !isHealthy && was:
			slog.Warn("[HealthCheck] Summarizer is unhealthy",
				slog.String("provider", name),
				slog.String("error", err.Error()))
		case isHealthy && !was:
			slog.Info("[HealthCheck] Summarizer recovered",
				slog.String("provider", name))
		}
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
