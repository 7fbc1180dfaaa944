package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMER = 15

type Pinger interface {
	Ping(ctx context.Context) error
}

// MonitorCacheHealth pings the cache every interval until ctx is done and
// records the outcome in healthy and the cache gauge.
func MonitorCacheHealth(ctx context.Context, cache Pinger, healthy *atomic.Bool, interval time.Duration, metrics *Metrics) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()

		err := cache.Ping(pingCtx)
		wasHealthy := healthy.Swap(err == nil)
		metrics.SetCacheHealthy(err == nil)
		if err != nil && wasHealthy {
			slog.Warn("[HealthCheck] Comment cache is unhealthy",
				slog.String("error", err.Error()))
		} else if err == nil && !wasHealthy {
			slog.Info("[HealthCheck] Comment cache recovered")
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
