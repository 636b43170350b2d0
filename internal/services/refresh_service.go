package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// MetricsRefresher periodically recomputes the global metrics snapshot so
// dashboard reads land on a warm cache.
type MetricsRefresher struct {
	metrics *MetricsService
	wg      sync.WaitGroup
	stop    chan struct{}
}

func NewMetricsRefresher(metrics *MetricsService, interval time.Duration) *MetricsRefresher {
	r := &MetricsRefresher{
		metrics: metrics,
		stop:    make(chan struct{}),
	}

	r.wg.Add(1)
	go r.loop(interval)

	return r
}

func (r *MetricsRefresher) loop(interval time.Duration) {
	defer r.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refreshOnce()
		case <-r.stop:
			return
		}
	}
}

func (r *MetricsRefresher) refreshOnce() {
	if err := r.metrics.Refresh(context.Background(), 0); err != nil {
		log.Printf("metrics refresh failed: %v", err)
	}
}

func (r *MetricsRefresher) Shutdown(ctx context.Context) {
	close(r.stop)

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("metrics refresher stopped")
	case <-ctx.Done():
		log.Println("metrics refresher shutdown timed out")
	}
}
