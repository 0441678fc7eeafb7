package jobs

import (
	"context"
	"log"
	"time"

	"wallet-kita.backend/internal/usecases"
	"wallet-kita.backend/pkg/metrics"
)

// RateFetcher fetches a rate snapshot from the external feed
type RateFetcher interface {
	FetchLatest(ctx context.Context, base string) (*usecases.RateSnapshot, error)
}

// RateRefreshJob periodically pulls the external rate feed and applies
// the snapshot to the catalog
type RateRefreshJob struct {
	fetcher  RateFetcher
	exchange *usecases.ExchangeUsecase
	bases    []string
	interval time.Duration
	stop     chan struct{}
}

func NewRateRefreshJob(fetcher RateFetcher, exchange *usecases.ExchangeUsecase, bases []string, interval time.Duration) *RateRefreshJob {
	return &RateRefreshJob{
		fetcher:  fetcher,
		exchange: exchange,
		bases:    bases,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *RateRefreshJob) Start(ctx context.Context) {
	log.Println("🕐 Starting exchange rate refresh job...")

	// Refresh once at startup so the catalog is populated before the
	// first tick.
	j.refresh(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Exchange rate refresh job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Exchange rate refresh job stopped")
			return
		case <-ticker.C:
			j.refresh(ctx)
		}
	}
}

func (j *RateRefreshJob) Stop() {
	close(j.stop)
}

func (j *RateRefreshJob) refresh(ctx context.Context) {
	for _, base := range j.bases {
		snap, err := j.fetcher.FetchLatest(ctx, base)
		if err != nil {
			log.Printf("❌ Error fetching rates for base %s: %v", base, err)
			metrics.RateRefreshTotal.WithLabelValues("failure").Inc()
			continue
		}

		if err := j.exchange.ApplySnapshot(ctx, snap); err != nil {
			log.Printf("❌ Error applying rate snapshot for base %s: %v", base, err)
			metrics.RateRefreshTotal.WithLabelValues("failure").Inc()
			continue
		}

		log.Printf("✅ Refreshed %d rates for base %s", len(snap.Rates), base)
		metrics.RateRefreshTotal.WithLabelValues("success").Inc()
	}
}
