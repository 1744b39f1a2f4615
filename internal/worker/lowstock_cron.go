package worker

// lowstock_cron.go
// Background goroutine that periodically sweeps the catalog for products at
// or below their minimum quantity and enqueues alert jobs. This catches
// anything the per-movement trigger missed (direct DB edits, alerts lost to
// a Redis restart).

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/infra"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/repository"
)

// LowStockCronConfig holds all dependencies for the sweep goroutine.
type LowStockCronConfig struct {
	ProductRepo repository.ProductRepository
	Dispatcher  *Dispatcher
	CB          *infra.Breaker
	Interval    time.Duration
}

// StartLowStockCron launches a background goroutine that ticks on the
// configured interval and enqueues alerts for every product under threshold.
// It respects the context for graceful shutdown.
func StartLowStockCron(ctx context.Context, cfg LowStockCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("lowstock_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("lowstock_cron: shutting down")
				return
			case <-ticker.C:
				sweep(ctx, cfg)
			}
		}
	}()
}

func sweep(ctx context.Context, cfg LowStockCronConfig) {
	// If the mailer CB is open every alert will fast-fail anyway — skip the tick
	if cfg.CB != nil && cfg.CB.State() == infra.BreakerOpen {
		log.Debug().Msg("lowstock_cron: circuit breaker is open, skipping tick")
		return
	}

	products, err := cfg.ProductRepo.ListBelowMinimumAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("lowstock_cron: sweep query failed")
		return
	}
	for i := range products {
		p := &products[i]
		err := cfg.Dispatcher.EnqueueLowStockAlert(ctx, LowStockAlertPayload{
			ProductID:       p.ID.String(),
			ProductName:     p.Name,
			Barcode:         p.Barcode,
			Quantity:        p.Quantity,
			MinimumQuantity: p.MinimumQuantity,
		})
		if err != nil {
			log.Error().Err(err).Str("product", p.Name).Msg("lowstock_cron: enqueue failed")
		}
	}
	if len(products) > 0 {
		log.Info().Int("count", len(products)).Msg("lowstock_cron: alerts enqueued")
	}
}
