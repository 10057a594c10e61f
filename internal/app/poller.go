package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/five82/basket/internal/shop"
	"github.com/five82/basket/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 30 * time.Second
)

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

// pollCatalog refreshes the catalog until ctx is cancelled. Consecutive
// failures stretch the wait between attempts.
func pollCatalog(ctx context.Context, catalog *state.Catalog, client shop.CatalogService, interval time.Duration, logger *zap.Logger) error {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	for {
		refresh(ctx, catalog, client, logger)

		wait := interval
		if failures := catalog.Snapshot().ConsecutiveFailures; failures > 0 {
			wait = calculateBackoff(failures-1, min(interval, maxBackoff))
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func refresh(ctx context.Context, catalog *state.Catalog, client shop.CatalogService, logger *zap.Logger) {
	products, err := client.ListProducts(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		catalog.Update(nil, err)
		logger.Warn("catalog refresh failed", zap.Error(err))
		return
	}
	catalog.Update(products, nil)
	logger.Debug("catalog refreshed", zap.Int("products", len(products)))
}
