package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/models"
)

// CityResolver is implemented by the service layer to resolve weather for a
// batch of city names. Declared here to avoid a circular dependency on the
// service package.
type CityResolver interface {
	ResolveCitiesWeather(ctx context.Context, names []string) []models.CityWeatherResult
}

// Warmer prefetches weather for the configured popular cities so the
// dashboard's first page load is served from cache.
type Warmer struct {
	resolver CityResolver
	logger   *zap.Logger
}

// NewWarmer creates a Warmer that uses the given resolver and logger.
func NewWarmer(resolver CityResolver, logger *zap.Logger) *Warmer {
	return &Warmer{resolver: resolver, logger: logger}
}

// Warm resolves weather for each city, populating the cache as a side effect.
// Per-city failures are already contained by the resolver; they are logged
// here but do not fail the warm-up.
func (w *Warmer) Warm(ctx context.Context, cities []string) {
	start := time.Now()
	if w.logger != nil {
		w.logger.Info("warming cache", zap.Int("cities", len(cities)))
	}

	results := w.resolver.ResolveCitiesWeather(ctx, cities)

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
			if w.logger != nil {
				w.logger.Warn("cache warm failed for city", zap.String("city", r.CityName), zap.String("error", r.Error))
			}
		}
	}
	if w.logger != nil {
		w.logger.Info("cache warming complete",
			zap.Int("cities", len(cities)),
			zap.Int("failed", failed),
			zap.Duration("duration", time.Since(start)))
	}
}

// WarmPeriodic runs an initial Warm, then refreshes at the given interval
// until ctx is done.
func (w *Warmer) WarmPeriodic(ctx context.Context, cities []string, interval time.Duration) error {
	w.Warm(ctx, cities)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Warm(ctx, cities)
		}
	}
}
