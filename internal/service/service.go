// Package service wires the repositories, the decision engine and the
// cache into the operations the HTTP layer exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/grocery-inventory/internal/cache"
	"github.com/rogerio-castellano/grocery-inventory/internal/engine"
	"github.com/rogerio-castellano/grocery-inventory/internal/repo"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnknownReport = errors.New("unknown report")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Deps collects what both services need. Now defaults to time.Now in UTC and
// Cache to a no-op cache.
type Deps struct {
	Products  repo.ProductRepository
	Catalog   repo.CatalogRepository
	Batches   repo.BatchRepository
	Movements repo.MovementRepository
	Metrics   repo.MetricsRepository
	Cache     cache.Cache
	Logger    *zap.Logger
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Cache == nil {
		d.Cache = cache.Nop{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	return d
}

// today is midnight of the clock's calendar date, in the clock's location.
// Consumption windows and day buckets are built in that same location.
func (d Deps) today() time.Time {
	return engine.Day(d.Now())
}

// localDay reinterprets t's calendar date as midnight in the clock's location.
func (d Deps) localDay(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.Now().Location())
}

const (
	forecastKeyPrefix = "forecast:"
	reorderKeyPrefix  = "reorder:"
	reportKeyPrefix   = "report:"
)

func forecastPrefix(productID int) string {
	return fmt.Sprintf("%s%d:", forecastKeyPrefix, productID)
}

// invalidateProduct drops every cached result that depends on the
// product's stock or consumption. Cache failures are logged, not returned:
// the write already succeeded.
func (d Deps) invalidateProduct(ctx context.Context, productID int) {
	for _, prefix := range []string{forecastPrefix(productID), reorderKeyPrefix, reportKeyPrefix} {
		if err := d.Cache.InvalidatePrefix(ctx, prefix); err != nil {
			d.Logger.Warn("cache invalidation failed", zap.String("prefix", prefix), zap.Error(err))
		}
	}
}

func (d Deps) cached(ctx context.Context, key string, dest any) bool {
	err := d.Cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrMiss) {
		d.Logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (d Deps) store(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := d.Cache.Set(ctx, key, value, ttl); err != nil {
		d.Logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func dateKey(t time.Time) string {
	return engine.Day(t).Format(time.DateOnly)
}
