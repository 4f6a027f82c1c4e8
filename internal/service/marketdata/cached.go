package marketdata

import (
	"context"
	"errors"
	"time"

	"WaveCast/internal/domain/models"
	"WaveCast/internal/domain/repository"
	"WaveCast/pkg/cache"
	"WaveCast/pkg/logger"
)

const barsKeyPrefix = "bars"

// CachedSource decorates a BarSource with a cache layer. Daily history only
// changes once per session, so a generous TTL is safe.
type CachedSource struct {
	next  repository.BarSource
	cache cache.Service
	ttl   time.Duration
	log   *logger.Logger
}

var _ repository.BarSource = (*CachedSource)(nil)

func NewCachedSource(next repository.BarSource, c cache.Service, ttl time.Duration, log *logger.Logger) *CachedSource {
	return &CachedSource{next: next, cache: c, ttl: ttl, log: log}
}

func (s *CachedSource) DailyBars(ctx context.Context, symbol string, period repository.Period) (models.BarSeries, error) {
	key := cache.GenerateKeyWithParams(barsKeyPrefix, symbol, string(period))

	var cached models.BarSeries
	err := s.cache.Get(ctx, key, &cached)
	if err == nil && len(cached) > 0 {
		return cached, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("bars cache read failed", logger.String("key", key), logger.Error(err))
	}

	bars, err := s.next.DailyBars(ctx, symbol, period)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, bars, s.ttl); err != nil {
		s.log.Warn("bars cache write failed", logger.String("key", key), logger.Error(err))
	}
	return bars, nil
}
