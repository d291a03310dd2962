package services

import (
	"context"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/bimakw/amm-sdk/internal/amm"
	"github.com/bimakw/amm-sdk/internal/domain/entities"
	"github.com/bimakw/amm-sdk/internal/infrastructure/cache"
	"github.com/bimakw/amm-sdk/internal/metrics"
)

// CachedQuoter serves quotes from a cache and falls through to another Quoter
// on a miss. Cache failures never fail a quote.
type CachedQuoter struct {
	next   amm.Quoter
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedQuoter(next amm.Quoter, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedQuoter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedQuoter{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

func (q *CachedQuoter) Quote(ctx context.Context, factory *amm.Factory, amount entities.Amount, path entities.SwapPath) ([]*big.Int, error) {
	start := time.Now()
	defer func() { metrics.QuoteLatency.Observe(time.Since(start).Seconds()) }()

	if q.cache == nil || q.ttl <= 0 || factory == nil || amount.Value == nil {
		return q.quote(ctx, factory, amount, path)
	}

	key := cache.QuoteCacheKey(factory.Address(), amount.Kind, amount.Value, path)
	cached, err := q.cache.GetAmounts(ctx, key)
	switch {
	case err != nil:
		metrics.QuoteCache.WithLabelValues("error").Inc()
		q.logger.Warn("quote cache read failed", zap.String("key", key), zap.Error(err))
	case cached != nil:
		metrics.QuoteCache.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.QuoteCache.WithLabelValues("miss").Inc()
	}

	amounts, err := q.quote(ctx, factory, amount, path)
	if err != nil {
		return nil, err
	}
	if err := q.cache.SetAmounts(ctx, key, amounts, q.ttl); err != nil {
		q.logger.Warn("quote cache write failed", zap.String("key", key), zap.Error(err))
	}
	return amounts, nil
}

func (q *CachedQuoter) quote(ctx context.Context, factory *amm.Factory, amount entities.Amount, path entities.SwapPath) ([]*big.Int, error) {
	amounts, err := q.next.Quote(ctx, factory, amount, path)
	if err != nil && !amm.IsValidation(err) {
		metrics.QuoteErrors.Inc()
	}
	return amounts, err
}
