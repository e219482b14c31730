// README: Redis read-through cache in front of a road distance provider.
package maps

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"rateline/internal/logging"
	"rateline/internal/metric"
	"rateline/internal/modules/geo"
	"rateline/internal/types"
)

const cachePrefix = "rateline:distance:"

// CachedProvider serves repeated lookups from Redis. Failures are never cached
// and a Redis outage degrades to calling the provider directly.
type CachedProvider struct {
	next geo.DistanceProvider
	rdb  *redis.Client
	ttl  time.Duration
	log  *slog.Logger
}

func NewCachedProvider(next geo.DistanceProvider, rdb *redis.Client, ttl time.Duration, log *slog.Logger) *CachedProvider {
	if log == nil {
		log = slog.Default()
	}
	return &CachedProvider{next: next, rdb: rdb, ttl: ttl, log: log}
}

// Keys are directional: road distance A→B need not equal B→A.
func cacheKey(origin, destination types.Coordinate) string {
	return cachePrefix + origin.String() + "|" + destination.String()
}

func (c *CachedProvider) RoadDistance(ctx context.Context, origin, destination types.Coordinate) (decimal.Decimal, error) {
	key := cacheKey(origin, destination)

	v, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if km, perr := decimal.NewFromString(v); perr == nil {
			metric.DistanceCacheTotal.WithLabelValues("hit").Inc()
			return km, nil
		}
		metric.DistanceCacheTotal.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metric.DistanceCacheTotal.WithLabelValues("miss").Inc()
	default:
		metric.DistanceCacheTotal.WithLabelValues("error").Inc()
		c.log.WarnContext(ctx, "distance cache read failed", logging.Err(err), logging.Traced(ctx))
	}

	km, err := c.next.RoadDistance(ctx, origin, destination)
	if err != nil {
		return decimal.Zero, err
	}
	if err := c.rdb.Set(ctx, key, km.String(), c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "distance cache write failed", logging.Err(err), logging.Traced(ctx))
	}
	return km, nil
}
