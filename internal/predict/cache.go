package predict

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/cementops-poc/server/internal/core/error"
	logx "github.com/cementops-poc/server/pkg/logger"
)

// Cache memoises predictions per feature vector. Failures are soft: a
// broken cache degrades to calling the endpoint every time.
type Cache interface {
	Get(ctx context.Context, kpi string, instance map[string]float64) (float64, bool)
	Put(ctx context.Context, kpi string, instance map[string]float64, value float64)
}

// RedisCache stores predictions under prediction:<kpi>:<sha256(features)>
// with a TTL refreshed on write.
type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisCache(rdb redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) key(kpi string, instance map[string]float64) string {
	// map keys marshal in sorted order, so equal vectors hash equally
	b, _ := json.Marshal(instance)
	sum := sha256.Sum256(b)
	return "prediction:" + kpi + ":" + hex.EncodeToString(sum[:])
}

func (c *RedisCache) Get(ctx context.Context, kpi string, instance map[string]float64) (float64, bool) {
	key := c.key(kpi, instance)

	raw, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logx.Warn().Err(errx.WrapRedis(err)).Str("key", key).Msg("prediction cache read failed")
		}
		return 0, false
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("prediction cache holds a non-numeric value")
		return 0, false
	}
	return v, true
}

func (c *RedisCache) Put(ctx context.Context, kpi string, instance map[string]float64, value float64) {
	key := c.key(kpi, instance)
	if err := c.rdb.Set(ctx, key, strconv.FormatFloat(value, 'f', -1, 64), c.ttl).Err(); err != nil {
		logx.Warn().Err(errx.WrapRedis(err)).Str("key", key).Msg("prediction cache write failed")
	}
}
