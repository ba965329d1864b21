package cache

import (
	"context"
	"encoding/json"
	"time"

	"pharmacy-warehouse/internal/model"
	"pharmacy-warehouse/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const medicineListKey = "medicines:all"

// InitRedis connects to redis using the given configuration. Returns nil
// when no address is configured, which disables caching.
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return redisClient, nil
}

// MedicineCache caches the full medicine list, the hot path behind the
// table-browsing screens. All methods are safe on a nil receiver so callers
// need no cache-enabled branching.
type MedicineCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

// NewMedicineCache creates a cache over the given redis client. Returns nil
// when the client is nil.
func NewMedicineCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *MedicineCache {
	if rdb == nil {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MedicineCache{rdb: rdb, ttl: ttl, log: log}
}

// Get returns the cached medicine list, or ok=false on miss or error
func (c *MedicineCache) Get(ctx context.Context) ([]model.Medicine, bool) {
	if c == nil {
		return nil, false
	}

	payload, err := c.rdb.Get(ctx, medicineListKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("medicine cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var medicines []model.Medicine
	if err := json.Unmarshal(payload, &medicines); err != nil {
		c.log.Warn("medicine cache payload corrupt, dropping", zap.Error(err))
		c.rdb.Del(ctx, medicineListKey)
		return nil, false
	}
	return medicines, true
}

// Set stores the medicine list with the configured TTL
func (c *MedicineCache) Set(ctx context.Context, medicines []model.Medicine) {
	if c == nil {
		return
	}

	payload, err := json.Marshal(medicines)
	if err != nil {
		c.log.Warn("medicine cache marshal failed", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, medicineListKey, payload, c.ttl).Err(); err != nil {
		c.log.Warn("medicine cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached list. Called after every medicine mutation.
func (c *MedicineCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, medicineListKey).Err(); err != nil {
		c.log.Warn("medicine cache invalidation failed", zap.Error(err))
	}
}
