package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Giggibubbu/airpermit/config"
	"github.com/Giggibubbu/airpermit/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps the currently-valid zone set hot and hands out the
// per-account admission lock that serializes conflict-check + insert.
type RedisCache struct {
	client   *redis.Client
	zonesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, zonesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		zonesTTL: zonesTTL,
	}
}

func (c *RedisCache) GetActiveZones(ctx context.Context) ([]domain.NoFlyZone, error) {
	data, err := c.client.Get(ctx, activeZonesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var zones []domain.NoFlyZone
	if err := json.Unmarshal(data, &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

func (c *RedisCache) SetActiveZones(ctx context.Context, zones []domain.NoFlyZone) error {
	payload, err := json.Marshal(zones)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, activeZonesKey(), payload, c.zonesTTL).Err()
}

func (c *RedisCache) InvalidateZones(ctx context.Context) error {
	return c.client.Del(ctx, activeZonesKey()).Err()
}

func (c *RedisCache) AcquireAdmissionLock(ctx context.Context, email string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, admissionLockKey(email), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseAdmissionLock(ctx context.Context, email string) error {
	return c.client.Del(ctx, admissionLockKey(email)).Err()
}

func activeZonesKey() string {
	return "cache:zones:active"
}

func admissionLockKey(email string) string {
	return fmt.Sprintf("lock:admission:%s", email)
}
