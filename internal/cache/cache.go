// cache предоставляет Redis-кэш предпросмотра QR-токенов.
//
// Кэш обслуживает только чтения (предпросмотр токена перед погашением);
// источником истины и точкой CAS-потребления всегда остаётся БД.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/contacts-service/internal/models"
	"github.com/redis/go-redis/v9"
)

// TokenEntry описывает данные, которые мы храним в Redis по значению токена.
type TokenEntry struct {
	OwnerID   uuid.UUID
	Preset    models.Preset
	Consumed  bool
	ExpiresAt time.Time
}

// TokenCache — минимальный контракт кэша QR-токенов.
type TokenCache interface {
	// Get возвращает запись и признак её наличия в кэше.
	Get(ctx context.Context, token string) (*TokenEntry, bool, error)
	// Set сохраняет запись с TTL (обычно ExpiresAt-now).
	Set(ctx context.Context, token string, e *TokenEntry, ttl time.Duration) error
	// MarkConsumed помечает ключ consumed=true, сохраняя остаточный TTL.
	MarkConsumed(ctx context.Context, token string) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "contacts:qr:".
func NewRedisCache(redisURL, prefix string) (TokenCache, error) {
	if prefix == "" {
		prefix = "contacts:qr:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(token string) string { return c.prefix + token }

// Храним как Redis Hash с полями: owner, preset, used (0/1), exp (unix).
func (c *redisCache) Get(ctx context.Context, token string) (*TokenEntry, bool, error) {
	m, err := c.rdb.HGetAll(ctx, c.key(token)).Result()
	if err != nil {
		return nil, false, err
	}

	if len(m) == 0 {
		return nil, false, nil
	}

	owner, err := uuid.Parse(m["owner"])
	if err != nil {
		return nil, false, err
	}

	expUnix, err := strconv.ParseInt(m["exp"], 10, 64)
	if err != nil {
		return nil, false, err
	}

	return &TokenEntry{
		OwnerID:   owner,
		Preset:    models.Preset(m["preset"]),
		Consumed:  m["used"] == "1",
		ExpiresAt: time.Unix(expUnix, 0).UTC(),
	}, true, nil
}

func (c *redisCache) Set(ctx context.Context, token string, e *TokenEntry, ttl time.Duration) error {
	kv := map[string]string{
		"owner":  e.OwnerID.String(),
		"preset": string(e.Preset),
		"used":   boolTo01(e.Consumed),
		"exp":    strconv.FormatInt(e.ExpiresAt.Unix(), 10),
	}

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, c.key(token), kv)
	pipe.Expire(ctx, c.key(token), ttl)

	_, err := pipe.Exec(ctx)
	return err
}

func (c *redisCache) MarkConsumed(ctx context.Context, token string) error {
	return c.rdb.HSet(ctx, c.key(token), "used", "1").Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }

func boolTo01(b bool) string {
	if b {
		return "1"
	}

	return "0"
}
