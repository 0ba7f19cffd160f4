// cache — Redis-кэш готовых страниц ленты.
//
// Кэшируются только листинги (GET /posts): у детальной страницы живые
// счётчики реакций, и её кэшировать нельзя. Инвалидации нет — только
// короткий TTL, счётчики в строках ленты могут отставать на секунды.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PageCache — минимальный контракт кэша страниц.
type PageCache interface {
	// Get возвращает сериализованную страницу и признак её наличия.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set сохраняет страницу с TTL.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "gw:feed:".
func NewRedisCache(redisURL, prefix string) (PageCache, error) {
	if prefix == "" {
		prefix = "gw:feed:"
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

func (c *redisCache) key(k string) string { return c.prefix + k }

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return raw, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.key(key), payload, ttl).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }

// FeedKey — ключ страницы ленты по параметрам запроса.
func FeedKey(postType string, pageSize int32, pageToken string) string {
	return fmt.Sprintf("%s:%d:%s", postType, pageSize, pageToken)
}
