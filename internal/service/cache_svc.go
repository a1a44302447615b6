package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	videoCacheTTL = 5 * time.Minute
	statsCacheTTL = 10 * time.Minute
)

// CacheService is a Redis cache-aside layer for hot reads: video detail
// and dashboard stats. If Redis is unconfigured or unreachable the client
// stays nil and every operation is a no-op.
type CacheService struct {
	rdb *redis.Client
}

func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis: invalid URL, caching disabled")
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		return &CacheService{}
	}

	log.Info().Msg("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying client for health checks. May be nil.
func (c *CacheService) Client() *redis.Client { return c.rdb }

func (c *CacheService) get(ctx context.Context, key string, out any) (bool, error) {
	if c.rdb == nil {
		return false, nil
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, out)
}

func (c *CacheService) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

func (c *CacheService) del(ctx context.Context, key string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, key).Err()
}

func (c *CacheService) GetVideo(ctx context.Context, videoID string, out any) (bool, error) {
	return c.get(ctx, videoKey(videoID), out)
}

func (c *CacheService) SetVideo(ctx context.Context, videoID string, v any) error {
	return c.set(ctx, videoKey(videoID), v, videoCacheTTL)
}

func (c *CacheService) InvalidateVideo(ctx context.Context, videoID string) error {
	return c.del(ctx, videoKey(videoID))
}

func (c *CacheService) GetStats(ctx context.Context, channelID string, out any) (bool, error) {
	return c.get(ctx, statsKey(channelID), out)
}

func (c *CacheService) SetStats(ctx context.Context, channelID string, v any) error {
	return c.set(ctx, statsKey(channelID), v, statsCacheTTL)
}

func (c *CacheService) InvalidateStats(ctx context.Context, channelID string) error {
	return c.del(ctx, statsKey(channelID))
}

func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func videoKey(videoID string) string { return fmt.Sprintf("video:%s", videoID) }

func statsKey(channelID string) string { return fmt.Sprintf("stats:%s", channelID) }
