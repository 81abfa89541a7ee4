package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisUsageKeyPrefix = "repurpose:usage:"
	// Keys are per day; keep them a little past the day boundary and let Redis
	// drop them afterwards.
	redisUsageTTL = 48 * time.Hour
)

type redisUsageStore struct {
	client *redis.Client
}

// NewRedisUsageStore returns a UsageStore backed by Redis INCR.
func NewRedisUsageStore(client *redis.Client) UsageStore {
	return &redisUsageStore{client: client}
}

// ConnectRedis parses redisURL (or treats it as host:port) and pings the server.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("REDIS_URL is not set")
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

func (s *redisUsageStore) Get(ctx context.Context, key string) (int, error) {
	n, err := s.client.Get(ctx, redisUsageKeyPrefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading usage %s: %w", key, err)
	}
	return n, nil
}

func (s *redisUsageStore) Increment(ctx context.Context, key string) (int, error) {
	k := redisUsageKeyPrefix + key
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, redisUsageTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("incrementing usage %s: %w", key, err)
	}
	return int(incr.Val()), nil
}
