package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/vibeshare/vibeshare/internal/model"
)

const profileKeyPrefix = "profile:"

// ProfileCache is a read-through cache in front of the profiles table.
type ProfileCache interface {
	// GetMany returns the cached profiles keyed by id. Misses are absent.
	GetMany(ctx context.Context, ids []string) (map[string]*model.Profile, error)
	SetMany(ctx context.Context, profiles []*model.Profile) error
	Close() error
}

// NewProfileCache connects to Redis when url is set and returns a no-op
// cache otherwise.
func NewProfileCache(ctx context.Context, url string, ttl time.Duration) (ProfileCache, error) {
	if url == "" {
		return NopProfileCache{}, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	err = client.Ping(ctx).Err()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	slog.Info("profile cache enabled", "addr", opts.Addr, "ttl", ttl)
	return NewRedisProfileCache(client, ttl), nil
}

type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration) *RedisProfileCache {
	return &RedisProfileCache{client: client, ttl: ttl}
}

func (c *RedisProfileCache) GetMany(ctx context.Context, ids []string) (map[string]*model.Profile, error) {
	found := make(map[string]*model.Profile, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = profileKeyPrefix + id
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // redis.Nil entries come back as nil
		}
		var profile model.Profile
		err = json.Unmarshal([]byte(raw), &profile)
		if err != nil {
			slog.Warn("dropping corrupt cached profile", "id", ids[i], "error", err)
			continue
		}
		found[ids[i]] = &profile
	}

	return found, nil
}

func (c *RedisProfileCache) SetMany(ctx context.Context, profiles []*model.Profile) error {
	if len(profiles) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for _, p := range profiles {
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		pipe.Set(ctx, profileKeyPrefix+p.ID, data, c.ttl)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisProfileCache) Close() error {
	return c.client.Close()
}

// NopProfileCache always misses.
type NopProfileCache struct{}

func (NopProfileCache) GetMany(context.Context, []string) (map[string]*model.Profile, error) {
	return map[string]*model.Profile{}, nil
}

func (NopProfileCache) SetMany(context.Context, []*model.Profile) error { return nil }

func (NopProfileCache) Close() error { return nil }
