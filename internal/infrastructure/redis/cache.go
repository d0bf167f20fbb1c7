package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/travel-advisor/internal/domain"
)

const keyPrefix = "travel-advisor:popular:"

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// PopularCache stores completion answers for popular-spot queries.
type PopularCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewPopularCache(client redis.Cmdable, ttl time.Duration) *PopularCache {
	return &PopularCache{client: client, ttl: ttl}
}

// Get returns the cached answer. A miss yields domain.ErrNotFound.
func (c *PopularCache) Get(ctx context.Context, city, preference string) (*domain.PopularSpots, error) {
	raw, err := c.client.Get(ctx, popularKey(city, preference)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var out domain.PopularSpots
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode cached popular spots: %w", err)
	}
	return &out, nil
}

func (c *PopularCache) Set(ctx context.Context, city, preference string, v *domain.PopularSpots) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode popular spots: %w", err)
	}
	if err := c.client.Set(ctx, popularKey(city, preference), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// popularKey escapes each part so ':' inside a city or preference cannot shift the separator.
func popularKey(city, preference string) string {
	return keyPrefix + keyPart(city) + ":" + keyPart(preference)
}

func keyPart(s string) string {
	return url.QueryEscape(strings.ToLower(strings.TrimSpace(s)))
}
