// Package redis implements the read-through caches on Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KartikVerma96/paregrose/internal/domain"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

const (
	settingsKey  = "settings:store"
	analyticsKey = "analytics:overview"

	DefaultSettingsTTL  = 5 * time.Minute
	DefaultAnalyticsTTL = 60 * time.Second
)

// jsonValue stores one JSON document under a fixed key.
type jsonValue struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func (v jsonValue) get(ctx context.Context, out any) error {
	data, err := v.client.Get(ctx, v.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("redis get %s: %w", v.key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal %s: %w", v.key, err)
	}
	return nil
}

func (v jsonValue) set(ctx context.Context, in any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", v.key, err)
	}
	if err := v.client.Set(ctx, v.key, data, v.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", v.key, err)
	}
	return nil
}

// SettingsCache implements repository.SettingsCache.
type SettingsCache struct {
	v jsonValue
}

func NewSettingsCache(client *redis.Client, ttl time.Duration) *SettingsCache {
	if ttl <= 0 {
		ttl = DefaultSettingsTTL
	}
	return &SettingsCache{v: jsonValue{client: client, key: settingsKey, ttl: ttl}}
}

// Get returns ErrNotFound on a cache miss.
func (c *SettingsCache) Get(ctx context.Context) (*domain.StoreSettings, error) {
	var s domain.StoreSettings
	if err := c.v.get(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *SettingsCache) Set(ctx context.Context, s *domain.StoreSettings) error {
	return c.v.set(ctx, s)
}

func (c *SettingsCache) Invalidate(ctx context.Context) error {
	if err := c.v.client.Del(ctx, settingsKey).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", settingsKey, err)
	}
	return nil
}

// AnalyticsCache implements repository.AnalyticsCache.
type AnalyticsCache struct {
	v jsonValue
}

func NewAnalyticsCache(client *redis.Client, ttl time.Duration) *AnalyticsCache {
	if ttl <= 0 {
		ttl = DefaultAnalyticsTTL
	}
	return &AnalyticsCache{v: jsonValue{client: client, key: analyticsKey, ttl: ttl}}
}

func (c *AnalyticsCache) Get(ctx context.Context) (*domain.AnalyticsOverview, error) {
	var o domain.AnalyticsOverview
	if err := c.v.get(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *AnalyticsCache) Set(ctx context.Context, o *domain.AnalyticsOverview) error {
	return c.v.set(ctx, o)
}
