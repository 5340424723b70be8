package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nimbrus/accounts-api/internal/constants"
	"github.com/nimbrus/accounts-api/internal/dto"
	"github.com/nimbrus/accounts-api/pkg/logger"
	"github.com/nimbrus/accounts-api/pkg/redis"
)

// ProfileCache is a read cache in front of the user store for the
// access-guard hot path. Every method degrades to a miss / no-op on
// cache trouble; correctness never depends on Redis.
type ProfileCache struct {
	redisClient redis.Client
	ttl         time.Duration
}

// NewProfileCache creates the profile read cache
func NewProfileCache(redisClient redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func profileKey(userID string) string {
	return constants.CacheKeyProfile + userID
}

// Get returns the cached profile, or nil on miss
func (c *ProfileCache) Get(ctx context.Context, userID string) *dto.UserResponse {
	if c == nil || c.redisClient == nil || !c.redisClient.IsEnabled() {
		return nil
	}

	data, err := c.redisClient.Get(ctx, profileKey(userID))
	if err != nil || data == nil {
		return nil
	}

	var profile dto.UserResponse
	if err := json.Unmarshal(data, &profile); err != nil {
		logger.WarnWithContext(ctx, "Dropping undecodable cached profile").
			Err(err).
			Log()
		_ = c.redisClient.Delete(ctx, profileKey(userID))
		return nil
	}

	return &profile
}

// Set stores the profile with the configured TTL
func (c *ProfileCache) Set(ctx context.Context, profile *dto.UserResponse) {
	if c == nil || c.redisClient == nil || !c.redisClient.IsEnabled() || profile == nil {
		return
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return
	}

	if err := c.redisClient.Set(ctx, profileKey(profile.ID), data, c.ttl); err != nil {
		logger.WarnWithContext(ctx, "Failed to cache profile").
			Err(err).
			Log()
	}
}

// Invalidate drops the cached profile for one user
func (c *ProfileCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.redisClient == nil || !c.redisClient.IsEnabled() {
		return
	}
	_ = c.redisClient.Delete(ctx, profileKey(userID))
}
