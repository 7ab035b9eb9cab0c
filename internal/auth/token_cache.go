package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// M2MTokenKey is the default Redis key for the cached M2M token.
	M2MTokenKey = "m2m_token"
	// TokenExpiryBuffer is how many seconds before real expiry a cached
	// token is treated as stale, so callers refresh early.
	TokenExpiryBuffer = 60
)

// TokenCache is a cached access token plus its expiry.
type TokenCache struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsValid reports whether the token is still usable, counting the refresh
// buffer as already expired.
func (tc *TokenCache) IsValid() bool {
	if tc == nil || tc.Token == "" {
		return false
	}
	return time.Now().Add(TokenExpiryBuffer * time.Second).Before(tc.ExpiresAt)
}

// RedisTokenCache stores M2M tokens in Redis. Key is configurable so two
// upstream clients with different credentials never share a token.
type RedisTokenCache struct {
	Client *redis.Client
	Key    string
}

func NewRedisTokenCache(client *redis.Client) *RedisTokenCache {
	return &RedisTokenCache{
		Client: client,
		Key:    M2MTokenKey,
	}
}

func (c *RedisTokenCache) key() string {
	if c.Key == "" {
		return M2MTokenKey
	}
	return c.Key
}

// GetToken returns the cached token, or nil when nothing usable is cached.
// An expired-but-present token is treated the same as a miss.
func (c *RedisTokenCache) GetToken(ctx context.Context) (*TokenCache, error) {
	if c.Client == nil {
		return nil, fmt.Errorf("redis client not initialized")
	}

	tokenJSON, err := c.Client.Get(ctx, c.key()).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get token from Redis: %w", err)
	}

	var tokenCache TokenCache
	if err := json.Unmarshal([]byte(tokenJSON), &tokenCache); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token cache: %w", err)
	}

	if !tokenCache.IsValid() {
		return nil, nil
	}

	return &tokenCache, nil
}

// SetToken caches a token for expiresIn seconds. The Redis TTL runs slightly
// past the token expiry so clock skew never serves a key with no value.
func (c *RedisTokenCache) SetToken(ctx context.Context, token string, expiresIn int) error {
	if c.Client == nil {
		return fmt.Errorf("redis client not initialized")
	}

	tokenCache := &TokenCache{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Duration(expiresIn) * time.Second),
	}

	tokenJSON, err := json.Marshal(tokenCache)
	if err != nil {
		return fmt.Errorf("failed to marshal token cache: %w", err)
	}

	ttl := time.Duration(expiresIn+TokenExpiryBuffer) * time.Second
	if err := c.Client.Set(ctx, c.key(), tokenJSON, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token in Redis: %w", err)
	}

	return nil
}
