package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-booking/internal/logger"
)

// InitializeTokenCache opens the Redis connection backing the M2M token
// cache and proves it is writable before the sync path depends on it.
func InitializeTokenCache(redisAddr string, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		PoolSize: 10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if log != nil {
			log.Error("AUTH", fmt.Sprintf("Failed to connect to Redis at %s: %v", redisAddr, err))
		}
		return nil, fmt.Errorf("token cache redis unreachable: %w", err)
	}

	// A reachable Redis can still be read-only (e.g. a replica); try a write.
	checkKey := M2MTokenKey + ":check"
	if err := client.Set(ctx, checkKey, "ok", 5*time.Second).Err(); err != nil {
		if log != nil {
			log.Error("AUTH", fmt.Sprintf("Token cache write check failed: %v", err))
		}
		return nil, fmt.Errorf("token cache redis not writable: %w", err)
	}

	if log != nil {
		log.Info("AUTH", fmt.Sprintf("Token cache ready on Redis at %s", redisAddr))
	}
	return client, nil
}
