// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"charterdesk/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient caches derived views (alert feed keyed by snapshot revision).
	CacheClient *redis.Client
	// NotifyClient holds the operations notification list fed by the reminder worker.
	NotifyClient *redis.Client
)

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitNotifyClient initializes the Redis client backing the notification list.
func InitNotifyClient() {
	NotifyClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NotifyClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Notify): %v", err)
	}
}

// GetNotifyClient returns the Redis client for the notification list.
func GetNotifyClient() *redis.Client {
	if NotifyClient == nil {
		InitNotifyClient()
	}
	return NotifyClient
}
