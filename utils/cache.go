// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"flightbot/config"

	"github.com/go-redis/redis/v8"
)

// ContextCacheClient backs the conversation context store.
var ContextCacheClient *redis.Client

// InitContextCache initializes the Redis client for conversation contexts.
func InitContextCache() {
	ContextCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisContextDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := ContextCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Context Cache): %v", err)
	}
}

// GetContextCacheClient returns the Redis client for conversation contexts.
func GetContextCacheClient() *redis.Client {
	if ContextCacheClient == nil {
		InitContextCache()
	}
	return ContextCacheClient
}
