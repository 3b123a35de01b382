// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"cargoassist/config"

	"github.com/go-redis/redis/v8"
)

// ConversationCacheClient is the dedicated client for conversation history.
var ConversationCacheClient *redis.Client

// InitConversationCache initializes the Redis client used for conversation history.
func InitConversationCache() {
	ConversationCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisConversationDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := ConversationCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Conversation Cache): %v", err)
	}
}

// GetConversationCacheClient returns the Redis client for conversation history.
func GetConversationCacheClient() *redis.Client {
	if ConversationCacheClient == nil {
		InitConversationCache()
	}
	return ConversationCacheClient
}
