package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisTokenBlacklist struct {
	Client *redis.Client
}

// TokenBlacklist is the global instance
var TokenBlacklist *RedisTokenBlacklist

// NewTokenBlacklist creates a new Redis-backed token blacklist
func NewTokenBlacklist(redisURL string) (*RedisTokenBlacklist, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &RedisTokenBlacklist{Client: client}, nil
}

// BlacklistTokens adds both access and refresh tokens to the blacklist
func BlacklistTokens(accessToken, refreshToken string) error {
	if TokenBlacklist == nil {
		return fmt.Errorf("token blacklist not initialized")
	}

	if err := TokenBlacklist.blacklistSingleToken(accessToken); err != nil {
		return fmt.Errorf("failed to blacklist access token: %v", err)
	}
	if refreshToken != "" {
		if err := TokenBlacklist.blacklistSingleToken(refreshToken); err != nil {
			return fmt.Errorf("failed to blacklist refresh token: %v", err)
		}
	}
	return nil
}

// blacklistSingleToken adds a single token to the blacklist until its expiration
func (tb *RedisTokenBlacklist) blacklistSingleToken(tokenString string) error {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return err
	}

	ttl := time.Hour
	if exp, ok := claims["exp"].(float64); ok {
		until := time.Until(time.Unix(int64(exp), 0))
		if until <= 0 {
			// Already expired, nothing to blacklist
			return nil
		}
		ttl = until
	}

	ctx := context.Background()
	key := fmt.Sprintf("blacklist:%s", tokenString)
	return tb.Client.Set(ctx, key, "1", ttl).Err()
}

// IsTokenBlacklisted checks whether a token has been invalidated
func IsTokenBlacklisted(tokenString string) bool {
	if TokenBlacklist == nil {
		return false
	}

	ctx := context.Background()
	key := fmt.Sprintf("blacklist:%s", tokenString)
	exists, err := TokenBlacklist.Client.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("Blacklist check failed: %v", err)
		return false
	}
	return exists > 0
}
