package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kriswind/everything-app/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

type RedisTokenBlacklist struct {
	Client *redis.Client
}

// TokenBlacklist is the global instance. When nil (Redis not configured)
// blacklisting degrades to a no-op and nothing is ever reported blacklisted.
var TokenBlacklist *RedisTokenBlacklist

// NewTokenBlacklist creates a new Redis-backed token blacklist
func NewTokenBlacklist(redisURL string) (*RedisTokenBlacklist, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &RedisTokenBlacklist{Client: client}, nil
}

// BlacklistTokens invalidates both tokens of a session on logout.
func BlacklistTokens(accessToken, refreshToken string) error {
	if TokenBlacklist == nil {
		return nil
	}
	return TokenBlacklist.blacklistTokens(accessToken, refreshToken)
}

func (tb *RedisTokenBlacklist) blacklistTokens(accessToken, refreshToken string) error {
	if err := tb.blacklistSingleToken(accessToken, "access"); err != nil {
		return fmt.Errorf("failed to blacklist access token: %v", err)
	}

	if err := tb.blacklistSingleToken(refreshToken, "refresh"); err != nil {
		return fmt.Errorf("failed to blacklist refresh token: %v", err)
	}

	return nil
}

// blacklistSingleToken stores the token until its own expiry; an already
// expired token needs no entry.
func (tb *RedisTokenBlacklist) blacklistSingleToken(tokenString string, tokenType string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(utils.JWTSecretKey), nil
	})

	if err != nil {
		if !strings.Contains(err.Error(), "token is expired") {
			return fmt.Errorf("failed to parse token: %v", err)
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("failed to get claims from token")
	}

	var expirationTime time.Time
	if exp, ok := claims["exp"].(float64); ok {
		expirationTime = time.Unix(int64(exp), 0)
	} else {
		expirationTime = time.Now().Add(24 * time.Hour)
	}

	ttl := time.Until(expirationTime)
	if ttl <= 0 {
		return nil
	}

	ctx := context.Background()
	key := fmt.Sprintf("blacklist:%s:%s", tokenType, tokenString)

	if err := tb.Client.Set(ctx, key, "true", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token in Redis: %v", err)
	}

	return nil
}

// IsTokenBlacklisted checks if a token is in the blacklist
func IsTokenBlacklisted(tokenString string) bool {
	if TokenBlacklist == nil {
		return false
	}
	return TokenBlacklist.isTokenBlacklisted(tokenString)
}

func (tb *RedisTokenBlacklist) isTokenBlacklisted(tokenString string) bool {
	ctx := context.Background()

	accessKey := fmt.Sprintf("blacklist:access:%s", tokenString)
	refreshKey := fmt.Sprintf("blacklist:refresh:%s", tokenString)

	// One round trip for both keys
	pipe := tb.Client.Pipeline()
	accessCmd := pipe.Exists(ctx, accessKey)
	refreshCmd := pipe.Exists(ctx, refreshKey)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Error checking token blacklist: %v", err)
		return false
	}

	return accessCmd.Val() > 0 || refreshCmd.Val() > 0
}

// IsConnected checks if the Redis connection is alive
func (tb *RedisTokenBlacklist) IsConnected() bool {
	if tb == nil || tb.Client == nil {
		return false
	}
	ctx := context.Background()
	return tb.Client.Ping(ctx).Err() == nil
}

// Close closes the Redis connection
func (tb *RedisTokenBlacklist) Close() error {
	return tb.Client.Close()
}
