package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kriswind/everything-app/model"

	"github.com/redis/go-redis/v9"
)

type SessionCache struct {
	client *redis.Client
}

// GlobalSessionCache is optional; a nil cache means every session lookup
// goes to the database.
var GlobalSessionCache *SessionCache

// NewSessionCache creates and initializes a new session cache
func NewSessionCache(redisURL string) (*SessionCache, error) {
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

	return &SessionCache{client: client}, nil
}

// SetSession caches a session with a TTL matching its expiry.
func (sc *SessionCache) SetSession(session *model.Session) error {
	if session == nil {
		return fmt.Errorf("cannot cache nil session")
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session has already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %v", err)
	}

	ctx := context.Background()
	key := fmt.Sprintf("session:%s", session.SessionID)

	if err := sc.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache session: %v", err)
	}

	return nil
}

// GetSession retrieves a session from cache. A miss returns (nil, nil).
func (sc *SessionCache) GetSession(sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID cannot be empty")
	}

	ctx := context.Background()
	key := fmt.Sprintf("session:%s", sessionID)

	data, err := sc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from cache: %v", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %v", err)
	}

	if time.Now().After(session.ExpiresAt) {
		sc.DeleteSession(sessionID)
		return nil, nil
	}

	return &session, nil
}

// DeleteSession removes a session from cache
func (sc *SessionCache) DeleteSession(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID cannot be empty")
	}

	ctx := context.Background()
	key := fmt.Sprintf("session:%s", sessionID)

	if err := sc.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete session from cache: %v", err)
	}

	return nil
}

func (sc *SessionCache) IsConnected() bool {
	if sc == nil || sc.client == nil {
		return false
	}
	ctx := context.Background()
	return sc.client.Ping(ctx).Err() == nil
}

// Close closes the Redis connection
func (sc *SessionCache) Close() error {
	return sc.client.Close()
}
