package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// sessionPrefix is the Redis key prefix for login sessions.
const sessionPrefix = "session:"

// Session is the login state stored in Redis, keyed by session token.
// Only the user id is authoritative; the user row is re-read from Postgres
// on every request so role or name changes take effect immediately.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SetSession stores a session under its token with the given TTL.
func (c *Cache) SetSession(ctx context.Context, token string, session *Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := c.client.Set(ctx, sessionPrefix+token, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// GetSession retrieves a session by token.
// Returns nil for a missing or corrupted entry (treated as "not logged in").
func (c *Cache) GetSession(ctx context.Context, token string) (*Session, error) {
	data, err := c.client.Get(ctx, sessionPrefix+token).Bytes()
	if err != nil {
		// Missing session is not an error
		return nil, nil //nolint:nilerr
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		// Corrupted entry - treat as missing
		return nil, nil //nolint:nilerr
	}

	return &session, nil
}

// DeleteSession removes a session (logout).
func (c *Cache) DeleteSession(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, sessionPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
