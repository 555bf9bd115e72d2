package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marigunko/my-recipe-book/internal/model"
)

// sessionKeyPrefix is the Redis key prefix for browser sessions.
// Keys are derived from the SHA-256 hash of the session token; the
// plaintext token only ever lives in the browser's cookie.
const sessionKeyPrefix = "session:"

// GetSession retrieves a session by token hash.
// Returns nil if not found or expired (cache miss is not an error).
func (c *Cache) GetSession(ctx context.Context, tokenHash string) (*model.Session, error) {
	key := sessionKeyPrefix + tokenHash

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Missing key means no session
		return nil, nil //nolint:nilerr
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// Corrupted entry - treat as unauthenticated
		return nil, nil //nolint:nilerr
	}

	return &sess, nil
}

// SetSession stores a session under its token hash with a TTL matching
// the session expiry.
func (c *Cache) SetSession(ctx context.Context, tokenHash string, sess *model.Session) error {
	key := sessionKeyPrefix + tokenHash

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// RefreshSession slides a session's expiry forward and rewrites the
// stored payload. Used by the access gate once a session passes half
// its lifetime.
func (c *Cache) RefreshSession(ctx context.Context, tokenHash string, sess *model.Session, lifetime time.Duration) (*model.Session, error) {
	now := time.Now().UTC()
	refreshed := *sess
	refreshed.CreatedAt = now
	refreshed.ExpiresAt = now.Add(lifetime)

	if err := c.SetSession(ctx, tokenHash, &refreshed); err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	return &refreshed, nil
}

// DeleteSession removes a session. Used on logout.
func (c *Cache) DeleteSession(ctx context.Context, tokenHash string) error {
	key := sessionKeyPrefix + tokenHash
	return c.client.Del(ctx, key).Err()
}
