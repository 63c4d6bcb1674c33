package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionTTL is how long a bearer token stays valid after login.
const SessionTTL = 24 * time.Hour

// SessionStore wraps Redis for bearer-token session management. The token
// handed out at login is the session id itself.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Create stores a new session mapping token -> userID and returns the token.
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.New().String()
	err := s.rdb.Set(ctx, "session:"+token, userID, SessionTTL).Err()
	return token, err
}

// Get returns the userID for a token, or "" if not found / expired.
func (s *SessionStore) Get(ctx context.Context, token string) (string, error) {
	val, err := s.rdb.Get(ctx, "session:"+token).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// Delete revokes a token.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, "session:"+token).Err()
}
