// Package session keeps the login session lifecycle in Redis, keyed by
// token with an expiry-aware TTL, instead of only on the user record.
// One session per user: a new login replaces the previous one.
package session

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"strconv"       // Key formatting
	"time"          // TTL durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Session is the payload stored per active token
type Session struct {
	UserID uint   `json:"user_id"` // Owning user ID
	Email  string `json:"email"`   // Login email at issue time
}

// Store is a Redis-backed session/token store
type Store struct {
	rdb *redis.Client // Redis client
	ttl time.Duration // Session lifetime, matches the token expiry
}

// NewStore creates a session store with the given session lifetime
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// tokenKey maps a token to its session payload
func tokenKey(token string) string {
	return "session:token:" + token
}

// userKey maps a user ID to their current token
func userKey(userID uint) string {
	return "session:user:" + strconv.Itoa(int(userID))
}

// Put stores the session for a freshly issued token, replacing any
// previous session held by the same user
func (s *Store) Put(ctx context.Context, token string, sess Session) error {
	// Drop the user's previous session so the old token stops resolving
	if prev, err := s.rdb.Get(ctx, userKey(sess.UserID)).Result(); err == nil && prev != "" {
		if err := s.rdb.Del(ctx, tokenKey(prev)).Err(); err != nil {
			return err // Surface Redis failures to the caller
		}
	} else if err != nil && err != redis.Nil {
		return err // Other Redis error
	}
	b, err := json.Marshal(sess) // Marshal session payload
	if err != nil {
		return err // Return error if marshaling fails
	}
	// Store token -> session and user -> current token, both expiring with the token
	if err := s.rdb.Set(ctx, tokenKey(token), b, s.ttl).Err(); err != nil {
		return err
	}
	return s.rdb.Set(ctx, userKey(sess.UserID), token, s.ttl).Err()
}

// Get resolves a token to its session; found=false when the token is
// unknown, superseded, or expired
func (s *Store) Get(ctx context.Context, token string) (Session, bool, error) {
	val, err := s.rdb.Get(ctx, tokenKey(token)).Result() // Look up the token
	if err == redis.Nil {
		return Session{}, false, nil // Token not active
	} else if err != nil {
		return Session{}, false, err // Other Redis error
	}
	var sess Session
	return sess, true, json.Unmarshal([]byte(val), &sess) // Unmarshal session payload
}

// Delete removes a session on logout
func (s *Store) Delete(ctx context.Context, token string, userID uint) error {
	return s.rdb.Del(ctx, tokenKey(token), userKey(userID)).Err() // Drop both directions
}
