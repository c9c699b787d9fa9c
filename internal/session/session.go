package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jewelshop/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a token has no live session behind it.
var ErrNotFound = errors.New("session not found")

// Session is the request-scoped identity attached to every authenticated
// operation. VendorID is zero unless the user is a vendor.
type Session struct {
	Token    string      `json:"token"`
	UserID   int64       `json:"user_id"`
	Role     models.Role `json:"role"`
	VendorID int64       `json:"vendor_id,omitempty"`
}

// Store keeps sessions in Redis under a TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore creates a Redis-backed session store
func NewStore(addr, password string, db int, ttl time.Duration) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Store{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.rdb.Close()
}

func sessionKey(token string) string {
	return "session:" + token
}

// Create issues a fresh token for the session and persists it with TTL
func (s *Store) Create(ctx context.Context, sess *Session) error {
	sess.Token = uuid.New().String()

	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return s.rdb.Set(ctx, sessionKey(sess.Token), payload, s.ttl).Err()
}

// Get resolves a token into its session and refreshes the TTL
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	payload, err := s.rdb.Get(ctx, sessionKey(token)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// Sliding expiration: activity keeps the session alive.
	_ = s.rdb.Expire(ctx, sessionKey(token), s.ttl).Err()

	return &sess, nil
}

// Delete revokes a session token
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKey(token)).Err()
}
