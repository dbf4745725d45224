package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"central-lost-found/backend/internal/session/domain"
)

const redisKeyPrefix = "lostfound:session:"

// RedisStore keeps sessions in Redis so every API replica sees the same tokens.
// Expiry is delegated to Redis key TTLs.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	nowF   func() time.Time
}

// NewRedisStore returns a store backed by client. ttl of zero stores keys without expiry.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		nowF:   func() time.Time { return time.Now().UTC() },
	}
}

// NewRedisClient parses url, pings the server, and returns the client.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Create stores a new session under a random token.
func (s *RedisStore) Create(ctx context.Context, identity domain.Identity) (*domain.Session, error) {
	sess := newSession(identity, s.nowF(), s.ttl)
	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("session: marshal: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+sess.Token, payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("session: redis set: %w", err)
	}
	return sess, nil
}

// Lookup returns the session for token, or nil when the key does not exist.
func (s *RedisStore) Lookup(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := s.client.Get(ctx, redisKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("session: redis get: %w", err)
	}
	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("session: unmarshal: %w", err)
	}
	if sess.Expired(s.nowF()) {
		return nil, nil
	}
	return &sess, nil
}

// Expire deletes the key for token.
func (s *RedisStore) Expire(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}
