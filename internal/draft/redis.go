// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces draft keys in Redis.
const DefaultKeyPrefix = "composer:draft:"

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	// Addr is the server address, e.g. "localhost:6379".
	Addr string

	// Password and DB select the database.
	Password string
	DB       int

	// KeyPrefix defaults to DefaultKeyPrefix.
	KeyPrefix string

	// TTL expires idle drafts. Zero keeps them forever.
	TTL time.Duration
}

// RedisStore keeps drafts in Redis so several hosts share them.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}

	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: opts.TTL}, nil
}

func (s *RedisStore) key(spaceID string) string {
	return s.prefix + spaceID
}

// Load returns the stored draft.
func (s *RedisStore) Load(ctx context.Context, spaceID string) (string, error) {
	value, err := s.client.Get(ctx, s.key(spaceID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load draft %q: %w", spaceID, err)
	}
	return value, nil
}

// Save stores value, refreshing the TTL.
func (s *RedisStore) Save(ctx context.Context, spaceID, value string) error {
	if err := s.client.Set(ctx, s.key(spaceID), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft %q: %w", spaceID, err)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
