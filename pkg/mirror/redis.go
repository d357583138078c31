// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

package mirror

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists mirror payloads as plain Redis string keys.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to addr and verifies the link with a ping.
// Keys are written under prefix, e.g. "cocotte:modules".
func NewRedisStore(ctx context.Context, addr, password, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

// Put stores one payload. Values never expire; the mirror overwrites
// them on every change.
func (s *RedisStore) Put(ctx context.Context, key string, payload []byte) error {
	return s.client.Set(ctx, s.prefix+key, payload, 0).Err()
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
