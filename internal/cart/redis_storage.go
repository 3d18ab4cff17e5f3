package cart

import (
	"context"
	"errors"
	"time"

	pkgredis "github.com/lmarceau/privastore-backend/pkg/redis"
)

// RedisStorage backs cart slots with one Redis key per session.
type RedisStorage struct {
	client *pkgredis.Client
	ttl    time.Duration
}

func NewRedisStorage(client *pkgredis.Client, ttl time.Duration) (*RedisStorage, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisStorage{client: client, ttl: ttl}, nil
}

func (r *RedisStorage) Read(ctx context.Context, sessionID string) ([]byte, error) {
	payload, err := r.client.Get(ctx, r.client.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return []byte(payload), nil
}

func (r *RedisStorage) Write(ctx context.Context, sessionID string, payload []byte) error {
	return r.client.Set(ctx, r.client.CartKey(sessionID), payload, r.ttl)
}

func (r *RedisStorage) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.client.CartKey(sessionID))
}
