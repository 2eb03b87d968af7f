package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore holds the refresh token on record per assistant. Logout and
// rotation work by replacing or deleting the stored value.
type TokenStore interface {
	SaveRefresh(ctx context.Context, assistantID uuid.UUID, token string, ttl time.Duration) error
	GetRefresh(ctx context.Context, assistantID uuid.UUID) (string, error)
	DeleteRefresh(ctx context.Context, assistantID uuid.UUID) error
}

type redisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func refreshKey(assistantID uuid.UUID) string {
	return fmt.Sprintf("refresh:%s", assistantID)
}

func (rs *redisTokenStore) SaveRefresh(ctx context.Context, assistantID uuid.UUID, token string, ttl time.Duration) error {
	return rs.client.Set(ctx, refreshKey(assistantID), token, ttl).Err()
}

func (rs *redisTokenStore) GetRefresh(ctx context.Context, assistantID uuid.UUID) (string, error) {
	val, err := rs.client.Get(ctx, refreshKey(assistantID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (rs *redisTokenStore) DeleteRefresh(ctx context.Context, assistantID uuid.UUID) error {
	return rs.client.Del(ctx, refreshKey(assistantID)).Err()
}
