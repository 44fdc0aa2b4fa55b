package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

// RevocationStore tracks signed-out token ids until their natural expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type redisRevocationStore struct {
	client *redis.Client
}

// NewRevocationStore returns a Redis-backed implementation.
func NewRevocationStore(client *redis.Client) RevocationStore {
	return &redisRevocationStore{client: client}
}

func (s *redisRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
