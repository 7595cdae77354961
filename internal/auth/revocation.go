package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker blacklists token IDs until their natural expiry, so a logout
// invalidates the token server-side.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RevocationStore is the Redis-backed Revoker used in production.
type RevocationStore struct {
	client *redis.Client
}

func NewRevocationStore(addr string) (*RevocationStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RevocationStore{client: client}, nil
}

func (s *RevocationStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, "revoked:"+jti, "1", ttl).Err()
}

func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, err := s.client.Get(ctx, "revoked:"+jti).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
